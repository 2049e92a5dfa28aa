package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-precision format used for transaction dates and goal deadlines.
const DateLayout = "2006-01-02"

// MonthLayout is the format of budget months.
const MonthLayout = "2006-01"

// Category is a spending or income category from a fixed set.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryGroceries      Category = "Groceries"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryUtilities      Category = "Utilities"
	CategoryHousing        Category = "Housing"
	CategoryHealthcare     Category = "Healthcare"
	CategorySubscriptions  Category = "Subscriptions"
	CategoryTravel         Category = "Travel"
	CategoryIncome         Category = "Income"
	CategoryOther          Category = "Other"
)

// Categories is the fixed category set.
var Categories = []Category{
	CategoryFood, CategoryGroceries, CategoryTransportation, CategoryShopping,
	CategoryEntertainment, CategoryUtilities, CategoryHousing, CategoryHealthcare,
	CategorySubscriptions, CategoryTravel, CategoryIncome, CategoryOther,
}

// ParseCategory matches s against the fixed set, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Transaction is a single ledger entry. Transactions are created once and
// never mutated or deleted.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the owner of the transaction.
	UserID string

	// Date is the day the transaction happened (UTC midnight).
	Date time.Time

	// Amount is signed: negative for expenses, positive for income.
	Amount float64

	Category    Category
	Description string
	Merchant    string

	// AccountType is free text such as "checking" or "credit".
	AccountType string

	// RecurringID is set on transactions generated from a recurring template.
	RecurringID string

	// CreatedAt is the Unix timestamp when the entry was recorded.
	CreatedAt int64
}

// IsExpense reports whether the transaction is money going out.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Goal is a savings target.
type Goal struct {
	ID     string
	UserID string
	Name   string

	TargetAmount  float64
	CurrentAmount float64

	// Deadline is optional; the zero time means no deadline.
	Deadline time.Time

	Category            string
	MonthlyContribution float64
	CreatedAt           int64
}

// HasDeadline reports whether the goal has a deadline set.
func (g Goal) HasDeadline() bool {
	return !g.Deadline.IsZero()
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID       string
	UserID   string
	Category Category
	Amount   float64

	// Month is formatted as YYYY-MM.
	Month string

	CreatedAt int64
}

// Investment is a current holding.
type Investment struct {
	ID        string
	UserID    string
	Symbol    string
	Name      string
	AssetType string
	Shares    float64

	// CostBasis is the total amount paid for all shares.
	CostBasis float64

	CurrentPrice float64
	CreatedAt    int64
}

// MarketValue is shares times current price.
func (i Investment) MarketValue() float64 {
	return i.Shares * i.CurrentPrice
}

// Snapshot is a read of everything a user owns, taken together.
type Snapshot struct {
	User         *User
	Transactions []Transaction
	Goals        []Goal
	Budgets      []Budget
	Investments  []Investment
}

// Empty reports whether the user has no financial data at all.
func (s *Snapshot) Empty() bool {
	return len(s.Transactions) == 0 && len(s.Goals) == 0 &&
		len(s.Budgets) == 0 && len(s.Investments) == 0
}
