// Package ledger is the single entry path for a user's financial records.
// Direct data entry and executed suggestions both go through it, so
// validation and defaults are applied the same way everywhere.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
)

// Store is the subset of storage the ledger needs.
type Store interface {
	storage.UserStore
	storage.FinanceStore
}

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransactionInput is the user-provided part of a transaction.
type TransactionInput struct {
	// Date is YYYY-MM-DD; empty means today.
	Date        string
	Amount      float64
	Category    string
	Description string
	Merchant    string
	AccountType string

	// RecurringID links the entry to the template that generated it.
	RecurringID string
}

// GoalInput is the user-provided part of a goal.
type GoalInput struct {
	Name                string
	TargetAmount        float64
	CurrentAmount       float64
	Deadline            string // YYYY-MM-DD, optional
	Category            string
	MonthlyContribution float64
}

// BudgetInput is the user-provided part of a budget.
type BudgetInput struct {
	Category string
	Amount   float64
	Month    string // YYYY-MM; empty means the current month
}

// InvestmentInput is the user-provided part of a holding.
type InvestmentInput struct {
	Symbol       string
	Name         string
	AssetType    string
	Shares       float64
	CostBasis    float64
	CurrentPrice float64
}

// Ledger validates inputs and appends records for a user.
type Ledger struct {
	store Store
	now   func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for defaults.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger backed by the given store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddTransaction validates and appends a transaction.
func (l *Ledger) AddTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if in.Amount == 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be non-zero"}
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "required"}
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, &ValidationError{Field: "category", Reason: err.Error()}
	}
	date, err := l.parseDay(in.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	tx := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Amount:      in.Amount,
		Category:    category,
		Description: description,
		Merchant:    strings.TrimSpace(in.Merchant),
		AccountType: strings.TrimSpace(in.AccountType),
		RecurringID: in.RecurringID,
		CreatedAt:   l.now().Unix(),
	}
	if err := l.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// AddGoal validates and creates a goal.
func (l *Ledger) AddGoal(ctx context.Context, userID string, in GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if in.TargetAmount <= 0 {
		return nil, &ValidationError{Field: "target_amount", Reason: "must be positive"}
	}
	if in.CurrentAmount < 0 {
		return nil, &ValidationError{Field: "current_amount", Reason: "must not be negative"}
	}
	if in.MonthlyContribution < 0 {
		return nil, &ValidationError{Field: "monthly_contribution", Reason: "must not be negative"}
	}

	var deadline time.Time
	if in.Deadline != "" {
		d, err := time.Parse(models.DateLayout, in.Deadline)
		if err != nil {
			return nil, &ValidationError{Field: "deadline", Reason: "expected YYYY-MM-DD"}
		}
		deadline = d
	}

	goal := &models.Goal{
		UserID:              userID,
		Name:                name,
		TargetAmount:        in.TargetAmount,
		CurrentAmount:       in.CurrentAmount,
		Deadline:            deadline,
		Category:            strings.TrimSpace(in.Category),
		MonthlyContribution: in.MonthlyContribution,
		CreatedAt:           l.now().Unix(),
	}
	if err := l.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// AddBudget validates and creates a monthly budget. A second budget for the
// same category and month fails with storage.ErrDuplicate.
func (l *Ledger) AddBudget(ctx context.Context, userID string, in BudgetInput) (*models.Budget, error) {
	if in.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, &ValidationError{Field: "category", Reason: err.Error()}
	}
	month := in.Month
	if month == "" {
		month = l.now().UTC().Format(models.MonthLayout)
	} else if _, err := time.Parse(models.MonthLayout, month); err != nil {
		return nil, &ValidationError{Field: "month", Reason: "expected YYYY-MM"}
	}

	budget := &models.Budget{
		UserID:    userID,
		Category:  category,
		Amount:    in.Amount,
		Month:     month,
		CreatedAt: l.now().Unix(),
	}
	if err := l.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// AddInvestment validates and records a holding.
func (l *Ledger) AddInvestment(ctx context.Context, userID string, in InvestmentInput) (*models.Investment, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return nil, &ValidationError{Field: "symbol", Reason: "required"}
	}
	if in.Shares <= 0 {
		return nil, &ValidationError{Field: "shares", Reason: "must be positive"}
	}
	if in.CostBasis < 0 || in.CurrentPrice < 0 {
		return nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}

	inv := &models.Investment{
		UserID:       userID,
		Symbol:       symbol,
		Name:         strings.TrimSpace(in.Name),
		AssetType:    strings.TrimSpace(in.AssetType),
		Shares:       in.Shares,
		CostBasis:    in.CostBasis,
		CurrentPrice: in.CurrentPrice,
		CreatedAt:    l.now().Unix(),
	}
	if err := l.store.CreateInvestment(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Snapshot reads the user and everything they own.
// Returns an error wrapping storage.ErrNotFound for unknown users.
func (l *Ledger) Snapshot(ctx context.Context, userID string) (*models.Snapshot, error) {
	user, err := l.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{User: user}
	if snap.Transactions, err = l.store.ListTransactions(ctx, userID); err != nil {
		return nil, err
	}
	if snap.Goals, err = l.store.ListGoals(ctx, userID); err != nil {
		return nil, err
	}
	if snap.Budgets, err = l.store.ListBudgets(ctx, userID); err != nil {
		return nil, err
	}
	if snap.Investments, err = l.store.ListInvestments(ctx, userID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (l *Ledger) parseDay(s string) (time.Time, error) {
	if s == "" {
		now := l.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("expected YYYY-MM-DD")
	}
	return d, nil
}
