package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/models"
)

// CategoryTotal is money spent in one category.
type CategoryTotal struct {
	Category models.Category
	Amount   decimal.Decimal
}

// SpendingByCategory sums expenses per category inside the window, as
// positive amounts, largest first. Ties are ordered by category name.
func SpendingByCategory(txs []models.Transaction, w Window) []CategoryTotal {
	totals := make(map[models.Category]decimal.Decimal)
	for _, tx := range txs {
		if !tx.IsExpense() || !w.Contains(tx.Date) {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(dec(tx.Amount).Neg())
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, amt := range totals {
		out = append(out, CategoryTotal{Category: c, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Amount.Cmp(out[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// AnalyzeTransactions reports spending and income for the requested window,
// optionally narrowed to one category.
func AnalyzeTransactions(snap *models.Snapshot, p Params) (*Result, error) {
	if len(snap.Transactions) == 0 {
		return nil, &InputError{Tool: Transactions, Message: "You don't have any transactions yet. Add one to see your spending."}
	}

	var (
		spent, income decimal.Decimal
		count         int
		largest       *models.Transaction
		daily         = make(map[string]decimal.Decimal)
	)
	for i := range snap.Transactions {
		tx := &snap.Transactions[i]
		if !p.Window.Contains(tx.Date) {
			continue
		}
		if p.Category != "" && tx.Category != p.Category {
			continue
		}
		count++
		amt := dec(tx.Amount)
		if !tx.IsExpense() {
			income = income.Add(amt)
			continue
		}
		spent = spent.Add(amt.Neg())
		day := tx.Date.Format(models.DateLayout)
		daily[day] = daily[day].Add(amt.Neg())
		if largest == nil || tx.Amount < largest.Amount {
			largest = tx
		}
	}

	scope := "in total"
	if p.Category != "" {
		scope = "on " + string(p.Category)
	}

	data := map[string]any{
		"window":            p.Window.Label,
		"window_start":      p.Window.Start.Format(models.DateLayout),
		"window_end":        p.Window.End.Format(models.DateLayout),
		"total_spent":       cents(spent),
		"total_income":      cents(income),
		"net":               cents(income.Sub(spent)),
		"transaction_count": count,
	}
	if p.Category != "" {
		data["category"] = string(p.Category)
	}

	if count == 0 {
		return &Result{
			Tool:    Transactions,
			Summary: fmt.Sprintf("I found no transactions %s for %s.", scope, p.Window.Label),
			Data:    data,
		}, nil
	}

	breakdown := make(map[string]float64)
	for _, ct := range SpendingByCategory(snap.Transactions, p.Window) {
		if p.Category != "" && ct.Category != p.Category {
			continue
		}
		breakdown[string(ct.Category)] = cents(ct.Amount)
	}
	data["by_category"] = breakdown

	var b strings.Builder
	fmt.Fprintf(&b, "You spent %s %s for %s", FormatMoney(spent), scope, p.Window.Label)
	if largest != nil {
		label := largest.Merchant
		if label == "" {
			label = largest.Description
		}
		data["largest_expense"] = map[string]any{
			"id":       largest.ID,
			"amount":   cents(dec(largest.Amount).Neg()),
			"merchant": label,
			"date":     largest.Date.Format(models.DateLayout),
		}
		if label != "" {
			fmt.Fprintf(&b, ". Your largest expense was %s at %s", FormatMoney(dec(largest.Amount).Neg()), label)
		}
	}
	b.WriteString(".")
	if income.IsPositive() {
		fmt.Fprintf(&b, " Income over the same period was %s.", FormatMoney(income))
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)
	series := make([]Point, 0, len(days))
	for _, d := range days {
		series = append(series, Point{Label: d, Value: cents(daily[d])})
	}

	return &Result{Tool: Transactions, Summary: b.String(), Data: data, Series: series}, nil
}
