package tools

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/models"
)

// Budget status labels.
const (
	StatusOnTrack    = "on_track"
	StatusWarning    = "warning"
	StatusOverBudget = "over_budget"
)

var (
	warningPct = decimal.NewFromInt(80)
	overPct    = decimal.NewFromInt(100)
)

// CategoryUsage compares a category's budget with what was spent against it.
type CategoryUsage struct {
	Category    models.Category
	Budgeted    decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	PercentUsed float64
	Status      string
}

// BudgetUsage returns usage for every budget of the given month, sorted by
// category. Spending is counted over the whole calendar month.
func BudgetUsage(snap *models.Snapshot, month string) []CategoryUsage {
	w := monthOf(month)
	if w.Start.IsZero() {
		return nil
	}

	spent := make(map[models.Category]decimal.Decimal)
	for _, ct := range SpendingByCategory(snap.Transactions, w) {
		spent[ct.Category] = ct.Amount
	}

	var out []CategoryUsage
	for _, b := range snap.Budgets {
		if b.Month != month {
			continue
		}
		budgeted := dec(b.Amount)
		s := spent[b.Category]
		u := CategoryUsage{
			Category:  b.Category,
			Budgeted:  budgeted,
			Spent:     s,
			Remaining: budgeted.Sub(s),
			Status:    StatusOnTrack,
		}
		if budgeted.IsPositive() {
			pct := s.Div(budgeted).Mul(hundred)
			u.PercentUsed = pct.Round(1).InexactFloat64()
			switch {
			case pct.GreaterThan(overPct):
				u.Status = StatusOverBudget
			case pct.GreaterThanOrEqual(warningPct):
				u.Status = StatusWarning
			}
		} else if s.IsPositive() {
			u.Status = StatusOverBudget
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func monthOf(month string) Window {
	start, err := parseMonth(month)
	if err != nil {
		return Window{}
	}
	return Window{Label: month, Start: start, End: start.AddDate(0, 1, 0)}
}

// AnalyzeBudget reports budget usage for the month of the requested window.
func AnalyzeBudget(snap *models.Snapshot, p Params) (*Result, error) {
	month := p.Window.Month()
	usage := BudgetUsage(snap, month)
	if len(usage) == 0 {
		return nil, &InputError{Tool: Budget, Message: fmt.Sprintf("You don't have any budgets for %s yet. Set one up to track your spending.", month)}
	}
	if p.Category != "" {
		var filtered []CategoryUsage
		for _, u := range usage {
			if u.Category == p.Category {
				filtered = append(filtered, u)
			}
		}
		if len(filtered) == 0 {
			return nil, &InputError{Tool: Budget, Message: fmt.Sprintf("You don't have a %s budget for %s.", p.Category, month)}
		}
		usage = filtered
	}

	var (
		totalBudgeted, totalSpent decimal.Decimal
		over, warning             []string
		categories                = make([]map[string]any, 0, len(usage))
		series                    = make([]Point, 0, len(usage))
	)
	for _, u := range usage {
		totalBudgeted = totalBudgeted.Add(u.Budgeted)
		totalSpent = totalSpent.Add(u.Spent)
		switch u.Status {
		case StatusOverBudget:
			over = append(over, string(u.Category))
		case StatusWarning:
			warning = append(warning, string(u.Category))
		}
		categories = append(categories, map[string]any{
			"category":     string(u.Category),
			"budgeted":     cents(u.Budgeted),
			"spent":        cents(u.Spent),
			"remaining":    cents(u.Remaining),
			"percent_used": u.PercentUsed,
			"status":       u.Status,
		})
		series = append(series, Point{Label: string(u.Category), Value: u.PercentUsed})
	}

	summary := fmt.Sprintf("For %s you've spent %s of your %s budget (%.1f%%).",
		month, FormatMoney(totalSpent), FormatMoney(totalBudgeted), percent(totalSpent, totalBudgeted))
	switch {
	case len(over) > 0:
		summary += fmt.Sprintf(" Over budget: %s.", joinList(over))
	case len(warning) > 0:
		summary += fmt.Sprintf(" Getting close: %s.", joinList(warning))
	default:
		summary += " Everything is on track."
	}

	return &Result{
		Tool:    Budget,
		Summary: summary,
		Data: map[string]any{
			"month":          month,
			"total_budgeted": cents(totalBudgeted),
			"total_spent":    cents(totalSpent),
			"remaining":      cents(totalBudgeted.Sub(totalSpent)),
			"percent_used":   percent(totalSpent, totalBudgeted),
			"categories":     categories,
			"over_budget":    over,
			"warning":        warning,
		},
		Series: series,
	}, nil
}
