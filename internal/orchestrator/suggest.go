package orchestrator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/tools"
)

// Actions understood by the suggestion executor.
const (
	ActionAddTransaction = "add_transaction"
	ActionAddGoal        = "add_goal"
	ActionAddBudget      = "add_budget"
)

// MaxSuggestions caps how many follow-ups accompany one reply.
const MaxSuggestions = 3

// raiseThreshold is the percent of a budget used before a raise is proposed.
const raiseThreshold = 90.0

var (
	raiseFactor     = decimal.NewFromFloat(1.1)
	ten             = decimal.NewFromInt(10)
	emergencyFloor  = decimal.NewFromInt(1000)
	emergencyMonths = decimal.NewFromInt(3)
)

// Suggest proposes follow-up actions for a reply produced by tool. The
// returned suggestions have no ID or owner yet.
func Suggest(snap *models.Snapshot, tool string, p tools.Params) []models.Suggestion {
	var out []models.Suggestion
	add := func(s models.Suggestion) bool {
		if len(out) >= MaxSuggestions {
			return false
		}
		out = append(out, s)
		return true
	}

	month := tools.MonthWindow(p.Now)
	thisMonth := month.Month()
	nextMonth := month.End.Format(models.MonthLayout)

	if tool == tools.Transactions || tool == tools.Budget || tool == tools.Insights {
		budgeted := make(map[models.Category]bool)
		for _, b := range snap.Budgets {
			if b.Month == thisMonth {
				budgeted[b.Category] = true
			}
		}

		for _, u := range tools.BudgetUsage(snap, thisMonth) {
			if p.Category != "" && u.Category != p.Category {
				continue
			}
			if u.PercentUsed < raiseThreshold || hasBudget(snap, u.Category, nextMonth) {
				continue
			}
			amount := decimal.Max(u.Budgeted, u.Spent).Mul(raiseFactor).Div(ten).Ceil().Mul(ten)
			if !add(models.Suggestion{
				Label:  "Raise next month's " + string(u.Category) + " budget to $" + amount.StringFixed(0),
				Action: ActionAddBudget,
				Params: map[string]string{
					"category": string(u.Category),
					"amount":   amount.StringFixed(2),
					"month":    nextMonth,
				},
			}) {
				return out
			}
		}

		for _, ct := range tools.SpendingByCategory(snap.Transactions, month) {
			if p.Category != "" && ct.Category != p.Category {
				continue
			}
			if budgeted[ct.Category] || ct.Category == models.CategoryIncome {
				continue
			}
			amount := ct.Amount.Div(ten).Ceil().Mul(ten)
			if !add(models.Suggestion{
				Label:  "Create a budget for " + string(ct.Category),
				Action: ActionAddBudget,
				Params: map[string]string{
					"category": string(ct.Category),
					"amount":   amount.StringFixed(2),
					"month":    thisMonth,
				},
			}) {
				return out
			}
		}
	}

	if (tool == tools.Goals || tool == tools.Insights) && !hasEmergencyGoal(snap.Goals) {
		// Three months of this month's spending, at least the floor.
		var spent decimal.Decimal
		for _, ct := range tools.SpendingByCategory(snap.Transactions, month) {
			spent = spent.Add(ct.Amount)
		}
		target := decimal.Max(emergencyFloor, spent.Mul(emergencyMonths))
		add(models.Suggestion{
			Label:  "Start an emergency fund goal",
			Action: ActionAddGoal,
			Params: map[string]string{
				"name":          "Emergency Fund",
				"target_amount": target.Div(ten).Ceil().Mul(ten).StringFixed(2),
				"category":      "Savings",
			},
		})
	}

	return out
}

func hasBudget(snap *models.Snapshot, category models.Category, month string) bool {
	for _, b := range snap.Budgets {
		if b.Category == category && b.Month == month {
			return true
		}
	}
	return false
}

func hasEmergencyGoal(goals []models.Goal) bool {
	for _, g := range goals {
		if strings.Contains(strings.ToLower(g.Name), "emergency") {
			return true
		}
	}
	return false
}
