package tools

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/models"
)

const componentMax = 25

// Health score components.
const (
	ComponentBudget      = "budget"
	ComponentInvestments = "investments"
	ComponentGoals       = "goals"
	ComponentSpending    = "spending"
)

// Rating maps an overall 0-100 score to a label.
func Rating(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 50:
		return "Poor"
	default:
		return "Critical"
	}
}

// budgetScore rewards staying within budgets and saving part of income.
func budgetScore(snap *models.Snapshot, w Window) (int, bool) {
	usage := BudgetUsage(snap, w.Month())
	if len(usage) == 0 {
		return 0, false
	}
	within := 0
	for _, u := range usage {
		if u.Status != StatusOverBudget {
			within++
		}
	}
	ratio := float64(within) / float64(len(usage))

	var income, spent decimal.Decimal
	for _, tx := range snap.Transactions {
		if !w.Contains(tx.Date) {
			continue
		}
		if tx.IsExpense() {
			spent = spent.Add(dec(tx.Amount).Neg())
		} else {
			income = income.Add(dec(tx.Amount))
		}
	}
	savingsRate := 0.0
	if income.IsPositive() {
		savingsRate = percent(income.Sub(spent), income)
	}

	score := int(ratio*20 + math.Max(0, math.Min(5, savingsRate/4)))
	return min(componentMax, score), true
}

func investmentScore(invs []models.Investment) (int, bool) {
	if len(invs) == 0 {
		return 0, false
	}
	var value, cost decimal.Decimal
	for _, inv := range invs {
		value = value.Add(dec(inv.Shares).Mul(dec(inv.CurrentPrice)))
		cost = cost.Add(dec(inv.CostBasis))
	}
	ret := percent(value.Sub(cost), cost)
	switch {
	case ret >= 10:
		return 25, true
	case ret >= 5:
		return 20, true
	case ret >= 0:
		return 15, true
	case ret >= -5:
		return 10, true
	default:
		return 5, true
	}
}

// goalScore measures saved-vs-target across goals that are not yet complete.
func goalScore(goals []models.Goal) (int, bool) {
	if len(goals) == 0 {
		return 0, false
	}
	var target, saved decimal.Decimal
	for _, g := range goals {
		if g.CurrentAmount >= g.TargetAmount {
			continue
		}
		target = target.Add(dec(g.TargetAmount))
		saved = saved.Add(dec(g.CurrentAmount))
	}
	if !target.IsPositive() {
		return componentMax, true
	}
	ratio := saved.Div(target).InexactFloat64()
	return min(componentMax, int(ratio*componentMax)), true
}

// spendingScore rewards steady daily spending over the last 30 days, using
// the coefficient of variation of the daily totals.
func spendingScore(txs []models.Transaction, now time.Time) (int, bool) {
	last30 := ExtractParams("last 30 days", now).Window
	byDay := make(map[string]float64)
	for _, tx := range txs {
		if tx.IsExpense() && last30.Contains(tx.Date) {
			byDay[tx.Date.Format(models.DateLayout)] += -tx.Amount
		}
	}
	if len(byDay) == 0 {
		return 0, false
	}
	if len(byDay) < 2 {
		return componentMax, true
	}

	var sum float64
	for _, v := range byDay {
		sum += v
	}
	mean := sum / float64(len(byDay))
	var sq float64
	for _, v := range byDay {
		sq += (v - mean) * (v - mean)
	}
	cv := math.Sqrt(sq/float64(len(byDay))) / mean

	switch {
	case cv < 0.5:
		return 25, true
	case cv < 1:
		return 20, true
	case cv < 1.5:
		return 15, true
	case cv < 2:
		return 10, true
	default:
		return 5, true
	}
}

// GenerateInsights computes an overall financial health score from the
// components the user has data for.
func GenerateInsights(snap *models.Snapshot, p Params) (*Result, error) {
	if snap.Empty() {
		return nil, &InputError{Tool: Insights, Message: "I need some financial data before I can share insights. Try adding transactions, budgets or goals."}
	}

	scores := make(map[string]int)
	if s, ok := budgetScore(snap, MonthWindow(p.Now)); ok {
		scores[ComponentBudget] = s
	}
	if s, ok := investmentScore(snap.Investments); ok {
		scores[ComponentInvestments] = s
	}
	if s, ok := goalScore(snap.Goals); ok {
		scores[ComponentGoals] = s
	}
	if s, ok := spendingScore(snap.Transactions, p.Now); ok {
		scores[ComponentSpending] = s
	}
	if len(scores) == 0 {
		return nil, &InputError{Tool: Insights, Message: "There isn't enough recent activity to score your finances yet."}
	}

	names := make([]string, 0, len(scores))
	total := 0
	for name, s := range scores {
		names = append(names, name)
		total += s
	}
	sort.Strings(names)
	overall := int(math.Round(float64(total) / float64(componentMax*len(scores)) * 100))
	rating := Rating(overall)

	var weakest string
	series := make([]Point, 0, len(names))
	for _, name := range names {
		series = append(series, Point{Label: name, Value: float64(scores[name])})
		if weakest == "" || scores[name] < scores[weakest] {
			weakest = name
		}
	}

	summary := fmt.Sprintf("Your financial health score is %d/100 (%s).", overall, rating)
	if scores[weakest] < componentMax {
		summary += fmt.Sprintf(" Your %s score has the most room to improve.", weakest)
	}

	return &Result{
		Tool:    Insights,
		Summary: summary,
		Data: map[string]any{
			"health_score":  overall,
			"rating":        rating,
			"components":    scores,
			"weakest_area":  weakest,
			"component_max": componentMax,
		},
		Series: series,
	}, nil
}
