// Package dashboard builds the one-screen financial summary: totals for a
// trailing timeframe, current budget usage, recent activity, goals and a few
// short insights.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/tools"
)

// DefaultTimeframe is used when none is given.
const DefaultTimeframe = "30d"

// RecentLimit is the number of transactions shown as recent activity.
const RecentLimit = 5

// Insight kinds.
const (
	KindWarning = "warning"
	KindTip     = "tip"
)

var timeframes = map[string]int{"7d": 7, "30d": 30, "90d": 90, "1y": 365}

// Insight is a short observation about the user's finances.
type Insight struct {
	Kind    string
	Title   string
	Message string
}

// Summary is the dashboard for one user.
type Summary struct {
	Timeframe string
	Window    tools.Window

	Income      decimal.Decimal
	Expenses    decimal.Decimal
	NetSavings  decimal.Decimal
	SavingsRate float64
	// Balance is the net of every transaction, regardless of timeframe.
	Balance decimal.Decimal

	Budgets     []tools.CategoryUsage
	Recent      []models.Transaction
	Goals       []models.Goal
	Insights    []Insight
	Suggestions []models.Suggestion
}

// Build summarizes snap over the trailing timeframe ending today. An unknown
// timeframe fails with a *ledger.ValidationError.
func Build(snap *models.Snapshot, timeframe string, now time.Time) (*Summary, error) {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	days, ok := timeframes[strings.ToLower(timeframe)]
	if !ok {
		return nil, &ledger.ValidationError{Field: "timeframe", Reason: fmt.Sprintf("unknown timeframe %q, expected 7d, 30d, 90d or 1y", timeframe)}
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	w := tools.Window{
		Label: "the last " + timeframe,
		Start: today.AddDate(0, 0, -(days - 1)),
		End:   today.AddDate(0, 0, 1),
	}

	s := &Summary{Timeframe: strings.ToLower(timeframe), Window: w}
	for _, tx := range snap.Transactions {
		amt := decimal.NewFromFloat(tx.Amount)
		s.Balance = s.Balance.Add(amt)
		if !w.Contains(tx.Date) {
			continue
		}
		if tx.IsExpense() {
			s.Expenses = s.Expenses.Add(amt.Neg())
		} else {
			s.Income = s.Income.Add(amt)
		}
	}
	s.NetSavings = s.Income.Sub(s.Expenses)
	if s.Income.IsPositive() {
		s.SavingsRate = s.NetSavings.Div(s.Income).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
	}

	month := tools.MonthWindow(now)
	s.Budgets = tools.BudgetUsage(snap, month.Month())
	s.Recent = recent(snap.Transactions, RecentLimit)
	s.Goals = byDeadline(snap.Goals)
	s.Insights = insights(snap, s.Budgets, month)
	s.Suggestions = orchestrator.Suggest(snap, tools.Insights, tools.Params{Window: month, Now: now})
	return s, nil
}

// recent returns the newest n transactions, newest first.
func recent(txs []models.Transaction, n int) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// byDeadline orders goals by deadline; goals without one come last.
func byDeadline(goals []models.Goal) []models.Goal {
	out := make([]models.Goal, len(goals))
	copy(out, goals)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Deadline, out[j].Deadline
		switch {
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		default:
			return di.Before(dj)
		}
	})
	return out
}

func insights(snap *models.Snapshot, usage []tools.CategoryUsage, month tools.Window) []Insight {
	var out []Insight
	budgeted := make(map[models.Category]bool)
	for _, u := range usage {
		budgeted[u.Category] = true
		if u.Status != tools.StatusOverBudget {
			continue
		}
		out = append(out, Insight{
			Kind:    KindWarning,
			Title:   "Over budget in " + string(u.Category),
			Message: fmt.Sprintf("You've spent %s of your %s %s budget.", tools.FormatMoney(u.Spent), tools.FormatMoney(u.Budgeted), u.Category),
		})
	}

	for _, ct := range tools.SpendingByCategory(snap.Transactions, month) {
		if budgeted[ct.Category] {
			continue
		}
		out = append(out, Insight{
			Kind:    KindTip,
			Title:   "No budget for " + string(ct.Category),
			Message: fmt.Sprintf("You've spent %s on %s this month without a budget.", tools.FormatMoney(ct.Amount), ct.Category),
		})
	}
	return out
}
