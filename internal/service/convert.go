package service

import (
	"github.com/mmynk/finchat/internal/dashboard"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/recurring"
	"github.com/mmynk/finchat/internal/tools"
	"github.com/mmynk/finchat/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Stage:       u.Stage.String(),
		CreatedAt:   u.CreatedAt,
	}
}

func toAPITransaction(tx *models.Transaction) api.Transaction {
	return api.Transaction{
		ID:          tx.ID,
		Date:        tx.Date.Format(models.DateLayout),
		Amount:      tx.Amount,
		Category:    string(tx.Category),
		Description: tx.Description,
		Merchant:    tx.Merchant,
		AccountType: tx.AccountType,
		RecurringID: tx.RecurringID,
	}
}

func toAPIGoal(g *models.Goal) api.Goal {
	out := api.Goal{
		ID:                  g.ID,
		Name:                g.Name,
		TargetAmount:        g.TargetAmount,
		CurrentAmount:       g.CurrentAmount,
		Category:            g.Category,
		MonthlyContribution: g.MonthlyContribution,
	}
	if g.HasDeadline() {
		out.Deadline = g.Deadline.Format(models.DateLayout)
	}
	return out
}

func toAPIBudget(b *models.Budget) api.Budget {
	return api.Budget{
		ID:       b.ID,
		Category: string(b.Category),
		Amount:   b.Amount,
		Month:    b.Month,
	}
}

func toAPIInvestment(inv *models.Investment) api.Investment {
	return api.Investment{
		ID:           inv.ID,
		Symbol:       inv.Symbol,
		Name:         inv.Name,
		AssetType:    inv.AssetType,
		Shares:       inv.Shares,
		CostBasis:    inv.CostBasis,
		CurrentPrice: inv.CurrentPrice,
		MarketValue:  inv.MarketValue(),
	}
}

func toAPISuggestion(s *models.Suggestion) api.Suggestion {
	return api.Suggestion{
		ID:       s.ID,
		Label:    s.Label,
		Action:   s.Action,
		Params:   s.Params,
		Executed: s.Executed,
	}
}

func toAPIExplanations(in []models.Explanation) []api.Explanation {
	out := make([]api.Explanation, len(in))
	for i, e := range in {
		out[i] = api.Explanation{Step: e.Step, What: e.What}
	}
	return out
}

func toAPIAnalysis(r *tools.Result) *api.Analysis {
	if r == nil {
		return nil
	}
	out := &api.Analysis{Tool: r.Tool, Summary: r.Summary, Data: r.Data}
	for _, p := range r.Series {
		out.Series = append(out.Series, api.Point{Label: p.Label, Value: p.Value})
	}
	return out
}

func toAPIMessage(m *models.ChatMessage) api.ChatMessage {
	out := api.ChatMessage{
		ID:        m.ID,
		Text:      m.Text,
		Sender:    string(m.Sender),
		Timestamp: m.Timestamp,
	}
	if p := m.Payload; p != nil {
		out.Intent = p.Intent
		out.ToolsUsed = p.ToolsUsed
		out.SuggestionIDs = p.SuggestionIDs
		out.Explanations = toAPIExplanations(p.Explanations)
	}
	return out
}

func toAPIRecurring(r *models.RecurringTransaction) api.RecurringTransaction {
	out := api.RecurringTransaction{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    string(r.Category),
		StartDate:   r.StartDate.Format(models.DateLayout),
		Frequency:   string(r.Frequency),
		Interval:    r.Interval,
		NextDate:    r.NextDate.Format(models.DateLayout),
	}
	if r.HasEnd() {
		out.EndDate = r.EndDate.Format(models.DateLayout)
	}
	return out
}

func toAPIOccurrence(o *recurring.Occurrence) api.Occurrence {
	return api.Occurrence{
		RecurringID: o.RecurringID,
		Description: o.Description,
		Amount:      o.Amount,
		Category:    string(o.Category),
		Date:        o.Date.Format(models.DateLayout),
	}
}

func toAPIDashboard(d *dashboard.Summary) *api.GetDashboardResponse {
	out := &api.GetDashboardResponse{
		Timeframe:          d.Timeframe,
		StartDate:          d.Window.Start.Format(models.DateLayout),
		EndDate:            d.Window.End.AddDate(0, 0, -1).Format(models.DateLayout),
		Income:             d.Income.Round(2).InexactFloat64(),
		Expenses:           d.Expenses.Round(2).InexactFloat64(),
		NetSavings:         d.NetSavings.Round(2).InexactFloat64(),
		SavingsRate:        d.SavingsRate,
		Balance:            d.Balance.Round(2).InexactFloat64(),
		Budgets:            make([]api.BudgetUsage, len(d.Budgets)),
		RecentTransactions: mapSlice(d.Recent, toAPITransaction),
		Goals:              mapSlice(d.Goals, toAPIGoal),
		Insights:           make([]api.Insight, len(d.Insights)),
		Suggestions:        mapSlice(d.Suggestions, toAPISuggestion),
	}
	for i, u := range d.Budgets {
		out.Budgets[i] = api.BudgetUsage{
			Category:   string(u.Category),
			Budgeted:   u.Budgeted.Round(2).InexactFloat64(),
			Spent:      u.Spent.Round(2).InexactFloat64(),
			Remaining:  u.Remaining.Round(2).InexactFloat64(),
			Percentage: u.PercentUsed,
		}
	}
	for i, in := range d.Insights {
		out.Insights[i] = api.Insight{Kind: in.Kind, Title: in.Title, Message: in.Message}
	}
	return out
}

func mapSlice[T, U any](in []T, fn func(*T) U) []U {
	out := make([]U, len(in))
	for i := range in {
		out[i] = fn(&in[i])
	}
	return out
}
