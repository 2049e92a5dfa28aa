package tools

import "github.com/mmynk/finchat/internal/models"

// Info describes a registered tool.
type Info struct {
	Name        string
	Description string

	// Ready is false when the user has none of the data the tool reads.
	Ready bool
}

var descriptions = map[string]string{
	Transactions: "Spending and income over a time window, optionally for one category",
	Budget:       "Budget usage per category for a month, with warnings near the limit",
	Investments:  "Portfolio value, gains, allocation and best and worst holdings",
	Goals:        "Progress, milestones and required monthly savings for each goal",
	Insights:     "A 0 to 100 financial health score and the weakest area",
}

var readiness = map[string]func(*models.Snapshot) bool{
	Transactions: func(s *models.Snapshot) bool { return len(s.Transactions) > 0 },
	Budget:       func(s *models.Snapshot) bool { return len(s.Budgets) > 0 },
	Investments:  func(s *models.Snapshot) bool { return len(s.Investments) > 0 },
	Goals:        func(s *models.Snapshot) bool { return len(s.Goals) > 0 },
	Insights:     func(s *models.Snapshot) bool { return !s.Empty() },
}

// exampleQueries are sample questions, each routed to its tool.
var exampleQueries = []struct {
	tool  string
	query string
}{
	{Transactions, "What did I spend on dining this month?"},
	{Transactions, "Show my spending last week"},
	{Budget, "How am I tracking against my budgets this month?"},
	{Investments, "How is my portfolio performing?"},
	{Goals, "Am I on track for my emergency fund goal?"},
	{Insights, "What's my financial health score?"},
}

// StarterQuery is offered when no tool has data to work with yet.
const StarterQuery = "Help me get started with budgeting and goals"

func ready(name string, snap *models.Snapshot) bool {
	if snap == nil {
		return false
	}
	fn, ok := readiness[name]
	return !ok || fn(snap)
}

// Catalog lists the registered tools in registration order. Tools without
// a built-in description are listed with an empty one and count as ready.
func (r *Registry) Catalog(snap *models.Snapshot) []Info {
	names := r.Names()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		out = append(out, Info{
			Name:        name,
			Description: descriptions[name],
			Ready:       ready(name, snap),
		})
	}
	return out
}

// Examples returns sample questions for registered tools that have data in
// snap, or just StarterQuery when none do.
func (r *Registry) Examples(snap *models.Snapshot) []string {
	var out []string
	for _, ex := range exampleQueries {
		if r.Has(ex.tool) && ready(ex.tool, snap) {
			out = append(out, ex.query)
		}
	}
	if len(out) == 0 {
		return []string{StarterQuery}
	}
	return out
}
