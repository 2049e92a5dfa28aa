// Package intent maps a chat message to the tool that should answer it.
package intent

import (
	"github.com/mmynk/finchat/internal/textnorm"
	"github.com/mmynk/finchat/internal/tools"
)

// General is returned when no rule matches.
const General = "general"

// Rule ties a tool name to the keywords that select it.
type Rule struct {
	Tool     string
	Keywords []string
}

// DefaultRules is the keyword table, in priority order.
var DefaultRules = []Rule{
	{Tool: tools.Transactions, Keywords: []string{
		"spend", "spent", "spending", "dining", "restaurant", "restaurants",
		"purchase", "purchases", "transaction", "transactions", "expense", "expenses",
		"merchant", "bought", "paid",
	}},
	{Tool: tools.Budget, Keywords: []string{
		"budget", "budgets", "over budget", "overspending", "budget left",
		"remaining budget", "allowance",
	}},
	{Tool: tools.Investments, Keywords: []string{
		"investment", "investments", "invest", "portfolio", "stock", "stocks",
		"holdings", "returns", "dividend", "dividends",
	}},
	{Tool: tools.Goals, Keywords: []string{
		"goal", "goals", "saving for", "save for", "emergency fund", "target",
		"deadline", "retirement",
	}},
	{Tool: tools.Insights, Keywords: []string{
		"insight", "insights", "health score", "overview", "summary", "analyze",
		"analysis", "advice", "recommend", "recommendation", "recommendations",
		"trend", "trends",
	}},
}

// Match is the full outcome of classifying one message.
type Match struct {
	// Tool is the winning tool name or General.
	Tool string
	// Keyword is the keyword that selected Tool, empty for General.
	Keyword string
	// Candidates lists every tool with at least one matching keyword, in
	// rule order. More than one means the message was ambiguous.
	Candidates []string
}

// Ambiguous reports whether more than one tool matched.
func (m Match) Ambiguous() bool {
	return len(m.Candidates) > 1
}

// Classifier is a deterministic keyword classifier. The first rule with a
// matching keyword wins.
type Classifier struct {
	rules []Rule
}

// New creates a classifier over rules, which are checked in order.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules)
}

// Classify returns the tool name for message, or General.
func (c *Classifier) Classify(message string) string {
	return c.Match(message).Tool
}

// Match classifies message and reports every candidate tool.
func (c *Classifier) Match(message string) Match {
	m := Match{Tool: General}
	text := textnorm.New(message)
	if text.Empty() {
		return m
	}
	for _, r := range c.rules {
		kw, ok := text.First(r.Keywords...)
		if !ok {
			continue
		}
		if len(m.Candidates) == 0 {
			m.Tool, m.Keyword = r.Tool, kw
		}
		m.Candidates = append(m.Candidates, r.Tool)
	}
	return m
}
