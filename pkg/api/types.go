package api

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Stage       string `json:"stage"`
	CreatedAt   int64  `json:"created_at"`
}

// Transaction is one ledger entry. Negative amounts are expenses.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant,omitempty"`
	AccountType string  `json:"account_type,omitempty"`
	// RecurringID is set when the entry was generated from a recurring template.
	RecurringID string `json:"recurring_id,omitempty"`
}

// Goal is a savings target.
type Goal struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	TargetAmount        float64 `json:"target_amount"`
	CurrentAmount       float64 `json:"current_amount"`
	Deadline            string  `json:"deadline,omitempty"`
	Category            string  `json:"category,omitempty"`
	MonthlyContribution float64 `json:"monthly_contribution,omitempty"`
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    string  `json:"month"`
}

// Investment is a holding. MarketValue is shares times current price.
type Investment struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name,omitempty"`
	AssetType    string  `json:"asset_type,omitempty"`
	Shares       float64 `json:"shares"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`
}

// Explanation is one step of the trace behind a chat reply.
type Explanation struct {
	Step string `json:"step"`
	What string `json:"what"`
}

// Suggestion is a follow-up action the client can execute by ID.
type Suggestion struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Action   string            `json:"action"`
	Params   map[string]string `json:"params,omitempty"`
	Executed bool              `json:"executed"`
}

// Point is one entry of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Analysis is the structured output of a tool.
type Analysis struct {
	Tool    string         `json:"tool"`
	Summary string         `json:"summary"`
	Data    map[string]any `json:"data,omitempty"`
	Series  []Point        `json:"series,omitempty"`
}
