package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// FinanceServiceName is the fully-qualified name of the FinanceService service.
	FinanceServiceName = "finchat.v1.FinanceService"

	FinanceServiceAddTransactionProcedure   = "/finchat.v1.FinanceService/AddTransaction"
	FinanceServiceListTransactionsProcedure = "/finchat.v1.FinanceService/ListTransactions"
	FinanceServiceAddGoalProcedure          = "/finchat.v1.FinanceService/AddGoal"
	FinanceServiceListGoalsProcedure        = "/finchat.v1.FinanceService/ListGoals"
	FinanceServiceAddBudgetProcedure        = "/finchat.v1.FinanceService/AddBudget"
	FinanceServiceListBudgetsProcedure      = "/finchat.v1.FinanceService/ListBudgets"
	FinanceServiceAddInvestmentProcedure    = "/finchat.v1.FinanceService/AddInvestment"
	FinanceServiceGetSnapshotProcedure      = "/finchat.v1.FinanceService/GetSnapshot"
	FinanceServiceGetDashboardProcedure     = "/finchat.v1.FinanceService/GetDashboard"
)

// AddTransactionRequest records one transaction.
type AddTransactionRequest struct {
	UserID string `json:"user_id,omitempty"`
	// Date is YYYY-MM-DD; empty means today.
	Date        string  `json:"date,omitempty"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant,omitempty"`
	AccountType string  `json:"account_type,omitempty"`
}

// AddTransactionResponse carries the stored transaction.
type AddTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

// UserRequest identifies the user for list and snapshot calls.
type UserRequest struct {
	UserID string `json:"user_id,omitempty"`
}

// ListTransactionsResponse lists transactions ordered by date.
type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// AddGoalRequest creates a savings goal. Deadline is YYYY-MM-DD and optional.
type AddGoalRequest struct {
	UserID              string  `json:"user_id,omitempty"`
	Name                string  `json:"name"`
	TargetAmount        float64 `json:"target_amount"`
	CurrentAmount       float64 `json:"current_amount,omitempty"`
	Deadline            string  `json:"deadline,omitempty"`
	Category            string  `json:"category,omitempty"`
	MonthlyContribution float64 `json:"monthly_contribution,omitempty"`
}

// AddGoalResponse carries the stored goal.
type AddGoalResponse struct {
	Goal *Goal `json:"goal"`
}

// ListGoalsResponse lists goals in creation order.
type ListGoalsResponse struct {
	Goals []Goal `json:"goals"`
}

// AddBudgetRequest creates a monthly budget. A second budget for the same
// category and month fails with AlreadyExists.
type AddBudgetRequest struct {
	UserID   string  `json:"user_id,omitempty"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	// Month is YYYY-MM; empty means the current month.
	Month string `json:"month,omitempty"`
}

// AddBudgetResponse carries the stored budget.
type AddBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

// ListBudgetsResponse lists budgets.
type ListBudgetsResponse struct {
	Budgets []Budget `json:"budgets"`
}

// AddInvestmentRequest records a holding.
type AddInvestmentRequest struct {
	UserID       string  `json:"user_id,omitempty"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name,omitempty"`
	AssetType    string  `json:"asset_type,omitempty"`
	Shares       float64 `json:"shares"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentPrice float64 `json:"current_price"`
}

// AddInvestmentResponse carries the stored holding.
type AddInvestmentResponse struct {
	Investment *Investment `json:"investment"`
}

// GetSnapshotResponse is everything the user owns.
type GetSnapshotResponse struct {
	User         *User         `json:"user"`
	Transactions []Transaction `json:"transactions"`
	Goals        []Goal        `json:"goals"`
	Budgets      []Budget      `json:"budgets"`
	Investments  []Investment  `json:"investments"`
}

// GetDashboardRequest selects the dashboard timeframe: 7d, 30d, 90d or 1y.
// Empty means 30d.
type GetDashboardRequest struct {
	UserID    string `json:"user_id,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

// BudgetUsage is spending against one budget of the current month.
type BudgetUsage struct {
	Category   string  `json:"category"`
	Budgeted   float64 `json:"budgeted"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Insight is a short observation shown on the dashboard.
// Kind is "warning" or "tip".
type Insight struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// GetDashboardResponse summarizes the user's finances for the timeframe.
type GetDashboardResponse struct {
	Timeframe string `json:"timeframe"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	NetSavings  float64 `json:"net_savings"`
	SavingsRate float64 `json:"savings_rate"`
	// Balance is the net of every transaction ever recorded.
	Balance float64 `json:"balance"`

	Budgets            []BudgetUsage `json:"budgets"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	Goals              []Goal        `json:"goals"`
	Insights           []Insight     `json:"insights"`
	Suggestions        []Suggestion  `json:"suggestions"`
}

// FinanceServiceHandler is implemented by the finance service.
type FinanceServiceHandler interface {
	AddTransaction(context.Context, *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[UserRequest]) (*connect.Response[ListTransactionsResponse], error)
	AddGoal(context.Context, *connect.Request[AddGoalRequest]) (*connect.Response[AddGoalResponse], error)
	ListGoals(context.Context, *connect.Request[UserRequest]) (*connect.Response[ListGoalsResponse], error)
	AddBudget(context.Context, *connect.Request[AddBudgetRequest]) (*connect.Response[AddBudgetResponse], error)
	ListBudgets(context.Context, *connect.Request[UserRequest]) (*connect.Response[ListBudgetsResponse], error)
	AddInvestment(context.Context, *connect.Request[AddInvestmentRequest]) (*connect.Response[AddInvestmentResponse], error)
	GetSnapshot(context.Context, *connect.Request[UserRequest]) (*connect.Response[GetSnapshotResponse], error)
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
}

// NewFinanceServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewFinanceServiceHandler(svc FinanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + FinanceServiceName + "/", mux(map[string]http.Handler{
		FinanceServiceAddTransactionProcedure:   unary(FinanceServiceAddTransactionProcedure, svc.AddTransaction, opts),
		FinanceServiceListTransactionsProcedure: unary(FinanceServiceListTransactionsProcedure, svc.ListTransactions, opts),
		FinanceServiceAddGoalProcedure:          unary(FinanceServiceAddGoalProcedure, svc.AddGoal, opts),
		FinanceServiceListGoalsProcedure:        unary(FinanceServiceListGoalsProcedure, svc.ListGoals, opts),
		FinanceServiceAddBudgetProcedure:        unary(FinanceServiceAddBudgetProcedure, svc.AddBudget, opts),
		FinanceServiceListBudgetsProcedure:      unary(FinanceServiceListBudgetsProcedure, svc.ListBudgets, opts),
		FinanceServiceAddInvestmentProcedure:    unary(FinanceServiceAddInvestmentProcedure, svc.AddInvestment, opts),
		FinanceServiceGetSnapshotProcedure:      unary(FinanceServiceGetSnapshotProcedure, svc.GetSnapshot, opts),
		FinanceServiceGetDashboardProcedure:     unary(FinanceServiceGetDashboardProcedure, svc.GetDashboard, opts),
	})
}

// FinanceServiceClient is a client for the finchat.v1.FinanceService service.
type FinanceServiceClient struct {
	addTransaction   *connect.Client[AddTransactionRequest, AddTransactionResponse]
	listTransactions *connect.Client[UserRequest, ListTransactionsResponse]
	addGoal          *connect.Client[AddGoalRequest, AddGoalResponse]
	listGoals        *connect.Client[UserRequest, ListGoalsResponse]
	addBudget        *connect.Client[AddBudgetRequest, AddBudgetResponse]
	listBudgets      *connect.Client[UserRequest, ListBudgetsResponse]
	addInvestment    *connect.Client[AddInvestmentRequest, AddInvestmentResponse]
	getSnapshot      *connect.Client[UserRequest, GetSnapshotResponse]
	getDashboard     *connect.Client[GetDashboardRequest, GetDashboardResponse]
}

// NewFinanceServiceClient constructs a client for the finchat.v1.FinanceService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewFinanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *FinanceServiceClient {
	return &FinanceServiceClient{
		addTransaction:   client[AddTransactionRequest, AddTransactionResponse](httpClient, baseURL, FinanceServiceAddTransactionProcedure, opts),
		listTransactions: client[UserRequest, ListTransactionsResponse](httpClient, baseURL, FinanceServiceListTransactionsProcedure, opts),
		addGoal:          client[AddGoalRequest, AddGoalResponse](httpClient, baseURL, FinanceServiceAddGoalProcedure, opts),
		listGoals:        client[UserRequest, ListGoalsResponse](httpClient, baseURL, FinanceServiceListGoalsProcedure, opts),
		addBudget:        client[AddBudgetRequest, AddBudgetResponse](httpClient, baseURL, FinanceServiceAddBudgetProcedure, opts),
		listBudgets:      client[UserRequest, ListBudgetsResponse](httpClient, baseURL, FinanceServiceListBudgetsProcedure, opts),
		addInvestment:    client[AddInvestmentRequest, AddInvestmentResponse](httpClient, baseURL, FinanceServiceAddInvestmentProcedure, opts),
		getSnapshot:      client[UserRequest, GetSnapshotResponse](httpClient, baseURL, FinanceServiceGetSnapshotProcedure, opts),
		getDashboard:     client[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL, FinanceServiceGetDashboardProcedure, opts),
	}
}

func (c *FinanceServiceClient) AddTransaction(ctx context.Context, req *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) ListTransactions(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) AddGoal(ctx context.Context, req *connect.Request[AddGoalRequest]) (*connect.Response[AddGoalResponse], error) {
	return c.addGoal.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) ListGoals(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[ListGoalsResponse], error) {
	return c.listGoals.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) AddBudget(ctx context.Context, req *connect.Request[AddBudgetRequest]) (*connect.Response[AddBudgetResponse], error) {
	return c.addBudget.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) ListBudgets(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[ListBudgetsResponse], error) {
	return c.listBudgets.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) AddInvestment(ctx context.Context, req *connect.Request[AddInvestmentRequest]) (*connect.Response[AddInvestmentResponse], error) {
	return c.addInvestment.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) GetSnapshot(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[GetSnapshotResponse], error) {
	return c.getSnapshot.CallUnary(ctx, req)
}

func (c *FinanceServiceClient) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}
