package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/finchat/internal/dashboard"
	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/pkg/api"
)

// FinanceService implements api.FinanceServiceHandler. Every write goes
// through the ledger, the same path executed suggestions use.
type FinanceService struct {
	ledger *ledger.Ledger
	now    func() time.Time
}

var _ api.FinanceServiceHandler = (*FinanceService)(nil)

// FinanceOption configures a FinanceService.
type FinanceOption func(*FinanceService)

// WithClock overrides the time the dashboard is built for.
func WithClock(now func() time.Time) FinanceOption {
	return func(s *FinanceService) { s.now = now }
}

// NewFinanceService creates a FinanceService that writes through l.
func NewFinanceService(l *ledger.Ledger, opts ...FinanceOption) *FinanceService {
	s := &FinanceService{ledger: l, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FinanceService) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	tx, err := s.ledger.AddTransaction(ctx, userID, ledger.TransactionInput{
		Date:        req.Msg.Date,
		Amount:      req.Msg.Amount,
		Category:    req.Msg.Category,
		Description: req.Msg.Description,
		Merchant:    req.Msg.Merchant,
		AccountType: req.Msg.AccountType,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Transaction added", "user_id", userID, "transaction_id", tx.ID, "category", tx.Category)
	out := toAPITransaction(tx)
	return connect.NewResponse(&api.AddTransactionResponse{Transaction: &out}), nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListTransactionsResponse{
		Transactions: mapSlice(snap.Transactions, toAPITransaction),
	}), nil
}

func (s *FinanceService) AddGoal(ctx context.Context, req *connect.Request[api.AddGoalRequest]) (*connect.Response[api.AddGoalResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	g, err := s.ledger.AddGoal(ctx, userID, ledger.GoalInput{
		Name:                req.Msg.Name,
		TargetAmount:        req.Msg.TargetAmount,
		CurrentAmount:       req.Msg.CurrentAmount,
		Deadline:            req.Msg.Deadline,
		Category:            req.Msg.Category,
		MonthlyContribution: req.Msg.MonthlyContribution,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Goal added", "user_id", userID, "goal_id", g.ID)
	out := toAPIGoal(g)
	return connect.NewResponse(&api.AddGoalResponse{Goal: &out}), nil
}

func (s *FinanceService) ListGoals(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.ListGoalsResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListGoalsResponse{Goals: mapSlice(snap.Goals, toAPIGoal)}), nil
}

func (s *FinanceService) AddBudget(ctx context.Context, req *connect.Request[api.AddBudgetRequest]) (*connect.Response[api.AddBudgetResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	b, err := s.ledger.AddBudget(ctx, userID, ledger.BudgetInput{
		Category: req.Msg.Category,
		Amount:   req.Msg.Amount,
		Month:    req.Msg.Month,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Budget added", "user_id", userID, "budget_id", b.ID, "category", b.Category, "month", b.Month)
	out := toAPIBudget(b)
	return connect.NewResponse(&api.AddBudgetResponse{Budget: &out}), nil
}

func (s *FinanceService) ListBudgets(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListBudgetsResponse{Budgets: mapSlice(snap.Budgets, toAPIBudget)}), nil
}

func (s *FinanceService) AddInvestment(ctx context.Context, req *connect.Request[api.AddInvestmentRequest]) (*connect.Response[api.AddInvestmentResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	inv, err := s.ledger.AddInvestment(ctx, userID, ledger.InvestmentInput{
		Symbol:       req.Msg.Symbol,
		Name:         req.Msg.Name,
		AssetType:    req.Msg.AssetType,
		Shares:       req.Msg.Shares,
		CostBasis:    req.Msg.CostBasis,
		CurrentPrice: req.Msg.CurrentPrice,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Investment added", "user_id", userID, "investment_id", inv.ID, "symbol", inv.Symbol)
	out := toAPIInvestment(inv)
	return connect.NewResponse(&api.AddInvestmentResponse{Investment: &out}), nil
}

func (s *FinanceService) GetSnapshot(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.GetSnapshotResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetSnapshotResponse{
		User:         toAPIUser(snap.User),
		Transactions: mapSlice(snap.Transactions, toAPITransaction),
		Goals:        mapSlice(snap.Goals, toAPIGoal),
		Budgets:      mapSlice(snap.Budgets, toAPIBudget),
		Investments:  mapSlice(snap.Investments, toAPIInvestment),
	}), nil
}

// GetDashboard summarizes the user's finances over a trailing timeframe.
// Its suggestions are not stored; clients execute them as direct actions.
func (s *FinanceService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	snap, err := s.snapshot(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	d, err := dashboard.Build(snap, req.Msg.Timeframe, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPIDashboard(d)), nil
}

func (s *FinanceService) snapshot(ctx context.Context, requested string) (*models.Snapshot, error) {
	userID, err := resolveUserID(ctx, requested)
	if err != nil {
		return nil, err
	}
	snap, err := s.ledger.Snapshot(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return snap, nil
}
