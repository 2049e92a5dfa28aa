package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/finchat/internal/recurring"
	"github.com/mmynk/finchat/pkg/api"
)

// RecurringService implements api.RecurringServiceHandler.
type RecurringService struct {
	scheduler *recurring.Scheduler
}

var _ api.RecurringServiceHandler = (*RecurringService)(nil)

// NewRecurringService creates a RecurringService backed by scheduler.
func NewRecurringService(scheduler *recurring.Scheduler) *RecurringService {
	return &RecurringService{scheduler: scheduler}
}

func toRecurringInput(in api.RecurringInput) recurring.Input {
	return recurring.Input{
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Frequency:   in.Frequency,
		Interval:    in.Interval,
		NextDate:    in.NextDate,
	}
}

func (s *RecurringService) CreateRecurring(ctx context.Context, req *connect.Request[api.CreateRecurringRequest]) (*connect.Response[api.RecurringResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	r, err := s.scheduler.Create(ctx, userID, toRecurringInput(req.Msg.RecurringInput))
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Recurring transaction created", "user_id", userID, "recurring_id", r.ID, "frequency", r.Frequency)
	out := toAPIRecurring(r)
	return connect.NewResponse(&api.RecurringResponse{Recurring: &out}), nil
}

func (s *RecurringService) ListRecurring(ctx context.Context, req *connect.Request[api.UserRequest]) (*connect.Response[api.ListRecurringResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	list, err := s.scheduler.List(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListRecurringResponse{Recurring: mapSlice(list, toAPIRecurring)}), nil
}

func (s *RecurringService) GetRecurring(ctx context.Context, req *connect.Request[api.RecurringRequest]) (*connect.Response[api.RecurringResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	r, err := s.scheduler.Get(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := toAPIRecurring(r)
	return connect.NewResponse(&api.RecurringResponse{Recurring: &out}), nil
}

func (s *RecurringService) UpdateRecurring(ctx context.Context, req *connect.Request[api.UpdateRecurringRequest]) (*connect.Response[api.RecurringResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	r, err := s.scheduler.Update(ctx, userID, req.Msg.ID, toRecurringInput(req.Msg.RecurringInput))
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Recurring transaction updated", "user_id", userID, "recurring_id", r.ID)
	out := toAPIRecurring(r)
	return connect.NewResponse(&api.RecurringResponse{Recurring: &out}), nil
}

// DeleteRecurring removes a template. Transactions it generated are kept.
func (s *RecurringService) DeleteRecurring(ctx context.Context, req *connect.Request[api.RecurringRequest]) (*connect.Response[api.DeleteRecurringResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	left, err := s.scheduler.Delete(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Recurring transaction deleted", "user_id", userID, "recurring_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteRecurringResponse{Remaining: left}), nil
}

// GenerateDue records due occurrences as ledger transactions. A failure
// part way keeps what was recorded and fails the call; retrying resumes at
// the first unrecorded occurrence.
func (s *RecurringService) GenerateDue(ctx context.Context, req *connect.Request[api.GenerateDueRequest]) (*connect.Response[api.GenerateDueResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	txs, err := s.scheduler.Generate(ctx, userID, req.Msg.UpTo)
	if err != nil {
		slog.Error("Recurring generation failed", "user_id", userID, "generated", len(txs), "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GenerateDueResponse{
		Generated:    len(txs),
		Transactions: mapSlice(txs, toAPITransaction),
	}), nil
}

func (s *RecurringService) PreviewRecurring(ctx context.Context, req *connect.Request[api.PreviewRecurringRequest]) (*connect.Response[api.PreviewRecurringResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	occ, err := s.scheduler.Preview(ctx, userID, req.Msg.Periods)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.PreviewRecurringResponse{Occurrences: mapSlice(occ, toAPIOccurrence)}), nil
}
