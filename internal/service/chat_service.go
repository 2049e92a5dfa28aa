package service

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"connectrpc.com/connect"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/suggestion"
	"github.com/mmynk/finchat/pkg/api"
)

// MaxMessageLength bounds a chat message, in characters.
const MaxMessageLength = 2000

// DefaultHistoryLimit applies when ListMessages is called without a limit.
const DefaultHistoryLimit = 50

var (
	errMessageTooLong = errors.New("message is too long")
	errNoAction       = errors.New("suggestion_id or action is required")
)

// ChatService implements api.ChatServiceHandler.
type ChatService struct {
	orchestrator *orchestrator.Orchestrator
	executor     *suggestion.Executor
}

var _ api.ChatServiceHandler = (*ChatService)(nil)

// NewChatService creates a ChatService. The orchestrator and executor should
// share one userlock.Locker.
func NewChatService(o *orchestrator.Orchestrator, e *suggestion.Executor) *ChatService {
	return &ChatService{orchestrator: o, executor: e}
}

// Chat answers one message.
func (s *ChatService) Chat(ctx context.Context, req *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Msg.Message) > MaxMessageLength {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMessageTooLong)
	}

	// The client's stage is only a hint; unknown labels are dropped.
	clientStage, _ := models.ParseStage(req.Msg.WorkflowStage)

	resp, err := s.orchestrator.HandleMessage(ctx, userID, req.Msg.Message, clientStage, req.Msg.Context)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := &api.ChatResponse{
		MessageID:    resp.MessageID,
		Response:     resp.Text,
		Intent:       resp.Intent,
		Stage:        resp.Stage.String(),
		ToolsUsed:    resp.ToolsUsed,
		Analysis:     toAPIAnalysis(resp.Analysis),
		Suggestions:  mapSlice(resp.Suggestions, toAPISuggestion),
		Explanations: toAPIExplanations(resp.Explanations),
		Degraded:     resp.Degraded,
	}
	if out.ToolsUsed == nil {
		out.ToolsUsed = []string{}
	}
	return connect.NewResponse(out), nil
}

// ExecuteSuggestion runs a proposed action, or a direct one when no
// suggestion ID is given.
func (s *ChatService) ExecuteSuggestion(ctx context.Context, req *connect.Request[api.ExecuteSuggestionRequest]) (*connect.Response[api.ExecuteSuggestionResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if req.Msg.SuggestionID == "" && req.Msg.Action == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNoAction)
	}

	res, err := s.executor.Execute(ctx, userID, req.Msg.SuggestionID, req.Msg.Action, req.Msg.Params)
	if err != nil {
		slog.Error("Suggestion execution failed", "user_id", userID, "suggestion_id", req.Msg.SuggestionID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ExecuteSuggestionResponse{
		Status:   res.Status,
		Reason:   res.Reason,
		RecordID: res.RecordID,
	}), nil
}

// ListMessages returns the latest conversation history, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	userID, err := resolveUserID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	msgs, err := s.orchestrator.History(ctx, userID, limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListMessagesResponse{
		Messages: mapSlice(msgs, toAPIMessage),
	}), nil
}
