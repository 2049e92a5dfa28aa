// Package orchestrator turns a chat message into a reply: it loads the
// user's data, classifies the message, runs the matching tool, proposes
// follow-up actions and records the exchange.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/finchat/internal/intent"
	"github.com/mmynk/finchat/internal/metrics"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/tools"
	"github.com/mmynk/finchat/internal/userlock"
	"github.com/mmynk/finchat/internal/workflow"
)

// ErrUpstreamUnavailable means the user's data could not be read or the
// exchange could not be recorded. Callers may retry.
var ErrUpstreamUnavailable = errors.New("financial data unavailable")

// Trace step names.
const (
	StepSnapshot   = "snapshot"
	StepIntent     = "intent_classifier"
	StepParameters = "parameters"
	StepContext    = "client_context"
	StepTool       = "tool"
	StepSuggestion = "suggestions"
	StepWorkflow   = "workflow"
)

const generalReply = "I can help with your spending, budgets, investments, savings goals and overall financial health. " +
	"Try asking \"What did I spend on dining this month?\""

// Response is the reply to one chat message.
type Response struct {
	Text   string
	Intent string

	// Tool is empty for general replies.
	Tool  string
	Stage models.Stage

	// Analysis is the raw tool output, nil for general or degraded replies.
	Analysis     *tools.Result
	ToolsUsed    []string
	Suggestions  []models.Suggestion
	Explanations []models.Explanation

	// Degraded is set when the tool failed and Text is an apology.
	Degraded bool

	// MessageID is the ID of the stored assistant message.
	MessageID string
}

// Orchestrator handles chat messages.
type Orchestrator struct {
	snapshots  workflow.SnapshotReader
	history    storage.ConversationStore
	tracker    *workflow.Tracker
	classifier *intent.Classifier
	registry   *tools.Registry
	locks      *userlock.Locker
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source used for date windows.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithMetrics enables metric recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(o *Orchestrator) { o.classifier = c }
}

// WithRegistry replaces the default tool registry.
func WithRegistry(r *tools.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// New creates an Orchestrator. locks must be shared with anything else that
// mutates a user's data in response to chat, such as the suggestion executor.
func New(snapshots workflow.SnapshotReader, history storage.ConversationStore, tracker *workflow.Tracker, locks *userlock.Locker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		snapshots:  snapshots,
		history:    history,
		tracker:    tracker,
		classifier: intent.Default(),
		registry:   tools.Default(),
		locks:      locks,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleMessage answers message for userID. clientStage is the stage the
// client believes the user is at; the stored stage always wins.
// clientContext may carry tools.Hint* keys that override the parameters
// read from the message; other keys are noted in the trace and ignored.
//
// Returns storage.ErrNotFound for unknown users and ErrUpstreamUnavailable
// when data cannot be read or written. A failing tool is not an error: the
// response is marked Degraded instead.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, message string, clientStage models.Stage, clientContext map[string]any) (*Response, error) {
	unlock := o.locks.Lock(userID)
	defer unlock()

	now := o.now()

	snap, err := o.snapshots.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		slog.Error("Failed to load snapshot", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	trace := []models.Explanation{{
		Step: StepSnapshot,
		What: fmt.Sprintf("Loaded %d transactions, %d goals, %d budgets and %d investments",
			len(snap.Transactions), len(snap.Goals), len(snap.Budgets), len(snap.Investments)),
	}}

	workflowNote := o.observeStage(ctx, snap, clientStage)

	match := o.classifier.Match(message)
	o.metrics.Intent(match.Tool)
	trace = append(trace, models.Explanation{Step: StepIntent, What: describeMatch(match)})

	resp := &Response{Intent: match.Tool}

	if match.Tool == intent.General {
		resp.Text = generalReply
		trace = append(trace, models.Explanation{Step: StepTool, What: "No tool needed for a general question"})
	} else {
		params := tools.ExtractParams(message, now)
		if len(clientContext) > 0 {
			var applied, ignored []string
			params, applied, ignored = tools.ApplyHints(params, clientContext)
			trace = append(trace, models.Explanation{Step: StepContext, What: describeHints(applied, ignored)})
		}
		trace = append(trace, models.Explanation{Step: StepParameters, What: describeParams(params)})
		resp.Tool = match.Tool

		result, err := o.registry.Invoke(match.Tool, snap, params)
		if err != nil {
			o.metrics.ToolFailure(match.Tool)
			slog.Warn("Tool failed", "user_id", userID, "tool", match.Tool, "error", err)
			resp.Degraded = true
			resp.Text = degradedReply(err)
			trace = append(trace, models.Explanation{Step: StepTool, What: fmt.Sprintf("The %s tool could not answer: %v", match.Tool, err)})
		} else {
			resp.Analysis = result
			resp.Text = result.Summary
			resp.ToolsUsed = []string{match.Tool}
			trace = append(trace, models.Explanation{Step: StepTool, What: fmt.Sprintf("Ran the %s tool over %s", match.Tool, params.Window.Label)})

			resp.Suggestions = Suggest(snap, match.Tool, params)
			trace = append(trace, models.Explanation{Step: StepSuggestion, What: describeSuggestions(resp.Suggestions)})
		}
	}

	resp.Stage = snap.User.Stage
	trace = append(trace, models.Explanation{Step: StepWorkflow, What: workflowNote})
	resp.Explanations = trace

	if err := o.record(ctx, userID, message, now, resp); err != nil {
		slog.Error("Failed to record conversation", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	slog.Debug("Message handled",
		"user_id", userID,
		"intent", resp.Intent,
		"degraded", resp.Degraded,
		"suggestions", len(resp.Suggestions),
	)
	return resp, nil
}

// History returns the latest limit messages of the user, oldest first.
func (o *Orchestrator) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	msgs, err := o.history.ListMessages(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return msgs, nil
}

func (o *Orchestrator) observeStage(ctx context.Context, snap *models.Snapshot, clientStage models.Stage) string {
	before := snap.User.Stage
	stage, promoted, err := o.tracker.Observe(ctx, snap)
	var note string
	switch {
	case err != nil:
		slog.Warn("Failed to observe workflow milestones", "user_id", snap.User.ID, "error", err)
		note = fmt.Sprintf("Stage stays %s", before)
	case promoted:
		note = fmt.Sprintf("Promoted from %s to %s based on your data", before, stage)
	default:
		note = fmt.Sprintf("Stage is %s", stage)
	}
	if clientStage != "" && clientStage != snap.User.Stage {
		note += fmt.Sprintf(" (client reported %s)", clientStage)
	}
	return note
}

// record stores both sides of the exchange and the suggestions. Suggestions
// are stored before the reply so it can reference their IDs.
func (o *Orchestrator) record(ctx context.Context, userID, message string, now time.Time, resp *Response) error {
	ts := now.Unix()

	if err := o.history.AppendMessage(ctx, &models.ChatMessage{
		UserID:    userID,
		Text:      message,
		Sender:    models.SenderUser,
		Timestamp: ts,
	}); err != nil {
		return err
	}

	var ids []string
	for i := range resp.Suggestions {
		s := &resp.Suggestions[i]
		s.UserID = userID
		s.CreatedAt = ts
		if err := o.history.CreateSuggestion(ctx, s); err != nil {
			return err
		}
		ids = append(ids, s.ID)
	}

	reply := &models.ChatMessage{
		UserID:    userID,
		Text:      resp.Text,
		Sender:    models.SenderAssistant,
		Timestamp: ts,
		Payload: &models.MessagePayload{
			Intent:        resp.Intent,
			ToolsUsed:     resp.ToolsUsed,
			SuggestionIDs: ids,
			Explanations:  resp.Explanations,
		},
	}
	if err := o.history.AppendMessage(ctx, reply); err != nil {
		return err
	}
	resp.MessageID = reply.ID
	return nil
}

func degradedReply(err error) string {
	var inputErr *tools.InputError
	if errors.As(err, &inputErr) {
		return "Sorry, I couldn't complete that analysis. " + inputErr.Message
	}
	return "Sorry, I couldn't complete that analysis right now. Please try again later."
}

func describeMatch(m intent.Match) string {
	if m.Tool == intent.General {
		return "No finance keywords matched, answering generally"
	}
	what := fmt.Sprintf("Matched %q, routing to %s", m.Keyword, m.Tool)
	if m.Ambiguous() {
		what += fmt.Sprintf(" (also matched %s; the first rule wins)", strings.Join(m.Candidates[1:], ", "))
	}
	return what
}

func describeHints(applied, ignored []string) string {
	var parts []string
	if len(applied) > 0 {
		parts = append(parts, "Used "+strings.Join(applied, ", "))
	}
	if len(ignored) > 0 {
		parts = append(parts, "ignored "+strings.Join(ignored, ", "))
	}
	return strings.Join(parts, "; ") + " from the client context"
}

func describeParams(p tools.Params) string {
	what := fmt.Sprintf("Window %s (%s to %s)", p.Window.Label,
		p.Window.Start.Format(models.DateLayout),
		p.Window.End.AddDate(0, 0, -1).Format(models.DateLayout))
	if p.Category != "" {
		what += ", category " + string(p.Category)
	}
	return what
}

func describeSuggestions(ss []models.Suggestion) string {
	if len(ss) == 0 {
		return "No follow-up actions"
	}
	labels := make([]string, len(ss))
	for i, s := range ss {
		labels[i] = s.Label
	}
	return "Proposed: " + strings.Join(labels, "; ")
}
