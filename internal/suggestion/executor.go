// Package suggestion executes follow-up actions proposed in chat.
//
// An action tied to a stored suggestion runs at most once: the suggestion is
// claimed in the store before the action is applied, and the claim is
// released if applying fails.
package suggestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/metrics"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/userlock"
)

// ErrExecutionConflict means the suggestion has already been executed.
var ErrExecutionConflict = errors.New("already executed")

// Execution outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Result is the outcome of one execution.
type Result struct {
	Status string
	// Reason explains a failed status.
	Reason string
	// RecordID is the ID of the created transaction, goal or budget.
	RecordID string
}

// Ledger is the write path the executor applies actions through.
type Ledger interface {
	AddTransaction(ctx context.Context, userID string, in ledger.TransactionInput) (*models.Transaction, error)
	AddGoal(ctx context.Context, userID string, in ledger.GoalInput) (*models.Goal, error)
	AddBudget(ctx context.Context, userID string, in ledger.BudgetInput) (*models.Budget, error)
}

// Executor applies suggestion actions.
type Executor struct {
	ledger      Ledger
	suggestions storage.ConversationStore
	locks       *userlock.Locker
	metrics     *metrics.Metrics
	now         func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics enables metric recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithClock overrides the time recorded on executed suggestions.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an Executor. locks should be the same Locker the
// orchestrator uses.
func New(l Ledger, suggestions storage.ConversationStore, locks *userlock.Locker, opts ...Option) *Executor {
	e := &Executor{
		ledger:      l,
		suggestions: suggestions,
		locks:       locks,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs an action for userID.
//
// With a suggestionID the stored suggestion's action and params are used and
// the action and params arguments are ignored; a second call for the same
// suggestion fails with a reason wrapping ErrExecutionConflict. Without a
// suggestionID the given action runs directly and is not deduplicated.
//
// Problems with the request produce a failed Result. The returned error is
// reserved for storage failures.
func (e *Executor) Execute(ctx context.Context, userID, suggestionID, action string, params map[string]string) (*Result, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	var (
		res *Result
		err error
	)
	if suggestionID == "" {
		res, err = e.direct(ctx, userID, action, params)
	} else {
		res, action, err = e.claimed(ctx, userID, suggestionID)
	}
	if err != nil {
		return nil, err
	}

	e.metrics.Execution(action, res.Status)
	if res.Status == StatusOK {
		slog.Info("Action executed", "user_id", userID, "suggestion_id", suggestionID, "action", action, "record_id", res.RecordID)
	} else {
		slog.Info("Action not executed", "user_id", userID, "suggestion_id", suggestionID, "action", action, "reason", res.Reason)
	}
	return res, nil
}

func (e *Executor) direct(ctx context.Context, userID, action string, params map[string]string) (*Result, error) {
	id, err := e.apply(ctx, userID, action, params)
	if err != nil {
		return failure(err)
	}
	return &Result{Status: StatusOK, RecordID: id}, nil
}

func (e *Executor) claimed(ctx context.Context, userID, suggestionID string) (*Result, string, error) {
	s, err := e.suggestions.GetSuggestion(ctx, suggestionID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && s.UserID != userID) {
		return &Result{Status: StatusFailed, Reason: "suggestion not found"}, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if s.Executed {
		return conflict(), s.Action, nil
	}

	if err := e.suggestions.ClaimSuggestion(ctx, s.ID, e.now().Unix()); err != nil {
		if errors.Is(err, storage.ErrAlreadyExecuted) {
			return conflict(), s.Action, nil
		}
		return nil, s.Action, err
	}

	id, err := e.apply(ctx, userID, s.Action, s.Params)
	if err != nil {
		if rerr := e.suggestions.ReleaseSuggestion(ctx, s.ID); rerr != nil {
			slog.Error("Failed to release suggestion claim", "suggestion_id", s.ID, "error", rerr)
		}
		res, err := failure(err)
		return res, s.Action, err
	}

	if err := e.suggestions.CompleteSuggestion(ctx, s.ID, id); err != nil {
		// The record exists and the claim holds; only the back-reference is missing.
		slog.Error("Failed to record suggestion result", "suggestion_id", s.ID, "record_id", id, "error", err)
	}
	return &Result{Status: StatusOK, RecordID: id}, s.Action, nil
}

func conflict() *Result {
	return &Result{Status: StatusFailed, Reason: ErrExecutionConflict.Error()}
}

// failure turns request problems into a failed result and passes other
// errors through.
func failure(err error) (*Result, error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, errUnknownAction), errors.Is(err, errBadParam):
		return &Result{Status: StatusFailed, Reason: err.Error()}, nil
	case errors.Is(err, storage.ErrDuplicate):
		return &Result{Status: StatusFailed, Reason: "a matching record already exists"}, nil
	case errors.Is(err, storage.ErrNotFound):
		return &Result{Status: StatusFailed, Reason: "user not found"}, nil
	default:
		return nil, err
	}
}

var (
	errUnknownAction = errors.New("unknown action")
	errBadParam      = errors.New("invalid parameter")
)

func (e *Executor) apply(ctx context.Context, userID, action string, params map[string]string) (string, error) {
	p := paramReader(params)
	switch action {
	case orchestrator.ActionAddTransaction:
		amount, err := p.float("amount", true)
		if err != nil {
			return "", err
		}
		tx, err := e.ledger.AddTransaction(ctx, userID, ledger.TransactionInput{
			Date:        p.str("date"),
			Amount:      amount,
			Category:    p.str("category"),
			Description: p.str("description"),
			Merchant:    p.str("merchant"),
			AccountType: p.str("account_type"),
		})
		if err != nil {
			return "", err
		}
		return tx.ID, nil

	case orchestrator.ActionAddGoal:
		target, err := p.float("target_amount", true)
		if err != nil {
			return "", err
		}
		current, err := p.float("current_amount", false)
		if err != nil {
			return "", err
		}
		monthly, err := p.float("monthly_contribution", false)
		if err != nil {
			return "", err
		}
		g, err := e.ledger.AddGoal(ctx, userID, ledger.GoalInput{
			Name:                p.str("name"),
			TargetAmount:        target,
			CurrentAmount:       current,
			Deadline:            p.str("deadline"),
			Category:            p.str("category"),
			MonthlyContribution: monthly,
		})
		if err != nil {
			return "", err
		}
		return g.ID, nil

	case orchestrator.ActionAddBudget:
		amount, err := p.float("amount", true)
		if err != nil {
			return "", err
		}
		b, err := e.ledger.AddBudget(ctx, userID, ledger.BudgetInput{
			Category: p.str("category"),
			Amount:   amount,
			Month:    p.str("month"),
		})
		if err != nil {
			return "", err
		}
		return b.ID, nil

	default:
		return "", fmt.Errorf("%w %q", errUnknownAction, action)
	}
}

type paramReader map[string]string

func (p paramReader) str(key string) string {
	return strings.TrimSpace(p[key])
}

func (p paramReader) float(key string, required bool) (float64, error) {
	raw := p.str(key)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", errBadParam, key)
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadParam, key)
	}
	return f, nil
}
