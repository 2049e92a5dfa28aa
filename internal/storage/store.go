// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/finchat/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint would be violated,
	// e.g. a second budget for the same (user, category, month).
	ErrDuplicate = errors.New("already exists")

	// ErrAlreadyExecuted is returned when claiming a suggestion that has
	// already been executed.
	ErrAlreadyExecuted = errors.New("suggestion already executed")

	// ErrConflict is returned when a conditional update finds the record
	// changed since it was read.
	ErrConflict = errors.New("record changed concurrently")

	// ErrUnavailable wraps failures of the backend itself (closed database,
	// I/O, driver errors). The operation may succeed if retried.
	ErrUnavailable = errors.New("storage unavailable")
)

// UserStore holds user accounts and their workflow stage.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUserStage overwrites the stored stage. No transition rules apply.
	UpdateUserStage(ctx context.Context, userID string, stage models.Stage) error
}

// FinanceStore holds the financial records owned by a user.
// Records are append-only: there are no update or delete operations.
type FinanceStore interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	CreateGoal(ctx context.Context, goal *models.Goal) error
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)

	// CreateBudget returns ErrDuplicate if the user already has a budget
	// for the same category and month.
	CreateBudget(ctx context.Context, budget *models.Budget) error
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)

	CreateInvestment(ctx context.Context, inv *models.Investment) error
	ListInvestments(ctx context.Context, userID string) ([]models.Investment, error)
}

// RecurringStore holds recurring transaction templates. Unlike the ledger,
// templates can be updated and deleted. Lookups are scoped to the owner:
// another user's template is reported as ErrNotFound.
type RecurringStore interface {
	CreateRecurring(ctx context.Context, r *models.RecurringTransaction) error
	GetRecurring(ctx context.Context, userID, id string) (*models.RecurringTransaction, error)

	// ListRecurring returns the user's templates ordered by next date.
	ListRecurring(ctx context.Context, userID string) ([]models.RecurringTransaction, error)

	UpdateRecurring(ctx context.Context, r *models.RecurringTransaction) error
	DeleteRecurring(ctx context.Context, userID, id string) error

	// AdvanceRecurring moves next_date from one date to another only if it
	// still equals from. Returns ErrConflict otherwise.
	AdvanceRecurring(ctx context.Context, userID, id string, from, to time.Time) error
}

// ConversationStore holds chat history and proposed suggestions.
type ConversationStore interface {
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error

	// ListMessages returns the most recent limit messages, oldest first.
	ListMessages(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)

	CreateSuggestion(ctx context.Context, s *models.Suggestion) error
	GetSuggestion(ctx context.Context, id string) (*models.Suggestion, error)

	// ClaimSuggestion atomically flips the executed flag from false to true.
	// Returns ErrAlreadyExecuted if it was already set.
	ClaimSuggestion(ctx context.Context, id string, executedAt int64) error

	// ReleaseSuggestion undoes a claim whose action failed to apply.
	ReleaseSuggestion(ctx context.Context, id string) error

	// CompleteSuggestion records the ID of the record the execution created.
	CompleteSuggestion(ctx context.Context, id, resultID string) error
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	FinanceStore
	RecurringStore
	ConversationStore

	// Close releases any resources held by the store.
	Close() error
}
