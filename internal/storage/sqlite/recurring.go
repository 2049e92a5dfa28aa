package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
)

const recurringColumns = `id, user_id, description, amount, category, start_date, end_date, frequency, interval, next_date, created_at, updated_at`

// CreateRecurring persists a new recurring template.
func (s *SQLiteStore) CreateRecurring(ctx context.Context, r *models.RecurringTransaction) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	r.UpdatedAt = r.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (`+recurringColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Description, r.Amount, string(r.Category),
		formatDate(r.StartDate), formatDate(r.EndDate), string(r.Frequency), r.Interval,
		formatDate(r.NextDate), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert recurring transaction: %w", cerr)
		}
		return dbError("insert recurring transaction", err)
	}

	return nil
}

// GetRecurring returns one of the user's templates.
func (s *SQLiteStore) GetRecurring(ctx context.Context, userID, id string) (*models.RecurringTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	r, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recurring transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecurring returns the user's templates, soonest first.
func (s *SQLiteStore) ListRecurring(ctx context.Context, userID string) ([]models.RecurringTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE user_id = ? ORDER BY next_date, rowid`,
		userID,
	)
	if err != nil {
		return nil, dbError("list recurring transactions", err)
	}
	defer rows.Close()

	var out []models.RecurringTransaction
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate recurring transactions", err)
	}

	return out, nil
}

// UpdateRecurring overwrites the editable fields of a template.
func (s *SQLiteStore) UpdateRecurring(ctx context.Context, r *models.RecurringTransaction) error {
	r.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET description = ?, amount = ?, category = ?, start_date = ?, end_date = ?,
		    frequency = ?, interval = ?, next_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Description, r.Amount, string(r.Category), formatDate(r.StartDate), formatDate(r.EndDate),
		string(r.Frequency), r.Interval, formatDate(r.NextDate), r.UpdatedAt,
		r.ID, r.UserID,
	)
	if err != nil {
		return dbError("update recurring transaction", err)
	}
	return expectOneRow(res, "recurring transaction "+r.ID)
}

// DeleteRecurring removes a template. Transactions it generated stay in the ledger.
func (s *SQLiteStore) DeleteRecurring(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return dbError("delete recurring transaction", err)
	}
	return expectOneRow(res, "recurring transaction "+id)
}

// AdvanceRecurring moves next_date forward in a single conditional update,
// so two concurrent generators cannot both claim the same occurrences.
func (s *SQLiteStore) AdvanceRecurring(ctx context.Context, userID, id string, from, to time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions SET next_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND next_date = ?`,
		formatDate(to), time.Now().Unix(), id, userID, formatDate(from),
	)
	if err != nil {
		return dbError("advance recurring transaction", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbError("check advanced rows", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := s.GetRecurring(ctx, userID, id); err != nil {
		return err
	}
	return fmt.Errorf("recurring transaction %s: %w", id, storage.ErrConflict)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecurring(row rowScanner) (*models.RecurringTransaction, error) {
	var (
		r                   models.RecurringTransaction
		category, frequency string
		start, end, next    string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Description, &r.Amount, &category,
		&start, &end, &frequency, &r.Interval, &next, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, dbError("scan recurring transaction", err)
	}

	r.Category = models.Category(category)
	r.Frequency = models.Frequency(frequency)
	if r.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if r.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	if r.NextDate, err = parseDate(next); err != nil {
		return nil, err
	}
	return &r, nil
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbError("check affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
