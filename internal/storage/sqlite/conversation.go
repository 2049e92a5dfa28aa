package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
)

// AppendMessage adds a message to the user's conversation history.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	payload := ""
	if msg.Payload != nil {
		data, err := json.Marshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode message payload: %w", err)
		}
		payload = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, user_id, sender, text, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.UserID, string(msg.Sender), msg.Text, payload, msg.Timestamp,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert message: %w", cerr)
		}
		return dbError("insert message", err)
	}

	return nil
}

// ListMessages returns the most recent limit messages, oldest first.
// A limit of zero or less returns the full history.
func (s *SQLiteStore) ListMessages(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, sender, text, payload, created_at FROM (
			SELECT id, user_id, sender, text, payload, created_at, rowid AS seq
			FROM chat_messages
			WHERE user_id = ?
			ORDER BY rowid DESC
			LIMIT ?
		) ORDER BY seq`,
		userID, limit,
	)
	if err != nil {
		return nil, dbError("list messages", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var (
			msg     models.ChatMessage
			sender  string
			payload string
		)
		if err := rows.Scan(&msg.ID, &msg.UserID, &sender, &msg.Text, &payload, &msg.Timestamp); err != nil {
			return nil, dbError("scan message", err)
		}
		msg.Sender = models.Sender(sender)
		if payload != "" {
			msg.Payload = &models.MessagePayload{}
			if err := json.Unmarshal([]byte(payload), msg.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode message payload: %w", err)
			}
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate messages", err)
	}

	return msgs, nil
}

// CreateSuggestion persists a proposed action in the not-executed state.
func (s *SQLiteStore) CreateSuggestion(ctx context.Context, sg *models.Suggestion) error {
	if sg.ID == "" {
		sg.ID = uuid.New().String()
	}
	if sg.CreatedAt == 0 {
		sg.CreatedAt = time.Now().Unix()
	}

	params, err := json.Marshal(sg.Params)
	if err != nil {
		return fmt.Errorf("failed to encode suggestion params: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO suggestions (id, user_id, label, action, params, executed, executed_at, result_id, created_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, '', ?)`,
		sg.ID, sg.UserID, sg.Label, sg.Action, string(params), sg.CreatedAt,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert suggestion: %w", cerr)
		}
		return dbError("insert suggestion", err)
	}

	return nil
}

// GetSuggestion retrieves a suggestion by ID.
func (s *SQLiteStore) GetSuggestion(ctx context.Context, id string) (*models.Suggestion, error) {
	var (
		sg       models.Suggestion
		params   string
		executed int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, label, action, params, executed, executed_at, result_id, created_at
		FROM suggestions
		WHERE id = ?`,
		id,
	).Scan(&sg.ID, &sg.UserID, &sg.Label, &sg.Action, &params, &executed, &sg.ExecutedAt, &sg.ResultID, &sg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("suggestion %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("get suggestion", err)
	}

	if err := json.Unmarshal([]byte(params), &sg.Params); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion params: %w", err)
	}
	sg.Executed = executed != 0

	return &sg, nil
}

// ClaimSuggestion flips executed from 0 to 1 in a single conditional update,
// so two concurrent claims cannot both succeed.
func (s *SQLiteStore) ClaimSuggestion(ctx context.Context, id string, executedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE suggestions SET executed = 1, executed_at = ? WHERE id = ? AND executed = 0",
		executedAt, id,
	)
	if err != nil {
		return dbError("claim suggestion", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbError("check claimed rows", err)
	}
	if n == 1 {
		return nil
	}

	// Nothing updated: either missing or already executed.
	if _, err := s.GetSuggestion(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("suggestion %s: %w", id, storage.ErrAlreadyExecuted)
}

// ReleaseSuggestion resets a claim whose action could not be applied.
func (s *SQLiteStore) ReleaseSuggestion(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE suggestions SET executed = 0, executed_at = 0 WHERE id = ? AND result_id = ''",
		id,
	)
	if err != nil {
		return dbError("release suggestion", err)
	}
	return nil
}

// CompleteSuggestion records which record the execution created.
func (s *SQLiteStore) CompleteSuggestion(ctx context.Context, id, resultID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE suggestions SET result_id = ? WHERE id = ?",
		resultID, id,
	)
	if err != nil {
		return dbError("complete suggestion", err)
	}
	return nil
}
