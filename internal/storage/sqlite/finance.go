package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/finchat/internal/models"
)

// CreateTransaction appends a transaction to the user's ledger.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	// Generate IDs if not set
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, date, amount, category, description, merchant, account_type, recurring_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, formatDate(tx.Date), tx.Amount, string(tx.Category),
		tx.Description, tx.Merchant, tx.AccountType, tx.RecurringID, tx.CreatedAt,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert transaction: %w", cerr)
		}
		return dbError("insert transaction", err)
	}

	return nil
}

// ListTransactions returns all of the user's transactions ordered by date.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, amount, category, description, merchant, account_type, recurring_id, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY date, rowid`,
		userID,
	)
	if err != nil {
		return nil, dbError("list transactions", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx       models.Transaction
			date     string
			category string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &date, &tx.Amount, &category,
			&tx.Description, &tx.Merchant, &tx.AccountType, &tx.RecurringID, &tx.CreatedAt); err != nil {
			return nil, dbError("scan transaction", err)
		}
		if tx.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		tx.Category = models.Category(category)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate transactions", err)
	}

	return txs, nil
}

// CreateGoal persists a new goal.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, category, monthly_contribution, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount,
		formatDate(goal.Deadline), goal.Category, goal.MonthlyContribution, goal.CreatedAt,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert goal: %w", cerr)
		}
		return dbError("insert goal", err)
	}

	return nil
}

// ListGoals returns the user's goals in creation order.
func (s *SQLiteStore) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_amount, current_amount, deadline, category, monthly_contribution, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, dbError("list goals", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var (
			g        models.Goal
			deadline string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&deadline, &g.Category, &g.MonthlyContribution, &g.CreatedAt); err != nil {
			return nil, dbError("scan goal", err)
		}
		if g.Deadline, err = parseDate(deadline); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate goals", err)
	}

	return goals, nil
}

// CreateBudget persists a new monthly budget.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.CreatedAt == 0 {
		budget.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount, month, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, string(budget.Category), budget.Amount, budget.Month, budget.CreatedAt,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert budget %s/%s: %w", budget.Category, budget.Month, cerr)
		}
		return dbError("insert budget", err)
	}

	return nil
}

// ListBudgets returns the user's budgets ordered by month and category.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, month, created_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY month, category`,
		userID,
	)
	if err != nil {
		return nil, dbError("list budgets", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var (
			b        models.Budget
			category string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &category, &b.Amount, &b.Month, &b.CreatedAt); err != nil {
			return nil, dbError("scan budget", err)
		}
		b.Category = models.Category(category)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate budgets", err)
	}

	return budgets, nil
}

// CreateInvestment persists a new holding.
func (s *SQLiteStore) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO investments (id, user_id, symbol, name, asset_type, shares, cost_basis, current_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.UserID, inv.Symbol, inv.Name, inv.AssetType,
		inv.Shares, inv.CostBasis, inv.CurrentPrice, inv.CreatedAt,
	)
	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to insert investment: %w", cerr)
		}
		return dbError("insert investment", err)
	}

	return nil
}

// ListInvestments returns the user's holdings ordered by symbol.
func (s *SQLiteStore) ListInvestments(ctx context.Context, userID string) ([]models.Investment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, symbol, name, asset_type, shares, cost_basis, current_price, created_at
		FROM investments
		WHERE user_id = ?
		ORDER BY symbol, rowid`,
		userID,
	)
	if err != nil {
		return nil, dbError("list investments", err)
	}
	defer rows.Close()

	var invs []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Symbol, &inv.Name, &inv.AssetType,
			&inv.Shares, &inv.CostBasis, &inv.CurrentPrice, &inv.CreatedAt); err != nil {
			return nil, dbError("scan investment", err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate investments", err)
	}

	return invs, nil
}
