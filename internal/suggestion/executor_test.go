package suggestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/storage/sqlite"
	"github.com/mmynk/finchat/internal/userlock"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func setupExecutor(t *testing.T) (*Executor, *sqlite.SQLiteStore, *models.User) {
	t.Helper()

	dir, err := os.MkdirTemp("", "suggestion-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("exec@example.com", "Exec", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	clock := func() time.Time { return fixedNow }
	l := ledger.New(store, ledger.WithClock(clock))
	return New(l, store, userlock.New(), WithClock(clock)), store, user
}

func createSuggestion(t *testing.T, store *sqlite.SQLiteStore, userID, action string, params map[string]string) *models.Suggestion {
	t.Helper()
	s := &models.Suggestion{UserID: userID, Label: "test", Action: action, Params: params}
	if err := store.CreateSuggestion(context.Background(), s); err != nil {
		t.Fatalf("CreateSuggestion failed: %v", err)
	}
	return s
}

func TestExecute_OnlyOnce(t *testing.T) {
	exec, store, user := setupExecutor(t)
	ctx := context.Background()

	s := createSuggestion(t, store, user.ID, orchestrator.ActionAddBudget, map[string]string{
		"category": "Food", "amount": "200.00", "month": "2026-11",
	})

	first, err := exec.Execute(ctx, user.ID, s.ID, "", nil)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if first.Status != StatusOK || first.RecordID == "" {
		t.Fatalf("first result = %+v, want ok with a record", first)
	}

	second, err := exec.Execute(ctx, user.ID, s.ID, "", nil)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if second.Status != StatusFailed || second.Reason != "already executed" {
		t.Errorf("second result = %+v, want failed: already executed", second)
	}

	budgets, err := store.ListBudgets(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected exactly 1 budget, got %d", len(budgets))
	}
	if budgets[0].ID != first.RecordID || budgets[0].Amount != 200 || budgets[0].Month != "2026-11" {
		t.Errorf("unexpected budget %+v", budgets[0])
	}

	stored, err := store.GetSuggestion(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSuggestion failed: %v", err)
	}
	if !stored.Executed || stored.ResultID != first.RecordID || stored.ExecutedAt != fixedNow.Unix() {
		t.Errorf("stored suggestion = %+v", stored)
	}
}

func TestExecute_Concurrent(t *testing.T) {
	exec, store, user := setupExecutor(t)
	ctx := context.Background()

	s := createSuggestion(t, store, user.ID, orchestrator.ActionAddGoal, map[string]string{
		"name": "Emergency Fund", "target_amount": "1000.00", "category": "Savings",
	})

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := exec.Execute(ctx, user.ID, s.ID, "", nil)
			if err != nil {
				t.Errorf("Execute failed: %v", err)
				return
			}
			if res.Status == StatusOK {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if oks != 1 {
		t.Errorf("expected exactly 1 ok execution, got %d", oks)
	}
	goals, err := store.ListGoals(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListGoals failed: %v", err)
	}
	if len(goals) != 1 {
		t.Errorf("expected exactly 1 goal, got %d", len(goals))
	}
}

func TestExecute_FailureReleasesClaim(t *testing.T) {
	exec, store, user := setupExecutor(t)
	ctx := context.Background()

	s := createSuggestion(t, store, user.ID, orchestrator.ActionAddBudget, map[string]string{
		"category": "Food", "amount": "lots",
	})

	res, err := exec.Execute(ctx, user.ID, s.ID, "", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Status != StatusFailed || res.Reason == "" {
		t.Errorf("result = %+v, want failed with a reason", res)
	}

	stored, err := store.GetSuggestion(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSuggestion failed: %v", err)
	}
	if stored.Executed {
		t.Error("failed execution should release the claim")
	}
}

func TestExecute_NotFound(t *testing.T) {
	exec, store, user := setupExecutor(t)
	ctx := context.Background()

	other := models.NewUser("other@example.com", "Other", "hash")
	if err := store.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	s := createSuggestion(t, store, other.ID, orchestrator.ActionAddBudget, map[string]string{
		"category": "Food", "amount": "10",
	})

	for name, id := range map[string]string{"missing": "nope", "other owner": s.ID} {
		t.Run(name, func(t *testing.T) {
			res, err := exec.Execute(ctx, user.ID, id, "", nil)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if res.Status != StatusFailed || res.Reason != "suggestion not found" {
				t.Errorf("result = %+v, want failed: suggestion not found", res)
			}
		})
	}
}

func TestExecute_Direct(t *testing.T) {
	exec, store, user := setupExecutor(t)
	ctx := context.Background()

	params := map[string]string{
		"amount": "-12.50", "category": "food", "description": "Lunch", "merchant": "Deli",
	}
	for i := 0; i < 2; i++ {
		res, err := exec.Execute(ctx, user.ID, "", orchestrator.ActionAddTransaction, params)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if res.Status != StatusOK {
			t.Fatalf("result = %+v, want ok", res)
		}
	}

	txs, err := store.ListTransactions(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("direct actions are not deduplicated: expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Date.Format(models.DateLayout) != "2026-10-15" {
		t.Errorf("date should default to today, got %s", txs[0].Date.Format(models.DateLayout))
	}

	tests := []struct {
		name   string
		action string
		params map[string]string
	}{
		{"unknown action", "delete_everything", nil},
		{"missing amount", orchestrator.ActionAddBudget, map[string]string{"category": "Food"}},
		{"bad category", orchestrator.ActionAddBudget, map[string]string{"category": "Yachts", "amount": "10"}},
		{"bad goal target", orchestrator.ActionAddGoal, map[string]string{"name": "Car", "target_amount": "ten"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := exec.Execute(ctx, user.ID, "", tt.action, tt.params)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if res.Status != StatusFailed || res.Reason == "" {
				t.Errorf("result = %+v, want failed with a reason", res)
			}
		})
	}

	t.Run("duplicate budget", func(t *testing.T) {
		budget := map[string]string{"category": "Travel", "amount": "300", "month": "2026-12"}
		if res, err := exec.Execute(ctx, user.ID, "", orchestrator.ActionAddBudget, budget); err != nil || res.Status != StatusOK {
			t.Fatalf("first budget: %+v, %v", res, err)
		}
		res, err := exec.Execute(ctx, user.ID, "", orchestrator.ActionAddBudget, budget)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if res.Status != StatusFailed {
			t.Errorf("result = %+v, want failed", res)
		}
	})
}

func TestExecute_StoreUnavailable(t *testing.T) {
	exec, store, user := setupExecutor(t)
	ctx := context.Background()

	s := createSuggestion(t, store, user.ID, orchestrator.ActionAddBudget, map[string]string{
		"category": "Food", "amount": "200.00", "month": "2026-11",
	})
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	t.Run("stored suggestion", func(t *testing.T) {
		res, err := exec.Execute(ctx, user.ID, s.ID, "", nil)
		if !errors.Is(err, storage.ErrUnavailable) {
			t.Errorf("err = %v, want ErrUnavailable", err)
		}
		if res != nil {
			t.Errorf("an outage must not look like a result, got %+v", res)
		}
	})

	t.Run("direct action", func(t *testing.T) {
		_, err := exec.Execute(ctx, user.ID, "", orchestrator.ActionAddGoal, map[string]string{"name": "Car", "target_amount": "5000"})
		if !errors.Is(err, storage.ErrUnavailable) {
			t.Errorf("err = %v, want ErrUnavailable", err)
		}
	})
}
