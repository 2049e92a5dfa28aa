package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/storage/sqlite"
)

func setupTracker(t *testing.T) (*Tracker, *ledger.Ledger, *models.User) {
	t.Helper()

	dir, err := os.MkdirTemp("", "workflow-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("stage@example.com", "Stage", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	l := ledger.New(store)
	return New(store, l), l, user
}

func TestSetStage_AnyTransition(t *testing.T) {
	tracker, _, user := setupTracker(t)
	ctx := context.Background()

	for _, stage := range []models.Stage{models.StageAdvanced, models.StageStarted, models.StageIntermediate, models.StageMVP} {
		if err := tracker.SetStage(ctx, user.ID, stage); err != nil {
			t.Fatalf("SetStage(%s) failed: %v", stage, err)
		}
		got, err := tracker.Current(ctx, user.ID)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if got != stage {
			t.Errorf("Current = %s, want %s", got, stage)
		}
	}
}

func TestSetStage_Errors(t *testing.T) {
	tracker, _, user := setupTracker(t)
	ctx := context.Background()

	t.Run("invalid stage", func(t *testing.T) {
		err := tracker.SetStage(ctx, user.ID, models.Stage("Expert"))
		if !errors.Is(err, ErrInvalidStage) {
			t.Errorf("expected ErrInvalidStage, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		err := tracker.SetStage(ctx, "missing", models.StageMVP)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestInfer(t *testing.T) {
	tx := []models.Transaction{{Amount: -1}}
	goals := []models.Goal{{Name: "g"}}
	budgets := []models.Budget{{Category: models.CategoryFood}}
	invs := []models.Investment{{Symbol: "VTI"}}

	tests := []struct {
		name string
		snap models.Snapshot
		want models.Stage
	}{
		{"no data", models.Snapshot{}, models.StageStarted},
		{"transactions only", models.Snapshot{Transactions: tx}, models.StageMVP},
		{"goals without budgets", models.Snapshot{Goals: goals}, models.StageMVP},
		{"goals and budgets", models.Snapshot{Goals: goals, Budgets: budgets}, models.StageIntermediate},
		{"with investments", models.Snapshot{Goals: goals, Budgets: budgets, Investments: invs}, models.StageAdvanced},
		{"investments alone", models.Snapshot{Investments: invs}, models.StageMVP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(&tt.snap); got != tt.want {
				t.Errorf("Infer = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestObserve_ForwardOnly(t *testing.T) {
	tracker, l, user := setupTracker(t)
	ctx := context.Background()

	if _, err := l.AddTransaction(ctx, user.ID, ledger.TransactionInput{Amount: -10, Category: "Food", Description: "Lunch"}); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	snap, err := l.Snapshot(ctx, user.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	stage, changed, err := tracker.Observe(ctx, snap)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if !changed || stage != models.StageMVP {
		t.Errorf("Observe = %s, %v; want MVP, true", stage, changed)
	}

	if err := tracker.SetStage(ctx, user.ID, models.StageAdvanced); err != nil {
		t.Fatalf("SetStage failed: %v", err)
	}
	snap, err = l.Snapshot(ctx, user.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	stage, changed, err = tracker.Observe(ctx, snap)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if changed || stage != models.StageAdvanced {
		t.Errorf("Observe = %s, %v; want Advanced, false", stage, changed)
	}
}

func TestStatus(t *testing.T) {
	tracker, _, user := setupTracker(t)

	status, err := tracker.Status(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	want := &Status{
		Current:   models.StageStarted,
		Inferred:  models.StageStarted,
		NextSteps: []string{"Provide consent", "Set a budget", "Add your first goal"},
	}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_StoreUnavailable(t *testing.T) {
	dir, err := os.MkdirTemp("", "workflow-closed-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	user := models.NewUser("closed@example.com", "Closed", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	tracker := New(store, ledger.New(store))
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	ctx := context.Background()
	if _, err := tracker.Status(ctx, user.ID); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Status err = %v, want ErrUnavailable", err)
	}
	if err := tracker.SetStage(ctx, user.ID, models.StageMVP); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("SetStage err = %v, want ErrUnavailable", err)
	}
}
