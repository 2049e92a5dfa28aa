package recurring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/storage/sqlite"
	"github.com/mmynk/finchat/internal/userlock"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func setupScheduler(t *testing.T) (*Scheduler, *sqlite.SQLiteStore, *models.User) {
	t.Helper()

	dir, err := os.MkdirTemp("", "recurring-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("recurring@example.com", "Rec", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	clock := func() time.Time { return fixedNow }
	l := ledger.New(store, ledger.WithClock(clock))
	return New(store, l, userlock.New(), WithClock(clock)), store, user
}

func dates(txs []models.Transaction) []string {
	var out []string
	for _, tx := range txs {
		out = append(out, tx.Date.Format(models.DateLayout))
	}
	return out
}

func TestScheduler_CreateDefaults(t *testing.T) {
	s, _, user := setupScheduler(t)

	r, err := s.Create(context.Background(), user.ID, Input{
		Description: " Rent ", Amount: -1800, Category: "housing",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	today := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if r.Description != "Rent" || r.Category != models.CategoryHousing {
		t.Errorf("unexpected fields: %+v", r)
	}
	if r.Frequency != models.FrequencyMonthly || r.Interval != 1 {
		t.Errorf("frequency = %s x%d, want monthly x1", r.Frequency, r.Interval)
	}
	if !r.StartDate.Equal(today) || !r.NextDate.Equal(today) || r.HasEnd() {
		t.Errorf("dates = start %s next %s end %s", r.StartDate, r.NextDate, r.EndDate)
	}
}

func TestScheduler_Validation(t *testing.T) {
	s, _, user := setupScheduler(t)
	valid := Input{Description: "Gym", Amount: -40, Category: "Healthcare", StartDate: "2026-10-01"}

	tests := []struct {
		name   string
		modify func(*Input)
		field  string
	}{
		{"missing description", func(in *Input) { in.Description = " " }, "description"},
		{"zero amount", func(in *Input) { in.Amount = 0 }, "amount"},
		{"unknown category", func(in *Input) { in.Category = "Pets" }, "category"},
		{"unknown frequency", func(in *Input) { in.Frequency = "hourly" }, "frequency"},
		{"negative interval", func(in *Input) { in.Interval = -1 }, "interval"},
		{"bad start", func(in *Input) { in.StartDate = "10/01/2026" }, "start_date"},
		{"end before start", func(in *Input) { in.EndDate = "2026-09-30" }, "end_date"},
		{"next before start", func(in *Input) { in.NextDate = "2026-09-30" }, "next_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			_, err := s.Create(context.Background(), user.ID, in)
			var verr *ledger.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}
}

func TestScheduler_Generate(t *testing.T) {
	s, store, user := setupScheduler(t)
	ctx := context.Background()

	rent, err := s.Create(ctx, user.ID, Input{
		Description: "Rent", Amount: -1800, Category: "Housing", StartDate: "2026-07-31",
	})
	if err != nil {
		t.Fatalf("Create rent failed: %v", err)
	}
	gym, err := s.Create(ctx, user.ID, Input{
		Description: "Gym", Amount: -40, Category: "Healthcare", StartDate: "2026-09-20",
		EndDate: "2026-10-10", Frequency: "weekly", Interval: 2,
	})
	if err != nil {
		t.Fatalf("Create gym failed: %v", err)
	}

	t.Run("records due occurrences", func(t *testing.T) {
		txs, err := s.Generate(ctx, user.ID, "")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		want := []string{"2026-07-31", "2026-08-31", "2026-09-30", "2026-09-20", "2026-10-04"}
		if diff := cmp.Diff(want, dates(txs)); diff != "" {
			t.Errorf("generated dates mismatch (-want +got):\n%s", diff)
		}
		for _, tx := range txs {
			if tx.RecurringID != rent.ID && tx.RecurringID != gym.ID {
				t.Errorf("transaction %s has recurring ID %q", tx.ID, tx.RecurringID)
			}
		}

		stored, err := store.ListTransactions(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(stored) != 5 {
			t.Errorf("stored %d transactions, want 5", len(stored))
		}
	})

	t.Run("advances next dates", func(t *testing.T) {
		got, err := s.Get(ctx, user.ID, rent.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if want := "2026-10-30"; got.NextDate.Format(models.DateLayout) != want {
			t.Errorf("rent next = %s, want %s", got.NextDate.Format(models.DateLayout), want)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		txs, err := s.Generate(ctx, user.ID, "")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("second run generated %v", dates(txs))
		}
	})

	t.Run("explicit horizon", func(t *testing.T) {
		txs, err := s.Generate(ctx, user.ID, "2026-11-30")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if diff := cmp.Diff([]string{"2026-10-30", "2026-11-30"}, dates(txs)); diff != "" {
			t.Errorf("generated dates mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("bad horizon", func(t *testing.T) {
		_, err := s.Generate(ctx, user.ID, "soon")
		var verr *ledger.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestScheduler_GenerateConcurrent(t *testing.T) {
	s, store, user := setupScheduler(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, user.ID, Input{
		Description: "Coffee", Amount: -4.5, Category: "Food", StartDate: "2026-10-01", Frequency: "daily",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A second scheduler with its own locks only shares the store.
	other := New(store, ledger.New(store), userlock.New(), WithClock(s.now))

	var wg sync.WaitGroup
	for _, sched := range []*Scheduler{s, other, s, other} {
		wg.Add(1)
		go func(sched *Scheduler) {
			defer wg.Done()
			if _, err := sched.Generate(ctx, user.ID, ""); err != nil {
				t.Errorf("Generate failed: %v", err)
			}
		}(sched)
	}
	wg.Wait()

	txs, err := store.ListTransactions(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 15 {
		t.Errorf("got %d transactions, want 15 (Oct 1 through Oct 15)", len(txs))
	}
}

// failingLedger accepts a fixed number of transactions and then fails.
type failingLedger struct {
	Ledger
	left int
}

func (f *failingLedger) AddTransaction(ctx context.Context, userID string, in ledger.TransactionInput) (*models.Transaction, error) {
	if f.left == 0 {
		return nil, storage.ErrUnavailable
	}
	f.left--
	return f.Ledger.AddTransaction(ctx, userID, in)
}

func TestScheduler_GeneratePartialFailure(t *testing.T) {
	s, store, user := setupScheduler(t)
	ctx := context.Background()

	r, err := s.Create(ctx, user.ID, Input{
		Description: "Rent", Amount: -1800, Category: "Housing", StartDate: "2026-07-01",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s.ledger = &failingLedger{Ledger: s.ledger, left: 2}
	txs, err := s.Generate(ctx, user.ID, "")
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if diff := cmp.Diff([]string{"2026-07-01", "2026-08-01"}, dates(txs)); diff != "" {
		t.Errorf("partial dates mismatch (-want +got):\n%s", diff)
	}

	got, err := store.GetRecurring(ctx, user.ID, r.ID)
	if err != nil {
		t.Fatalf("GetRecurring failed: %v", err)
	}
	if next := got.NextDate.Format(models.DateLayout); next != "2026-09-01" {
		t.Errorf("next date = %s, want the first unrecorded occurrence 2026-09-01", next)
	}

	s.ledger = s.ledger.(*failingLedger).Ledger
	rest, err := s.Generate(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if diff := cmp.Diff([]string{"2026-09-01", "2026-10-01"}, dates(rest)); diff != "" {
		t.Errorf("retry dates mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduler_Preview(t *testing.T) {
	s, _, user := setupScheduler(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, user.ID, Input{
		Description: "Insurance", Amount: -600, Category: "Other", StartDate: "2026-01-31",
		NextDate: "2026-11-30", EndDate: "2027-03-01", Frequency: "monthly", Interval: 2,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("default periods", func(t *testing.T) {
		got, err := s.Preview(ctx, user.ID, 0)
		if err != nil {
			t.Fatalf("Preview failed: %v", err)
		}
		var ds []string
		for _, o := range got {
			ds = append(ds, o.Date.Format(models.DateLayout))
		}
		// The third period would be 2027-03-30, past the end date.
		if diff := cmp.Diff([]string{"2026-11-30", "2027-01-30"}, ds); diff != "" {
			t.Errorf("preview mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("preview records nothing", func(t *testing.T) {
		list, err := s.List(ctx, user.ID)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if next := list[0].NextDate.Format(models.DateLayout); next != "2026-11-30" {
			t.Errorf("next date moved to %s", next)
		}
	})

	t.Run("periods out of range", func(t *testing.T) {
		for _, n := range []int{-1, MaxPreviewPeriods + 1} {
			var verr *ledger.ValidationError
			if _, err := s.Preview(ctx, user.ID, n); !errors.As(err, &verr) {
				t.Errorf("periods=%d: expected validation error, got %v", n, err)
			}
		}
	})
}

func TestScheduler_UpdateAndDelete(t *testing.T) {
	s, _, user := setupScheduler(t)
	ctx := context.Background()

	a, err := s.Create(ctx, user.ID, Input{Description: "Phone", Amount: -60, Category: "Utilities", StartDate: "2026-09-05"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Create(ctx, user.ID, Input{Description: "Salary", Amount: 5000, Category: "Income", StartDate: "2026-09-25"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("update keeps next date", func(t *testing.T) {
		got, err := s.Update(ctx, user.ID, a.ID, Input{Description: "Phone plan", Amount: -65, Category: "Utilities", StartDate: "2026-09-05"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Description != "Phone plan" || got.Amount != -65 {
			t.Errorf("update not applied: %+v", got)
		}
		if next := got.NextDate.Format(models.DateLayout); next != "2026-09-05" {
			t.Errorf("next date = %s, want 2026-09-05", next)
		}
	})

	t.Run("later start moves next date", func(t *testing.T) {
		got, err := s.Update(ctx, user.ID, a.ID, Input{Description: "Phone plan", Amount: -65, Category: "Utilities", StartDate: "2026-11-05"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if next := got.NextDate.Format(models.DateLayout); next != "2026-11-05" {
			t.Errorf("next date = %s, want 2026-11-05", next)
		}
	})

	t.Run("update of unknown template", func(t *testing.T) {
		_, err := s.Update(ctx, user.ID, "missing", Input{Description: "x", Amount: -1, Category: "Other"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete reports remaining", func(t *testing.T) {
		left, err := s.Delete(ctx, user.ID, a.ID)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if left != 1 {
			t.Errorf("remaining = %d, want 1", left)
		}
		if _, err := s.Delete(ctx, user.ID, a.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}
