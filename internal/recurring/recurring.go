// Package recurring manages recurring transaction templates and turns due
// occurrences into ledger entries.
//
// Generation claims occurrences by moving the template's next date forward
// with a conditional update before any transaction is written, so two
// concurrent generators never record the same occurrence twice.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/metrics"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/userlock"
)

const (
	// DefaultPreviewPeriods is used when a preview asks for zero periods.
	DefaultPreviewPeriods = 3
	// MaxPreviewPeriods caps the occurrences previewed per template.
	MaxPreviewPeriods = 24
	// MaxPerGenerate caps the occurrences one template produces per call.
	MaxPerGenerate = 366
	// MaxInterval is the largest accepted interval.
	MaxInterval = 365
)

// Input is the user-provided part of a template.
type Input struct {
	Description string
	Amount      float64
	Category    string
	// StartDate is YYYY-MM-DD; empty means today.
	StartDate string
	// EndDate is YYYY-MM-DD and optional.
	EndDate string
	// Frequency is daily, weekly, monthly or yearly; empty means monthly.
	Frequency string
	// Interval is the number of frequency units between occurrences; zero means 1.
	Interval int
	// NextDate overrides the first occurrence still to generate.
	// On create it defaults to the start date, on update it is kept.
	NextDate string
}

// Occurrence is one upcoming transaction of a template.
type Occurrence struct {
	RecurringID string
	Description string
	Amount      float64
	Category    models.Category
	Date        time.Time
}

// Ledger is the write path generated transactions go through.
type Ledger interface {
	AddTransaction(ctx context.Context, userID string, in ledger.TransactionInput) (*models.Transaction, error)
}

// Scheduler validates templates and generates their transactions.
type Scheduler struct {
	store   storage.RecurringStore
	ledger  Ledger
	locks   *userlock.Locker
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMetrics enables metric recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock overrides the time source used for defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a Scheduler.
func New(store storage.RecurringStore, l Ledger, locks *userlock.Locker, opts ...Option) *Scheduler {
	s := &Scheduler{store: store, ledger: l, locks: locks, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new template.
func (s *Scheduler) Create(ctx context.Context, userID string, in Input) (*models.RecurringTransaction, error) {
	r := &models.RecurringTransaction{UserID: userID}
	if err := s.apply(r, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateRecurring(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns the user's templates, soonest first.
func (s *Scheduler) List(ctx context.Context, userID string) ([]models.RecurringTransaction, error) {
	return s.store.ListRecurring(ctx, userID)
}

// Get returns one template. Another user's template is reported as
// storage.ErrNotFound.
func (s *Scheduler) Get(ctx context.Context, userID, id string) (*models.RecurringTransaction, error) {
	return s.store.GetRecurring(ctx, userID, id)
}

// Update replaces the editable fields of a template. An empty NextDate keeps
// the stored one, moved up to the start date if the start now lies after it.
func (s *Scheduler) Update(ctx context.Context, userID, id string, in Input) (*models.RecurringTransaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	r, err := s.store.GetRecurring(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(r, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateRecurring(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a template and returns how many the user has left.
// Transactions it already generated stay in the ledger.
func (s *Scheduler) Delete(ctx context.Context, userID, id string) (int, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.store.DeleteRecurring(ctx, userID, id); err != nil {
		return 0, err
	}
	left, err := s.store.ListRecurring(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(left), nil
}

// Generate records every occurrence due on or before upTo (YYYY-MM-DD,
// empty means today) and returns the created transactions.
func (s *Scheduler) Generate(ctx context.Context, userID, upTo string) ([]models.Transaction, error) {
	limit, err := s.day(upTo, "up_to")
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	templates, err := s.store.ListRecurring(ctx, userID)
	if err != nil {
		return nil, err
	}

	var created []models.Transaction
	for _, r := range templates {
		txs, err := s.generate(ctx, r, limit)
		created = append(created, txs...)
		if err != nil {
			s.metrics.Generated(len(created))
			return created, err
		}
	}

	s.metrics.Generated(len(created))
	if len(created) > 0 {
		slog.Info("Recurring transactions generated", "user_id", userID, "count", len(created), "up_to", limit.Format(models.DateLayout))
	}
	return created, nil
}

func (s *Scheduler) generate(ctx context.Context, r models.RecurringTransaction, limit time.Time) ([]models.Transaction, error) {
	due := r.Occurrences(limit, MaxPerGenerate)
	if len(due) == 0 {
		return nil, nil
	}

	next := r.Frequency.Advance(due[len(due)-1], r.Interval)
	if err := s.store.AdvanceRecurring(ctx, r.UserID, r.ID, r.NextDate, next); err != nil {
		if errors.Is(err, storage.ErrConflict) || errors.Is(err, storage.ErrNotFound) {
			// Claimed or removed since it was listed.
			return nil, nil
		}
		return nil, err
	}

	var created []models.Transaction
	for i, d := range due {
		tx, err := s.ledger.AddTransaction(ctx, r.UserID, ledger.TransactionInput{
			Date:        d.Format(models.DateLayout),
			Amount:      r.Amount,
			Category:    string(r.Category),
			Description: r.Description,
			RecurringID: r.ID,
		})
		if err != nil {
			// Hand the unrecorded occurrences back to the template.
			if rerr := s.store.AdvanceRecurring(ctx, r.UserID, r.ID, next, due[i]); rerr != nil {
				slog.Error("Failed to rewind recurring transaction", "recurring_id", r.ID, "error", rerr)
			}
			return created, fmt.Errorf("generate %s on %s: %w", r.ID, d.Format(models.DateLayout), err)
		}
		created = append(created, *tx)
	}
	return created, nil
}

// Preview lists the next periods occurrences of every template without
// recording anything. Zero periods means DefaultPreviewPeriods.
func (s *Scheduler) Preview(ctx context.Context, userID string, periods int) ([]Occurrence, error) {
	switch {
	case periods == 0:
		periods = DefaultPreviewPeriods
	case periods < 0 || periods > MaxPreviewPeriods:
		return nil, &ledger.ValidationError{Field: "periods", Reason: fmt.Sprintf("must be between 1 and %d", MaxPreviewPeriods)}
	}

	templates, err := s.store.ListRecurring(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []Occurrence
	for _, r := range templates {
		for _, d := range r.Occurrences(farFuture, periods) {
			out = append(out, Occurrence{
				RecurringID: r.ID,
				Description: r.Description,
				Amount:      r.Amount,
				Category:    r.Category,
				Date:        d,
			})
		}
	}
	return out, nil
}

var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// apply validates in and copies it onto r.
func (s *Scheduler) apply(r *models.RecurringTransaction, in Input) error {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return &ledger.ValidationError{Field: "description", Reason: "required"}
	}
	if in.Amount == 0 {
		return &ledger.ValidationError{Field: "amount", Reason: "must be non-zero"}
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return &ledger.ValidationError{Field: "category", Reason: err.Error()}
	}
	frequency, err := models.ParseFrequency(in.Frequency)
	if err != nil {
		return &ledger.ValidationError{Field: "frequency", Reason: err.Error()}
	}
	interval := in.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 || interval > MaxInterval {
		return &ledger.ValidationError{Field: "interval", Reason: fmt.Sprintf("must be between 1 and %d", MaxInterval)}
	}

	start, err := s.day(in.StartDate, "start_date")
	if err != nil {
		return err
	}
	var end time.Time
	if in.EndDate != "" {
		if end, err = s.day(in.EndDate, "end_date"); err != nil {
			return err
		}
		if end.Before(start) {
			return &ledger.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
		}
	}

	next := r.NextDate
	switch {
	case in.NextDate != "":
		if next, err = s.day(in.NextDate, "next_date"); err != nil {
			return err
		}
		if next.Before(start) {
			return &ledger.ValidationError{Field: "next_date", Reason: "must not be before start_date"}
		}
	case next.IsZero() || next.Before(start):
		next = start
	}

	r.Description = description
	r.Amount = in.Amount
	r.Category = category
	r.Frequency = frequency
	r.Interval = interval
	r.StartDate = start
	r.EndDate = end
	r.NextDate = next
	return nil
}

func (s *Scheduler) day(v, field string) (time.Time, error) {
	if v == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Field: field, Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}
