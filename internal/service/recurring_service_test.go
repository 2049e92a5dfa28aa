package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/finchat/pkg/api"
)

func TestRecurringService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "recurring@example.com")

	// Starting two months back leaves three occurrences due today.
	today := time.Now().UTC()
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)

	created, err := c.recurring.CreateRecurring(ctx, withToken(&api.CreateRecurringRequest{
		RecurringInput: api.RecurringInput{
			Description: "Rent",
			Amount:      -1800,
			Category:    "Housing",
			StartDate:   start.Format("2006-01-02"),
		},
	}, token))
	if err != nil {
		t.Fatalf("CreateRecurring failed: %v", err)
	}
	rent := created.Msg.Recurring
	if rent.Frequency != "monthly" || rent.Interval != 1 || rent.NextDate != rent.StartDate {
		t.Errorf("unexpected defaults %+v", rent)
	}

	t.Run("preview", func(t *testing.T) {
		resp, err := c.recurring.PreviewRecurring(ctx, withToken(&api.PreviewRecurringRequest{Periods: 2}, token))
		if err != nil {
			t.Fatalf("PreviewRecurring failed: %v", err)
		}
		if len(resp.Msg.Occurrences) != 2 || resp.Msg.Occurrences[0].Date != rent.StartDate {
			t.Errorf("unexpected preview %+v", resp.Msg.Occurrences)
		}
	})

	t.Run("generate due", func(t *testing.T) {
		resp, err := c.recurring.GenerateDue(ctx, withToken(&api.GenerateDueRequest{}, token))
		if err != nil {
			t.Fatalf("GenerateDue failed: %v", err)
		}
		if resp.Msg.Generated != 3 {
			t.Fatalf("generated %d, want 3", resp.Msg.Generated)
		}
		for _, tx := range resp.Msg.Transactions {
			if tx.RecurringID != rent.ID || tx.Amount != -1800 {
				t.Errorf("unexpected generated transaction %+v", tx)
			}
		}

		list, err := c.finance.ListTransactions(ctx, withToken(&api.UserRequest{}, token))
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(list.Msg.Transactions) != 3 {
			t.Errorf("ledger has %d transactions, want 3", len(list.Msg.Transactions))
		}

		again, err := c.recurring.GenerateDue(ctx, withToken(&api.GenerateDueRequest{}, token))
		if err != nil {
			t.Fatalf("GenerateDue failed: %v", err)
		}
		if again.Msg.Generated != 0 {
			t.Errorf("second run generated %d", again.Msg.Generated)
		}
	})

	t.Run("update and get", func(t *testing.T) {
		in := api.RecurringInput{Description: "Rent", Amount: -1900, Category: "Housing", StartDate: rent.StartDate}
		if _, err := c.recurring.UpdateRecurring(ctx, withToken(&api.UpdateRecurringRequest{ID: rent.ID, RecurringInput: in}, token)); err != nil {
			t.Fatalf("UpdateRecurring failed: %v", err)
		}
		got, err := c.recurring.GetRecurring(ctx, withToken(&api.RecurringRequest{ID: rent.ID}, token))
		if err != nil {
			t.Fatalf("GetRecurring failed: %v", err)
		}
		if got.Msg.Recurring.Amount != -1900 || got.Msg.Recurring.NextDate == rent.StartDate {
			t.Errorf("update should change the amount and keep the advanced next date, got %+v", got.Msg.Recurring)
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, otherToken := register(t, c, "other-recurring@example.com")
		tests := []struct {
			name string
			call func() error
			want connect.Code
		}{
			{"bad frequency", func() error {
				_, err := c.recurring.CreateRecurring(ctx, withToken(&api.CreateRecurringRequest{
					RecurringInput: api.RecurringInput{Description: "Gym", Amount: -40, Category: "Healthcare", Frequency: "hourly"},
				}, token))
				return err
			}, connect.CodeInvalidArgument},
			{"other user's template", func() error {
				_, err := c.recurring.GetRecurring(ctx, withToken(&api.RecurringRequest{ID: rent.ID}, otherToken))
				return err
			}, connect.CodeNotFound},
			{"too many periods", func() error {
				_, err := c.recurring.PreviewRecurring(ctx, withToken(&api.PreviewRecurringRequest{Periods: 100}, token))
				return err
			}, connect.CodeInvalidArgument},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := connect.CodeOf(tt.call()); got != tt.want {
					t.Errorf("code = %v, want %v", got, tt.want)
				}
			})
		}
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := c.recurring.DeleteRecurring(ctx, withToken(&api.RecurringRequest{ID: rent.ID}, token))
		if err != nil {
			t.Fatalf("DeleteRecurring failed: %v", err)
		}
		if resp.Msg.Remaining != 0 {
			t.Errorf("remaining = %d, want 0", resp.Msg.Remaining)
		}
		list, err := c.finance.ListTransactions(ctx, withToken(&api.UserRequest{}, token))
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(list.Msg.Transactions) != 3 {
			t.Errorf("generated transactions should survive the delete, got %d", len(list.Msg.Transactions))
		}
	})
}
