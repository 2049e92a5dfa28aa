// Package seed loads a demo account with a month of realistic data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/finchat/internal/auth"
	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/recurring"
)

// Demo credentials.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo-password"
)

// Demo creates the demo user and their data. It is a no-op when the demo
// user already exists. Dates are relative to now; recurring templates start
// after now, so seeding generates nothing.
func Demo(ctx context.Context, authenticator auth.Authenticator, l *ledger.Ledger, scheduler *recurring.Scheduler, now time.Time) (*models.User, error) {
	user, err := authenticator.Register(ctx, DemoEmail, "Demo User", DemoPassword)
	if errors.Is(err, auth.ErrEmailExists) {
		slog.Info("Demo user already seeded", "email", DemoEmail)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(models.DateLayout)
	}
	month := now.Format(models.MonthLayout)

	for _, in := range []ledger.TransactionInput{
		{Date: day(1), Amount: 3500, Category: "Income", Description: "Salary Deposit", Merchant: "Employer"},
		{Date: day(1), Amount: -5.75, Category: "Food", Description: "Starbucks Coffee", Merchant: "Starbucks"},
		{Date: day(2), Amount: -45.20, Category: "Transportation", Description: "Gas Station", Merchant: "Shell"},
		{Date: day(3), Amount: -127.89, Category: "Groceries", Description: "Grocery Shopping", Merchant: "Walmart"},
		{Date: day(5), Amount: -89.45, Category: "Utilities", Description: "Electric Bill", Merchant: "Power Company"},
		{Date: day(7), Amount: -67.99, Category: "Shopping", Description: "Amazon Purchase", Merchant: "Amazon"},
		{Date: day(8), Amount: -78.50, Category: "Food", Description: "Restaurant Dinner", Merchant: "Olive Garden"},
		{Date: day(10), Amount: -125.00, Category: "Transportation", Description: "Car Insurance", Merchant: "State Farm"},
		{Date: day(12), Amount: -28.50, Category: "Entertainment", Description: "Movie Tickets", Merchant: "AMC Theaters"},
		{Date: day(14), Amount: -15.99, Category: "Subscriptions", Description: "Netflix", Merchant: "Netflix"},
		{Date: day(18), Amount: -23.45, Category: "Healthcare", Description: "Pharmacy", Merchant: "CVS"},
		{Date: day(20), Amount: -4.25, Category: "Food", Description: "Coffee Shop", Merchant: "Local Cafe"},
	} {
		if _, err := l.AddTransaction(ctx, user.ID, in); err != nil {
			return nil, fmt.Errorf("failed to seed transaction %q: %w", in.Description, err)
		}
	}

	for _, in := range []ledger.BudgetInput{
		{Category: "Food", Amount: 600, Month: month},
		{Category: "Transportation", Amount: 400, Month: month},
		{Category: "Entertainment", Amount: 200, Month: month},
		{Category: "Shopping", Amount: 300, Month: month},
		{Category: "Utilities", Amount: 150, Month: month},
	} {
		if _, err := l.AddBudget(ctx, user.ID, in); err != nil {
			return nil, fmt.Errorf("failed to seed %s budget: %w", in.Category, err)
		}
	}

	for _, in := range []ledger.GoalInput{
		{Name: "Emergency Fund", TargetAmount: 10000, CurrentAmount: 6500, Deadline: now.AddDate(0, 3, 0).Format(models.DateLayout), Category: "Savings", MonthlyContribution: 500},
		{Name: "Vacation Fund", TargetAmount: 3000, CurrentAmount: 1200, Deadline: now.AddDate(0, 8, 0).Format(models.DateLayout), Category: "Travel", MonthlyContribution: 200},
		{Name: "Car Down Payment", TargetAmount: 5000, CurrentAmount: 800, Category: "Transportation"},
	} {
		if _, err := l.AddGoal(ctx, user.ID, in); err != nil {
			return nil, fmt.Errorf("failed to seed goal %q: %w", in.Name, err)
		}
	}

	for _, in := range []ledger.InvestmentInput{
		{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", AssetType: "etf", Shares: 20, CostBasis: 4200, CurrentPrice: 265.40},
		{Symbol: "AAPL", Name: "Apple Inc.", AssetType: "stock", Shares: 10, CostBasis: 1650, CurrentPrice: 228.10},
		{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", AssetType: "bond", Shares: 30, CostBasis: 2310, CurrentPrice: 72.80},
	} {
		if _, err := l.AddInvestment(ctx, user.ID, in); err != nil {
			return nil, fmt.Errorf("failed to seed %s holding: %w", in.Symbol, err)
		}
	}

	firstOfNextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	for _, in := range []recurring.Input{
		{Description: "Rent", Amount: -1450, Category: "Housing", StartDate: firstOfNextMonth.Format(models.DateLayout)},
		{Description: "Salary Deposit", Amount: 3500, Category: "Income", StartDate: now.AddDate(0, 1, -1).Format(models.DateLayout)},
		{Description: "Netflix", Amount: -15.99, Category: "Subscriptions", StartDate: now.AddDate(0, 1, -14).Format(models.DateLayout)},
	} {
		if _, err := scheduler.Create(ctx, user.ID, in); err != nil {
			return nil, fmt.Errorf("failed to seed recurring %q: %w", in.Description, err)
		}
	}

	slog.Info("Demo data seeded", "user_id", user.ID, "email", DemoEmail)
	return user, nil
}
