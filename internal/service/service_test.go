package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/finchat/internal/auth"
	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/middleware"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/recurring"
	"github.com/mmynk/finchat/internal/storage/sqlite"
	"github.com/mmynk/finchat/internal/suggestion"
	"github.com/mmynk/finchat/internal/tools"
	"github.com/mmynk/finchat/internal/userlock"
	"github.com/mmynk/finchat/internal/workflow"
	"github.com/mmynk/finchat/pkg/api"
)

type clients struct {
	auth      *api.AuthServiceClient
	chat      *api.ChatServiceClient
	finance   *api.FinanceServiceClient
	workflow  *api.WorkflowServiceClient
	recurring *api.RecurringServiceClient

	// store is exposed so tests can take the database away.
	store *sqlite.SQLiteStore
}

// setupTestServer wires every service against a temp SQLite database.
func setupTestServer(t *testing.T) *clients {
	t.Helper()

	dir, err := os.MkdirTemp("", "service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	l := ledger.New(store)
	tracker := workflow.New(store, l)
	locks := userlock.New()
	registry := tools.Default()
	orch := orchestrator.New(l, store, tracker, locks, orchestrator.WithRegistry(registry))
	exec := suggestion.New(l, store, locks)
	scheduler := recurring.New(store, l, locks)

	interceptors := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(nil))
	mux := http.NewServeMux()
	for _, mount := range []func() (string, http.Handler){
		func() (string, http.Handler) {
			return api.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, slog.New(slog.NewTextHandler(io.Discard, nil))), interceptors)
		},
		func() (string, http.Handler) { return api.NewChatServiceHandler(NewChatService(orch, exec), interceptors) },
		func() (string, http.Handler) { return api.NewFinanceServiceHandler(NewFinanceService(l), interceptors) },
		func() (string, http.Handler) {
			return api.NewWorkflowServiceHandler(NewWorkflowService(tracker, l, registry), interceptors)
		},
		func() (string, http.Handler) {
			return api.NewRecurringServiceHandler(NewRecurringService(scheduler), interceptors)
		},
	} {
		path, handler := mount()
		mux.Handle(path, handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &clients{
		auth:      api.NewAuthServiceClient(http.DefaultClient, server.URL),
		chat:      api.NewChatServiceClient(http.DefaultClient, server.URL),
		finance:   api.NewFinanceServiceClient(http.DefaultClient, server.URL),
		workflow:  api.NewWorkflowServiceClient(http.DefaultClient, server.URL),
		recurring: api.NewRecurringServiceClient(http.DefaultClient, server.URL),
		store:     store,
	}
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func register(t *testing.T, c *clients, email string) (*api.User, string) {
	t.Helper()
	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Test",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.User, resp.Msg.Token
}

func TestAuthService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	user, token := register(t, c, "auth@example.com")

	me, err := c.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, token))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.ID != user.ID || me.Msg.User.Stage != "Started" {
		t.Errorf("current user = %+v, want %s at Started", me.Msg.User, user.ID)
	}

	login, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "auth@example.com", Password: "password123"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.Token == "" || login.Msg.User.ID != user.ID {
		t.Errorf("unexpected login response %+v", login.Msg)
	}

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{"wrong password", func() error {
			_, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "auth@example.com", Password: "nope-nope"}))
			return err
		}, connect.CodeUnauthenticated},
		{"duplicate email", func() error {
			_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "auth@example.com", Password: "password123"}))
			return err
		}, connect.CodeAlreadyExists},
		{"weak password", func() error {
			_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "new@example.com", Password: "short"}))
			return err
		}, connect.CodeInvalidArgument},
		{"no session", func() error {
			_, err := c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
			return err
		}, connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(tt.call()); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChat_DiningAndExecute(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "chat@example.com")

	// No date: the transaction lands today, inside "this month".
	if _, err := c.finance.AddTransaction(ctx, withToken(&api.AddTransactionRequest{
		Amount:      -42.18,
		Category:    "Food",
		Description: "Dinner",
		Merchant:    "Bistro",
	}, token)); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	resp, err := c.chat.Chat(ctx, withToken(&api.ChatRequest{Message: "What did I spend on dining this month?", WorkflowStage: "Started"}, token))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Msg.Intent != "transactions" {
		t.Errorf("intent = %s, want transactions", resp.Msg.Intent)
	}
	if !strings.Contains(resp.Msg.Response, "$42.18") {
		t.Errorf("reply should cite $42.18, got %q", resp.Msg.Response)
	}
	if resp.Msg.Analysis == nil || resp.Msg.Analysis.Data["total_spent"] != 42.18 {
		t.Errorf("analysis should carry total_spent 42.18, got %+v", resp.Msg.Analysis)
	}
	if len(resp.Msg.Explanations) == 0 {
		t.Error("reply should carry explanations")
	}
	if len(resp.Msg.Suggestions) == 0 {
		t.Fatal("expected a budget suggestion")
	}

	sid := resp.Msg.Suggestions[0].ID
	first, err := c.chat.ExecuteSuggestion(ctx, withToken(&api.ExecuteSuggestionRequest{SuggestionID: sid}, token))
	if err != nil {
		t.Fatalf("ExecuteSuggestion failed: %v", err)
	}
	if first.Msg.Status != "ok" || first.Msg.RecordID == "" {
		t.Errorf("first execution = %+v, want ok", first.Msg)
	}

	second, err := c.chat.ExecuteSuggestion(ctx, withToken(&api.ExecuteSuggestionRequest{SuggestionID: sid}, token))
	if err != nil {
		t.Fatalf("ExecuteSuggestion failed: %v", err)
	}
	if second.Msg.Status != "failed" || second.Msg.Reason != "already executed" {
		t.Errorf("second execution = %+v, want failed: already executed", second.Msg)
	}

	budgets, err := c.finance.ListBudgets(ctx, withToken(&api.UserRequest{}, token))
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets.Msg.Budgets) != 1 {
		t.Errorf("expected exactly 1 budget, got %d", len(budgets.Msg.Budgets))
	}

	history, err := c.chat.ListMessages(ctx, withToken(&api.ListMessagesRequest{}, token))
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(history.Msg.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history.Msg.Messages))
	}
	if reply := history.Msg.Messages[1]; reply.Sender != "assistant" || reply.Intent != "transactions" {
		t.Errorf("unexpected stored reply %+v", reply)
	}
}

func TestChat_DirectAction(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "direct@example.com")

	resp, err := c.chat.ExecuteSuggestion(ctx, withToken(&api.ExecuteSuggestionRequest{
		Action: "add_goal",
		Params: map[string]string{"name": "Vacation", "target_amount": "1500"},
	}, token))
	if err != nil {
		t.Fatalf("ExecuteSuggestion failed: %v", err)
	}
	if resp.Msg.Status != "ok" {
		t.Fatalf("result = %+v, want ok", resp.Msg)
	}

	goals, err := c.finance.ListGoals(ctx, withToken(&api.UserRequest{}, token))
	if err != nil {
		t.Fatalf("ListGoals failed: %v", err)
	}
	if len(goals.Msg.Goals) != 1 || goals.Msg.Goals[0].ID != resp.Msg.RecordID {
		t.Errorf("unexpected goals %+v", goals.Msg.Goals)
	}

	_, err = c.chat.ExecuteSuggestion(ctx, withToken(&api.ExecuteSuggestionRequest{}, token))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument without id or action, got %v", err)
	}
}

func TestWorkflowService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "flow@example.com")

	for _, stage := range []string{"Advanced", "started", "MVP"} {
		resp, err := c.workflow.SetStage(ctx, withToken(&api.SetStageRequest{Stage: stage}, token))
		if err != nil {
			t.Fatalf("SetStage(%s) failed: %v", stage, err)
		}
		if !strings.EqualFold(resp.Msg.Stage, stage) {
			t.Errorf("stage = %s, want %s", resp.Msg.Stage, stage)
		}
	}

	status, err := c.workflow.GetWorkflowStatus(ctx, withToken(&api.GetWorkflowStatusRequest{}, token))
	if err != nil {
		t.Fatalf("GetWorkflowStatus failed: %v", err)
	}
	if status.Msg.CurrentStage != "MVP" || status.Msg.Inferred != "Started" {
		t.Errorf("status = %+v, want current MVP, inferred Started", status.Msg)
	}
	if len(status.Msg.NextSteps) == 0 {
		t.Error("expected next steps")
	}

	_, err = c.workflow.SetStage(ctx, withToken(&api.SetStageRequest{Stage: "Expert"}, token))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for an unknown stage, got %v", err)
	}
}

func TestFinanceService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "money@example.com")

	if _, err := c.finance.AddBudget(ctx, withToken(&api.AddBudgetRequest{Category: "Groceries", Amount: 400, Month: "2026-10"}, token)); err != nil {
		t.Fatalf("AddBudget failed: %v", err)
	}
	inv, err := c.finance.AddInvestment(ctx, withToken(&api.AddInvestmentRequest{Symbol: "vti", Shares: 2, CostBasis: 400, CurrentPrice: 250}, token))
	if err != nil {
		t.Fatalf("AddInvestment failed: %v", err)
	}
	if inv.Msg.Investment.Symbol != "VTI" || inv.Msg.Investment.MarketValue != 500 {
		t.Errorf("unexpected investment %+v", inv.Msg.Investment)
	}

	snap, err := c.finance.GetSnapshot(ctx, withToken(&api.UserRequest{}, token))
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if len(snap.Msg.Budgets) != 1 || len(snap.Msg.Investments) != 1 || len(snap.Msg.Transactions) != 0 {
		t.Errorf("unexpected snapshot %+v", snap.Msg)
	}

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{"duplicate budget", func() error {
			_, err := c.finance.AddBudget(ctx, withToken(&api.AddBudgetRequest{Category: "groceries", Amount: 100, Month: "2026-10"}, token))
			return err
		}, connect.CodeAlreadyExists},
		{"zero amount", func() error {
			_, err := c.finance.AddTransaction(ctx, withToken(&api.AddTransactionRequest{Category: "Food", Description: "x"}, token))
			return err
		}, connect.CodeInvalidArgument},
		{"unknown category", func() error {
			_, err := c.finance.AddBudget(ctx, withToken(&api.AddBudgetRequest{Category: "Yachts", Amount: 100}, token))
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
}

func TestUserResolution(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	alice, aliceToken := register(t, c, "alice@example.com")
	bob, _ := register(t, c, "bob@example.com")

	t.Run("session user wins", func(t *testing.T) {
		resp, err := c.finance.GetSnapshot(ctx, withToken(&api.UserRequest{UserID: alice.ID}, aliceToken))
		if err != nil {
			t.Fatalf("GetSnapshot failed: %v", err)
		}
		if resp.Msg.User.ID != alice.ID {
			t.Errorf("snapshot user = %s, want %s", resp.Msg.User.ID, alice.ID)
		}
	})

	t.Run("other user denied", func(t *testing.T) {
		_, err := c.finance.GetSnapshot(ctx, withToken(&api.UserRequest{UserID: bob.ID}, aliceToken))
		if connect.CodeOf(err) != connect.CodePermissionDenied {
			t.Errorf("expected PermissionDenied, got %v", err)
		}
	})

	t.Run("request user without session", func(t *testing.T) {
		resp, err := c.chat.Chat(ctx, connect.NewRequest(&api.ChatRequest{UserID: bob.ID, Message: "hello"}))
		if err != nil {
			t.Fatalf("Chat failed: %v", err)
		}
		if resp.Msg.Intent != "general" {
			t.Errorf("intent = %s, want general", resp.Msg.Intent)
		}
	})

	t.Run("nobody", func(t *testing.T) {
		_, err := c.chat.Chat(ctx, connect.NewRequest(&api.ChatRequest{Message: "hello"}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := c.chat.Chat(ctx, connect.NewRequest(&api.ChatRequest{UserID: "ghost", Message: "budget"}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestChat_ClientContext(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "context@example.com")

	for _, tx := range []*api.AddTransactionRequest{
		{Amount: -42.18, Category: "Food", Description: "Dinner"},
		{Amount: -30, Category: "Groceries", Description: "Market"},
	} {
		if _, err := c.finance.AddTransaction(ctx, withToken(tx, token)); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}

	resp, err := c.chat.Chat(ctx, withToken(&api.ChatRequest{
		Message: "What did I spend on dining this month?",
		Context: map[string]any{"category": "Groceries", "screen": "home"},
	}, token))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !strings.Contains(resp.Msg.Response, "$30.00") {
		t.Errorf("category hint should narrow the reply to groceries, got %q", resp.Msg.Response)
	}

	var note string
	for _, e := range resp.Msg.Explanations {
		if e.Step == orchestrator.StepContext {
			note = e.What
		}
	}
	if note != "Used category; ignored screen from the client context" {
		t.Errorf("context explanation = %q", note)
	}
}

func TestWorkflowService_ToolsAndExamples(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "tools@example.com")

	t.Run("new user", func(t *testing.T) {
		resp, err := c.workflow.ListTools(ctx, withToken(&api.UserRequest{}, token))
		if err != nil {
			t.Fatalf("ListTools failed: %v", err)
		}
		if len(resp.Msg.Tools) != 5 {
			t.Fatalf("got %d tools, want 5", len(resp.Msg.Tools))
		}
		for _, tool := range resp.Msg.Tools {
			if tool.Ready || tool.Description == "" {
				t.Errorf("tool %+v should be described and not ready", tool)
			}
		}

		ex, err := c.workflow.ListExamples(ctx, withToken(&api.UserRequest{}, token))
		if err != nil {
			t.Fatalf("ListExamples failed: %v", err)
		}
		if len(ex.Msg.Examples) != 1 || ex.Msg.Examples[0] != tools.StarterQuery {
			t.Errorf("examples = %v, want only the starter query", ex.Msg.Examples)
		}
	})

	t.Run("with transactions", func(t *testing.T) {
		if _, err := c.finance.AddTransaction(ctx, withToken(&api.AddTransactionRequest{Amount: -12, Category: "Food", Description: "Lunch"}, token)); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}

		resp, err := c.workflow.ListTools(ctx, withToken(&api.UserRequest{}, token))
		if err != nil {
			t.Fatalf("ListTools failed: %v", err)
		}
		ready := make(map[string]bool)
		for _, tool := range resp.Msg.Tools {
			ready[tool.Name] = tool.Ready
		}
		if !ready[tools.Transactions] || !ready[tools.Insights] || ready[tools.Budget] {
			t.Errorf("readiness = %v", ready)
		}

		ex, err := c.workflow.ListExamples(ctx, withToken(&api.UserRequest{}, token))
		if err != nil {
			t.Fatalf("ListExamples failed: %v", err)
		}
		if len(ex.Msg.Examples) != 3 {
			t.Errorf("examples = %v, want the two spending and one health question", ex.Msg.Examples)
		}
	})
}

func TestFinanceService_Dashboard(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "dash@example.com")

	for _, tx := range []*api.AddTransactionRequest{
		{Amount: 3000, Category: "Income", Description: "Salary"},
		{Amount: -200, Category: "Food", Description: "Restaurants"},
	} {
		if _, err := c.finance.AddTransaction(ctx, withToken(tx, token)); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}
	if _, err := c.finance.AddBudget(ctx, withToken(&api.AddBudgetRequest{Category: "Food", Amount: 100}, token)); err != nil {
		t.Fatalf("AddBudget failed: %v", err)
	}

	resp, err := c.finance.GetDashboard(ctx, withToken(&api.GetDashboardRequest{}, token))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	d := resp.Msg
	if d.Timeframe != "30d" || d.Income != 3000 || d.Expenses != 200 || d.Balance != 2800 {
		t.Errorf("unexpected totals %+v", d)
	}
	if d.SavingsRate != 93.3 {
		t.Errorf("savings rate = %v, want 93.3", d.SavingsRate)
	}
	if len(d.Budgets) != 1 || d.Budgets[0].Spent != 200 || d.Budgets[0].Percentage != 200 {
		t.Errorf("unexpected budgets %+v", d.Budgets)
	}
	if len(d.RecentTransactions) != 2 {
		t.Errorf("got %d recent transactions, want 2", len(d.RecentTransactions))
	}
	if len(d.Insights) == 0 || d.Insights[0].Title != "Over budget in Food" {
		t.Errorf("expected an over budget insight, got %+v", d.Insights)
	}

	_, err = c.finance.GetDashboard(ctx, withToken(&api.GetDashboardRequest{Timeframe: "2w"}, token))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for an unknown timeframe, got %v", err)
	}
}

func TestStoreUnavailable(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	_, token := register(t, c, "outage@example.com")

	if _, err := c.finance.AddTransaction(ctx, withToken(&api.AddTransactionRequest{Amount: -42.18, Category: "Food", Description: "Dinner"}, token)); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	chat, err := c.chat.Chat(ctx, withToken(&api.ChatRequest{Message: "What did I spend on dining this month?"}, token))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(chat.Msg.Suggestions) == 0 {
		t.Fatal("expected a suggestion to execute")
	}
	sid := chat.Msg.Suggestions[0].ID

	if err := c.store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"ExecuteSuggestion", func() error {
			_, err := c.chat.ExecuteSuggestion(ctx, withToken(&api.ExecuteSuggestionRequest{SuggestionID: sid}, token))
			return err
		}},
		{"ExecuteSuggestion direct", func() error {
			_, err := c.chat.ExecuteSuggestion(ctx, withToken(&api.ExecuteSuggestionRequest{
				Action: "add_goal", Params: map[string]string{"name": "Car", "target_amount": "5000"},
			}, token))
			return err
		}},
		{"Chat", func() error {
			_, err := c.chat.Chat(ctx, withToken(&api.ChatRequest{Message: "How are my budgets?"}, token))
			return err
		}},
		{"ListMessages", func() error {
			_, err := c.chat.ListMessages(ctx, withToken(&api.ListMessagesRequest{}, token))
			return err
		}},
		{"GetWorkflowStatus", func() error {
			_, err := c.workflow.GetWorkflowStatus(ctx, withToken(&api.GetWorkflowStatusRequest{}, token))
			return err
		}},
		{"SetStage", func() error {
			_, err := c.workflow.SetStage(ctx, withToken(&api.SetStageRequest{Stage: "MVP"}, token))
			return err
		}},
		{"ListTools", func() error {
			_, err := c.workflow.ListTools(ctx, withToken(&api.UserRequest{}, token))
			return err
		}},
		{"AddTransaction", func() error {
			_, err := c.finance.AddTransaction(ctx, withToken(&api.AddTransactionRequest{Amount: -5, Category: "Food", Description: "Coffee"}, token))
			return err
		}},
		{"AddBudget", func() error {
			_, err := c.finance.AddBudget(ctx, withToken(&api.AddBudgetRequest{Category: "Food", Amount: 300}, token))
			return err
		}},
		{"GetSnapshot", func() error {
			_, err := c.finance.GetSnapshot(ctx, withToken(&api.UserRequest{}, token))
			return err
		}},
		{"GetDashboard", func() error {
			_, err := c.finance.GetDashboard(ctx, withToken(&api.GetDashboardRequest{}, token))
			return err
		}},
		{"CreateRecurring", func() error {
			_, err := c.recurring.CreateRecurring(ctx, withToken(&api.CreateRecurringRequest{
				RecurringInput: api.RecurringInput{Description: "Rent", Amount: -1800, Category: "Housing"},
			}, token))
			return err
		}},
		{"GenerateDue", func() error {
			_, err := c.recurring.GenerateDue(ctx, withToken(&api.GenerateDueRequest{}, token))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(tt.call()); got != connect.CodeUnavailable {
				t.Errorf("code = %v, want %v", got, connect.CodeUnavailable)
			}
		})
	}
}
