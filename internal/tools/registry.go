// Package tools holds the read-only financial analyses the assistant can run
// and the registry that dispatches to them by name.
package tools

import (
	"errors"
	"fmt"

	"github.com/mmynk/finchat/internal/models"
)

// Tool names, in the order the default registry (and classifier) uses.
const (
	Transactions = "transactions"
	Budget       = "budget"
	Investments  = "investments"
	Goals        = "goals"
	Insights     = "insights"
)

// ErrUnknownTool is returned when invoking a name that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// InputError means the snapshot lacks the data a tool needs.
// Message is safe to show to the user as-is.
type InputError struct {
	Tool    string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

// Point is one entry of a chart-ready series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Result is what a tool returns: a sentence for the user plus
// machine-readable data.
type Result struct {
	Tool    string
	Summary string
	Data    map[string]any
	Series  []Point
}

// Func analyzes a snapshot. Implementations must not modify the snapshot.
type Func func(snap *models.Snapshot, p Params) (*Result, error)

// Registry maps tool names to implementations and remembers registration order.
type Registry struct {
	names []string
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default returns a registry with the five built-in tools.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(Transactions, AnalyzeTransactions)
	r.MustRegister(Budget, AnalyzeBudget)
	r.MustRegister(Investments, AnalyzeInvestments)
	r.MustRegister(Goals, AnalyzeGoals)
	r.MustRegister(Insights, GenerateInsights)
	return r
}

// Register adds a tool. Names must be unique and non-empty.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return errors.New("tool name and func are required")
	}
	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.names = append(r.names, name)
	r.funcs[name] = fn
	return nil
}

// MustRegister is Register for static setup; it panics on error.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Invoke runs the named tool. A panicking tool is turned into an error so a
// bad analysis can never take the process down.
func (r *Registry) Invoke(name string, snap *models.Snapshot, p Params) (res *Result, err error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if snap == nil {
		return nil, &InputError{Tool: name, Message: "I couldn't load your financial data."}
	}

	defer func() {
		if rec := recover(); rec != nil {
			res, err = nil, fmt.Errorf("tool %s panicked: %v", name, rec)
		}
	}()

	res, err = fn(snap, p)
	if err != nil {
		return nil, err
	}
	if res.Tool == "" {
		res.Tool = name
	}
	return res, nil
}
