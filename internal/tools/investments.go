package tools

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finchat/internal/models"
)

// AnalyzeInvestments reports portfolio value, returns and allocation.
func AnalyzeInvestments(snap *models.Snapshot, _ Params) (*Result, error) {
	if len(snap.Investments) == 0 {
		return nil, &InputError{Tool: Investments, Message: "You don't have any investments recorded yet."}
	}

	type perf struct {
		symbol string
		ret    float64
	}
	var (
		value, cost decimal.Decimal
		perfs       []perf
		allocation  = make(map[string]decimal.Decimal)
		holdings    = make([]map[string]any, 0, len(snap.Investments))
	)
	for _, inv := range snap.Investments {
		mv := dec(inv.Shares).Mul(dec(inv.CurrentPrice))
		basis := dec(inv.CostBasis)
		value = value.Add(mv)
		cost = cost.Add(basis)

		assetType := inv.AssetType
		if assetType == "" {
			assetType = "other"
		}
		allocation[assetType] = allocation[assetType].Add(mv)

		ret := percent(mv.Sub(basis), basis)
		perfs = append(perfs, perf{symbol: inv.Symbol, ret: ret})
		holdings = append(holdings, map[string]any{
			"symbol":       inv.Symbol,
			"name":         inv.Name,
			"market_value": cents(mv),
			"cost_basis":   cents(basis),
			"gain_loss":    cents(mv.Sub(basis)),
			"return_pct":   ret,
		})
	}

	// Stable sort keeps input order among equal returns.
	sort.SliceStable(perfs, func(i, j int) bool { return perfs[i].ret > perfs[j].ret })
	best, worst := perfs[0], perfs[len(perfs)-1]

	gain := value.Sub(cost)
	returnPct := percent(gain, cost)

	types := make([]string, 0, len(allocation))
	for t := range allocation {
		types = append(types, t)
	}
	sort.Strings(types)
	allocPct := make(map[string]float64, len(types))
	series := make([]Point, 0, len(types))
	for _, t := range types {
		pct := percent(allocation[t], value)
		allocPct[t] = pct
		series = append(series, Point{Label: t, Value: pct})
	}

	direction := "up"
	if gain.IsNegative() {
		direction = "down"
	}
	summary := fmt.Sprintf("Your portfolio is worth %s, %s %s (%.1f%%) against a cost basis of %s.",
		FormatMoney(value), direction, FormatMoney(gain.Abs()), returnPct, FormatMoney(cost))
	if len(perfs) > 1 {
		summary += fmt.Sprintf(" Best performer: %s (%.1f%%). Worst: %s (%.1f%%).", best.symbol, best.ret, worst.symbol, worst.ret)
	}

	return &Result{
		Tool:    Investments,
		Summary: summary,
		Data: map[string]any{
			"total_value":      cents(value),
			"total_cost_basis": cents(cost),
			"gain_loss":        cents(gain),
			"return_pct":       returnPct,
			"best_performer":   best.symbol,
			"worst_performer":  worst.symbol,
			"allocation":       allocPct,
			"holdings":         holdings,
		},
		Series: series,
	}, nil
}
