package reconcile

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// FeedPort is the read-only boundary to the store's aggregate feeds. Each
// feed returns unordered, loosely-typed rows; the drill-down and monthly
// totals queries are the only ones with a stable shape.
type FeedPort interface {
	MonthlySummaryRows(ctx context.Context) ([]Row, error)
	ReceivablesRows(ctx context.Context) ([]Row, error)
	SupplierPaymentRows(ctx context.Context) ([]Row, error)
	InstallmentsDueOn(ctx context.Context, canonical string) ([]DrillDownRow, error)
	MonthlyTotals(ctx context.Context, month, year int) (MonthlyTotals, error)
}

// pick returns the first present value among the candidate column names.
func pick(row Row, candidates ...string) (any, bool) {
	for _, name := range candidates {
		if v, ok := row[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// asFloat coerces a loose feed value into a number, degrading to zero for
// anything garbled instead of failing the whole row.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// asBool coerces a loose feed value into a flag.
func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		lowered := strings.ToLower(strings.TrimSpace(b))
		return lowered == "true" || lowered == "t" || lowered == "sim" || lowered == "1"
	case float64:
		return b != 0
	case int, int32, int64:
		return asFloat(v) != 0
	}
	return false
}

// asString coerces a loose feed value into display text.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.Trim(string(data), `"`)
	}
}

// sortedKeys makes probing deterministic regardless of map iteration order.
func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
