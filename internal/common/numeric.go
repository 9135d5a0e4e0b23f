package common

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ToSafeNumber returns v as a float64 when it holds a finite number and 0
// otherwise. Strings, booleans, nil, NaN and infinities all map to 0.
func ToSafeNumber(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// OptionalNumber returns a pointer to the coerced number, or nil when v is absent.
// A present but non-numeric value coerces to 0 rather than nil.
func OptionalNumber(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	f := ToSafeNumber(v)
	return &f
}

// PercentOf returns part as a percentage of whole, or 0 when whole is 0.
func PercentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return (part / whole) * 100
}

// FormatMoney renders v with two decimals behind the currency symbol, e.g. "£1050.00".
// Negative values carry the sign ahead of the symbol.
func FormatMoney(symbol string, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-" + symbol + d.Abs().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

// FormatSignedMoney renders v like FormatMoney with an explicit "+" for non-negative values.
func FormatSignedMoney(symbol string, v float64) string {
	if decimal.NewFromFloat(v).Round(2).IsNegative() {
		return FormatMoney(symbol, v)
	}
	return "+" + FormatMoney(symbol, v)
}

// FormatPct renders an allocation percentage with one decimal.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatMove renders a daily move with sign and two decimals, or "n/a" when unknown.
func FormatMove(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}
