// Package metrics derives allocation, move and cash-flow figures from raw account data
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

// Input is one set of upstream payloads.
type Input struct {
	Cash         *models.AccountCash
	Pies         []models.Pie
	Transactions []models.RawTransaction
}

// Options carries the classification policy used by Derive.
type Options struct {
	Matcher PieMatcher
	Flow    FlowClassifier
}

// DefaultOptions returns the stock pie keywords and flow rules.
func DefaultOptions() Options {
	return Options{Matcher: DefaultPieMatcher(), Flow: DefaultFlowClassifier}
}

// Derive computes the metrics for one run. It never fails: missing pies and
// fields degrade to zero, and an unknown move stays nil.
func Derive(in Input, now time.Time, thresholds models.Thresholds, opts Options) *models.Metrics {
	if opts.Flow == nil {
		opts.Flow = DefaultFlowClassifier
	}

	cash := models.AccountCash{}
	if in.Cash != nil {
		cash = *in.Cash
	}
	freeCash := common.ToSafeNumber(cash.Free)

	ai, aiFound := FindPie(in.Pies, opts.Matcher.AIKeyword)
	ol, olFound := FindPie(in.Pies, opts.Matcher.OuterLimitsKeyword)

	aiValue := common.ToSafeNumber(ai.Value)
	olValue := common.ToSafeNumber(ol.Value)
	invested := aiValue + olValue

	total := common.ToSafeNumber(cash.Total)
	if total == 0 {
		total = invested + freeCash
	}

	txs := NormalizeTransactions(in.Transactions)

	return &models.Metrics{
		AsOf:          now.UTC(),
		Account:       models.AccountSnapshot{Total: total, FreeCash: freeCash},
		InvestedValue: invested,
		AI:            pieMetric(ai, aiFound, aiValue, invested),
		OuterLimits:   pieMetric(ol, olFound, olValue, invested),
		CashFlow:      CashFlow(txs, now, thresholds.Lookback, opts.Flow),
		LookbackHours: thresholds.Lookback.Hours(),
		Transactions:  txs,
	}
}

func pieMetric(p models.Pie, found bool, value, invested float64) models.PieMetric {
	if !found {
		return models.PieMetric{}
	}
	return models.PieMetric{
		Found:         true,
		Name:          p.Name,
		Value:         value,
		AllocationPct: common.PercentOf(value, invested),
		DailyMovePct:  DailyMovePct(p.ResultCoef),
	}
}

// DailyMovePct converts an upstream result coefficient into a percentage.
func DailyMovePct(coef *float64) *float64 {
	if coef == nil {
		return nil
	}
	pct := common.ToSafeNumber(*coef) * 100
	return &pct
}

// CashFlow sums transactions timestamped within lookback of now, adding
// deposits and subtracting withdrawals whatever sign the upstream used.
// Transactions without a parsable timestamp are excluded.
func CashFlow(txs []models.Transaction, now time.Time, lookback time.Duration, rules FlowClassifier) float64 {
	cutoff := now.Add(-lookback)
	sum := decimal.Zero
	for _, tx := range txs {
		if !tx.HasTimestamp() || tx.Timestamp.Before(cutoff) {
			continue
		}
		sign := rules.Sign(tx.Type)
		if sign == 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(tx.Amount).Abs().Mul(decimal.NewFromFloat(sign)))
	}
	return sum.InexactFloat64()
}
