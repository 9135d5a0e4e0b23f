package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
	"github.com/bobmcallan/piewatch/internal/services/advisor"
	"github.com/bobmcallan/piewatch/internal/services/ledger"
	"github.com/bobmcallan/piewatch/internal/services/metrics"
	"github.com/bobmcallan/piewatch/internal/services/report"
	"github.com/bobmcallan/piewatch/internal/services/snapshot"
)

// Run performs one digest: fetch, derive, advise, update state, build and deliver.
// If the run fails before a digest exists, a failure notice is sent on a
// best-effort basis and the original error is returned.
func (a *App) Run(ctx context.Context, now time.Time) (*models.Report, error) {
	start := time.Now()
	now = now.UTC()
	logger := a.Logger.WithCorrelationId(uuid.New().String())

	logger.Info().Str("as_of", now.Format(time.RFC3339)).Msg("Digest run: starting")

	r, err := a.buildReport(ctx, now, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Digest run: failed")
		a.notifyFailure(ctx, now, err, logger)
		return nil, err
	}

	if err := a.deliver(ctx, r, logger); err != nil {
		return r, err
	}

	logger.Info().
		Str("subject", r.Subject).
		Int("alerts", len(r.Advice.Alerts)).
		Str("elapsed", time.Since(start).String()).
		Msg("Digest run: complete")
	return r, nil
}

func (a *App) buildReport(ctx context.Context, now time.Time, logger *common.Logger) (*models.Report, error) {
	in, err := a.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch account data: %w", err)
	}

	m := metrics.Derive(in, now, a.Config.RuleThresholds(), metricsOptions(a.Config))
	logger.Debug().
		Bool("ai_found", m.AI.Found).
		Bool("outer_limits_found", m.OuterLimits.Found).
		Str("invested", fmt.Sprintf("%.2f", m.InvestedValue)).
		Str("cash_flow", fmt.Sprintf("%.2f", m.CashFlow)).
		Msg("Metrics derived")
	if !m.AI.Found || !m.OuterLimits.Found {
		logger.Warn().Msg("Tracked pie not found; values reported as n/a")
	}

	advice := advisor.Evaluate(advisor.InputFromMetrics(m), advisorConfig(a.Config))

	ledgerSummary, err := a.updateLedger(ctx, m.Transactions, logger)
	if err != nil {
		return nil, err
	}

	history, weekly, err := a.updateSnapshots(ctx, m, now)
	if err != nil {
		return nil, err
	}

	return report.Build(now, report.Input{
		Metrics: m,
		Advice:  advice,
		Ledger:  ledgerSummary,
		Weekly:  weekly,
		History: history.Days,
	}, reportOptions(a.Config)), nil
}

// fetch reads the three upstream resources sequentially.
func (a *App) fetch(ctx context.Context) (metrics.Input, error) {
	cash, err := a.Client.GetAccountCash(ctx)
	if err != nil {
		return metrics.Input{}, err
	}
	pies, err := a.Client.GetPies(ctx)
	if err != nil {
		return metrics.Input{}, err
	}
	txs, err := a.Client.GetTransactions(ctx)
	if err != nil {
		return metrics.Input{}, err
	}
	return metrics.Input{Cash: cash, Pies: pies, Transactions: txs}, nil
}

func (a *App) updateLedger(ctx context.Context, txs []models.Transaction, logger *common.Logger) (*models.LedgerSummary, error) {
	store := a.Storage.LedgerStore()
	l, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	l, added := ledger.Upsert(l, txs, ledgerClassifier(a.Config), a.Config.Ledger.MaxEntries)
	if err := store.SaveLedger(ctx, l); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	logger.Info().
		Str("added", fmt.Sprintf("%.2f", added)).
		Str("realised_total", fmt.Sprintf("%.2f", l.RealisedTotal)).
		Int("entries", len(l.Entries)).
		Msg("Ledger updated")
	return ledger.Summary(l, added), nil
}

func (a *App) updateSnapshots(ctx context.Context, m *models.Metrics, now time.Time) (*models.SnapshotHistory, *models.WeeklyWrap, error) {
	store := a.Storage.SnapshotStore()
	history, err := store.LoadSnapshots(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshots: %w", err)
	}

	current := snapshot.FromMetrics(m)
	history = snapshot.Write(history, current, a.Config.Snapshots.MaxDays)
	if err := store.SaveSnapshots(ctx, history); err != nil {
		return nil, nil, fmt.Errorf("save snapshots: %w", err)
	}

	return history, snapshot.Weekly(history, current, now, a.Config.Labels()), nil
}

// deliver hands the report to every sink. One failing sink does not stop the others.
func (a *App) deliver(ctx context.Context, r *models.Report, logger *common.Logger) error {
	var errs []error
	for _, sink := range a.Sinks {
		if err := sink.Deliver(ctx, r); err != nil {
			logger.Error().Str("sink", sink.Name()).Err(err).Msg("Report delivery failed")
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		logger.Debug().Str("sink", sink.Name()).Msg("Report delivered")
	}
	return errors.Join(errs...)
}

// notifyFailure sends a failure notice through every sink. Errors are logged and dropped.
func (a *App) notifyFailure(ctx context.Context, now time.Time, runErr error, logger *common.Logger) {
	notice := report.FailureReport(now, runErr, reportOptions(a.Config))
	for _, sink := range a.Sinks {
		if err := sink.Deliver(ctx, notice); err != nil {
			logger.Warn().Str("sink", sink.Name()).Err(err).Msg("Failure notice not delivered")
		}
	}
}
