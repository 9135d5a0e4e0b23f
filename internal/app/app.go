// Package app wires the client, storage and sinks into the daily digest run.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/piewatch/internal/clients/trading212"
	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/interfaces"
	"github.com/bobmcallan/piewatch/internal/services/advisor"
	"github.com/bobmcallan/piewatch/internal/services/ledger"
	"github.com/bobmcallan/piewatch/internal/services/mailer"
	"github.com/bobmcallan/piewatch/internal/services/metrics"
	"github.com/bobmcallan/piewatch/internal/services/report"
	"github.com/bobmcallan/piewatch/internal/storage"
)

// App holds the initialized client, storage and report sinks.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.StorageManager
	Client      interfaces.AccountClient
	Sinks       []interfaces.ReportSink
	StartupTime time.Time
}

// NewApp validates the configuration and initializes all collaborators.
// It performs no network access.
func NewApp(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	tc := config.Clients.Trading212
	client := trading212.NewClient(tc.APIKey,
		trading212.WithBaseURL(tc.BaseURL),
		trading212.WithLogger(logger),
		trading212.WithRateLimit(tc.RateLimit),
		trading212.WithTimeout(tc.GetTimeout()),
		trading212.WithTransactionsLimit(tc.TransactionsLimit),
	)

	var sinks []interfaces.ReportSink
	if config.Report.Email {
		sinks = append(sinks, mailer.NewService(config.Mail, logger))
	}
	if config.Report.HTML {
		sinks = append(sinks, report.NewSiteWriter(config.Report.SiteDir, reportOptions(config), logger))
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		Client:      client,
		Sinks:       sinks,
		StartupTime: startupStart,
	}

	logger.Info().
		Str("backend", config.Storage.Backend).
		Int("sinks", len(sinks)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// reportOptions overlays the configured report settings on the defaults.
func reportOptions(config *common.Config) report.Options {
	opts := report.DefaultOptions()
	if config.Report.Title != "" {
		opts.Title = config.Report.Title
	}
	if config.Report.CurrencySymbol != "" {
		opts.CurrencySymbol = config.Report.CurrencySymbol
	}
	labels := config.Labels()
	if labels.AI != "" {
		opts.Labels.AI = labels.AI
	}
	if labels.OuterLimits != "" {
		opts.Labels.OuterLimits = labels.OuterLimits
	}
	return opts
}

func advisorConfig(config *common.Config) advisor.Config {
	opts := reportOptions(config)
	return advisor.Config{
		Thresholds:     config.RuleThresholds(),
		Labels:         opts.Labels,
		CurrencySymbol: opts.CurrencySymbol,
	}
}

// metricsOptions keeps the stock keyword for any pie left blank in config.
func metricsOptions(config *common.Config) metrics.Options {
	opts := metrics.DefaultOptions()
	if kw := strings.TrimSpace(config.Pies.AIKeyword); kw != "" {
		opts.Matcher.AIKeyword = kw
	}
	if kw := strings.TrimSpace(config.Pies.OuterLimitsKeyword); kw != "" {
		opts.Matcher.OuterLimitsKeyword = kw
	}
	return opts
}

func ledgerClassifier(config *common.Config) ledger.Classifier {
	if len(config.Ledger.RealisationMarkers) == 0 {
		return ledger.DefaultClassifier()
	}
	return ledger.Classifier{Markers: config.Ledger.RealisationMarkers}
}
