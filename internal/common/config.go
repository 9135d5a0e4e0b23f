// Package common provides shared utilities for piewatch
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/piewatch/internal/models"
)

// Config holds all configuration for piewatch
type Config struct {
	Environment string           `toml:"environment"`
	Thresholds  ThresholdsConfig `toml:"thresholds"`
	Pies        PiesConfig       `toml:"pies"`
	Ledger      LedgerConfig     `toml:"ledger"`
	Snapshots   SnapshotsConfig  `toml:"snapshots"`
	Clients     ClientsConfig    `toml:"clients"`
	Storage     StorageConfig    `toml:"storage"`
	Report      ReportConfig     `toml:"report"`
	Mail        MailConfig       `toml:"mail"`
	Schedule    ScheduleConfig   `toml:"schedule"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ThresholdsConfig holds the rule cap values used by the advisor
type ThresholdsConfig struct {
	DriftMaxPct      float64 `toml:"drift_max_pct"`
	MoveAlertPct     float64 `toml:"move_alert_pct"`
	BuyDipPct        float64 `toml:"buy_dip_pct"`
	ConsiderSkimPct  float64 `toml:"consider_skim_pct"`
	CashFlowAbsLimit float64 `toml:"cash_flow_abs_limit"`
	LookbackHours    int     `toml:"lookback_hours"`
}

// PiesConfig holds the keyword used to locate each tracked pie and the label shown in reports
type PiesConfig struct {
	AIKeyword          string `toml:"ai_keyword"`
	OuterLimitsKeyword string `toml:"outer_limits_keyword"`
	AILabel            string `toml:"ai_label"`
	OuterLimitsLabel   string `toml:"outer_limits_label"`
}

// LedgerConfig holds realised-profit ledger configuration
type LedgerConfig struct {
	RealisationMarkers []string `toml:"realisation_markers"`
	MaxEntries         int      `toml:"max_entries"`
}

// SnapshotsConfig holds daily snapshot retention
type SnapshotsConfig struct {
	MaxDays int `toml:"max_days"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Trading212 Trading212Config `toml:"trading212"`
}

// Trading212Config holds upstream account API configuration
type Trading212Config struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	RateLimit         int    `toml:"rate_limit"`
	Timeout           string `toml:"timeout"`
	TransactionsLimit int    `toml:"transactions_limit"`
}

// GetTimeout parses and returns the timeout duration
func (c *Trading212Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StorageConfig selects the state backend and its location.
type StorageConfig struct {
	Backend  string `toml:"backend"` // "file" (default) or "badger"
	Path     string `toml:"path"`
	Versions int    `toml:"versions"` // file backend: rotated backups kept per document
}

// ReportConfig holds digest output configuration
type ReportConfig struct {
	Title          string `toml:"title"`
	CurrencySymbol string `toml:"currency_symbol"`
	SiteDir        string `toml:"site_dir"`
	HTML           bool   `toml:"html"`
	Email          bool   `toml:"email"`
}

// MailConfig holds SMTP delivery settings
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
	To       string `toml:"to"`
	UseTLS   bool   `toml:"use_tls"`
}

// ScheduleConfig holds the cron expression used by the schedule command
type ScheduleConfig struct {
	Cron string `toml:"cron"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// DefaultRealisationMarkers are the upper-case type substrings that count as
// a cash-out from invested assets.
var DefaultRealisationMarkers = []string{
	"PIE_WITHDRAW",
	"WITHDRAW_FROM_PIE",
	"PIE_CASH_OUT",
	"SELL",
	"REALISED",
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Thresholds: ThresholdsConfig{
			DriftMaxPct:      60,
			MoveAlertPct:     2,
			BuyDipPct:        -3,
			ConsiderSkimPct:  5,
			CashFlowAbsLimit: 200,
			LookbackHours:    24,
		},
		Pies: PiesConfig{
			AIKeyword:          "AI",
			OuterLimitsKeyword: "OUTER",
			AILabel:            "AI",
			OuterLimitsLabel:   "OuterLimits",
		},
		Ledger: LedgerConfig{
			RealisationMarkers: append([]string(nil), DefaultRealisationMarkers...),
			MaxEntries:         500,
		},
		Snapshots: SnapshotsConfig{
			MaxDays: 120,
		},
		Clients: ClientsConfig{
			Trading212: Trading212Config{
				BaseURL:           "https://live.trading212.com",
				RateLimit:         1,
				Timeout:           "30s",
				TransactionsLimit: 50,
			},
		},
		Storage: StorageConfig{
			Backend:  "file",
			Path:     "data",
			Versions: 3,
		},
		Report: ReportConfig{
			Title:          "Pie digest",
			CurrencySymbol: "£",
			SiteDir:        "site",
			HTML:           true,
			Email:          true,
		},
		Mail: MailConfig{
			Port:     587,
			FromName: "piewatch",
			UseTLS:   true,
		},
		Schedule: ScheduleConfig{
			Cron: "0 18 * * 1-5",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "./logs/piewatch.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PIEWATCH_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("PIEWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PIEWATCH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}
	if backend := os.Getenv("PIEWATCH_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}
	if dir := os.Getenv("PIEWATCH_SITE_DIR"); dir != "" {
		config.Report.SiteDir = dir
	}

	// Upstream credentials
	for _, name := range []string{"T212_API_KEY", "PIEWATCH_T212_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Trading212.APIKey = v
		}
	}
	if v := os.Getenv("PIEWATCH_T212_BASE_URL"); v != "" {
		config.Clients.Trading212.BaseURL = v
	}

	// Mail overrides
	if v := os.Getenv("PIEWATCH_SMTP_HOST"); v != "" {
		config.Mail.Host = v
	}
	if v := os.Getenv("PIEWATCH_SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Mail.Port = p
		}
	}
	if v := os.Getenv("PIEWATCH_SMTP_USERNAME"); v != "" {
		config.Mail.Username = v
	}
	if v := os.Getenv("PIEWATCH_SMTP_PASSWORD"); v != "" {
		config.Mail.Password = v
	}
	if v := os.Getenv("PIEWATCH_MAIL_FROM"); v != "" {
		config.Mail.From = v
	}
	if v := os.Getenv("PIEWATCH_MAIL_TO"); v != "" {
		config.Mail.To = v
	}
}

// RuleThresholds returns the immutable rule configuration for a run.
func (c *Config) RuleThresholds() models.Thresholds {
	return models.Thresholds{
		DriftMaxPct:      c.Thresholds.DriftMaxPct,
		MoveAlertPct:     c.Thresholds.MoveAlertPct,
		BuyDipPct:        c.Thresholds.BuyDipPct,
		ConsiderSkimPct:  c.Thresholds.ConsiderSkimPct,
		CashFlowAbsLimit: c.Thresholds.CashFlowAbsLimit,
		Lookback:         time.Duration(c.Thresholds.LookbackHours) * time.Hour,
	}
}

// Labels returns the display names of the two tracked pies.
func (c *Config) Labels() models.PieLabels {
	return models.PieLabels{AI: c.Pies.AILabel, OuterLimits: c.Pies.OuterLimitsLabel}
}

// Validate reports missing settings that make a run impossible.
// It is called before any network access.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Clients.Trading212.APIKey) == "" {
		missing = append(missing, "clients.trading212.api_key")
	}
	if strings.TrimSpace(c.Clients.Trading212.BaseURL) == "" {
		missing = append(missing, "clients.trading212.base_url")
	}
	if c.Report.Email {
		if c.Mail.Host == "" {
			missing = append(missing, "mail.host")
		}
		if c.Mail.From == "" {
			missing = append(missing, "mail.from")
		}
		if c.Mail.To == "" {
			missing = append(missing, "mail.to")
		}
	}
	if !c.Report.Email && !c.Report.HTML {
		missing = append(missing, "report.email or report.html")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfig, strings.Join(missing, ", "))
	}
	return nil
}
