package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/interfaces"
	"github.com/bobmcallan/piewatch/internal/models"
)

const (
	indexFile   = "index.html"
	metricsFile = "metrics.json"
	chartFile   = "history.png"
)

// SiteWriter publishes the digest as a static page plus a JSON snapshot of the run.
type SiteWriter struct {
	dir    string
	opts   Options
	logger *common.Logger
}

// NewSiteWriter creates a site sink writing into dir.
func NewSiteWriter(dir string, opts Options, logger *common.Logger) *SiteWriter {
	return &SiteWriter{dir: dir, opts: opts, logger: logger}
}

// Name identifies the sink in logs
func (w *SiteWriter) Name() string { return "site" }

// Deliver writes index.html, metrics.json and, when enough history exists, history.png.
func (w *SiteWriter) Deliver(ctx context.Context, r *models.Report) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create site directory: %w", err)
	}

	chartPath := ""
	if len(r.History) >= 2 {
		png, err := RenderHistoryChart(r.History, w.opts)
		if err != nil {
			w.logger.Warn().Err(err).Msg("History chart not rendered")
		} else if err := writeFileAtomic(filepath.Join(w.dir, chartFile), png); err != nil {
			return err
		} else {
			chartPath = chartFile
		}
	}

	page, err := RenderHTML(r, chartPath)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(w.dir, indexFile), []byte(page)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(w.dir, metricsFile), data); err != nil {
		return err
	}

	w.logger.Info().Str("dir", w.dir).Bool("chart", chartPath != "").Msg("Static site written")
	return nil
}

// writeFileAtomic writes via a temp file and rename so readers never see a partial page.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

var _ interfaces.ReportSink = (*SiteWriter)(nil)
