// Package report formats the digest and renders its HTML and chart forms
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

// Options holds presentation settings.
type Options struct {
	Title          string
	CurrencySymbol string
	Labels         models.PieLabels
}

// DefaultOptions returns the stock title, symbol and labels.
func DefaultOptions() Options {
	return Options{Title: "Pie digest", CurrencySymbol: "£", Labels: models.DefaultPieLabels()}
}

// Input is everything one run contributes to the digest.
type Input struct {
	Metrics *models.Metrics
	Advice  models.RecommendationSet
	Ledger  *models.LedgerSummary
	Weekly  *models.WeeklyWrap
	History []models.DailySnapshot
}

// Subject returns "[<classification>] <title> <YYYY-MM-DD HH:MM> UTC".
func Subject(classification, title string, now time.Time) string {
	return fmt.Sprintf("[%s] %s %s UTC", classification, title, now.UTC().Format("2006-01-02 15:04"))
}

// Build assembles the digest. Classification only changes the subject marker.
func Build(now time.Time, in Input, opts Options) *models.Report {
	classification := in.Advice.Classification()
	r := &models.Report{
		Subject:        Subject(classification, opts.Title, now),
		Classification: classification,
		GeneratedAt:    now.UTC(),
		Metrics:        in.Metrics,
		Advice:         in.Advice,
		Ledger:         in.Ledger,
		Weekly:         in.Weekly,
		History:        in.History,
	}
	r.Markdown = formatMarkdown(r, opts)
	return r
}

// FailureReport builds the best-effort notice sent when a run cannot complete.
func FailureReport(now time.Time, runErr error, opts Options) *models.Report {
	msg := "unknown error"
	if runErr != nil {
		msg = runErr.Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s: run failed\n\n", opts.Title))
	sb.WriteString(fmt.Sprintf("**Generated:** %s UTC\n\n", now.UTC().Format("2006-01-02 15:04")))
	sb.WriteString("The scheduled run could not read the account data and produced no digest.\n\n")
	sb.WriteString("```\n" + msg + "\n```\n")

	return &models.Report{
		Subject:        Subject(models.ClassificationAlert, opts.Title+" run failed", now),
		Classification: models.ClassificationAlert,
		GeneratedAt:    now.UTC(),
		Markdown:       sb.String(),
		Failed:         true,
		Advice:         models.RecommendationSet{Alerts: []string{"Run failed: " + msg}},
	}
}

func formatMarkdown(r *models.Report, opts Options) string {
	var sb strings.Builder
	sym := opts.CurrencySymbol

	sb.WriteString(fmt.Sprintf("# %s\n\n", opts.Title))
	sb.WriteString(fmt.Sprintf("**Generated:** %s UTC\n", r.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**Status:** %s\n\n", r.Classification))

	if m := r.Metrics; m != nil {
		sb.WriteString("## Summary\n\n")
		sb.WriteString("| | |\n|---|---|\n")
		sb.WriteString(fmt.Sprintf("| Account total | %s |\n", common.FormatMoney(sym, m.Account.Total)))
		sb.WriteString(fmt.Sprintf("| Free cash | %s |\n", common.FormatMoney(sym, m.Account.FreeCash)))
		sb.WriteString(fmt.Sprintf("| Invested (tracked pies) | %s |\n\n", common.FormatMoney(sym, m.InvestedValue)))

		sb.WriteString("## Pies\n\n")
		sb.WriteString("| Pie | Value | Allocation | Daily move |\n")
		sb.WriteString("|-----|-------|------------|------------|\n")
		writePieRow(&sb, opts.Labels.AI, m.AI, sym)
		writePieRow(&sb, opts.Labels.OuterLimits, m.OuterLimits, sym)
		sb.WriteString("\n")

		sb.WriteString("## Cash flow\n\n")
		sb.WriteString(fmt.Sprintf("Net flow over the last %gh: **%s**\n\n", m.LookbackHours, common.FormatSignedMoney(sym, m.CashFlow)))
	}

	if l := r.Ledger; l != nil {
		sb.WriteString("## Realised profit\n\n")
		sb.WriteString(fmt.Sprintf("- Added this run: %s\n", common.FormatMoney(sym, l.AddedToday)))
		sb.WriteString(fmt.Sprintf("- Realised total: %s\n", common.FormatMoney(sym, l.RealisedTotal)))
		sb.WriteString(fmt.Sprintf("- Entries retained: %d\n\n", l.Entries))
	}

	if len(r.Advice.Alerts) > 0 {
		sb.WriteString("## Alerts\n\n")
		for _, a := range r.Advice.Alerts {
			sb.WriteString("- " + a + "\n")
		}
		sb.WriteString("\n")
	}

	if len(r.Advice.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for i, rec := range r.Advice.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		sb.WriteString("\n")
	}

	if w := r.Weekly; w != nil {
		sb.WriteString(fmt.Sprintf("## Weekly wrap (vs Friday %s)\n\n", w.Prior.Date))
		sb.WriteString("| | Prior | Now | Change |\n")
		sb.WriteString("|---|---|---|---|\n")
		sb.WriteString(fmt.Sprintf("| Total | %s | %s | %s |\n",
			common.FormatMoney(sym, w.Prior.Total), common.FormatMoney(sym, w.Current.Total), common.FormatSignedMoney(sym, w.TotalDelta)))
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", opts.Labels.AI,
			common.FormatMoney(sym, w.Prior.AIValue), common.FormatMoney(sym, w.Current.AIValue), common.FormatSignedMoney(sym, w.AIDelta)))
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n\n", opts.Labels.OuterLimits,
			common.FormatMoney(sym, w.Prior.OLValue), common.FormatMoney(sym, w.Current.OLValue), common.FormatSignedMoney(sym, w.OLDelta)))
		sb.WriteString(fmt.Sprintf("Best mover: **%s** (%s)\n", w.BestMover, common.FormatSignedMoney(sym, w.BestMoverDelta)))
	}

	return sb.String()
}

func writePieRow(sb *strings.Builder, label string, p models.PieMetric, sym string) {
	if !p.Found {
		sb.WriteString(fmt.Sprintf("| %s (not found) | n/a | n/a | n/a |\n", label))
		return
	}
	sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
		label, common.FormatMoney(sym, p.Value), common.FormatPct(p.AllocationPct), common.FormatMove(p.DailyMovePct)))
}
