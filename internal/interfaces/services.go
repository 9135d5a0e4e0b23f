// Package interfaces defines service contracts for piewatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/piewatch/internal/models"
)

// ReportSink delivers a finished digest (email, static site)
type ReportSink interface {
	// Name identifies the sink in logs
	Name() string

	// Deliver publishes the report
	Deliver(ctx context.Context, report *models.Report) error
}
