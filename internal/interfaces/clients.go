// Package interfaces defines service contracts for piewatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/piewatch/internal/models"
)

// AccountClient provides read access to the brokerage account data API
type AccountClient interface {
	// GetAccountCash retrieves the account cash balance
	GetAccountCash(ctx context.Context) (*models.AccountCash, error)

	// GetPies retrieves all pies with their valuations
	GetPies(ctx context.Context) ([]models.Pie, error)

	// GetTransactions retrieves the most recent page of account transactions
	GetTransactions(ctx context.Context) ([]models.RawTransaction, error)
}
