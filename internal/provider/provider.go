// Package provider defines the vendor adapter contract and the shared
// normalization rules every adapter must satisfy before data leaves it.
package provider

import (
	"context"

	"StockPulse/internal/domain/models"
)

// Source is one upstream market-data vendor. Fetch returns a fully
// normalized, validated quote with history, or a classified error from this
// package's taxonomy.
type Source interface {
	// Name is the stable identifier used in config, logs, and metrics.
	Name() string

	// Fetch resolves a symbol against the vendor. Implementations must
	// honor ctx cancellation and deadlines.
	Fetch(ctx context.Context, symbol string) (*models.StockData, error)
}
