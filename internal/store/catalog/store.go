// Package catalog reads the pricing package catalog. Each ranking call works
// on one snapshot taken with a single query, so a result never mixes package
// versions from different points in time.
package catalog

import (
	"context"

	"relocation-advisor/internal/models"
)

// Store lists the packages eligible for matching. Implementations must read
// the store of record on every call: catalog edits land out of band and have
// to be visible to the next ranking request.
type Store interface {
	// ListActive returns every active package in one consistent snapshot.
	ListActive(ctx context.Context) ([]models.PricingPackage, error)
}
