package catalog

import (
	"context"
	"sync"

	"relocation-advisor/internal/models"
)

// MemoryStore serves a fixed catalog, for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	packages []models.PricingPackage
}

func NewMemoryStore(packages []models.PricingPackage) *MemoryStore {
	return &MemoryStore{packages: packages}
}

func (s *MemoryStore) ListActive(_ context.Context) ([]models.PricingPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PricingPackage, 0, len(s.packages))
	for _, pkg := range s.packages {
		if pkg.Active {
			out = append(out, pkg)
		}
	}
	return out, nil
}

// Replace swaps the whole catalog in one step.
func (s *MemoryStore) Replace(packages []models.PricingPackage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages = packages
}
