package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
)

const listActiveQuery = `
	SELECT id, name, price, currency, complexity, income_level,
	       family_tier, urgency_tier, services, limits
	FROM pricing_packages
	WHERE active = true
	ORDER BY id`

// PostgresStore reads the catalog from the pricing_packages table. Service
// flags and limits are stored as jsonb columns.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-store"}),
	}
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]models.PricingPackage, error) {
	rows, err := s.db.QueryContext(ctx, listActiveQuery)
	if err != nil {
		s.logger.WithError(err).Error("catalog query failed", nil)
		return nil, errors.NewCatalogReadFailedError(err)
	}
	defer rows.Close()

	var packages []models.PricingPackage
	for rows.Next() {
		var (
			pkg          models.PricingPackage
			servicesJSON []byte
			limitsJSON   []byte
		)
		if err := rows.Scan(
			&pkg.ID, &pkg.Name, &pkg.Price, &pkg.Currency,
			&pkg.Complexity, &pkg.IncomeLevel, &pkg.FamilyTier, &pkg.UrgencyTier,
			&servicesJSON, &limitsJSON,
		); err != nil {
			return nil, errors.NewCatalogReadFailedError(err)
		}
		if err := json.Unmarshal(servicesJSON, &pkg.Services); err != nil {
			return nil, errors.NewCatalogReadFailedError(fmt.Errorf("package %s services: %w", pkg.ID, err))
		}
		if err := json.Unmarshal(limitsJSON, &pkg.Limits); err != nil {
			return nil, errors.NewCatalogReadFailedError(fmt.Errorf("package %s limits: %w", pkg.ID, err))
		}
		pkg.Active = true
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogReadFailedError(err)
	}

	return packages, nil
}
