package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stwalsh4118/immowert/api/internal/database"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
)

// RateRepository defines the interface for city rate data access operations.
type RateRepository interface {
	// ListCities returns all configured cities ordered by sort_order, then id.
	// Returns an empty slice if the table is empty (not an error).
	// Returns error only for actual database failures.
	ListCities(ctx context.Context) ([]ratetable.CityRates, error)
}

// rateRepository is the concrete implementation of RateRepository.
type rateRepository struct {
	db *database.Database
}

// NewRateRepository creates a new instance of RateRepository.
func NewRateRepository(db *database.Database) RateRepository {
	return &rateRepository{
		db: db,
	}
}

// ListCities reads every row of city_rates.
func (r *rateRepository) ListCities(ctx context.Context) ([]ratetable.CityRates, error) {
	query := `
		SELECT
			id,
			name,
			base_rent_price_per_sqm,
			size_degression_exponent,
			sale_factor,
			land_price_per_sqm,
			building_price_per_sqm,
			apartment_price_per_sqm,
			market_adjustment_factor
		FROM city_rates
		ORDER BY sort_order, id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query city rates: %w", err)
	}

	cities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ratetable.CityRates, error) {
		var c ratetable.CityRates
		err := row.Scan(
			&c.ID,
			&c.Name,
			&c.BaseRentPricePerSqm,
			&c.SizeDegressionExponent,
			&c.SaleFactor,
			&c.LandPricePerSqm,
			&c.BuildingPricePerSqm,
			&c.ApartmentPricePerSqm,
			&c.MarketAdjustmentFactor,
		)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan city rates: %w", err)
	}

	if cities == nil {
		cities = []ratetable.CityRates{}
	}
	return cities, nil
}
