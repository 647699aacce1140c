package ratetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/immowert/api/internal/models"
)

func writeRateFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_FullSections(t *testing.T) {
	path := writeRateFile(t, `
cities:
  - id: bonn
    name: Bonn
    base_rent_price_per_sqm: 11.5
    size_degression_exponent: 0.15
    sale_factor: 24
    land_price_per_sqm: 600
    building_price_per_sqm: 2600
    apartment_price_per_sqm: 4100
    market_adjustment_factor: 0.98
  - id: kiel
    name: Kiel
    base_rent_price_per_sqm: 9.8
conditions:
  good: 1.0
  new: 1.3
rental_features:
  balcony: 0.75
age_brackets:
  - key: old
    multiplier: 0.9
    max_year: 1960
  - key: modern
    multiplier: 1.0
    min_year: 1961
macro:
  appreciation_rate: 0.025
  vacancy_rate: 0
`)

	table, err := LoadFile(path)
	require.NoError(t, err)

	require.Len(t, table.Cities, 2)
	assert.Equal(t, "bonn", table.Cities[0].ID)
	assert.Equal(t, 11.5, table.Cities[0].BaseRentPricePerSqm)
	assert.Equal(t, 0.98, table.Cities[0].MarketAdjustmentFactor)
	assert.Equal(t, 4100.0, table.Cities[0].ApartmentPricePerSqm)

	kiel := table.Cities[1]
	assert.Equal(t, 9.8, kiel.BaseRentPricePerSqm)
	assert.Equal(t, DefaultApartmentPricePerSqm, kiel.ApartmentPricePerSqm, "missing prices take the hard defaults")
	assert.Equal(t, DefaultLandPricePerSqm, kiel.LandPricePerSqm)
	assert.Equal(t, DefaultBuildingPricePerSqm, kiel.BuildingPricePerSqm)

	assert.Equal(t, 1.3, table.ConditionMultiplier(models.ConditionNew))
	assert.Equal(t, NeutralMultiplier, table.ConditionMultiplier(models.ConditionRenovated))
	assert.Equal(t, 0.75, table.RentalFeaturePremium("balcony"))
	assert.Equal(t, 0.0, table.RentalFeaturePremium("garden"))

	require.Len(t, table.AgeBrackets, 2)
	require.NotNil(t, table.AgeBrackets[0].MaxYear)
	assert.Equal(t, 1960, *table.AgeBrackets[0].MaxYear)
	assert.Nil(t, table.AgeBrackets[0].MinYear)

	assert.Equal(t, 0.025, table.Macro.AppreciationRate)
	assert.Equal(t, 0.0, table.Macro.VacancyRate, "explicit zero must be kept")
	assert.Equal(t, Default().Macro.BrokerCommission, table.Macro.BrokerCommission)
}

func TestLoadFile_OmittedSectionsUseDefaults(t *testing.T) {
	path := writeRateFile(t, `
qualities:
  normal: 1.0
  luxury: 1.5
`)

	table, err := LoadFile(path)
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, defaults.Cities, table.Cities)
	assert.Equal(t, defaults.LocationRatings, table.LocationRatings)
	assert.Equal(t, defaults.AgeDepreciation, table.AgeDepreciation)
	assert.Equal(t, 1.5, table.QualityFactor(models.QualityLuxury))
}

func TestLoadFile_KeyNormalization(t *testing.T) {
	path := writeRateFile(t, `
conditions:
  Good: 1.5
sale_features:
  wine.cellar: 8000
  Pool: 30000
macro:
  vacancy_rate: 0.05
`)

	table, err := LoadFile(path)
	require.NoError(t, err)

	// viper lowercases keys, so mixed-case file keys still match the enums.
	assert.Equal(t, 1.5, table.ConditionMultiplier(models.ConditionGood))
	assert.Equal(t, 30000.0, table.SaleFeatureValue("pool"))
	// Dots inside a key do not create nesting.
	assert.Equal(t, 8000.0, table.SaleFeatureValue("wine.cellar"))
	assert.Equal(t, 0.05, table.Macro.VacancyRate)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rate table")
}

func TestLoadFile_InvalidTable(t *testing.T) {
	path := writeRateFile(t, `
location_ratings:
  - level: 9
    name: impossible
    multiplier: 2
`)

	_, err := LoadFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate table")
}

func TestWithCities(t *testing.T) {
	base := Default()
	replaced := base.WithCities([]CityRates{{ID: "bonn", Name: "Bonn", BaseRentPricePerSqm: 11}})

	require.Len(t, replaced.Cities, 1)
	assert.Equal(t, "bonn", replaced.Cities[0].ID)
	assert.Equal(t, 11.0, replaced.Cities[0].BaseRentPricePerSqm)
	assert.Equal(t, DefaultApartmentPricePerSqm, replaced.Cities[0].ApartmentPricePerSqm)
	assert.Equal(t, DefaultLandPricePerSqm, replaced.Cities[0].LandPricePerSqm)
	assert.Equal(t, DefaultBuildingPricePerSqm, replaced.Cities[0].BuildingPricePerSqm)
	assert.Len(t, base.Cities, len(defaultCities()), "original table must not change")

	kept := base.WithCities(nil)
	assert.Equal(t, base.Cities, kept.Cities)
}
