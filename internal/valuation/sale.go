package valuation

import (
	"math"

	"github.com/stwalsh4118/immowert/api/internal/models"
	"github.com/stwalsh4118/immowert/api/internal/money"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
)

// saleBandSpread is the fixed ±5% band around the sale estimate.
const saleBandSpread = 0.05

// CalculateSaleValue estimates the sale price of a property. Apartments use
// the comparative method, land the land-value method and houses the asset
// value method. Any other property type is valued as a house and flagged
// with Fallback.
func (e *Engine) CalculateSaleValue(in models.PropertyInput) models.SaleResult {
	city, ref := e.resolveCity(in.CityID)

	switch in.PropertyType {
	case models.PropertyTypeApartment:
		return e.comparativeValue(in, city, ref)
	case models.PropertyTypeLand:
		return e.landValue(in, city, ref)
	case models.PropertyTypeHouse:
		return e.assetValue(in, city, ref, false)
	default:
		return e.assetValue(in, city, ref, true)
	}
}

// comparativeValue implements the Vergleichswert method for apartments.
func (e *Engine) comparativeValue(in models.PropertyInput, city ratetable.CityRates, ref models.CityRef) models.SaleResult {
	location := e.rates.LocationRatingFor(locationLevel(in.LocationRating))
	quality := e.rates.QualityFactor(in.Quality)
	age, effectiveYear := e.ageFactor(in.YearBuilt, in.Modernization)
	features := e.featuresValue(in.UniqueFeatures())
	market := marketFactor(city)

	base := in.Size * city.ApartmentPricePerSqm
	adjusted := base * quality * location.Multiplier * age
	total := (adjusted + features) * market

	res := e.saleResult(total, models.CalculationComparative, ref)
	res.Factors = models.SaleFactors{
		LocationRating:     location.Level,
		LocationFactor:     location.Multiplier,
		QualityFactor:      quality,
		AgeFactor:          roundFactor(age),
		EffectiveBuildYear: effectiveYear,
		MarketFactor:       market,
		FeaturesValue:      features,
	}
	res.Breakdown = []models.BreakdownItem{
		{Label: "base_value", Amount: money.Round2(base)},
		{Label: "adjusted_value", Amount: money.Round2(adjusted)},
		{Label: "features_value", Amount: money.Round2(features)},
		{Label: "market_adjusted_value", Amount: money.Round2(total)},
	}
	res.PricePerSqmLiving = perSqm(total, in.Size)
	return res
}

// assetValue implements the Sachwert method. Land value is independent of
// quality, age and location; only the building carries those factors.
func (e *Engine) assetValue(in models.PropertyInput, city ratetable.CityRates, ref models.CityRef, fallback bool) models.SaleResult {
	location := e.rates.LocationRatingFor(locationLevel(in.LocationRating))
	quality := e.rates.QualityFactor(in.Quality)
	houseType := e.rates.HouseTypeFactor(in.HouseType)
	age, effectiveYear := e.ageFactor(in.YearBuilt, in.Modernization)
	features := e.featuresValue(in.UniqueFeatures())
	market := marketFactor(city)

	land := in.LandSize * city.LandPricePerSqm
	building := in.Size * city.BuildingPricePerSqm * houseType * quality * age * location.Multiplier
	sachwert := land + building + features
	total := sachwert * market

	res := e.saleResult(total, models.CalculationAssetValue, ref)
	res.Fallback = fallback
	res.Factors = models.SaleFactors{
		LocationRating:     location.Level,
		LocationFactor:     location.Multiplier,
		QualityFactor:      quality,
		HouseTypeFactor:    houseType,
		AgeFactor:          roundFactor(age),
		EffectiveBuildYear: effectiveYear,
		MarketFactor:       market,
		FeaturesValue:      features,
	}
	res.Breakdown = []models.BreakdownItem{
		{Label: "land_value", Amount: money.Round2(land)},
		{Label: "building_value", Amount: money.Round2(building)},
		{Label: "features_value", Amount: money.Round2(features)},
		{Label: "sachwert", Amount: money.Round2(sachwert)},
		{Label: "market_adjusted_value", Amount: money.Round2(total)},
	}
	landValue := money.Round2(land)
	buildingValue := money.Round2(building)
	res.LandValue = &landValue
	res.BuildingValue = &buildingValue
	res.PricePerSqmLiving = perSqm(total, in.Size)
	return res
}

// landValue implements the Bodenwert method for plots of land.
func (e *Engine) landValue(in models.PropertyInput, city ratetable.CityRates, ref models.CityRef) models.SaleResult {
	location := e.rates.LocationRatingFor(locationLevel(in.LocationRating))
	market := marketFactor(city)

	land := in.LandSize * city.LandPricePerSqm
	total := land * location.Multiplier * market

	res := e.saleResult(total, models.CalculationLandValue, ref)
	res.Factors = models.SaleFactors{
		LocationRating: location.Level,
		LocationFactor: location.Multiplier,
		MarketFactor:   market,
	}
	res.Breakdown = []models.BreakdownItem{
		{Label: "bodenwert", Amount: money.Round2(land)},
		{Label: "market_adjusted_value", Amount: money.Round2(total)},
	}
	landValue := money.Round2(land)
	res.LandValue = &landValue
	res.PricePerSqmLand = perSqm(total, in.LandSize)
	return res
}

func (e *Engine) saleResult(total float64, method models.CalculationType, ref models.CityRef) models.SaleResult {
	low, high := money.Band(total, saleBandSpread)
	return models.SaleResult{
		PriceEstimate:   money.RoundThousand(total),
		PriceMin:        money.RoundThousand(low),
		PriceMax:        money.RoundThousand(high),
		CalculationType: method,
		City:            ref,
	}
}

// effectiveBuildYear moves the build year forward by the modernization
// shift, never past the current year.
func (e *Engine) effectiveBuildYear(year int, m models.Modernization) int {
	effective := year + e.rates.ModernizationShift(m)
	if current := e.currentYear(); effective > current {
		return current
	}
	return effective
}

// ageFactor is 1 − min(age × rate, max), so it never drops below
// 1 − max_depreciation. A missing build year means no depreciation.
func (e *Engine) ageFactor(year *int, m models.Modernization) (float64, int) {
	if year == nil {
		return 1.0, 0
	}

	effective := e.effectiveBuildYear(*year, m)
	dep := e.rates.AgeDepreciation
	baseYear := dep.BaseYear
	if baseYear == 0 {
		baseYear = e.currentYear()
	}

	age := math.Max(0, float64(baseYear-effective))
	depreciation := math.Min(age*dep.RatePerYear, dep.MaxDepreciation)
	return 1 - depreciation, effective
}

// featuresValue sums the absolute € values of recognized features.
func (e *Engine) featuresValue(features []string) float64 {
	var total float64
	for _, f := range features {
		total += e.rates.SaleFeatureValue(f)
	}
	return total
}

// marketFactor treats an unset market adjustment as neutral.
func marketFactor(city ratetable.CityRates) float64 {
	if city.MarketAdjustmentFactor <= 0 {
		return ratetable.NeutralMultiplier
	}
	return city.MarketAdjustmentFactor
}

func perSqm(total, area float64) *float64 {
	if area <= 0 {
		return nil
	}
	v := money.Round2(total / area)
	return &v
}
