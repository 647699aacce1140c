package valuation

import (
	"math"

	"github.com/stwalsh4118/immowert/api/internal/models"
	"github.com/stwalsh4118/immowert/api/internal/money"
)

const (
	// degressionReferenceSize is the unit size at which the base rent applies unchanged.
	degressionReferenceSize = 70.0
	// rentBandSpread is the fixed ±15% band around the monthly rent estimate.
	rentBandSpread = 0.15
)

type positionBucket struct {
	below float64
	score int
	label string
}

// marketPositions map price-per-m² / base-price ratios to scores. The last
// bucket catches everything at or above 1.25.
var marketPositions = []positionBucket{
	{below: 0.85, score: 20, label: "below average"},
	{below: 0.95, score: 35, label: "slightly below average"},
	{below: 1.05, score: 50, label: "average"},
	{below: 1.15, score: 65, label: "slightly above average"},
	{below: 1.25, score: 80, label: "above average"},
	{below: math.Inf(1), score: 90, label: "premium"},
}

// CalculateRentalValue estimates the monthly and annual rent of a property.
// Transforms are applied in a fixed order: base price, size degression,
// location, condition, property type, feature premiums, age bracket.
func (e *Engine) CalculateRentalValue(in models.PropertyInput) models.RentalResult {
	city, ref := e.resolveCity(in.CityID)
	base := city.BaseRentPricePerSqm

	pricePerSqm := base

	degression := 1.0
	if in.Size > 0 && city.SizeDegressionExponent > 0 {
		degression = math.Pow(degressionReferenceSize/in.Size, city.SizeDegressionExponent)
		pricePerSqm *= degression
	}

	location := e.rates.LocationRatingFor(locationLevel(in.LocationRating))
	condition := e.rates.ConditionMultiplier(in.Condition)
	propertyType := e.rates.PropertyTypeMultiplier(in.PropertyType)
	pricePerSqm *= location.Multiplier
	pricePerSqm *= condition
	pricePerSqm *= propertyType

	premium, applied := e.rentalFeaturePremium(in.UniqueFeatures())
	pricePerSqm += premium

	bracket := e.rates.AgeBracketFor(in.YearBuilt)
	pricePerSqm *= bracket.Multiplier

	monthly := in.Size * pricePerSqm
	low, high := money.Band(monthly, rentBandSpread)

	return models.RentalResult{
		MonthlyRent: models.RentRange{
			Estimate: money.Round2(monthly),
			Low:      money.Round2(low),
			High:     money.Round2(high),
		},
		AnnualRent:     money.Round2(monthly * 12),
		PricePerSqm:    money.Round2(pricePerSqm),
		MarketPosition: marketPosition(pricePerSqm, base),
		City:           ref,
		Factors: models.RentalFactors{
			BasePricePerSqm:     base,
			SizeDegression:      roundFactor(degression),
			LocationRating:      location.Level,
			LocationName:        location.Name,
			LocationMultiplier:  location.Multiplier,
			ConditionMultiplier: condition,
			TypeMultiplier:      propertyType,
			FeaturePremium:      money.Round2(premium),
			AppliedFeatures:     applied,
			AgeBracket:          bracket.Key,
			AgeMultiplier:       bracket.Multiplier,
		},
	}
}

// rentalFeaturePremium sums the €/m² premiums of recognized features.
func (e *Engine) rentalFeaturePremium(features []string) (float64, []string) {
	var total float64
	applied := make([]string, 0, len(features))
	for _, f := range features {
		p := e.rates.RentalFeaturePremium(f)
		if p == 0 {
			continue
		}
		total += p
		applied = append(applied, f)
	}
	return total, applied
}

// marketPosition classifies pricePerSqm against the city base price.
// Without a usable base price the property is reported as average.
func marketPosition(pricePerSqm, base float64) models.MarketPosition {
	ratio := 1.0
	if base > 0 {
		ratio = pricePerSqm / base
	}
	for _, b := range marketPositions {
		if ratio < b.below {
			return models.MarketPosition{Score: b.score, Label: b.label, Ratio: roundFactor(ratio)}
		}
	}
	last := marketPositions[len(marketPositions)-1]
	return models.MarketPosition{Score: last.score, Label: last.label, Ratio: roundFactor(ratio)}
}

// roundFactor keeps audit-trail factors readable.
func roundFactor(v float64) float64 {
	return math.Round(v*10000) / 10000
}
