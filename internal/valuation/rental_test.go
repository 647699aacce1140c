package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/immowert/api/internal/models"
)

func baseRentalInput() models.PropertyInput {
	return models.PropertyInput{
		PropertyType:   models.PropertyTypeApartment,
		Size:           70,
		CityID:         "flat",
		Condition:      models.ConditionGood,
		LocationRating: intPtr(3),
	}
}

func TestCalculateRentalValue_ReferenceScenario(t *testing.T) {
	res := newTestEngine().CalculateRentalValue(baseRentalInput())

	assert.Equal(t, 10.00, res.PricePerSqm)
	assert.Equal(t, 700.00, res.MonthlyRent.Estimate)
	assert.Equal(t, 595.00, res.MonthlyRent.Low)
	assert.Equal(t, 805.00, res.MonthlyRent.High)
	assert.Equal(t, 8400.00, res.AnnualRent)
	assert.Equal(t, 50, res.MarketPosition.Score)
	assert.Equal(t, "average", res.MarketPosition.Label)

	assert.Equal(t, "flat", res.City.ID)
	assert.False(t, res.City.Fallback)
	assert.Equal(t, 1.0, res.Factors.SizeDegression)
	assert.Equal(t, 1.0, res.Factors.AgeMultiplier)
	assert.Equal(t, "1980_1999", res.Factors.AgeBracket)
	assert.Empty(t, res.Factors.AppliedFeatures)
}

func TestCalculateRentalValue_SizeDegression(t *testing.T) {
	e := newTestEngine()
	sizes := []float64{25, 40, 70, 100, 180}

	var prev float64
	for i, size := range sizes {
		in := baseRentalInput()
		in.CityID = "degressive"
		in.Size = size
		res := e.CalculateRentalValue(in)

		if i > 0 {
			assert.Less(t, res.PricePerSqm, prev, "price per m² must fall as size grows (size %.0f)", size)
		}
		prev = res.PricePerSqm
	}

	in := baseRentalInput()
	in.CityID = "degressive"
	res := e.CalculateRentalValue(in)
	assert.Equal(t, 10.00, res.PricePerSqm, "the 70 m² reference unit keeps the base price")
}

func TestCalculateRentalValue_MultiplierComposition(t *testing.T) {
	e := newTestEngine()

	good := e.CalculateRentalValue(baseRentalInput())

	newer := baseRentalInput()
	newer.Condition = models.ConditionNew
	renovated := e.CalculateRentalValue(newer)

	assert.Equal(t, 12.50, renovated.PricePerSqm)
	assert.InDelta(t, 1.25, renovated.MonthlyRent.Estimate/good.MonthlyRent.Estimate, 1e-9)

	penthouse := baseRentalInput()
	penthouse.PropertyType = models.PropertyTypePenthouse
	res := e.CalculateRentalValue(penthouse)
	assert.InDelta(t, 1.30, res.PricePerSqm/good.PricePerSqm, 1e-9)

	prime := baseRentalInput()
	prime.LocationRating = intPtr(5)
	res = e.CalculateRentalValue(prime)
	assert.InDelta(t, 1.20, res.PricePerSqm/good.PricePerSqm, 1e-9)
}

func TestCalculateRentalValue_FeatureAdditivity(t *testing.T) {
	e := newTestEngine()
	plain := e.CalculateRentalValue(baseRentalInput())

	in := baseRentalInput()
	in.Features = []string{"balcony", "elevator"}
	res := e.CalculateRentalValue(in)

	assert.InDelta(t, 0.50+0.30, res.PricePerSqm-plain.PricePerSqm, 1e-9)
	assert.Equal(t, []string{"balcony", "elevator"}, res.Factors.AppliedFeatures)
	assert.Equal(t, 0.80, res.Factors.FeaturePremium)

	in.Features = []string{"balcony", "balcony", "helipad", "elevator"}
	dup := e.CalculateRentalValue(in)
	assert.Equal(t, res.PricePerSqm, dup.PricePerSqm, "duplicates and unknown features add nothing")
}

func TestCalculateRentalValue_AgeBracketAppliedAfterFeatures(t *testing.T) {
	in := baseRentalInput()
	in.YearBuilt = intPtr(2020)
	in.Features = []string{"garden"}

	res := newTestEngine().CalculateRentalValue(in)

	// (10.00 + 1.00) × 1.12
	assert.Equal(t, 12.32, res.PricePerSqm)
	assert.Equal(t, "2015_plus", res.Factors.AgeBracket)
}

func TestCalculateRentalValue_FailOpen(t *testing.T) {
	e := newTestEngine()

	t.Run("unknown city uses first configured city", func(t *testing.T) {
		in := baseRentalInput()
		in.CityID = "atlantis"
		res := e.CalculateRentalValue(in)
		assert.Equal(t, "flat", res.City.ID)
		assert.True(t, res.City.Fallback)
		assert.Equal(t, 700.00, res.MonthlyRent.Estimate)
	})

	t.Run("unknown categorical values are neutral", func(t *testing.T) {
		in := baseRentalInput()
		in.Condition = "haunted"
		in.PropertyType = "igloo"
		res := e.CalculateRentalValue(in)
		assert.Equal(t, 10.00, res.PricePerSqm)
		assert.Equal(t, 1.0, res.Factors.ConditionMultiplier)
		assert.Equal(t, 1.0, res.Factors.TypeMultiplier)
	})

	t.Run("location rating is clamped", func(t *testing.T) {
		in := baseRentalInput()
		in.LocationRating = intPtr(42)
		res := e.CalculateRentalValue(in)
		assert.Equal(t, 5, res.Factors.LocationRating)
		assert.Equal(t, 12.00, res.PricePerSqm)

		in.LocationRating = intPtr(-1)
		res = e.CalculateRentalValue(in)
		assert.Equal(t, 1, res.Factors.LocationRating)
	})

	t.Run("missing location rating is average", func(t *testing.T) {
		in := baseRentalInput()
		in.LocationRating = nil
		res := e.CalculateRentalValue(in)
		assert.Equal(t, 3, res.Factors.LocationRating)
	})

	t.Run("zero size yields zero rent", func(t *testing.T) {
		in := baseRentalInput()
		in.Size = 0
		res := e.CalculateRentalValue(in)
		require.Equal(t, 0.0, res.MonthlyRent.Estimate)
		assert.Equal(t, 10.00, res.PricePerSqm)
	})
}

func TestMarketPosition(t *testing.T) {
	tests := []struct {
		ratio     float64
		wantScore int
		wantLabel string
	}{
		{ratio: 0.70, wantScore: 20, wantLabel: "below average"},
		{ratio: 0.849, wantScore: 20, wantLabel: "below average"},
		{ratio: 0.85, wantScore: 35, wantLabel: "slightly below average"},
		{ratio: 1.00, wantScore: 50, wantLabel: "average"},
		{ratio: 1.05, wantScore: 65, wantLabel: "slightly above average"},
		{ratio: 1.20, wantScore: 80, wantLabel: "above average"},
		{ratio: 1.25, wantScore: 90, wantLabel: "premium"},
		{ratio: 3.00, wantScore: 90, wantLabel: "premium"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			pos := marketPosition(tt.ratio*10, 10)
			assert.Equal(t, tt.wantScore, pos.Score)
			assert.Equal(t, tt.wantLabel, pos.Label)
		})
	}

	assert.Equal(t, 50, marketPosition(12, 0).Score, "no base price reports average")
}
