package valuation

import (
	"fmt"
	"math"

	"github.com/stwalsh4118/immowert/api/internal/models"
	"github.com/stwalsh4118/immowert/api/internal/money"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
)

const (
	// projectionHorizonYears is how far ahead break-even is searched.
	projectionHorizonYears = 30
	// projectionExposedYears is how many projection rows are returned.
	projectionExposedYears = 15
	// amortizationYears approximates repayment as straight-line over 25 years.
	amortizationYears = 25.0
	// defaultSpeculationPeriodYears is the German private-sale holding period.
	defaultSpeculationPeriodYears = 10
)

// CalculateComparison compares keeping and letting a property against
// selling it now, projecting both over 30 years.
//
// Break-even is the first year whose cumulative net rental income reaches
// that same year's projected net sale proceeds, so the target moves with
// appreciation and amortization.
func (e *Engine) CalculateComparison(in models.ComparisonInput) models.ComparisonResult {
	rental := e.CalculateRentalValue(in.PropertyInput)
	city, _ := e.resolveCity(in.CityID)
	macro := e.rates.Macro

	appreciation := macro.AppreciationRate
	if in.AppreciationRate != nil {
		appreciation = *in.AppreciationRate
	}
	rentIncrease := macro.RentIncreaseRate

	factor := city.SaleFactor
	if factor <= 0 {
		factor = ratetable.DefaultSaleFactor
	}

	grossRent := rental.AnnualRent
	vacancyLoss := grossRent * macro.VacancyRate
	maintenance := in.PropertyValue * macro.MaintenanceRate
	netRent := grossRent - vacancyLoss - maintenance
	interest := in.RemainingMortgage * in.MortgageRate
	netIncome := netRent - interest

	var grossYield, netYield float64
	if in.PropertyValue > 0 {
		grossYield = grossRent / in.PropertyValue * 100
		netYield = netIncome / in.PropertyValue * 100
	}

	saleCosts := in.PropertyValue * macro.BrokerCommission
	netProceeds := in.PropertyValue - in.RemainingMortgage - saleCosts

	period := macro.SpeculationPeriodYears
	if period <= 0 {
		period = defaultSpeculationPeriodYears
	}
	taxApplies := in.HoldingPeriodYears < period
	var taxNote *string
	if taxApplies {
		note := speculationTaxNote(in.HoldingPeriodYears, period)
		taxNote = &note
	}

	projection, breakEven := project(projectionInput{
		propertyValue:     in.PropertyValue,
		remainingMortgage: in.RemainingMortgage,
		netIncome:         netIncome,
		appreciation:      appreciation,
		rentIncrease:      rentIncrease,
		brokerCommission:  macro.BrokerCommission,
	})

	return models.ComparisonResult{
		Rental: rental,
		Sale: models.SaleScenario{
			PropertyValue:     money.Round2(in.PropertyValue),
			SaleCosts:         money.Round2(saleCosts),
			RemainingMortgage: money.Round2(in.RemainingMortgage),
			NetProceeds:       money.Round2(netProceeds),
		},
		RentalScenario: models.RentalScenario{
			GrossAnnualRent:  money.Round2(grossRent),
			VacancyLoss:      money.Round2(vacancyLoss),
			MaintenanceCost:  money.Round2(maintenance),
			NetRent:          money.Round2(netRent),
			MortgageInterest: money.Round2(interest),
			NetIncome:        money.Round2(netIncome),
			AppreciationRate: appreciation,
			RentIncreaseRate: rentIncrease,
		},
		Yields: models.Yields{
			Gross: money.Round2(grossYield),
			Net:   money.Round2(netYield),
		},
		Vervielfaeltiger: models.Vervielfaeltiger{
			Factor:             factor,
			EstimatedSalePrice: money.Round2(grossRent * factor),
		},
		BreakEvenYear:         breakEven,
		SpeculationTaxApplies: taxApplies,
		SpeculationTaxNote:    taxNote,
		Projection:            projection,
		Recommendation:        recommend(netYield, breakEven, taxApplies, period),
	}
}

type projectionInput struct {
	propertyValue     float64
	remainingMortgage float64
	netIncome         float64
	appreciation      float64
	rentIncrease      float64
	brokerCommission  float64
}

// project runs the year-by-year hold-vs-sell simulation. It returns the
// first 15 rows and the break-even year found over the full 30-year horizon.
func project(p projectionInput) ([]models.ProjectionYear, *int) {
	rows := make([]models.ProjectionYear, 0, projectionExposedYears)
	var breakEven *int
	var cumulative float64

	for year := 1; year <= projectionHorizonYears; year++ {
		futureValue := p.propertyValue * math.Pow(1+p.appreciation, float64(year))
		yearRental := p.netIncome * math.Pow(1+p.rentIncrease, float64(year-1))
		cumulative += yearRental

		futureMortgage := math.Max(0, p.remainingMortgage-float64(year)*p.remainingMortgage/amortizationYears)
		futureSaleCosts := futureValue * p.brokerCommission
		futureNetSale := futureValue - futureMortgage - futureSaleCosts
		keepValue := cumulative + futureValue - futureMortgage

		if breakEven == nil && cumulative >= futureNetSale {
			y := year
			breakEven = &y
		}

		if year <= projectionExposedYears {
			rows = append(rows, models.ProjectionYear{
				Year:              year,
				PropertyValue:     money.Round2(futureValue),
				YearRental:        money.Round2(yearRental),
				CumulativeRental:  money.Round2(cumulative),
				RemainingMortgage: money.Round2(futureMortgage),
				SaleCosts:         money.Round2(futureSaleCosts),
				NetSaleProceeds:   money.Round2(futureNetSale),
				KeepValue:         money.Round2(keepValue),
			})
		}
	}

	return rows, breakEven
}

// recommend scores the comparison. Positive scores favour keeping and
// letting the property, negative scores favour selling.
func recommend(netYield float64, breakEven *int, taxApplies bool, period int) models.Recommendation {
	score := 0
	reasons := make([]string, 0, 3)

	switch {
	case netYield >= 5:
		score += 2
		reasons = append(reasons, fmt.Sprintf("Net rental yield of %.2f%% is strong (at least 5%%).", netYield))
	case netYield >= 3:
		score++
		reasons = append(reasons, fmt.Sprintf("Net rental yield of %.2f%% is solid (at least 3%%).", netYield))
	default:
		score--
		reasons = append(reasons, fmt.Sprintf("Net rental yield of %.2f%% is below 3%%.", netYield))
	}

	if breakEven != nil {
		switch {
		case *breakEven <= 5:
			score += 2
			reasons = append(reasons, fmt.Sprintf("Rental income overtakes the sale proceeds after %d years.", *breakEven))
		case *breakEven <= 10:
			score++
			reasons = append(reasons, fmt.Sprintf("Rental income overtakes the sale proceeds within %d years.", *breakEven))
		default:
			score--
			reasons = append(reasons, fmt.Sprintf("Rental income only overtakes the sale proceeds after %d years.", *breakEven))
		}
	}

	if taxApplies {
		score++
		reasons = append(reasons, fmt.Sprintf("Selling before the %d-year holding period ends may trigger speculation tax.", period))
	}

	rec := models.RecommendNeutral
	switch {
	case score >= 2:
		rec = models.RecommendRent
	case score <= -1:
		rec = models.RecommendSell
	}

	return models.Recommendation{Type: rec, Score: score, Reasons: reasons}
}

func speculationTaxNote(held, period int) string {
	return fmt.Sprintf(
		"The property has been held for %d years. A private sale within %d years of acquisition is subject to speculation tax on the gain unless it was owner-occupied in the year of sale and the two preceding years.",
		held, period,
	)
}
