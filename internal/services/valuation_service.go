package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stwalsh4118/immowert/api/internal/logger"
	"github.com/stwalsh4118/immowert/api/internal/models"
	"github.com/stwalsh4118/immowert/api/internal/ratetable"
	"github.com/stwalsh4118/immowert/api/internal/valuation"
)

// ErrInvalidInput is returned for inputs the engine cannot value sensibly.
var ErrInvalidInput = errors.New("invalid valuation input")

// ValuationService defines the valuation use cases exposed by the API.
type ValuationService interface {
	// Rental estimates the monthly and annual rent of a property.
	// Returns ErrInvalidInput if the living space is not positive.
	// Returns ErrRatesUnavailable if no rate tables are loaded.
	Rental(ctx context.Context, in models.PropertyInput) (*models.RentalResult, error)

	// Sale estimates the sale price using the method for the property type.
	// Returns ErrInvalidInput if the areas the method needs are missing.
	// Returns ErrRatesUnavailable if no rate tables are loaded.
	Sale(ctx context.Context, in models.PropertyInput) (*models.SaleResult, error)

	// Comparison projects keeping and letting against selling now.
	// Returns ErrInvalidInput for non-positive size or property value, or
	// negative mortgage or holding period.
	// Returns ErrRatesUnavailable if no rate tables are loaded.
	Comparison(ctx context.Context, in models.ComparisonInput) (*models.ComparisonResult, error)

	// Cities lists the configured cities in display order.
	Cities(ctx context.Context) ([]ratetable.CityRates, error)
}

// valuationService is the concrete implementation of ValuationService.
type valuationService struct {
	rates RatesProvider
	log   *logger.Logger
	opts  []valuation.Option
}

// NewValuationService creates a new instance of ValuationService. Engine
// options are applied to every engine the service builds.
func NewValuationService(rates RatesProvider, log *logger.Logger, opts ...valuation.Option) ValuationService {
	return &valuationService{
		rates: rates,
		log:   log.WithComponent("valuation_service"),
		opts:  opts,
	}
}

// engine builds an engine over the current snapshot. Engines are cheap and
// bound to one snapshot, so a reload never changes a running calculation.
func (s *valuationService) engine(ctx context.Context) (*valuation.Engine, error) {
	t, err := s.rates.Rates(ctx)
	if err != nil {
		s.log.Error("Rate tables unavailable", err, nil)
		if errors.Is(err, ErrRatesUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRatesUnavailable, err)
	}
	return valuation.NewEngine(t, s.opts...), nil
}

// Rental validates the input and runs the rental calculation.
func (s *valuationService) Rental(ctx context.Context, in models.PropertyInput) (*models.RentalResult, error) {
	if err := validatePositive("size", in.Size); err != nil {
		s.logInvalid("rental", in, err)
		return nil, err
	}

	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	res := e.CalculateRentalValue(in)
	s.logCityFallback(in.CityID, res.City)

	s.log.Info("Rental valuation calculated", map[string]interface{}{
		"city_id":       res.City.ID,
		"property_type": in.PropertyType,
		"size":          in.Size,
		"monthly_rent":  res.MonthlyRent.Estimate,
	})

	return &res, nil
}

// Sale validates the areas the chosen method needs and runs the sale
// calculation.
func (s *valuationService) Sale(ctx context.Context, in models.PropertyInput) (*models.SaleResult, error) {
	if err := validateSaleInput(in); err != nil {
		s.logInvalid("sale", in, err)
		return nil, err
	}

	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	res := e.CalculateSaleValue(in)
	s.logCityFallback(in.CityID, res.City)

	if res.Fallback {
		s.log.Warn("Unknown property type valued with the asset value method", map[string]interface{}{
			"property_type": in.PropertyType,
		})
	}

	s.log.Info("Sale valuation calculated", map[string]interface{}{
		"city_id":          res.City.ID,
		"property_type":    in.PropertyType,
		"calculation_type": res.CalculationType,
		"price_estimate":   res.PriceEstimate,
	})

	return &res, nil
}

// Comparison validates the financial inputs and runs the comparison.
func (s *valuationService) Comparison(ctx context.Context, in models.ComparisonInput) (*models.ComparisonResult, error) {
	if err := validateComparisonInput(in); err != nil {
		s.logInvalid("comparison", in.PropertyInput, err)
		return nil, err
	}

	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}

	res := e.CalculateComparison(in)
	s.logCityFallback(in.CityID, res.Rental.City)

	fields := map[string]interface{}{
		"city_id":        res.Rental.City.ID,
		"property_value": in.PropertyValue,
		"net_yield":      res.Yields.Net,
		"recommendation": res.Recommendation.Type,
	}
	if res.BreakEvenYear != nil {
		fields["break_even_year"] = *res.BreakEvenYear
	}
	s.log.Info("Comparison calculated", fields)

	return &res, nil
}

// Cities lists the configured cities.
func (s *valuationService) Cities(ctx context.Context) ([]ratetable.CityRates, error) {
	t, err := s.rates.Rates(ctx)
	if err != nil {
		s.log.Error("Rate tables unavailable", err, nil)
		if errors.Is(err, ErrRatesUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRatesUnavailable, err)
	}

	cities := make([]ratetable.CityRates, len(t.Cities))
	copy(cities, t.Cities)
	return cities, nil
}

func (s *valuationService) logInvalid(kind string, in models.PropertyInput, err error) {
	s.log.Warn("Invalid valuation input", map[string]interface{}{
		"valuation":     kind,
		"property_type": in.PropertyType,
		"city_id":       in.CityID,
		"error":         err.Error(),
	})
}

func (s *valuationService) logCityFallback(requested string, resolved models.CityRef) {
	if !resolved.Fallback {
		return
	}
	s.log.Warn("Unknown city, using fallback rates", map[string]interface{}{
		"requested_city": requested,
		"resolved_city":  resolved.ID,
	})
}

func validateSaleInput(in models.PropertyInput) error {
	if err := validateNonNegative("land_size", in.LandSize); err != nil {
		return err
	}

	switch in.PropertyType {
	case models.PropertyTypeLand:
		return validatePositive("land_size", in.LandSize)
	case models.PropertyTypeHouse:
		if err := validatePositive("size", in.Size); err != nil {
			return err
		}
		return validatePositive("land_size", in.LandSize)
	default:
		return validatePositive("size", in.Size)
	}
}

func validateComparisonInput(in models.ComparisonInput) error {
	if err := validatePositive("size", in.Size); err != nil {
		return err
	}
	if err := validatePositive("property_value", in.PropertyValue); err != nil {
		return err
	}
	if err := validateNonNegative("remaining_mortgage", in.RemainingMortgage); err != nil {
		return err
	}
	if err := validateNonNegative("mortgage_rate", in.MortgageRate); err != nil {
		return err
	}
	if in.HoldingPeriodYears < 0 {
		return fmt.Errorf("%w: holding_period_years must be non-negative, got %d", ErrInvalidInput, in.HoldingPeriodYears)
	}
	if in.AppreciationRate != nil {
		r := *in.AppreciationRate
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= -1 {
			return fmt.Errorf("%w: appreciation_rate must be greater than -1, got %v", ErrInvalidInput, r)
		}
	}
	return nil
}

func validatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be greater than 0, got %v", ErrInvalidInput, field, v)
	}
	return nil
}

func validateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidInput, field, v)
	}
	return nil
}
