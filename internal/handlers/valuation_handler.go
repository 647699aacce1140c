package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/immowert/api/internal/errors"
	"github.com/stwalsh4118/immowert/api/internal/middleware"
	"github.com/stwalsh4118/immowert/api/internal/models"
	"github.com/stwalsh4118/immowert/api/internal/services"
)

// ValuationHandler handles valuation HTTP requests.
type ValuationHandler struct {
	service services.ValuationService
}

// NewValuationHandler creates a new ValuationHandler instance.
func NewValuationHandler(service services.ValuationService) *ValuationHandler {
	return &ValuationHandler{
		service: service,
	}
}

// PropertyRequest is the JSON body shared by all valuation endpoints.
// Categorical fields are free strings; unknown values resolve to neutral rates.
// A missing or unknown city_id falls back to the first configured city.
type PropertyRequest struct {
	PropertyType   string   `json:"property_type" binding:"required,max=32"`
	Size           float64  `json:"size" binding:"gte=0"`
	LandSize       float64  `json:"land_size" binding:"gte=0"`
	CityID         string   `json:"city_id" binding:"omitempty,max=64"`
	Condition      string   `json:"condition" binding:"omitempty,max=32"`
	Features       []string `json:"features" binding:"omitempty,max=50,dive,max=64"`
	YearBuilt      *int     `json:"year_built" binding:"omitempty,gte=1000,lte=2100"`
	LocationRating *int     `json:"location_rating"`
	HouseType      string   `json:"house_type" binding:"omitempty,max=32"`
	Quality        string   `json:"quality" binding:"omitempty,max=32"`
	Modernization  string   `json:"modernization" binding:"omitempty,max=32"`
}

// ComparisonRequest is the JSON body of the comparison endpoint.
type ComparisonRequest struct {
	PropertyRequest
	PropertyValue      float64  `json:"property_value" binding:"required,gt=0"`
	RemainingMortgage  float64  `json:"remaining_mortgage" binding:"gte=0"`
	MortgageRate       float64  `json:"mortgage_rate" binding:"gte=0,lte=1"`
	HoldingPeriodYears int      `json:"holding_period_years" binding:"gte=0,lte=200"`
	AppreciationRate   *float64 `json:"appreciation_rate" binding:"omitempty,gt=-1,lte=1"`
}

// CitiesResponse represents the response for the cities endpoint.
type CitiesResponse struct {
	Cities []CityData `json:"cities"`
	Count  int        `json:"count"`
}

// CityData is the public view of a configured city.
type CityData struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	BaseRentPricePerSqm float64 `json:"base_rent_price_per_sqm"`
}

// Rental handles POST /api/v1/valuations/rental endpoint.
func (h *ValuationHandler) Rental(c *gin.Context) {
	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Rental(c.Request.Context(), req.toModel())
	if err != nil {
		handleServiceError(c, err, "Failed to calculate rental value")
		return
	}

	c.JSON(http.StatusOK, res)
}

// Sale handles POST /api/v1/valuations/sale endpoint.
func (h *ValuationHandler) Sale(c *gin.Context) {
	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Sale(c.Request.Context(), req.toModel())
	if err != nil {
		handleServiceError(c, err, "Failed to calculate sale value")
		return
	}

	c.JSON(http.StatusOK, res)
}

// Comparison handles POST /api/v1/valuations/comparison endpoint.
func (h *ValuationHandler) Comparison(c *gin.Context) {
	var req ComparisonRequest
	if !bindJSON(c, &req) {
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Processing comparison request", map[string]interface{}{
			"city_id":        req.CityID,
			"property_value": req.PropertyValue,
			"holding_years":  req.HoldingPeriodYears,
		})
	}

	res, err := h.service.Comparison(c.Request.Context(), req.toModel())
	if err != nil {
		handleServiceError(c, err, "Failed to calculate comparison")
		return
	}

	c.JSON(http.StatusOK, res)
}

// Cities handles GET /api/v1/cities endpoint.
func (h *ValuationHandler) Cities(c *gin.Context) {
	cities, err := h.service.Cities(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "Failed to list cities")
		return
	}

	data := make([]CityData, 0, len(cities))
	for _, city := range cities {
		data = append(data, CityData{
			ID:                  city.ID,
			Name:                city.Name,
			BaseRentPricePerSqm: city.BaseRentPricePerSqm,
		})
	}

	c.JSON(http.StatusOK, CitiesResponse{
		Cities: data,
		Count:  len(data),
	})
}

// bindJSON binds the request body and writes the error response on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return false
	}
	apierrors.BadRequest(c, "Invalid request body", nil)
	return false
}

// handleServiceError maps service errors onto HTTP responses.
func handleServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrRatesUnavailable):
		apierrors.ServiceUnavailable(c, apierrors.ErrRatesUnavailable, "Rate tables are not available", err)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}

func (r PropertyRequest) toModel() models.PropertyInput {
	return models.PropertyInput{
		PropertyType:   models.PropertyType(r.PropertyType),
		Size:           r.Size,
		LandSize:       r.LandSize,
		CityID:         r.CityID,
		Condition:      models.Condition(r.Condition),
		Features:       r.Features,
		YearBuilt:      r.YearBuilt,
		LocationRating: r.LocationRating,
		HouseType:      models.HouseType(r.HouseType),
		Quality:        models.Quality(r.Quality),
		Modernization:  models.Modernization(r.Modernization),
	}
}

func (r ComparisonRequest) toModel() models.ComparisonInput {
	return models.ComparisonInput{
		PropertyInput:      r.PropertyRequest.toModel(),
		PropertyValue:      r.PropertyValue,
		RemainingMortgage:  r.RemainingMortgage,
		MortgageRate:       r.MortgageRate,
		HoldingPeriodYears: r.HoldingPeriodYears,
		AppreciationRate:   r.AppreciationRate,
	}
}
