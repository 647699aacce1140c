package models

// CalculationType names the sale valuation method that produced a SaleResult.
type CalculationType string

const (
	// CalculationComparative is the Vergleichswert method used for apartments.
	CalculationComparative CalculationType = "comparative"
	// CalculationAssetValue is the Sachwert method used for houses.
	CalculationAssetValue CalculationType = "asset_value"
	// CalculationLandValue is the Bodenwert method used for plots of land.
	CalculationLandValue CalculationType = "land_value"
)

// RecommendationType is the verdict of a rent-vs-sell comparison.
type RecommendationType string

const (
	RecommendRent    RecommendationType = "rent"
	RecommendSell    RecommendationType = "sell"
	RecommendNeutral RecommendationType = "neutral"
)

// CityRef identifies the city whose rates were applied.
type CityRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Fallback bool   `json:"fallback"`
}

// RentRange is a monthly rent estimate with its uncertainty band.
type RentRange struct {
	Estimate float64 `json:"estimate"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
}

// MarketPosition places the resulting price per m² relative to the city base rate.
type MarketPosition struct {
	Score int     `json:"score"`
	Label string  `json:"label"`
	Ratio float64 `json:"ratio"`
}

// RentalFactors is the audit trail of a rental calculation.
type RentalFactors struct {
	BasePricePerSqm     float64  `json:"base_price_per_sqm"`
	SizeDegression      float64  `json:"size_degression"`
	LocationRating      int      `json:"location_rating"`
	LocationName        string   `json:"location_name"`
	LocationMultiplier  float64  `json:"location_multiplier"`
	ConditionMultiplier float64  `json:"condition_multiplier"`
	TypeMultiplier      float64  `json:"type_multiplier"`
	FeaturePremium      float64  `json:"feature_premium"`
	AppliedFeatures     []string `json:"applied_features"`
	AgeBracket          string   `json:"age_bracket"`
	AgeMultiplier       float64  `json:"age_multiplier"`
}

// RentalResult is the outcome of a rental value calculation.
type RentalResult struct {
	MonthlyRent    RentRange      `json:"monthly_rent"`
	AnnualRent     float64        `json:"annual_rent"`
	PricePerSqm    float64        `json:"price_per_sqm"`
	MarketPosition MarketPosition `json:"market_position"`
	City           CityRef        `json:"city"`
	Factors        RentalFactors  `json:"factors"`
}

// SaleFactors is the audit trail of a sale calculation. Factors that do not
// apply to the chosen method are left at zero.
type SaleFactors struct {
	LocationRating     int     `json:"location_rating"`
	LocationFactor     float64 `json:"location_factor"`
	QualityFactor      float64 `json:"quality_factor,omitempty"`
	HouseTypeFactor    float64 `json:"house_type_factor,omitempty"`
	AgeFactor          float64 `json:"age_factor,omitempty"`
	EffectiveBuildYear int     `json:"effective_build_year,omitempty"`
	MarketFactor       float64 `json:"market_factor"`
	FeaturesValue      float64 `json:"features_value"`
}

// BreakdownItem is one labelled step of a sale calculation.
type BreakdownItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// SaleResult is the outcome of a sale value calculation.
type SaleResult struct {
	PriceEstimate     float64         `json:"price_estimate"`
	PriceMin          float64         `json:"price_min"`
	PriceMax          float64         `json:"price_max"`
	CalculationType   CalculationType `json:"calculation_type"`
	City              CityRef         `json:"city"`
	Factors           SaleFactors     `json:"factors"`
	Breakdown         []BreakdownItem `json:"breakdown"`
	LandValue         *float64        `json:"land_value,omitempty"`
	BuildingValue     *float64        `json:"building_value,omitempty"`
	PricePerSqmLiving *float64        `json:"price_per_sqm_living,omitempty"`
	PricePerSqmLand   *float64        `json:"price_per_sqm_land,omitempty"`
	// Fallback is set when an unrecognized property type was valued with the
	// house method.
	Fallback bool `json:"fallback"`
}

// SaleScenario is the economics of selling the property today.
type SaleScenario struct {
	PropertyValue     float64 `json:"property_value"`
	SaleCosts         float64 `json:"sale_costs"`
	RemainingMortgage float64 `json:"remaining_mortgage"`
	NetProceeds       float64 `json:"net_proceeds"`
}

// RentalScenario is the economics of keeping and letting the property for the current year.
type RentalScenario struct {
	GrossAnnualRent  float64 `json:"gross_annual_rent"`
	VacancyLoss      float64 `json:"vacancy_loss"`
	MaintenanceCost  float64 `json:"maintenance_cost"`
	NetRent          float64 `json:"net_rent"`
	MortgageInterest float64 `json:"mortgage_interest"`
	NetIncome        float64 `json:"net_income"`
	AppreciationRate float64 `json:"appreciation_rate"`
	RentIncreaseRate float64 `json:"rent_increase_rate"`
}

// Yields are expressed in percent of the property value.
type Yields struct {
	Gross float64 `json:"gross"`
	Net   float64 `json:"net"`
}

// Vervielfaeltiger is the rent multiplier cross-check.
type Vervielfaeltiger struct {
	Factor             float64 `json:"factor"`
	EstimatedSalePrice float64 `json:"estimated_sale_price"`
}

// ProjectionYear is one row of the hold-vs-sell projection.
type ProjectionYear struct {
	Year              int     `json:"year"`
	PropertyValue     float64 `json:"property_value"`
	YearRental        float64 `json:"year_rental"`
	CumulativeRental  float64 `json:"cumulative_rental"`
	RemainingMortgage float64 `json:"remaining_mortgage"`
	SaleCosts         float64 `json:"sale_costs"`
	NetSaleProceeds   float64 `json:"net_sale_proceeds"`
	KeepValue         float64 `json:"keep_value"`
}

// Recommendation is the scored rent-vs-sell verdict. Reasons explains every
// contribution to Score.
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Score   int                `json:"score"`
	Reasons []string           `json:"reasons"`
}

// ComparisonResult is the outcome of a rent-vs-sell comparison.
type ComparisonResult struct {
	Rental                RentalResult     `json:"rental"`
	Sale                  SaleScenario     `json:"sale"`
	RentalScenario        RentalScenario   `json:"rental_scenario"`
	Yields                Yields           `json:"yields"`
	Vervielfaeltiger      Vervielfaeltiger `json:"vervielfaeltiger"`
	BreakEvenYear         *int             `json:"break_even_year"`
	SpeculationTaxApplies bool             `json:"speculation_tax_applies"`
	SpeculationTaxNote    *string          `json:"speculation_tax_note"`
	Projection            []ProjectionYear `json:"projection"`
	Recommendation        Recommendation   `json:"recommendation"`
}
