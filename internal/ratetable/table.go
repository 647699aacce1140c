// Package ratetable holds the admin-configured rates the valuation engine
// evaluates: city prices, categorical multipliers, feature premiums and
// global macro rates.
//
// A Table is a snapshot. Once handed to an engine it must not be mutated;
// reloads build a new Table instead.
package ratetable

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/immowert/api/internal/models"
)

// Hard defaults used when no city is configured at all.
const (
	DefaultBaseRentPricePerSqm    = 12.00
	DefaultSizeDegressionExponent = 0.20
	DefaultSaleFactor             = 25.0
	DefaultLandPricePerSqm        = 300.0
	DefaultBuildingPricePerSqm    = 2500.0
	DefaultApartmentPricePerSqm   = 4000.0
	DefaultMarketAdjustmentFactor = 1.00

	// NeutralMultiplier is applied for any categorical key the table does not know.
	NeutralMultiplier = 1.00

	// DefaultLocationLevel is used when no rating is given or the rated row is missing.
	DefaultLocationLevel = 3
	MinLocationLevel     = 1
	MaxLocationLevel     = 5
)

// CityRates are the per-city base prices.
type CityRates struct {
	ID                     string  `mapstructure:"id" json:"id"`
	Name                   string  `mapstructure:"name" json:"name"`
	BaseRentPricePerSqm    float64 `mapstructure:"base_rent_price_per_sqm" json:"base_rent_price_per_sqm"`
	SizeDegressionExponent float64 `mapstructure:"size_degression_exponent" json:"size_degression_exponent"`
	SaleFactor             float64 `mapstructure:"sale_factor" json:"sale_factor"`
	LandPricePerSqm        float64 `mapstructure:"land_price_per_sqm" json:"land_price_per_sqm"`
	BuildingPricePerSqm    float64 `mapstructure:"building_price_per_sqm" json:"building_price_per_sqm"`
	ApartmentPricePerSqm   float64 `mapstructure:"apartment_price_per_sqm" json:"apartment_price_per_sqm"`
	MarketAdjustmentFactor float64 `mapstructure:"market_adjustment_factor" json:"market_adjustment_factor"`
}

// AgeBracket maps a range of build years to a rent multiplier.
// A nil bound is open-ended.
type AgeBracket struct {
	Key        string  `mapstructure:"key" json:"key"`
	Multiplier float64 `mapstructure:"multiplier" json:"multiplier"`
	MinYear    *int    `mapstructure:"min_year" json:"min_year"`
	MaxYear    *int    `mapstructure:"max_year" json:"max_year"`
}

// Contains reports whether year lies inside the bracket.
func (b AgeBracket) Contains(year int) bool {
	if b.MinYear != nil && year < *b.MinYear {
		return false
	}
	if b.MaxYear != nil && year > *b.MaxYear {
		return false
	}
	return true
}

// LocationRating is one row of the 1..5 micro-location scale.
type LocationRating struct {
	Level      int     `mapstructure:"level" json:"level"`
	Name       string  `mapstructure:"name" json:"name"`
	Multiplier float64 `mapstructure:"multiplier" json:"multiplier"`
}

// AgeDepreciation is the linear, capped depreciation used by sale valuations.
// A BaseYear of zero means "the current year".
type AgeDepreciation struct {
	RatePerYear     float64 `mapstructure:"rate_per_year" json:"rate_per_year"`
	MaxDepreciation float64 `mapstructure:"max_depreciation" json:"max_depreciation"`
	BaseYear        int     `mapstructure:"base_year" json:"base_year"`
}

// MacroRates are the global rates of the rent-vs-sell comparison. All rates are fractions.
type MacroRates struct {
	AppreciationRate       float64 `mapstructure:"appreciation_rate" json:"appreciation_rate"`
	RentIncreaseRate       float64 `mapstructure:"rent_increase_rate" json:"rent_increase_rate"`
	VacancyRate            float64 `mapstructure:"vacancy_rate" json:"vacancy_rate"`
	MaintenanceRate        float64 `mapstructure:"maintenance_rate" json:"maintenance_rate"`
	BrokerCommission       float64 `mapstructure:"broker_commission" json:"broker_commission"`
	SpeculationPeriodYears int     `mapstructure:"speculation_period_years" json:"speculation_period_years"`
}

// Table is a complete rate table snapshot.
type Table struct {
	Cities          []CityRates                     `mapstructure:"cities" json:"cities"`
	Conditions      map[models.Condition]float64    `mapstructure:"conditions" json:"conditions"`
	PropertyTypes   map[models.PropertyType]float64 `mapstructure:"property_types" json:"property_types"`
	AgeBrackets     []AgeBracket                    `mapstructure:"age_brackets" json:"age_brackets"`
	LocationRatings []LocationRating                `mapstructure:"location_ratings" json:"location_ratings"`
	RentalFeatures  map[string]float64              `mapstructure:"rental_features" json:"rental_features"`
	SaleFeatures    map[string]float64              `mapstructure:"sale_features" json:"sale_features"`
	HouseTypes      map[models.HouseType]float64    `mapstructure:"house_types" json:"house_types"`
	Qualities       map[models.Quality]float64      `mapstructure:"qualities" json:"qualities"`
	Modernizations  map[models.Modernization]int    `mapstructure:"modernizations" json:"modernizations"`
	AgeDepreciation AgeDepreciation                 `mapstructure:"age_depreciation" json:"age_depreciation"`
	Macro           MacroRates                      `mapstructure:"macro" json:"macro"`
}

// withPriceDefaults fills prices a partial rate file or database row left at
// zero, so a missing column never turns into a 0 € estimate.
func (c CityRates) withPriceDefaults() CityRates {
	if c.BaseRentPricePerSqm == 0 {
		c.BaseRentPricePerSqm = DefaultBaseRentPricePerSqm
	}
	if c.LandPricePerSqm == 0 {
		c.LandPricePerSqm = DefaultLandPricePerSqm
	}
	if c.BuildingPricePerSqm == 0 {
		c.BuildingPricePerSqm = DefaultBuildingPricePerSqm
	}
	if c.ApartmentPricePerSqm == 0 {
		c.ApartmentPricePerSqm = DefaultApartmentPricePerSqm
	}
	return c
}

func citiesWithPriceDefaults(cities []CityRates) []CityRates {
	out := make([]CityRates, len(cities))
	for i, c := range cities {
		out[i] = c.withPriceDefaults()
	}
	return out
}

// hardDefaultCity is the last link of the city fallback chain.
func hardDefaultCity() CityRates {
	return CityRates{
		ID:                     "default",
		Name:                   "Default",
		BaseRentPricePerSqm:    DefaultBaseRentPricePerSqm,
		SizeDegressionExponent: DefaultSizeDegressionExponent,
		SaleFactor:             DefaultSaleFactor,
		LandPricePerSqm:        DefaultLandPricePerSqm,
		BuildingPricePerSqm:    DefaultBuildingPricePerSqm,
		ApartmentPricePerSqm:   DefaultApartmentPricePerSqm,
		MarketAdjustmentFactor: DefaultMarketAdjustmentFactor,
	}
}

// ResolveCity is the single fallback site for city lookups: the city with the
// given id, else the first configured city, else the hard defaults.
// The boolean is false whenever a fallback was taken.
func (t *Table) ResolveCity(id string) (CityRates, bool) {
	for _, c := range t.Cities {
		if c.ID == id {
			return c, true
		}
	}
	if len(t.Cities) > 0 {
		return t.Cities[0], false
	}
	return hardDefaultCity(), false
}

// ConditionMultiplier returns the rent multiplier for a condition, 1.00 if unknown.
func (t *Table) ConditionMultiplier(c models.Condition) float64 {
	if m, ok := t.Conditions[c]; ok {
		return m
	}
	return NeutralMultiplier
}

// PropertyTypeMultiplier returns the rent multiplier for a property type, 1.00 if unknown.
func (t *Table) PropertyTypeMultiplier(p models.PropertyType) float64 {
	if m, ok := t.PropertyTypes[p]; ok {
		return m
	}
	return NeutralMultiplier
}

// HouseTypeFactor returns the building factor for a house type, 1.00 if unknown.
func (t *Table) HouseTypeFactor(h models.HouseType) float64 {
	if m, ok := t.HouseTypes[h]; ok {
		return m
	}
	return NeutralMultiplier
}

// QualityFactor returns the fit-out factor for a quality, 1.00 if unknown.
func (t *Table) QualityFactor(q models.Quality) float64 {
	if m, ok := t.Qualities[q]; ok {
		return m
	}
	return NeutralMultiplier
}

// ModernizationShift returns how many years a modernization moves the
// effective build year forward, 0 if unknown.
func (t *Table) ModernizationShift(m models.Modernization) int {
	return t.Modernizations[m]
}

// AgeBracketFor returns the first bracket containing year. A nil or
// unmatched year resolves to the neutral bracket.
func (t *Table) AgeBracketFor(year *int) AgeBracket {
	if year != nil {
		for _, b := range t.AgeBrackets {
			if b.Contains(*year) {
				return b
			}
		}
	}
	return t.neutralAgeBracket()
}

func (t *Table) neutralAgeBracket() AgeBracket {
	for _, b := range t.AgeBrackets {
		if b.Multiplier == NeutralMultiplier {
			return b
		}
	}
	return AgeBracket{Key: "unknown", Multiplier: NeutralMultiplier}
}

// ClampLocationLevel forces a rating into the 1..5 scale.
func ClampLocationLevel(level int) int {
	if level < MinLocationLevel {
		return MinLocationLevel
	}
	if level > MaxLocationLevel {
		return MaxLocationLevel
	}
	return level
}

// LocationRatingFor clamps level to 1..5 and returns its row. A missing row
// resolves to the level-3 row.
func (t *Table) LocationRatingFor(level int) LocationRating {
	level = ClampLocationLevel(level)
	if r, ok := t.locationRow(level); ok {
		return r
	}
	if r, ok := t.locationRow(DefaultLocationLevel); ok {
		return r
	}
	return LocationRating{Level: DefaultLocationLevel, Name: "average", Multiplier: NeutralMultiplier}
}

func (t *Table) locationRow(level int) (LocationRating, bool) {
	for _, r := range t.LocationRatings {
		if r.Level == level {
			return r, true
		}
	}
	return LocationRating{}, false
}

// RentalFeaturePremium returns the €/m² premium of a feature, 0 if unknown.
func (t *Table) RentalFeaturePremium(key string) float64 {
	return t.RentalFeatures[key]
}

// SaleFeatureValue returns the absolute € value of a feature, 0 if unknown.
func (t *Table) SaleFeatureValue(key string) float64 {
	return t.SaleFeatures[key]
}

// Validate rejects tables an admin could not have meant: negative prices,
// negative multipliers, out-of-range rating levels and keys that are not
// lowercase. Rate files are read through viper, which lowercases keys, so a
// mixed-case key can only come from a table built in code.
// The engine never calls this; it runs when a table is loaded.
func (t *Table) Validate() error {
	seen := make(map[string]struct{}, len(t.Cities))
	for i, c := range t.Cities {
		if c.ID == "" {
			return fmt.Errorf("city %d: id is required", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("city %q: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.ID != strings.ToLower(c.ID) {
			return fmt.Errorf("city %q: id must be lowercase", c.ID)
		}
		if c.BaseRentPricePerSqm < 0 || c.LandPricePerSqm < 0 || c.BuildingPricePerSqm < 0 || c.ApartmentPricePerSqm < 0 {
			return fmt.Errorf("city %q: prices must be non-negative", c.ID)
		}
		if c.SizeDegressionExponent < 0 || c.SaleFactor < 0 || c.MarketAdjustmentFactor < 0 {
			return fmt.Errorf("city %q: factors must be non-negative", c.ID)
		}
	}

	keyErrs := []error{
		lowercaseKeys("condition", t.Conditions),
		lowercaseKeys("property type", t.PropertyTypes),
		lowercaseKeys("rental feature", t.RentalFeatures),
		lowercaseKeys("sale feature", t.SaleFeatures),
		lowercaseKeys("house type", t.HouseTypes),
		lowercaseKeys("quality", t.Qualities),
		lowercaseKeys("modernization", t.Modernizations),
	}
	for _, err := range keyErrs {
		if err != nil {
			return err
		}
	}

	for k, m := range t.Conditions {
		if m < 0 {
			return fmt.Errorf("condition %q: multiplier must be non-negative", k)
		}
	}
	for k, m := range t.PropertyTypes {
		if m < 0 {
			return fmt.Errorf("property type %q: multiplier must be non-negative", k)
		}
	}
	for k, m := range t.HouseTypes {
		if m < 0 {
			return fmt.Errorf("house type %q: factor must be non-negative", k)
		}
	}
	for k, m := range t.Qualities {
		if m < 0 {
			return fmt.Errorf("quality %q: factor must be non-negative", k)
		}
	}
	for _, b := range t.AgeBrackets {
		if b.Multiplier < 0 {
			return fmt.Errorf("age bracket %q: multiplier must be non-negative", b.Key)
		}
		if b.MinYear != nil && b.MaxYear != nil && *b.MinYear > *b.MaxYear {
			return fmt.Errorf("age bracket %q: min_year after max_year", b.Key)
		}
	}
	for _, r := range t.LocationRatings {
		if r.Level < MinLocationLevel || r.Level > MaxLocationLevel {
			return fmt.Errorf("location rating level %d: must be between %d and %d", r.Level, MinLocationLevel, MaxLocationLevel)
		}
		if r.Multiplier < 0 {
			return fmt.Errorf("location rating level %d: multiplier must be non-negative", r.Level)
		}
	}

	d := t.AgeDepreciation
	if d.RatePerYear < 0 {
		return fmt.Errorf("age_depreciation.rate_per_year must be non-negative")
	}
	if d.MaxDepreciation < 0 || d.MaxDepreciation > 1 {
		return fmt.Errorf("age_depreciation.max_depreciation must be between 0 and 1")
	}

	return nil
}

func lowercaseKeys[K ~string, V any](kind string, m map[K]V) error {
	for k := range m {
		if string(k) != strings.ToLower(string(k)) {
			return fmt.Errorf("%s %q: key must be lowercase", kind, string(k))
		}
	}
	return nil
}
