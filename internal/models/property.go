package models

// PropertyType selects the property category. For rentals it resolves a rent
// multiplier; for sales it selects the valuation method.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypePenthouse  PropertyType = "penthouse"
	PropertyTypeLoft       PropertyType = "loft"
	PropertyTypeCommercial PropertyType = "commercial"
)

// Condition describes the state of the building interior.
type Condition string

const (
	ConditionNew             Condition = "new"
	ConditionRenovated       Condition = "renovated"
	ConditionGood            Condition = "good"
	ConditionNeedsRenovation Condition = "needs_renovation"
)

// HouseType is the construction form of a house (Sachwert only).
type HouseType string

const (
	HouseTypeDetached       HouseType = "detached"
	HouseTypeSemiDetached   HouseType = "semi_detached"
	HouseTypeTerracedEnd    HouseType = "terraced_end"
	HouseTypeTerracedMiddle HouseType = "terraced_middle"
	HouseTypeMultiFamily    HouseType = "multi_family"
	HouseTypeBungalow       HouseType = "bungalow"
	HouseTypeVilla          HouseType = "villa"
)

// Quality is the fit-out standard of a building.
type Quality string

const (
	QualitySimple  Quality = "simple"
	QualityNormal  Quality = "normal"
	QualityUpscale Quality = "upscale"
	QualityLuxury  Quality = "luxury"
)

// Modernization says how recently a building was modernized. Each bracket
// shifts the effective build year forward.
type Modernization string

const (
	ModernizationNever        Modernization = "never"
	ModernizationOver20Years  Modernization = "over_20_years"
	Modernization10To20Years  Modernization = "10_20_years"
	Modernization5To10Years   Modernization = "5_10_years"
	ModernizationWithin5Years Modernization = "within_5_years"
)

// PropertyInput carries the attributes of a property to value.
// Optional attributes are pointers or empty strings; the engine resolves
// anything missing or unknown to neutral values.
type PropertyInput struct {
	PropertyType   PropertyType  `json:"property_type"`
	Size           float64       `json:"size"`
	LandSize       float64       `json:"land_size,omitempty"`
	CityID         string        `json:"city_id,omitempty"`
	Condition      Condition     `json:"condition,omitempty"`
	Features       []string      `json:"features,omitempty"`
	YearBuilt      *int          `json:"year_built,omitempty"`
	LocationRating *int          `json:"location_rating,omitempty"`
	HouseType      HouseType     `json:"house_type,omitempty"`
	Quality        Quality       `json:"quality,omitempty"`
	Modernization  Modernization `json:"modernization,omitempty"`
}

// ComparisonInput extends PropertyInput with the owner's financial position.
// Rates are fractions (0.035 = 3.5%).
type ComparisonInput struct {
	PropertyInput
	PropertyValue      float64  `json:"property_value"`
	RemainingMortgage  float64  `json:"remaining_mortgage"`
	MortgageRate       float64  `json:"mortgage_rate"`
	HoldingPeriodYears int      `json:"holding_period_years"`
	AppreciationRate   *float64 `json:"appreciation_rate,omitempty"`
}

// UniqueFeatures returns the feature keys with duplicates and blanks removed,
// keeping first-seen order.
func (p PropertyInput) UniqueFeatures() []string {
	seen := make(map[string]struct{}, len(p.Features))
	out := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
