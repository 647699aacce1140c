package ratetable

import (
	"fmt"

	"github.com/spf13/viper"
)

// keyDelimiter replaces viper's "." so feature keys may contain dots.
const keyDelimiter = "::"

// LoadFile reads a rate table from a YAML (or any viper-supported) file.
// Sections the file leaves out are taken from Default(), so an admin only
// has to maintain the rates that differ. viper lowercases every key, so
// categorical keys must be written in lowercase snake_case.
func LoadFile(path string) (*Table, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rate table %s: %w", path, err)
	}

	var parsed Table
	if err := v.Unmarshal(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rate table %s: %w", path, err)
	}

	t := mergeDefaults(v, &parsed)
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate table %s: %w", path, err)
	}

	return t, nil
}

// mergeDefaults fills every section the file did not set. Scalar rates are
// checked with IsSet so an explicit zero in the file is kept; city prices
// left at zero take the hard defaults.
func mergeDefaults(v *viper.Viper, parsed *Table) *Table {
	t := Default()

	if len(parsed.Cities) > 0 {
		t.Cities = citiesWithPriceDefaults(parsed.Cities)
	}
	if len(parsed.Conditions) > 0 {
		t.Conditions = parsed.Conditions
	}
	if len(parsed.PropertyTypes) > 0 {
		t.PropertyTypes = parsed.PropertyTypes
	}
	if len(parsed.AgeBrackets) > 0 {
		t.AgeBrackets = parsed.AgeBrackets
	}
	if len(parsed.LocationRatings) > 0 {
		t.LocationRatings = parsed.LocationRatings
	}
	if len(parsed.RentalFeatures) > 0 {
		t.RentalFeatures = parsed.RentalFeatures
	}
	if len(parsed.SaleFeatures) > 0 {
		t.SaleFeatures = parsed.SaleFeatures
	}
	if len(parsed.HouseTypes) > 0 {
		t.HouseTypes = parsed.HouseTypes
	}
	if len(parsed.Qualities) > 0 {
		t.Qualities = parsed.Qualities
	}
	if len(parsed.Modernizations) > 0 {
		t.Modernizations = parsed.Modernizations
	}

	if v.IsSet(settingKey("age_depreciation", "rate_per_year")) {
		t.AgeDepreciation.RatePerYear = parsed.AgeDepreciation.RatePerYear
	}
	if v.IsSet(settingKey("age_depreciation", "max_depreciation")) {
		t.AgeDepreciation.MaxDepreciation = parsed.AgeDepreciation.MaxDepreciation
	}
	if v.IsSet(settingKey("age_depreciation", "base_year")) {
		t.AgeDepreciation.BaseYear = parsed.AgeDepreciation.BaseYear
	}

	if v.IsSet(settingKey("macro", "appreciation_rate")) {
		t.Macro.AppreciationRate = parsed.Macro.AppreciationRate
	}
	if v.IsSet(settingKey("macro", "rent_increase_rate")) {
		t.Macro.RentIncreaseRate = parsed.Macro.RentIncreaseRate
	}
	if v.IsSet(settingKey("macro", "vacancy_rate")) {
		t.Macro.VacancyRate = parsed.Macro.VacancyRate
	}
	if v.IsSet(settingKey("macro", "maintenance_rate")) {
		t.Macro.MaintenanceRate = parsed.Macro.MaintenanceRate
	}
	if v.IsSet(settingKey("macro", "broker_commission")) {
		t.Macro.BrokerCommission = parsed.Macro.BrokerCommission
	}
	if v.IsSet(settingKey("macro", "speculation_period_years")) {
		t.Macro.SpeculationPeriodYears = parsed.Macro.SpeculationPeriodYears
	}

	return t
}

func settingKey(section, name string) string {
	return section + keyDelimiter + name
}

// WithCities returns a shallow copy of t whose city list is replaced.
// An empty list keeps the existing cities. Zero prices take the hard defaults.
func (t *Table) WithCities(cities []CityRates) *Table {
	out := *t
	if len(cities) > 0 {
		out.Cities = citiesWithPriceDefaults(cities)
	}
	return &out
}
