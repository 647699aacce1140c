package ratetable

import "github.com/stwalsh4118/immowert/api/internal/models"

// Default returns the built-in rate tables. They are used whenever no rate
// file or database is configured, and to fill sections a rate file omits.
func Default() *Table {
	return &Table{
		Cities:          defaultCities(),
		Conditions:      defaultConditions(),
		PropertyTypes:   defaultPropertyTypes(),
		AgeBrackets:     defaultAgeBrackets(),
		LocationRatings: defaultLocationRatings(),
		RentalFeatures:  defaultRentalFeatures(),
		SaleFeatures:    defaultSaleFeatures(),
		HouseTypes:      defaultHouseTypes(),
		Qualities:       defaultQualities(),
		Modernizations:  defaultModernizations(),
		AgeDepreciation: defaultAgeDepreciation(),
		Macro:           defaultMacroRates(),
	}
}

func defaultCities() []CityRates {
	return []CityRates{
		{ID: "berlin", Name: "Berlin", BaseRentPricePerSqm: 13.50, SizeDegressionExponent: 0.20, SaleFactor: 28, LandPricePerSqm: 900, BuildingPricePerSqm: 2800, ApartmentPricePerSqm: 5200, MarketAdjustmentFactor: 1.00},
		{ID: "muenchen", Name: "München", BaseRentPricePerSqm: 19.50, SizeDegressionExponent: 0.18, SaleFactor: 33, LandPricePerSqm: 2200, BuildingPricePerSqm: 3200, ApartmentPricePerSqm: 8900, MarketAdjustmentFactor: 1.05},
		{ID: "hamburg", Name: "Hamburg", BaseRentPricePerSqm: 14.50, SizeDegressionExponent: 0.20, SaleFactor: 29, LandPricePerSqm: 1100, BuildingPricePerSqm: 3000, ApartmentPricePerSqm: 6100, MarketAdjustmentFactor: 1.02},
		{ID: "frankfurt", Name: "Frankfurt am Main", BaseRentPricePerSqm: 15.50, SizeDegressionExponent: 0.20, SaleFactor: 28, LandPricePerSqm: 1300, BuildingPricePerSqm: 3000, ApartmentPricePerSqm: 6000, MarketAdjustmentFactor: 1.00},
		{ID: "koeln", Name: "Köln", BaseRentPricePerSqm: 12.80, SizeDegressionExponent: 0.20, SaleFactor: 26, LandPricePerSqm: 800, BuildingPricePerSqm: 2700, ApartmentPricePerSqm: 4600, MarketAdjustmentFactor: 1.00},
		{ID: "stuttgart", Name: "Stuttgart", BaseRentPricePerSqm: 14.20, SizeDegressionExponent: 0.20, SaleFactor: 28, LandPricePerSqm: 1200, BuildingPricePerSqm: 3000, ApartmentPricePerSqm: 5300, MarketAdjustmentFactor: 1.00},
		{ID: "duesseldorf", Name: "Düsseldorf", BaseRentPricePerSqm: 12.90, SizeDegressionExponent: 0.20, SaleFactor: 26, LandPricePerSqm: 900, BuildingPricePerSqm: 2800, ApartmentPricePerSqm: 4800, MarketAdjustmentFactor: 1.00},
		{ID: "leipzig", Name: "Leipzig", BaseRentPricePerSqm: 8.20, SizeDegressionExponent: 0.22, SaleFactor: 24, LandPricePerSqm: 350, BuildingPricePerSqm: 2400, ApartmentPricePerSqm: 2900, MarketAdjustmentFactor: 0.97},
	}
}

func defaultConditions() map[models.Condition]float64 {
	return map[models.Condition]float64{
		models.ConditionNew:             1.25,
		models.ConditionRenovated:       1.15,
		models.ConditionGood:            1.00,
		models.ConditionNeedsRenovation: 0.80,
	}
}

func defaultPropertyTypes() map[models.PropertyType]float64 {
	return map[models.PropertyType]float64{
		models.PropertyTypeApartment:  1.00,
		models.PropertyTypeHouse:      1.10,
		models.PropertyTypeStudio:     1.10,
		models.PropertyTypePenthouse:  1.30,
		models.PropertyTypeLoft:       1.20,
		models.PropertyTypeCommercial: 0.90,
	}
}

func defaultAgeBrackets() []AgeBracket {
	return []AgeBracket{
		{Key: "before_1919", Multiplier: 1.05, MaxYear: intPtr(1918)},
		{Key: "1919_1949", Multiplier: 0.95, MinYear: intPtr(1919), MaxYear: intPtr(1949)},
		{Key: "1950_1979", Multiplier: 0.92, MinYear: intPtr(1950), MaxYear: intPtr(1979)},
		{Key: "1980_1999", Multiplier: 1.00, MinYear: intPtr(1980), MaxYear: intPtr(1999)},
		{Key: "2000_2014", Multiplier: 1.05, MinYear: intPtr(2000), MaxYear: intPtr(2014)},
		{Key: "2015_plus", Multiplier: 1.12, MinYear: intPtr(2015)},
	}
}

func defaultLocationRatings() []LocationRating {
	return []LocationRating{
		{Level: 1, Name: "simple", Multiplier: 0.85},
		{Level: 2, Name: "below average", Multiplier: 0.92},
		{Level: 3, Name: "average", Multiplier: 1.00},
		{Level: 4, Name: "good", Multiplier: 1.10},
		{Level: 5, Name: "prime", Multiplier: 1.20},
	}
}

// Rental premiums are €/m² per month.
func defaultRentalFeatures() map[string]float64 {
	return map[string]float64{
		"balcony":        0.50,
		"terrace":        0.80,
		"garden":         1.00,
		"elevator":       0.30,
		"parking":        0.40,
		"garage":         0.60,
		"fitted_kitchen": 0.50,
		"floor_heating":  0.40,
		"guest_toilet":   0.20,
		"barrier_free":   0.30,
		"cellar":         0.20,
		"furnished":      1.50,
	}
}

// Sale values are absolute euros.
func defaultSaleFeatures() map[string]float64 {
	return map[string]float64{
		"balcony":        5000,
		"terrace":        10000,
		"garden":         15000,
		"elevator":       8000,
		"parking":        8000,
		"garage":         15000,
		"fitted_kitchen": 8000,
		"floor_heating":  6000,
		"solar":          12000,
		"heat_pump":      15000,
		"fireplace":      6000,
		"pool":           25000,
		"cellar":         5000,
	}
}

func defaultHouseTypes() map[models.HouseType]float64 {
	return map[models.HouseType]float64{
		models.HouseTypeDetached:       1.00,
		models.HouseTypeSemiDetached:   0.95,
		models.HouseTypeTerracedEnd:    0.92,
		models.HouseTypeTerracedMiddle: 0.88,
		models.HouseTypeMultiFamily:    1.05,
		models.HouseTypeBungalow:       1.05,
		models.HouseTypeVilla:          1.25,
	}
}

func defaultQualities() map[models.Quality]float64 {
	return map[models.Quality]float64{
		models.QualitySimple:  0.85,
		models.QualityNormal:  1.00,
		models.QualityUpscale: 1.15,
		models.QualityLuxury:  1.35,
	}
}

func defaultModernizations() map[models.Modernization]int {
	return map[models.Modernization]int{
		models.ModernizationNever:        0,
		models.ModernizationOver20Years:  5,
		models.Modernization10To20Years:  10,
		models.Modernization5To10Years:   15,
		models.ModernizationWithin5Years: 20,
	}
}

func defaultAgeDepreciation() AgeDepreciation {
	return AgeDepreciation{
		RatePerYear:     0.01,
		MaxDepreciation: 0.40,
	}
}

func defaultMacroRates() MacroRates {
	return MacroRates{
		AppreciationRate:       0.02,
		RentIncreaseRate:       0.015,
		VacancyRate:            0.03,
		MaintenanceRate:        0.01,
		BrokerCommission:       0.0357,
		SpeculationPeriodYears: 10,
	}
}

func intPtr(v int) *int {
	return &v
}
