package types

import (
	"fmt"
	"strings"
)

// VehicleType is the kind of vehicle an AutoPolicy covers.
type VehicleType string

// Vehicle types.
const (
	VehicleCar        VehicleType = "CAR"
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTruck      VehicleType = "TRUCK"
)

// VehicleTypes lists every vehicle type.
var VehicleTypes = []VehicleType{VehicleCar, VehicleMotorcycle, VehicleTruck}

var vehicleAliases = map[string]VehicleType{
	"CAR":        VehicleCar,
	"COCHE":      VehicleCar,
	"MOTORCYCLE": VehicleMotorcycle,
	"MOTO":       VehicleMotorcycle,
	"TRUCK":      VehicleTruck,
	"CAMION":     VehicleTruck,
}

// ParseVehicleType returns the vehicle type named by s.
func ParseVehicleType(s string) (VehicleType, error) {
	v, ok := vehicleAliases[normalizeEnum(s)]
	if !ok {
		return "", fmt.Errorf("vehicle type %q: %w", s, ErrInvalidInput)
	}
	return v, nil
}

// Coverage is the cover level of an AutoPolicy.
type Coverage string

// Coverage levels, from third-party only up to all risks.
const (
	CoverageThirdParty         Coverage = "THIRD_PARTY"
	CoverageThirdPartyExtended Coverage = "THIRD_PARTY_EXTENDED"
	CoverageExcess200          Coverage = "EXCESS_200"
	CoverageExcess300          Coverage = "EXCESS_300"
	CoverageExcess400          Coverage = "EXCESS_400"
	CoverageExcess500          Coverage = "EXCESS_500"
	CoverageAllRisk            Coverage = "ALL_RISK"
)

// Coverages lists every coverage level.
var Coverages = []Coverage{
	CoverageThirdParty,
	CoverageThirdPartyExtended,
	CoverageExcess200,
	CoverageExcess300,
	CoverageExcess400,
	CoverageExcess500,
	CoverageAllRisk,
}

var coverageDescriptions = map[Coverage]string{
	CoverageThirdParty:         "Third party",
	CoverageThirdPartyExtended: "Third party +",
	CoverageExcess200:          "All risk with 200€ excess",
	CoverageExcess300:          "All risk with 300€ excess",
	CoverageExcess400:          "All risk with 400€ excess",
	CoverageExcess500:          "All risk with 500€ excess",
	CoverageAllRisk:            "All risk",
}

var coverageAliases = map[string]Coverage{
	"TERCEROS":          CoverageThirdParty,
	"TERCEROS_AMPLIADO": CoverageThirdPartyExtended,
	"FRANQUICIA_200":    CoverageExcess200,
	"FRANQUICIA_300":    CoverageExcess300,
	"FRANQUICIA_400":    CoverageExcess400,
	"FRANQUICIA_500":    CoverageExcess500,
	"TODO_RIESGO":       CoverageAllRisk,
}

// Description returns the human label of the coverage level.
func (c Coverage) Description() string {
	if d, ok := coverageDescriptions[c]; ok {
		return d
	}
	return string(c)
}

// ParseCoverage returns the coverage level named by s.
func ParseCoverage(s string) (Coverage, error) {
	n := normalizeEnum(s)
	if _, ok := coverageDescriptions[Coverage(n)]; ok {
		return Coverage(n), nil
	}
	if c, ok := coverageAliases[n]; ok {
		return c, nil
	}
	return "", fmt.Errorf("coverage %q: %w", s, ErrInvalidInput)
}

// RiskLevel classifies a LifePolicy holder. Each level carries the interest
// rate, in percent, added to the next year's premium.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevels lists every risk level.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

var riskRates = map[RiskLevel]float64{
	RiskLow:    2.0,
	RiskMedium: 5.0,
	RiskHigh:   10.0,
}

var riskAliases = map[string]RiskLevel{
	"BAJO":  RiskLow,
	"MEDIO": RiskMedium,
	"ALTO":  RiskHigh,
}

// Rate returns the interest rate of the level in percent.
func (r RiskLevel) Rate() float64 {
	return riskRates[r]
}

// ParseRiskLevel returns the risk level named by s.
func ParseRiskLevel(s string) (RiskLevel, error) {
	n := normalizeEnum(s)
	if _, ok := riskRates[RiskLevel(n)]; ok {
		return RiskLevel(n), nil
	}
	if r, ok := riskAliases[n]; ok {
		return r, nil
	}
	return "", fmt.Errorf("risk level %q: %w", s, ErrInvalidInput)
}

// normalizeEnum upper-cases s, trims it and turns inner spaces and dashes
// into underscores so "third party" and "third-party" both match.
func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
