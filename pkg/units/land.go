// Package units provides canonical land measurement units and conversions.
// Sri Lankan property listings quote extents in perches; other sources use
// acres, hectares or square feet, so everything converts through perches.
package units

import (
	"fmt"
	"strings"
)

// Unit represents a land extent measure.
type Unit string

const (
	UnitPerches  Unit = "perches"
	UnitAcres    Unit = "acres"
	UnitHectares Unit = "hectares"
	UnitSqFt     Unit = "sqft"
	UnitSqM      Unit = "sqm"
)

// Conversion factors to perches.
const (
	PerchesPerAcre = 160.0
	SqFtPerPerch   = 272.25
	SqMPerPerch    = 25.29285264
)

// ParseUnit resolves a user-supplied unit name, accepting common spellings.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "perch", "perches", "p":
		return UnitPerches, nil
	case "acre", "acres":
		return UnitAcres, nil
	case "hectare", "hectares", "ha":
		return UnitHectares, nil
	case "sqft", "sq.ft", "square feet", "ft2":
		return UnitSqFt, nil
	case "sqm", "sq.m", "square meters", "m2":
		return UnitSqM, nil
	default:
		return "", fmt.Errorf("unknown land unit: %s", s)
	}
}

// ToPerches converts a land extent to perches.
func ToPerches(value float64, unit Unit) float64 {
	switch unit {
	case UnitAcres:
		return value * PerchesPerAcre
	case UnitHectares:
		return value * 10000 / SqMPerPerch
	case UnitSqFt:
		return value / SqFtPerPerch
	case UnitSqM:
		return value / SqMPerPerch
	default:
		return value
	}
}

// PerchesToAcres converts perches to acres.
func PerchesToAcres(perches float64) float64 {
	return perches / PerchesPerAcre
}

// PerchesToSqM converts perches to square meters.
func PerchesToSqM(perches float64) float64 {
	return perches * SqMPerPerch
}
