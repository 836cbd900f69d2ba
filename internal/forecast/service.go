// Package forecast produces district-level property price forecasts with
// driver attributions, the forecast-tab counterpart to the delay predictor.
package forecast

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lankacast/internal/attribution"
	"lankacast/internal/geo"
	"lankacast/internal/model"
	"lankacast/pkg/api"
	"lankacast/pkg/confidence"
	casterr "lankacast/pkg/errors"
)

// TopAttributions is how many driver bars the forecast view renders.
const TopAttributions = 6

// Uncertainty band around the point forecast.
var (
	lowFactor  = decimal.NewFromFloat(0.90)
	highFactor = decimal.NewFromFloat(1.12)
)

// Service computes price forecasts from the baseline tables.
type Service struct{}

func NewService() *Service { return &Service{} }

// Forecast resolves the location to a district, prices the property at the
// baseline year and compounds modeled growth out to the requested year.
func (s *Service) Forecast(req api.ForecastRequest) (*api.ForecastResponse, error) {
	district := req.District
	if district == "" {
		district = geo.District(req.City)
	}
	if district == "" {
		return nil, casterr.NewValidationError("city", "city or district is required")
	}

	ptype := req.PropertyType
	switch ptype {
	case "Land", "House", "Apartment":
	case "":
		return nil, casterr.NewValidationError("property_type", "property_type is required")
	default:
		return nil, casterr.NewUnknownOptionError("property_type", ptype)
	}

	if ptype == "Land" && req.LandSizePerches <= 0 {
		return nil, casterr.NewValidationError("land_size_perches", "land_size_perches must be positive for Land")
	}
	if req.LandSizePerches < 0 {
		return nil, casterr.NewValidationError("land_size_perches", "land_size_perches must not be negative")
	}

	year := req.Year
	if year == 0 {
		year = ForecastYears()[len(ForecastYears())-1]
	}
	if year < BaseYear || year > ForecastYears()[len(ForecastYears())-1] {
		return nil, casterr.NewValidationError("year",
			fmt.Sprintf("year must be between %d and %d", BaseYear, ForecastYears()[len(ForecastYears())-1]))
	}

	base, known := baselines[district]
	if !known {
		base = nationalBaseline
	}

	current := price(base, ptype, req.LandSizePerches, req.Bedrooms)
	national := price(nationalBaseline, ptype, req.LandSizePerches, req.Bedrooms)

	// Compound annual growth from the year after the baseline.
	growth := 1.0
	for y := BaseYear + 1; y <= year; y++ {
		growth *= 1 + growthPct(y)/100
	}
	forecast := current * growth

	scores := map[string]float64{
		"District":       toMillions(current - national),
		"Property Type":  toMillions(typePremium(base, ptype, req.LandSizePerches, req.Bedrooms)),
		"Land Size":      toMillions(sizeContribution(base, ptype, req.LandSizePerches, req.Bedrooms)),
		"Bedrooms":       toMillions(bedroomContribution(base, ptype, req.LandSizePerches, req.Bedrooms)),
		"Forecast Years": toMillions(forecast - current),
	}
	bars := attribution.Rank(scores, TopAttributions)

	baseConf := confidence.MediumConfidence
	if !known {
		baseConf = confidence.LowConfidence
	}
	conf := confidence.Clamp(confidence.Decay(baseConf, year-BaseYear))

	forecastDec := decimal.NewFromFloat(forecast).Round(0)
	currentDec := decimal.NewFromFloat(current).Round(0)

	return &api.ForecastResponse{
		District:       district,
		PropertyType:   ptype,
		Year:           year,
		PriceLKR:       forecastDec.StringFixed(0),
		PriceDisplay:   DisplayLKR(forecastDec),
		LowLKR:         forecastDec.Mul(lowFactor).Round(0).StringFixed(0),
		HighLKR:        forecastDec.Mul(highFactor).Round(0).StringFixed(0),
		CurrentLKR:     currentDec.StringFixed(0),
		CurrentDisplay: DisplayLKR(currentDec),
		GrowthPct:      model.Round4((growth - 1) * 100),
		Attributions:   toAPIBars(bars),
		Confidence:     model.Round4(conf),
	}, nil
}

// price values one property against a district baseline.
func price(base Baseline, ptype string, landSize float64, bedrooms int) float64 {
	switch ptype {
	case "Land":
		return base.LandPerPerch * landSize
	case "House":
		return base.House * sizeFactor(landSize) * bedroomFactor(bedrooms)
	default: // Apartment
		return base.Apartment * bedroomFactor(bedrooms)
	}
}

// sizeFactor scales a house price by its plot size around the 10-perch
// median listing.
func sizeFactor(landSize float64) float64 {
	if landSize <= 0 {
		return 1
	}
	f := 1 + 0.015*(landSize-10)
	return clampFloat(f, 0.7, 2.0)
}

// bedroomFactor scales around the 3-bedroom median. Zero means unspecified.
func bedroomFactor(bedrooms int) float64 {
	if bedrooms <= 0 {
		return 1
	}
	f := 1 + 0.08*float64(bedrooms-3)
	return clampFloat(f, 0.6, 1.6)
}

// typePremium is the value gap between the chosen type and the district's
// cheapest type, priced for the same inputs.
func typePremium(base Baseline, ptype string, landSize float64, bedrooms int) float64 {
	// Compare types at a common plot size so a form that left land size
	// blank does not price the Land alternative at zero.
	size := landSize
	if size <= 0 {
		size = 10
	}
	chosen := price(base, ptype, size, bedrooms)
	min := chosen
	for _, alt := range PropertyTypes() {
		if p := price(base, alt, size, bedrooms); p < min {
			min = p
		}
	}
	return chosen - min
}

func sizeContribution(base Baseline, ptype string, landSize float64, bedrooms int) float64 {
	if ptype == "Apartment" {
		return 0
	}
	if ptype == "Land" {
		median := price(base, ptype, 10, bedrooms)
		return price(base, ptype, landSize, bedrooms) - median
	}
	return price(base, ptype, landSize, bedrooms) - price(base, ptype, 10, bedrooms)
}

func bedroomContribution(base Baseline, ptype string, landSize float64, bedrooms int) float64 {
	if ptype == "Land" {
		return 0
	}
	return price(base, ptype, landSize, bedrooms) - price(base, ptype, landSize, 0)
}

func toMillions(v float64) float64 {
	return model.Round4(v / 1_000_000)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DisplayLKR renders a rupee amount with thousands separators, e.g.
// "Rs 12,345,678".
func DisplayLKR(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var grouped []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	if neg {
		return "Rs -" + string(grouped)
	}
	return "Rs " + string(grouped)
}

func toAPIBars(bars []attribution.Bar) []api.AttributionBar {
	out := make([]api.AttributionBar, len(bars))
	for i, b := range bars {
		out[i] = api.AttributionBar{
			Feature: b.Feature,
			Score:   b.Score,
			Color:   b.Color,
			Length:  b.Length,
		}
	}
	return out
}
