package forecast

// Baseline is the Feb 2026 median price level for a district, distilled from
// the listings dataset. LandPerPerch is LKR per perch; House and Apartment
// are median total prices in LKR.
type Baseline struct {
	LandPerPerch float64
	House        float64
	Apartment    float64
}

var baselines = map[string]Baseline{
	"Colombo":      {2_800_000, 65_000_000, 38_000_000},
	"Gampaha":      {1_200_000, 32_000_000, 22_000_000},
	"Kalutara":     {850_000, 26_000_000, 16_000_000},
	"Kandy":        {950_000, 28_000_000, 18_000_000},
	"Galle":        {900_000, 27_000_000, 15_000_000},
	"Matara":       {600_000, 20_000_000, 12_000_000},
	"Hambantota":   {350_000, 14_000_000, 9_000_000},
	"Kurunegala":   {500_000, 18_000_000, 10_000_000},
	"Puttalam":     {400_000, 15_000_000, 8_500_000},
	"Anuradhapura": {380_000, 14_500_000, 8_000_000},
	"Polonnaruwa":  {300_000, 12_000_000, 7_000_000},
	"Badulla":      {420_000, 15_000_000, 8_000_000},
	"Monaragala":   {220_000, 10_000_000, 6_000_000},
	"Ratnapura":    {400_000, 14_000_000, 8_000_000},
	"Kegalle":      {380_000, 13_500_000, 7_500_000},
	"Nuwara Eliya": {550_000, 19_000_000, 11_000_000},
	"Jaffna":       {650_000, 21_000_000, 12_000_000},
	"Vavuniya":     {300_000, 11_500_000, 6_500_000},
	"Trincomalee":  {450_000, 16_000_000, 9_000_000},
	"Batticaloa":   {400_000, 14_000_000, 8_000_000},
	"Ampara":       {300_000, 12_000_000, 7_000_000},
	"Matale":       {450_000, 16_000_000, 9_000_000},
}

// Island-wide medians, the fallback for districts outside the dataset.
var nationalBaseline = Baseline{600_000, 18_000_000, 11_000_000}

// Macro assumptions behind the growth model, per forecast year.
type macro struct {
	InflationPct float64
	LendingPct   float64
}

var macroAssumptions = map[int]macro{
	2026: {5.2, 9.5},
	2027: {5.6, 9.0},
	2028: {6.0, 8.8},
	2029: {6.3, 8.5},
	2030: {6.5, 8.2},
}

// BaseYear anchors the baseline table; growth compounds from the following
// year.
const BaseYear = 2026

// ForecastYears lists the supported horizon in order.
func ForecastYears() []int {
	return []int{2026, 2027, 2028, 2029, 2030}
}

// PropertyTypes lists the supported property types.
func PropertyTypes() []string {
	return []string{"Land", "House", "Apartment"}
}

// growthPct is the modeled annual price growth for a year: inflation
// pass-through damped by the lending rate's drag above its neutral level.
func growthPct(year int) float64 {
	m, ok := macroAssumptions[year]
	if !ok {
		return 0
	}
	return 0.9*m.InflationPct - 0.4*(m.LendingPct-8.0)
}
