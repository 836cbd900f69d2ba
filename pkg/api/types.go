// Package api defines the JSON contracts between the form frontends, the
// CLI and the prediction server. All payloads are flat records: one request
// per form submission, one response per displayed result.
package api

// PredictRequest is one bus-delay form submission.
type PredictRequest struct {
	RouteNo           string `json:"route_no"`       // "01", "32", "04", "04-2", "98"
	BusType           string `json:"bus_type"`       // "Normal", "Semi Luxury", "Luxury"
	DepartureDate     string `json:"departure_date"` // "YYYY-MM-DD"
	DepartureTime     string `json:"departure_time"` // "HH:MM"
	Weather           string `json:"weather"`        // Clear | Cloudy | Light Rain | Moderate Rain | Heavy Rain
	CrowdingLevel     string `json:"crowding_level"` // Low | Medium | High
	DepartureDelayMin int    `json:"departure_delay_min"`
}

// AttributionBar is one display row of the attribution chart.
type AttributionBar struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
	Color   string  `json:"color"`  // positive | negative
	Length  float64 `json:"length"` // normalized (0, 1]
}

// PredictMeta echoes the derived calendar context back to the UI.
type PredictMeta struct {
	IsWeekend            bool   `json:"is_weekend"`
	IsPoya               bool   `json:"is_poya"`
	IsHoliday            bool   `json:"is_holiday"`
	IsFestival           bool   `json:"is_festival"`
	FestivalName         string `json:"festival_name,omitempty"`
	TimeSlot             string `json:"time_slot"`
	ScheduledDurationMin int    `json:"scheduled_duration_min"`
}

// PredictResponse is the full result for one submission. It replaces the
// previously displayed result wholesale.
type PredictResponse struct {
	Prediction    string           `json:"prediction"`
	PredClassIdx  int              `json:"pred_class_idx"`
	Probabilities []float64        `json:"probabilities"`
	ClassNames    []string         `json:"class_names"`
	Attributions  []AttributionBar `json:"attributions"`
	Confidence    float64          `json:"confidence"`
	Meta          PredictMeta      `json:"meta"`
}

// ForecastRequest asks for a property price forecast. City is resolved to a
// district server-side; a district may be passed directly instead.
type ForecastRequest struct {
	City            string  `json:"city,omitempty"`
	District        string  `json:"district,omitempty"`
	PropertyType    string  `json:"property_type"` // Land | House | Apartment
	LandSizePerches float64 `json:"land_size_perches"`
	Bedrooms        int     `json:"bedrooms"`
	Year            int     `json:"year"`
}

// ForecastResponse carries the forecast value plus its formatted display
// strings and driver attributions.
type ForecastResponse struct {
	District       string           `json:"district"`
	PropertyType   string           `json:"property_type"`
	Year           int              `json:"year"`
	PriceLKR       string           `json:"price_lkr"`
	PriceDisplay   string           `json:"price_display"`
	LowLKR         string           `json:"low_lkr"`
	HighLKR        string           `json:"high_lkr"`
	CurrentLKR     string           `json:"current_lkr"`
	CurrentDisplay string           `json:"current_display"`
	GrowthPct      float64          `json:"growth_pct"`
	Attributions   []AttributionBar `json:"attributions"`
	Confidence     float64          `json:"confidence"`
}

// RouteInfo describes one timetable entry in the metadata payload.
type RouteInfo struct {
	RouteNo     string         `json:"route_no"`
	DistanceKm  int            `json:"distance_km"`
	DurationMin map[string]int `json:"duration_min"` // bus type -> scheduled minutes
}

// Metadata is the initial payload the form UIs fetch on load: every valid
// categorical option plus a short model descriptor.
type Metadata struct {
	Model          string      `json:"model"`
	ModelVersion   string      `json:"model_version"`
	FeatureCount   int         `json:"feature_count"`
	ClassNames     []string    `json:"class_names"`
	Routes         []RouteInfo `json:"routes"`
	BusTypes       []string    `json:"bus_types"`
	WeatherOptions []string    `json:"weather_options"`
	CrowdingLevels []string    `json:"crowding_levels"`
	TimeSlots      []string    `json:"time_slots"`
	Districts      []string    `json:"districts"`
	PropertyTypes  []string    `json:"property_types"`
	ForecastYears  []int       `json:"forecast_years"`
}

// ErrorResponse is the body of every non-2xx response. Detail is surfaced to
// the user verbatim.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HistoryEntry is one recorded prediction or forecast.
type HistoryEntry struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"` // predict | forecast
	Subject    string  `json:"subject"`
	Predicted  string  `json:"predicted"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"created_at"`
}
