// Package predict turns a bus-delay form submission into a scored,
// explained prediction.
package predict

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lankacast/internal/attribution"
	"lankacast/internal/calendar"
	"lankacast/internal/model"
	"lankacast/pkg/api"
	"lankacast/pkg/confidence"
	casterr "lankacast/pkg/errors"
)

// TopAttributions is how many bars the delay view renders.
const TopAttributions = 8

// Route describes one timetable entry.
type Route struct {
	DistanceKm  int
	DurationMin map[string]int // bus type -> scheduled minutes
}

// Intercity timetable, scheduled durations by bus type.
var routes = map[string]Route{
	"01":   {116, map[string]int{"Normal": 210, "Semi Luxury": 185, "Luxury": 165}},
	"32":   {119, map[string]int{"Normal": 195, "Semi Luxury": 170, "Luxury": 150}},
	"04":   {94, map[string]int{"Normal": 150, "Semi Luxury": 130, "Luxury": 110}},
	"04-2": {37, map[string]int{"Normal": 75, "Semi Luxury": 65, "Luxury": 55}},
	"98":   {100, map[string]int{"Normal": 180, "Semi Luxury": 160, "Luxury": 140}},
}

// Service scores delay predictions against a loaded model.
type Service struct {
	scorer *model.Scorer
}

func NewService(scorer *model.Scorer) *Service {
	return &Service{scorer: scorer}
}

// Routes returns the timetable sorted by route number, for metadata.
func Routes() []api.RouteInfo {
	out := make([]api.RouteInfo, 0, len(routes))
	for no, r := range routes {
		out = append(out, api.RouteInfo{
			RouteNo:     no,
			DistanceKm:  r.DistanceKm,
			DurationMin: r.DurationMin,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RouteNo < out[j].RouteNo })
	return out
}

// Predict validates the request, assembles the encoded feature row, scores
// it and ranks the attributions for display.
func (s *Service) Predict(req api.PredictRequest) (*api.PredictResponse, error) {
	route, ok := routes[req.RouteNo]
	if !ok {
		return nil, casterr.NewUnknownRouteError(req.RouteNo)
	}
	scheduled, ok := route.DurationMin[req.BusType]
	if !ok {
		return nil, casterr.NewUnknownOptionError("bus_type", req.BusType)
	}

	art := s.scorer.Artifact()
	weatherEnc, ok := art.Encode("weather", req.Weather)
	if !ok {
		return nil, casterr.NewUnknownOptionError("weather", req.Weather)
	}
	crowdEnc, ok := art.Encode("crowding_level", req.CrowdingLevel)
	if !ok {
		return nil, casterr.NewUnknownOptionError("crowding_level", req.CrowdingLevel)
	}
	busEnc, _ := art.Encode("bus_type", req.BusType)
	routeEnc, ok := art.Encode("route_no", req.RouteNo)
	if !ok {
		return nil, casterr.NewUnknownRouteError(req.RouteNo)
	}

	day, err := calendar.Classify(req.DepartureDate)
	if err != nil {
		return nil, casterr.NewValidationError("departure_date", err.Error())
	}
	hour, minute, err := parseClock(req.DepartureTime)
	if err != nil {
		return nil, casterr.NewValidationError("departure_time", err.Error())
	}
	if req.DepartureDelayMin < 0 {
		return nil, casterr.NewValidationError("departure_delay_min", "departure delay must not be negative")
	}

	slot := calendar.TimeSlot(hour)
	slotEnc, _ := art.Encode("time_of_day", slot)

	row := []float64{
		routeEnc,
		float64(route.DistanceKm),
		busEnc,
		float64(scheduled),
		float64(hour),
		float64(minute),
		float64(req.DepartureDelayMin),
		slotEnc,
		weatherEnc,
		crowdEnc,
		boolFeature(day.IsWeekend),
		boolFeature(day.IsPublicHoliday),
		boolFeature(day.IsPoya),
		boolFeature(day.IsFestival),
		float64(day.Month),
		float64(day.DayOfWeek),
	}

	res, err := s.scorer.Score(row)
	if err != nil {
		return nil, casterr.NewModelError(err.Error())
	}

	scores, err := s.scorer.Attributions(row, res.ClassIdx)
	if err != nil {
		return nil, casterr.NewModelError(err.Error())
	}
	bars := attribution.Rank(scores, TopAttributions)

	probs := make([]float64, len(res.Probabilities))
	for i, p := range res.Probabilities {
		probs[i] = model.Round4(p)
	}

	// The top-class probability is the base confidence; festival and holiday
	// context decays it, those days are underrepresented in training data.
	factors := 0
	if day.IsFestival {
		factors++
	}
	if day.IsPublicHoliday {
		factors++
	}
	conf := confidence.Clamp(confidence.Decay(res.Probabilities[res.ClassIdx], factors))

	return &api.PredictResponse{
		Prediction:    art.Classes[res.ClassIdx],
		PredClassIdx:  res.ClassIdx,
		Probabilities: probs,
		ClassNames:    art.Classes,
		Attributions:  toAPIBars(bars),
		Confidence:    model.Round4(conf),
		Meta: api.PredictMeta{
			IsWeekend:            day.IsWeekend,
			IsPoya:               day.IsPoya,
			IsHoliday:            day.IsPublicHoliday,
			IsFestival:           day.IsFestival,
			FestivalName:         day.FestivalName,
			TimeSlot:             slot,
			ScheduledDurationMin: scheduled,
		},
	}, nil
}

func parseClock(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
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
