package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lankacast/internal/model"
	"lankacast/pkg/api"
	casterr "lankacast/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	art, err := model.LoadEmbedded()
	require.NoError(t, err)
	return NewService(model.NewScorer(art))
}

func validRequest() api.PredictRequest {
	return api.PredictRequest{
		RouteNo:       "04-2",
		BusType:       "Normal",
		DepartureDate: "2024-03-06",
		DepartureTime: "10:00",
		Weather:       "Clear",
		CrowdingLevel: "Low",
	}
}

func TestPredictBenignTrip(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Predict(validRequest())
	require.NoError(t, err)

	assert.Equal(t, "On Time", resp.Prediction)
	assert.Equal(t, 0, resp.PredClassIdx)
	assert.Equal(t, []string{"On Time", "Slightly Delayed", "Heavily Delayed"}, resp.ClassNames)
	require.Len(t, resp.Probabilities, 3)

	var sum float64
	for _, p := range resp.Probabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-3)

	assert.Len(t, resp.Attributions, TopAttributions)
	assert.False(t, resp.Meta.IsWeekend)
	assert.False(t, resp.Meta.IsFestival)
	assert.Equal(t, "Morning Off-Peak", resp.Meta.TimeSlot)
	assert.Equal(t, 75, resp.Meta.ScheduledDurationMin)
	assert.Greater(t, resp.Confidence, 0.0)
}

func TestPredictRoughTrip(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Predict(api.PredictRequest{
		RouteNo:           "01",
		BusType:           "Normal",
		DepartureDate:     "2024-04-13", // Sinhala New Year Saturday
		DepartureTime:     "17:30",
		Weather:           "Heavy Rain",
		CrowdingLevel:     "High",
		DepartureDelayMin: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "Heavily Delayed", resp.Prediction)
	assert.True(t, resp.Meta.IsWeekend)
	assert.True(t, resp.Meta.IsHoliday)
	assert.True(t, resp.Meta.IsFestival)
	assert.Equal(t, "Sinhala New Year", resp.Meta.FestivalName)
	assert.Equal(t, "Evening Peak", resp.Meta.TimeSlot)
	assert.Equal(t, 210, resp.Meta.ScheduledDurationMin)
}

func TestPredictFestivalContextDecaysConfidence(t *testing.T) {
	svc := newTestService(t)

	plain := validRequest()
	festive := validRequest()
	festive.DepartureDate = "2024-04-13"

	plainResp, err := svc.Predict(plain)
	require.NoError(t, err)
	festiveResp, err := svc.Predict(festive)
	require.NoError(t, err)

	// Same form inputs otherwise; holiday + festival context must not
	// report higher confidence than the plain weekday.
	assert.Less(t, festiveResp.Confidence, plainResp.Confidence)
}

func TestPredictValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*api.PredictRequest)
		field  string
	}{
		{"unknown route", func(r *api.PredictRequest) { r.RouteNo = "99" }, "route_no"},
		{"unknown bus type", func(r *api.PredictRequest) { r.BusType = "Sleeper" }, "bus_type"},
		{"unknown weather", func(r *api.PredictRequest) { r.Weather = "Snow" }, "weather"},
		{"unknown crowding", func(r *api.PredictRequest) { r.CrowdingLevel = "Packed" }, "crowding_level"},
		{"bad date", func(r *api.PredictRequest) { r.DepartureDate = "13-04-2024" }, "departure_date"},
		{"bad time", func(r *api.PredictRequest) { r.DepartureTime = "25:00" }, "departure_time"},
		{"negative delay", func(r *api.PredictRequest) { r.DepartureDelayMin = -5 }, "departure_delay_min"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Predict(req)
			require.Error(t, err)

			var castErr *casterr.CastError
			require.ErrorAs(t, err, &castErr)
			assert.Equal(t, tc.field, castErr.Field)
			assert.True(t, castErr.Recoverable)
		})
	}
}

func TestPredictUnknownRouteDetail(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.RouteNo = "77"
	_, err := svc.Predict(req)
	require.Error(t, err)

	var castErr *casterr.CastError
	require.ErrorAs(t, err, &castErr)
	assert.Equal(t, "Unknown route_no: 77", castErr.Detail)
}

func TestRoutesSorted(t *testing.T) {
	infos := Routes()
	require.Len(t, infos, 5)
	for i := 1; i < len(infos); i++ {
		assert.Less(t, infos[i-1].RouteNo, infos[i].RouteNo)
	}
	assert.Equal(t, "01", infos[0].RouteNo)
	assert.Equal(t, 116, infos[0].DistanceKm)
	assert.Equal(t, 165, infos[0].DurationMin["Luxury"])
}

func TestParseClock(t *testing.T) {
	h, m, err := parseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	for _, bad := range []string{"", "7", "7:5:0x", "24:00", "12:60", "ab:cd"} {
		_, _, err := parseClock(bad)
		assert.Error(t, err, bad)
	}
}
