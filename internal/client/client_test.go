package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lankacast/pkg/api"
)

func predictRequest() api.PredictRequest {
	return api.PredictRequest{
		RouteNo:       "01",
		BusType:       "Normal",
		DepartureDate: "2024-03-06",
		DepartureTime: "10:00",
		Weather:       "Clear",
		CrowdingLevel: "Low",
	}
}

func TestPredictSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predict", r.URL.Path)
		json.NewEncoder(w).Encode(api.PredictResponse{Prediction: "On Time"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	resp, err := c.Predict(context.Background(), predictRequest())
	require.NoError(t, err)
	assert.Equal(t, "On Time", resp.Prediction)
	assert.Equal(t, StateSuccess, c.State())
	assert.Empty(t, c.LastError())
}

func TestPredictSurfacesDetailVerbatim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(api.ErrorResponse{Detail: "X"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Predict(context.Background(), predictRequest())
	require.Error(t, err)
	assert.Equal(t, "X", err.Error())
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, "X", c.LastError())
}

func TestPredictGenericMessageOnUnparseableBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Predict(context.Background(), predictRequest())
	require.Error(t, err)
	assert.Equal(t, GenericErrorMessage, err.Error())
}

func TestPredictGenericMessageOnTransportFailure(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := c.Predict(context.Background(), predictRequest())
	require.Error(t, err)
	assert.Equal(t, GenericErrorMessage, err.Error())
}

func TestSingleInFlightSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var requests atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		close(entered)
		<-release
		json.NewEncoder(w).Encode(api.PredictResponse{Prediction: "On Time"})
	}))
	defer ts.Close()

	c := New(ts.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Predict(context.Background(), predictRequest())
		done <- err
	}()

	<-entered
	assert.Equal(t, StateSubmitting, c.State())

	// A second submission while the first is outstanding is refused without
	// issuing a request.
	_, err := c.Predict(context.Background(), predictRequest())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, int32(1), requests.Load())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSuccess, c.State())
}

func TestSuccessReplacesPreviousError(t *testing.T) {
	fail := true
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(api.ErrorResponse{Detail: "bad form"})
			return
		}
		json.NewEncoder(w).Encode(api.PredictResponse{Prediction: "On Time"})
	}))
	defer ts.Close()

	c := New(ts.URL)

	_, err := c.Predict(context.Background(), predictRequest())
	require.Error(t, err)
	assert.Equal(t, StateError, c.State())

	fail = false
	_, err = c.Predict(context.Background(), predictRequest())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, c.State())
	assert.Empty(t, c.LastError())
}

func TestAutoForecastSkipsUnchangedInputs(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req api.ForecastRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Gampaha", req.District)
		json.NewEncoder(w).Encode(api.ForecastResponse{District: req.District, Year: req.Year})
	}))
	defer ts.Close()

	c := New(ts.URL)
	ctx := context.Background()

	first, err := c.AutoForecast(ctx, "Negombo", "House", 12, 2028)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())

	// Same derived inputs: no request, previous result returned.
	second, err := c.AutoForecast(ctx, "Negombo", "House", 12, 2028)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, first, second)

	// A different city in the same district derives the same key.
	_, err = c.AutoForecast(ctx, "Wattala", "House", 12, 2028)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())

	// Changing the land size changes the key and re-runs.
	_, err = c.AutoForecast(ctx, "Negombo", "House", 15, 2028)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}

func TestAutoForecastRetriesAfterFailure(t *testing.T) {
	var requests atomic.Int32
	fail := true
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(api.ErrorResponse{Detail: "store down"})
			return
		}
		json.NewEncoder(w).Encode(api.ForecastResponse{District: "Kandy"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	ctx := context.Background()

	_, err := c.AutoForecast(ctx, "Kandy", "Land", 10, 2027)
	require.Error(t, err)

	// The failed run must not be memoized.
	fail = false
	resp, err := c.AutoForecast(ctx, "Kandy", "Land", 10, 2027)
	require.NoError(t, err)
	assert.Equal(t, "Kandy", resp.District)
	assert.Equal(t, int32(2), requests.Load())
}

func TestMetadataRetriesThenSucceeds(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(api.Metadata{Model: "delay"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.retryDelay = 10 * time.Millisecond

	meta, err := c.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "delay", meta.Model)
	assert.Equal(t, int32(3), requests.Load())
}

func TestMetadataGivesUpAfterFixedAttempts(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(api.ErrorResponse{Detail: "boom"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.retryDelay = 10 * time.Millisecond

	_, err := c.Metadata(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(metadataAttempts), requests.Load())
	assert.Contains(t, err.Error(), "boom")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
}
