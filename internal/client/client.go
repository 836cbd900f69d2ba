// Package client is the form-side view of the API: one submission at a
// time, a four-state display lifecycle and user-facing error strings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"lankacast/internal/geo"
	"lankacast/pkg/api"
)

// State mirrors the form lifecycle: a submission is either idle, in flight,
// or finished one way or the other.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one is still outstanding. No second request is issued.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// GenericErrorMessage is shown when the server's response carries no
// parseable detail.
const GenericErrorMessage = "Something went wrong. Please try again."

// Metadata fetch retry policy: linear, fixed delay, no jitter.
const (
	metadataAttempts = 3
	metadataDelay    = 2 * time.Second
)

// Client talks to the prediction server on behalf of one form.
type Client struct {
	baseURL    string
	http       *http.Client
	retryDelay time.Duration

	mu       sync.Mutex
	inFlight bool
	state    State
	lastErr  string

	forecastMemo geo.Memo
	lastForecast *api.ForecastResponse
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: 30 * time.Second},
		retryDelay: metadataDelay,
		state:      StateIdle,
	}
}

// State returns the current form lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the display string of the most recent failure.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Predict submits a delay prediction form.
func (c *Client) Predict(ctx context.Context, req api.PredictRequest) (*api.PredictResponse, error) {
	var resp api.PredictResponse
	if err := c.submit(ctx, "/api/v1/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Forecast submits a property forecast form.
func (c *Client) Forecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error) {
	var resp api.ForecastResponse
	if err := c.submit(ctx, "/api/v1/forecast", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AutoForecast runs the forecast pre-filled from the prediction tab's
// inputs. The run is keyed on the derived district, property type and land
// size: if none of those changed since the last automatic run, the previous
// result is returned without issuing a request.
func (c *Client) AutoForecast(ctx context.Context, city, propertyType string, landSize float64, year int) (*api.ForecastResponse, error) {
	district := geo.District(city)
	key := geo.AutofillKey(district, propertyType, landSize)

	c.mu.Lock()
	last := c.lastForecast
	c.mu.Unlock()

	if !c.forecastMemo.ShouldRun(key) && last != nil {
		return last, nil
	}

	resp, err := c.Forecast(ctx, api.ForecastRequest{
		District:        district,
		PropertyType:    propertyType,
		LandSizePerches: landSize,
		Year:            year,
	})
	if err != nil {
		// Failed runs do not count: the next tab switch retries.
		c.forecastMemo.Reset()
		return nil, err
	}

	c.mu.Lock()
	c.lastForecast = resp
	c.mu.Unlock()
	return resp, nil
}

// Metadata fetches the option lists the forms are built from, retrying a
// fixed number of times with a fixed delay. This is the one retried call:
// it runs once at page load before any form exists.
func (c *Client) Metadata(ctx context.Context) (*api.Metadata, error) {
	var lastErr error
	for attempt := 1; attempt <= metadataAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/metadata", nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				var meta api.Metadata
				err = json.NewDecoder(resp.Body).Decode(&meta)
				resp.Body.Close()
				if err == nil {
					return &meta, nil
				}
				lastErr = err
			} else {
				lastErr = fmt.Errorf("metadata fetch: %s", errorDetail(resp))
				resp.Body.Close()
			}
		} else {
			lastErr = err
		}

		if attempt < metadataAttempts {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// History lists recent recorded predictions.
func (c *Client) History(ctx context.Context) ([]api.HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/history", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errorDetail(resp))
	}
	var entries []api.HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// submit serializes one form submission. While a request is outstanding the
// client refuses further submissions; on completion the new result (or
// error string) replaces the previous one in full.
func (c *Client) submit(ctx context.Context, path string, body, out interface{}) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.inFlight = true
	c.state = StateSubmitting
	c.mu.Unlock()

	err := c.doSubmit(ctx, path, body, out)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.state = StateError
		c.lastErr = err.Error()
	} else {
		c.state = StateSuccess
		c.lastErr = ""
	}
	c.mu.Unlock()
	return err
}

func (c *Client) doSubmit(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.New(GenericErrorMessage)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errorDetail(resp))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorDetail extracts the server's detail message, falling back to the
// fixed generic message when the body is not the expected shape.
func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return GenericErrorMessage
	}
	var body api.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == "" {
		return GenericErrorMessage
	}
	return body.Detail
}
