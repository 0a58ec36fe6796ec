package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/internal/metrics"
	"github.com/iwvelando/standings-forecast/internal/search"
	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/iwvelando/standings-forecast/pkg/testutil"
)

func newTestHandler(t *testing.T, sc config.ServerConfig, opts ...Option) http.Handler {
	t.Helper()
	engine, err := search.NewEngine(zaptest.NewLogger(t), testutil.FixtureTable(t))
	require.NoError(t, err)

	cfg, err := NewConfig(sc)
	require.NoError(t, err)

	h, err := NewHandler(zaptest.NewLogger(t), engine, cfg, opts...)
	require.NoError(t, err)
	return h
}

func postCalculate(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/calculate-nrr", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlePointsTable(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/points-table", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var rows []standings.Row
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, testutil.ChennaiSuperKings, rows[0].Team)
	assert.Equal(t, testutil.DelhiCapitals, rows[2].Team)
	assert.Equal(t, "1066/128.2", rows[3].For)
}

func TestHandleCalculateSuccess(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	tests := []struct {
		name         string
		body         string
		expectedText string
	}{
		{
			name:         "Batting first",
			body:         `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`,
			expectedText: "If Rajasthan Royals score 120 runs in 20 overs, Rajasthan Royals need to restrict Delhi Capitals between 69 to 112 runs in 20 overs.",
		},
		{
			name:         "Bowling first with explicit null",
			body:         `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Bowling First","opponentRuns":119,"runsScored":null}`,
			expectedText: "Rajasthan Royals need to chase 120 between 14.2 and 19 overs.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postCalculate(h, tt.body)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var result search.Result
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
			assert.True(t, result.Feasible)
			assert.Equal(t, tt.expectedText, result.TextOutputs[0])
		})
	}
}

func TestHandleCalculateWireShape(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	rr := postCalculate(h, `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":1,"tossResult":"Batting First","runsScored":120}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Equal(t, []interface{}{"Rajasthan Royals cannot reach position 1"}, raw["textOutputs"])

	structured, ok := raw["structured"].(map[string]interface{})
	require.True(t, ok)
	assert.Nil(t, structured["minRuns"])
	assert.Nil(t, structured["maxRuns"])
	assert.Equal(t, 0.0, structured["minNrr"])
	assert.Equal(t, 0.0, structured["maxNrr"])
	assert.NotContains(t, structured, "minOvers")
}

func TestHandleCalculateErrors(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	tests := []struct {
		name             string
		body             string
		expectedStatus   int
		errorContains    string
		expectDetails    bool
		expectSuggestion string
	}{
		{
			name:           "Broken JSON",
			body:           `{"team":`,
			expectedStatus: http.StatusBadRequest,
			errorContains:  "invalid JSON",
		},
		{
			name:           "Missing required field",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"tossResult":"Batting First","runsScored":120}`,
			expectedStatus: http.StatusBadRequest,
			expectDetails:  true,
		},
		{
			name:           "Unknown toss result",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Fielding","runsScored":120}`,
			expectedStatus: http.StatusBadRequest,
			expectDetails:  true,
		},
		{
			name:           "Extra property",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120,"venue":"Jaipur"}`,
			expectedStatus: http.StatusBadRequest,
			expectDetails:  true,
		},
		{
			name:           "Fractional overs",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":19.5,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`,
			expectedStatus: http.StatusBadRequest,
			expectDetails:  true,
		},
		{
			name:           "Missing branch field",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Bowling First","runsScored":120}`,
			expectedStatus: http.StatusBadRequest,
			errorContains:  "opponentRuns is required",
		},
		{
			name:           "Both branch fields",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120,"opponentRuns":100}`,
			expectedStatus: http.StatusBadRequest,
			errorContains:  "opponentRuns is not allowed",
		},
		{
			name:           "Same team",
			body:           `{"team":"Rajasthan Royals","opponent":"Rajasthan Royals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`,
			expectedStatus: http.StatusBadRequest,
			errorContains:  "must differ",
		},
		{
			name:           "Position past the table",
			body:           `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":9,"tossResult":"Batting First","runsScored":120}`,
			expectedStatus: http.StatusBadRequest,
			errorContains:  "desired position",
		},
		{
			name:             "Unknown team",
			body:             `{"team":"Rajastan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`,
			expectedStatus:   http.StatusBadRequest,
			errorContains:    "Rajastan Royals",
			expectSuggestion: testutil.RajasthanRoyals,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postCalculate(h, tt.body)
			require.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
			if tt.errorContains != "" {
				assert.Contains(t, resp.Error, tt.errorContains)
			}
			if tt.expectDetails {
				assert.NotEmpty(t, resp.Details)
			}
			if tt.expectSuggestion != "" {
				assert.Contains(t, resp.Suggestions, tt.expectSuggestion)
			}
		})
	}
}

func TestHandleCalculateBodyLimit(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{MaxBodySize: "64"})

	body := `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`
	rr := postCalculate(h, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandleCalculateRateLimit(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{RateLimit: 0.001, RateBurst: 2})
	body := `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`

	assert.Equal(t, http.StatusOK, postCalculate(h, body).Code)
	assert.Equal(t, http.StatusOK, postCalculate(h, body).Code)
	assert.Equal(t, http.StatusTooManyRequests, postCalculate(h, body).Code)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/points-table", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "reads are not rate limited")
}

func TestHandleCalculateTimeout(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})
	body := `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/calculate-nrr", strings.NewReader(body)).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{Version: "1.4.0"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"standings-forecast","teams":5}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"1.4.0"}`, rr.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, rr.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/calculate-nrr", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	engine, err := search.NewEngine(nil, testutil.FixtureTable(t), search.WithObserver(m))
	require.NoError(t, err)
	cfg, err := NewConfig(config.ServerConfig{})
	require.NoError(t, err)
	h, err := NewHandler(zaptest.NewLogger(t), engine, cfg, WithRequestObserver(m), WithGatherer(reg))
	require.NoError(t, err)

	postCalculate(h, `{"team":"Rajasthan Royals","opponent":"Delhi Capitals","overs":20,"desiredPosition":3,"tossResult":"Batting First","runsScored":120}`)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	out := rr.Body.String()
	assert.Contains(t, out, `standings_forecast_calculations_total{branch="batting_first",outcome="feasible"} 1`)
	assert.Contains(t, out, `standings_forecast_candidates_evaluated_total{branch="batting_first"} 72`)
	assert.Contains(t, out, `standings_forecast_http_requests_total{route="/calculate-nrr",status="200"} 1`)
}

func TestNewHandlerRequiresEngine(t *testing.T) {
	_, err := NewHandler(nil, nil, nil)
	assert.Error(t, err)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t, config.ServerConfig{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
