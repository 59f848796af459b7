package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"temperature-dashboard/internal/config"
	"temperature-dashboard/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const wttrBody = `{
	"current_condition": [{
		"humidity": "55",
		"windspeedKmph": "9",
		"weatherDesc": [{"value": "Haze"}]
	}],
	"weather": [{"mintempC": "21", "maxtempC": "33"}]
}`

func newTestApp(t *testing.T, handler http.HandlerFunc, cities ...string) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Fetch.BaseURL = srv.URL
	cfg.Fetch.Timeout = 2 * time.Second
	cfg.Fetch.Throttle = 0
	cfg.Fetch.Cities = cities
	cfg.Export.OutputDir = t.TempDir()
	cfg.Store.MaxHistory = 3

	logger := zap.NewNop()
	dashboard := services.NewDashboard(cfg, logger)

	app := fiber.New()
	SetupRoutes(app, NewHandler(dashboard, logger), logger)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestEndpointsBeforeFirstFetch(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wttrBody)
	}, "Mumbai")

	resp := doRequest(t, app, http.MethodGet, "/api/v1/records")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/summary")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/export?format=csv")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportFormatValidation(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wttrBody)
	}, "Mumbai")

	// Missing format parameter.
	resp := doRequest(t, app, http.MethodPost, "/api/v1/export")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unsupported format.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/export?format=xml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecordsOrderValidation(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wttrBody)
	}, "Mumbai")

	resp := doRequest(t, app, http.MethodGet, "/api/v1/records?order=bogus")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCities(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wttrBody)
	}, "Mumbai", "Shimla")

	resp := doRequest(t, app, http.MethodGet, "/api/v1/cities")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Cities []string `json:"cities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Mumbai", "Shimla"}, body.Cities)
}

func TestFetchFlow(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, wttrBody)
	}, "Mumbai", "Shimla")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/fetch")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	// A second trigger while the run is in flight is rejected.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/fetch")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	waitForIdle(t, app)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/records?order=table")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	assert.Equal(t, 2, records.Count)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		Count        int     `json:"count"`
		MeanMaxTempC float64 `json:"meanMaxTempC"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 33.0, summary.MeanMaxTempC, 1e-9)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/export?format=json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var exported struct {
		Format string `json:"format"`
		Path   string `json:"path"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exported))
	assert.Equal(t, "json", exported.Format)
	assert.NotEmpty(t, exported.Path)
}

// waitForIdle polls the status endpoint until the background run finishes.
func waitForIdle(t *testing.T, app *fiber.App) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp := doRequest(t, app, http.MethodGet, "/api/v1/fetch/status")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status struct {
			Running bool `json:"running"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		if !status.Running {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("fetch run did not finish in time")
}
