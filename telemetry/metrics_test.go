package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestInstrument(t *testing.T) {
	e := echo.New()
	e.Use(Instrument())
	e.GET("/v1/services/:service_name/instances", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/v1/broken", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/services/orders/instances", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/broken", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := scrape(t)
	assert.Contains(t, body, `myregistry_http_requests_total{route="/v1/services/:service_name/instances",status="2xx"}`)
	assert.Contains(t, body, `myregistry_http_requests_total{route="/v1/broken",status="4xx"}`)
	assert.NotContains(t, body, "orders")
}

func TestMetricsHandler(t *testing.T) {
	Evictions.Add(0)
	body := scrape(t)
	assert.Contains(t, body, "myregistry_evictions_total")
	assert.Contains(t, body, "myregistry_uptime_seconds")
}
