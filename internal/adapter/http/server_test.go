package http_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/volcano-atlas/internal/adapter/filestore"
	httpadapter "github.com/couchcryptid/volcano-atlas/internal/adapter/http"
	"github.com/couchcryptid/volcano-atlas/internal/domain"
	"github.com/couchcryptid/volcano-atlas/internal/observability"
	"github.com/couchcryptid/volcano-atlas/internal/pipeline"
	"github.com/couchcryptid/volcano-atlas/internal/render"
)

type stubProvider struct {
	snap *pipeline.Snapshot
}

func (s *stubProvider) CheckReadiness(_ context.Context) error {
	if s.snap == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

func (s *stubProvider) Snapshot() *pipeline.Snapshot { return s.snap }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadMockSnapshot(t *testing.T) *pipeline.Snapshot {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(filestore.NewLoader(2, discardLogger(), metrics), nil, discardLogger(), metrics, pipeline.Options{
		VolcanoPath:  filepath.Join("..", "..", "..", "data", "mock", "volcanoes.csv"),
		GeometryPath: filepath.Join("..", "..", "..", "data", "mock", "countries.geojson"),
	})
	require.NoError(t, p.Run(context.Background()))
	return p.Snapshot()
}

func newTestServer(t *testing.T, snap *pipeline.Snapshot, opts httpadapter.Options) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	return httpadapter.NewServer(opts, &stubProvider{snap: snap}, metrics, discardLogger()), metrics
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, nil, httpadapter.Options{})
	assert.Equal(t, http.StatusOK, get(srv, "/healthz").Code)
}

func TestReadyz(t *testing.T) {
	notReady, _ := newTestServer(t, nil, httpadapter.Options{})
	assert.Equal(t, http.StatusServiceUnavailable, get(notReady, "/readyz").Code)

	ready, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})
	assert.Equal(t, http.StatusOK, get(ready, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, httpadapter.Options{})
	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPI_NotReadyReturns503(t *testing.T) {
	srv, _ := newTestServer(t, nil, httpadapter.Options{})

	for _, path := range []string{"/api/v1/options", "/api/v1/map", "/api/v1/geometry", "/api/v1/countries", "/api/v1/tables", "/api/v1/tables.xlsx"} {
		rec := get(srv, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "dataset not loaded", decode[map[string]string](t, rec)["error"], path)
	}
}

func TestAPI_Options(t *testing.T) {
	srv, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})
	rec := get(srv, "/api/v1/options")
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decode[domain.SelectionOptions](t, rec)
	assert.Equal(t, []string{domain.StatusAll, "Historical", "Holocene"}, opts.Statuses)
	assert.Equal(t, domain.ThresholdMode, opts.ColorSchemes[0])
	assert.Len(t, opts.Thresholds, 1000)
	assert.Equal(t, []domain.Metric{domain.MetricCount, domain.MetricRate}, opts.Metrics)
}

func TestAPI_MapDefaults(t *testing.T) {
	srv, metrics := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})
	rec := get(srv, "/api/v1/map")
	require.Equal(t, http.StatusOK, rec.Code)

	fig := decode[render.Figure](t, rec)
	assert.Equal(t, render.KindChoropleth, fig.Kind)
	assert.Equal(t, render.ModeThreshold, fig.Mode)
	assert.Equal(t, []string{"CHL", "FRA", "ISL", "JPN", "USA"}, fig.Locations)
	assert.Len(t, fig.Categories, 5)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RenderRequests.WithLabelValues(render.ModeThreshold)))
}

func TestAPI_MapContinuousAndPoints(t *testing.T) {
	srv, metrics := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})

	rec := get(srv, "/api/v1/map?status=Holocene&metric=count&scheme=viridis")
	require.Equal(t, http.StatusOK, rec.Code)
	fig := decode[render.Figure](t, rec)
	assert.Equal(t, "viridis", fig.ColorScale)
	assert.Equal(t, "Holocene", fig.Title)

	rec = get(srv, "/api/v1/map?status=Historical&points=true")
	require.Equal(t, http.StatusOK, rec.Code)
	fig = decode[render.Figure](t, rec)
	assert.Equal(t, render.KindScatter, fig.Kind)
	assert.Len(t, fig.Points, 6)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RenderRequests.WithLabelValues(render.ModeContinuous)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RenderRequests.WithLabelValues(render.ModePoints)))
}

func TestAPI_MapInvalidSelection(t *testing.T) {
	srv, metrics := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})

	queries := []string{
		"status=Extinct",
		"metric=density",
		"scheme=sepia",
		"threshold=1.5",
		"threshold=high",
		"points=maybe",
	}
	for _, q := range queries {
		rec := get(srv, "/api/v1/map?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.NotEmpty(t, decode[map[string]string](t, rec)["error"], q)
	}
	assert.Equal(t, float64(len(queries)), testutil.ToFloat64(metrics.RenderErrors))
}

func TestAPI_Geometry(t *testing.T) {
	snap := loadMockSnapshot(t)
	srv, _ := newTestServer(t, snap, httpadapter.Options{})
	rec := get(srv, "/api/v1/geometry")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, snap.Geometry.Raw, rec.Body.Bytes())
}

func TestAPI_Countries(t *testing.T) {
	srv, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})
	rec := get(srv, "/api/v1/countries")
	require.Equal(t, http.StatusOK, rec.Code)

	countries := decode[[]domain.CountryGeometry](t, rec)
	require.Len(t, countries, 5)
	assert.Equal(t, "USA", countries[1].ISO3)
	assert.Equal(t, domain.Bounds{MinLon: -168.0, MinLat: 24.5, MaxLon: -66.9, MaxLat: 71.4}, countries[1].Bounds)
}

func TestAPI_Tables(t *testing.T) {
	srv, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})
	rec := get(srv, "/api/v1/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Volcanoes []domain.VolcanoRecord    `json:"volcanoes"`
		Countries []domain.CountryAggregate `json:"countries"`
		Dropped   int                       `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Volcanoes, 9)
	assert.Len(t, body.Countries, 5)
	assert.Equal(t, 1, body.Dropped)
}

func TestAPI_TablesWorkbook(t *testing.T) {
	srv, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{})
	rec := get(srv, "/api/v1/tables.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{"Volcanoes", "Countries"}, f.GetSheetList())

	volcanoes, err := f.GetRows("Volcanoes")
	require.NoError(t, err)
	assert.Len(t, volcanoes, 10)
	assert.Equal(t, "Fujisan", volcanoes[1][1])

	countries, err := f.GetRows("Countries")
	require.NoError(t, err)
	require.Len(t, countries, 6)
	assert.Equal(t, []string{"ISO", "Country", "Total number of volcanoes", "Population", "Volcanoes per million people",
		"Historical", "Historical per million people", "Holocene", "Holocene per million people"}, countries[0])
	assert.Equal(t, "CHL", countries[1][0])
}

func TestAPI_RateLimit(t *testing.T) {
	srv, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{RateLimitRPM: 2})

	assert.Equal(t, http.StatusOK, get(srv, "/api/v1/options").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/api/v1/options").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(srv, "/api/v1/options").Code)

	// Probes are outside the limited group.
	assert.Equal(t, http.StatusOK, get(srv, "/healthz").Code)
}

func TestAPI_CORS(t *testing.T) {
	srv, _ := newTestServer(t, loadMockSnapshot(t), httpadapter.Options{CORSAllowedOrigins: []string{"https://atlas.example"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/options", nil)
	req.Header.Set("Origin", "https://atlas.example")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://atlas.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
