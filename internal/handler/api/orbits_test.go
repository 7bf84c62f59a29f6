package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shashe9/teaminfinity/internal/repository"
	"github.com/shashe9/teaminfinity/internal/usecase"
	"github.com/shashe9/teaminfinity/pkg/cache"
	"github.com/shashe9/teaminfinity/pkg/logger"
)

const fixtureCSV = `Satellite Name,Time (UTC),Latitude,Longitude,Altitude (m)
STARLINK-1008,2025-03-02T00:00:00Z,10.5,-120.25,550123.4
STARLINK-1008,2025-03-02T00:03:00Z,11.0,-119.5,550150.0
STARLINK-1008,2025-03-02T00:07:00Z,11.5,-118.75,550180.0
STARLINK-1010,2025-03-03T12:00:00Z,-45.0,30.0,548000.0
`

type noopMetrics struct{}

func (noopMetrics) RecordQuery(string) {}

func (noopMetrics) RecordQueryDuration(string, float64) {}

func (noopMetrics) RecordLoad(int, int) {}

func (noopMetrics) RecordCacheHit() {}

func (noopMetrics) RecordCacheMiss() {}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orbits.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	c := cache.NewMemoryCache()
	t.Cleanup(func() { c.Close() })

	dataset := usecase.NewDataset(repository.NewCSVStore(path), c, noopMetrics{}, log, time.Minute)
	h := NewOrbitsHandler(dataset, log)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Status int                    `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return body.Data
}

func TestExtentEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/extent")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if data["min_date"] != "2025-03-02" || data["max_date"] != "2025-03-03" {
		t.Errorf("extent dates = %v / %v", data["min_date"], data["max_date"])
	}
	if data["samples"] != float64(4) {
		t.Errorf("samples = %v, want 4", data["samples"])
	}
}

func TestSatellitesEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/satellites")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data := decodeData(t, rec)
	rows, ok := data["rows"].([]interface{})
	if !ok || len(rows) != 2 {
		t.Fatalf("rows = %v", data["rows"])
	}
	if rows[0] != "STARLINK-1008" || rows[1] != "STARLINK-1010" {
		t.Errorf("satellites not sorted: %v", rows)
	}
}

func TestSamplesEndpointDownsamples(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/samples?sat=STARLINK-1008&resolution=5m")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if data["total"] != float64(2) {
		t.Errorf("total = %v, want 2 buckets from 3 samples", data["total"])
	}
}

func TestSamplesEndpointRejectsBadResolution(t *testing.T) {
	e := newTestServer(t)
	if rec := doGet(e, "/api/samples?resolution=2h"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSamplesEndpointRejectsInvertedDates(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/samples?start_date=2025-03-03&end_date=2025-03-02")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/summary?sat=STARLINK-1010")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data := decodeData(t, rec)
	if data["samples"] != float64(1) || data["satellites"] != float64(1) {
		t.Errorf("summary counts = %v / %v", data["samples"], data["satellites"])
	}
	if data["mean_alt_m"] != float64(548000) {
		t.Errorf("mean_alt_m = %v", data["mean_alt_m"])
	}
}

func TestSummaryEndpointEmptyView(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/summary?alt_min=900000&alt_max=950000")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data := decodeData(t, rec)
	if data["samples"] != float64(0) {
		t.Errorf("samples = %v, want 0", data["samples"])
	}
	if data["mean_alt_m"] != nil {
		t.Errorf("mean_alt_m = %v, want null", data["mean_alt_m"])
	}
}

func TestTrackEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/track/STARLINK-1008")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["total"] != float64(3) {
		t.Errorf("total = %v, want the full trajectory", data["total"])
	}
}

func TestTrackEndpointUnknown(t *testing.T) {
	e := newTestServer(t)
	if rec := doGet(e, "/api/track/NOPE"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	e := newTestServer(t)
	rec := doGet(e, "/api/export?sat=STARLINK-1010")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "filtered_orbit_data.csv") {
		t.Errorf("content disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row:\n%s", len(lines), rec.Body.String())
	}
	if lines[0] != "Satellite Name,Time (UTC),Latitude,Longitude,Altitude (m)" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "STARLINK-1010,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)
	if rec := doGet(e, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
