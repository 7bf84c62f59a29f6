package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validCSV = `Satellite Name,Time (UTC),Latitude,Longitude,Altitude (m)
STARLINK-1008,2025-03-02T00:00:00Z,10.5,-120.25,550123.4
STARLINK-1008,2025-03-02T00:10:00Z,11.2,-118.9,550200.0
STARLINK-1010,2025-03-02T00:00:00Z,-45.0,30.0,548000.0
`

func TestReadSamplesValid(t *testing.T) {
	result, err := ReadSamples(strings.NewReader(validCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Samples) != 3 || result.Dropped != 0 {
		t.Fatalf("got %d samples, %d dropped; want 3 and 0", len(result.Samples), result.Dropped)
	}

	first := result.Samples[0]
	if first.Satellite != "STARLINK-1008" {
		t.Errorf("satellite = %q", first.Satellite)
	}
	want := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	if !first.Time.Equal(want) {
		t.Errorf("time = %v, want %v", first.Time, want)
	}
	if first.LatDeg != 10.5 || first.LonDeg != -120.25 || first.AltM != 550123.4 {
		t.Errorf("coordinates = (%v, %v, %v)", first.LatDeg, first.LonDeg, first.AltM)
	}
}

func TestReadSamplesDropsInvalidRows(t *testing.T) {
	input := `Satellite Name,Time (UTC),Latitude,Longitude,Altitude (m)
STARLINK-1008,2025-03-02T00:00:00Z,10.5,-120.25,550123.4
,2025-03-02T00:10:00Z,11.2,-118.9,550200.0
STARLINK-1008,not-a-time,11.2,-118.9,550200.0
STARLINK-1008,2025-03-02T00:20:00Z,abc,-118.9,550200.0
STARLINK-1008,2025-03-02T00:30:00Z,11.2,-118.9,NaN
STARLINK-1008,2025-03-02T00:40:00Z,11.2
STARLINK-1010,2025-03-02T00:50:00Z,1.0,2.0,3.0
`
	result, err := ReadSamples(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Samples) != 2 {
		t.Errorf("got %d valid samples, want 2", len(result.Samples))
	}
	if result.Dropped != 5 {
		t.Errorf("dropped = %d, want 5", result.Dropped)
	}
}

func TestReadSamplesUnixTimestamps(t *testing.T) {
	input := "Satellite Name,Time (UTC),Latitude,Longitude,Altitude (m)\n" +
		"STARLINK-1008,1740873600,10.5,-120.25,550123.4\n"
	result, err := ReadSamples(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(result.Samples))
	}
	if got := result.Samples[0].Time; !got.Equal(time.Unix(1740873600, 0)) {
		t.Errorf("time = %v", got)
	}
}

func TestReadSamplesMissingColumn(t *testing.T) {
	input := "Satellite Name,Time (UTC),Latitude,Longitude\nA,2025-03-02T00:00:00Z,1,2\n"
	if _, err := ReadSamples(strings.NewReader(input)); err == nil {
		t.Fatal("missing altitude column accepted")
	}
}

func TestReadSamplesReorderedColumns(t *testing.T) {
	input := "Altitude (m),Satellite Name,Latitude,Longitude,Time (UTC)\n" +
		"550123.4,STARLINK-1008,10.5,-120.25,2025-03-02T00:00:00Z\n"
	result, err := ReadSamples(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(result.Samples) != 1 || result.Samples[0].AltM != 550123.4 {
		t.Fatalf("columns not located by name: %+v", result.Samples)
	}
}

func TestWriteSamplesRoundTrip(t *testing.T) {
	result, err := ReadSamples(strings.NewReader(validCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteSamples(&buf, result.Samples); err != nil {
		t.Fatalf("write: %v", err)
	}

	again, err := ReadSamples(&buf)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if len(again.Samples) != len(result.Samples) || again.Dropped != 0 {
		t.Fatalf("round trip changed row count: %d -> %d", len(result.Samples), len(again.Samples))
	}
	for i := range again.Samples {
		if again.Samples[i] != result.Samples[i] {
			t.Errorf("row %d differs after round trip: %v vs %v", i, result.Samples[i], again.Samples[i])
		}
	}
}

func TestCSVStoreLoadAndFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbits.csv")
	if err := os.WriteFile(path, []byte(validCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewCSVStore(path)
	result, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(result.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(result.Samples))
	}

	fp1, err := store.Fingerprint(context.Background())
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}

	// Rewrite with different content and a guaranteed mtime change.
	if err := os.WriteFile(path, []byte(validCSV+validCSV[strings.Index(validCSV, "\n")+1:]), 0o644); err != nil {
		t.Fatal(err)
	}
	now := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, now, now); err != nil {
		t.Fatal(err)
	}

	fp2, err := store.Fingerprint(context.Background())
	if err != nil {
		t.Fatalf("fingerprint after rewrite: %v", err)
	}
	if fp1 == fp2 {
		t.Error("fingerprint did not change after rewrite")
	}
}

func TestCSVStoreMissingFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("missing file accepted")
	}
	if err := store.Health(context.Background()); err == nil {
		t.Fatal("health on missing file succeeded")
	}
}
