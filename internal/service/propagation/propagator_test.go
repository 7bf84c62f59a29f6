package propagation

import (
	"strings"
	"testing"
	"time"
)

func starlinkTLE(t *testing.T) TLE {
	t.Helper()
	entries, err := ParseTLE(strings.NewReader(starlink1010), testLogger(t))
	if err != nil || len(entries) != 1 {
		t.Fatalf("parse fixture: %v", err)
	}
	return entries[0]
}

func TestNewPropagatorRejectsBadLines(t *testing.T) {
	tle := starlinkTLE(t)
	tle.Line1 = "1 44714U"
	if _, err := NewPropagator(tle); err == nil {
		t.Fatal("short line 1 accepted")
	}

	tle = starlinkTLE(t)
	tle.Line2 = strings.Replace(tle.Line2, "2 ", "3 ", 1)
	if _, err := NewPropagator(tle); err == nil {
		t.Fatal("wrong line 2 prefix accepted")
	}
}

func TestSampleAtNearEpoch(t *testing.T) {
	p, err := NewPropagator(starlinkTLE(t))
	if err != nil {
		t.Fatalf("propagator: %v", err)
	}

	// Day 195 of 2025 is July 14; sample close to the element epoch.
	at := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	sample, err := p.SampleAt(at)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	if sample.Satellite != "STARLINK-1010" {
		t.Errorf("satellite = %q", sample.Satellite)
	}
	if !sample.Time.Equal(at) {
		t.Errorf("time = %v, want %v", sample.Time, at)
	}
	if sample.LatDeg < -90 || sample.LatDeg > 90 {
		t.Errorf("latitude out of range: %v", sample.LatDeg)
	}
	if sample.LonDeg < -180 || sample.LonDeg > 180 {
		t.Errorf("longitude out of range: %v", sample.LonDeg)
	}
	// Starlink shells sit around 550 km.
	if sample.AltM < 300000 || sample.AltM > 700000 {
		t.Errorf("altitude = %v m, want a low-orbit value", sample.AltM)
	}

	// The inclination bounds the reachable latitude.
	if sample.LatDeg < -54 || sample.LatDeg > 54 {
		t.Errorf("latitude %v exceeds the 53.05 degree inclination", sample.LatDeg)
	}
}

func TestSeriesStepAndWindow(t *testing.T) {
	p, err := NewPropagator(starlinkTLE(t))
	if err != nil {
		t.Fatalf("propagator: %v", err)
	}

	start := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	samples, failed := p.Series(start, 24*time.Hour, 10*time.Minute)
	if failed != 0 {
		t.Fatalf("%d steps failed", failed)
	}
	if len(samples) != 144 {
		t.Fatalf("got %d samples for 24h at 10m, want 144", len(samples))
	}

	for i, s := range samples {
		want := start.Add(time.Duration(i) * 10 * time.Minute)
		if !s.Time.Equal(want) {
			t.Fatalf("sample %d at %v, want %v", i, s.Time, want)
		}
	}

	// Over a full day a 53 degree inclination covers both hemispheres.
	var sawNorth, sawSouth bool
	for _, s := range samples {
		if s.LatDeg > 20 {
			sawNorth = true
		}
		if s.LatDeg < -20 {
			sawSouth = true
		}
	}
	if !sawNorth || !sawSouth {
		t.Error("ground track did not cover both hemispheres over 24h")
	}
}

func TestSeriesRejectsBadStep(t *testing.T) {
	p, err := NewPropagator(starlinkTLE(t))
	if err != nil {
		t.Fatalf("propagator: %v", err)
	}
	if samples, _ := p.Series(time.Now(), time.Hour, 0); samples != nil {
		t.Error("zero step produced samples")
	}
	if samples, _ := p.Series(time.Now(), 0, time.Minute); samples != nil {
		t.Error("zero duration produced samples")
	}
}
