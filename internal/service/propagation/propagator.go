package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/shashe9/teaminfinity/internal/domain/models"
)

// The go-satellite Propagate call takes the Satellite by value, so SGP4
// error codes set during propagation are not visible to the caller. Failures
// are detected instead by checking the output for NaN/Inf and for an
// implausible position magnitude. The library also calls log.Fatal on
// malformed element lines, so lines are validated here first.

// Propagator computes ground-track samples for a single satellite from its
// element set using the SGP4 model with WGS84 constants.
type Propagator struct {
	sat  satellite.Satellite
	name string
}

// NewPropagator initializes the SGP4 model for one element set.
func NewPropagator(t TLE) (*Propagator, error) {
	if err := validateLines(t.Line1, t.Line2); err != nil {
		return nil, fmt.Errorf("invalid element set for %s: %w", t.Name, err)
	}

	sat := satellite.TLEToSat(t.Line1, t.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for %s: code=%d %s", t.Name, sat.Error, sat.ErrorStr)
	}
	return &Propagator{sat: sat, name: t.Name}, nil
}

func validateLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line 1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line 2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line 1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line 2 must start with '2', got %q", line2[0])
	}
	return nil
}

// SampleAt computes the geodetic subpoint and altitude at time t.
func (p *Propagator) SampleAt(t time.Time) (models.OrbitSample, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return models.OrbitSample{}, fmt.Errorf("propagation failed for %s at %s: output is NaN/Inf", p.name, t.Format(time.RFC3339))
	}

	// Magnitude should stay between LEO floor and well past GEO.
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return models.OrbitSample{}, fmt.Errorf("propagation failed for %s at %s: position magnitude %.1f km", p.name, t.Format(time.RFC3339), mag)
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	altKm, _, llRad := satellite.ECIToLLA(pos, gmst)
	ll := satellite.LatLongDeg(llRad)

	return models.OrbitSample{
		Satellite: p.name,
		Time:      t,
		LatDeg:    ll.Latitude,
		LonDeg:    ll.Longitude,
		AltM:      altKm * 1000.0,
	}, nil
}

// Series samples the ground track on a fixed step over [start, start+duration).
// Failed steps are skipped and counted.
func (p *Propagator) Series(start time.Time, duration, step time.Duration) ([]models.OrbitSample, int) {
	if step <= 0 || duration <= 0 {
		return nil, 0
	}

	var samples []models.OrbitSample
	failed := 0
	for offset := time.Duration(0); offset < duration; offset += step {
		sample, err := p.SampleAt(start.Add(offset))
		if err != nil {
			failed++
			continue
		}
		samples = append(samples, sample)
	}
	return samples, failed
}
