package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shashe9/teaminfinity/pkg/util"
)

// OrbitSample is one observation of one satellite at one instant: the geodetic
// subpoint plus altitude above the reference ellipsoid.
type OrbitSample struct {
	Satellite string    `json:"satellite"`
	Time      time.Time `json:"time"`
	LatDeg    float64   `json:"lat_deg"`
	LonDeg    float64   `json:"lon_deg"`
	AltM      float64   `json:"alt_m"`
}

// Resolution selects the downsampling bucket width.
type Resolution string

const (
	ResolutionAll   Resolution = "all"
	Resolution5Min  Resolution = "5m"
	Resolution10Min Resolution = "10m"
	Resolution30Min Resolution = "30m"
)

// ParseResolution returns the resolution for s, or false if unknown.
func ParseResolution(s string) (Resolution, bool) {
	switch Resolution(s) {
	case ResolutionAll, Resolution5Min, Resolution10Min, Resolution30Min:
		return Resolution(s), true
	}
	return "", false
}

// BucketWidth returns the bucket width, or false for ResolutionAll.
func (r Resolution) BucketWidth() (time.Duration, bool) {
	switch r {
	case Resolution5Min:
		return 5 * time.Minute, true
	case Resolution10Min:
		return 10 * time.Minute, true
	case Resolution30Min:
		return 30 * time.Minute, true
	}
	return 0, false
}

// FilterCriteria is a request-scoped filter configuration, passed by value
// through the pipeline. An empty Satellites slice selects all satellites.
type FilterCriteria struct {
	StartDate  time.Time // midnight UTC, inclusive
	EndDate    time.Time // midnight UTC, inclusive (whole day)
	AltMinM    float64
	AltMaxM    float64
	Satellites []string
	Resolution Resolution
}

// Validate enforces the criteria invariants.
func (c FilterCriteria) Validate() error {
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("start_date %s is after end_date %s",
			util.FormatDate(c.StartDate), util.FormatDate(c.EndDate))
	}
	if c.AltMaxM < c.AltMinM {
		return fmt.Errorf("alt_min %.0f is greater than alt_max %.0f", c.AltMinM, c.AltMaxM)
	}
	if _, ok := ParseResolution(string(c.Resolution)); !ok {
		return fmt.Errorf("unknown resolution %q", c.Resolution)
	}
	return nil
}

// Matches reports whether s satisfies all three predicates: date range,
// altitude band, and satellite subset. The conjunction is commutative, so
// evaluation order never changes the result.
func (c FilterCriteria) Matches(s OrbitSample) bool {
	day := util.DateOf(s.Time)
	if day.Before(c.StartDate) || day.After(c.EndDate) {
		return false
	}
	if s.AltM < c.AltMinM || s.AltM > c.AltMaxM {
		return false
	}
	if len(c.Satellites) > 0 {
		found := false
		for _, name := range c.Satellites {
			if name == s.Satellite {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Key renders a stable cache-key fragment for the criteria.
func (c FilterCriteria) Key() string {
	return fmt.Sprintf("%s:%s:%.0f:%.0f:%s:%s",
		util.FormatDate(c.StartDate),
		util.FormatDate(c.EndDate),
		c.AltMinM,
		c.AltMaxM,
		strings.Join(c.Satellites, ","),
		c.Resolution,
	)
}

// DatasetExtent describes the bounds of the loaded dataset, used to seed the
// dashboard controls.
type DatasetExtent struct {
	MinDate    string   `json:"min_date"`
	MaxDate    string   `json:"max_date"`
	AltFloorM  int      `json:"alt_floor_m"`
	AltCeilM   int      `json:"alt_ceil_m"`
	AltStepM   int      `json:"alt_step_m"`
	Satellites []string `json:"satellites"`
	Samples    int      `json:"samples"`
}

// Summary holds the overview metrics for one filtered view. MeanAltM is nil
// when the view is empty; consumers render it as "no data".
type Summary struct {
	Satellites int      `json:"satellites"`
	Samples    int      `json:"samples"`
	MeanAltM   *float64 `json:"mean_alt_m"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
}
