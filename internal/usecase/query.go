package usecase

import (
	"math"
	"sort"

	"github.com/shashe9/teaminfinity/internal/domain/models"
	"github.com/shashe9/teaminfinity/pkg/util"
)

// Filter returns the subset of samples matching the criteria, preserving
// source row order. The criteria predicates are a pure conjunction, so the
// result is independent of predicate order.
func Filter(samples []models.OrbitSample, c models.FilterCriteria) []models.OrbitSample {
	out := make([]models.OrbitSample, 0, len(samples))
	for _, s := range samples {
		if c.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Downsample keeps one sample per (satellite, bucket) pair, where a bucket is
// the timestamp truncated to the given resolution against a fixed epoch. The
// representative is the earliest sample in the bucket (equal timestamps fall
// back to source order), and its timestamp is replaced by the bucket
// boundary. Output is sorted by (satellite, bucket). ResolutionAll returns
// the input unchanged.
func Downsample(samples []models.OrbitSample, res models.Resolution) []models.OrbitSample {
	width, ok := res.BucketWidth()
	if !ok {
		return samples
	}

	type bucketKey struct {
		satellite string
		bucket    int64
	}

	best := make(map[bucketKey]models.OrbitSample)
	for _, s := range samples {
		boundary := s.Time.Truncate(width)
		k := bucketKey{satellite: s.Satellite, bucket: boundary.UnixNano()}
		if cur, exists := best[k]; !exists || s.Time.Before(cur.Time) {
			best[k] = s
		}
	}

	out := make([]models.OrbitSample, 0, len(best))
	for _, s := range best {
		s.Time = s.Time.Truncate(width)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Satellite != out[j].Satellite {
			return out[i].Satellite < out[j].Satellite
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// Summarize computes the overview metrics for a filtered view. MeanAltM is
// nil for an empty view.
func Summarize(samples []models.OrbitSample, c models.FilterCriteria) models.Summary {
	summary := models.Summary{
		Samples:   len(samples),
		StartDate: util.FormatDate(c.StartDate),
		EndDate:   util.FormatDate(c.EndDate),
	}

	if len(samples) == 0 {
		return summary
	}

	seen := make(map[string]struct{})
	var altSum float64
	for _, s := range samples {
		seen[s.Satellite] = struct{}{}
		altSum += s.AltM
	}

	mean := altSum / float64(len(samples))
	summary.Satellites = len(seen)
	summary.MeanAltM = &mean
	return summary
}

// Extent computes the dataset bounds used to seed the dashboard controls:
// date range, altitude slider bounds (floored/ceiled to whole meters,
// stepping by 1000), and the sorted distinct satellite names.
func Extent(samples []models.OrbitSample) models.DatasetExtent {
	extent := models.DatasetExtent{
		AltStepM:   1000,
		Satellites: []string{},
		Samples:    len(samples),
	}
	if len(samples) == 0 {
		return extent
	}

	minT, maxT := samples[0].Time, samples[0].Time
	minAlt, maxAlt := samples[0].AltM, samples[0].AltM
	seen := make(map[string]struct{})
	for _, s := range samples {
		if s.Time.Before(minT) {
			minT = s.Time
		}
		if s.Time.After(maxT) {
			maxT = s.Time
		}
		if s.AltM < minAlt {
			minAlt = s.AltM
		}
		if s.AltM > maxAlt {
			maxAlt = s.AltM
		}
		seen[s.Satellite] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	extent.MinDate = util.FormatDate(minT)
	extent.MaxDate = util.FormatDate(maxT)
	extent.AltFloorM = int(math.Floor(minAlt))
	extent.AltCeilM = int(math.Ceil(maxAlt))
	extent.Satellites = names
	return extent
}

// Track returns every sample of one satellite from the base table, sorted
// ascending by timestamp. It deliberately ignores date and altitude filters:
// the single-satellite view shows the complete trajectory.
func Track(samples []models.OrbitSample, name string) []models.OrbitSample {
	out := make([]models.OrbitSample, 0)
	for _, s := range samples {
		if s.Satellite == name {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}
