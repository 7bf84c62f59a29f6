package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashe9/teaminfinity/internal/domain/models"
	"github.com/shashe9/teaminfinity/internal/domain/repository"
	"github.com/shashe9/teaminfinity/pkg/cache"
	"github.com/shashe9/teaminfinity/pkg/logger"
	"github.com/shashe9/teaminfinity/pkg/util"
)

// ErrUnknownSatellite is returned by TrackFor when the requested name does
// not exist in the base table.
var ErrUnknownSatellite = errors.New("unknown satellite")

// ErrInvalidCriteria marks request errors so handlers can render a 400
// instead of a 500.
var ErrInvalidCriteria = errors.New("invalid criteria")

// snapshot is one immutable view of the base table, keyed by the store
// fingerprint. Callers must not mutate samples.
type snapshot struct {
	fingerprint string
	samples     []models.OrbitSample
	extent      models.DatasetExtent
}

// Dataset serves all pipeline queries from an in-memory copy of the Orbit
// Sample Store. The copy is reloaded when the store fingerprint changes,
// so edits to the underlying file or table take effect without a restart.
type Dataset struct {
	store   repository.SampleStore
	cache   cache.Service
	metrics repository.Metrics
	log     *logger.Logger
	ttl     time.Duration

	mu   sync.RWMutex
	snap *snapshot
}

// NewDataset creates the query service over the given store. Call Warm
// before serving to fail fast on an unreadable store.
func NewDataset(store repository.SampleStore, cacheSvc cache.Service, m repository.Metrics, log *logger.Logger, ttl time.Duration) *Dataset {
	return &Dataset{
		store:   store,
		cache:   cacheSvc,
		metrics: m,
		log:     log,
		ttl:     ttl,
	}
}

// Warm loads the base table once so startup fails on a broken store instead
// of the first request.
func (d *Dataset) Warm(ctx context.Context) error {
	_, err := d.base(ctx)
	return err
}

// base returns the current snapshot, reloading from the store when its
// fingerprint has moved.
func (d *Dataset) base(ctx context.Context) (*snapshot, error) {
	fp, err := d.store.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	snap := d.snap
	d.mu.RUnlock()
	if snap != nil && snap.fingerprint == fp {
		return snap, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snap != nil && d.snap.fingerprint == fp {
		return d.snap, nil
	}

	start := time.Now()
	result, err := d.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	d.snap = &snapshot{
		fingerprint: fp,
		samples:     result.Samples,
		extent:      Extent(result.Samples),
	}
	d.metrics.RecordLoad(len(result.Samples), result.Dropped)
	d.log.Info("orbit store loaded",
		logger.Int("samples", len(result.Samples)),
		logger.Int("dropped", result.Dropped),
		logger.Int("satellites", len(d.snap.extent.Satellites)),
		logger.Duration("took", time.Since(start)),
	)
	return d.snap, nil
}

// Extent returns the dataset bounds for seeding the dashboard controls.
func (d *Dataset) Extent(ctx context.Context) (models.DatasetExtent, error) {
	defer d.observe("extent", time.Now())
	snap, err := d.base(ctx)
	if err != nil {
		return models.DatasetExtent{}, err
	}
	return snap.extent, nil
}

// SatelliteNames returns the sorted distinct satellite names in the dataset.
func (d *Dataset) SatelliteNames(ctx context.Context) ([]string, error) {
	defer d.observe("satellites", time.Now())
	snap, err := d.base(ctx)
	if err != nil {
		return nil, err
	}
	return snap.extent.Satellites, nil
}

// Criteria resolves a request into complete filter criteria, substituting
// the dataset extent for any omitted bound, and validates the result.
func (d *Dataset) Criteria(ctx context.Context, req *models.QueryRequest) (models.FilterCriteria, error) {
	snap, err := d.base(ctx)
	if err != nil {
		return models.FilterCriteria{}, err
	}
	c, err := buildCriteria(req, snap.extent)
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	return c, nil
}

func buildCriteria(req *models.QueryRequest, extent models.DatasetExtent) (models.FilterCriteria, error) {
	c := models.FilterCriteria{
		AltMinM:    float64(extent.AltFloorM),
		AltMaxM:    float64(extent.AltCeilM),
		Satellites: req.Satellites,
		Resolution: models.ResolutionAll,
	}

	c.StartDate, _ = util.ParseDate(extent.MinDate)
	c.EndDate, _ = util.ParseDate(extent.MaxDate)

	if req.StartDate != "" {
		t, ok := util.ParseDate(req.StartDate)
		if !ok {
			return models.FilterCriteria{}, fmt.Errorf("invalid start_date %q", req.StartDate)
		}
		c.StartDate = t
	}
	if req.EndDate != "" {
		t, ok := util.ParseDate(req.EndDate)
		if !ok {
			return models.FilterCriteria{}, fmt.Errorf("invalid end_date %q", req.EndDate)
		}
		c.EndDate = t
	}
	if req.AltMin != nil {
		c.AltMinM = *req.AltMin
	}
	if req.AltMax != nil {
		c.AltMaxM = *req.AltMax
	}
	if req.Resolution != "" {
		res, ok := models.ParseResolution(req.Resolution)
		if !ok {
			return models.FilterCriteria{}, fmt.Errorf("unknown resolution %q", req.Resolution)
		}
		c.Resolution = res
	}

	if err := c.Validate(); err != nil {
		return models.FilterCriteria{}, err
	}
	return c, nil
}

// Samples runs the full pipeline for one request: filter, then downsample.
func (d *Dataset) Samples(ctx context.Context, c models.FilterCriteria) ([]models.OrbitSample, error) {
	defer d.observe("samples", time.Now())
	snap, err := d.base(ctx)
	if err != nil {
		return nil, err
	}
	return Downsample(Filter(snap.samples, c), c.Resolution), nil
}

// Summary computes the overview metrics for one filtered view. Results are
// cached per (store fingerprint, criteria), so a changed store never serves
// a stale summary.
func (d *Dataset) Summary(ctx context.Context, c models.FilterCriteria) (models.Summary, error) {
	defer d.observe("summary", time.Now())
	snap, err := d.base(ctx)
	if err != nil {
		return models.Summary{}, err
	}

	key := fmt.Sprintf("summary:%s:%s", snap.fingerprint, c.Key())
	var cached models.Summary
	if err := d.cache.Get(ctx, key, &cached); err == nil {
		d.metrics.RecordCacheHit()
		return cached, nil
	}
	d.metrics.RecordCacheMiss()

	summary := Summarize(Downsample(Filter(snap.samples, c), c.Resolution), c)
	if err := d.cache.Set(ctx, key, summary, d.ttl); err != nil {
		d.log.Warn("summary cache set failed", logger.Error(err))
	}
	return summary, nil
}

// TrackFor returns one satellite's full trajectory, ignoring date and
// altitude filters. Unknown names map to ErrUnknownSatellite.
func (d *Dataset) TrackFor(ctx context.Context, name string) ([]models.OrbitSample, error) {
	defer d.observe("track", time.Now())
	snap, err := d.base(ctx)
	if err != nil {
		return nil, err
	}
	track := Track(snap.samples, name)
	if len(track) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSatellite, name)
	}
	return track, nil
}

// Health reports whether the underlying store is reachable.
func (d *Dataset) Health(ctx context.Context) error {
	return d.store.Health(ctx)
}

// Close releases the store and cache.
func (d *Dataset) Close() error {
	err := d.store.Close()
	if cerr := d.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

func (d *Dataset) observe(op string, start time.Time) {
	d.metrics.RecordQuery(op)
	d.metrics.RecordQueryDuration(op, time.Since(start).Seconds())
}
