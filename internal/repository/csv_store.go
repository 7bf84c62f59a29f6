package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/shashe9/teaminfinity/internal/domain/models"
	"github.com/shashe9/teaminfinity/internal/domain/repository"
	"github.com/shashe9/teaminfinity/pkg/util"
)

// Column order of the Orbit Sample Store file.
var csvHeader = []string{"Satellite Name", "Time (UTC)", "Latitude", "Longitude", "Altitude (m)"}

// ExportFilename is the artifact name offered for a filtered-view download.
const ExportFilename = "filtered_orbit_data.csv"

// CSVStore reads the Orbit Sample Store from a delimited text file.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store over the given file path. The file is not
// touched until Load.
func NewCSVStore(path string) repository.SampleStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Load(_ context.Context) (*repository.LoadResult, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open orbit store %s: %w", s.path, err)
	}
	defer f.Close()

	result, err := ReadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("read orbit store %s: %w", s.path, err)
	}
	return result, nil
}

// Fingerprint is path+mtime+size, so a rewritten file invalidates the
// session cache.
func (s *CSVStore) Fingerprint(_ context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("stat orbit store %s: %w", s.path, err)
	}
	return fmt.Sprintf("%s:%d:%d", s.path, info.ModTime().UnixNano(), info.Size()), nil
}

func (s *CSVStore) Health(_ context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

func (s *CSVStore) Close() error {
	return nil
}

// ReadSamples parses the five-column sample format from r. Rows with a
// missing or unparseable required field are dropped and counted, never
// repaired. A missing or malformed header is an error.
func ReadSamples(r io.Reader) (*repository.LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	cols := make([]int, len(csvHeader))
	for i, name := range csvHeader {
		pos, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[i] = pos
	}

	result := &repository.LoadResult{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		sample, ok := parseRow(record, cols)
		if !ok {
			result.Dropped++
			continue
		}
		result.Samples = append(result.Samples, sample)
	}

	return result, nil
}

func parseRow(record []string, cols []int) (models.OrbitSample, bool) {
	for _, pos := range cols {
		if pos >= len(record) {
			return models.OrbitSample{}, false
		}
	}

	name := record[cols[0]]
	if name == "" {
		return models.OrbitSample{}, false
	}

	ts, ok := util.ParseTime(record[cols[1]])
	if !ok {
		return models.OrbitSample{}, false
	}

	lat, ok := parseFinite(record[cols[2]])
	if !ok {
		return models.OrbitSample{}, false
	}
	lon, ok := parseFinite(record[cols[3]])
	if !ok {
		return models.OrbitSample{}, false
	}
	alt, ok := parseFinite(record[cols[4]])
	if !ok {
		return models.OrbitSample{}, false
	}

	return models.OrbitSample{
		Satellite: name,
		Time:      ts.UTC(),
		LatDeg:    lat,
		LonDeg:    lon,
		AltM:      alt,
	}, true
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// WriteSamples writes samples in the five-column store format. The output
// reloads through ReadSamples to the same values.
func WriteSamples(w io.Writer, samples []models.OrbitSample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range samples {
		record := []string{
			s.Satellite,
			s.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(s.LatDeg, 'f', -1, 64),
			strconv.FormatFloat(s.LonDeg, 'f', -1, 64),
			strconv.FormatFloat(s.AltM, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
