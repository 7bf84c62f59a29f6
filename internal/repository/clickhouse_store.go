package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashe9/teaminfinity/internal/domain/models"
	"github.com/shashe9/teaminfinity/internal/domain/repository"
	pkgch "github.com/shashe9/teaminfinity/pkg/clickhouse"
)

// ClickHouseStore loads the Orbit Sample Store from a ClickHouse table
// populated by the propagate tool. The store owns the client connection.
type ClickHouseStore struct {
	client *pkgch.Client
	table  string
}

// NewClickHouseStore creates a ClickHouse-backed sample store.
func NewClickHouseStore(client *pkgch.Client, table string) *ClickHouseStore {
	return &ClickHouseStore{client: client, table: table}
}

// SchemaStatements returns the idempotent DDL for the sample table.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (satellite String, ts DateTime64(3, 'UTC'), lat Float64, lon Float64, alt_m Float64) ENGINE=MergeTree ORDER BY (satellite, ts)", table),
	}
}

func (s *ClickHouseStore) Load(ctx context.Context) (*repository.LoadResult, error) {
	q := fmt.Sprintf("SELECT satellite, ts, lat, lon, alt_m FROM %s ORDER BY satellite, ts", s.table)
	rows, err := s.client.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query orbit samples: %w", err)
	}
	defer rows.Close()

	result := &repository.LoadResult{}
	for rows.Next() {
		var sample models.OrbitSample
		var ts time.Time
		if err := rows.Scan(&sample.Satellite, &ts, &sample.LatDeg, &sample.LonDeg, &sample.AltM); err != nil {
			return nil, fmt.Errorf("scan orbit sample: %w", err)
		}
		if sample.Satellite == "" {
			result.Dropped++
			continue
		}
		sample.Time = ts.UTC()
		result.Samples = append(result.Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read orbit samples: %w", err)
	}

	return result, nil
}

// Fingerprint is row count plus max timestamp; inserts move it.
func (s *ClickHouseStore) Fingerprint(ctx context.Context) (string, error) {
	q := fmt.Sprintf("SELECT count(), toString(max(ts)) FROM %s", s.table)
	var count int64
	var maxTS string
	if err := s.client.DB().QueryRowContext(ctx, q).Scan(&count, &maxTS); err != nil {
		return "", fmt.Errorf("fingerprint orbit samples: %w", err)
	}
	return fmt.Sprintf("%s:%d:%s", s.table, count, maxTS), nil
}

// InsertBatch writes samples in chunked multi-row inserts.
func (s *ClickHouseStore) InsertBatch(ctx context.Context, samples []models.OrbitSample) error {
	if len(samples) == 0 {
		return nil
	}

	const chunkSize = 2000
	for start := 0; start < len(samples); start += chunkSize {
		end := start + chunkSize
		if end > len(samples) {
			end = len(samples)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, sample := range samples[start:end] {
			if sample.Satellite == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args,
				sample.Satellite,
				sample.Time.UTC(),
				sample.LatDeg,
				sample.LonDeg,
				sample.AltM,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (satellite, ts, lat, lon, alt_m) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.client.DB().ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert orbit samples: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseStore) Close() error {
	return s.client.Close()
}
