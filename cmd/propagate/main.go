package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shashe9/teaminfinity/internal/di"
	"github.com/shashe9/teaminfinity/internal/domain/models"
	internalrepo "github.com/shashe9/teaminfinity/internal/repository"
	"github.com/shashe9/teaminfinity/internal/service/propagation"
	"github.com/shashe9/teaminfinity/pkg/config"
	"github.com/shashe9/teaminfinity/pkg/logger"
	"github.com/shashe9/teaminfinity/pkg/util"
)

// propagate generates ground-track samples from a file of three-line element
// sets and writes them to the sample store consumed by the dashboard.
func main() {
	var (
		tlePath    = flag.String("tle", "data/tle.txt", "path to a 3-line element set file")
		outPath    = flag.String("out", "data/orbit_samples.csv", "output path for the csv sink")
		startStr   = flag.String("start", "", "window start, RFC3339 or YYYY-MM-DD (default now)")
		duration   = flag.Duration("duration", 24*time.Hour, "window length")
		step       = flag.Duration("step", 10*time.Minute, "sample step")
		limit      = flag.Int("limit", 0, "max satellites to propagate, 0 for all")
		sink       = flag.String("sink", "csv", "output sink: csv or clickhouse")
		configPath = flag.String("config", "config/config.yaml", "config file path, used by the clickhouse sink")
	)
	flag.Parse()

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	start := time.Now().UTC()
	if *startStr != "" {
		if t, ok := util.ParseTime(*startStr); ok {
			start = t.UTC()
		} else if t, ok := util.ParseDate(*startStr); ok {
			start = t
		} else {
			log.Error("invalid -start value", logger.String("start", *startStr))
			os.Exit(1)
		}
	}

	f, err := os.Open(*tlePath)
	if err != nil {
		log.Error("open element set file", logger.Error(err))
		os.Exit(1)
	}
	entries, err := propagation.ParseTLE(f, log)
	f.Close()
	if err != nil {
		log.Error("parse element sets", logger.Error(err))
		os.Exit(1)
	}
	if len(entries) == 0 {
		log.Error("no usable element sets", logger.String("path", *tlePath))
		os.Exit(1)
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}

	var samples []models.OrbitSample
	skipped := 0
	for _, entry := range entries {
		p, err := propagation.NewPropagator(entry)
		if err != nil {
			log.Warn("skipping satellite", logger.String("name", entry.Name), logger.Error(err))
			skipped++
			continue
		}

		series, failed := p.Series(start, *duration, *step)
		if failed > 0 {
			log.Warn("some steps failed",
				logger.String("name", entry.Name), logger.Int("failed", failed))
		}
		if len(series) == 0 {
			log.Warn("no samples produced", logger.String("name", entry.Name))
			skipped++
			continue
		}
		samples = append(samples, series...)
	}

	log.Info("propagation finished",
		logger.Int("satellites", len(entries)-skipped),
		logger.Int("skipped", skipped),
		logger.Int("samples", len(samples)),
		logger.Duration("window", *duration),
		logger.Duration("step", *step),
	)

	if err := write(*sink, *outPath, *configPath, samples, log); err != nil {
		log.Error("write samples", logger.Error(err))
		os.Exit(1)
	}
}

func write(sink, outPath, configPath string, samples []models.OrbitSample, log *logger.Logger) error {
	switch sink {
	case "csv":
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer out.Close()
		if err := internalrepo.WriteSamples(out, samples); err != nil {
			return err
		}
		log.Info("samples written", logger.String("path", outPath))
		return nil

	case "clickhouse":
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.Store.Backend = "clickhouse"

		store, err := di.ProvideStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		chStore, ok := store.(*internalrepo.ClickHouseStore)
		if !ok {
			return fmt.Errorf("store is not clickhouse backed")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := chStore.InsertBatch(ctx, samples); err != nil {
			return err
		}
		log.Info("samples inserted", logger.String("table", di.SampleTable(cfg)))
		return nil

	default:
		return fmt.Errorf("unknown sink %q", sink)
	}
}
