package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/scgm/containergen/internal/adapter/file"
	"github.com/scgm/containergen/internal/adapter/sqlite"
	"github.com/scgm/containergen/internal/app"
	"github.com/scgm/containergen/internal/domain"

	oteladapter "github.com/scgm/containergen/internal/adapter/otel"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("containergen: %v", err)
	}
}

// config holds the settings of a single run. Every field has a default, so
// running without any environment produces the standard fixture set.
type config struct {
	Records  int
	SQLPath  string
	JSONPath string
	Seed     int64
	Verify   bool
}

func configFromEnv() (config, error) {
	cfg := config{
		SQLPath:  envOrDefault("CONTAINERS_SQL_PATH", app.DefaultSQLPath),
		JSONPath: envOrDefault("CONTAINERS_JSON_PATH", app.DefaultJSONPath),
	}

	var err error
	if cfg.Records, err = strconv.Atoi(envOrDefault("CONTAINERS_RECORDS", strconv.Itoa(app.DefaultRecords))); err != nil {
		return config{}, fmt.Errorf("parsing CONTAINERS_RECORDS: %w", err)
	}

	cfg.Seed = time.Now().UnixNano()
	if v := os.Getenv("CONTAINERS_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return config{}, fmt.Errorf("parsing CONTAINERS_SEED: %w", err)
		}
	}

	if cfg.Verify, err = strconv.ParseBool(envOrDefault("CONTAINERS_VERIFY", "false")); err != nil {
		return config{}, fmt.Errorf("parsing CONTAINERS_VERIFY: %w", err)
	}

	return cfg, nil
}

func run() error {
	ctx := context.Background()

	cfg, err := configFromEnv()
	if err != nil {
		return err
	}

	// --- Observability ---
	otelCfg := oteladapter.ConfigFromEnv()
	otelCfg.Records = cfg.Records
	otelCfg.Seed = cfg.Seed
	providers, err := oteladapter.Setup(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// --- Application ---
	gen := app.NewGenerator(rand.New(rand.NewSource(cfg.Seed)))
	outputs := oteladapter.NewTracingOutputs(file.Outputs{})
	svc := app.NewFixtureService(gen, outputs, logger)

	res, err := svc.Generate(ctx, cfg.Records, cfg.SQLPath, cfg.JSONPath)
	if err != nil {
		return err
	}

	if cfg.Verify {
		return verify(ctx, logger, res)
	}
	return nil
}

// verify loads the SQL artifact into a scratch database and checks it
// against the run: same row count, the ids of the JSON artifact in order,
// and the first and last rows reading back as generated.
func verify(ctx context.Context, logger *slog.Logger, res app.Result) error {
	db, err := oteladapter.OpenDB(":memory:")
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	v, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("verify: %w", err)
	}
	defer v.Close()

	if _, err := v.LoadFile(ctx, res.SQLPath); err != nil {
		return fmt.Errorf("verify %s: %w", res.SQLPath, err)
	}

	count, err := v.Count(ctx)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if count != int64(len(res.IDs)) {
		return fmt.Errorf("verify: %s holds %d rows, %s lists %d ids",
			res.SQLPath, count, res.JSONPath, len(res.IDs))
	}

	ids, err := v.IDs(ctx)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if !slices.Equal(ids, res.IDs) {
		return fmt.Errorf("verify: ids in %s do not match %s", res.SQLPath, res.JSONPath)
	}

	if res.Records > 0 {
		for _, want := range []domain.Container{res.First, res.Last} {
			got, err := v.Get(ctx, want.ID)
			if err != nil {
				return fmt.Errorf("verify container %s: %w", want.ID, err)
			}
			if err := compareContainers(got, want); err != nil {
				return fmt.Errorf("verify container %s: %w", want.ID, err)
			}
		}
	}

	logger.InfoContext(ctx, fmt.Sprintf("Verified '%s' loads cleanly.", res.SQLPath), "rows", count)
	return nil
}

// compareContainers reports the first field where a row read back from the
// database differs from the generated container. Floats pass through
// SQLite's text conversion, so they are compared within 1e-9.
func compareContainers(got, want domain.Container) error {
	floats := []struct {
		name      string
		got, want float64
	}{
		{"latitude", got.Latitude, want.Latitude},
		{"longitude", got.Longitude, want.Longitude},
		{"waste_level_value", got.WasteLevelValue, want.WasteLevelValue},
		{"temperature", got.Temperature, want.Temperature},
	}
	for _, f := range floats {
		if math.Abs(f.got-f.want) > 1e-9 {
			return fmt.Errorf("%s = %v, want %v", f.name, f.got, f.want)
		}
	}

	switch {
	case got.WasteLevelStatus != want.WasteLevelStatus:
		return fmt.Errorf("waste_level_status = %s, want %s", got.WasteLevelStatus, want.WasteLevelStatus)
	case got.Address != want.Address:
		return fmt.Errorf("address = %q, want %q", got.Address, want.Address)
	case got.CityID != want.CityID || got.CustomerID != want.CustomerID:
		return fmt.Errorf("city_id/customer_id = %d/%d, want %d/%d",
			got.CityID, got.CustomerID, want.CityID, want.CustomerID)
	case !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt):
		return fmt.Errorf("timestamps = %v/%v, want %v/%v",
			got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
