package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/scgm/containergen/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Verifier loads generated insert scripts into a scratch SQLite database
// whose containers table mirrors the production schema. A script that loads
// is syntactically valid and satisfies the column constraints.
type Verifier struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready verifier.
// Use ":memory:" for a throwaway database.
func New(dataSourceName string) (*Verifier, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready verifier.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*Verifier, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Verifier{db: db}, nil
}

// Close closes the underlying database connection.
func (v *Verifier) Close() error {
	return v.db.Close()
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Load executes an insert script and returns the number of rows it added.
func (v *Verifier) Load(ctx context.Context, script string) (int64, error) {
	result, err := v.db.ExecContext(ctx, script)
	if err != nil {
		return 0, fmt.Errorf("executing script: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows, nil
}

// LoadFile reads the script at path and loads it.
func (v *Verifier) LoadFile(ctx context.Context, path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading script: %w", err)
	}
	return v.Load(ctx, string(data))
}

// Count returns the number of loaded containers.
func (v *Verifier) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM containers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting containers: %w", err)
	}
	return n, nil
}

// IDs returns the loaded container ids in insertion order.
func (v *Verifier) IDs(ctx context.Context) ([]string, error) {
	rows, err := v.db.QueryContext(ctx, `SELECT id FROM containers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing container ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning container id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Get returns a loaded container by id.
func (v *Verifier) Get(ctx context.Context, id string) (domain.Container, error) {
	var c domain.Container
	var status, createdAt, updatedAt string

	err := v.db.QueryRowContext(ctx,
		`SELECT id, latitude, longitude, waste_level_value, waste_level_status, temperature,
		        address, city_id, customer_id, created_at, updated_at
		 FROM containers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Latitude, &c.Longitude, &c.WasteLevelValue, &status, &c.Temperature,
		&c.Address, &c.CityID, &c.CustomerID, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Container{}, domain.ErrContainerNotFound
		}
		return domain.Container{}, fmt.Errorf("scanning container: %w", err)
	}

	c.WasteLevelStatus = domain.WasteLevel(status)
	if c.CreatedAt, err = time.Parse(domain.TimestampLayout, createdAt); err != nil {
		return domain.Container{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if c.UpdatedAt, err = time.Parse(domain.TimestampLayout, updatedAt); err != nil {
		return domain.Container{}, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}

	return c, nil
}
