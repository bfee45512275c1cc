package center

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Compile-time check that SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS service_centers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	center_name TEXT NOT NULL,
	phone       TEXT NOT NULL,
	email       TEXT NOT NULL,
	city        TEXT NOT NULL,
	state       TEXT NOT NULL,
	zip_code    TEXT NOT NULL,
	country     TEXT NOT NULL DEFAULT 'India',
	latitude    TEXT NOT NULL,
	longitude   TEXT NOT NULL,
	categories  TEXT NOT NULL,
	image_paths TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_service_centers_created_at
	ON service_centers (created_at DESC);
`

// SQLiteRepository is a SQLite-backed implementation of Repository.
// Categories and image paths are stored as JSON-encoded text columns.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if necessary) the SQLite database at
// path and returns a repository backed by it. WAL mode is enabled for
// file-backed databases so concurrent readers don't block the writer.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	dsn := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		dsn = "file::memory:?mode=memory&cache=shared"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set synchronous mode: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// NewSQLiteRepository wraps an existing database handle. The caller is
// responsible for the schema having been applied.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Close closes the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new service center and returns the stored record with
// its assigned ID and CreatedAt.
func (r *SQLiteRepository) Create(ctx context.Context, c *ServiceCenter) (*ServiceCenter, error) {
	stored := c.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	categories, err := json.Marshal(stored.Categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	imagePaths, err := json.Marshal(stored.ImagePaths)
	if err != nil {
		return nil, fmt.Errorf("encode image paths: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO service_centers
			(center_name, phone, email, city, state, zip_code, country,
			 latitude, longitude, categories, image_paths, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.CenterName, stored.Phone, stored.Email,
		stored.City, stored.State, stored.ZipCode, stored.Country,
		stored.Latitude, stored.Longitude,
		string(categories), string(imagePaths), stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert service center: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}
	stored.ID = id

	return stored, nil
}

// FindByID retrieves a service center by its identifier.
func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*ServiceCenter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, center_name, phone, email, city, state, zip_code,
		       country, latitude, longitude, categories, image_paths, created_at
		FROM service_centers WHERE id = ?`, id)

	c, err := scanCenter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query service center: %w", err)
	}
	return c, nil
}

// List returns all service centers, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]*ServiceCenter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, center_name, phone, email, city, state, zip_code,
		       country, latitude, longitude, categories, image_paths, created_at
		FROM service_centers
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query service centers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*ServiceCenter
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service center: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service centers: %w", err)
	}

	return result, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanCenter.
type scanner interface {
	Scan(dest ...any) error
}

func scanCenter(s scanner) (*ServiceCenter, error) {
	var (
		c          ServiceCenter
		categories string
		imagePaths string
	)
	if err := s.Scan(
		&c.ID, &c.CenterName, &c.Phone, &c.Email,
		&c.City, &c.State, &c.ZipCode, &c.Country,
		&c.Latitude, &c.Longitude,
		&categories, &imagePaths, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categories), &c.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal([]byte(imagePaths), &c.ImagePaths); err != nil {
		return nil, fmt.Errorf("decode image paths: %w", err)
	}

	return &c, nil
}
