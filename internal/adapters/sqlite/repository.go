package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"realTimeDash/internal/domain"
	"realTimeDash/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const defaultDBPath = "./data/data_dashboard.db"

// Repository implements ports.ObservationRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository opens (creating if needed) the database and verifies the schema.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	inMemory := dbPath == ":memory:"
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	if inMemory {
		dsn = dbPath
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
			cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// One writer; a single connection also keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if !inMemory {
		db.SetConnMaxLifetime(time.Hour)
	}

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite observation store ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS real_time_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Time DATETIME DEFAULT CURRENT_TIMESTAMP,
		Value REAL
	);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// Append inserts one row. A single INSERT is atomic in SQLite, so readers see either
// the whole record or nothing.
func (r *Repository) Append(ctx context.Context, obs domain.Observation) (int64, error) {
	const query = `INSERT INTO real_time_data (Time, Value) VALUES (?, ?)`

	ts := obs.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	result, err := r.db.ExecContext(ctx, query, ts.UTC(), obs.Value)
	if err != nil {
		return 0, fmt.Errorf("failed to insert observation: %w: %w", ports.ErrInsertFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for observation: %w: %w", ports.ErrInsertFailed, err)
	}
	r.logger.Debug(ctx, "Observation persisted", map[string]interface{}{"id": id, "value": obs.Value})
	return id, nil
}

// ReadAll returns every persisted observation ordered by id.
func (r *Repository) ReadAll(ctx context.Context) ([]domain.Observation, error) {
	const query = `SELECT id, Time, COALESCE(Value, 0) FROM real_time_data ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	observations := make([]domain.Observation, 0)
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation during ReadAll: %w: %w", ports.ErrQueryFailed, err)
		}
		observations = append(observations, obs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observation rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return observations, nil
}

// Count returns the number of persisted observations.
func (r *Repository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM real_time_data`
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count observations: %w: %w", ports.ErrQueryFailed, err)
	}
	return count, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanObservation(s scanner) (domain.Observation, error) {
	var obs domain.Observation
	var ts sql.NullTime
	if err := s.Scan(&obs.ID, &ts, &obs.Value); err != nil {
		return domain.Observation{}, err
	}
	if ts.Valid {
		obs.Time = ts.Time
	}
	return obs, nil
}
