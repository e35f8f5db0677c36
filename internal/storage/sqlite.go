package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Veraticus/mission-control/internal/model"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const snapshotsTable = "snapshots"

var timeNow = time.Now

// Config selects the history database.
type Config struct {
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	Enabled bool   `mapstructure:"enabled"`
}

// SnapshotStore records metric snapshots in SQLite or PostgreSQL.
type SnapshotStore struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
	driver  string
}

// Open connects to the database named by cfg. For SQLite the DSN is a file
// path and its directory is created if needed.
func Open(cfg Config) (*SnapshotStore, error) {
	if err := validateString(cfg.DSN, "dsn"); err != nil {
		return nil, err
	}

	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		db, err = openSQLite(cfg.DSN)
	case DriverPostgres:
		db, err = sql.Open(DriverPostgres, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	return NewSnapshotStore(db, driver), nil
}

func openSQLite(path string) (*sql.DB, error) {
	// Ensure directory exists
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(DriverSQLite, path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSnapshotStore wraps an open database handle.
func NewSnapshotStore(db *sql.DB, driver string) *SnapshotStore {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	if driver == DriverPostgres {
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return &SnapshotStore{db: db, driver: driver, builder: builder}
}

// Driver returns the database driver name.
func (s *SnapshotStore) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) insertQuery(snap model.Snapshot) squirrel.InsertBuilder {
	q := s.builder.
		Insert(snapshotsTable).
		Columns("taken_at", "isv_score", "isv_goal", "mayapur_score", "percent_reached").
		Values(
			snap.TakenAt.UTC(),
			snap.Metrics.Score(),
			snap.Metrics.Goal(),
			snap.Metrics.Rival(),
			snap.PercentReached,
		)
	if s.driver == DriverPostgres {
		q = q.Suffix("RETURNING id")
	}
	return q
}

// SaveSnapshot stores snap and returns its id.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap model.Snapshot) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateSnapshot(snap); err != nil {
		return 0, err
	}

	query, args, err := s.insertQuery(snap).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	if s.driver == DriverPostgres {
		var id int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to save snapshot: %w", err)
		}
		return id, nil
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	return id, nil
}

func (s *SnapshotStore) listQuery(limit int) squirrel.SelectBuilder {
	q := s.builder.
		Select("id", "taken_at", "isv_score", "isv_goal", "mayapur_score", "percent_reached").
		From(snapshotsTable).
		OrderBy("taken_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}

// ListSnapshots returns the most recent snapshots, newest first. A
// non-positive limit returns all of them.
func (s *SnapshotStore) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := s.listQuery(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snaps := []model.Snapshot{}
	for rows.Next() {
		var (
			snap                 model.Snapshot
			takenAt              time.Time
			score, goal, mayapur float64
		)
		if err := rows.Scan(&snap.ID, &takenAt, &score, &goal, &mayapur, &snap.PercentReached); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.TakenAt = takenAt.UTC()
		snap.Metrics = model.NewMetricSet()
		_ = snap.Metrics.Set(model.MetricISVScore, score)
		_ = snap.Metrics.Set(model.MetricISVGoal, goal)
		_ = snap.Metrics.Set(model.MetricMayapurScore, mayapur)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snaps, nil
}
