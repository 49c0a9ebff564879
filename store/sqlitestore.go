package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// ErrRunNotFound is returned by GetRun for an unknown identifier.
var ErrRunNotFound = errors.New("run not found")

// SQLiteStore keeps runs in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ RunStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at dbPath and prepares the
// schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open run store")
	}
	// writes are serialized by SQLite
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connect to run store %s", dbPath)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize run store schema")
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		data_path TEXT NOT NULL,
		learning_rate REAL NOT NULL,
		epochs INTEGER NOT NULL,
		train_ratio REAL NOT NULL,
		strict_price INTEGER NOT NULL,
		retained INTEGER NOT NULL,
		dropped INTEGER NOT NULL,
		train_samples INTEGER NOT NULL,
		test_samples INTEGER NOT NULL,
		weights TEXT NOT NULL,
		mean TEXT NOT NULL,
		std TEXT NOT NULL,
		rmse REAL,
		mae REAL,
		mse REAL,
		r2 REAL,
		mape REAL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun inserts or replaces run. A missing ID or timestamp is filled in.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	weights, err := encodeFloats(run.Weights)
	if err != nil {
		return errors.Wrap(err, "encode weights")
	}
	mean, err := encodeFloats(run.Mean)
	if err != nil {
		return errors.Wrap(err, "encode mean")
	}
	std, err := encodeFloats(run.Std)
	if err != nil {
		return errors.Wrap(err, "encode std")
	}

	query := `
		INSERT OR REPLACE INTO runs (
			id, created_at, data_path, learning_rate, epochs, train_ratio, strict_price,
			retained, dropped, train_samples, test_samples,
			weights, mean, std, rmse, mae, mse, r2, mape
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UnixNano(),
		run.DataPath,
		run.LearningRate,
		run.Epochs,
		run.TrainRatio,
		run.StrictPrice,
		run.Retained,
		run.Dropped,
		run.TrainSamples,
		run.TestSamples,
		weights,
		mean,
		std,
		nullable(run.Metrics.RMSE),
		nullable(run.Metrics.MAE),
		nullable(run.Metrics.MSE),
		nullable(run.Metrics.R2),
		nullable(run.Metrics.MAPE),
	)
	if err != nil {
		return errors.Wrapf(err, "save run %s", run.ID)
	}
	return nil
}

const selectRun = `
	SELECT id, created_at, data_path, learning_rate, epochs, train_ratio, strict_price,
		retained, dropped, train_samples, test_samples,
		weights, mean, std, rmse, mae, mse, r2, mape
	FROM runs`

// GetRun returns the run with the given id.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrRunNotFound, "get run %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get run %s", id)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRun+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run                       Run
		createdAt                 int64
		weights, mean, std        string
		rmse, mae, mse, r2, mapeV sql.NullFloat64
	)
	err := sc.Scan(
		&run.ID, &createdAt, &run.DataPath, &run.LearningRate, &run.Epochs, &run.TrainRatio, &run.StrictPrice,
		&run.Retained, &run.Dropped, &run.TrainSamples, &run.TestSamples,
		&weights, &mean, &std, &rmse, &mae, &mse, &r2, &mapeV,
	)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()

	if run.Weights, err = decodeFloats(weights); err != nil {
		return nil, errors.Wrap(err, "decode weights")
	}
	if run.Mean, err = decodeFloats(mean); err != nil {
		return nil, errors.Wrap(err, "decode mean")
	}
	if run.Std, err = decodeFloats(std); err != nil {
		return nil, errors.Wrap(err, "decode std")
	}
	run.Metrics.RMSE = fromNullable(rmse)
	run.Metrics.MAE = fromNullable(mae)
	run.Metrics.MSE = fromNullable(mse)
	run.Metrics.R2 = fromNullable(r2)
	run.Metrics.MAPE = fromNullable(mapeV)
	return &run, nil
}

func encodeFloats(values []float64) (string, error) {
	if values == nil {
		values = []float64{}
	}
	data, err := json.Marshal(values)
	return string(data), err
}

func decodeFloats(data string) ([]float64, error) {
	var values []float64
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// nullable stores non-finite metrics, such as an undefined R², as NULL.
func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
