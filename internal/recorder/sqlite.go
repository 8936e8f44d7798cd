package recorder

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the history of a run to a SQLite database. Every
// row carries the run ID so several runs can share one file.
type SQLiteRecorder struct {
	db    *sql.DB
	mu    sync.Mutex
	runID uuid.UUID
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.New()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		r.runID.String(), time.Now().Unix()); err != nil {
		db.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	slog.Info("sqlite recorder opened", "path", dbPath, "run", r.runID)
	return r, nil
}

// RunID returns the identifier of the run being recorded.
func (r *SQLiteRecorder) RunID() uuid.UUID {
	return r.runID
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ticks (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			tick           INTEGER NOT NULL,
			simulated_time REAL,
			phase          TEXT,
			temperature    REAL,
			pressure       REAL,
			radiation      REAL,
			power          REAL,
			control_rods   REAL,
			coolant_flow   REAL,
			turbine_speed  REAL,
			safety_rating  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_run ON ticks(run_id, tick)`,

		`CREATE TABLE IF NOT EXISTS faults (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL,
			tick    INTEGER NOT NULL,
			kind    TEXT,
			system  TEXT,
			message TEXT,
			value   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_faults_run ON faults(run_id, tick)`,

		`CREATE TABLE IF NOT EXISTS events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			tick      INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			name      TEXT,
			severity  TEXT,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, tick)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTick(rec *TickRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := rec.Snapshot
	_, err := r.db.Exec(`INSERT INTO ticks
		(run_id, tick, simulated_time, phase,
		 temperature, pressure, radiation, power,
		 control_rods, coolant_flow, turbine_speed, safety_rating)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.runID.String(), snap.Tick, rec.SimulatedTime, snap.Phase.String(),
		snap.Temperature, snap.Pressure, snap.Radiation, snap.Power,
		rec.Controls.ControlRods, rec.Controls.CoolantFlow, rec.Controls.TurbineSpeed,
		rec.SafetyRating,
	)
	return err
}

func (r *SQLiteRecorder) RecordFault(rec *FaultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO faults
		(run_id, tick, kind, system, message, value)
		VALUES (?,?,?,?,?,?)`,
		r.runID.String(), rec.Tick, string(rec.Fault.Kind), string(rec.Fault.System),
		rec.Fault.Message, rec.Fault.Value,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvent(rec *EventRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO events
		(run_id, tick, timestamp, source, name, severity, message)
		VALUES (?,?,?,?,?,?,?)`,
		r.runID.String(), rec.Tick, time.Now().Unix(), rec.Source, rec.Name,
		string(rec.Severity), rec.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite recorder", "run", r.runID)
	return r.db.Close()
}
