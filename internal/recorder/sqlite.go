package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the lookup audit log to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id  TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			source      TEXT NOT NULL,
			query       TEXT NOT NULL,
			symbol      TEXT,
			price       REAL,
			growth_1y   REAL,
			trend_label TEXT,
			volatility  REAL,
			headlines   INTEGER,
			warnings    INTEGER,
			outcome     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_ts ON lookups(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_symbol ON lookups(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordLookup(evt *LookupEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO lookups
		(request_id, timestamp, source, query, symbol, price, growth_1y,
		 trend_label, volatility, headlines, warnings, outcome)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RequestID, ts.UnixMilli(), evt.Source, evt.Query, evt.Symbol, evt.Price,
		nullable(evt.Growth1Y), evt.TrendLabel, nullable(evt.Volatility),
		evt.Headlines, evt.Warnings, evt.Outcome,
	)
	return err
}

func (r *SQLiteRecorder) RecentLookups(limit int) ([]LookupEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT request_id, timestamp, source, query, symbol, price,
		growth_1y, trend_label, volatility, headlines, warnings, outcome
		FROM lookups ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	var out []LookupEvent
	for rows.Next() {
		var (
			evt       LookupEvent
			ts        int64
			symbol    sql.NullString
			trend     sql.NullString
			price     sql.NullFloat64
			growth    sql.NullFloat64
			vol       sql.NullFloat64
			headlines sql.NullInt64
			warnings  sql.NullInt64
		)
		if err := rows.Scan(&evt.RequestID, &ts, &evt.Source, &evt.Query, &symbol, &price,
			&growth, &trend, &vol, &headlines, &warnings, &evt.Outcome); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		evt.Time = time.UnixMilli(ts).UTC()
		evt.Symbol = symbol.String
		evt.TrendLabel = trend.String
		evt.Price = price.Float64
		evt.Headlines = int(headlines.Int64)
		evt.Warnings = int(warnings.Int64)
		if growth.Valid {
			evt.Growth1Y = &growth.Float64
		}
		if vol.Valid {
			evt.Volatility = &vol.Float64
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
