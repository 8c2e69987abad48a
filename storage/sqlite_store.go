package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"comptesupport/partner"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	RunKindGenerate = "generate"
	RunKindRoute    = "route"
	RunKindSend     = "send"

	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
	RunStatusFailed    = "failed"
)

const recipientSeparator = "; "

type SQLiteStore struct {
	db *sql.DB
}

var (
	ErrRunNotFound   = errors.New("run not found")
	ErrRouteNotFound = errors.New("route not found")
)

// Run is one journaled invocation of generate, route or send.
type Run struct {
	ID         string
	Kind       string
	Source     string
	Status     string
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
	Items      int
}

// BlockRecord is the stored outcome of one generated block.
type BlockRecord struct {
	Position int
	StartRow int
	EndRow   int
	Partner  string
	Path     string
	Error    string
}

// StoredRoute is a journaled routing result with its delivery state.
type StoredRoute struct {
	ID    int64
	RunID string
	partner.Route
	SentAt    time.Time
	SendError string
}

func (r StoredRoute) Sent() bool {
	return !r.SentAt.IsZero()
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL CHECK(kind IN ('generate', 'route', 'send')),
	source TEXT NOT NULL,
	status TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS block_outcomes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	start_row INTEGER NOT NULL CHECK(start_row >= 1),
	end_row INTEGER NOT NULL CHECK(end_row >= start_row),
	partner TEXT NOT NULL,
	path TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	UNIQUE(run_id, position)
);
CREATE TABLE IF NOT EXISTS routes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	file_name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	partner TEXT NOT NULL,
	recipients TEXT NOT NULL,
	sent_at TEXT NOT NULL DEFAULT '',
	UNIQUE(run_id, file_path)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.ensureColumn("runs", "detail", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}
	if err := s.ensureColumn("routes", "send_error", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}

	return nil
}

// ensureColumn adds a column that older journal files were created without.
func (s *SQLiteStore) ensureColumn(table, column, definition string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return fmt.Errorf("query table info of %s: %w", table, err)
	}
	defer rows.Close()

	hasColumn := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			hasColumn = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}

	if hasColumn {
		return nil
	}

	if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}

	return nil
}

// CreateRun starts a journal entry in the running state.
func (s *SQLiteStore) CreateRun(kind, source string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, kind, source, status, started_at) VALUES (?, ?, ?, ?, ?);`,
		run.ID, run.Kind, run.Source, run.Status, run.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert %s run: %w", kind, err)
	}
	return run, nil
}

// FinishRun records the final status of a run.
func (s *SQLiteStore) FinishRun(id, status, detail string) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, detail = ?, finished_at = ? WHERE id = ?;`,
		status, detail, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *SQLiteStore) InsertBlockOutcomes(runID string, records []BlockRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO block_outcomes (
	run_id,
	position,
	start_row,
	end_row,
	partner,
	path,
	error
) VALUES (?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, record := range records {
		res, err := stmt.Exec(runID, record.Position, record.StartRow, record.EndRow, record.Partner, record.Path, record.Error)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert block outcome: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

func (s *SQLiteStore) ListBlockOutcomes(runID string) ([]BlockRecord, error) {
	rows, err := s.db.Query(`
SELECT position, start_row, end_row, partner, path, error
FROM block_outcomes
WHERE run_id = ?
ORDER BY position;`, runID)
	if err != nil {
		return nil, fmt.Errorf("query block outcomes: %w", err)
	}
	defer rows.Close()

	records := make([]BlockRecord, 0, 16)
	for rows.Next() {
		var record BlockRecord
		if err := rows.Scan(&record.Position, &record.StartRow, &record.EndRow, &record.Partner, &record.Path, &record.Error); err != nil {
			return nil, fmt.Errorf("scan block outcome: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block outcomes: %w", err)
	}
	return records, nil
}

// InsertRoutes journals a routing table. A file already routed in the same
// run is ignored.
func (s *SQLiteStore) InsertRoutes(runID string, routes []partner.Route) (int, error) {
	if len(routes) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO routes (
	run_id,
	file_name,
	file_path,
	partner,
	recipients
) VALUES (?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, route := range routes {
		res, err := stmt.Exec(
			runID,
			route.FileName,
			route.FilePath,
			route.PartnerName,
			strings.Join(route.RecipientEmails, recipientSeparator),
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert route: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

func (s *SQLiteStore) ListRoutes(runID string) ([]StoredRoute, error) {
	const query = `
SELECT
	id,
	run_id,
	file_name,
	file_path,
	partner,
	recipients,
	sent_at,
	send_error
FROM routes
WHERE run_id = ?
ORDER BY id;
`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	routes := make([]StoredRoute, 0, 64)
	for rows.Next() {
		var (
			route      StoredRoute
			recipients string
			sentRaw    string
		)
		if err := rows.Scan(
			&route.ID,
			&route.RunID,
			&route.FileName,
			&route.FilePath,
			&route.PartnerName,
			&recipients,
			&sentRaw,
			&route.SendError,
		); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}

		route.RecipientEmails = splitRecipients(recipients)
		if sentRaw != "" {
			route.SentAt, err = time.Parse(time.RFC3339, sentRaw)
			if err != nil {
				return nil, fmt.Errorf("parse sent_at %q: %w", sentRaw, err)
			}
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}

	return routes, nil
}

// MarkRouteSent stores a delivery attempt. A nil sendErr marks the route as
// sent at sentAt; otherwise the error text is kept and the route stays unsent.
func (s *SQLiteStore) MarkRouteSent(id int64, sentAt time.Time, sendErr error) error {
	if id <= 0 {
		return fmt.Errorf("route id must be > 0")
	}

	sentRaw, errText := "", ""
	if sendErr != nil {
		errText = sendErr.Error()
	} else {
		sentRaw = sentAt.UTC().Format(time.RFC3339)
	}

	res, err := s.db.Exec(`UPDATE routes SET sent_at = ?, send_error = ? WHERE id = ?;`, sentRaw, errText, id)
	if err != nil {
		return fmt.Errorf("update route %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// LatestRunID returns the most recently started run of kind.
func (s *SQLiteStore) LatestRunID(kind string) (string, bool, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT id FROM runs WHERE kind = ? ORDER BY started_at DESC, rowid DESC LIMIT 1;`,
		kind,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query latest %s run: %w", kind, err)
	}
	return id, true, nil
}

// ListRuns returns the newest runs first. Items counts the journaled blocks
// or routes of each run. A limit <= 0 returns every run.
func (s *SQLiteStore) ListRuns(limit int) ([]Run, error) {
	const query = `
SELECT
	r.id,
	r.kind,
	r.source,
	r.status,
	r.detail,
	r.started_at,
	r.finished_at,
	(SELECT COUNT(*) FROM block_outcomes b WHERE b.run_id = r.id) +
	(SELECT COUNT(*) FROM routes t WHERE t.run_id = r.id)
FROM runs r
ORDER BY r.started_at DESC, r.rowid DESC
LIMIT ?;
`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, 32)
	for rows.Next() {
		var (
			run         Run
			startedRaw  string
			finishedRaw string
		)
		if err := rows.Scan(&run.ID, &run.Kind, &run.Source, &run.Status, &run.Detail, &startedRaw, &finishedRaw, &run.Items); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedRaw, err)
		}
		if finishedRaw != "" {
			run.FinishedAt, err = time.Parse(time.RFC3339, finishedRaw)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at %q: %w", finishedRaw, err)
			}
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

func splitRecipients(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, recipientSeparator)
	recipients := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			recipients = append(recipients, part)
		}
	}
	return recipients
}
