// Package store manages SQLite persistence for timegrid: tasks, the
// daily template, and imported calendar events.
//
// The engine itself never touches storage; it consumes immutable
// snapshots this store supplies and hands derived estimated starts back
// through SetEstimatedStart. WAL mode keeps reads cheap while the CLI and
// a background sync write concurrently.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"timegrid/pkg/model"

	_ "modernc.org/sqlite"
)

// Store manages all SQLite operations with WAL mode for concurrent access.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// retryOnContention wraps retryOp from retry.go with the default config.
// All store write operations should use this to handle transient SQLite
// errors (BUSY, LOCKED, IOERR_SHORT_READ) under concurrent access.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id                 TEXT PRIMARY KEY,
		title              TEXT NOT NULL,
		state              TEXT NOT NULL DEFAULT 'READY',
		kind               TEXT NOT NULL DEFAULT 'duration_only',
		required_minutes   INTEGER NOT NULL DEFAULT 25,
		fixed_start_at     TEXT,
		fixed_end_at       TEXT,
		window_start_at    TEXT,
		window_end_at      TEXT,
		estimated_start_at TEXT,
		priority           INTEGER,
		tags               TEXT NOT NULL DEFAULT '[]',
		origin             TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_state ON tasks(state);
	CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);

	CREATE TABLE IF NOT EXISTS template (
		id                 INTEGER PRIMARY KEY CHECK (id = 1),
		wake_up            TEXT NOT NULL,
		sleep              TEXT NOT NULL,
		max_parallel_lanes INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fixed_events (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		days             TEXT NOT NULL DEFAULT '[]',
		enabled          INTEGER NOT NULL DEFAULT 1,
		position         INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS calendar_events (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		day        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_calendar_day ON calendar_events(day);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

// PutTask inserts or replaces a task by ID.
func (s *Store) PutTask(t *model.Task) error {
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("encode tags for task %s: %w", t.ID, err)
	}
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO tasks (id, title, state, kind, required_minutes,
			                    fixed_start_at, fixed_end_at, window_start_at, window_end_at,
			                    estimated_start_at, priority, tags, origin, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title, state = excluded.state, kind = excluded.kind,
			   required_minutes = excluded.required_minutes,
			   fixed_start_at = excluded.fixed_start_at, fixed_end_at = excluded.fixed_end_at,
			   window_start_at = excluded.window_start_at, window_end_at = excluded.window_end_at,
			   estimated_start_at = excluded.estimated_start_at,
			   priority = excluded.priority, tags = excluded.tags, origin = excluded.origin`,
			t.ID, t.Title, string(t.State), string(t.Kind), t.RequiredMinutes,
			encodeTime(t.FixedStartAt), encodeTime(t.FixedEndAt),
			encodeTime(t.WindowStartAt), encodeTime(t.WindowEndAt),
			encodeTime(t.EstimatedStartAt), encodePriority(t.Priority),
			string(tags), string(t.Origin), created.Format(time.RFC3339Nano),
		)
		return err
	})
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(id string) (*model.Task, error) {
	row := s.db.QueryRow(taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// ListTasks returns all tasks ordered by creation time.
func (s *Store) ListTasks() ([]model.Task, error) {
	rows, err := s.db.Query(taskColumns + ` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(id string) error {
	return retryOnContention(func() error {
		_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
		return err
	})
}

// SetTaskState transitions a task's execution state.
func (s *Store) SetTaskState(id string, state model.TaskState) error {
	return retryOnContention(func() error {
		res, err := s.db.Exec(`UPDATE tasks SET state = ? WHERE id = ?`, string(state), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err == nil && n == 0 {
			return fmt.Errorf("task %s not found", id)
		}
		return err
	})
}

// SetEstimatedStart persists a derived estimated start (nil clears it).
// Only the recalculator's output should flow through here.
func (s *Store) SetEstimatedStart(id string, at *time.Time) error {
	return retryOnContention(func() error {
		_, err := s.db.Exec(
			`UPDATE tasks SET estimated_start_at = ? WHERE id = ?`,
			encodeTime(at), id,
		)
		return err
	})
}

const taskColumns = `SELECT id, title, state, kind, required_minutes,
       fixed_start_at, fixed_end_at, window_start_at, window_end_at,
       estimated_start_at, priority, tags, origin, created_at`

func scanTask(scan func(...any) error) (*model.Task, error) {
	var t model.Task
	var state, kind, origin, tags, created string
	var fixedStart, fixedEnd, windowStart, windowEnd, estimated sql.NullString
	var priority sql.NullInt64
	if err := scan(&t.ID, &t.Title, &state, &kind, &t.RequiredMinutes,
		&fixedStart, &fixedEnd, &windowStart, &windowEnd,
		&estimated, &priority, &tags, &origin, &created); err != nil {
		return nil, err
	}
	t.State = model.TaskState(state)
	t.Kind = model.TaskKind(kind)
	t.Origin = model.Origin(origin)

	var err error
	if t.FixedStartAt, err = decodeTime(fixedStart); err != nil {
		return nil, fmt.Errorf("parse fixed_start_at for task %s: %w", t.ID, err)
	}
	if t.FixedEndAt, err = decodeTime(fixedEnd); err != nil {
		return nil, fmt.Errorf("parse fixed_end_at for task %s: %w", t.ID, err)
	}
	if t.WindowStartAt, err = decodeTime(windowStart); err != nil {
		return nil, fmt.Errorf("parse window_start_at for task %s: %w", t.ID, err)
	}
	if t.WindowEndAt, err = decodeTime(windowEnd); err != nil {
		return nil, fmt.Errorf("parse window_end_at for task %s: %w", t.ID, err)
	}
	if t.EstimatedStartAt, err = decodeTime(estimated); err != nil {
		return nil, fmt.Errorf("parse estimated_start_at for task %s: %w", t.ID, err)
	}
	if priority.Valid {
		p := int(priority.Int64)
		t.Priority = &p
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for task %s: %w", t.ID, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at for task %s: %w", t.ID, err)
	}
	return &t, nil
}

// ---------------------------------------------------------------------------
// Template
// ---------------------------------------------------------------------------

// SaveTemplate replaces the daily template and its fixed events.
func (s *Store) SaveTemplate(tpl *model.DailyTemplate) error {
	return retryOnContention(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(
			`INSERT INTO template (id, wake_up, sleep, max_parallel_lanes)
			 VALUES (1, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   wake_up = excluded.wake_up, sleep = excluded.sleep,
			   max_parallel_lanes = excluded.max_parallel_lanes`,
			tpl.WakeUp, tpl.Sleep, tpl.MaxParallelLanes,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM fixed_events`); err != nil {
			return err
		}
		for i, fe := range tpl.FixedEvents {
			days, err := json.Marshal(fe.Days)
			if err != nil {
				return fmt.Errorf("encode days for fixed event %s: %w", fe.ID, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO fixed_events (id, name, start_time, duration_minutes, days, enabled, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				fe.ID, fe.Name, fe.StartTime, fe.DurationMinutes, string(days),
				boolToInt(fe.Enabled), i,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// GetTemplate retrieves the daily template, falling back to the default
// when the user has configured nothing.
func (s *Store) GetTemplate() (*model.DailyTemplate, error) {
	tpl := model.DefaultTemplate()
	err := s.db.QueryRow(
		`SELECT wake_up, sleep, max_parallel_lanes FROM template WHERE id = 1`,
	).Scan(&tpl.WakeUp, &tpl.Sleep, &tpl.MaxParallelLanes)
	if err == sql.ErrNoRows {
		return tpl, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT id, name, start_time, duration_minutes, days, enabled
		 FROM fixed_events ORDER BY position, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var fe model.FixedEvent
		var days string
		var enabled int
		if err := rows.Scan(&fe.ID, &fe.Name, &fe.StartTime, &fe.DurationMinutes, &days, &enabled); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(days), &fe.Days); err != nil {
			return nil, fmt.Errorf("decode days for fixed event %s: %w", fe.ID, err)
		}
		fe.Enabled = enabled != 0
		tpl.FixedEvents = append(tpl.FixedEvents, fe)
	}
	return tpl, rows.Err()
}

// ---------------------------------------------------------------------------
// Calendar events
// ---------------------------------------------------------------------------

// ReplaceCalendarDay swaps the stored calendar events for a day with a
// freshly synced set.
func (s *Store) ReplaceCalendarDay(day time.Time, events []model.CalendarEvent) error {
	dayKey := day.Format("2006-01-02")
	return retryOnContention(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM calendar_events WHERE day = ?`, dayKey); err != nil {
			return err
		}
		for _, ev := range events {
			if _, err := tx.Exec(
				`INSERT INTO calendar_events (id, title, start_time, end_time, day)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   title = excluded.title, start_time = excluded.start_time,
				   end_time = excluded.end_time, day = excluded.day`,
				ev.ID, ev.Title,
				ev.StartTime.Format(time.RFC3339Nano), ev.EndTime.Format(time.RFC3339Nano),
				dayKey,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// ListCalendarEvents returns the stored calendar events for a day,
// ordered by start time.
func (s *Store) ListCalendarEvents(day time.Time) ([]model.CalendarEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, title, start_time, end_time FROM calendar_events
		 WHERE day = ? ORDER BY start_time, id`,
		day.Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		var ev model.CalendarEvent
		var start, end string
		if err := rows.Scan(&ev.ID, &ev.Title, &start, &end); err != nil {
			return nil, err
		}
		if ev.StartTime, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("parse start_time for event %s: %w", ev.ID, err)
		}
		if ev.EndTime, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("parse end_time for event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ---------------------------------------------------------------------------
// Encoding helpers
// ---------------------------------------------------------------------------

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func decodeTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encodePriority(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
