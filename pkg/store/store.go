// Package store persists batch report tables into a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cmacnab/smstrace/pkg/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS message_summary (
	message_id       TEXT PRIMARY KEY,
	first_time       TEXT NOT NULL,
	last_time        TEXT NOT NULL,
	duration_seconds REAL NOT NULL,
	phone            TEXT,
	message          TEXT,
	outcome          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cluster_summary (
	seq          INTEGER PRIMARY KEY,
	class        TEXT NOT NULL,
	size         INTEGER NOT NULL,
	avg_seconds  REAL NOT NULL,
	start_time   TEXT NOT NULL,
	end_time     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_reminder_summary (
	date        TEXT PRIMARY KEY,
	two_week    INTEGER NOT NULL,
	one_week    INTEGER NOT NULL,
	next_day    INTEGER NOT NULL,
	birthday    INTEGER NOT NULL,
	unknown     INTEGER NOT NULL,
	problem_day INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS missing_deliveries (
	message_id TEXT PRIMARY KEY,
	sent_time  TEXT NOT NULL,
	phone      TEXT,
	file       TEXT
);
`

const timeLayout = "2006-01-02 15:04:05"

// Store wraps a SQLite database holding report tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport writes the lifecycle-derived tables in one transaction,
// replacing any previous contents so a re-run is idempotent.
func (s *Store) SaveReport(ctx context.Context, r *report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"message_summary", "cluster_summary", "daily_reminder_summary", "missing_deliveries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := saveSummaries(ctx, tx, r.Summaries); err != nil {
		return err
	}
	if err := saveRuns(ctx, tx, r.Runs); err != nil {
		return err
	}
	if err := saveReminders(ctx, tx, r.Reminders); err != nil {
		return err
	}
	if r.Missing != nil {
		if err := saveMissing(ctx, tx, r.Missing.Sample); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func saveSummaries(ctx context.Context, tx *sql.Tx, summaries []report.MessageSummary) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO message_summary
		(message_id, first_time, last_time, duration_seconds, phone, message, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing summary insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range summaries {
		if _, err := stmt.ExecContext(ctx,
			m.MessageId,
			m.FirstTime.Format(timeLayout),
			m.LastTime.Format(timeLayout),
			m.Seconds,
			m.Phone,
			m.Message,
			string(m.Outcome),
		); err != nil {
			return fmt.Errorf("inserting summary %s: %w", m.MessageId, err)
		}
	}
	return nil
}

func saveRuns(ctx context.Context, tx *sql.Tx, runs []report.Run) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cluster_summary
		(seq, class, size, avg_seconds, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing cluster insert: %w", err)
	}
	defer stmt.Close()

	for i, run := range runs {
		if _, err := stmt.ExecContext(ctx,
			i,
			run.Class,
			run.Size,
			run.AvgSeconds,
			run.Start.Format(timeLayout),
			run.End.Format(timeLayout),
		); err != nil {
			return fmt.Errorf("inserting cluster %d: %w", i, err)
		}
	}
	return nil
}

func saveReminders(ctx context.Context, tx *sql.Tx, days []report.ReminderDay) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_reminder_summary
		(date, two_week, one_week, next_day, birthday, unknown, problem_day)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing reminder insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		problem := 0
		if d.ProblemDay {
			problem = 1
		}
		if _, err := stmt.ExecContext(ctx,
			d.Date, d.TwoWeek, d.OneWeek, d.NextDay, d.Birthday, d.Unknown, problem,
		); err != nil {
			return fmt.Errorf("inserting reminder day %s: %w", d.Date, err)
		}
	}
	return nil
}

func saveMissing(ctx context.Context, tx *sql.Tx, sample []report.MissingMessage) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO missing_deliveries
		(message_id, sent_time, phone, file)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing missing insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range sample {
		if _, err := stmt.ExecContext(ctx,
			m.MessageId, m.Timestamp.Format(timeLayout), m.Phone, m.File,
		); err != nil {
			return fmt.Errorf("inserting missing delivery %s: %w", m.MessageId, err)
		}
	}
	return nil
}
