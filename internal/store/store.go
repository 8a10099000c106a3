// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwzhao/hskdrill/internal/model"
	"github.com/mwzhao/hskdrill/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for quiz data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS totals (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_quizzes INTEGER NOT NULL,
			total_correct INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			best_score_percent INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS level_totals (
			level INTEGER PRIMARY KEY,
			quizzes INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			level INTEGER NOT NULL,
			mode TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			duration_s INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_answers (
			session_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			chinese TEXT NOT NULL,
			english TEXT NOT NULL,
			pinyin TEXT NOT NULL,
			mode TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			options TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadStats reads the persisted aggregates. Absent rows yield zeroed
// defaults; callers treat any error the same way, so malformed state never
// surfaces as a user-visible failure.
func (s *Store) LoadStats(ctx context.Context) (model.Stats, error) {
	st := model.Stats{PerLevel: map[int]model.LevelStats{}}
	row := s.db.QueryRowContext(ctx,
		`SELECT total_quizzes, total_correct, total_questions, best_score_percent FROM totals WHERE id = 1`)
	err := row.Scan(&st.TotalQuizzes, &st.TotalCorrect, &st.TotalQuestions, &st.BestScorePercent)
	if err != nil && err != sql.ErrNoRows {
		return model.Stats{PerLevel: map[int]model.LevelStats{}}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT level, quizzes, correct, total FROM level_totals`)
	if err != nil {
		return model.Stats{PerLevel: map[int]model.LevelStats{}}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var level int
		var ls model.LevelStats
		if err := rows.Scan(&level, &ls.Quizzes, &ls.Correct, &ls.Total); err != nil {
			return model.Stats{PerLevel: map[int]model.LevelStats{}}, err
		}
		st.PerLevel[level] = ls
	}
	if err := rows.Err(); err != nil {
		return model.Stats{PerLevel: map[int]model.LevelStats{}}, err
	}
	return st, nil
}

// RecordSession stores a finished session with its answer records and folds
// it into the persisted aggregates, returning the updated stats.
func (s *Store) RecordSession(ctx context.Context, res model.Result) (model.Stats, error) {
	current, err := s.LoadStats(ctx)
	if err != nil {
		// Malformed aggregates degrade to zeroed defaults.
		current = model.Stats{PerLevel: map[int]model.LevelStats{}}
	}
	updated := stats.Apply(current, res)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Stats{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO totals (id, total_quizzes, total_correct, total_questions, best_score_percent)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			total_quizzes = excluded.total_quizzes,
			total_correct = excluded.total_correct,
			total_questions = excluded.total_questions,
			best_score_percent = excluded.best_score_percent`,
		updated.TotalQuizzes, updated.TotalCorrect, updated.TotalQuestions, updated.BestScorePercent,
	); err != nil {
		return model.Stats{}, err
	}

	ls := updated.PerLevel[res.Level]
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO level_totals (level, quizzes, correct, total)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(level) DO UPDATE SET
			quizzes = excluded.quizzes,
			correct = excluded.correct,
			total = excluded.total`,
		res.Level, ls.Quizzes, ls.Correct, ls.Total,
	); err != nil {
		return model.Stats{}, err
	}

	var execRes sql.Result
	execRes, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, level, mode, correct, incorrect, skipped, duration_s)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.StartedAt.Format(time.RFC3339Nano),
		res.EndedAt.Format(time.RFC3339Nano),
		res.Level,
		string(res.Mode),
		res.Correct,
		res.Incorrect,
		res.Skipped,
		res.TimeTakenSec,
	)
	if err != nil {
		return model.Stats{}, err
	}
	sessionID, err := execRes.LastInsertId()
	if err != nil {
		return model.Stats{}, err
	}

	if len(res.Answers) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_answers (session_id, position, chinese, english, pinyin, mode, user_answer, correct, options)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return model.Stats{}, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, rec := range res.Answers {
			options, merr := json.Marshal(rec.Options)
			if merr != nil {
				err = merr
				return model.Stats{}, err
			}
			if _, err = stmt.ExecContext(ctx,
				sessionID, i,
				rec.Entry.Chinese, rec.Entry.English, rec.Entry.Pinyin,
				string(rec.Mode), rec.UserAnswer, rec.Correct, string(options),
			); err != nil {
				return model.Stats{}, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return model.Stats{}, err
	}
	return updated, nil
}

// ListSessions returns session summaries filtered by stats config, oldest
// first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Level > 0 {
		clauses = append(clauses, "level = ?")
		args = append(args, cfg.Level)
	}
	query := fmt.Sprintf(`SELECT id, ended_at, level, mode, correct, incorrect, skipped, duration_s
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var summary model.SessionSummary
		var endedAt, mode string
		if err := rows.Scan(&summary.SessionID, &endedAt, &summary.Level, &mode, &summary.Correct, &summary.Incorrect, &summary.Skipped, &summary.DurationSec); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		summary.EndedAt = parsed
		summary.Mode = model.Mode(mode)
		sessions = append(sessions, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// ListAnswers returns the answer records of a persisted session in question
// order.
func (s *Store) ListAnswers(ctx context.Context, sessionID int64) ([]model.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chinese, english, pinyin, mode, user_answer, correct, options
		 FROM session_answers
		 WHERE session_id = ?
		 ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.AnswerRecord
	for rows.Next() {
		var rec model.AnswerRecord
		var mode, options string
		if err := rows.Scan(&rec.Entry.Chinese, &rec.Entry.English, &rec.Entry.Pinyin, &mode, &rec.UserAnswer, &rec.Correct, &options); err != nil {
			return nil, err
		}
		rec.Mode = model.Mode(mode)
		if err := json.Unmarshal([]byte(options), &rec.Options); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
