package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/AkmelFed12/quizgen/internal/model"
)

// sqliteDriver is the driver name registered by modernc.org/sqlite
const sqliteDriver = "sqlite"

const sqliteSchema = `
CREATE TABLE quiz_questions (
	id            INTEGER PRIMARY KEY,
	question_text TEXT    NOT NULL UNIQUE,
	option1       TEXT    NOT NULL,
	option2       TEXT    NOT NULL,
	option3       TEXT    NOT NULL,
	option4       TEXT    NOT NULL,
	correct_index INTEGER NOT NULL CHECK (correct_index BETWEEN 0 AND 3),
	difficulty    TEXT    NOT NULL,
	source        TEXT    NOT NULL,
	tags          TEXT    NOT NULL,
	status        TEXT    NOT NULL
)`

const sqliteInsert = `INSERT INTO quiz_questions
	(id, question_text, option1, option2, option3, option4, correct_index, difficulty, source, tags, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// OpenSQLite opens a SQLite database file
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// ExportSQLite writes questions to a fresh quiz_questions table in the
// database at path, replacing any previous export. Row ids follow the
// question order starting at 1.
func ExportSQLite(ctx context.Context, path string, questions []model.Question) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS quiz_questions`); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range questions {
		_, err := stmt.ExecContext(ctx,
			i+1,
			q.Text,
			q.Options[0], q.Options[1], q.Options[2], q.Options[3],
			q.CorrectIndex,
			string(q.Difficulty),
			q.Source,
			strings.Join(q.Tags, ", "),
			model.StatusValidated,
		)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
