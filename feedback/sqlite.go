package feedback

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/honganh1206/professor/db"
	"github.com/honganh1206/professor/utils"
)

//go:embed schema.sql
var schemaSQL string

type SQLiteStore struct {
	DB *sql.DB
}

func OpenSQLiteStore(dsn string) (*SQLiteStore, error) {
	conn, err := db.OpenDB(db.DefaultConfig(dsn), schemaSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback database: %w", err)
	}

	return &SQLiteStore{DB: conn}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, entry Entry) error {
	query := `
	INSERT INTO feedback (session_id, text, created_at)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, query, entry.SessionID, entry.Text, entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// List returns stored feedback, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT id, session_id, text, created_at
		FROM feedback
		ORDER BY created_at DESC, id DESC;
	`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}

		entry.CreatedAt, err = utils.ParseStoredTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feedback created_at: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}
