package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/duplexchat/duplexd/internal/store"
)

// Store implements store.MessageStore on SQLite.
type Store struct {
	db *sql.DB
}

// New opens the message log at dbPath, creating the schema if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS msgs(id INTEGER PRIMARY KEY, text TEXT, chan TEXT)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendMessage appends one rendered line to the channel's log.
func (s *Store) AppendMessage(ctx context.Context, channel, text string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO msgs(text, chan) VALUES(?, ?)`, text, channel)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// RecentMessages returns at most limit of the newest lines, oldest first.
func (s *Store) RecentMessages(ctx context.Context, channel string, limit int) ([]string, error) {
	query := `
		SELECT text FROM msgs
		WHERE chan = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		texts = append(texts, text)
	}

	// Reverse to get chronological order.
	for i := range len(texts) / 2 {
		texts[i], texts[len(texts)-1-i] = texts[len(texts)-1-i], texts[i]
	}

	return texts, rows.Err()
}

// Ensure Store implements store.MessageStore
var _ store.MessageStore = (*Store)(nil)
