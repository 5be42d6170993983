// Package history journals chat conversations to a local SQLite
// database so past transcripts can be listed and exported. The journal
// is a log, not an offline task store; journal failures never fail a
// chat turn.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"taskchat/internal/chat"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Conversation is one journaled conversation.
type Conversation struct {
	ID        int64
	RemoteID  int64 // server-side conversation id, 0 if never bound
	StartedAt time.Time
	Turns     int
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and
// applies pending migrations.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS conversations (
		  id          INTEGER PRIMARY KEY AUTOINCREMENT,
		  remote_id   INTEGER NOT NULL DEFAULT 0,
		  started_at  TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS messages (
		  id               TEXT PRIMARY KEY,
		  conversation_id  INTEGER NOT NULL REFERENCES conversations(id),
		  role             TEXT NOT NULL,
		  content          TEXT NOT NULL,
		  created_at       TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_conversation
		  ON messages(conversation_id);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", CurrentSchemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}
	return nil
}

// BeginConversation inserts a new conversation row and returns its
// local id. remoteID may be 0 when the session is still fresh.
func (s *Store) BeginConversation(remoteID int64, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO conversations (remote_id, started_at) VALUES (?, ?)",
		remoteID, startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return res.LastInsertId()
}

// SetRemoteID records the server-side conversation id once the
// session binds. Overwriting with the same id is harmless.
func (s *Store) SetRemoteID(localID, remoteID int64) error {
	_, err := s.db.Exec("UPDATE conversations SET remote_id = ? WHERE id = ?", remoteID, localID)
	return err
}

// AppendMessage journals one transcript message.
func (s *Store) AppendMessage(localID int64, m chat.Message) error {
	_, err := s.db.Exec(
		"INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, localID, string(m.Role), m.Content, m.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Conversations lists journaled conversations, newest first.
func (s *Store) Conversations() ([]Conversation, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.remote_id, c.started_at, COUNT(m.id)
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		var started string
		var msgCount int
		if err := rows.Scan(&c.ID, &c.RemoteID, &started, &msgCount); err != nil {
			return nil, err
		}
		c.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		// Two messages per turn.
		c.Turns = msgCount / 2
		out = append(out, c)
	}
	return out, rows.Err()
}

// Messages returns a conversation's transcript in insertion order.
func (s *Store) Messages(localID int64) ([]chat.Message, error) {
	rows, err := s.db.Query(
		"SELECT id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY rowid",
		localID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		var role, created string
		if err := rows.Scan(&m.ID, &role, &m.Content, &created); err != nil {
			return nil, err
		}
		m.Role = chat.Role(role)
		m.Timestamp, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Conversation returns one journaled conversation by local id.
func (s *Store) Conversation(localID int64) (Conversation, error) {
	var c Conversation
	var started string
	err := s.db.QueryRow(
		"SELECT id, remote_id, started_at FROM conversations WHERE id = ?", localID,
	).Scan(&c.ID, &c.RemoteID, &started)
	if err == sql.ErrNoRows {
		return Conversation{}, fmt.Errorf("conversation not found: %d", localID)
	}
	if err != nil {
		return Conversation{}, err
	}
	c.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	return c, nil
}
