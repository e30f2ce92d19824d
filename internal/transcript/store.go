// Package transcript persists negotiation sessions and their messages
// in sqlite.
package transcript

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_title TEXT NOT NULL,
	phase TEXT NOT NULL DEFAULT 'policy-selection',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	sender TEXT NOT NULL,
	content TEXT NOT NULL,
	emotion TEXT NOT NULL DEFAULT 'neutral',
	is_user BOOLEAN NOT NULL DEFAULT 0,
	responding_to TEXT,
	area_id TEXT,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_area ON messages(session_id, area_id);

CREATE TABLE IF NOT EXISTS selections (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	option_id TEXT NOT NULL,
	PRIMARY KEY (session_id, option_id)
);

CREATE TABLE IF NOT EXISTS discussed_areas (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	area_id TEXT NOT NULL,
	discussed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (session_id, area_id)
);
`

// Store is the sqlite-backed session archive.
type Store struct {
	db *sql.DB
}

// Record is one persisted message row.
type Record struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Sender       string    `json:"sender"`
	Content      string    `json:"content"`
	Emotion      string    `json:"emotion"`
	IsUser       bool      `json:"is_user"`
	RespondingTo string    `json:"responding_to,omitempty"`
	AreaID       string    `json:"area_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open creates (or opens) a transcript database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	// Best-effort migration for databases created before per-area mode.
	_, _ = db.Exec(`ALTER TABLE messages ADD COLUMN area_id TEXT`)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession registers a session. Re-creating an existing session
// only refreshes its title.
func (s *Store) CreateSession(id, userTitle string) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_title) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET user_title = excluded.user_title, updated_at = CURRENT_TIMESTAMP`,
		id, userTitle)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SetPhase records the session's current phase.
func (s *Store) SetPhase(sessionID, phase string) error {
	res, err := s.db.Exec(`UPDATE sessions SET phase = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, phase, sessionID)
	if err != nil {
		return fmt.Errorf("set phase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set phase: unknown session %s", sessionID)
	}
	return nil
}

// Phase returns the session's stored phase.
func (s *Store) Phase(sessionID string) (string, error) {
	var phase string
	err := s.db.QueryRow(`SELECT phase FROM sessions WHERE id = ?`, sessionID).Scan(&phase)
	if err != nil {
		return "", fmt.Errorf("load phase: %w", err)
	}
	return phase, nil
}

// AppendMessage stores one message. Duplicate IDs are ignored so bus
// replays stay idempotent.
func (s *Store) AppendMessage(rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO messages (id, session_id, sender, content, emotion, is_user, responding_to, area_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Sender, rec.Content, rec.Emotion, rec.IsUser,
		nullable(rec.RespondingTo), nullable(rec.AreaID), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Messages returns a session's messages in insertion order.
func (s *Store) Messages(sessionID string) ([]Record, error) {
	return s.queryMessages(`
		SELECT id, session_id, sender, content, emotion, is_user, responding_to, area_id, created_at
		FROM messages WHERE session_id = ? ORDER BY created_at, id`, sessionID)
}

// AreaMessages returns a session's messages scoped to one policy area.
func (s *Store) AreaMessages(sessionID, areaID string) ([]Record, error) {
	return s.queryMessages(`
		SELECT id, session_id, sender, content, emotion, is_user, responding_to, area_id, created_at
		FROM messages WHERE session_id = ? AND area_id = ? ORDER BY created_at, id`, sessionID, areaID)
}

func (s *Store) queryMessages(query string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var respondingTo, areaID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Sender, &rec.Content,
			&rec.Emotion, &rec.IsUser, &respondingTo, &areaID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		rec.RespondingTo = respondingTo.String
		rec.AreaID = areaID.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UserMessageCount counts user-flagged messages. The count mirrors the
// in-memory manager's, so either side can evaluate the reflection gate.
func (s *Store) UserMessageCount(sessionID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM messages
		WHERE session_id = ? AND is_user = 1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user messages: %w", err)
	}
	return n, nil
}

// AreaUserMessageCount counts user-flagged messages within one policy
// area.
func (s *Store) AreaUserMessageCount(sessionID, areaID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM messages
		WHERE session_id = ? AND area_id = ? AND is_user = 1`,
		sessionID, areaID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count area user messages: %w", err)
	}
	return n, nil
}

// SaveSelections replaces the session's policy selections.
func (s *Store) SaveSelections(sessionID string, optionIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save selections: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM selections WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear selections: %w", err)
	}
	for _, id := range optionIDs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO selections (session_id, option_id) VALUES (?, ?)`, sessionID, id); err != nil {
			return fmt.Errorf("insert selection %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Selections returns the session's stored option IDs.
func (s *Store) Selections(sessionID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT option_id FROM selections WHERE session_id = ? ORDER BY option_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load selections: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MarkDiscussed flags a policy area as discussed.
func (s *Store) MarkDiscussed(sessionID, areaID string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO discussed_areas (session_id, area_id) VALUES (?, ?)`, sessionID, areaID)
	if err != nil {
		return fmt.Errorf("mark discussed: %w", err)
	}
	return nil
}

// DiscussedAreas lists area IDs flagged discussed for the session.
func (s *Store) DiscussedAreas(sessionID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT area_id FROM discussed_areas WHERE session_id = ? ORDER BY discussed_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load discussed areas: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
