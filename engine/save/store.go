package save

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/solenne/loom/types"
)

// ErrNotFound reports a session ID with no saved state.
var ErrNotFound = errors.New("session not found")

// Store is a SQLite-backed session store: one row per session, the full
// state as a JSON blob.
type Store struct {
	db   *sql.DB
	meta types.GameMeta
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	game       TEXT NOT NULL,
	turn       INTEGER NOT NULL,
	state      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Open opens (creating if needed) the session store at path.
func Open(path string, meta types.GameMeta) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &Store{db: db, meta: meta}, nil
}

// Close releases the database handle.
func (st *Store) Close() error {
	return st.db.Close()
}

// NewSessionID mints a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Save writes one session's state, replacing any previous row.
func (st *Store) Save(sessionID string, s *types.GameState) error {
	blob, err := Encode(s, st.meta)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	_, err = st.db.Exec(`
		INSERT INTO sessions (id, game, turn, state, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			game = excluded.game,
			turn = excluded.turn,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		sessionID, st.meta.Title, s.TurnCount, string(blob), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Load reads one session's state.
func (st *Store) Load(sessionID string) (*types.GameState, error) {
	var blob string
	err := st.db.QueryRow(`SELECT state FROM sessions WHERE id = ?`, sessionID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return Decode([]byte(blob))
}

// SessionInfo is one row of the session listing.
type SessionInfo struct {
	ID        string
	Game      string
	Turn      int
	UpdatedAt time.Time
}

// List returns every saved session, most recently updated first.
func (st *Store) List() ([]SessionInfo, error) {
	rows, err := st.db.Query(`SELECT id, game, turn, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var ms int64
		if err := rows.Scan(&info.ID, &info.Game, &info.Turn, &ms); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}
