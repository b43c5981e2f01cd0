package chat

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Fixed width so that text order equals time order on every driver.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
		text TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp)`,
}

var _ Repo = (*SQLRepo)(nil)

// SQLRepo is the conversation store over SQLite or PostgreSQL.
type SQLRepo struct {
	db *sqlx.DB

	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewRepo(db *sqlx.DB) *SQLRepo {
	return &SQLRepo{db: db, now: time.Now}
}

// Migrate creates the schema if it is missing.
func (r *SQLRepo) Migrate(ctx context.Context) error {
	for _, st := range schemaStmts {
		if _, err := r.db.ExecContext(ctx, st); err != nil {
			return storeErr("migrate", err)
		}
	}
	return nil
}

// timestamp returns a UTC time strictly after the previous one handed out.
func (r *SQLRepo) timestamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.now().UTC()
	if !t.After(r.last) {
		t = r.last.Add(time.Nanosecond)
	}
	r.last = t
	return t
}

func (r *SQLRepo) CreateConversation(ctx context.Context) (string, error) {
	id := uuid.NewString()
	createdAt := r.timestamp()

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO conversations (id, created_at)
		VALUES (?, ?)
	`), id, createdAt.Format(timestampLayout))
	if err != nil {
		return "", storeErr("create conversation", err)
	}
	return id, nil
}

func (r *SQLRepo) ConversationExists(ctx context.Context, id string) (bool, error) {
	var found string
	err := r.db.GetContext(ctx, &found, r.db.Rebind(`
		SELECT id FROM conversations WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("conversation exists", err)
	}
	return true, nil
}

func (r *SQLRepo) AppendMessage(ctx context.Context, conversationID string, sender Sender, text string) (*Message, error) {
	if !sender.Valid() {
		return nil, storeErr("append message", errors.Errorf("invalid sender %q", sender))
	}

	msg := &Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      r.timestamp(),
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO messages (id, conversation_id, sender, text, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`),
		msg.ID,
		msg.ConversationID,
		string(msg.Sender),
		msg.Text,
		msg.Timestamp.Format(timestampLayout),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			err = errors.Wrapf(ErrUnknownConversation, "conversation %s: %v", conversationID, err)
		}
		return nil, storeErr("append message", err)
	}
	return msg, nil
}

type messageRow struct {
	ID             string `db:"id"`
	ConversationID string `db:"conversation_id"`
	Sender         string `db:"sender"`
	Text           string `db:"text"`
	Timestamp      string `db:"timestamp"`
}

func (r *SQLRepo) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, conversation_id, sender, text, timestamp
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC
	`), conversationID)
	if err != nil {
		return nil, storeErr("list messages", err)
	}

	out := make([]Message, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(timestampLayout, row.Timestamp)
		if err != nil {
			return nil, storeErr("list messages", errors.Wrapf(err, "message %s", row.ID))
		}
		out = append(out, Message{
			ID:             row.ID,
			ConversationID: row.ConversationID,
			Sender:         Sender(row.Sender),
			Text:           row.Text,
			Timestamp:      ts,
		})
	}
	return out, nil
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
