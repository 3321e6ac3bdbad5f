package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
	"github.com/Zuo-Peng/ghostwriter/internal/report"
	"github.com/Zuo-Peng/ghostwriter/internal/scan"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS conversations (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    date          TEXT NOT NULL,
    source_path   TEXT NOT NULL DEFAULT '',
    kind          TEXT NOT NULL DEFAULT 'whatsapp',
    message_count INTEGER NOT NULL DEFAULT 0,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS conversations_user_date ON conversations(user_id, date);
CREATE INDEX IF NOT EXISTS conversations_source ON conversations(source_path);

CREATE TABLE IF NOT EXISTS messages (
    conversation_id TEXT NOT NULL,
    seq             INTEGER NOT NULL,
    message_id      TEXT NOT NULL,
    sender          TEXT NOT NULL,
    body            TEXT NOT NULL,
    ts              TEXT NOT NULL DEFAULT '',
    line_number     INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (conversation_id, seq)
);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    body,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, body) VALUES('delete', old.rowid, old.body);
    INSERT INTO messages_fts(rowid, body) VALUES (new.rowid, new.body);
END;

CREATE TABLE IF NOT EXISTS summaries (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    conversation_id TEXT NOT NULL UNIQUE,
    date            TEXT NOT NULL,
    topics          TEXT NOT NULL DEFAULT '[]',
    action_items    TEXT NOT NULL DEFAULT '[]',
    questions       TEXT NOT NULL DEFAULT '[]',
    statistics      TEXT NOT NULL DEFAULT '{}',
    summary_text    TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS summaries_user_date ON summaries(user_id, date);

CREATE TABLE IF NOT EXISTS reports (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    kind         TEXT NOT NULL,
    period_start TEXT NOT NULL,
    period_end   TEXT NOT NULL,
    report_text  TEXT NOT NULL,
    created_at   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

const timeLayout = time.RFC3339

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever parsing or analysis changes in a
// way that makes stored summaries stale.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		// force re-ingest by resetting all file mtime/size to 0
		d.db.Exec("UPDATE conversations SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type ConversationRow struct {
	ID           string
	UserID       string
	Date         string
	SourcePath   string
	Kind         string
	MessageCount int
	Mtime        int64
	Size         int64
	CreatedAt    string
}

type MessageRow struct {
	ConversationID string
	Seq            int
	MessageID      string
	Sender         string
	Body           string
	Ts             string
	LineNumber     int
}

func (m MessageRow) Message() parse.Message {
	return parse.Message{
		ID:         m.MessageID,
		Content:    m.Body,
		Sender:     m.Sender,
		Timestamp:  m.Ts,
		LineNumber: m.LineNumber,
	}
}

// SaveConversation stores conv and its messages in one transaction. fi
// records the source file state used to skip unchanged files later.
func (d *DB) SaveConversation(conv *parse.Conversation, fi scan.FileInfo) error {
	return d.inTx(func(tx *sql.Tx) error {
		return insertConversation(tx, conv, fi)
	})
}

// ReplaceConversation deletes prevID (if not empty), then stores conv and
// its summary s, all in one transaction. Either everything is written or
// the previous state is left untouched.
func (d *DB) ReplaceConversation(prevID string, conv *parse.Conversation, fi scan.FileInfo, s *summary.Summary) error {
	return d.inTx(func(tx *sql.Tx) error {
		if prevID != "" {
			if err := deleteConversation(tx, prevID); err != nil {
				return fmt.Errorf("delete previous conversation: %w", err)
			}
		}
		if err := insertConversation(tx, conv, fi); err != nil {
			return err
		}
		if err := insertSummary(tx, s); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
		return nil
	})
}

func (d *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func insertConversation(tx *sql.Tx, conv *parse.Conversation, fi scan.FileInfo) error {
	kind := fi.Kind
	if kind == "" {
		kind = "whatsapp"
	}
	_, err := tx.Exec(
		`INSERT INTO conversations (id, user_id, date, source_path, kind, message_count, mtime, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.UserID, conv.Date, conv.SourcePath, kind, conv.Len(),
		fi.Mtime, fi.Size, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (conversation_id, seq, message_id, sender, body, ts, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range conv.Messages {
		if _, err := stmt.Exec(conv.ID, i, m.ID, m.Sender, m.Content, m.Timestamp, m.LineNumber); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}
	return nil
}

const conversationCols = "id, user_id, date, source_path, kind, message_count, mtime, size, created_at"

func scanConversation(row interface{ Scan(...any) error }) (*ConversationRow, error) {
	var c ConversationRow
	err := row.Scan(&c.ID, &c.UserID, &c.Date, &c.SourcePath, &c.Kind, &c.MessageCount, &c.Mtime, &c.Size, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationRow returns nil, nil when id is unknown.
func (d *DB) GetConversationRow(id string) (*ConversationRow, error) {
	c, err := scanConversation(d.db.QueryRow("SELECT "+conversationCols+" FROM conversations WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// GetConversation loads a conversation with its messages, or nil, nil.
func (d *DB) GetConversation(id string) (*parse.Conversation, error) {
	row, err := d.GetConversationRow(id)
	if err != nil || row == nil {
		return nil, err
	}
	rows, err := d.GetMessages(id)
	if err != nil {
		return nil, err
	}
	msgs := make([]parse.Message, len(rows))
	for i, r := range rows {
		msgs[i] = r.Message()
	}
	return &parse.Conversation{
		ID:         row.ID,
		UserID:     row.UserID,
		Date:       row.Date,
		SourcePath: row.SourcePath,
		Messages:   msgs,
	}, nil
}

// GetConversationBySource returns the conversation ingested from path, or nil, nil.
func (d *DB) GetConversationBySource(path string) (*ConversationRow, error) {
	c, err := scanConversation(d.db.QueryRow(
		"SELECT "+conversationCols+" FROM conversations WHERE source_path = ? ORDER BY created_at DESC LIMIT 1", path,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ListConversations returns conversations newest first. An empty userID
// matches every user; limit <= 0 means no limit.
func (d *DB) ListConversations(userID string, limit int) ([]ConversationRow, error) {
	q := "SELECT " + conversationCols + " FROM conversations"
	var args []any
	if userID != "" {
		q += " WHERE user_id = ?"
		args = append(args, userID)
	}
	q += " ORDER BY date DESC, created_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConversationRow
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// AllSourcePaths maps each ingested source path to its conversation id.
func (d *DB) AllSourcePaths() (map[string]string, error) {
	rows, err := d.db.Query("SELECT source_path, id FROM conversations WHERE source_path != ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var p, id string
		if err := rows.Scan(&p, &id); err != nil {
			return nil, err
		}
		paths[p] = id
	}
	return paths, rows.Err()
}

// DeleteConversation removes a conversation with its messages and summary.
func (d *DB) DeleteConversation(id string) error {
	return d.inTx(func(tx *sql.Tx) error {
		return deleteConversation(tx, id)
	})
}

func deleteConversation(tx *sql.Tx, id string) error {
	for _, q := range []string{
		"DELETE FROM messages WHERE conversation_id = ?",
		"DELETE FROM summaries WHERE conversation_id = ?",
		"DELETE FROM conversations WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) ConversationCount() (int, error) {
	return d.count("SELECT COUNT(*) FROM conversations")
}

func (d *DB) MessageCount() (int, error) {
	return d.count("SELECT COUNT(*) FROM messages")
}

func (d *DB) SummaryCount() (int, error) {
	return d.count("SELECT COUNT(*) FROM summaries")
}

func (d *DB) count(q string) (int, error) {
	var n int
	err := d.db.QueryRow(q).Scan(&n)
	return n, err
}

const messageCols = "conversation_id, seq, message_id, sender, body, ts, line_number"

func scanMessages(rows *sql.Rows) ([]MessageRow, error) {
	defer rows.Close()
	var out []MessageRow
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.ConversationID, &m.Seq, &m.MessageID, &m.Sender, &m.Body, &m.Ts, &m.LineNumber); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) GetMessages(conversationID string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT "+messageCols+" FROM messages WHERE conversation_id = ? ORDER BY seq",
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// GetMessagesWindow returns up to context messages either side of the hit
// message, loading only those rows. hitIdx is the hit's index in the
// returned slice (-1 if hitSeq is not found, in which case every message is
// returned). startPos is the number of messages before the window and
// totalCount the size of the conversation.
func (d *DB) GetMessagesWindow(conversationID string, hitSeq, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ?", conversationID,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	// seq is dense from 0, so the hit's position is its seq
	hitPos := -1
	if hitSeq >= 0 && hitSeq < totalCount {
		hitPos = hitSeq
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = max(hitPos-context, 0)
		endPos := min(hitPos+context+1, totalCount)
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT "+messageCols+" FROM messages WHERE conversation_id = ? ORDER BY seq LIMIT ? OFFSET ?",
		conversationID, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	msgs, err = scanMessages(rows)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	hitIdx = -1
	for i, m := range msgs {
		if m.Seq == hitSeq {
			hitIdx = i
			break
		}
	}
	return msgs, hitIdx, startPos, totalCount, nil
}

// SaveSummary inserts s, replacing any summary of the same conversation.
func (d *DB) SaveSummary(s *summary.Summary) error {
	return d.inTx(func(tx *sql.Tx) error {
		return insertSummary(tx, s)
	})
}

func insertSummary(tx *sql.Tx, s *summary.Summary) error {
	topics, err := json.Marshal(s.Topics)
	if err != nil {
		return err
	}
	actions, err := json.Marshal(s.ActionItems)
	if err != nil {
		return err
	}
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(s.Statistics)
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO summaries
		 (id, user_id, conversation_id, date, topics, action_items, questions, statistics, summary_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.ConversationID, s.Date,
		string(topics), string(actions), string(questions), string(stats),
		s.Text, s.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

const summaryCols = "id, user_id, conversation_id, date, topics, action_items, questions, statistics, summary_text, created_at"

func scanSummary(row interface{ Scan(...any) error }) (*summary.Summary, error) {
	var (
		s                                    summary.Summary
		topics, actions, questions, stats, c string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.ConversationID, &s.Date, &topics, &actions, &questions, &stats, &s.Text, &c); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		raw string
		dst any
	}{
		{topics, &s.Topics},
		{actions, &s.ActionItems},
		{questions, &s.Questions},
		{stats, &s.Statistics},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decode summary %s: %w", s.ID, err)
		}
	}
	s.CreatedAt, _ = time.Parse(timeLayout, c)
	return &s, nil
}

// GetSummary returns the summary of a conversation, or nil, nil.
func (d *DB) GetSummary(conversationID string) (*summary.Summary, error) {
	s, err := scanSummary(d.db.QueryRow("SELECT "+summaryCols+" FROM summaries WHERE conversation_id = ?", conversationID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (d *DB) querySummaries(q string, args ...any) ([]summary.Summary, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []summary.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// SummariesForDate returns the user's summaries for one yyyy-MM-dd date.
func (d *DB) SummariesForDate(userID, date string) ([]summary.Summary, error) {
	return d.querySummaries(
		"SELECT "+summaryCols+" FROM summaries WHERE user_id = ? AND date = ? ORDER BY created_at",
		userID, date,
	)
}

// SummariesBetween returns the user's summaries with start <= date <= end.
func (d *DB) SummariesBetween(userID, start, end string) ([]summary.Summary, error) {
	return d.querySummaries(
		"SELECT "+summaryCols+" FROM summaries WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date, created_at",
		userID, start, end,
	)
}

func (d *DB) SaveReport(r report.Record) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO reports (id, user_id, kind, period_start, period_end, report_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Kind, r.PeriodStart, r.PeriodEnd, r.Text, r.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

// ListReports returns the user's stored reports, newest first.
func (d *DB) ListReports(userID string) ([]report.Record, error) {
	rows, err := d.db.Query(
		"SELECT id, user_id, kind, period_start, period_end, report_text, created_at FROM reports WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.Record
	for rows.Next() {
		var r report.Record
		var c string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Kind, &r.PeriodStart, &r.PeriodEnd, &r.Text, &c); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(timeLayout, c)
		out = append(out, r)
	}
	return out, rows.Err()
}
