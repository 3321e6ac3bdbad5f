package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/ghostwriter/internal/index"
)

type Result struct {
	ConversationID string
	Seq            int // message position in the conversation
	Date           string
	Sender         string
	Timestamp      string
	LineNumber     int
	SourcePath     string
	Summary        string // top topic of the conversation's summary
	Snippet        string
	Rank           float64
}

type Options struct {
	Query  string
	UserID string // "" = every user
	Sender string // "" = all, case-insensitive otherwise
	Since  string // "" = no filter, e.g. "2024-01-01"
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	runes := []rune(text)
	if idx < 0 || len(lower) != len(text) {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := max(runePos-contextChars, 0)
	end := min(runePos+qLen+contextChars, len(runes))

	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// Search finds messages matching opts.Query and keeps the best hit per
// conversation.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// over-fetch so enough remain after dedup
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.ConversationID] {
			continue
		}
		seen[r.ConversationID] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

// filters returns the shared WHERE conditions after the match condition.
func filters(opts Options) ([]string, []any) {
	var conditions []string
	var args []any
	if opts.UserID != "" {
		conditions = append(conditions, "c.user_id = ?")
		args = append(args, opts.UserID)
	}
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ? COLLATE NOCASE")
		args = append(args, opts.Sender)
	}
	if opts.Since != "" {
		conditions = append(conditions, "c.date >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

const resultCols = `
			m.conversation_id,
			m.seq,
			c.date,
			m.sender,
			m.ts,
			m.line_number,
			c.source_path,
			COALESCE(json_extract(sm.topics, '$[0]'), '')`

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts)
	conditions = append([]string{"messages_fts MATCH ?"}, conditions...)
	args = append([]any{ftsQuery(opts.Query)}, args...)

	query := fmt.Sprintf(`
		SELECT %s,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 20) AS snip,
			bm25(messages_fts) AS rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN conversations c ON m.conversation_id = c.id
		LEFT JOIN summaries sm ON sm.conversation_id = c.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, resultCols, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := scanResult(rows, &r, &r.Snippet, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuery quotes each term so chat punctuation is never read as FTS5
// syntax. Terms are ANDed.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts)
	// LIKE match for CJK substring search
	conditions = append([]string{`m.body LIKE ? ESCAPE '\'`}, conditions...)
	args = append([]any{"%" + likeEscaper.Replace(opts.Query) + "%"}, args...)

	query := fmt.Sprintf(`
		SELECT %s,
			m.body
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		LEFT JOIN summaries sm ON sm.conversation_id = c.id
		WHERE %s
		ORDER BY c.date DESC, m.seq
		LIMIT ?
	`, resultCols, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var body string
		if err := scanResult(rows, &r, &body); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(body, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(rows *sql.Rows, r *Result, extra ...any) error {
	dest := append([]any{
		&r.ConversationID, &r.Seq, &r.Date, &r.Sender, &r.Timestamp,
		&r.LineNumber, &r.SourcePath, &r.Summary,
	}, extra...)
	return rows.Scan(dest...)
}

// ListAll returns one entry per conversation, newest first, for browsing
// without a query. Seq is -1 since there is no hit message.
func ListAll(db *index.DB, userID string, limit int) ([]Result, error) {
	rows, err := db.ListConversations(userID, limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(rows))
	for _, c := range rows {
		r := Result{
			ConversationID: c.ID,
			Seq:            -1,
			Date:           c.Date,
			SourcePath:     c.SourcePath,
			Snippet:        fmt.Sprintf("%d messages", c.MessageCount),
		}
		s, err := db.GetSummary(c.ID)
		if err != nil {
			return nil, err
		}
		if s != nil && len(s.Topics) > 0 {
			r.Summary = s.Topics[0]
		}
		results = append(results, r)
	}
	return results, nil
}
