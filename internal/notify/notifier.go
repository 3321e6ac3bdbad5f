// Package notify delivers newly generated daily summaries to the console,
// an append-only log file, or e-mail.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

// Notifier delivers a summary to one destination.
type Notifier interface {
	Notify(ctx context.Context, s *summary.Summary) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured reports whether the notifier can deliver at all
	IsConfigured() bool
}

// Console prints a short block per summary.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) IsConfigured() bool { return c != nil && c.w != nil }

func (c *Console) Notify(_ context.Context, s *summary.Summary) error {
	_, err := fmt.Fprintf(c.w, "📬 New summary for %s: %d messages, %d topics, %d action items, %d questions\n",
		s.Date, s.TotalMessages(), len(s.Topics), len(s.ActionItems), len(s.Questions))
	return err
}

// LogFile appends one JSON line per summary to a file.
type LogFile struct {
	path string
	mu   sync.Mutex
}

func NewLogFile(path string) *LogFile {
	return &LogFile{path: path}
}

func (l *LogFile) Name() string { return "log_file" }

func (l *LogFile) IsConfigured() bool { return l != nil && l.path != "" }

func (l *LogFile) Notify(_ context.Context, s *summary.Summary) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open notification log: %w", err)
	}
	defer f.Close()

	logger := zerolog.New(f).With().Timestamp().Logger()
	logger.Info().
		Str("summary_id", s.ID).
		Str("user_id", s.UserID).
		Str("conversation_id", s.ConversationID).
		Str("date", s.Date).
		Int("messages", s.TotalMessages()).
		Strs("topics", s.Topics).
		Int("action_items", len(s.ActionItems)).
		Int("questions", len(s.Questions)).
		Msg("summary generated")
	return nil
}
