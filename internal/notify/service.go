package notify

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/ghostwriter/internal/config"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

// Service fans a summary out to every configured notifier. Individual
// failures are logged and never returned.
type Service struct {
	notifiers []Notifier
}

// NewService keeps only the configured notifiers.
func NewService(notifiers ...Notifier) *Service {
	s := &Service{}
	for _, n := range notifiers {
		if n == nil || !n.IsConfigured() {
			continue
		}
		s.notifiers = append(s.notifiers, n)
	}
	return s
}

// FromConfig builds the service described by the [notify] config section.
// Console output goes to w.
func FromConfig(cfg config.Notify, w io.Writer) *Service {
	var ns []Notifier
	if cfg.Console {
		ns = append(ns, NewConsole(w))
	}
	if cfg.LogFile != "" {
		ns = append(ns, NewLogFile(cfg.LogFile))
	}
	// a typed nil pointer must not reach the interface slice
	if r := NewResendNotifier(cfg.ResendAPIKey, cfg.From, cfg.Email); r != nil {
		ns = append(ns, r)
	}
	return NewService(ns...)
}

// Names lists the active notifiers.
func (s *Service) Names() []string {
	names := make([]string, len(s.notifiers))
	for i, n := range s.notifiers {
		names[i] = n.Name()
	}
	return names
}

func (s *Service) Notify(ctx context.Context, sum *summary.Summary) error {
	for _, n := range s.notifiers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.Notify(ctx, sum); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Warn().Err(err).Str("notifier", n.Name()).Str("date", sum.Date).Msg("notification failed")
			continue
		}
		log.Debug().Str("notifier", n.Name()).Str("date", sum.Date).Msg("notification sent")
	}
	return nil
}
