package analysis

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

var ErrInvalidInput = errors.New("invalid analysis input")

// Analyzer runs an ordered list of strategies over a conversation and merges
// their results. It is immutable; the With* methods return a new Analyzer,
// so one value can be shared between goroutines.
type Analyzer struct {
	strategies []Strategy
}

// New returns an Analyzer using strategies, or the four defaults when none
// are given.
func New(strategies ...Strategy) Analyzer {
	if len(strategies) == 0 {
		return Analyzer{strategies: DefaultStrategies()}
	}
	return NewEmpty().WithStrategies(strategies...)
}

// NewEmpty returns an Analyzer with no strategies.
func NewEmpty() Analyzer {
	return Analyzer{strategies: []Strategy{}}
}

func (a Analyzer) Strategies() []Strategy {
	return append([]Strategy(nil), a.strategies...)
}

// WithStrategy returns a copy of a with s appended. A nil s is ignored.
func (a Analyzer) WithStrategy(s Strategy) Analyzer {
	if s == nil {
		return a
	}
	next := make([]Strategy, 0, len(a.strategies)+1)
	next = append(next, a.strategies...)
	return Analyzer{strategies: append(next, s)}
}

// WithStrategies returns an Analyzer using exactly ss, skipping nils.
func (a Analyzer) WithStrategies(ss ...Strategy) Analyzer {
	next := make([]Strategy, 0, len(ss))
	for _, s := range ss {
		if s != nil {
			next = append(next, s)
		}
	}
	return Analyzer{strategies: next}
}

// Analyze runs the configured strategies over conv.
func (a Analyzer) Analyze(conv *parse.Conversation) (Result, error) {
	return run(conv, a.strategies)
}

// AnalyzeWith runs ss instead of the configured strategies, once.
func (a Analyzer) AnalyzeWith(conv *parse.Conversation, ss ...Strategy) (Result, error) {
	return run(conv, ss)
}

func run(conv *parse.Conversation, ss []Strategy) (Result, error) {
	if conv == nil {
		return Result{}, fmt.Errorf("%w: conversation is nil", ErrInvalidInput)
	}
	if conv.Len() == 0 {
		return Result{}, fmt.Errorf("%w: conversation %s has no messages", ErrInvalidInput, conv.ID)
	}

	merged := NewResult()
	for _, s := range ss {
		if s == nil {
			continue
		}
		r := s.Analyze(conv.Messages)
		log.Debug().
			Str("strategy", s.Name()).
			Str("conversation", conv.ID).
			Int("topics", len(r.Topics)).
			Int("action_items", len(r.ActionItems)).
			Int("questions", len(r.Questions)).
			Msg("strategy done")
		merged.merge(r)
	}
	return merged, nil
}
