package analysis

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

// Strategy computes one facet of a Result from an ordered message list.
// Implementations must not modify the messages.
type Strategy interface {
	Name() string
	Analyze(msgs []parse.Message) Result
}

type funcStrategy struct {
	name string
	fn   func([]parse.Message) Result
}

func (s funcStrategy) Name() string                        { return s.name }
func (s funcStrategy) Analyze(msgs []parse.Message) Result { return s.fn(msgs) }

// NewStrategy adapts fn into a Strategy called name.
func NewStrategy(name string, fn func([]parse.Message) Result) Strategy {
	return funcStrategy{name: name, fn: fn}
}

var (
	TopicExtraction = NewStrategy("topics", func(msgs []parse.Message) Result {
		r := NewResult()
		r.Topics = ExtractTopics(msgs)
		return r
	})

	ActionItems = NewStrategy("action_items", func(msgs []parse.Message) Result {
		r := NewResult()
		r.ActionItems = FindActionItems(msgs)
		return r
	})

	QuestionDetection = NewStrategy("questions", func(msgs []parse.Message) Result {
		r := NewResult()
		r.Questions = FindQuestions(msgs)
		return r
	})

	Statistics = NewStrategy("statistics", func(msgs []parse.Message) Result {
		r := NewResult()
		r.Statistics = ComputeStatistics(msgs)
		return r
	})
)

// DefaultStrategies returns the four built-in strategies in their standard order.
func DefaultStrategies() []Strategy {
	return []Strategy{TopicExtraction, ActionItems, QuestionDetection, Statistics}
}

// StrategyByName looks up a built-in strategy. Matching ignores case and
// accepts "-" for "_".
func StrategyByName(name string) (Strategy, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, s := range DefaultStrategies() {
		if s.Name() == key {
			return s, nil
		}
	}
	switch key {
	case "topic", "topic_extraction":
		return TopicExtraction, nil
	case "actions", "action_item":
		return ActionItems, nil
	case "question", "question_detection":
		return QuestionDetection, nil
	case "stats":
		return Statistics, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// StrategiesByName resolves names in order. An empty list yields the defaults.
func StrategiesByName(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return DefaultStrategies(), nil
	}
	out := make([]Strategy, 0, len(names))
	for _, n := range names {
		s, err := StrategyByName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
