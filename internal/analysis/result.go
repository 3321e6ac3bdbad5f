package analysis

import (
	"math"
	"strconv"
)

// Statistic keys written by the statistics strategy.
const (
	KeyTotalMessages    = "total_messages"
	KeySenderBreakdown  = "sender_breakdown"
	KeyMostActive       = "most_active"
	KeyFirstMessage     = "first_message"
	KeyLastMessage      = "last_message"
	KeyAvgMessageLength = "avg_message_length"
)

// Result holds the facets produced by one or more strategies. A single
// strategy fills only its own facet and leaves the rest empty.
type Result struct {
	Topics      []string       `json:"topics"`
	ActionItems []string       `json:"action_items"`
	Questions   []string       `json:"questions"`
	Statistics  map[string]any `json:"statistics"`
}

func NewResult() Result {
	return Result{
		Topics:      []string{},
		ActionItems: []string{},
		Questions:   []string{},
		Statistics:  map[string]any{},
	}
}

// merge appends other's lists to r and copies its statistics over r's.
func (r *Result) merge(other Result) {
	r.Topics = append(r.Topics, other.Topics...)
	r.ActionItems = append(r.ActionItems, other.ActionItems...)
	r.Questions = append(r.Questions, other.Questions...)
	for k, v := range other.Statistics {
		r.Statistics[k] = v
	}
}

// The accessors below accept the values ComputeStatistics stores as well as
// the float64/string forms they take after a JSON round trip.

func (r Result) TotalMessages() int {
	return toInt(r.Statistics[KeyTotalMessages])
}

func (r Result) AvgMessageLength() int {
	return toInt(r.Statistics[KeyAvgMessageLength])
}

func (r Result) MostActive() string {
	s, _ := r.Statistics[KeyMostActive].(string)
	return s
}

func (r Result) FirstMessage() string {
	s, _ := r.Statistics[KeyFirstMessage].(string)
	return s
}

func (r Result) LastMessage() string {
	s, _ := r.Statistics[KeyLastMessage].(string)
	return s
}

// SenderBreakdown returns message counts per sender, or nil when absent.
func (r Result) SenderBreakdown() map[string]int {
	switch v := r.Statistics[KeySenderBreakdown].(type) {
	case map[string]int:
		out := make(map[string]int, len(v))
		for k, n := range v {
			out[k] = n
		}
		return out
	case map[string]any:
		out := make(map[string]int, len(v))
		for k, n := range v {
			out[k] = toInt(n)
		}
		return out
	}
	return nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(math.Round(n))
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}
