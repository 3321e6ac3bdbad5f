// Package report aggregates daily summaries into weekly and monthly reports.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

const (
	maxTopTopics = 10
	barCells     = 10
)

var (
	headerLine  = strings.Repeat("═", 51) + "\n"
	sectionLine = strings.Repeat("─", 49) + "\n"
)

// Record is a rendered report as it is persisted.
type Record struct {
	ID          string
	UserID      string
	Kind        string // "weekly" or "monthly"
	PeriodStart string
	PeriodEnd   string
	Text        string
	CreatedAt   time.Time
}

type TopicCount struct {
	Topic string
	Days  int
}

type DayCount struct {
	Date     string
	Messages int
}

// progressBar renders value relative to peak as ten cells of █ and ░.
func progressBar(value, peak int) string {
	filled := 0
	if peak > 0 {
		filled = min(barCells, max(0, value*barCells/peak))
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)
}

// inRange keeps summaries dated start..end inclusive, ordered by date.
func inRange(sums []summary.Summary, start, end string) []summary.Summary {
	var out []summary.Summary
	for _, s := range sums {
		if s.Date >= start && s.Date <= end {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// dailyCounts sums messages per date, in date order. sums must be sorted.
func dailyCounts(sums []summary.Summary) []DayCount {
	var out []DayCount
	for _, s := range sums {
		n := s.TotalMessages()
		if len(out) > 0 && out[len(out)-1].Date == s.Date {
			out[len(out)-1].Messages += n
			continue
		}
		out = append(out, DayCount{Date: s.Date, Messages: n})
	}
	return out
}

// topTopics ranks topic labels by the number of distinct days they were a
// key topic on. Equal counts keep first-seen order.
func topTopics(sums []summary.Summary, limit int) []TopicCount {
	days := map[string]map[string]struct{}{}
	var order []string
	for _, s := range sums {
		for _, t := range s.Topics {
			label := analysis.TopicLabel(t)
			if label == "" {
				continue
			}
			if days[label] == nil {
				days[label] = map[string]struct{}{}
				order = append(order, label)
			}
			days[label][s.Date] = struct{}{}
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(days[order[i]]) > len(days[order[j]])
	})

	out := []TopicCount{}
	for _, label := range order {
		if len(out) == limit {
			break
		}
		out = append(out, TopicCount{Topic: label, Days: len(days[label])})
	}
	return out
}

func collect(sums []summary.Summary, pick func(summary.Summary) []string) []string {
	out := []string{}
	for _, s := range sums {
		out = append(out, pick(s)...)
	}
	return out
}
