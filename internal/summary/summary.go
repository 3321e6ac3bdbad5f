package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
)

var (
	headerLine  = strings.Repeat("═", 51) + "\n"
	sectionLine = strings.Repeat("─", 49) + "\n"
)

// Summary is the daily digest generated from one analysed conversation.
type Summary struct {
	ID             string         `json:"summary_id"`
	UserID         string         `json:"user_id"`
	ConversationID string         `json:"conversation_id"`
	Date           string         `json:"date"`
	Topics         []string       `json:"key_topics"`
	ActionItems    []string       `json:"action_items"`
	Questions      []string       `json:"pending_questions"`
	Statistics     map[string]any `json:"statistics"`
	Text           string         `json:"summary_text"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Generate builds a summary from an analysis result and renders its text.
func Generate(userID, conversationID, date string, r analysis.Result) *Summary {
	s := &Summary{
		ID:             uuid.NewString(),
		UserID:         userID,
		ConversationID: conversationID,
		Date:           date,
		Topics:         nonNil(r.Topics),
		ActionItems:    nonNil(r.ActionItems),
		Questions:      nonNil(r.Questions),
		Statistics:     r.Statistics,
		CreatedAt:      time.Now(),
	}
	if s.Statistics == nil {
		s.Statistics = map[string]any{}
	}
	s.Text = Format(s)
	return s
}

// Result returns the analysis facets stored in s.
func (s *Summary) Result() analysis.Result {
	return analysis.Result{
		Topics:      s.Topics,
		ActionItems: s.ActionItems,
		Questions:   s.Questions,
		Statistics:  s.Statistics,
	}
}

func (s *Summary) TotalMessages() int { return s.Result().TotalMessages() }

// Format renders the plain-text daily summary. Sections for action items
// and questions are left out when empty.
func Format(s *Summary) string {
	var b strings.Builder
	r := s.Result()

	b.WriteString(headerLine)
	fmt.Fprintf(&b, "   📅 DAILY SUMMARY - %s\n", s.Date)
	b.WriteString(headerLine)
	b.WriteString("\n")

	b.WriteString("📊 MESSAGE STATISTICS\n")
	b.WriteString(sectionLine)
	fmt.Fprintf(&b, "Total Messages: %d\n", r.TotalMessages())
	if breakdown := r.SenderBreakdown(); breakdown != nil {
		b.WriteString("Participants:\n")
		for _, name := range SortedNames(breakdown) {
			fmt.Fprintf(&b, "  • %s: %d messages\n", name, breakdown[name])
		}
	}
	mostActive := r.MostActive()
	if mostActive == "" {
		mostActive = "N/A"
	}
	fmt.Fprintf(&b, "Most Active: %s\n", mostActive)
	if _, ok := s.Statistics[analysis.KeyAvgMessageLength]; ok {
		fmt.Fprintf(&b, "Avg Message Length: %d characters\n", r.AvgMessageLength())
	}
	b.WriteString("\n")

	b.WriteString("🔑 KEY TOPICS DISCUSSED\n")
	b.WriteString(sectionLine)
	if len(s.Topics) == 0 {
		b.WriteString("No specific topics identified\n")
	}
	for i, t := range s.Topics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	b.WriteString("\n")

	if len(s.ActionItems) > 0 {
		b.WriteString("⚡ ACTION ITEMS\n")
		b.WriteString(sectionLine)
		for _, item := range s.ActionItems {
			b.WriteString("☐ " + item + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.Questions) > 0 {
		b.WriteString("❓ PENDING QUESTIONS\n")
		b.WriteString(sectionLine)
		for _, q := range s.Questions {
			b.WriteString("? " + q + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(headerLine)
	b.WriteString("Generated by GhostWriter AI\n")
	b.WriteString(headerLine)
	return b.String()
}

// SortedNames returns the keys of a sender breakdown in lexical order.
func SortedNames(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
