package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

const (
	weeklyActionLimit   = 10
	weeklyQuestionLimit = 5
)

type WeeklyReport struct {
	ID                    string
	UserID                string
	Start                 time.Time
	End                   time.Time
	TotalMessages         int
	DaysCovered           int
	MostActiveDay         string
	MostActiveDayMessages int
	TopTopics             []TopicCount
	ActionItems           []string
	Questions             []string
	Daily                 []DayCount
	GeneratedAt           time.Time
}

// WeekWindow returns the seven-day period ending on end as yyyy-MM-dd dates.
func WeekWindow(end time.Time) (string, string) {
	return end.AddDate(0, 0, -6).Format(time.DateOnly), end.Format(time.DateOnly)
}

// Weekly aggregates the summaries dated within the seven days ending on end.
// Summaries outside that window are ignored.
func Weekly(userID string, end time.Time, sums []summary.Summary) *WeeklyReport {
	start, last := WeekWindow(end)
	inWeek := inRange(sums, start, last)

	r := &WeeklyReport{
		ID:            uuid.NewString(),
		UserID:        userID,
		Start:         end.AddDate(0, 0, -6),
		End:           end,
		MostActiveDay: "N/A",
		TopTopics:     topTopics(inWeek, maxTopTopics),
		ActionItems:   collect(inWeek, func(s summary.Summary) []string { return s.ActionItems }),
		Questions:     collect(inWeek, func(s summary.Summary) []string { return s.Questions }),
		Daily:         dailyCounts(inWeek),
		GeneratedAt:   time.Now(),
	}
	r.DaysCovered = len(r.Daily)
	for _, d := range r.Daily {
		r.TotalMessages += d.Messages
		if d.Messages > r.MostActiveDayMessages {
			r.MostActiveDay, r.MostActiveDayMessages = d.Date, d.Messages
		}
	}
	return r
}

func (r *WeeklyReport) AveragePerDay() float64 {
	if r.DaysCovered == 0 {
		return 0
	}
	return float64(r.TotalMessages) / float64(r.DaysCovered)
}

func (r *WeeklyReport) Format() string {
	var b strings.Builder

	b.WriteString(headerLine)
	b.WriteString("   📅 WEEKLY REPORT\n")
	fmt.Fprintf(&b, "   %s - %s\n", r.Start.Format("Jan 02, 2006"), r.End.Format("Jan 02, 2006"))
	b.WriteString(headerLine + "\n")

	b.WriteString("📊 WEEKLY STATISTICS\n")
	b.WriteString(sectionLine)
	fmt.Fprintf(&b, "Total Messages: %d\n", r.TotalMessages)
	fmt.Fprintf(&b, "Days Covered: %d\n", r.DaysCovered)
	fmt.Fprintf(&b, "Most Active Day: %s (%d messages)\n", r.MostActiveDay, r.MostActiveDayMessages)
	if r.DaysCovered > 0 {
		fmt.Fprintf(&b, "Average per Day: %.1f messages\n", r.AveragePerDay())
	}
	b.WriteString("\n")

	b.WriteString("🔑 TOP TOPICS THIS WEEK\n")
	b.WriteString(sectionLine)
	writeTopics(&b, r.TopTopics)
	b.WriteString("\n")

	fmt.Fprintf(&b, "⚡ ACTION ITEMS (%d total)\n", len(r.ActionItems))
	b.WriteString(sectionLine)
	if len(r.ActionItems) == 0 {
		b.WriteString("No action items this week\n")
	}
	writeLimited(&b, "☐ ", r.ActionItems, weeklyActionLimit)
	b.WriteString("\n")

	if len(r.Questions) > 0 {
		fmt.Fprintf(&b, "❓ PENDING QUESTIONS (%d total)\n", len(r.Questions))
		b.WriteString(sectionLine)
		writeLimited(&b, "? ", r.Questions, weeklyQuestionLimit)
		b.WriteString("\n")
	}

	b.WriteString("📆 DAILY BREAKDOWN\n")
	b.WriteString(sectionLine)
	for _, d := range r.Daily {
		fmt.Fprintf(&b, "%s: %s %d msgs\n", d.Date, progressBar(d.Messages, r.MostActiveDayMessages), d.Messages)
	}
	b.WriteString("\n")

	b.WriteString(headerLine)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.DateTime))
	b.WriteString("GhostWriter AI Weekly Report\n")
	b.WriteString(headerLine)
	return b.String()
}

func (r *WeeklyReport) Record() Record {
	return Record{
		ID:          r.ID,
		UserID:      r.UserID,
		Kind:        "weekly",
		PeriodStart: r.Start.Format(time.DateOnly),
		PeriodEnd:   r.End.Format(time.DateOnly),
		Text:        r.Format(),
		CreatedAt:   r.GeneratedAt,
	}
}

func writeTopics(b *strings.Builder, topics []TopicCount) {
	if len(topics) == 0 {
		b.WriteString("No topics identified\n")
		return
	}
	for i, t := range topics {
		fmt.Fprintf(b, "%d. %s (%d mentions)\n", i+1, t.Topic, t.Days)
	}
}

// writeLimited prints at most limit items, then a "... and N more" line.
func writeLimited(b *strings.Builder, prefix string, items []string, limit int) {
	for i, it := range items {
		if i == limit {
			fmt.Fprintf(b, "... and %d more\n", len(items)-limit)
			break
		}
		b.WriteString(prefix + it + "\n")
	}
}
