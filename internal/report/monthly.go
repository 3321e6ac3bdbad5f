package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

const (
	monthlyActionLimit = 5
	maxWeeksInMonth    = 6
)

type MonthlyReport struct {
	ID                string
	UserID            string
	Year              int
	Month             time.Month
	TotalMessages     int
	DaysCovered       int
	Weeks             [maxWeeksInMonth]int // messages per Sunday-start week of the month
	MostActiveWeek    int                  // 1-based, 0 when there is no activity
	DayOfWeek         [7]int               // messages per weekday, indexed by time.Weekday
	MostActiveWeekday string
	Trend             string
	TopTopics         []TopicCount
	ActionItems       []string
	GeneratedAt       time.Time
}

// MonthRange returns the first and last day of a month as yyyy-MM-dd dates.
func MonthRange(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.Format(time.DateOnly), first.AddDate(0, 1, -1).Format(time.DateOnly)
}

// Monthly aggregates the summaries dated within the given month.
func Monthly(userID string, year int, month time.Month, sums []summary.Summary) (*MonthlyReport, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	start, end := MonthRange(year, month)
	inMonth := inRange(sums, start, end)

	r := &MonthlyReport{
		ID:                uuid.NewString(),
		UserID:            userID,
		Year:              year,
		Month:             month,
		MostActiveWeekday: "N/A",
		TopTopics:         topTopics(inMonth, maxTopTopics),
		ActionItems:       collect(inMonth, func(s summary.Summary) []string { return s.ActionItems }),
		GeneratedAt:       time.Now(),
	}

	var seen [maxWeeksInMonth]bool
	daily := dailyCounts(inMonth)
	r.DaysCovered = len(daily)
	for _, d := range daily {
		t, err := time.Parse(time.DateOnly, d.Date)
		if err != nil {
			continue
		}
		r.TotalMessages += d.Messages
		w := weekOfMonth(t)
		r.Weeks[w-1] += d.Messages
		seen[w-1] = true
		r.DayOfWeek[t.Weekday()] += d.Messages
	}

	best := 0
	for i, n := range r.Weeks {
		if n > best {
			best, r.MostActiveWeek = n, i+1
		}
	}
	best = 0
	for wd, n := range r.DayOfWeek {
		if n > best {
			best, r.MostActiveWeekday = n, time.Weekday(wd).String()
		}
	}
	r.Trend = r.trend(seen)
	return r, nil
}

// weekOfMonth numbers weeks from 1, each week starting on Sunday.
func weekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return (t.Day()+int(first.Weekday())-1)/7 + 1
}

// trend compares the last week with activity against week one. seen marks
// weeks that had at least one summary.
func (r *MonthlyReport) trend(seen [maxWeeksInMonth]bool) string {
	weeks, last := 0, 0
	for i, ok := range seen {
		if ok {
			weeks++
			last = i
		}
	}
	if weeks < 2 {
		return "Insufficient data for trend analysis"
	}
	first := float64(r.Weeks[0])
	lastN := float64(r.Weeks[last])
	switch {
	case lastN > first*1.2:
		return "Activity increased throughout the month"
	case lastN < first*0.8:
		return "Activity decreased throughout the month"
	case r.MostActiveWeek == 2 || r.MostActiveWeek == 3:
		return "Activity peaked mid-month"
	default:
		return "Activity remained relatively stable"
	}
}

func (r *MonthlyReport) AveragePerDay() float64 {
	if r.DaysCovered == 0 {
		return 0
	}
	return float64(r.TotalMessages) / float64(r.DaysCovered)
}

func (r *MonthlyReport) Title() string {
	return fmt.Sprintf("%s %d", r.Month, r.Year)
}

func (r *MonthlyReport) Format() string {
	var b strings.Builder

	b.WriteString(headerLine)
	fmt.Fprintf(&b, "   📅 MONTHLY REPORT: %s\n", r.Title())
	b.WriteString(headerLine + "\n")

	b.WriteString("📊 MONTHLY STATISTICS\n")
	b.WriteString(sectionLine)
	fmt.Fprintf(&b, "Total Messages: %s\n", humanize.Comma(int64(r.TotalMessages)))
	fmt.Fprintf(&b, "Days Covered: %d\n", r.DaysCovered)
	fmt.Fprintf(&b, "Average per Day: %.1f messages\n\n", r.AveragePerDay())

	b.WriteString("📈 WEEKLY BREAKDOWN\n")
	b.WriteString(sectionLine)
	peak := 0
	for _, n := range r.Weeks {
		peak = max(peak, n)
	}
	for i, n := range r.Weeks {
		week := i + 1
		if n == 0 && week > 4 {
			continue
		}
		marker := ""
		if week == r.MostActiveWeek {
			marker = " ← Most Active"
		}
		fmt.Fprintf(&b, "Week %d: %s %d msgs%s\n", week, progressBar(n, peak), n, marker)
	}
	b.WriteString("\n")

	b.WriteString("📆 PATTERNS IDENTIFIED\n")
	b.WriteString(sectionLine)
	fmt.Fprintf(&b, "• Most active day of week: %s\n", r.MostActiveWeekday)
	fmt.Fprintf(&b, "• Most active week: Week %d\n", r.MostActiveWeek)
	fmt.Fprintf(&b, "• Trend: %s\n\n", r.Trend)

	b.WriteString("📊 ACTIVITY BY DAY OF WEEK\n")
	b.WriteString(sectionLine)
	peak = 0
	for _, n := range r.DayOfWeek {
		peak = max(peak, n)
	}
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7) // Monday first, Sunday last
		fmt.Fprintf(&b, "%s: %s %d\n", wd.String()[:3], progressBar(r.DayOfWeek[wd], peak), r.DayOfWeek[wd])
	}
	b.WriteString("\n")

	b.WriteString("🔑 TOP TOPICS THIS MONTH\n")
	b.WriteString(sectionLine)
	writeTopics(&b, r.TopTopics)
	b.WriteString("\n")

	b.WriteString("⚡ ACTION ITEMS\n")
	b.WriteString(sectionLine)
	fmt.Fprintf(&b, "Total identified: %d\n", len(r.ActionItems))
	if len(r.ActionItems) > 0 {
		b.WriteString("\nRecent action items:\n")
		writeLimited(&b, "☐ ", r.ActionItems, monthlyActionLimit)
	}
	b.WriteString("\n")

	b.WriteString(headerLine)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.DateTime))
	b.WriteString("GhostWriter AI Monthly Report\n")
	b.WriteString(headerLine)
	return b.String()
}

func (r *MonthlyReport) Record() Record {
	start, end := MonthRange(r.Year, r.Month)
	return Record{
		ID:          r.ID,
		UserID:      r.UserID,
		Kind:        "monthly",
		PeriodStart: start,
		PeriodEnd:   end,
		Text:        r.Format(),
		CreatedAt:   r.GeneratedAt,
	}
}
