package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

func day(date string, total int, topics ...string) summary.Summary {
	return summary.Summary{
		Date:        date,
		Topics:      topics,
		ActionItems: []string{},
		Questions:   []string{},
		Statistics:  map[string]any{analysis.KeyTotalMessages: total},
	}
}

func numbered(prefix string, from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", progressBar(5, 0))
	assert.Equal(t, "██████████", progressBar(25, 25))
	assert.Equal(t, "████░░░░░░", progressBar(10, 25))
	assert.Equal(t, "██████████", progressBar(40, 25))
}

func weeklyFixture() []summary.Summary {
	d04 := day("2024-12-04", 10, "budget (mentioned 3 times)", "trip (mentioned 2 times)")
	d04.ActionItems = []string{"a1"}
	d06a := day("2024-12-06", 20, "trip (mentioned 4 times)")
	d06a.ActionItems = numbered("a", 2, 12)
	d06b := day("2024-12-06", 5, "budget (mentioned 2 times)")
	d08 := day("2024-12-08", 25, "budget (mentioned 5 times)")
	d08.Questions = numbered("q", 1, 6)

	return []summary.Summary{
		d08,
		day("2024-12-03", 100, "ignored (mentioned 9 times)"),
		d04, d06a, d06b,
		day("2024-12-11", 100),
	}
}

func TestWeekly(t *testing.T) {
	r := Weekly("u1", date("2024-12-10"), weeklyFixture())

	want := &WeeklyReport{
		UserID:                "u1",
		Start:                 date("2024-12-04"),
		End:                   date("2024-12-10"),
		TotalMessages:         60,
		DaysCovered:           3,
		MostActiveDay:         "2024-12-06",
		MostActiveDayMessages: 25,
		TopTopics:             []TopicCount{{"budget", 3}, {"trip", 2}},
		ActionItems:           append([]string{"a1"}, numbered("a", 2, 12)...),
		Questions:             numbered("q", 1, 6),
		Daily: []DayCount{
			{"2024-12-04", 10},
			{"2024-12-06", 25},
			{"2024-12-08", 25},
		},
	}
	if diff := cmp.Diff(want, r, cmpopts.IgnoreFields(WeeklyReport{}, "ID", "GeneratedAt")); diff != "" {
		t.Errorf("Weekly() mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 20.0, r.AveragePerDay(), 1e-9)
}

func TestWeeklyFormat(t *testing.T) {
	text := Weekly("u1", date("2024-12-10"), weeklyFixture()).Format()

	for _, want := range []string{
		"   Dec 04, 2024 - Dec 10, 2024\n",
		"Most Active Day: 2024-12-06 (25 messages)\n",
		"Average per Day: 20.0 messages\n",
		"1. budget (3 mentions)\n2. trip (2 mentions)\n",
		"⚡ ACTION ITEMS (12 total)\n",
		"☐ a10\n... and 2 more\n",
		"❓ PENDING QUESTIONS (6 total)\n",
		"? q5\n... and 1 more\n",
		"2024-12-04: ████░░░░░░ 10 msgs\n",
		"2024-12-06: ██████████ 25 msgs\n",
		"GhostWriter AI Weekly Report\n",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "a11")
	assert.NotContains(t, text, "ignored")
}

func TestWeekly_Empty(t *testing.T) {
	r := Weekly("u1", date("2024-12-10"), nil)

	assert.Equal(t, "N/A", r.MostActiveDay)
	assert.Zero(t, r.AveragePerDay())

	text := r.Format()
	assert.Contains(t, text, "Most Active Day: N/A (0 messages)")
	assert.Contains(t, text, "No topics identified")
	assert.Contains(t, text, "No action items this week")
	assert.NotContains(t, text, "Average per Day")
	assert.NotContains(t, text, "PENDING QUESTIONS")
}

func TestWeekly_Record(t *testing.T) {
	r := Weekly("u1", date("2024-12-10"), weeklyFixture())
	rec := r.Record()

	assert.Equal(t, "weekly", rec.Kind)
	assert.Equal(t, "2024-12-04", rec.PeriodStart)
	assert.Equal(t, "2024-12-10", rec.PeriodEnd)
	assert.Equal(t, r.ID, rec.ID)
	assert.Equal(t, r.Format(), rec.Text)
}

func TestWeekOfMonth(t *testing.T) {
	assert.Equal(t, 1, weekOfMonth(date("2024-12-01")))
	assert.Equal(t, 1, weekOfMonth(date("2024-12-07")))
	assert.Equal(t, 2, weekOfMonth(date("2024-12-08")))
	assert.Equal(t, 5, weekOfMonth(date("2024-12-31")))
	assert.Equal(t, 1, weekOfMonth(date("2025-03-01")))
	assert.Equal(t, 2, weekOfMonth(date("2025-03-02")))
	assert.Equal(t, 6, weekOfMonth(date("2025-03-30")))
}

func monthlyFixture() []summary.Summary {
	d02 := day("2024-12-02", 10, "budget (mentioned 2 times)")
	d02.ActionItems = numbered("a", 1, 7)
	return []summary.Summary{
		day("2024-11-30", 99, "ignored (mentioned 2 times)"),
		d02,
		day("2024-12-09", 40, "budget (mentioned 3 times)", "trip (mentioned 2 times)"),
		day("2024-12-10", 10),
		day("2024-12-30", 11),
	}
}

func TestMonthly(t *testing.T) {
	r, err := Monthly("u1", 2024, time.December, monthlyFixture())
	require.NoError(t, err)

	want := &MonthlyReport{
		UserID:            "u1",
		Year:              2024,
		Month:             time.December,
		TotalMessages:     71,
		DaysCovered:       4,
		Weeks:             [6]int{10, 50, 0, 0, 11, 0},
		MostActiveWeek:    2,
		DayOfWeek:         [7]int{time.Monday: 61, time.Tuesday: 10},
		MostActiveWeekday: "Monday",
		Trend:             "Activity peaked mid-month",
		TopTopics:         []TopicCount{{"budget", 2}, {"trip", 1}},
		ActionItems:       numbered("a", 1, 7),
	}
	if diff := cmp.Diff(want, r, cmpopts.IgnoreFields(MonthlyReport{}, "ID", "GeneratedAt")); diff != "" {
		t.Errorf("Monthly() mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 17.75, r.AveragePerDay(), 1e-9)
}

func TestMonthlyFormat(t *testing.T) {
	r, err := Monthly("u1", 2024, time.December, monthlyFixture())
	require.NoError(t, err)
	text := r.Format()

	for _, want := range []string{
		"   📅 MONTHLY REPORT: December 2024\n",
		"Total Messages: 71\n",
		"Week 2: ██████████ 50 msgs ← Most Active\n",
		"Week 3: ░░░░░░░░░░ 0 msgs\n",
		"Week 5: ██░░░░░░░░ 11 msgs\n",
		"• Most active day of week: Monday\n",
		"• Trend: Activity peaked mid-month\n",
		"Mon: ██████████ 61\n",
		"Sun: ░░░░░░░░░░ 0\n",
		"Total identified: 7\n",
		"☐ a5\n... and 2 more\n",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "Week 6")
}

func TestMonthly_LargeTotalIsGrouped(t *testing.T) {
	r, err := Monthly("u1", 2024, time.December, []summary.Summary{day("2024-12-05", 1234)})
	require.NoError(t, err)

	assert.Contains(t, r.Format(), "Total Messages: 1,234\n")
}

func TestMonthly_Trend(t *testing.T) {
	tests := []struct {
		name string
		sums []summary.Summary
		want string
	}{
		{"insufficient", []summary.Summary{day("2024-12-02", 10)}, "Insufficient data for trend analysis"},
		{"increased", []summary.Summary{day("2024-12-02", 10), day("2024-12-09", 20)}, "Activity increased throughout the month"},
		{"decreased", []summary.Summary{day("2024-12-02", 10), day("2024-12-09", 5)}, "Activity decreased throughout the month"},
		{"stable", []summary.Summary{day("2024-12-02", 10), day("2024-12-30", 10)}, "Activity remained relatively stable"},
		{"peaked", []summary.Summary{day("2024-12-02", 10), day("2024-12-16", 30), day("2024-12-23", 10)}, "Activity peaked mid-month"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Monthly("u1", 2024, time.December, tt.sums)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Trend)
		})
	}
}

func TestMonthly_InvalidMonth(t *testing.T) {
	_, err := Monthly("u1", 2024, 13, nil)
	assert.Error(t, err)
	_, err = Monthly("u1", 2024, 0, nil)
	assert.Error(t, err)
}

func TestMonthly_Empty(t *testing.T) {
	r, err := Monthly("u1", 2024, time.February, nil)
	require.NoError(t, err)

	assert.Equal(t, "N/A", r.MostActiveWeekday)
	assert.Equal(t, 0, r.MostActiveWeek)
	assert.Equal(t, "Insufficient data for trend analysis", r.Trend)
	assert.Contains(t, r.Format(), "No topics identified")

	rec := r.Record()
	assert.Equal(t, "2024-02-01", rec.PeriodStart)
	assert.Equal(t, "2024-02-29", rec.PeriodEnd)
}
