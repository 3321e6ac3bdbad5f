package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

func analysed(t *testing.T, text string) analysis.Result {
	t.Helper()
	conv := parse.NewConversation("u1", "2024-12-10", parse.Parse(text))
	r, err := analysis.New().Analyze(conv)
	require.NoError(t, err)
	return r
}

func TestGenerate(t *testing.T) {
	r := analysed(t, "[12/10/24, 9:00 AM] Bob: Please send the budget today.\n"+
		"[12/10/24, 9:01 AM] Alice: Budget is ready. Where is it?\n"+
		"[12/10/24, 9:02 AM] Bob: ok")

	s := Generate("u1", "c1", "2024-12-10", r)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "c1", s.ConversationID)
	assert.Equal(t, 3, s.TotalMessages())
	assert.False(t, s.CreatedAt.IsZero())

	want := strings.Join([]string{
		headerLine + "   📅 DAILY SUMMARY - 2024-12-10",
		headerLine,
		"📊 MESSAGE STATISTICS",
		sectionLine + "Total Messages: 3",
		"Participants:",
		"  • Alice: 1 messages",
		"  • Bob: 2 messages",
		"Most Active: Bob",
		"Avg Message Length: 20 characters",
		"",
		"🔑 KEY TOPICS DISCUSSED",
		sectionLine + "1. budget (mentioned 2 times)",
		"",
		"⚡ ACTION ITEMS",
		sectionLine + `☐ "Please send the budget today" - Bob`,
		"",
		"❓ PENDING QUESTIONS",
		sectionLine + `? "Where is it?" - Alice`,
		"",
		headerLine + "Generated by GhostWriter AI",
		headerLine,
	}, "\n")
	assert.Equal(t, want, s.Text)
}

func TestFormat_EmptySections(t *testing.T) {
	s := Generate("u1", "c1", "2024-12-11", analysis.Result{})

	assert.Contains(t, s.Text, "No specific topics identified")
	assert.Contains(t, s.Text, "Total Messages: 0")
	assert.Contains(t, s.Text, "Most Active: N/A")
	assert.NotContains(t, s.Text, "ACTION ITEMS")
	assert.NotContains(t, s.Text, "PENDING QUESTIONS")
	assert.NotContains(t, s.Text, "Participants:")
	assert.NotNil(t, s.Topics)
	assert.NotNil(t, s.Statistics)
}
