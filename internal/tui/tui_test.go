package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/parse"
	"github.com/Zuo-Peng/ghostwriter/internal/search"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

func TestFormatResultLine(t *testing.T) {
	r := search.Result{
		Date:    "2024-12-10",
		Sender:  "Alice",
		Summary: "budget (mentioned 2 times)",
		Snippet: "send the >>>budget<<< today",
	}

	lines := formatResultLine(r, 60, true)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "12-10")
	assert.Contains(t, lines[0], "Alice")
	assert.Contains(t, lines[0], "budget (mentioned 2 times)")
	assert.Contains(t, lines[1], "send the budget today")
	assert.NotContains(t, lines[1], ">>>")
}

func TestFormatResultLine_ListModeUsesFileName(t *testing.T) {
	r := search.Result{Date: "2024-12-10", SourcePath: "/exports/team.txt", Seq: -1}
	lines := formatResultLine(r, 60, false)
	assert.Contains(t, lines[0], "team.txt")
	assert.True(t, strings.HasPrefix(lines[0], "  "))
}

func TestAdjustListScroll(t *testing.T) {
	m := model{results: make([]search.Result, 20)}

	m.cursor = 7
	m.adjustListScroll(10) // 5 visible items
	assert.Equal(t, 3, m.listOffset)

	m.cursor = 1
	m.adjustListScroll(10)
	assert.Equal(t, 1, m.listOffset)
}

func TestUpdate_SearchResultsAndEnter(t *testing.T) {
	m := initialModel(nil, "budget", search.Options{})

	results := []search.Result{{ConversationID: "c1", Seq: 0}, {ConversationID: "c2", Seq: 4}}
	next, _ := m.Update(searchResultMsg{query: "budget", results: results})
	m = next.(model)
	assert.Len(t, m.results, 2)

	// stale results for an older query are ignored
	next, _ = m.Update(searchResultMsg{query: "bud", results: nil})
	m = next.(model)
	assert.Len(t, m.results, 2)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	assert.Equal(t, 1, m.cursor)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, m.selected)
	assert.Equal(t, "c2", m.selected.ConversationID)
	assert.Equal(t, exitCopySummary, m.exit)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestUpdate_OpenSource(t *testing.T) {
	m := initialModel(nil, "budget", search.Options{})
	next, _ := m.Update(searchResultMsg{query: "budget", results: []search.Result{{ConversationID: "c1", Seq: 3}}})
	m = next.(model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(model)
	require.NotNil(t, m.selected)
	assert.Equal(t, 3, m.selected.Seq)
	assert.Equal(t, exitOpenSource, m.exit)
	assert.NotNil(t, cmd)
}

func TestUpdate_EnterWithoutResults(t *testing.T) {
	m := initialModel(nil, "", search.Options{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Nil(t, m.selected)
	assert.False(t, m.quitting)
	assert.Nil(t, cmd)
}

func TestUpdate_TogglePane(t *testing.T) {
	m := initialModel(nil, "budget", search.Options{})
	r := search.Result{ConversationID: "c1", Seq: 2}
	next, _ := m.Update(searchResultMsg{query: "budget", results: []search.Result{r}})
	m = next.(model)

	// the chat preview arrives
	next, _ = m.Update(previewRenderedMsg{key: previewCacheKey(r, paneChat), content: "chat body", hitLine: -1})
	m = next.(model)
	assert.Equal(t, previewCacheKey(r, paneChat), m.previewKey)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	assert.Equal(t, paneSummary, m.pane)
	assert.NotNil(t, cmd, "switching pane loads the summary")
	assert.Equal(t, "budget", m.filterInput.Value())

	// a late chat render no longer applies
	next, _ = m.Update(previewRenderedMsg{key: previewCacheKey(r, paneChat), content: "late"})
	m = next.(model)
	assert.Equal(t, previewCacheKey(r, paneChat), m.previewKey)

	next, _ = m.Update(previewRenderedMsg{key: previewCacheKey(r, paneSummary), content: "summary body"})
	m = next.(model)
	assert.Equal(t, previewCacheKey(r, paneSummary), m.previewKey)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	assert.Equal(t, paneChat, m.pane)
}

func TestRenderSummaryPane(t *testing.T) {
	conv := parse.NewConversation("u1", "2024-12-10", []parse.Message{
		parse.NewMessage("Please send the budget today.", "Bob"),
		parse.NewMessage("Budget is ready. Where is it?", "Alice"),
		parse.NewMessage("thanks", "Bob"),
	})
	r, err := analysis.New().Analyze(conv)
	require.NoError(t, err)
	s := summary.Generate("u1", conv.ID, conv.Date, r)

	out := renderSummaryPane(s, 60)
	assert.Contains(t, out, "Daily Summary 2024-12-10")
	assert.Contains(t, out, "3 messages, most active: Bob")
	assert.Contains(t, out, "Topics (1)")
	assert.Contains(t, out, "  • budget (mentioned 2 times)")
	assert.Contains(t, out, "Action items (1)")
	assert.Contains(t, out, "Questions (1)")

	s.Questions = nil
	assert.Contains(t, renderSummaryPane(s, 60), "Questions (0)\n  none")

	assert.Contains(t, renderSummaryPane(nil, 60), "No summary stored")
}

func TestRenderSummaryPane_Wraps(t *testing.T) {
	s := &summary.Summary{Date: "2024-12-10", Topics: []string{strings.Repeat("word ", 10)}}
	out := renderSummaryPane(s, 20)
	assert.Contains(t, out, "  • word word word")
	assert.Contains(t, out, "\n    word")
}

func TestLayoutHitTest(t *testing.T) {
	m := model{width: 100, height: 30}
	lay := m.layout()
	assert.Equal(t, layout{listW: 36, previewW: 56, panelH: 24}, lay)

	region, idx := lay.hitTest(5, 2, 0)
	assert.Equal(t, regionList, region)
	assert.Equal(t, 0, idx)

	region, idx = lay.hitTest(5, 7, 3)
	assert.Equal(t, regionList, region)
	assert.Equal(t, 5, idx)

	region, _ = lay.hitTest(60, 10, 0)
	assert.Equal(t, regionPreview, region)

	region, _ = lay.hitTest(5, 0, 0)
	assert.Equal(t, regionNone, region)
	region, _ = lay.hitTest(37, 10, 0)
	assert.Equal(t, regionNone, region)
}

func TestSummaryText(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "gw.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conv := parse.NewConversation("u1", "2024-12-10", []parse.Message{parse.NewMessage("hi", "Alice")})
	r, err := analysis.New().Analyze(conv)
	require.NoError(t, err)
	s := summary.Generate("u1", conv.ID, conv.Date, r)
	require.NoError(t, db.SaveSummary(s))

	text, err := summaryText(db, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Text, text)

	_, err = summaryText(db, "missing")
	assert.Error(t, err)
}
