package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/parse"
	"github.com/Zuo-Peng/ghostwriter/internal/scan"
)

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Send the Budget now", `budget "now"`)
	assert.Equal(t, "Send the "+colorBoldRed+"Budget"+colorReset+" "+colorBoldRed+"now"+colorReset, got)
	assert.Equal(t, "plain", highlightKeywords("plain", ""))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrapLine("abcdef", 4))
	assert.Equal(t, []string{"预算", "会议"}, wrapLine("预算会议", 4))
	assert.Equal(t, []string{colorDim + "ab", "cd" + colorReset}, wrapLine(colorDim+"abcd"+colorReset, 2))
	assert.Equal(t, []string{"abc"}, wrapLine("abc", 0))
	assert.Equal(t, []string{""}, wrapLine("", 5))
}

func TestRenderConversation(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "gw.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var msgs []parse.Message
	for i := 0; i < 6; i++ {
		msgs = append(msgs, parse.NewMessage(fmt.Sprintf("message %d about budget", i), []string{"Alice", "Bob"}[i%2],
			parse.WithTimestamp(fmt.Sprintf("2024-12-10 09:0%d:00", i))))
	}
	conv := parse.NewConversation("u1", "2024-12-10", msgs)
	conv.SourcePath = "/exports/chat 2024-12-10.txt"
	require.NoError(t, db.SaveConversation(conv, scan.FileInfo{}))

	out, hitLine, err := RenderConversation(db, conv.ID, Options{HitSeq: 3, Context: 1, Query: "budget"})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "--- 2024-12-10 [chat 2024-12-10.txt] 6 messages ---")
	assert.Contains(t, lines[1], "... (2 messages before) ...")
	require.Greater(t, hitLine, 0)
	assert.Contains(t, lines[hitLine], ">> Bob > 2024-12-10 09:03:00 <<")
	assert.Contains(t, out, "... (1 messages after) ...")
	assert.Contains(t, out, colorBoldRed+"budget"+colorReset)
	assert.NotContains(t, out, "message 0")
	assert.NotContains(t, out, "message 5")
}

func TestRenderConversation_NotFound(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "gw.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = RenderConversation(db, "missing", Options{HitSeq: -1})
	assert.Error(t, err)
}
