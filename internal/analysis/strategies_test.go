package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

func msg(sender, content string) parse.Message {
	return parse.NewMessage(content, sender)
}

func TestExtractTopics(t *testing.T) {
	msgs := []parse.Message{
		msg("Alice", "The budget meeting is tomorrow. Budget review first!"),
		msg("Bob", "Budget numbers look fine; the meeting room is booked."),
		msg("Alice", "Yeah ok, yeah ok. Go go."),
	}

	topics := ExtractTopics(msgs)

	assert.Equal(t, []string{
		"budget (mentioned 3 times)",
		"meeting (mentioned 2 times)",
	}, topics)
}

func TestExtractTopics_TieKeepsFirstSeen(t *testing.T) {
	msgs := []parse.Message{
		msg("A", "zebra apple mango"),
		msg("B", "mango apple zebra"),
	}

	assert.Equal(t, []string{
		"zebra (mentioned 2 times)",
		"apple (mentioned 2 times)",
		"mango (mentioned 2 times)",
	}, ExtractTopics(msgs))
}

func TestExtractTopics_AtMostFive(t *testing.T) {
	msgs := []parse.Message{
		msg("A", "one1 two2 three3 four4 five5 six6 seven"),
		msg("A", "one1 two2 three3 four4 five5 six6 seven"),
	}

	topics := ExtractTopics(msgs)

	require.Len(t, topics, 5)
	assert.Equal(t, "one1 (mentioned 2 times)", topics[0])
	assert.Equal(t, "five5 (mentioned 2 times)", topics[4])
}

func TestExtractTopics_NoRepeats(t *testing.T) {
	assert.Empty(t, ExtractTopics([]parse.Message{msg("A", "unique words everywhere")}))
	assert.NotNil(t, ExtractTopics(nil))
}

func TestExtractTopics_StripsPunctuationAndNonASCII(t *testing.T) {
	msgs := []parse.Message{
		msg("A", "café! café? pizza-night"),
		msg("B", "pizzanight"),
	}

	assert.Equal(t, []string{
		"caf (mentioned 2 times)",
		"pizzanight (mentioned 2 times)",
	}, ExtractTopics(msgs))
}

func TestTopicLabel(t *testing.T) {
	assert.Equal(t, "budget", TopicLabel("budget (mentioned 3 times)"))
	assert.Equal(t, "plain", TopicLabel(" plain "))
}

func TestFindActionItems(t *testing.T) {
	msgs := []parse.Message{
		msg("Alice", "Please send the report by Friday. Thanks! ok"),
		msg("Bob", "We should book the venue soon? Sure."),
		msg("Carol", "Please send the report by Friday"),
		msg("Dave", "call me"),
	}

	items := FindActionItems(msgs)

	assert.Equal(t, []string{
		`"Please send the report by Friday" - Alice`,
		`"We should book the venue soon" - Bob`,
	}, items)
}

func TestFindActionItems_NoMatches(t *testing.T) {
	items := FindActionItems([]parse.Message{msg("A", "Lovely weather today, isn't it")})
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFindQuestions(t *testing.T) {
	msgs := []parse.Message{
		msg("Alice", "Hello! I hope so. Are you coming tonight?"),
		msg("Bob", "Are you coming tonight?"),
		msg("Bob", "Maybe eight. What time?"),
	}

	assert.Equal(t, []string{
		`"Are you coming tonight?" - Alice`,
		`"What time?" - Bob`,
	}, FindQuestions(msgs))
}

func TestComputeStatistics(t *testing.T) {
	msgs := []parse.Message{
		parse.NewMessage("héllo", "Bob", parse.WithTimestamp("2024-12-10 09:00:00")),
		parse.NewMessage("hi", "Alice", parse.WithTimestamp("2024-12-10 08:00:00")),
		parse.NewMessage("abcdef", "Alice", parse.WithTimestamp("2024-12-10 10:00:00")),
		parse.NewMessage("x", "Bob", parse.WithTimestamp("2024-12-10 11:00:00")),
	}

	stats := ComputeStatistics(msgs)

	assert.Equal(t, 4, stats[KeyTotalMessages])
	assert.Equal(t, map[string]int{"Alice": 2, "Bob": 2}, stats[KeySenderBreakdown])
	assert.Equal(t, "Bob", stats[KeyMostActive], "first-seen sender wins a tie")
	assert.Equal(t, "2024-12-10 09:00:00", stats[KeyFirstMessage])
	assert.Equal(t, "2024-12-10 11:00:00", stats[KeyLastMessage])
	// (5 + 2 + 6 + 1) / 4 = 3.5
	assert.Equal(t, 4, stats[KeyAvgMessageLength])
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)

	assert.Equal(t, 0, stats[KeyTotalMessages])
	assert.Equal(t, "Unknown", stats[KeyMostActive])
	assert.Equal(t, 0, stats[KeyAvgMessageLength])
	assert.NotContains(t, stats, KeyFirstMessage)
}

func TestResultAccessors_AfterJSON(t *testing.T) {
	r := NewResult()
	r.Statistics = ComputeStatistics([]parse.Message{msg("Alice", "abcd"), msg("Alice", "ab"), msg("Bob", "abc")})

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, got := range []Result{r, decoded} {
		assert.Equal(t, 3, got.TotalMessages())
		assert.Equal(t, "Alice", got.MostActive())
		assert.Equal(t, 3, got.AvgMessageLength())
		assert.Equal(t, map[string]int{"Alice": 2, "Bob": 1}, got.SenderBreakdown())
	}
}

func TestStrategyByName(t *testing.T) {
	for name, want := range map[string]string{
		"topics":       "topics",
		"Action-Items": "action_items",
		"questions":    "questions",
		"stats":        "statistics",
	} {
		s, err := StrategyByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, s.Name())
	}

	_, err := StrategyByName("sentiment")
	assert.Error(t, err)

	ss, err := StrategiesByName(nil)
	require.NoError(t, err)
	assert.Len(t, ss, 4)

	_, err = StrategiesByName([]string{"topics", "nope"})
	assert.Error(t, err)
}
