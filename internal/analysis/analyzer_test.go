package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

func sampleConversation() *parse.Conversation {
	return parse.NewConversation("u1", "2024-12-10", parse.Parse(
		"[12/10/24, 9:00 AM] Alice: The budget review is today. Can you send the budget draft?\n"+
			"[12/10/24, 9:05 AM] Bob: Sure, I will send the budget draft before noon.\n"+
			"[12/10/24, 9:07 AM] Alice: Great! Is the room booked?",
	))
}

func topicsOnly(topics ...string) Strategy {
	return NewStrategy("fixed", func([]parse.Message) Result {
		r := NewResult()
		r.Topics = topics
		return r
	})
}

func TestAnalyze_Defaults(t *testing.T) {
	r, err := New().Analyze(sampleConversation())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"budget (mentioned 3 times)",
		"send (mentioned 2 times)",
		"draft (mentioned 2 times)",
	}, r.Topics)
	assert.Equal(t, []string{
		`"Can you send the budget draft" - Alice`,
		`"Sure, I will send the budget draft before noon" - Bob`,
	}, r.ActionItems)
	assert.Equal(t, []string{
		`"Can you send the budget draft?" - Alice`,
		`"Is the room booked?" - Alice`,
	}, r.Questions)
	assert.Equal(t, 3, r.TotalMessages())
	assert.Equal(t, "Alice", r.MostActive())
}

func TestAnalyze_StrategyIsolation(t *testing.T) {
	r, err := New(TopicExtraction).Analyze(sampleConversation())
	require.NoError(t, err)

	assert.NotEmpty(t, r.Topics)
	assert.Empty(t, r.ActionItems)
	assert.Empty(t, r.Questions)
	assert.Empty(t, r.Statistics)
}

func TestAnalyze_MergeConcatenatesInOrder(t *testing.T) {
	a := New(topicsOnly("a1", "a2"), topicsOnly("b1"))

	r, err := a.Analyze(sampleConversation())
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a2", "b1"}, r.Topics)
}

func TestAnalyze_LaterStatisticsOverwrite(t *testing.T) {
	override := NewStrategy("override", func([]parse.Message) Result {
		r := NewResult()
		r.Statistics[KeyMostActive] = "Zed"
		return r
	})

	r, err := New(Statistics, override).Analyze(sampleConversation())
	require.NoError(t, err)

	assert.Equal(t, "Zed", r.MostActive())
	assert.Equal(t, 3, r.TotalMessages())
}

func TestAnalyze_InvalidInput(t *testing.T) {
	_, err := New().Analyze(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = New().Analyze(parse.NewConversation("u1", "2024-12-10", nil))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = New().AnalyzeWith(parse.NewConversation("u1", "2024-12-10", []parse.Message{}), TopicExtraction)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyzer_EmptyStrategyList(t *testing.T) {
	r, err := NewEmpty().Analyze(sampleConversation())
	require.NoError(t, err)

	assert.Empty(t, r.Topics)
	assert.Empty(t, r.Statistics)
	assert.Empty(t, NewEmpty().Strategies())
}

func TestAnalyzer_WithIsImmutable(t *testing.T) {
	base := New(TopicExtraction)
	added := base.WithStrategy(QuestionDetection)
	replaced := base.WithStrategies(Statistics, nil)

	assert.Len(t, base.Strategies(), 1)
	assert.Len(t, added.Strategies(), 2)
	require.Len(t, replaced.Strategies(), 1)
	assert.Equal(t, "statistics", replaced.Strategies()[0].Name())
	assert.Len(t, base.WithStrategy(nil).Strategies(), 1)

	got := base.Strategies()
	got[0] = Statistics
	assert.Equal(t, "topics", base.Strategies()[0].Name())
}

func TestAnalyzeWith_DoesNotChangeConfiguredList(t *testing.T) {
	a := New()
	conv := sampleConversation()

	once, err := a.AnalyzeWith(conv, QuestionDetection)
	require.NoError(t, err)
	assert.Empty(t, once.Topics)
	assert.NotEmpty(t, once.Questions)

	again, err := a.Analyze(conv)
	require.NoError(t, err)
	assert.NotEmpty(t, again.Topics)
	assert.Len(t, a.Strategies(), 4)
}

func TestAnalyzer_SharedAcrossGoroutines(t *testing.T) {
	a := New()
	conv := sampleConversation()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := a.Analyze(conv)
			assert.NoError(t, err)
			assert.Equal(t, 3, r.TotalMessages())
		}()
	}
	wg.Wait()
}
