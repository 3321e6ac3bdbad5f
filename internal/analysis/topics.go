package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

const (
	maxTopics      = 5
	minTopicLength = 3
)

var stopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "up", "about", "into", "through", "during",
	"is", "am", "are", "was", "were", "be", "been", "being", "have", "has",
	"had", "do", "does", "did", "will", "would", "should", "could", "may",
	"might", "must", "can", "i", "you", "he", "she", "it", "we", "they",
	"me", "him", "her", "us", "them", "my", "your", "his", "its", "our",
	"this", "that", "these", "those", "what", "which", "who", "when",
	"where", "why", "how", "all", "each", "every", "both", "few", "more",
	"most", "some", "such", "no", "not", "only", "own", "same", "so",
	"than", "too", "very", "just", "yeah", "ok", "okay", "yes",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// ExtractTopics returns up to five tokens that occur more than once across
// msgs, most frequent first, formatted as "<token> (mentioned <n> times)".
// Equal counts keep the order in which tokens were first seen.
func ExtractTopics(msgs []parse.Message) []string {
	counts := map[string]int{}
	var order []string

	for _, m := range msgs {
		for _, tok := range strings.Fields(stripToAlnum(strings.ToLower(m.Content))) {
			if len(tok) < minTopicLength {
				continue
			}
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	topics := []string{}
	for _, tok := range order {
		if counts[tok] <= 1 || len(topics) == maxTopics {
			break
		}
		topics = append(topics, fmt.Sprintf("%s (mentioned %d times)", tok, counts[tok]))
	}
	return topics
}

// stripToAlnum drops everything except ASCII lowercase letters, digits and
// ASCII whitespace.
func stripToAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			return r
		}
		return -1
	}, s)
}

// TopicLabel strips the "(mentioned n times)" suffix from a formatted topic.
func TopicLabel(topic string) string {
	if i := strings.Index(topic, " (mentioned "); i >= 0 {
		return topic[:i]
	}
	return strings.TrimSpace(topic)
}
