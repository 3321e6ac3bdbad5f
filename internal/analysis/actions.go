package analysis

import (
	"strings"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

const minActionLength = 10

// actionPhrases are matched as substrings of the lowercased sentence.
var actionPhrases = []string{
	"need", "should", "must", "have to", "got to",
	"remember", "don't forget", "make sure",
	"please", "can you", "could you", "will you", "would you",
	"let's", "we should", "i'll", "i will",
	"deadline", "by", "before",
	"send", "email", "call", "meet", "schedule", "remind",
}

// FindActionItems returns sentences that contain an action phrase and are
// longer than ten characters, as `"<sentence>" - <sender>`. Each sentence
// text is reported once, at its first occurrence.
func FindActionItems(msgs []parse.Message) []string {
	items := []string{}
	seen := map[string]struct{}{}

	for _, m := range msgs {
		for _, sentence := range splitSentences(m.Content, ".!?") {
			clean := strings.TrimSpace(sentence)
			if len([]rune(clean)) <= minActionLength || !hasActionPhrase(strings.ToLower(clean)) {
				continue
			}
			if _, dup := seen[clean]; dup {
				continue
			}
			seen[clean] = struct{}{}
			items = append(items, attribute(clean, m.Sender))
		}
	}
	return items
}

func hasActionPhrase(lower string) bool {
	for _, p := range actionPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func splitSentences(s, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

func attribute(sentence, sender string) string {
	return `"` + sentence + `" - ` + sender
}
