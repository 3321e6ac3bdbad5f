package analysis

import (
	"strings"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

// FindQuestions returns every sentence ending in "?" as
// `"<sentence>" - <sender>`. Sentences are split on '.' and '!' only so the
// question mark stays with its sentence.
func FindQuestions(msgs []parse.Message) []string {
	questions := []string{}
	seen := map[string]struct{}{}

	for _, m := range msgs {
		for _, sentence := range splitSentences(m.Content, ".!") {
			q := strings.TrimSpace(sentence)
			if !strings.HasSuffix(q, "?") {
				continue
			}
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			questions = append(questions, attribute(q, m.Sender))
		}
	}
	return questions
}
