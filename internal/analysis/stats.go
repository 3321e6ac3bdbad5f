package analysis

import (
	"math"
	"unicode/utf8"

	"github.com/Zuo-Peng/ghostwriter/internal/parse"
)

const unknownSender = "Unknown"

// ComputeStatistics summarises msgs. The most active sender is the one with
// the highest count; on a tie the sender seen first wins. First and last
// message are taken in slice order, not by time.
func ComputeStatistics(msgs []parse.Message) map[string]any {
	breakdown := map[string]int{}
	var senders []string
	runes := 0

	for _, m := range msgs {
		if _, ok := breakdown[m.Sender]; !ok {
			senders = append(senders, m.Sender)
		}
		breakdown[m.Sender]++
		runes += utf8.RuneCountInString(m.Content)
	}

	mostActive, best := unknownSender, 0
	for _, s := range senders {
		if breakdown[s] > best {
			mostActive, best = s, breakdown[s]
		}
	}

	stats := map[string]any{
		KeyTotalMessages:    len(msgs),
		KeySenderBreakdown:  breakdown,
		KeyMostActive:       mostActive,
		KeyAvgMessageLength: 0,
	}
	if len(msgs) > 0 {
		stats[KeyFirstMessage] = msgs[0].Timestamp
		stats[KeyLastMessage] = msgs[len(msgs)-1].Timestamp
		stats[KeyAvgMessageLength] = int(math.Round(float64(runes) / float64(len(msgs))))
	}
	return stats
}
