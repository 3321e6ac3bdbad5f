package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// headerRe matches a message-start line:
//
//	[12/10/24, 2:31 PM] Alice: Hey, how are you?
//
// Newer exports put a narrow no-break space before AM/PM, so U+00A0 and
// U+202F are accepted wherever plain spaces are.
var headerRe = regexp.MustCompile(
	`^\[(\d{1,2}/\d{1,2}/\d{2,4}),[\s\x{00A0}\x{202F}]*(\d{1,2}:\d{2}(?:[\s\x{00A0}\x{202F}]*(?i:[ap]m))?)\]\s*([^:]+):\s*(.+)$`,
)

// systemPhrases mark export noise that never opens or extends a message.
var systemPhrases = []string{
	"end-to-end encrypted",
	"created group",
	"changed the subject",
}

func isSystemLine(line string) bool {
	for _, p := range systemPhrases {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

// Parse converts the text of a WhatsApp chat export into messages in source
// order. Lines that continue a message are space-joined onto it; lines seen
// before the first header are dropped. It never fails: text without any
// header yields an empty slice.
func Parse(content string) []Message {
	messages := []Message{}
	if strings.TrimSpace(content) == "" {
		return messages
	}

	var cur *Message
	var body strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Content = strings.TrimSpace(body.String())
		messages = append(messages, *cur)
		cur = nil
		body.Reset()
	}

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isSystemLine(line) {
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Message{
				ID:         uuid.NewString(),
				Sender:     strings.TrimSpace(m[3]),
				Timestamp:  NormalizeTimestamp(m[1], m[2]),
				LineNumber: i + 1,
			}
			body.WriteString(strings.TrimSpace(m[4]))
			continue
		}

		// continuation of a multi-line message
		if cur != nil {
			body.WriteByte(' ')
			body.WriteString(line)
		}
	}
	flush()

	log.Debug().Int("messages", len(messages)).Msg("parsed whatsapp export")
	return messages
}

// NormalizeTimestamp turns a header's date ("12/10/24") and clock ("2:31 PM")
// into "2024-12-10 14:31:00". Two-digit years above 50 are read as 19xx.
// When the parts do not form a valid date and time it returns
// date + " " + clock unchanged.
func NormalizeTimestamp(date, clock string) string {
	ts, err := normalizeTimestamp(date, clock)
	if err != nil {
		log.Debug().Err(err).Str("date", date).Str("time", clock).Msg("keeping raw timestamp")
		return date + " " + clock
	}
	return ts
}

func normalizeTimestamp(date, clock string) (string, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("date %q: want M/D/Y", date)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("date %q: bad month", date)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("date %q: bad day", date)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", fmt.Errorf("date %q: bad year", date)
	}
	switch len(parts[2]) {
	case 2:
		if year > 50 {
			year += 1900
		} else {
			year += 2000
		}
	case 4:
	default:
		return "", fmt.Errorf("date %q: year must have 2 or 4 digits", date)
	}

	// time.Date normalises overflow, so Feb 31 comes back as Mar 2.
	if t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); t.Day() != day {
		return "", fmt.Errorf("date %q: no such day", date)
	}

	hour, minute, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:00", year, month, day, hour, minute), nil
}

// parseClock converts a 12-hour (with AM/PM) or 24-hour clock to 24-hour
// hour and minute.
func parseClock(clock string) (int, int, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, strings.ToUpper(clock))

	am := strings.HasSuffix(compact, "AM")
	pm := strings.HasSuffix(compact, "PM")
	if am || pm {
		compact = compact[:len(compact)-2]
	}

	hm := strings.Split(compact, ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("time %q: want H:MM", clock)
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return 0, 0, fmt.Errorf("time %q: bad hour", clock)
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q: bad minute", clock)
	}

	switch {
	case am || pm:
		if hour < 0 || hour > 12 {
			return 0, 0, fmt.Errorf("time %q: hour out of 12-hour range", clock)
		}
		if pm && hour != 12 {
			hour += 12
		} else if am && hour == 12 {
			hour = 0
		}
	case hour < 0 || hour > 23:
		return 0, 0, fmt.Errorf("time %q: hour out of range", clock)
	}
	return hour, minute, nil
}
