package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

// PlainText is the same layout shown on the terminal.
type PlainText struct{}

func (PlainText) Extension() string { return ".txt" }

func (PlainText) Format(s *summary.Summary) (string, error) {
	if s.Text != "" {
		return s.Text, nil
	}
	return summary.Format(s), nil
}

type Markdown struct{}

func (Markdown) Extension() string { return ".md" }

func (Markdown) Format(s *summary.Summary) (string, error) {
	r := s.Result()
	var b strings.Builder

	fmt.Fprintf(&b, "# 📅 Daily Summary - %s\n\n", s.Date)

	b.WriteString("## 📊 Message Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Messages:** %d\n", r.TotalMessages())
	if breakdown := r.SenderBreakdown(); breakdown != nil {
		b.WriteString("- **Participants:**\n")
		for _, name := range summary.SortedNames(breakdown) {
			fmt.Fprintf(&b, "  - %s: %d messages\n", mdEscape(name), breakdown[name])
		}
	}
	if m := r.MostActive(); m != "" {
		fmt.Fprintf(&b, "- **Most Active:** %s\n", mdEscape(m))
	}
	if _, ok := s.Statistics[analysis.KeyAvgMessageLength]; ok {
		fmt.Fprintf(&b, "- **Avg Message Length:** %d characters\n", r.AvgMessageLength())
	}
	b.WriteString("\n")

	b.WriteString("## 🔑 Key Topics Discussed\n\n")
	if len(s.Topics) == 0 {
		b.WriteString("*No specific topics identified*\n")
	}
	for i, t := range s.Topics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, mdEscape(t))
	}
	b.WriteString("\n")

	if len(s.ActionItems) > 0 {
		b.WriteString("## ⚡ Action Items\n\n")
		for _, it := range s.ActionItems {
			b.WriteString("- ☐ " + mdEscape(it) + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.Questions) > 0 {
		b.WriteString("## ❓ Pending Questions\n\n")
		for _, q := range s.Questions {
			b.WriteString("- " + mdEscape(q) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n*Generated by GhostWriter AI*\n")
	return b.String(), nil
}

var mdReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

// mdEscape neutralises Markdown and HTML syntax in chat-derived text.
func mdEscape(s string) string { return mdReplacer.Replace(s) }

// HTML renders the Markdown form with blackfriday inside a styled page.
// Raw HTML is never passed through.
type HTML struct{}

func (HTML) Extension() string { return ".html" }

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Daily Summary - {{.Date}}</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; background-color: #f5f5f5; line-height: 1.6; }
        .container { background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
        h2 { color: #34495e; margin-top: 30px; font-size: 1.3em; }
        ul, ol { padding-left: 1.2em; }
        li { padding: 4px 0; }
        hr { border: none; border-top: 2px solid #ecf0f1; margin-top: 40px; }
        em:last-child { color: #7f8c8d; }
    </style>
</head>
<body>
    <div class="container">
{{.Body}}
    </div>
</body>
</html>
`))

func (HTML) Format(s *summary.Summary) (string, error) {
	md, err := Markdown{}.Format(s)
	if err != nil {
		return "", err
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML,
	})
	body := blackfriday.Run([]byte(md),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
		blackfriday.WithRenderer(renderer),
	)

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Date string
		Body template.HTML
	}{s.Date, template.HTML(body)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSON writes the summary with camelCase keys and a metadata block.
type JSON struct{}

func (JSON) Extension() string { return ".json" }

type jsonStats struct {
	TotalMessages    int            `json:"totalMessages"`
	MostActive       string         `json:"mostActive,omitempty"`
	AvgMessageLength *int           `json:"avgMessageLength,omitempty"`
	SenderBreakdown  map[string]int `json:"senderBreakdown,omitempty"`
	FirstMessage     string         `json:"firstMessage,omitempty"`
	LastMessage      string         `json:"lastMessage,omitempty"`
}

type jsonMeta struct {
	GeneratedBy string `json:"generatedBy"`
	Version     string `json:"version"`
	Format      string `json:"format"`
}

type jsonSummary struct {
	SummaryID        string    `json:"summaryId"`
	UserID           string    `json:"userId"`
	ConversationID   string    `json:"conversationId"`
	Date             string    `json:"date"`
	Statistics       jsonStats `json:"statistics"`
	KeyTopics        []string  `json:"keyTopics"`
	ActionItems      []string  `json:"actionItems"`
	PendingQuestions []string  `json:"pendingQuestions"`
	Metadata         jsonMeta  `json:"metadata"`
}

func (JSON) Format(s *summary.Summary) (string, error) {
	r := s.Result()
	stats := jsonStats{
		TotalMessages:   r.TotalMessages(),
		MostActive:      r.MostActive(),
		SenderBreakdown: r.SenderBreakdown(),
		FirstMessage:    r.FirstMessage(),
		LastMessage:     r.LastMessage(),
	}
	if _, ok := s.Statistics[analysis.KeyAvgMessageLength]; ok {
		n := r.AvgMessageLength()
		stats.AvgMessageLength = &n
	}

	out, err := json.MarshalIndent(jsonSummary{
		SummaryID:        s.ID,
		UserID:           s.UserID,
		ConversationID:   s.ConversationID,
		Date:             s.Date,
		Statistics:       stats,
		KeyTopics:        orEmpty(s.Topics),
		ActionItems:      orEmpty(s.ActionItems),
		PendingQuestions: orEmpty(s.Questions),
		Metadata:         jsonMeta{GeneratedBy: "GhostWriter AI", Version: "1.0", Format: "json"},
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
