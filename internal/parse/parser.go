package parse

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedKind = errors.New("unsupported export kind")

// Parser turns the full text of one chat export into messages.
type Parser interface {
	Parse(content string) []Message
	Kind() string
}

type whatsApp struct{}

func (whatsApp) Parse(content string) []Message { return Parse(content) }
func (whatsApp) Kind() string                   { return "whatsapp" }

// WhatsApp is the default parser.
var WhatsApp Parser = whatsApp{}

func SupportedKinds() []string {
	return []string{"whatsapp"}
}

// ParserFor resolves a parser by export kind ("whatsapp", "whats app", "wa").
func ParserFor(kind string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "whatsapp", "whats app", "wa":
		return WhatsApp, nil
	case "":
		return nil, fmt.Errorf("%w: empty kind", ErrUnsupportedKind)
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedKind, kind, strings.Join(SupportedKinds(), ", "))
	}
}
