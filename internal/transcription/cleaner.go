package transcription

import (
	"regexp"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
)

var (
	markupRe = regexp.MustCompile(`<\|[^|]*\|>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Cleaner strips engine markup tokens and normalizes whitespace
type Cleaner struct {
}

// NewCleaner creates a text cleaner
func NewCleaner() *Cleaner {
	res := Cleaner{}
	goapp.Log.Info().Msg("Cleaner")
	return &res
}

// Clean removes every `<|...|>` markup token, collapses whitespace runs to a
// single space and trims the result. Idempotent.
func (sp *Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}
	res := markupRe.ReplaceAllString(text, "")
	res = spaceRe.ReplaceAllString(res, " ")
	return strings.TrimSpace(res)
}

// IsMarkup reports whether a word is itself an engine markup token.
func IsMarkup(word string) bool {
	return strings.HasPrefix(word, "<|") && strings.HasSuffix(word, "|>")
}
