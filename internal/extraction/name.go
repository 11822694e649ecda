package extraction

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/cv-ranker/internal/candidate"
	"github.com/spigell/cv-ranker/internal/tagger"
	"go.uber.org/zap"
)

const (
	headerLines     = 5
	maxNameTokens   = 3
	maxEntityTokens = 4
)

// lineBreaks normalises CRLF and lone CR to LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// DefaultNameBlocklist suppresses email-domain fragments and location lines
// that otherwise look like names.
var DefaultNameBlocklist = []string{"gmail", "accra"}

// NameExtractor finds the candidate name with a header heuristic and falls back
// to the entity tagger.
type NameExtractor struct {
	tagger    tagger.Tagger
	blocklist []string
	logger    *zap.Logger
}

// NewNameExtractor builds an extractor. A nil tagger disables the fallback and a
// nil blocklist means DefaultNameBlocklist.
func NewNameExtractor(t tagger.Tagger, blocklist []string, logger *zap.Logger) *NameExtractor {
	if t == nil {
		t = tagger.Nop{}
	}
	if blocklist == nil {
		blocklist = DefaultNameBlocklist
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	lowered := make([]string, 0, len(blocklist))
	for _, b := range blocklist {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			lowered = append(lowered, b)
		}
	}

	return &NameExtractor{tagger: t, blocklist: lowered, logger: logger}
}

// Extract returns the best-guess name or a missing field.
func (e *NameExtractor) Extract(ctx context.Context, text string) candidate.Field {
	if name, ok := e.fromHeader(text); ok {
		return candidate.Found(name)
	}

	entities, err := e.tagger.Tag(ctx, text)
	if err != nil {
		e.logger.Warn("entity tagging failed, name left unknown", zap.Error(err))
		return candidate.Missing()
	}

	for _, ent := range entities {
		if ent.Label != tagger.LabelPerson {
			continue
		}
		name := strings.TrimSpace(ent.Text)
		if name == "" || len(strings.Fields(name)) > maxEntityTokens || e.blocked(name) {
			continue
		}
		return candidate.Found(name)
	}

	return candidate.Missing()
}

func (e *NameExtractor) fromHeader(text string) (string, bool) {
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	if len(lines) > headerLines {
		lines = lines[:headerLines]
	}

	for _, line := range lines {
		if strings.Contains(line, "@") || strings.IndexFunc(line, unicode.IsDigit) >= 0 {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 1 || len(words) > maxNameTokens || !allCapitalized(words) {
			continue
		}

		if e.blocked(line) {
			continue
		}

		return strings.TrimSpace(line), true
	}

	return "", false
}

func (e *NameExtractor) blocked(s string) bool {
	lower := strings.ToLower(s)
	for _, b := range e.blocklist {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

func allCapitalized(words []string) bool {
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
