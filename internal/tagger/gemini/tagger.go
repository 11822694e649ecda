package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/cv-ranker/internal/tagger"
	"github.com/spigell/cv-ranker/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Tagger asks Gemini to label entities in resume text.
type Tagger struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	maxInput  int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	// Names sit near the top of a resume, so the tail is not worth the tokens.
	defaultMaxInputRunes = 6000
)

func NewTagger(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Tagger {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tagger{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
		maxInput:  defaultMaxInputRunes,
	}
}

// Tag implements tagger.Tagger.
func (t *Tagger) Tag(ctx context.Context, text string) ([]tagger.Entity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if runes := []rune(text); len(runes) > t.maxInput {
		text = string(runes[:t.maxInput])
	}

	prompt := buildPrompt(text)

	t.logger.Debug("gemini tagging request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, t.maxLogLen)),
	)

	raw, err := t.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("gemini tagging response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, t.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(text string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume text:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{RESUME_TEXT}}", text)
}

func parseResponse(raw string) ([]tagger.Entity, error) {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	// Both {"entities": [...]} and a bare array are accepted.
	if obj, ok := data.(map[string]any); ok {
		data = obj["entities"]
	}
	if data == nil {
		return nil, nil
	}

	var entities []tagger.Entity
	if err := mapstructure.Decode(data, &entities); err != nil {
		return nil, fmt.Errorf("decode gemini entities: %w", err)
	}

	result := make([]tagger.Entity, 0, len(entities))
	for _, e := range entities {
		e.Text = strings.TrimSpace(e.Text)
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		if e.Text == "" || e.Label == "" {
			continue
		}
		result = append(result, e)
	}

	return result, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
