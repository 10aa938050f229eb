package service

import (
	"strings"
	"time"

	"github.com/kdduha/slidegen/internal/models"
)

// ProviderMetadata is what the provider reported alongside the completion.
type ProviderMetadata struct {
	Model string
	Usage *models.TokenUsage
}

// Normalize validates a raw completion and packages it as a slide deck.
// The Markdown is only trimmed, or unwrapped when the model fenced the deck
// inside commentary.
func Normalize(raw string, meta ProviderMetadata) (*models.SlideGenerationResponse, error) {
	deck := unwrapFence(strings.TrimSpace(raw))
	if deck == "" {
		return nil, models.NewValidationError("provider returned an empty deck", nil)
	}

	separators, contentLines := 0, 0
	for _, line := range strings.Split(deck, "\n") {
		switch strings.TrimSpace(line) {
		case SlideSeparator:
			separators++
		case "":
		default:
			contentLines++
		}
	}
	if contentLines == 0 {
		return nil, models.NewValidationError("provider returned a deck without content", nil)
	}

	return &models.SlideGenerationResponse{
		Markdown: deck,
		Metadata: models.Metadata{
			SlideCount:  separators + 1,
			GeneratedAt: time.Now().UTC(),
			Model:       meta.Model,
			Usage:       meta.Usage,
		},
	}, nil
}

// unwrapFence returns the body of a ```markdown fence that wraps the whole
// deck, with nothing but prose commentary before and after it. A fenced sample
// that sits between slide content is part of the deck and is left alone. The
// closing fence is the last bare ``` line so code samples inside a wrapped deck
// survive.
func unwrapFence(text string) string {
	lines := strings.Split(text, "\n")

	open := -1
	for i, line := range lines {
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "```markdown", "```md":
			open = i
		}
		if open >= 0 {
			break
		}
		if !isCommentary(line) {
			return text
		}
	}
	if open < 0 {
		return text
	}

	for i := len(lines) - 1; i > open; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			return strings.TrimSpace(strings.Join(lines[open+1:i], "\n"))
		}
		if !isCommentary(lines[i]) {
			return text
		}
	}
	return text
}

// isCommentary reports whether line reads as chat prose rather than slide
// Markdown: no separator, heading, fence, list item or table row.
func isCommentary(line string) bool {
	t := strings.TrimSpace(line)
	if t == SlideSeparator {
		return false
	}
	for _, prefix := range []string{"#", "```", "- ", "* ", "+ ", "|"} {
		if strings.HasPrefix(t, prefix) {
			return false
		}
	}
	return true
}
