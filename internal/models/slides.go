package models

import (
	"strings"
	"time"
)

// SlideGenerationRequest represents request for slides endpoint
type SlideGenerationRequest struct {
	Topic  string `json:"topic" validate:"required" example:"quarterly sales review"`
	APIKey string `json:"api_key,omitempty" example:"sk-..."`

	// Template id from the registry, baseline template is used when empty
	TemplateType string            `json:"template_type,omitempty" example:"business"`
	Variables    map[string]string `json:"variables,omitempty"`

	// Optional generation parameters
	Options *GenerationOptions `json:"options,omitempty"`
}

// Validate checks the fields that do not depend on the template catalog.
func (r SlideGenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return NewValidationError("topic is empty", nil)
	}
	return nil
}

// GenerationOptions holds optional OpenAI-like generation parameters.
// Nil fields fall back to the client defaults and then to the provider defaults.
type GenerationOptions struct {
	Model            string   `json:"model,omitempty" example:"gpt-4o-mini"`
	Temperature      *float64 `json:"temperature,omitempty" validate:"omitnil,gte=0,lte=2" example:"0.7"`
	MaxTokens        *int     `json:"max_tokens,omitempty" validate:"omitnil,gt=0" example:"4096"`
	TopP             *float64 `json:"top_p,omitempty" validate:"omitnil,gte=0,lte=1" example:"1"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" validate:"omitnil,gte=-2,lte=2" example:"0"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" validate:"omitnil,gte=-2,lte=2" example:"0"`
}

// Merge returns a copy of defaults overridden field by field with o.
func (o *GenerationOptions) Merge(defaults GenerationOptions) GenerationOptions {
	merged := defaults
	if o == nil {
		return merged
	}
	if o.Model != "" {
		merged.Model = o.Model
	}
	if o.Temperature != nil {
		merged.Temperature = o.Temperature
	}
	if o.MaxTokens != nil {
		merged.MaxTokens = o.MaxTokens
	}
	if o.TopP != nil {
		merged.TopP = o.TopP
	}
	if o.FrequencyPenalty != nil {
		merged.FrequencyPenalty = o.FrequencyPenalty
	}
	if o.PresencePenalty != nil {
		merged.PresencePenalty = o.PresencePenalty
	}
	return merged
}

type SlideGenerationResponse struct {
	Markdown string   `json:"markdown"`
	Metadata Metadata `json:"metadata"`
}

// Metadata is always present, Usage is nil when the provider did not report it.
type Metadata struct {
	SlideCount  int         `json:"slide_count" example:"14"`
	GeneratedAt time.Time   `json:"generated_at"`
	Model       string      `json:"model" example:"gpt-4o-mini"`
	Usage       *TokenUsage `json:"usage,omitempty"`
	Template    string      `json:"template,omitempty" example:"business"`
	Attempts    int         `json:"attempts" example:"1"`
	Cached      bool        `json:"cached,omitempty"`
}

type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}
