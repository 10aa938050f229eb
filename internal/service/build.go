package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kdduha/slidegen/internal/models"
	"github.com/kdduha/slidegen/internal/templates"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

// topicVariable is filled from the request topic for every template.
const topicVariable = "topic"

// BuiltRequest is a validated prompt plus the merged generation options.
type BuiltRequest struct {
	Prompt   string
	Template templates.PromptTemplate
	Options  models.GenerationOptions
}

// Builder turns a generation request into a provider payload. It does no I/O.
type Builder struct {
	templates *templates.Registry
	defaults  models.GenerationOptions
	validate  *validator.Validate
}

func NewBuilder(registry *templates.Registry, defaults models.GenerationOptions) *Builder {
	return &Builder{
		templates: registry,
		defaults:  defaults,
		validate:  validator.New(),
	}
}

func (b *Builder) Build(req *models.SlideGenerationRequest) (*BuiltRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	templateID := req.TemplateType
	if templateID == "" {
		templateID = b.templates.DefaultID()
	}
	tpl, err := b.templates.Get(templateID)
	if err != nil {
		return nil, models.NewValidationError(fmt.Sprintf("unknown template %q", templateID), err)
	}

	vars := maps.Clone(req.Variables)
	if vars == nil {
		vars = make(map[string]string, 1)
	}
	vars[topicVariable] = strings.TrimSpace(req.Topic)

	prompt, err := b.templates.Render(tpl.ID, vars)
	if err != nil {
		if errors.Is(err, templates.ErrMissingVariables) {
			return nil, models.NewValidationError(err.Error(), err)
		}
		return nil, models.NewValidationError("failed to render template", err)
	}

	options := req.Options.Merge(b.defaults)
	if err := b.validate.Struct(options); err != nil {
		return nil, models.NewValidationError("invalid generation options", err)
	}

	return &BuiltRequest{
		Prompt:   prompt,
		Template: tpl,
		Options:  options,
	}, nil
}

// Params maps the request onto the chat completion payload.
func (b *BuiltRequest) Params() openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(b.Options.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPromptSlides),
			openai.UserMessage(b.Prompt),
		},
	}

	if b.Options.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*b.Options.MaxTokens))
	}
	if b.Options.Temperature != nil {
		params.Temperature = openai.Float(*b.Options.Temperature)
	}
	if b.Options.TopP != nil {
		params.TopP = openai.Float(*b.Options.TopP)
	}
	if b.Options.FrequencyPenalty != nil {
		params.FrequencyPenalty = openai.Float(*b.Options.FrequencyPenalty)
	}
	if b.Options.PresencePenalty != nil {
		params.PresencePenalty = openai.Float(*b.Options.PresencePenalty)
	}
	return params
}

// CacheKey identifies the request by everything that reaches the provider,
// credential included, so one key is never served another key's decks.
func (b *BuiltRequest) CacheKey(credential string) string {
	secret := sha256.Sum256([]byte(credential))
	data := []string{
		hex.EncodeToString(secret[:]),
		b.Options.Model,
		b.Template.ID,
		b.Prompt,
	}

	if b.Options.Temperature != nil {
		data = append(data, fmt.Sprintf("t=%f", *b.Options.Temperature))
	}
	if b.Options.MaxTokens != nil {
		data = append(data, fmt.Sprintf("m=%d", *b.Options.MaxTokens))
	}
	if b.Options.TopP != nil {
		data = append(data, fmt.Sprintf("p=%f", *b.Options.TopP))
	}
	if b.Options.FrequencyPenalty != nil {
		data = append(data, fmt.Sprintf("f=%f", *b.Options.FrequencyPenalty))
	}
	if b.Options.PresencePenalty != nil {
		data = append(data, fmt.Sprintf("r=%f", *b.Options.PresencePenalty))
	}

	hash := sha256.Sum256([]byte(strings.Join(data, "-")))
	return hex.EncodeToString(hash[:])
}
