package service

import (
	"errors"
	"testing"

	"github.com/kdduha/slidegen/internal/models"
	"github.com/kdduha/slidegen/internal/templates"
	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func testRegistry(t *testing.T) *templates.Registry {
	t.Helper()
	r, err := templates.NewBuiltin()
	require.NoError(t, err)
	return r
}

func requireKind(t *testing.T, err error, kind models.ErrorKind) *models.GenerationError {
	t.Helper()
	require.Error(t, err)

	var genErr *models.GenerationError
	require.True(t, errors.As(err, &genErr), "unexpected error type %T", err)
	assert.Equal(t, kind, genErr.Kind)
	return genErr
}

func TestCredentialRule_Check(t *testing.T) {
	rule := CredentialRule{Prefix: "sk-", MinLength: 20}

	tests := map[string]struct {
		key   string
		valid bool
	}{
		"empty":        {key: "", valid: false},
		"blank":        {key: "   ", valid: false},
		"short":        {key: "abc", valid: false},
		"wrong prefix": {key: "pk-0123456789abcdefghij", valid: false},
		"too short":    {key: "sk-0123", valid: false},
		"well formed":  {key: "sk-0123456789abcdefghij", valid: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := rule.Check(tc.key)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			requireKind(t, err, models.KindAuth)
		})
	}
}

func TestCredentialRule_Defaults(t *testing.T) {
	rule := CredentialRule{}.withDefaults()
	assert.Equal(t, defaultCredentialPrefix, rule.Prefix)
	assert.Equal(t, defaultCredentialMinLength, rule.MinLength)
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(testRegistry(t), models.GenerationOptions{
		Model:       "gpt-4o-mini",
		Temperature: ptr(0.7),
		MaxTokens:   ptr(4096),
	})

	built, err := b.Build(&models.SlideGenerationRequest{
		Topic:        "  quarterly sales review ",
		TemplateType: "business",
		Options: &models.GenerationOptions{
			Temperature: ptr(0.2),
			TopP:        ptr(0.9),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "business", built.Template.ID)
	assert.Contains(t, built.Prompt, `"quarterly sales review"`)
	assert.NotContains(t, built.Prompt, "{{")

	assert.Equal(t, "gpt-4o-mini", built.Options.Model)
	assert.Equal(t, 0.2, *built.Options.Temperature)
	assert.Equal(t, 4096, *built.Options.MaxTokens)
	assert.Equal(t, 0.9, *built.Options.TopP)
	assert.Nil(t, built.Options.FrequencyPenalty)
	assert.Nil(t, built.Options.PresencePenalty)
}

func TestBuilder_DefaultTemplate(t *testing.T) {
	b := NewBuilder(testRegistry(t), models.GenerationOptions{Model: "m"})

	built, err := b.Build(&models.SlideGenerationRequest{Topic: "go generics"})
	require.NoError(t, err)
	assert.Equal(t, "general", built.Template.ID)
}

func TestBuilder_TopicOverridesVariable(t *testing.T) {
	b := NewBuilder(testRegistry(t), models.GenerationOptions{Model: "m"})
	vars := map[string]string{"topic": "ignored", "audience": "first-year students"}

	built, err := b.Build(&models.SlideGenerationRequest{
		Topic:        "recursion",
		TemplateType: "educational",
		Variables:    vars,
	})
	require.NoError(t, err)
	assert.Contains(t, built.Prompt, `"recursion" for first-year students`)
	assert.Equal(t, "ignored", vars["topic"], "caller map must not be mutated")
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder(testRegistry(t), models.GenerationOptions{Model: "m"})

	tests := map[string]*models.SlideGenerationRequest{
		"empty topic":      {Topic: ""},
		"blank topic":      {Topic: " \n "},
		"unknown template": {Topic: "x", TemplateType: "nope"},
		"missing variable": {Topic: "x", TemplateType: "creative"},
		"temperature":      {Topic: "x", Options: &models.GenerationOptions{Temperature: ptr(3.0)}},
		"max tokens":       {Topic: "x", Options: &models.GenerationOptions{MaxTokens: ptr(0)}},
		"top p":            {Topic: "x", Options: &models.GenerationOptions{TopP: ptr(1.5)}},
		"penalty":          {Topic: "x", Options: &models.GenerationOptions{PresencePenalty: ptr(-3.0)}},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := b.Build(req)
			requireKind(t, err, models.KindValidation)
		})
	}
}

func TestBuilder_MissingVariableNamesIt(t *testing.T) {
	b := NewBuilder(testRegistry(t), models.GenerationOptions{Model: "m"})

	_, err := b.Build(&models.SlideGenerationRequest{Topic: "x", TemplateType: "creative"})
	genErr := requireKind(t, err, models.KindValidation)
	assert.Contains(t, genErr.Message, "style")
	assert.True(t, errors.Is(err, templates.ErrMissingVariables))
}

func TestBuiltRequest_Params(t *testing.T) {
	built := &BuiltRequest{
		Prompt: "make slides",
		Options: models.GenerationOptions{
			Model:            "gpt-4o-mini",
			Temperature:      ptr(0.5),
			MaxTokens:        ptr(100),
			FrequencyPenalty: ptr(0.1),
		},
	}

	params := built.Params()
	assert.Equal(t, "gpt-4o-mini", string(params.Model))
	assert.Len(t, params.Messages, 2)
	assert.Equal(t, openai.Float(0.5), params.Temperature)
	assert.Equal(t, openai.Int(100), params.MaxCompletionTokens)
	assert.Equal(t, openai.Float(0.1), params.FrequencyPenalty)
	assert.False(t, params.TopP.Valid())
	assert.False(t, params.PresencePenalty.Valid())
}

func TestBuiltRequest_CacheKey(t *testing.T) {
	a := &BuiltRequest{Prompt: "p", Options: models.GenerationOptions{Model: "m", Temperature: ptr(0.5)}}
	b := &BuiltRequest{Prompt: "p", Options: models.GenerationOptions{Model: "m", Temperature: ptr(0.5)}}
	c := &BuiltRequest{Prompt: "p", Options: models.GenerationOptions{Model: "m", Temperature: ptr(0.6)}}

	assert.Equal(t, a.CacheKey(testAPIKey), b.CacheKey(testAPIKey))
	assert.NotEqual(t, a.CacheKey(testAPIKey), c.CacheKey(testAPIKey))
	assert.NotEqual(t, a.CacheKey(testAPIKey), a.CacheKey("sk-other-0123456789abcdef"))
	assert.NotContains(t, a.CacheKey(testAPIKey), testAPIKey)
	assert.Len(t, a.CacheKey(testAPIKey), 64)
}
