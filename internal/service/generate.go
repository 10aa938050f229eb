package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/kdduha/slidegen/internal/metrics"
	"github.com/kdduha/slidegen/internal/models"
	"github.com/kdduha/slidegen/internal/templates"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// ClientConfig is read-only after the generator is built.
type ClientConfig struct {
	// APIKey is used when a request carries no key of its own
	APIKey        string
	BaseURL       string
	DefaultModel  string        `validate:"required"`
	Timeout       time.Duration `validate:"gt=0"`
	RetryAttempts int           `validate:"gt=0"`
	RetryDelay    time.Duration `validate:"gt=0"`
	MaxRetryDelay time.Duration `validate:"gte=0"`
	Defaults      models.GenerationOptions
	Credential    CredentialRule
}

// NewOpenAIClient builds the provider client. SDK retries are disabled,
// the generator owns the retry policy.
func NewOpenAIClient(cfg ClientConfig, opts ...option.RequestOption) openai.Client {
	base := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{
			Transport: bodyTrackingTransport{base: http.DefaultTransport},
		}),
	}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	return openai.NewClient(append(base, opts...)...)
}

type Generator struct {
	logger       *slog.Logger
	openaiClient openai.Client
	builder      *Builder
	cfg          ClientConfig
	backoff      Backoff
	cache        Cache
}

func NewGenerator(
	logger *slog.Logger,
	openaiClient openai.Client,
	registry *templates.Registry,
	cfg ClientConfig,
) (*Generator, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = defaultMaxRetryDelay
	}
	cfg.Credential = cfg.Credential.withDefaults()

	defaults := cfg.Defaults
	defaults.Model = cfg.DefaultModel

	return &Generator{
		logger:       logger,
		openaiClient: openaiClient,
		builder:      NewBuilder(registry, defaults),
		cfg:          cfg,
		backoff: Backoff{
			Base: cfg.RetryDelay,
			Max:  cfg.MaxRetryDelay,
		},
	}, nil
}

func (g *Generator) SetCacheClient(cache Cache) {
	g.cache = cache
}

// Generate runs one slide generation: credential check, build, dispatch with
// bounded retries, then validation of the returned deck. Every failure is a
// *models.GenerationError.
func (g *Generator) Generate(ctx context.Context, req *models.SlideGenerationRequest) (*models.SlideGenerationResponse, error) {
	start := time.Now()

	resp, err := g.generate(ctx, req)
	if err != nil {
		genErr := ClassifyError(err, ctx.Err())
		metrics.GenerationsTotal(string(genErr.Kind))
		metrics.GenerationDuration(string(genErr.Kind), time.Since(start))
		if genErr.Attempts > 0 {
			metrics.GenerationAttempts(genErr.Attempts)
		}
		return nil, genErr
	}

	metrics.GenerationsTotal(metrics.OutcomeSuccess)
	metrics.GenerationDuration(metrics.OutcomeSuccess, time.Since(start))
	if resp.Metadata.Attempts > 0 {
		metrics.GenerationAttempts(resp.Metadata.Attempts)
	}
	return resp, nil
}

func (g *Generator) generate(ctx context.Context, req *models.SlideGenerationRequest) (*models.SlideGenerationResponse, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = g.cfg.APIKey
	}
	if err := g.cfg.Credential.Check(apiKey); err != nil {
		return nil, err
	}

	built, err := g.builder.Build(req)
	if err != nil {
		return nil, err
	}

	// Only decks generated with the server's own key are cached. A caller
	// key always reaches the provider, which has the final say on it.
	cacheKey := ""
	if req.APIKey == "" {
		cacheKey = built.CacheKey(apiKey)
	}
	if cached, ok := g.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	params := built.Params()
	maxAttempts := g.cfg.RetryAttempts + 1

	for attempt := 1; ; attempt++ {
		completion, genErr := g.dispatch(ctx, params, apiKey)
		if genErr == nil {
			resp, err := g.toResponse(completion, built)
			if err != nil {
				genErr = ClassifyError(err, nil)
				genErr.Attempts = attempt
				return nil, genErr
			}
			resp.Metadata.Attempts = attempt

			g.logger.Info("slides generated",
				"attempts", attempt,
				"slide_count", resp.Metadata.SlideCount,
				"model", resp.Metadata.Model,
				"template", built.Template.ID)
			g.toCache(ctx, cacheKey, resp)
			return resp, nil
		}

		genErr.Attempts = attempt
		retry := ShouldRetry(genErr, attempt, maxAttempts)
		g.logger.Warn("provider attempt failed",
			"attempt", attempt,
			"kind", genErr.Kind,
			"status", genErr.StatusCode,
			"retryable", genErr.Retryable(),
			"error", genErr.Message)
		if !retry {
			return nil, genErr
		}

		delay := g.backoff.Delay(attempt, genErr.RetryAfter)
		g.logger.Info("retry backoff wait",
			"attempt", attempt,
			"delay_ms", delay.Milliseconds())
		if err := sleepContext(ctx, delay); err != nil {
			return nil, &models.GenerationError{
				Kind:     models.KindCancelled,
				Message:  "generation cancelled during backoff",
				Attempts: attempt,
				Err:      err,
			}
		}
	}
}

// dispatch performs one provider call bounded by the per-attempt timeout.
func (g *Generator) dispatch(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	apiKey string,
) (*openai.ChatCompletion, *models.GenerationError) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	completion, err := g.openaiClient.Chat.Completions.New(attemptCtx, params, option.WithAPIKey(apiKey))
	if err != nil {
		genErr := ClassifyError(err, ctx.Err())
		metrics.ProviderRequestDuration(string(genErr.Kind), time.Since(start))
		return nil, genErr
	}
	metrics.ProviderRequestDuration(metrics.OutcomeSuccess, time.Since(start))

	if len(completion.Choices) == 0 {
		return nil, &models.GenerationError{
			Kind:    models.KindAPI,
			Message: "malformed provider response: no choices",
		}
	}
	return completion, nil
}

func (g *Generator) toResponse(completion *openai.ChatCompletion, built *BuiltRequest) (*models.SlideGenerationResponse, error) {
	meta := ProviderMetadata{Model: built.Options.Model}
	if meta.Model == "" {
		meta.Model = completion.Model
	}
	if completion.JSON.Usage.Valid() {
		meta.Usage = &models.TokenUsage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}

	resp, err := Normalize(completion.Choices[0].Message.Content, meta)
	if err != nil {
		return nil, err
	}
	resp.Metadata.Template = built.Template.ID

	if resp.Metadata.SlideCount > built.Template.MaxSlides {
		g.logger.Warn("deck exceeds template slide budget",
			"template", built.Template.ID,
			"slide_count", resp.Metadata.SlideCount,
			"max_slides", built.Template.MaxSlides)
	}
	return resp, nil
}

func (g *Generator) fromCache(ctx context.Context, key string) (*models.SlideGenerationResponse, bool) {
	if g.cache == nil || key == "" {
		return nil, false
	}

	cached, found, err := g.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookupsTotal(metrics.CacheError)
		g.logger.Warn("cache get error", "error", err)
		return nil, false
	}
	if !found {
		metrics.CacheLookupsTotal(metrics.CacheMiss)
		return nil, false
	}

	var resp models.SlideGenerationResponse
	if err := sonic.UnmarshalString(cached, &resp); err != nil {
		metrics.CacheLookupsTotal(metrics.CacheError)
		g.logger.Warn("cache entry is corrupted", "error", err)
		return nil, false
	}
	metrics.CacheLookupsTotal(metrics.CacheHit)
	g.logger.Info("served from cache", "template", resp.Metadata.Template)

	resp.Metadata.Cached = true
	resp.Metadata.Attempts = 0
	return &resp, true
}

func (g *Generator) toCache(ctx context.Context, key string, resp *models.SlideGenerationResponse) {
	if g.cache == nil || key == "" {
		return
	}

	value, err := sonic.MarshalString(resp)
	if err != nil {
		g.logger.Warn("failed to encode cache entry", "error", err)
		return
	}
	if err := g.cache.Set(ctx, key, value); err != nil {
		g.logger.Warn("failed to set cache", "error", err)
	}
}
