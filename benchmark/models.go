package main

import "time"

type SlideRequest struct {
	Topic        string             `json:"topic"`
	TemplateType string             `json:"template_type,omitempty"`
	Options      *GenerationOptions `json:"options,omitempty"`
}

type GenerationOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type SlideResponse struct {
	Markdown string `json:"markdown"`
	Metadata struct {
		SlideCount int  `json:"slide_count"`
		Attempts   int  `json:"attempts"`
		Cached     bool `json:"cached"`
		Usage      *struct {
			TotalTokens int64 `json:"total_tokens"`
		} `json:"usage"`
	} `json:"metadata"`
}

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type BenchResult struct {
	Topic    string
	Template string
	Duration time.Duration
	Slides   int
	Attempts int
	Tokens   int64
	Err      error
}

type Agg struct {
	Count  int
	Failed int
	Total  time.Duration
	Slides int
}
