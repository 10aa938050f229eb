package service

import (
	"context"
	"sync"

	"github.com/kdduha/slidegen/internal/models"
)

// Holder lazily builds a Generator on first use and can be reconfigured later.
// Calls already running keep the generator they started with.
type Holder struct {
	mu   sync.Mutex
	gen  *Generator
	init func() (*Generator, error)
}

func NewHolder(init func() (*Generator, error)) *Holder {
	return &Holder{init: init}
}

// Get returns the current generator, building it if needed. A failed build is
// retried on the next call.
func (h *Holder) Get() (*Generator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.gen != nil {
		return h.gen, nil
	}
	gen, err := h.init()
	if err != nil {
		return nil, err
	}
	h.gen = gen
	return gen, nil
}

// Set replaces the generator, last writer wins.
func (h *Holder) Set(gen *Generator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen = gen
}

func (h *Holder) Generate(ctx context.Context, req *models.SlideGenerationRequest) (*models.SlideGenerationResponse, error) {
	gen, err := h.Get()
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, req)
}
