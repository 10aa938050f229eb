package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_LazyInit(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		writeCompletion(w, deck(2), true)
	})

	calls := 0
	h := NewHolder(func() (*Generator, error) {
		calls++
		return newTestGenerator(t, testClientConfig(p.URL)), nil
	})
	assert.Zero(t, calls)

	resp, err := h.Generate(context.Background(), salesRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Metadata.SlideCount)

	_, err = h.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHolder_FailedInitIsRetried(t *testing.T) {
	fail := true
	h := NewHolder(func() (*Generator, error) {
		if fail {
			return nil, errors.New("no config")
		}
		return newTestGenerator(t, testClientConfig("http://llm.test")), nil
	})

	_, err := h.Get()
	require.Error(t, err)

	fail = false
	gen, err := h.Get()
	require.NoError(t, err)
	assert.NotNil(t, gen)
}

func TestHolder_Set(t *testing.T) {
	h := NewHolder(func() (*Generator, error) {
		return nil, errors.New("must not be called")
	})

	gen := newTestGenerator(t, testClientConfig("http://llm.test"))
	h.Set(gen)

	got, err := h.Get()
	require.NoError(t, err)
	assert.Same(t, gen, got)
}
