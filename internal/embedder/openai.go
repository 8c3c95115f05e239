package embedder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder implements Embedder against any OpenAI-compatible
// embeddings endpoint (OpenAI itself, or Ollama's /v1 API).
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
	cache     *Cache
}

// NewOpenAI creates an embedder for the given endpoint and model
func NewOpenAI(baseURL, apiKey, model string, dimension int, cache *Cache) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
		cache:     cache,
	}
}

// Embed returns one vector per input text, in input order. Cached texts are
// not re-sent; only misses go over the wire.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrEmptyText
		}
	}

	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, t := range texts {
		if e.cache != nil {
			if v, ok := e.cache.Get(ComputeHash(t)); ok {
				vectors[i] = v
				continue
			}
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	config := DefaultRetryConfig()
	resp, err := retryWithBackoff(ctx, config, func() (openai.EmbeddingResponse, error) {
		return e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: missing,
			Model: openai.EmbeddingModel(e.model),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, config.MaxRetries, err)
	}
	if len(resp.Data) != len(missing) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrProviderFailed, len(missing), len(resp.Data))
	}

	for j, data := range resp.Data {
		i := missingIdx[j]
		vectors[i] = data.Embedding
		if e.cache != nil {
			e.cache.Set(ComputeHash(missing[j]), data.Embedding)
		}
	}

	return vectors, nil
}

// Dimension returns the embedding dimension for this provider
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

// Model returns the model name
func (e *OpenAIEmbedder) Model() string {
	return e.model
}
