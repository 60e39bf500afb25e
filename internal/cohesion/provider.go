package cohesion

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"structscan/internal/obs"
)

// maxBatchSize mirrors the teacher's GenAI batch ceiling (its API rejects
// more than 100 requests per batch).
const maxBatchSize = 100

// Provider generates vector embeddings for "code text" assembled from an
// entity's selected symbols (spec §4.L).
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// GenAIProvider backs cohesion analysis with Google's embedding API,
// carried over from the teacher's internal/embedding/genai.go engine (same
// batch ceiling, same task-type knob) and re-scoped to embed code text
// instead of chat context.
type GenAIProvider struct {
	client     *genai.Client
	model      string
	taskType   string
	dimensions int
}

// NewGenAIProvider builds a GenAI-backed embedding provider.
func NewGenAIProvider(ctx context.Context, apiKey, model, taskType string, dimensions int) (*GenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cohesion: genai api key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}
	if taskType == "" {
		taskType = "SEMANTIC_SIMILARITY"
	}
	if dimensions <= 0 {
		dimensions = 768
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("cohesion: creating genai client: %w", err)
	}
	obs.For(obs.CategoryCohesion).Info("genai embedding provider initialized",
		zap.String("model", model), zap.String("task_type", taskType), zap.Int("dimensions", dimensions))
	return &GenAIProvider{client: client, model: model, taskType: taskType, dimensions: dimensions}, nil
}

func (p *GenAIProvider) Name() string    { return "genai:" + p.model }
func (p *GenAIProvider) Dimensions() int { return p.dimensions }

func dimPtr(i int32) *int32 { return &i }

// Embed generates an embedding for one code text.
func (p *GenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("cohesion: genai returned no embeddings")
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple code texts, chunking at
// maxBatchSize (spec §4.L provider batching requirement).
func (p *GenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]
		contents := make([]*genai.Content, 0, len(chunk))
		for _, t := range chunk {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}
		result, err := p.client.Models.EmbedContent(ctx, p.model, contents, &genai.EmbedContentConfig{
			TaskType:             p.taskType,
			OutputDimensionality: dimPtr(int32(p.dimensions)),
		})
		if err != nil {
			obs.For(obs.CategoryCohesion).Error("genai embed batch failed", zap.Error(err), zap.Int("batch_size", len(chunk)))
			return nil, fmt.Errorf("cohesion: genai embed batch: %w", err)
		}
		for _, e := range result.Embeddings {
			out = append(out, e.Values)
		}
	}
	return out, nil
}
