// Package score computes candidate-to-job fit from embedding similarity.
package score

import (
	"context"
	"fmt"
	"math"

	"github.com/parvagarwal/hireagent/internal/domain"
	"github.com/parvagarwal/hireagent/internal/llm"
)

// Scorer rates how well a resume matches a job posting on a 0..1 scale. It
// also returns the resume embedding so callers can persist it.
type Scorer interface {
	Score(ctx context.Context, resumeText string, job *domain.Job) (float64, []float64, error)
}

// EmbeddingScorer scores fit as the cosine similarity between the resume and
// job-description embedding vectors, clamped to [0, 1]. The job's stored
// embedding is used when present; otherwise the description is embedded on
// the fly.
type EmbeddingScorer struct {
	embedder llm.Embedder
}

// NewEmbeddingScorer creates a scorer backed by the given embedder.
func NewEmbeddingScorer(embedder llm.Embedder) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: embedder}
}

func (s *EmbeddingScorer) Score(ctx context.Context, resumeText string, job *domain.Job) (float64, []float64, error) {
	if resumeText == "" {
		return 0, nil, fmt.Errorf("resume text is empty")
	}

	resumeVec, err := s.embedder.EmbedText(ctx, resumeText)
	if err != nil {
		return 0, nil, fmt.Errorf("embed resume: %w", err)
	}

	jobVec := job.Embedding
	if len(jobVec) == 0 {
		if job.Description == "" {
			return 0, nil, fmt.Errorf("job %d has no description to score against", job.JobID)
		}
		jobVec, err = s.embedder.EmbedText(ctx, job.Description)
		if err != nil {
			return 0, nil, fmt.Errorf("embed job description: %w", err)
		}
	}

	sim, err := cosine(resumeVec, jobVec)
	if err != nil {
		return 0, nil, err
	}
	// Cosine similarity lives in [-1, 1]; negative similarity is simply no fit.
	sim = math.Max(0, math.Min(1, sim))
	return sim, resumeVec, nil
}

func cosine(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty embedding vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
