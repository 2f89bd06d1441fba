package score

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/parvagarwal/hireagent/internal/domain"
)

// fakeEmbedder maps known texts to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func TestScoreUsesStoredJobEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"resume": {1, 0},
	}}
	scorer := NewEmbeddingScorer(emb)
	job := &domain.Job{JobID: 1, Description: "never embedded", Embedding: []float64{1, 0}}

	fit, vec, err := scorer.Score(context.Background(), "resume", job)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(fit-1.0) > 1e-9 {
		t.Errorf("Expected perfect similarity, got %v", fit)
	}
	if len(vec) != 2 || vec[0] != 1 {
		t.Errorf("Expected resume vector returned, got %v", vec)
	}
}

func TestScoreEmbedsDescriptionWhenNoStoredVector(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"resume":     {1, 0},
		"go backend": {0, 1},
	}}
	scorer := NewEmbeddingScorer(emb)
	job := &domain.Job{JobID: 1, Description: "go backend"}

	fit, _, err := scorer.Score(context.Background(), "resume", job)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if fit != 0 {
		t.Errorf("Expected orthogonal vectors to score 0, got %v", fit)
	}
}

func TestScoreClampsNegativeSimilarity(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"resume": {1, 0},
		"desc":   {-1, 0},
	}}
	scorer := NewEmbeddingScorer(emb)
	job := &domain.Job{JobID: 1, Description: "desc"}

	fit, _, err := scorer.Score(context.Background(), "resume", job)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if fit != 0 {
		t.Errorf("Expected negative similarity clamped to 0, got %v", fit)
	}
}

func TestScoreErrors(t *testing.T) {
	scorer := NewEmbeddingScorer(&fakeEmbedder{vectors: map[string][]float64{}})
	job := &domain.Job{JobID: 1, Description: "desc", Embedding: []float64{1, 0}}

	if _, _, err := scorer.Score(context.Background(), "", job); err == nil {
		t.Error("Expected error for empty resume")
	}

	failing := NewEmbeddingScorer(&fakeEmbedder{err: errors.New("api down")})
	if _, _, err := failing.Score(context.Background(), "resume", job); err == nil {
		t.Error("Expected embedder error to propagate")
	}

	mismatched := NewEmbeddingScorer(&fakeEmbedder{vectors: map[string][]float64{"resume": {1, 0, 0}}})
	if _, _, err := mismatched.Score(context.Background(), "resume", job); err == nil {
		t.Error("Expected dimension mismatch error")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantErr bool
	}{
		{"identical", []float64{1, 2}, []float64{1, 2}, 1, false},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0, false},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1, false},
		{"empty", nil, []float64{1}, 0, true},
		{"zero magnitude", []float64{0, 0}, []float64{1, 1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosine(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("cosine failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}
