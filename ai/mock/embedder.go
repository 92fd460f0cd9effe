package mock

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/poiesic/silo/core"
)

// mockVectorDim keeps test vectors small; semantic quality is irrelevant
// here, only determinism and distinctness.
const mockVectorDim = 16

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount atomic.Int64
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockEmbedder().
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText generates a deterministic unit vector derived from the text's
// content hash, so equal texts embed equal and distinct texts (almost
// always) embed distinct.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount.Add(1)

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return contentVector(text), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount.Add(1)

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = contentVector(text)
	}
	return vectors, nil
}

// Model reports a fixed mock model identifier.
func (m *MockEmbedder) Model() string {
	return "mock-embedder"
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount.Store(0)
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// contentVector expands the text's content-derived ID into a normalized
// vector. The same blake2b hash that keys links keys the fake embedding
// space, so fixtures can predict collisions.
func contentVector(text string) []float32 {
	state := uint64(core.IDFromContent(text))

	vector := make([]float32, mockVectorDim)
	var sumSquares float64
	for i := range vector {
		// splitmix64 step per component
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31

		component := float32(z%2048)/1024.0 - 1.0
		vector[i] = component
		sumSquares += float64(component) * float64(component)
	}

	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}
	return vector
}
