package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/silo/ai"
	"github.com/poiesic/silo/core"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default simple word-based behavior.
	ClassifyFunc func(ctx context.Context, text string) (*ai.Classification, error)

	callCount atomic.Int64
}

// NewMockClassifier creates a mock classifier with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify returns simple mock annotations derived from the text.
// Default behavior: type "article", the first few words as topics, no entities.
func (m *MockClassifier) Classify(ctx context.Context, text string) (*ai.Classification, error) {
	m.callCount.Add(1)

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	words := strings.Fields(strings.ToLower(text))
	classification := &ai.Classification{Type: core.ContentTypeArticle}
	for i, word := range words {
		if i == 3 {
			break
		}
		classification.Topics = append(classification.Topics, word)
	}
	classification.Normalize()
	return classification, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockClassifier) Reset() {
	m.callCount.Store(0)
	m.ClassifyFunc = nil
}
