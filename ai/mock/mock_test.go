package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizerDefaultTruncatesToDozenWords(t *testing.T) {
	summarizer := NewMockSummarizer()

	got, err := summarizer.Summarize(context.Background(),
		"one two three four five six seven eight nine ten eleven twelve thirteen fourteen")
	require.NoError(t, err)
	assert.Equal(t, "one two three four five six seven eight nine ten eleven twelve", got)
	assert.Equal(t, 1, summarizer.CallCount())
}

func TestEmbedderDefaultIsDeterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	a, err := embedder.EmbedText(ctx, "same text")
	require.NoError(t, err)
	b, err := embedder.EmbedText(ctx, "same text")
	require.NoError(t, err)
	c, err := embedder.EmbedText(ctx, "different text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

// Ingestion fans URLs out on a worker pool, so a shared mock sees
// concurrent calls. Counting must stay exact under that load.
func TestCallCountsUnderConcurrentUse(t *testing.T) {
	classifier := NewMockClassifier()
	summarizer := NewMockSummarizer()
	embedder := NewMockEmbedder()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = classifier.Classify(ctx, "some page text")
			_, _ = summarizer.Summarize(ctx, "some page text")
			_, _ = embedder.EmbedText(ctx, "some page text")
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, classifier.CallCount())
	assert.Equal(t, workers, summarizer.CallCount())
	assert.Equal(t, workers, embedder.CallCount())
}
