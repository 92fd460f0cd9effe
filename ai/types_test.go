package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/silo/core"
)

func TestClassificationNormalize(t *testing.T) {
	t.Run("collapses duplicate topics by folded form", func(t *testing.T) {
		c := &Classification{
			Type:   core.ContentTypeArticle,
			Topics: []string{"Go", "go", " GO ", "databases"},
		}
		c.Normalize()
		assert.Equal(t, []string{"Go", "databases"}, c.Topics)
	})

	t.Run("collapses duplicate entities", func(t *testing.T) {
		c := &Classification{
			Type: core.ContentTypeArticle,
			Entities: []ExtractedEntity{
				{Name: "Sarah Connor", Type: "person"},
				{Name: "sarah connor", Type: "person"},
				{Name: "OpenAI", Type: "organization"},
			},
		}
		c.Normalize()
		assert.Len(t, c.Entities, 2)
		assert.Equal(t, "Sarah Connor", c.Entities[0].Name)
		assert.Equal(t, "OpenAI", c.Entities[1].Name)
	})

	t.Run("drops empty names", func(t *testing.T) {
		c := &Classification{
			Topics:   []string{"", "  ", "real"},
			Entities: []ExtractedEntity{{Name: "   "}, {Name: "Kept"}},
		}
		c.Normalize()
		assert.Equal(t, []string{"real"}, c.Topics)
		assert.Len(t, c.Entities, 1)
	})

	t.Run("caps counts", func(t *testing.T) {
		c := &Classification{}
		for i := 0; i < MaxTopics*2; i++ {
			c.Topics = append(c.Topics, "topic-"+strings.Repeat("x", i+1))
			c.Entities = append(c.Entities, ExtractedEntity{Name: "entity-" + strings.Repeat("y", i+1)})
		}
		c.Normalize()
		assert.Len(t, c.Topics, MaxTopics)
		assert.Len(t, c.Entities, MaxEntities)
	})

	t.Run("defaults missing type", func(t *testing.T) {
		c := &Classification{}
		c.Normalize()
		assert.Equal(t, core.ContentTypeOther, c.Type)
	})
}

func TestTruncateForAnalysis(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, TruncateForAnalysis(short))

	long := strings.Repeat("a", MaxAnalysisRunes+100)
	assert.Equal(t, MaxAnalysisRunes, len([]rune(TruncateForAnalysis(long))))
}
