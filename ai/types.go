package ai

import (
	"strings"

	"github.com/poiesic/silo/core"
)

const (
	// MaxTopics caps the topic tags kept from one classification.
	MaxTopics = 8

	// MaxEntities caps the named entities kept from one classification.
	MaxEntities = 8

	// MaxAnalysisRunes bounds the text sent to the provider for
	// classification and summarization.
	MaxAnalysisRunes = 6000

	// MaxSummaryRunes bounds the synopsis returned by Summarize.
	MaxSummaryRunes = 600
)

// EntityTypes defines the valid categories for extracted entities.
var EntityTypes = []string{
	"person",
	"organization",
	"product",
	"tool",
	"technology",
}

// ExtractedEntity is a named entity identified in page text.
type ExtractedEntity struct {
	// Name is the entity as the page refers to it.
	Name string

	// Type categorizes the entity. Must match one of EntityTypes;
	// unrecognized types are kept but not relied upon.
	Type string
}

// Classification is the structured result of analyzing page text.
type Classification struct {
	// Type is the primary content type of the page.
	Type core.ContentType

	// Topics are key topic tags, at most MaxTopics after normalization.
	Topics []string

	// Entities are named entities, at most MaxEntities after normalization.
	Entities []ExtractedEntity
}

// Normalize folds a raw classification into canonical form: duplicate topics
// and entities collapse by case/whitespace-folded form, counts are capped,
// and empty names are dropped. Missing fields stay empty rather than
// erroring - degraded provider output must never fault the pipeline.
func (c *Classification) Normalize() {
	if c.Type == "" {
		c.Type = core.ContentTypeOther
	}

	seen := make(map[string]bool, len(c.Topics))
	topics := make([]string, 0, len(c.Topics))
	for _, topic := range c.Topics {
		topic = strings.TrimSpace(topic)
		key := core.NormalizeEntity(topic)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		topics = append(topics, topic)
		if len(topics) == MaxTopics {
			break
		}
	}
	c.Topics = topics

	seenEntities := make(map[string]bool, len(c.Entities))
	entities := make([]ExtractedEntity, 0, len(c.Entities))
	for _, entity := range c.Entities {
		entity.Name = strings.TrimSpace(entity.Name)
		key := core.NormalizeEntity(entity.Name)
		if key == "" || seenEntities[key] {
			continue
		}
		seenEntities[key] = true
		entities = append(entities, entity)
		if len(entities) == MaxEntities {
			break
		}
	}
	c.Entities = entities
}

// TruncateForAnalysis bounds text to MaxAnalysisRunes before provider calls.
func TruncateForAnalysis(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxAnalysisRunes {
		return text
	}
	return string(runes[:MaxAnalysisRunes])
}
