package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/silo/ai"
	"github.com/poiesic/silo/core"
)

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "type": {
      "type": "string"
    },
    "topics": {
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string"
          },
          "type": {
            "type": "string"
          }
        },
        "required": ["name", "type"],
        "additionalProperties": false
      }
    }
  },
  "required": ["type", "topics", "entities"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `You are a content analyst for a link manager. Analyze the cleaned text of a
web page and return its content type, key topics, and named entities as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The "type" field must be exactly one of: %s.
- Topics are short lowercase tags (1-3 words each), at most %d, covering the concepts, tools, and domains the page discusses.
- Entities are the key people, organizations, products, tools, and technologies mentioned; entity type must be one of: %s. At most %d.
- Include only topics and entities explicitly mentioned or clearly implied by the text. Do not hallucinate.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "How we migrated our Postgres cluster to Kubernetes at Acme Corp, by Sarah Connor..."
Output:
{
  "type": "article",
  "topics": ["postgres", "kubernetes", "database migration"],
  "entities": [
    {"name":"PostgreSQL","type":"technology"},
    {"name":"Kubernetes","type":"technology"},
    {"name":"Acme Corp","type":"organization"},
    {"name":"Sarah Connor","type":"person"}
  ]
}`

const summaryPrompt = `You are a content analyst for a link manager. Write a 2-3 sentence summary of
the given web page text that captures its main value and purpose. The summary
is shown to the user in search results and indexed for keyword search, so be
concrete and use the page's own key terms.

Return ONLY the summary sentences. No headers, no bullet points, no preamble
like "This page...". Start directly with the content.`

// buildClassificationPrompt creates the system prompt with the content type
// and entity type enums embedded.
func buildClassificationPrompt() string {
	types := make([]string, len(core.ContentTypes))
	for i, ct := range core.ContentTypes {
		types[i] = string(ct)
	}
	return fmt.Sprintf(classificationPromptTemplate,
		classificationResponseSchema,
		strings.Join(types, ", "),
		ai.MaxTopics,
		strings.Join(ai.EntityTypes, ", "),
		ai.MaxEntities)
}
