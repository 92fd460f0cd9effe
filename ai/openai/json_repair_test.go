package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	t.Run("fixes missing opening quote on key", func(t *testing.T) {
		broken := `{"name": "x", type": "article"}`
		repaired := repairJSON(broken)

		var out map[string]string
		require.NoError(t, json.Unmarshal([]byte(repaired), &out))
		assert.Equal(t, "article", out["type"])
	})

	t.Run("strips chatter around the object", func(t *testing.T) {
		broken := "Sure! Here is the JSON:\n{\"type\": \"article\"}\nLet me know if you need anything else."
		repaired := repairJSON(broken)

		var out map[string]string
		require.NoError(t, json.Unmarshal([]byte(repaired), &out))
		assert.Equal(t, "article", out["type"])
	})

	t.Run("drops trailing commas", func(t *testing.T) {
		broken := `{"topics": ["go", "sqlite",], "type": "article",}`
		repaired := repairJSON(broken)

		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(repaired), &out))
		assert.Len(t, out["topics"], 2)
	})

	t.Run("maps python literals", func(t *testing.T) {
		broken := `{"type": "article", "entities": None, "ok": True}`
		repaired := repairJSON(broken)

		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(repaired), &out))
		assert.Nil(t, out["entities"])
		assert.Equal(t, true, out["ok"])
	})

	t.Run("keeps literal-like words inside strings", func(t *testing.T) {
		valid := `{"title": "None of the True ways"}`
		repaired := repairJSON(valid)

		var out map[string]string
		require.NoError(t, json.Unmarshal([]byte(repaired), &out))
		assert.Equal(t, "None of the True ways", out["title"])
	})

	t.Run("leaves valid json untouched", func(t *testing.T) {
		valid := `{"type": "article", "topics": ["go"]}`
		assert.Equal(t, valid, repairJSON(valid))
	})
}
