package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema(t *testing.T) {
	data, err := JSONSchema()
	require.NoError(t, err)

	var doc struct {
		ID         string                     `json:"$id"`
		Title      string                     `json:"title"`
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Defs       map[string]json.RawMessage `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, SchemaID, doc.ID)
	assert.Equal(t, "object", doc.Type)
	assert.Empty(t, doc.Defs, "definitions are inlined")

	for _, name := range []string{"active", "environments", "defaults", "quickHeaders", "collections", "historyLimit"} {
		assert.Contains(t, doc.Properties, name)
	}

	var envs struct {
		Items struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(doc.Properties["environments"], &envs))
	assert.Contains(t, envs.Items.Properties, "url")
	assert.Contains(t, envs.Items.Properties, "token")
}
