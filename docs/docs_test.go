package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Host  string                    `json:"host"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "localhost:5000", parsed.Host)
	assert.Contains(t, parsed.Paths, "/navigations/shortest-path")
	assert.Contains(t, parsed.Paths, "/ai/suggest-route")
	assert.Contains(t, parsed.Paths, "/navigations/route-matrix")
}
