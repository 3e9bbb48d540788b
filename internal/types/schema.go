package types

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ReplySchema returns the JSON Schema of Reply, the rendering contract shared
// with UI collaborators.
func ReplySchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Reply{})
	schema.Title = "glorp reply"

	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reply schema: %w", err)
	}

	// Re-indent for humans; the reflector emits compact JSON.
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode reply schema: %w", err)
	}
	return json.MarshalIndent(m, "", "  ")
}
