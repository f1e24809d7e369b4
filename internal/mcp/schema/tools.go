package schema

import "cinegraph/internal/mcp/contracts"

type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
	Version     string         `json:"version"`
}

// BuildToolDefinitions returns the tool list advertised over tools/list. The
// graph exposes a single tool; the operation enum carries the full surface.
func BuildToolDefinitions() []ToolDefinition {
	all := contracts.AllOperations()
	operations := make([]string, 0, len(all))
	for _, op := range all {
		operations = append(operations, string(op))
	}

	return []ToolDefinition{
		{
			Name:        contracts.ToolNameMovieGraph,
			Description: "Single entry tool for movie graph operations: node and edge mutations, traversals, rankings, and search.",
			Version:     contracts.ContractVersion,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"operation": map[string]any{
						"type":        "string",
						"description": "Operation identifier (e.g., upsert_movie).",
						"enum":        operations,
					},
					"params": map[string]any{
						"type":                 "object",
						"additionalProperties": true,
					},
				},
				"required": []string{"operation"},
			},
		},
	}
}
