package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/docgen/internal/errors"
)

// decode unmarshals MCP request arguments into a typed struct. Malformed
// arguments are reported as CONFIG errors.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewConfig(0, "invalid arguments: %v", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, errors.NewConfig(0, "invalid arguments: %v", err)
	}
	return result, nil
}
