package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decodeArgs maps a tool call's argument object onto a request struct
// through a JSON round trip, so optional and typed fields follow the
// struct tags instead of ad-hoc type assertions.
func decodeArgs[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode tool arguments: %w", err)
	}
	return out, nil
}
