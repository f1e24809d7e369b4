// Package transport carries tool calls between clients and the runtime
// server. Both real transports, line-delimited JSON-RPC on stdio and an SSE
// session server, speak the same RPC dialect plus a legacy {tool,args} form;
// the shared machinery lives here.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cinegraph/internal/mcp/contracts"
	"cinegraph/internal/mcp/schema"
)

// Handler executes one tool call and returns the result payload.
type Handler func(ctx context.Context, tool string, raw map[string]any) (any, error)

// Adapter is the lifecycle contract every transport implements. Start blocks
// until the context is done or the transport fails.
type Adapter interface {
	Start(ctx context.Context, handler Handler) error
	Stop() error
}

const protocolVersion = "2025-06-18"

const (
	rpcCodeMethodNotFound = -32601
	rpcCodeRateLimited    = -32005
)

type toolRequest struct {
	ID   any            `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type toolResponse struct {
	ID     any                  `json:"id,omitempty"`
	OK     bool                 `json:"ok"`
	Result any                  `json:"result,omitempty"`
	Error  *contracts.ToolError `json:"error,omitempty"`
}

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc,omitempty"`
	ID      any            `json:"id,omitempty"`
	Method  string         `json:"method,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// isRPCMessage reports whether the raw message carries a JSON-RPC envelope.
// Anything else falls through to the legacy {tool,args} form.
func isRPCMessage(raw map[string]any) bool {
	method, _ := raw["method"].(string)
	jsonrpc, _ := raw["jsonrpc"].(string)
	return method != "" && jsonrpc != ""
}

// processRPC handles one JSON-RPC message. A nil response means the message
// was a notification and nothing goes back on the wire.
func processRPC(ctx context.Context, handler Handler, raw map[string]any) *rpcResponse {
	req := rpcRequest{Params: map[string]any{}}
	req.JSONRPC, _ = raw["jsonrpc"].(string)
	req.Method, _ = raw["method"].(string)
	if id, ok := raw["id"]; ok {
		req.ID = id
	}
	if params, ok := raw["params"].(map[string]any); ok {
		req.Params = params
	}

	if req.Method == "notifications/initialized" {
		return nil
	}

	resp := &rpcResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    contracts.ToolNameMovieGraph,
				"version": contracts.ContractVersion,
			},
		}
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		toolDefs := schema.BuildToolDefinitions()
		tools := make([]map[string]any, 0, len(toolDefs))
		for _, def := range toolDefs {
			tools = append(tools, map[string]any{
				"name":        def.Name,
				"description": def.Description,
				"inputSchema": def.InputSchema,
			})
		}
		resp.Result = map[string]any{"tools": tools}
	case "tools/call":
		name, _ := req.Params["name"].(string)
		args, _ := req.Params["arguments"].(map[string]any)
		if args == nil {
			args = map[string]any{}
		}
		result, err := handler(ctx, name, args)
		resp.Result = toolCallResult(result, err)
	default:
		resp.Error = &rpcError{Code: rpcCodeMethodNotFound, Message: "Method not found"}
	}

	return resp
}

// toolCallResult builds the tools/call result envelope. Errors are reported
// in-band with isError, not as RPC errors.
func toolCallResult(result any, err error) map[string]any {
	if err != nil {
		toolErr := normalizeToolError(err)
		return map[string]any{
			"isError": true,
			"content": []map[string]any{
				{"type": "text", "text": fmt.Sprintf("%s: %s", toolErr.Code, toolErr.Message)},
			},
		}
	}
	return map[string]any{
		"isError":           false,
		"structuredContent": result,
		"content": []map[string]any{
			{"type": "text", "text": mustJSONText(result)},
		},
	}
}

// processLegacy handles a bare {tool,args} request. An empty tool name still
// gets a response so callers are never left waiting.
func processLegacy(ctx context.Context, handler Handler, raw map[string]any) *toolResponse {
	req := parseLegacyToolRequest(raw)
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	result, err := handler(ctx, req.Tool, req.Args)
	resp := &toolResponse{ID: req.ID}
	if err != nil {
		toolErr := normalizeToolError(err)
		resp.Error = &toolErr
		return resp
	}
	resp.OK = true
	resp.Result = result
	return resp
}

func parseLegacyToolRequest(raw map[string]any) toolRequest {
	req := toolRequest{}
	if id, ok := raw["id"]; ok {
		req.ID = id
	}
	if tool, ok := raw["tool"].(string); ok {
		req.Tool = tool
	}
	if args, ok := raw["args"].(map[string]any); ok {
		req.Args = args
	}
	return req
}

func rateLimitedResponse(raw map[string]any) rpcResponse {
	id := raw["id"]
	return rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: rpcCodeRateLimited, Message: "Rate limit exceeded"},
	}
}

func mustJSONText(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func normalizeToolError(err error) contracts.ToolError {
	var toolErr contracts.ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	return contracts.ToolError{Code: contracts.ErrorInternal, Message: err.Error()}
}
