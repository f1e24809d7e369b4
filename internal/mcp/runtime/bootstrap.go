package runtime

import (
	"fmt"
	"strings"

	"cinegraph/internal/core/config"
	"cinegraph/internal/mcp/adapters"
	"cinegraph/internal/mcp/contracts"
	"cinegraph/internal/mcp/openapi"
	"cinegraph/internal/mcp/registry"
	"cinegraph/internal/mcp/transport"
)

// Build assembles the MCP server from config: transport, registry, tool
// adapter, and a fail-fast cross-check of the published OpenAPI document
// against the compiled-in operation set.
func Build(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Service == nil {
		return nil, fmt.Errorf("graph service dependency is required")
	}

	if err := verifyOperationContract(); err != nil {
		return nil, err
	}

	tr, err := buildTransport(cfg, deps)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	toolAdapter := adapters.NewAdapter(deps.Service)
	return New(cfg, deps, reg, tr, toolAdapter, contracts.ToolNameMovieGraph)
}

func buildTransport(cfg *config.Config, deps Dependencies) (transport.Adapter, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	switch name {
	case "", "stdio":
		return transport.NewStdio(cfg.Limits, deps.Limiters)
	case "sse", "http":
		addr := strings.TrimSpace(cfg.Server.Address)
		if addr == "" {
			addr = "127.0.0.1:8790"
		}
		return transport.NewSSE(addr, cfg.Limits, deps.Logger, deps.Limiters)
	default:
		return nil, fmt.Errorf("unsupported transport: %s", name)
	}
}

// verifyOperationContract parses the embedded OpenAPI document and compares
// its operation set with the compiled one. Contract drift fails startup
// instead of surfacing call by call.
func verifyOperationContract() error {
	doc, err := openapi.Embedded()
	if err != nil {
		return fmt.Errorf("load embedded openapi document: %w", err)
	}
	descriptors, err := openapi.Convert(doc)
	if err != nil {
		return fmt.Errorf("convert openapi operations: %w", err)
	}
	if err := openapi.CrossCheck(descriptors, contracts.AllOperations()); err != nil {
		return fmt.Errorf("openapi contract check: %w", err)
	}
	return nil
}
