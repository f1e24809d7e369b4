// Package registry maps exposed tool names to their handlers. The server
// registers the movie_graph tool here; transports resolve calls through it.
package registry

import (
	"context"
	"fmt"
	"sync"
)

type Handler func(ctx context.Context, input any) (any, error)

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a tool name. Names are registered once;
// re-registration is an error rather than a silent replace.
func (r *Registry) Register(tool string, handler Handler) error {
	if tool == "" {
		return fmt.Errorf("tool name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[tool]; exists {
		return fmt.Errorf("tool already registered: %s", tool)
	}
	r.handlers[tool] = handler
	r.order = append(r.order, tool)
	return nil
}

func (r *Registry) HandlerFor(tool string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[tool]
	return h, ok
}

// Tools returns the registered tool names in registration order.
func (r *Registry) Tools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
