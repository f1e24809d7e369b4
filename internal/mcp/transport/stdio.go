package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"cinegraph/internal/core/config"
	"cinegraph/internal/mcp/contracts"
	"cinegraph/internal/shared/util"
)

// Stdio serves tool calls over line-delimited JSON on standard input and
// output. In and Out are swappable for tests; nil means os.Stdin/os.Stdout.
type Stdio struct {
	limits  config.Limits
	limiter *util.Limiter

	In  io.Reader
	Out io.Writer

	mu      sync.Mutex
	running bool
}

// NewStdio builds the transport. A shared registry keeps the limiter
// retunable through config reloads; without one the rate is fixed at
// construction.
func NewStdio(limits config.Limits, limiters *util.LimiterRegistry) (Adapter, error) {
	s := &Stdio{limits: limits}
	switch {
	case limiters != nil:
		s.limiter = limiters.Get("stdio")
	case limits.RateRPS > 0:
		s.limiter = util.NewLimiter(limits.RateRPS, limits.RateBurst)
	}
	return s, nil
}

func (s *Stdio) Start(ctx context.Context, handler Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		<-ctx.Done()
		return ctx.Err()
	}
	s.running = true
	s.mu.Unlock()

	err := s.serve(ctx, handler)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func (s *Stdio) Stop() error {
	return nil
}

func (s *Stdio) serve(ctx context.Context, handler Handler) error {
	if handler == nil {
		return contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "stdio handler is required"}
	}

	in := s.In
	if in == nil {
		in = os.Stdin
	}
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	decoder := json.NewDecoder(bufio.NewReader(in))
	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)

	emit := func(v any) error {
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return writer.Flush()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var raw map[string]any
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if s.limiter != nil && !s.limiter.Allow(1) {
			if err := emit(rateLimitedResponse(raw)); err != nil {
				return err
			}
			continue
		}

		if isRPCMessage(raw) {
			resp := processRPC(ctx, handler, raw)
			if resp == nil {
				continue
			}
			if err := emit(resp); err != nil {
				return err
			}
			continue
		}

		resp := processLegacy(ctx, handler, raw)
		if resp == nil {
			continue
		}
		if err := emit(resp); err != nil {
			return err
		}
	}
}
