package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"cinegraph/internal/core/config"
	"cinegraph/internal/shared/util"
)

// SSE serves tool calls over an HTTP event stream. Clients open /sse, learn
// their session endpoint from the first event, and POST JSON-RPC messages to
// /message?session_id=...; responses flow back on the stream.
type SSE struct {
	address string
	limits  config.Limits
	log     *slog.Logger
	server  *http.Server
	handler Handler

	sessions   map[string]*sseSession
	sessionsMu sync.RWMutex

	requestLimiter     *util.LimiterRegistry
	connectionLimiter  *util.LimiterRegistry
	ownsRequestLimiter bool
}

type sseSession struct {
	id        string
	messages  chan any
	createdAt time.Time
}

const sseKeepAliveInterval = 30 * time.Second

// NewSSE builds the transport. A shared request-limiter registry keeps
// per-client rates retunable through config reloads; without one the
// transport owns a registry fixed at the configured rate.
func NewSSE(address string, limits config.Limits, logger *slog.Logger, limiters *util.LimiterRegistry) (Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SSE{
		address:  address,
		limits:   limits,
		log:      logger,
		sessions: make(map[string]*sseSession),
	}

	switch {
	case limiters != nil:
		s.requestLimiter = limiters
	case limits.RateRPS > 0:
		s.requestLimiter = util.NewLimiterRegistry(limits.RateRPS, limits.RateBurst, 10*time.Minute)
		s.ownsRequestLimiter = true
	}
	if s.requestLimiter != nil {
		// Connection churn is far slower than request traffic.
		s.connectionLimiter = util.NewLimiterRegistry(1, 5, 10*time.Minute)
	}

	return s, nil
}

func (s *SSE) Start(ctx context.Context, handler Handler) error {
	s.handler = handler

	mux := http.NewServeMux()
	mux.HandleFunc("/sse", s.handleSSE)
	mux.HandleFunc("/message", s.handleMessage)

	s.server = &http.Server{
		Addr:    s.address,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("sse transport listening", "address", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

func (s *SSE) Stop() error {
	if s.requestLimiter != nil && s.ownsRequestLimiter {
		s.requestLimiter.Stop()
	}
	if s.connectionLimiter != nil {
		s.connectionLimiter.Stop()
	}
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *SSE) handleSSE(w http.ResponseWriter, r *http.Request) {
	if s.connectionLimiter != nil {
		ip := util.GetClientIP(r)
		if !s.connectionLimiter.Get(ip).Allow(1) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many connections", http.StatusTooManyRequests)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sessionID := uuid.New().String()
	session := &sseSession{
		id:        sessionID,
		messages:  make(chan any, 32),
		createdAt: time.Now(),
	}

	s.sessionsMu.Lock()
	s.sessions[sessionID] = session
	s.sessionsMu.Unlock()

	defer func() {
		s.sessionsMu.Lock()
		delete(s.sessions, sessionID)
		s.sessionsMu.Unlock()
	}()

	// The first event tells the client where to POST.
	fmt.Fprintf(w, "event: endpoint\ndata: /message?session_id=%s\n\n", sessionID)
	flusher.Flush()

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case msg := <-session.messages:
			data, err := json.Marshal(msg)
			if err != nil {
				s.log.Warn("sse response marshal failed", "session", sessionID, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", string(data))
			flusher.Flush()
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprintf(w, ":\n\n")
			flusher.Flush()
		}
	}
}

func (s *SSE) handleMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	s.sessionsMu.RLock()
	session, ok := s.sessions[sessionID]
	s.sessionsMu.RUnlock()

	if !ok {
		http.Error(w, "Invalid session_id", http.StatusNotFound)
		return
	}

	if s.requestLimiter != nil {
		ip := util.GetClientIP(r)
		if !s.requestLimiter.Get(ip).Allow(1) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// The POST only acknowledges receipt; the response goes back over the
	// session stream.
	go func() {
		var resp any
		if isRPCMessage(raw) {
			if rpcResp := processRPC(context.Background(), s.handler, raw); rpcResp != nil {
				resp = rpcResp
			}
		} else if legacyResp := processLegacy(context.Background(), s.handler, raw); legacyResp != nil {
			resp = legacyResp
		}
		if resp != nil {
			select {
			case session.messages <- resp:
			case <-time.After(5 * time.Second):
				s.log.Warn("sse session backlogged, dropping response", "session", sessionID)
			}
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}
