// Package collector implements the local RPC server exposing Resolve and
// Report (§4.7), grounded on the teacher's Mux HTTP-over-socket pattern but
// listening on an ephemeral loopback TCP port, as the preload library and
// wrappers need a URI they can carry across an exec.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/rizsotto/citrace/internal/eventstore"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/tracing"
)

// Resolver translates a wrapper-observed execution into the real one to
// run, and decides the environment injected so the child stays observed.
// Implementations live in internal/session, since resolution depends on
// which interception strategy is active.
type Resolver interface {
	Resolve(ctx context.Context, exec execution.Execution) (execution.Execution, error)
}

// Server is the collector: it resolves wrapper calls and appends every
// reported event to the store. It is safe for concurrent use, since many
// intercepted children call in at once (§5).
type Server struct {
	store    *eventstore.Store
	resolver Resolver

	listener net.Listener
	http     *http.Server
}

// New builds a collector bound to store for event ingestion and resolver
// for wrapper-path resolution.
func New(store *eventstore.Store, resolver Resolver) *Server {
	return &Server{store: store, resolver: resolver}
}

// Listen opens the ephemeral loopback port and returns its URI, but does
// not yet start serving; call Serve to do that.
func (s *Server) Listen() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("collector: listen: %w", err)
	}
	s.listener = listener
	return fmt.Sprintf("http://%s", listener.Addr().String()), nil
}

// Serve runs the HTTP server until Shutdown is called; it does not watch
// ctx itself. Run supervises it in an errgroup next to a goroutine that
// calls Shutdown once ctx is canceled, matching the teacher's
// startDaemonServer pattern.
func (s *Server) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", s.handleResolve)
	mux.HandleFunc("/report", s.handleReport)

	s.http = &http.Server{Handler: mux}
	if err := s.http.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("collector: serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Run starts Serve under an errgroup and stops it when ctx is canceled,
// returning once shutdown completes.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Serve(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx := context.Background()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.Tracer.Start(r.Context(), "collector.Resolve")
	defer span.End()

	var exec execution.Execution
	if err := json.NewDecoder(r.Body).Decode(&exec); err != nil {
		writeJSONError(w, err, http.StatusBadRequest)
		return
	}
	resolved, err := s.resolver.Resolve(ctx, exec)
	if err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, resolved)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.Tracer.Start(r.Context(), "collector.Report")
	defer span.End()

	var event execution.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := s.store.Append(ctx, event); err != nil {
		slog.ErrorContext(ctx, "collector.Report append failed", "pid", event.Pid, "err", err)
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	// Report is one-way: the caller does not wait on a meaningful body.
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSONError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
