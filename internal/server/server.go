package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/planerr"
)

const shutdownTimeout = 5 * time.Second

// Server serves the editor endpoints on one HTTP listener.
type Server struct {
	ctx        context.Context
	name       string
	compiler   Compiler
	gatherer   prometheus.Gatherer
	io         *socket.Server
	httpServer *http.Server
}

// New prepares a server listening on port. gatherer may be nil, in which
// case /metrics is not mounted.
func New(ctx context.Context, c Compiler, gatherer prometheus.Gatherer, port int) *Server {
	s := &Server{ctx: ctx, name: "Autocomplete server", compiler: c, gatherer: gatherer}
	s.io = socket.NewServer(nil, nil)
	s.io.On("connection", s.onConnection)
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(s.io.ServeHandler(socket.DefaultServerOptions())),
	}
	return s
}

// NewHealthCheck prepares a server exposing only /health and, when gatherer
// is non-nil, /metrics. Batch runs use it for liveness checks.
func NewHealthCheck(ctx context.Context, gatherer prometheus.Gatherer, port int) *Server {
	s := &Server{ctx: ctx, name: "Health check server", gatherer: gatherer}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(nil),
	}
	return s
}

// Handler returns the server's route table.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// routes mounts socket.io under /socket.io/ unless sio is nil.
func (s *Server) routes(sio http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	if sio != nil {
		mux.Handle("/socket.io/", sio)
	}
	mux.HandleFunc("/health", s.healthHandler)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(s.ctx).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) onConnection(clients ...any) {
	client, ok := clients[0].(*socket.Socket)
	if !ok {
		return
	}
	logger := ctxlog.FromContext(s.ctx).With("client", client.Id())
	logger.Debug("Editor connected.")
	ctx := ctxlog.WithLogger(s.ctx, logger)

	client.On(EventAutocomplete, func(args ...any) {
		res, err := HandleAutocomplete(ctx, s.compiler, firstArg(args))
		if err != nil {
			logger.Debug("Autocomplete request failed.", "error", err)
			client.Emit(EventAutocompleteError, &ErrorResult{Problems: planerr.Describe(err)})
			return
		}
		client.Emit(EventAutocompleteResult, res)
	})

	client.On(EventCompile, func(args ...any) {
		client.Emit(EventCompileResult, HandleCompile(ctx, s.compiler, firstArg(args)))
	})

	client.On("disconnect", func(reason ...any) {
		logger.Debug("Editor disconnected.", "reason", firstArg(reason))
	})
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// Start runs the HTTP server in the background.
func (s *Server) Start() {
	logger := ctxlog.FromContext(s.ctx)
	go func() {
		logger.Info("🧩 "+s.name+" starting", "address", fmt.Sprintf("http://localhost%s", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(s.name+" failed unexpectedly", "error", err)
		}
	}()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	logger := ctxlog.FromContext(s.ctx)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("🧩 Shutting down " + s.name + "...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error(s.name+" shutdown failed", "error", err)
		return err
	}
	logger.Debug(s.name + " shut down gracefully.")
	return nil
}
