package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/contextworks/mcp-gateway/pkg/logging"
)

// maxRequestBody bounds one inbound HTTP message.
const maxRequestBody = 4 * 1024 * 1024

// HTTP serves the protocol over POST /rpc. Each request is dispatched
// independently; ordering is guaranteed only within a single blocking
// request/response cycle. A /healthz probe and an optional Prometheus
// endpoint ride on the same listener.
type HTTP struct {
	addr          string
	enableMetrics bool
	metricsPath   string
	logger        logging.Logger

	mu     sync.Mutex
	server *http.Server
}

// NewHTTP creates an HTTP transport from config.
func NewHTTP(config Config, logger logging.Logger) *HTTP {
	if logger == nil {
		logger = logging.Discard()
	}
	addr := config.HTTPAddr
	if addr == "" {
		addr = ":8137"
	}
	metricsPath := config.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &HTTP{
		addr:          addr,
		enableMetrics: config.EnableMetrics,
		metricsPath:   metricsPath,
		logger:        logger.WithFields(logging.String("transport", "http")),
	}
}

// Serve listens on the configured address until ctx is cancelled or Shutdown
// is called. Graceful shutdown drains in-flight requests.
func (t *HTTP) Serve(ctx context.Context, handler Handler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", t.rpcHandler(handler))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if t.enableMetrics {
		mux.Handle(t.metricsPath, promhttp.Handler())
	}

	server := &http.Server{
		Addr:              t.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.mu.Lock()
	t.server = server
	t.mu.Unlock()

	t.logger.Info("listening", logging.String("addr", t.addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown stops the listener and drains in-flight requests.
func (t *HTTP) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	server := t.server
	t.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (t *HTTP) rpcHandler(handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		connID := uuid.NewString()
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
		if err != nil {
			t.logger.Warn("failed to read request body",
				logging.String("conn_id", connID), logging.Err(err))
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		// r.Context() carries the client disconnect; an abandoned write
		// affects only this exchange.
		response := handler.Process(r.Context(), raw)
		if response == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.logger.Warn("failed to write response",
				logging.String("conn_id", connID), logging.Err(err))
		}
	}
}
