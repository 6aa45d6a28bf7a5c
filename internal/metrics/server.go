package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/JonusNattapong/DekEA-SUPERMAX/internal/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves the metrics endpoint and a health check.
type Server struct {
	addr       string
	router     *mux.Router
	httpServer *http.Server
	listener   net.Listener
	log        *logger.Logger
}

// NewServer builds a Server for recorder on addr. path defaults to /metrics.
func NewServer(addr string, path string, recorder *Recorder, log *logger.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	router := mux.NewRouter()
	router.Handle(path, promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/healthz", handleHealth).Methods("GET")

	return &Server{
		addr:   addr,
		router: router,
		log:    log,
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	s.log.Info("Metrics server listening", zap.String("addr", listener.Addr().String()))

	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}

	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
