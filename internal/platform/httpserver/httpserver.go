// Package httpserver assembles the chi router and wraps the standard
// http.Server with the timeouts and shutdown hooks the service expects.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	HTTP *http.Server
}

type Options struct {
	Addr        string
	ServiceName string
	Logger      *zap.Logger
	Router      chi.Router
}

func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.Router == nil {
		opts.Router = chi.NewRouter()
	}

	return &Server{HTTP: &http.Server{
		Addr:              opts.Addr,
		Handler:           opts.Router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Start blocks until the listener fails or Shutdown is called. A clean
// shutdown surfaces as http.ErrServerClosed.
func (s *Server) Start(log *zap.Logger) error {
	log.Info("http server listening", zap.String("addr", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTP.Shutdown(ctx)
}
