package api

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server runs an http.Server in the background.
type Server struct {
	httpServer *http.Server
	notify     chan error
}

// NewServer creates a Server; call Start to begin listening.
func NewServer(address string, timeout, idleTimeout time.Duration, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         address,
			Handler:      handler,
			ReadTimeout:  timeout,
			WriteTimeout: 0, // generation can outlast any fixed write timeout
			IdleTimeout:  idleTimeout,
		},
		notify: make(chan error, 1),
	}
}

func (s *Server) Start() {
	go func() {
		err := s.httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			s.notify <- err
		}
		close(s.notify)
	}()
}

// Notify reports a listen failure; it is closed after a clean shutdown.
func (s *Server) Notify() <-chan error {
	return s.notify
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
