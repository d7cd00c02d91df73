package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const defaultShutdownGrace = 5 * time.Second

// Server serves the canvas HTTP and websocket surface over h2c and owns its
// own drain window: Run blocks until the context is cancelled, then gives
// in-flight requests the configured grace period to finish.
type Server struct {
	httpServer *http.Server
	grace      time.Duration
}

func New(addr string, grace time.Duration, handler http.Handler) *Server {
	if grace <= 0 {
		grace = defaultShutdownGrace
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grace: grace,
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("canvas server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("canvas server draining, grace %s", s.grace)
	drainCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return err
	}
	return <-errCh
}
