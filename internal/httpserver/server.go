// Package httpserver runs the API server and coordinates graceful shutdown.
// The configured write timeout governs the REST surface only: the realtime
// endpoint hijacks its connection on upgrade, after which the socket's own
// ping/pong deadlines take over.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boardsync/boardsync/config"
)

type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func New(conf config.HTTPServer, handler http.Handler) *Server {
	return &Server{
		server: &http.Server{
			Handler:      handler,
			ReadTimeout:  conf.ReadTimeout,
			WriteTimeout: conf.WriteTimeout,
			Addr:         fmt.Sprintf("%v:%v", conf.BindAddress, conf.BindPort),
		},
		shutdownTimeout: conf.ShutdownTimeout,
	}
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests within the
// shutdown timeout. Hijacked realtime sockets are not waited on; clients
// reconnect and rejoin their rooms against the next instance.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[HTTPSERVER] boardsync api listening on:", s.server.Addr)

	go func() {
		err := s.server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			log.Println("[HTTPSERVER] http server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan

	log.Println("[SHUTDOWN] draining http connections")

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %v", err)
	}
	return nil
}
