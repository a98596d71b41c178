package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const (
	DEFAULT_READ_TIMEOUT     = 60 * time.Second
	DEFAULT_WRITE_TIMEOUT    = DEFAULT_READ_TIMEOUT
	DEFAULT_SHUTDOWN_TIMEOUT = 30 * time.Second
)

// Server wraps http.Server with signal driven graceful shutdown and
// shutdown hooks. There is no graceful restart: the collection lives in
// process memory and a re-exec would start empty.
type Server struct {
	*http.Server

	signalChan   chan os.Signal
	shutdownChan chan struct{}
	shutdownOnce sync.Once

	mu    sync.Mutex
	hooks []func()
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		signalChan:   make(chan os.Signal, 1),
		shutdownChan: make(chan struct{}),
	}
}

// OnShutdown registers fn to run after the HTTP server has drained, in
// registration order.
func (srv *Server) OnShutdown(fn func()) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.hooks = append(srv.hooks, fn)
}

// ListenAndServe listens on tcp and serves until SIGINT/SIGTERM or ctx is done.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}
	return srv.Serve(ctx, ln)
}

// Serve serves on ln until a signal arrives or ctx is done, then shuts down
// gracefully and runs the hooks.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(srv.signalChan)

	go func() {
		select {
		case sig := <-srv.signalChan:
			Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
		case <-ctx.Done():
			Sugar.Info("context done, graceful shutting down HTTP server")
		case <-srv.shutdownChan:
			return
		}
		srv.shutdownHTTPServer()
	}()

	err := srv.Server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	} else {
		// Serve failed on its own; still release everything
		srv.shutdownHTTPServer()
	}
	<-srv.shutdownChan
	return err
}

func (srv *Server) shutdownHTTPServer() {
	srv.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			Sugar.Errorf("HTTP server shutdown error: %v", err)
		} else {
			Sugar.Info("HTTP server shutdown success")
		}

		srv.mu.Lock()
		hooks := append([]func(){}, srv.hooks...)
		srv.mu.Unlock()
		for _, fn := range hooks {
			fn()
		}
		close(srv.shutdownChan)
	})
}

// GraceServer starts an HTTP server with graceful capabilities.
func GraceServer(ctx context.Context, addr string, handler http.Handler, hooks ...func()) error {
	srv := NewServer(addr, handler, DEFAULT_READ_TIMEOUT, DEFAULT_WRITE_TIMEOUT)
	for _, fn := range hooks {
		srv.OnShutdown(fn)
	}
	return srv.ListenAndServe(ctx)
}
