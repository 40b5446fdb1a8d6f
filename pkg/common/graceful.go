package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// ShutdownHook runs after a termination signal and before the HTTP server
// shuts down. Errors are logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// RunServerWithShutdown serves until ctx is cancelled or SIGINT/SIGTERM
// arrives, then runs hooks in order (each bounded by cfg.Hook) and shuts the
// server down within cfg.Shutdown. A listen failure is returned immediately.
func RunServerWithShutdown(ctx context.Context, server *http.Server, name string, cfg TimeoutConfig, hooks ...ShutdownHook) error {
	hookTimeout := cfg.Hook
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Printf("starting %s on %s", name, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err, ok := <-listenErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Printf("shutdown signal received for %s", name)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Printf("shutdown hook %d timed out", i)
		}
		hCancel()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("%s shutdown complete", name)
	return nil
}

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

var DefaultTimeouts = TimeoutConfig{
	ReadHeader: 5 * time.Second,
	Read:       15 * time.Second,
	Write:      30 * time.Second,
	Idle:       60 * time.Second,
	Shutdown:   15 * time.Second,
	Hook:       5 * time.Second,
}

// LoadTimeoutConfig overrides defaults from READ_HEADER_TIMEOUT, READ_TIMEOUT,
// WRITE_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT and HOOK_TIMEOUT (seconds).
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	return TimeoutConfig{
		ReadHeader: EnvSeconds("READ_HEADER_TIMEOUT", defaults.ReadHeader),
		Read:       EnvSeconds("READ_TIMEOUT", defaults.Read),
		Write:      EnvSeconds("WRITE_TIMEOUT", defaults.Write),
		Idle:       EnvSeconds("IDLE_TIMEOUT", defaults.Idle),
		Shutdown:   EnvSeconds("SHUTDOWN_TIMEOUT", defaults.Shutdown),
		Hook:       EnvSeconds("HOOK_TIMEOUT", defaults.Hook),
	}
}

func NewServerWithTimeouts(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}
