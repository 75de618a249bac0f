package main

import (
	"context"
	_ "embed"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/way"
	"github.com/tomz197/maze/internal/config"
	"github.com/tomz197/maze/internal/game"
	loopconfig "github.com/tomz197/maze/internal/loop/config"
	"github.com/tomz197/maze/internal/loop/server"
	"github.com/tomz197/maze/internal/maze"
	"github.com/tomz197/maze/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("cannot load .env", "err", err)
	}
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	cfg := game.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid game config", "err", err)
	}

	registry := server.NewServer(logger)
	router := way.NewRouter()
	router.HandleFunc("GET", "/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	router.Handle("GET", "/play", &web.Handler{
		Server: registry,
		NewSession: func() (*game.Session, error) {
			return game.NewSession(cfg, newRand(), nil, game.WithLogger(logger))
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Hijacked websocket connections are not tracked by http.Server,
	// so players are notified and drained through the registry first.
	if !registry.Shutdown(loopconfig.ShutdownTimeout) {
		logger.Warn("players still connected after timeout")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// newRand seeds sessions from MAZE_SEED when set; nil lets each session seed itself.
func newRand() maze.Rand {
	if seed, ok := config.Seed(); ok {
		return rand.New(rand.NewSource(seed))
	}
	return nil
}
