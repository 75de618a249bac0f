package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/maze/internal/config"
	"github.com/tomz197/maze/internal/game"
	"github.com/tomz197/maze/internal/loop/client"
	"github.com/tomz197/maze/internal/maze"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

// run plays one local game and returns the process exit code,
// so deferred cleanup happens before exiting.
func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		return 1
	}

	// The terminal is owned by the game; logs only go out when LOG_FILE is set.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	var rng maze.Rand
	if seed, ok := config.Seed(); ok {
		rng = rand.New(rand.NewSource(seed))
	}
	sess, err := game.NewSession(game.ConfigFromEnv(), rng, nil, game.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid game config: %v\n", err)
		return 1
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(sess, reader, os.Stdout, client.ClientOptions{Logger: logger})
	runErr := c.Run(ctx)
	_ = term.Restore(fd, oldState)

	if runErr != nil {
		logger.Error("game error", "err", runErr)
		fmt.Fprintf(os.Stderr, "game error: %v\n", runErr)
		return 1
	}
	return 0
}
