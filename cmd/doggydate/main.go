package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/doggy-date/internal/config"
	"github.com/Rrens/doggy-date/internal/logging"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/Rrens/doggy-date/internal/terminal"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional here
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCloser, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := remote.NewClient(cfg.GraphQL.Endpoint, remote.WithTimeout(cfg.GraphQL.Timeout))
	term := terminal.New(os.Stdin, os.Stdout)
	scr := screen.NewRemote(client, term)
	defer scr.Close()

	log.Debug().Str("graphql", client.Endpoint()).Msg("Starting Doggy Date terminal")

	if err := term.Run(ctx, scr); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Terminal stopped")
	}
}
