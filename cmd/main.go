// Package main runs the in-memory fake ledger serving the bank API for local development.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-bank-client/cmd/httpserver"
	"github.com/go-petr/pet-bank-client/internal/ledgerfake"
	"github.com/go-petr/pet-bank-client/internal/middleware"
	"github.com/go-petr/pet-bank-client/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	store := ledgerfake.NewStore()

	if err := ledgerfake.SeedDemo(store); err != nil {
		logger.Fatal().Err(err).Msg("cannot seed ledger")
	}

	server, err := httpserver.New(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().
		Str("address", config.ServerAddress).
		Str("username", ledgerfake.DemoUsername).
		Msg("FAKE LEDGER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
