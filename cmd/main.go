// Package main runs the ledger API server and the monthly interest job.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/interestjob"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	if config.MigrateOnStart {
		if err := dbpkg.Migrate(context.Background(), db); err != nil {
			logger.Fatal().Err(err).Msg("cannot migrate database")
		}
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	job, err := interestjob.New(config.InterestSchedule, logger, server.Services.Accounts, server.Services.Cards)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create interest job")
	}

	job.Start()
	defer job.Stop()

	logger.Info().Msg("LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Error().Err(err).Msg("cannot start server")
	}
}
