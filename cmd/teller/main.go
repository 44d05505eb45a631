// Package main runs the interactive teller console against the ledger database.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/console"
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

	logger := middleware.CreateLogger(config).Level(zerolog.WarnLevel)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	s := httpserver.NewServices(db)

	c := console.New(os.Stdin, os.Stdout, console.Services{
		Customers: s.Customers,
		Accounts:  s.Accounts,
		Cards:     s.Cards,
		Loans:     s.Loans,
		Payments:  s.Payments,
	})

	if err := c.Run(logger.WithContext(context.Background())); err != nil {
		logger.Error().Err(err).Msg("teller session failed")
	}
}
