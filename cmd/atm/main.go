/**
 * @description
 * This is the entry point for the ATM service. It initializes configuration,
 * opens the PostgreSQL connection pool, wires the repository into the account
 * service, and hands control to the interactive console session until the
 * operator types "exit".
 *
 * @dependencies
 * - The service's internal packages for config, console, business logic and storage.
 * - pgxpool for the database connection, godotenv for local config.
 */
package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/atmsystem/atm-service/internal/app"
	"github.com/atmsystem/atm-service/internal/config"
	"github.com/atmsystem/atm-service/internal/console"
	"github.com/atmsystem/atm-service/internal/store"
)

func main() {
	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database URL: %v", err)
	}
	dbConfig.MaxConns = cfg.DBMaxConns

	ctx := context.Background()
	dbpool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbpool.Close()
	log.Println("Database connection established")

	accountRepo := store.NewPostgresAccountRepository(dbpool)
	accountService := app.NewAccountService(accountRepo)

	session := console.NewSession(accountService, console.NewStdConsole())
	session.Run(ctx)

	log.Println("ATM service stopped")
}
