package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"boltfarm/internal/datastore"
	"boltfarm/internal/models"
	"boltfarm/internal/services"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAccount(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableMiningSession(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableServerAsset(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUpgradeEvent(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAccountWallet(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAccountCrate(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// commandConfigMigration seeds runtime tunables and the per-server
// stock counters. "DO NOTHING" on conflict keeps operator overrides.
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate-config",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_MINING_BASE_RATE, Value: strconv.Itoa(services.MINING_BASE_RATE_PER_HOUR_DEFAULT)},
				{Key: services.CONFIG_CLAIM_MIN_HOURS, Value: "1"},
				{Key: services.CONFIG_CLAIM_MAX_HOURS, Value: "24"},
				{Key: services.CONFIG_CRONJOB_TIME_SWEEP, Value: services.CRONJOB_TIME_SWEEP_DEFAULT},
				{Key: services.CONFIG_CRATE_COUNTDOWN_HOURS, Value: strconv.Itoa(services.CRATE_COUNTDOWN_HOURS_DEFAULT)},
				{Key: services.CONFIG_MINER_LEADERBOARD_SIZE, Value: strconv.Itoa(services.MINER_LEADERBOARD_DEFAULT_SIZE)},
			}

			for _, server := range models.ServerCatalog {
				configs = append(configs, models.Config{
					Key:   server.StockConfigKey(),
					Value: strconv.Itoa(server.InitialStock),
				})
			}

			for _, config := range configs {
				if err := datastore.InsertConfig(ctx, db, config); err != nil {
					fmt.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	godotenv.Load()
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
