package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"snapclash/internal/datastore"
	"snapclash/internal/models"
	"snapclash/internal/services"
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

			if err := datastore.CreateTableUser(ctx, db); err != nil {
				log.Fatal(err)
			}
			if err := datastore.CreateTableChallenge(ctx, db); err != nil {
				log.Fatal(err)
			}
			if err := datastore.CreateTableChallengeParticipation(ctx, db); err != nil {
				log.Fatal(err)
			}
			if err := datastore.CreateTableSelfieSubmission(ctx, db); err != nil {
				log.Fatal(err)
			}
			if err := datastore.CreateTableConfig(ctx, db); err != nil {
				log.Fatal(err)
			}

			log.Println("migration done")
			return nil
		},
	}
}

func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate-config",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configStore := datastore.NewConfigStore(db)
			defaults := []models.Config{
				{Key: services.CONFIG_PUBLIC_LEADERBOARD_LIMIT, Value: "100"},
				{Key: services.CONFIG_PRIVATE_PARTICIPANT_CAP, Value: "10"},
				{Key: services.CONFIG_TRENDING_CHALLENGES_LIMIT, Value: "20"},
				{Key: services.CONFIG_CRONJOB_TIME_WINNER, Value: "@every 5m"},
			}

			for _, config := range defaults {
				config := config
				if err := configStore.Upsert(ctx, &config); err != nil {
					log.Fatal(err)
				}
			}

			log.Println("config migration done")
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}
