package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/rechargehub/app/repositories"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/database/seeders"
	"github.com/shashiranjanraj/rechargehub/pkg/database"
)

// rechargehub seed — ensure indexes and load the starter data set.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx) //nolint:errcheck

		if err := repositories.EnsureIndexes(ctx, db); err != nil {
			return err
		}

		fmt.Println("Seeding database…")
		return seeders.RunAll(ctx, db)
	},
}
