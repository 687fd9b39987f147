package main

import (
	"github.com/spf13/cobra"

	"blog-app/internal/setup"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users, posts and comments tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, store, err := setup.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Init(ctx); err != nil {
				return err
			}
			logger.Infof("schema ready (%s)", store.Dialect())
			return nil
		},
	}
}
