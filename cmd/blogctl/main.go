package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"blog-app/internal/config"
	"blog-app/internal/setup"
)

var (
	logger = logrus.New()
	cfg    config.Config
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Administer the blog database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			if err := setup.ConfigureLogger(logger, loaded); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newBackupCommand())
	root.AddCommand(newBackupsCommand())
	return root
}

func main() {
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := newRootCommand().Execute(); err != nil {
		logger.Errorf("blogctl: %v", err)
		os.Exit(1)
	}
}
