package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"blog-app/internal/backup"
	"blog-app/internal/resource"
	"blog-app/internal/setup"
)

const (
	keepFlag   = "keep"
	urlTTLFlag = "url-ttl"
)

func newBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the sqlite database and upload it to object storage",
		Args:  cobra.NoArgs,
		RunE:  backupCommand,
	}
	cobraflags.RegisterMap(cmd, map[string]cobraflags.Flag{
		keepFlag: &cobraflags.StringFlag{
			Name:  keepFlag,
			Value: "",
			Usage: "Number of newest backups to retain after uploading; older ones are deleted",
		},
	})
	return cmd
}

func newBackupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List stored backups, newest first",
		Args:  cobra.NoArgs,
		RunE:  backupsCommand,
	}
	cobraflags.RegisterMap(cmd, map[string]cobraflags.Flag{
		urlTTLFlag: &cobraflags.StringFlag{
			Name:  urlTTLFlag,
			Value: "",
			Usage: "Print a presigned download URL valid for this duration (e.g. 15m)",
		},
	})
	return cmd
}

func backupCommand(cmd *cobra.Command, _ []string) error {
	raw, err := cmd.Flags().GetString(keepFlag)
	if err != nil {
		return err
	}
	keep := 0
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("--%s must be a positive number, got %q", keepFlag, raw)
		}
		keep = n
	}

	ctx := cmd.Context()
	db, store, err := setup.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(cmd, store)
	if err != nil {
		return err
	}

	location, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), location)

	if keep > 0 {
		removed, err := runner.Prune(ctx, keep)
		if err != nil {
			return err
		}
		for _, key := range removed {
			logger.Infof("removed %s", key)
		}
	}
	return nil
}

func backupsCommand(cmd *cobra.Command, _ []string) error {
	raw, err := cmd.Flags().GetString(urlTTLFlag)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return fmt.Errorf("--%s must be a positive duration, got %q", urlTTLFlag, raw)
		}
		ttl = d
	}

	runner, err := newRunner(cmd, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	backups, err := runner.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, obj := range backups {
		modified := "-"
		if obj.LastModified != nil {
			modified = resource.FormatTime(*obj.LastModified)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", obj.Key, obj.Size, modified)
		if ttl > 0 {
			url, err := runner.URL(ctx, obj.Key, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\t%s\t\n", url)
		}
	}
	return w.Flush()
}

func newRunner(cmd *cobra.Command, db backup.Snapshotter) (*backup.Runner, error) {
	remote, err := setup.BuildStorage(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	return backup.NewRunner(db, remote, backup.Config{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Logger:    logger,
	}), nil
}
