package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCacheCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or move the persisted time cache",
	}

	cmd.AddCommand(
		newCacheExportCmd(app),
		newCacheImportCmd(app),
		newCachePathCmd(app),
	)

	return cmd
}

func newCacheExportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the exported cache blob to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tracker, err := app.loadTracker(cmd.Context())
			if err != nil {
				return err
			}

			blob, err := tracker.CacheBlob()
			if err != nil {
				return fmt.Errorf("export time cache: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(blob)
			return err
		},
	}
}

func newCacheImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Replace the persisted cache with a blob read from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			blob, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read blob from stdin: %w", err)
			}

			tracker, err := app.loadTracker(cmd.Context())
			if err != nil {
				return err
			}

			if err := tracker.RestoreCache(blob); err != nil {
				return fmt.Errorf("import time cache: %w", err)
			}

			return app.saveTracker(cmd.Context(), tracker)
		},
	}
}

func newCachePathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of the persisted cache file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.repo.Path())
			return err
		},
	}
}
