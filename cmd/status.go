package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/gametime-cli/internal/adapters/render/status"
	"github.com/bnema/gametime-cli/internal/application"
	"github.com/bnema/gametime-cli/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var (
		gameID string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show accumulated playtime per game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tracker, err := app.loadTracker(cmd.Context())
			if err != nil {
				return err
			}

			statuses := tracker.Statuses()
			if gameID != "" {
				statuses = filterStatuses(statuses, domain.GameID(gameID))
				if len(statuses) == 0 {
					return fmt.Errorf("no playtime recorded for game %q", gameID)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			rendered, err := app.statusRenderer(statuses, statusadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Limit output to one game id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}

func filterStatuses(statuses []application.GameStatus, id domain.GameID) []application.GameStatus {
	for _, status := range statuses {
		if status.GameID == id {
			return []application.GameStatus{status}
		}
	}
	return nil
}
