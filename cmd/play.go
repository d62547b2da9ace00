package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/gametime-cli/internal/domain"
)

func newPlayCmd(app *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "play <game-id> -- <command> [args...]",
		Short: "Launch a game and track its playtime until it exits",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("play requires a game id and a command after '--'")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := domain.GameID(args[0])

			tracker, err := app.loadTracker(cmd.Context())
			if err != nil {
				return err
			}

			tracker.StartTracking(gameID, time.Time{})
			app.logger.Info().Str("game", string(gameID)).Msg("tracking started")

			child := exec.CommandContext(cmd.Context(), args[1], args[2:]...)
			child.Stdout = cmd.ErrOrStderr()
			child.Stderr = cmd.ErrOrStderr()
			child.Stdin = cmd.InOrStdin()

			autosave := app.options.Bool(optionAutosave)
			observe := func() (domain.GameTime, error) {
				snapshot, err := tracker.TrackedTime(gameID)
				if err != nil {
					return domain.GameTime{}, err
				}
				if autosave {
					if err := app.saveTracker(cmd.Context(), tracker); err != nil {
						app.logger.Warn().Err(err).Msg("periodic time cache save failed")
					}
				}
				return snapshot, nil
			}

			var childErr error
			if quiet {
				childErr = runTrackedChild(cmd.Context(), child, app.pollInterval(), observe)
			} else {
				childErr = runTrackedChildSpinner(cmd.Context(), cmd.OutOrStdout(), child, gameID, app.pollInterval(), observe)
			}

			snapshot, err := tracker.TrackedTime(gameID)
			if err != nil {
				return err
			}
			if err := tracker.StopTracking(gameID); err != nil {
				return err
			}
			if err := app.saveTracker(cmd.Context(), tracker); err != nil {
				return err
			}

			app.logger.Info().
				Str("game", string(gameID)).
				Dur("played", snapshot.PlayedDuration()).
				Msg("tracking stopped")

			if childErr != nil {
				return fmt.Errorf("run game command: %w", childErr)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s played in total\n", gameID, snapshot.PlayedCompact())
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Disable the live tracking display")

	return cmd
}

// runTrackedChild runs the child process while observing playtime on the poll
// interval, without any terminal UI.
func runTrackedChild(ctx context.Context, child *exec.Cmd, interval time.Duration, observe observeFunc) error {
	if err := child.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- child.Wait()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			if _, err := observe(); err != nil && !errors.Is(err, domain.ErrGameNotTracked) {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type observeFunc func() (domain.GameTime, error)
