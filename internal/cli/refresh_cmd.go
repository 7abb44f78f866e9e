package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvergnes/edtcal/internal/domain"
)

func newRefreshCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "refresh [calendar]",
		Short: "Manually refresh remote calendars",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if all {
				return app.Sync.RefreshDue(ctx)
			}
			if len(args) == 0 {
				return fmt.Errorf("a calendar argument or --all is required")
			}

			id, err := resolveCalendarID(ctx, app, args[0])
			if err != nil {
				return err
			}

			before, err := remoteState(ctx, app, id)
			if err != nil {
				return err
			}
			if err := app.Sync.Refresh(ctx, id, true); err != nil {
				return err
			}
			after, err := remoteState(ctx, app, id)
			if err != nil {
				return err
			}
			if after == nil {
				fmt.Println("Calendar has no remote source; nothing to refresh.")
				return nil
			}

			// A skipped refresh (cooldown or already in flight) leaves the
			// attempt stamp untouched.
			if before != nil && sameInstant(before.LastAttemptAt, after.LastAttemptAt) {
				fmt.Println("Skipped: refreshed recently or refresh already in progress.")
				return nil
			}

			switch {
			case after.LastError != "":
				fmt.Printf("Refresh failed: %s\n", after.LastError)
			case after.LastWarning != "":
				fmt.Printf("Refreshed with warnings: %s\n", after.LastWarning)
			default:
				fmt.Println("Refreshed.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Refresh every due remote calendar")

	return cmd
}

func remoteState(ctx context.Context, app *App, id string) (*domain.RemoteState, error) {
	calendars, err := app.Calendars.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range calendars {
		if c.ID == id {
			return c.Remote, nil
		}
	}
	return nil, fmt.Errorf("calendar not found: %q", id)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
