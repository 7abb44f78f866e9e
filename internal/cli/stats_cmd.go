package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvergnes/edtcal/internal/cli/formatter"
	"github.com/rvergnes/edtcal/internal/domain"
)

func newStatsCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Service-hour totals per subject and session type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			state := domain.FilterState{
				DateStart: from,
				DateEnd:   to,
				Source:    domain.ScopeService,
			}
			res, err := app.Events.Stats(ctx, state)
			if err != nil {
				return err
			}

			headers := []string{"SUBJECT", "TYPE", "SESSIONS", "HOURS"}
			rows := make([][]string, 0, len(res.Rows))
			for _, r := range res.Rows {
				rows = append(rows, []string{
					r.Subject,
					r.Type,
					fmt.Sprintf("%d", r.Sessions),
					fmt.Sprintf("%.1f", r.Hours),
				})
			}

			fmt.Println(formatter.Header("Service hours"))
			fmt.Print(formatter.RenderTable(headers, rows))
			fmt.Println(formatter.Bold(fmt.Sprintf("Total: %.1f h", res.TotalHours)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD, inclusive)")

	return cmd
}
