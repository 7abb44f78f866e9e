package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvergnes/edtcal/internal/cli/formatter"
	"github.com/rvergnes/edtcal/internal/domain"
)

func newEventsCmd(app *App) *cobra.Command {
	var (
		from, to       string
		afterT, before string
		daysFlag       string
		allCalendars   bool
	)
	scope := scopeValue(domain.ScopeVisible)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events through the filter pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			days, err := parseDays(daysFlag)
			if err != nil {
				return err
			}
			state := domain.FilterState{
				DateStart: from,
				DateEnd:   to,
				StartTime: afterT,
				EndTime:   before,
				Days:      days,
				Source:    domain.SourceScope(scope),
			}

			var events []domain.EnrichedEvent
			if allCalendars {
				// Courses view: every calendar, whatever the scope says.
				events, err = app.Events.EventsInScope(ctx, state, domain.ScopeAll)
			} else {
				events, err = app.Events.Events(ctx, state)
			}
			if err != nil {
				return err
			}

			ordinals := app.Events.Ordinals(events)

			headers := []string{"DATE", "TIME", "SUBJECT", "SESSION", "TEACHER", "PROMO", "ROOM", "CALENDAR"}
			rows := make([][]string, 0, len(events))
			for i := range events {
				e := &events[i]

				session := formatter.Dim(e.Type)
				if ord := ordinals[i]; ord != nil {
					label := fmt.Sprintf("%s%d", ord.Type, ord.Ordinal)
					session = formatter.SessionTypeStyle(ord.Type).Render(label)
				}

				subject := e.Subject
				if e.Duplicate {
					subject = formatter.Dim(subject + " (dup)")
				}

				rows = append(rows, []string{
					e.LocalDateKey(),
					timeRange(e),
					subject,
					session,
					e.ExtractedTeacher,
					e.Promo,
					e.Location,
					e.CalendarName,
				})
			}

			fmt.Print(formatter.RenderTable(headers, rows))
			fmt.Println(formatter.Dim(fmt.Sprintf("%d event(s)", len(events))))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&afterT, "after", "", "Time-of-day window start (HH:MM)")
	cmd.Flags().StringVar(&before, "before", "", "Time-of-day window end (HH:MM)")
	cmd.Flags().StringVar(&daysFlag, "days", "", "ISO weekdays to keep, comma-separated (1=Mon..7=Sun)")
	cmd.Flags().Var(&scope, "scope", "Source scope: service, main, visible or all")
	cmd.Flags().BoolVar(&allCalendars, "all", false, "Ignore scope and include every calendar")

	return cmd
}

func parseDays(flag string) ([]int, error) {
	if flag == "" {
		return nil, nil
	}
	parts := strings.Split(flag, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid weekday %q (want 1..7)", p)
		}
		days = append(days, n)
	}
	return days, nil
}

func timeRange(e *domain.EnrichedEvent) string {
	if e.StartAt == nil {
		return ""
	}
	out := e.StartAt.Local().Format("15:04")
	if e.EndAt != nil {
		out += "–" + e.EndAt.Local().Format("15:04")
	}
	return out
}
