package cli

import (
	"github.com/spf13/cobra"

	"github.com/rvergnes/edtcal/internal/service"
	"github.com/rvergnes/edtcal/internal/sync"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Calendars service.CalendarService
	Events    service.EventService
	Rules     service.RulesService
	Sync      *sync.Coordinator
}

// NewRootCmd creates the top-level "edtcal" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "edtcal",
		Short: "Timetable calendar aggregator and corrector",
	}

	root.AddCommand(
		newCalendarCmd(app),
		newEventsCmd(app),
		newStatsCmd(app),
		newRulesCmd(app),
		newRefreshCmd(app),
	)

	return root
}
