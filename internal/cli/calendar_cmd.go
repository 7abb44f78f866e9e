package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvergnes/edtcal/internal/cli/formatter"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage imported calendars",
	}

	cmd.AddCommand(
		newCalendarImportCmd(app),
		newCalendarListCmd(app),
		newCalendarRenameCmd(app),
		newCalendarColorCmd(app),
		newCalendarToggleCmd(app, "show", "Show a calendar in views", func(ctx context.Context, id string) error {
			return app.Calendars.SetVisible(ctx, id, true)
		}),
		newCalendarToggleCmd(app, "hide", "Hide a calendar from views", func(ctx context.Context, id string) error {
			return app.Calendars.SetVisible(ctx, id, false)
		}),
		newCalendarToggleCmd(app, "stats-on", "Include a calendar in service-hour stats", func(ctx context.Context, id string) error {
			return app.Calendars.SetIncludeInStats(ctx, id, true)
		}),
		newCalendarToggleCmd(app, "stats-off", "Exclude a calendar from service-hour stats", func(ctx context.Context, id string) error {
			return app.Calendars.SetIncludeInStats(ctx, id, false)
		}),
		newCalendarSetMainCmd(app),
		newCalendarRemoveCmd(app),
	)

	return cmd
}

func newCalendarImportCmd(app *App) *cobra.Command {
	var name, color, fromURL, fromFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a calendar from an ICS file or URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if (fromURL == "") == (fromFile == "") {
				return fmt.Errorf("exactly one of --url or --file is required")
			}
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			if fromURL != "" {
				cal, err := app.Calendars.ImportURL(ctx, name, color, fromURL)
				if err != nil {
					return err
				}
				fmt.Printf("Imported %s (%d events) from %s\n", cal.Name, len(cal.Events), fromURL)
				return nil
			}

			data, err := os.ReadFile(fromFile)
			if err != nil {
				return fmt.Errorf("reading %s: %w", fromFile, err)
			}
			cal, err := app.Calendars.ImportText(ctx, name, color, string(data))
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s (%d events)\n", cal.Name, len(cal.Events))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Calendar name")
	cmd.Flags().StringVar(&color, "color", "#83a598", "Display color")
	cmd.Flags().StringVar(&fromURL, "url", "", "Remote ICS URL")
	cmd.Flags().StringVar(&fromFile, "file", "", "Local ICS file")

	return cmd
}

func newCalendarListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			calendars, err := app.Calendars.List(ctx)
			if err != nil {
				return err
			}
			mainID, err := app.Calendars.MainCalendarID(ctx)
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "EVENTS", "VISIBLE", "STATS", "SOURCE", "STATUS"}
			rows := make([][]string, 0, len(calendars))
			for _, c := range calendars {
				name := c.Name
				if c.ID == mainID {
					name = formatter.Bold(name + " (main)")
				}
				source := formatter.Dim("local")
				status := ""
				if c.Remote != nil {
					source = c.Remote.SourceURL
					switch {
					case c.Remote.LastError != "":
						status = formatter.StyleRed.Render(c.Remote.LastError)
					case c.Remote.LastWarning != "":
						status = formatter.StyleYellow.Render(c.Remote.LastWarning)
					case c.Remote.LastSyncedAt != nil:
						status = formatter.StyleGreen.Render("synced " + c.Remote.LastSyncedAt.Local().Format("2006-01-02 15:04"))
					}
				}
				rows = append(rows, []string{
					shortID(c.ID),
					name,
					fmt.Sprintf("%d", len(c.Events)),
					yesNo(c.Visible),
					yesNo(c.IncludeInStats),
					source,
					status,
				})
			}

			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newCalendarRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <calendar> <new-name>",
		Short: "Rename a calendar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCalendarID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Calendars.Rename(ctx, id, args[1])
		},
	}
}

func newCalendarColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color <calendar> <color>",
		Short: "Set a calendar's display color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCalendarID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Calendars.SetColor(ctx, id, args[1])
		},
	}
}

func newCalendarToggleCmd(app *App, use, short string, apply func(context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <calendar>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCalendarID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return apply(ctx, id)
		},
	}
}

func newCalendarSetMainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-main <calendar>",
		Short: "Designate the main calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCalendarID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Calendars.SetMain(ctx, id)
		},
	}
}

func newCalendarRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <calendar>",
		Short: "Remove a calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCalendarID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return app.Calendars.Remove(ctx, id)
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return formatter.Dim("no")
}
