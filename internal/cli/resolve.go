package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveCalendarID accepts a calendar id, an id prefix, or an exact
// (case-insensitive) calendar name.
func resolveCalendarID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("calendar is required")
	}

	calendars, err := app.Calendars.List(ctx)
	if err != nil {
		return "", err
	}

	for _, c := range calendars {
		if c.ID == input || strings.EqualFold(c.Name, input) {
			return c.ID, nil
		}
	}

	var matches []string
	for _, c := range calendars {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("calendar not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("calendar %q is ambiguous (%d matches)", input, len(matches))
	}
}
