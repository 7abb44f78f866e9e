package domain

import "time"

// RemoteState tracks synchronization metadata for a network-sourced
// calendar. Present only on calendars imported from a URL.
type RemoteState struct {
	SourceURL           string
	LastSyncedAt        *time.Time
	LastAttemptAt       *time.Time
	LastManualRefreshAt *time.Time
	LastError           string
	LastWarning         string
}

// Calendar is one imported event source. Mutation always goes through
// copy-on-write: a changed calendar is a new value in a new snapshot,
// never an in-place edit.
type Calendar struct {
	ID             string
	Name           string
	Color          string
	Visible        bool
	IncludeInStats bool
	Events         []NormalizedEvent
	Remote         *RemoteState
}

// Clone returns a deep copy of the calendar, so callers can derive an
// updated snapshot without touching the original.
func (c *Calendar) Clone() *Calendar {
	out := *c
	out.Events = append([]NormalizedEvent(nil), c.Events...)
	if c.Remote != nil {
		r := *c.Remote
		out.Remote = &r
	}
	return &out
}
