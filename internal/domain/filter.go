package domain

// SourceScope selects which calendars' events a view considers before the
// rest of the filter pipeline runs.
type SourceScope string

const (
	ScopeService SourceScope = "service"
	ScopeMain    SourceScope = "main"
	ScopeVisible SourceScope = "visible"
	ScopeAll     SourceScope = "all"
)

// FilterState is the full set of user filter criteria. A pure value
// object, replaced wholesale on each edit.
type FilterState struct {
	// DateStart/DateEnd bound the local start date, YYYY-MM-DD, inclusive.
	// Empty means unbounded.
	DateStart string
	DateEnd   string

	// StartTime/EndTime define a time-of-day window, HH:MM. An event
	// matches when its local time interval overlaps the window.
	StartTime string
	EndTime   string

	// Days is an ISO weekday allowlist, 1=Monday..7=Sunday. Empty keeps
	// all days.
	Days []int

	Source SourceScope
}
