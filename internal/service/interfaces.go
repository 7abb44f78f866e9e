package service

import (
	"context"

	"github.com/rvergnes/edtcal/internal/domain"
)

type CalendarService interface {
	ImportText(ctx context.Context, name, color, icsText string) (*domain.Calendar, error)
	ImportURL(ctx context.Context, name, color, sourceURL string) (*domain.Calendar, error)
	List(ctx context.Context) ([]*domain.Calendar, error)
	Rename(ctx context.Context, id, name string) error
	SetColor(ctx context.Context, id, color string) error
	SetVisible(ctx context.Context, id string, visible bool) error
	SetIncludeInStats(ctx context.Context, id string, include bool) error
	Remove(ctx context.Context, id string) error
	SetMain(ctx context.Context, id string) error
	MainCalendarID(ctx context.Context) (string, error)
}

// StatsRow aggregates service hours for one (subject, type) series.
type StatsRow struct {
	Subject  string
	Type     string
	Sessions int
	Hours    float64
}

// StatsResult is the service-hour aggregation over filtered,
// non-duplicate, stats-included events.
type StatsResult struct {
	Rows       []StatsRow
	TotalHours float64
}

type EventService interface {
	// Events runs the full derivation and filter pipeline with the
	// scope carried by the filter state.
	Events(ctx context.Context, state domain.FilterState) ([]domain.EnrichedEvent, error)

	// EventsInScope overrides the source-scope stage only; the courses
	// view uses this to always see every calendar.
	EventsInScope(ctx context.Context, state domain.FilterState, scope domain.SourceScope) ([]domain.EnrichedEvent, error)

	// Ordinals numbers session occurrences for the given events,
	// aligned by index.
	Ordinals(events []domain.EnrichedEvent) []*domain.SessionOrdinal

	Stats(ctx context.Context, state domain.FilterState) (*StatsResult, error)
}

type RulesService interface {
	Get(ctx context.Context) (domain.Rules, error)
	AddRename(ctx context.Context, c domain.RuleCategory, from, to string) error
	RemoveRename(ctx context.Context, c domain.RuleCategory, from string) error
	AddHide(ctx context.Context, c domain.RuleCategory, value string) error
	RemoveHide(ctx context.Context, c domain.RuleCategory, value string) error
	ExportYAML(ctx context.Context) ([]byte, error)
	ImportYAML(ctx context.Context, data []byte) error
}
