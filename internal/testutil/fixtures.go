package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rvergnes/edtcal/internal/domain"
)

var testEventCounter atomic.Int64

// Calendar options
type CalendarOption func(*domain.Calendar)

func WithVisible(v bool) CalendarOption {
	return func(c *domain.Calendar) {
		c.Visible = v
	}
}

func WithIncludeInStats(v bool) CalendarOption {
	return func(c *domain.Calendar) {
		c.IncludeInStats = v
	}
}

func WithColor(color string) CalendarOption {
	return func(c *domain.Calendar) {
		c.Color = color
	}
}

func WithRemote(sourceURL string) CalendarOption {
	return func(c *domain.Calendar) {
		c.Remote = &domain.RemoteState{SourceURL: sourceURL}
	}
}

func WithEvents(events ...domain.NormalizedEvent) CalendarOption {
	return func(c *domain.Calendar) {
		c.Events = events
	}
}

func NewTestCalendar(name string, opts ...CalendarOption) *domain.Calendar {
	c := &domain.Calendar{
		ID:             uuid.New().String(),
		Name:           name,
		Color:          "#83a598",
		Visible:        true,
		IncludeInStats: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Event options
type EventOption func(*domain.NormalizedEvent)

func WithTimes(startISO, endISO string) EventOption {
	return func(e *domain.NormalizedEvent) {
		e.StartISO = startISO
		e.EndISO = endISO
	}
}

func WithType(t string) EventOption {
	return func(e *domain.NormalizedEvent) {
		e.Type = t
	}
}

func WithTeachers(teachers ...string) EventOption {
	return func(e *domain.NormalizedEvent) {
		e.Teachers = teachers
	}
}

func WithPromos(promos ...string) EventOption {
	return func(e *domain.NormalizedEvent) {
		e.Promos = promos
	}
}

func WithLocation(loc string) EventOption {
	return func(e *domain.NormalizedEvent) {
		e.Location = loc
	}
}

func WithDurationHours(h float64) EventOption {
	return func(e *domain.NormalizedEvent) {
		e.DurationHours = h
	}
}

func NewTestEvent(subject string, opts ...EventOption) domain.NormalizedEvent {
	n := testEventCounter.Add(1)
	e := domain.NormalizedEvent{
		RawEvent: domain.RawEvent{
			UID:     fmt.Sprintf("evt-%04d@test", n),
			Summary: subject,
		},
		Subject:  subject,
		Type:     "CM",
		StartISO: "2024-01-15T09:00:00+01:00",
		EndISO:   "2024-01-15T11:00:00+01:00",
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
