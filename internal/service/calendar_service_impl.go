package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/repository"
	"github.com/rvergnes/edtcal/internal/sync"
)

const mainCalendarKey = "main_calendar_id"

type calendarServiceImpl struct {
	calendars repository.CalendarRepo
	kv        repository.KVRepo
	parser    *sync.Parser
	coord     *sync.Coordinator
}

// NewCalendarService creates the calendar lifecycle service.
func NewCalendarService(calendars repository.CalendarRepo, kv repository.KVRepo, parser *sync.Parser, coord *sync.Coordinator) CalendarService {
	return &calendarServiceImpl{calendars: calendars, kv: kv, parser: parser, coord: coord}
}

// ImportText imports a calendar from raw ICS text (file drop, paste).
// Import-time parse failures propagate: a synchronous caller is waiting.
func (s *calendarServiceImpl) ImportText(ctx context.Context, name, color, icsText string) (*domain.Calendar, error) {
	res, err := s.parser.Parse(ctx, icsText)
	if err != nil {
		return nil, err
	}
	if res.Fatal() {
		return nil, fmt.Errorf("importing %q: %w", name, sync.ErrParseFatal)
	}

	cal := newCalendar(name, color)
	cal.Events = res.Events
	if err := s.calendars.Upsert(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// ImportURL imports a remote calendar: fetches, parses, and records the
// source URL so the sync coordinator can refresh it later.
func (s *calendarServiceImpl) ImportURL(ctx context.Context, name, color, sourceURL string) (*domain.Calendar, error) {
	res, err := s.coord.FetchAndParse(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("importing %q: %w", name, err)
	}

	now := time.Now()
	cal := newCalendar(name, color)
	cal.Events = res.Events
	cal.Remote = &domain.RemoteState{
		SourceURL:     sourceURL,
		LastSyncedAt:  &now,
		LastAttemptAt: &now,
	}
	if err := s.calendars.Upsert(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func (s *calendarServiceImpl) List(ctx context.Context) ([]*domain.Calendar, error) {
	return s.calendars.List(ctx)
}

func (s *calendarServiceImpl) Rename(ctx context.Context, id, name string) error {
	return s.mutate(ctx, id, func(cal *domain.Calendar) {
		cal.Name = name
	})
}

func (s *calendarServiceImpl) SetColor(ctx context.Context, id, color string) error {
	return s.mutate(ctx, id, func(cal *domain.Calendar) {
		cal.Color = color
	})
}

func (s *calendarServiceImpl) SetVisible(ctx context.Context, id string, visible bool) error {
	return s.mutate(ctx, id, func(cal *domain.Calendar) {
		cal.Visible = visible
	})
}

func (s *calendarServiceImpl) SetIncludeInStats(ctx context.Context, id string, include bool) error {
	return s.mutate(ctx, id, func(cal *domain.Calendar) {
		cal.IncludeInStats = include
	})
}

func (s *calendarServiceImpl) Remove(ctx context.Context, id string) error {
	if err := s.calendars.Delete(ctx, id); err != nil {
		return err
	}
	// Dropping the main calendar leaves no main designated.
	mainID, err := s.MainCalendarID(ctx)
	if err != nil {
		return err
	}
	if mainID == id {
		return s.kv.Delete(ctx, mainCalendarKey)
	}
	return nil
}

func (s *calendarServiceImpl) SetMain(ctx context.Context, id string) error {
	if _, err := s.calendars.Get(ctx, id); err != nil {
		return err
	}
	return s.kv.Put(ctx, mainCalendarKey, id)
}

func (s *calendarServiceImpl) MainCalendarID(ctx context.Context) (string, error) {
	id, err := s.kv.Get(ctx, mainCalendarKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// mutate applies one copy-on-write edit to a calendar.
func (s *calendarServiceImpl) mutate(ctx context.Context, id string, fn func(*domain.Calendar)) error {
	cal, err := s.calendars.Get(ctx, id)
	if err != nil {
		return err
	}
	cal = cal.Clone()
	fn(cal)
	return s.calendars.Upsert(ctx, cal)
}

func newCalendar(name, color string) *domain.Calendar {
	return &domain.Calendar{
		ID:             uuid.New().String(),
		Name:           name,
		Color:          color,
		Visible:        true,
		IncludeInStats: true,
	}
}
