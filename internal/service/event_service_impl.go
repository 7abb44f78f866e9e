package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rvergnes/edtcal/internal/domain"
	"github.com/rvergnes/edtcal/internal/enrich"
	"github.com/rvergnes/edtcal/internal/filter"
	"github.com/rvergnes/edtcal/internal/ordinal"
	"github.com/rvergnes/edtcal/internal/repository"
)

type eventServiceImpl struct {
	calendars repository.CalendarRepo
	rules     repository.RulesRepo
	kv        repository.KVRepo
}

// NewEventService creates the derived-view service. Every call
// recomputes from the stored snapshot: enrichment, dedup and filtering
// are pure functions of calendars and rules.
func NewEventService(calendars repository.CalendarRepo, rules repository.RulesRepo, kv repository.KVRepo) EventService {
	return &eventServiceImpl{calendars: calendars, rules: rules, kv: kv}
}

func (s *eventServiceImpl) Events(ctx context.Context, state domain.FilterState) ([]domain.EnrichedEvent, error) {
	return s.EventsInScope(ctx, state, state.Source)
}

func (s *eventServiceImpl) EventsInScope(ctx context.Context, state domain.FilterState, scope domain.SourceScope) ([]domain.EnrichedEvent, error) {
	calendars, err := s.calendars.List(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.rules.Get(ctx)
	if err != nil {
		return nil, err
	}
	mainID, err := s.mainCalendarID(ctx)
	if err != nil {
		return nil, err
	}

	events := enrich.Derive(calendars, rules)
	return filter.ApplyWithScope(events, state, mainID, scope), nil
}

func (s *eventServiceImpl) Ordinals(events []domain.EnrichedEvent) []*domain.SessionOrdinal {
	return ordinal.Assign(events)
}

// Stats aggregates service hours per (subject, type) over the service
// scope, skipping flagged duplicates so mutualized sessions count once.
func (s *eventServiceImpl) Stats(ctx context.Context, state domain.FilterState) (*StatsResult, error) {
	events, err := s.EventsInScope(ctx, state, domain.ScopeService)
	if err != nil {
		return nil, err
	}

	type key struct{ subject, typ string }
	agg := make(map[key]*StatsRow)
	res := &StatsResult{}

	for i := range events {
		e := &events[i]
		if e.Duplicate {
			continue
		}
		k := key{e.Subject, e.Type}
		row, ok := agg[k]
		if !ok {
			row = &StatsRow{Subject: e.Subject, Type: e.Type}
			agg[k] = row
		}
		row.Sessions++
		row.Hours += e.Hours
		res.TotalHours += e.Hours
	}

	res.Rows = make([]StatsRow, 0, len(agg))
	for _, row := range agg {
		res.Rows = append(res.Rows, *row)
	}
	sort.Slice(res.Rows, func(i, j int) bool {
		if res.Rows[i].Subject != res.Rows[j].Subject {
			return res.Rows[i].Subject < res.Rows[j].Subject
		}
		return res.Rows[i].Type < res.Rows[j].Type
	})
	return res, nil
}

func (s *eventServiceImpl) mainCalendarID(ctx context.Context) (string, error) {
	id, err := s.kv.Get(ctx, mainCalendarKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}
