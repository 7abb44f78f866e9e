package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rvergnes/edtcal/internal/db"
	"github.com/rvergnes/edtcal/internal/domain"
)

// SQLiteCalendarRepo implements CalendarRepo using a SQLite database.
// Events and remote state are stored as JSON columns: the collection is
// small (a handful of calendars) and always read whole.
type SQLiteCalendarRepo struct {
	db db.DBTX
}

// NewSQLiteCalendarRepo creates a new SQLiteCalendarRepo.
func NewSQLiteCalendarRepo(conn db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: conn}
}

func (r *SQLiteCalendarRepo) List(ctx context.Context) ([]*domain.Calendar, error) {
	query := `SELECT id, name, color, visible, include_in_stats, events, remote
		FROM calendars ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	defer rows.Close()

	var out []*domain.Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendars: %w", err)
	}
	return out, nil
}

func (r *SQLiteCalendarRepo) Get(ctx context.Context, id string) (*domain.Calendar, error) {
	query := `SELECT id, name, color, visible, include_in_stats, events, remote
		FROM calendars WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting calendar %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting calendar %s: %w", id, err)
		}
		return nil, fmt.Errorf("calendar %s: %w", id, ErrNotFound)
	}
	return scanCalendar(rows)
}

func (r *SQLiteCalendarRepo) Upsert(ctx context.Context, cal *domain.Calendar) error {
	events, err := json.Marshal(cal.Events)
	if err != nil {
		return fmt.Errorf("encoding events for calendar %s: %w", cal.ID, err)
	}

	var remote sql.NullString
	if cal.Remote != nil {
		data, err := json.Marshal(cal.Remote)
		if err != nil {
			return fmt.Errorf("encoding remote state for calendar %s: %w", cal.ID, err)
		}
		remote = sql.NullString{String: string(data), Valid: true}
	}

	// New calendars append at the end; existing ones keep their slot.
	query := `INSERT INTO calendars (id, name, color, visible, include_in_stats, position, events, remote)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM calendars), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			visible = excluded.visible,
			include_in_stats = excluded.include_in_stats,
			events = excluded.events,
			remote = excluded.remote`
	_, err = r.db.ExecContext(ctx, query,
		cal.ID, cal.Name, cal.Color, cal.Visible, cal.IncludeInStats, string(events), remote)
	if err != nil {
		return fmt.Errorf("upserting calendar %s: %w", cal.ID, err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting calendar %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting calendar %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("calendar %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanCalendar(rows *sql.Rows) (*domain.Calendar, error) {
	var cal domain.Calendar
	var events string
	var remote sql.NullString

	err := rows.Scan(&cal.ID, &cal.Name, &cal.Color, &cal.Visible,
		&cal.IncludeInStats, &events, &remote)
	if err != nil {
		return nil, fmt.Errorf("scanning calendar: %w", err)
	}

	if err := json.Unmarshal([]byte(events), &cal.Events); err != nil {
		return nil, fmt.Errorf("decoding events for calendar %s: %w", cal.ID, err)
	}
	if remote.Valid {
		cal.Remote = &domain.RemoteState{}
		if err := json.Unmarshal([]byte(remote.String), cal.Remote); err != nil {
			return nil, fmt.Errorf("decoding remote state for calendar %s: %w", cal.ID, err)
		}
	}
	return &cal, nil
}
