package repo

import (
	"context"

	"artfoundation/internal/model"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, e *model.Event) error
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]model.Event, error)
}

const eventColumns = `id, title, date, time, location, price, artist_id, status, created_at, updated_at`

func scanEvent(row scanner) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Price, &e.ArtistID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) error {
	query := `
		INSERT INTO events (title, date, time, location, price, artist_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		e.Title, e.Date, e.Time, e.Location, e.Price, e.ArtistID, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapErr("insert event", err)
	}
	return nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.Master.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("get event", err)
	}
	return e, nil
}

func (r *repository) GetAllEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr("get events", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapErr("scan event", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate events", err)
	}
	return events, nil
}
