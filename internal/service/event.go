package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"artfoundation/internal/model"
	"artfoundation/internal/repo"
)

type CreateEventInput struct {
	Title    string
	Date     string
	Time     string
	Location string
	Price    float64
	Status   string
}

type EventService struct {
	events repo.EventRepository
	log    *zerolog.Logger
}

func NewEventService(events repo.EventRepository, log *zerolog.Logger) *EventService {
	return &EventService{events: events, log: log}
}

func (s *EventService) Create(ctx context.Context, artistID int64, in CreateEventInput) (*model.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, validationErr("title is required")
	}
	if !validAmount(in.Price) {
		return nil, validationErr("price must be a non-negative number")
	}
	if in.Status == "" {
		in.Status = model.EventUpcoming
	}
	if in.Status != model.EventUpcoming && in.Status != model.EventPast {
		return nil, validationErr("unknown event status %q", in.Status)
	}

	e := &model.Event{
		Title:    in.Title,
		Date:     in.Date,
		Time:     in.Time,
		Location: in.Location,
		Price:    in.Price,
		ArtistID: artistID,
		Status:   in.Status,
	}
	if err := s.events.CreateEvent(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info().Int64("event_id", e.ID).Int64("artist_id", artistID).Msg("event created")
	return e, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetEventByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.GetAllEvents(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}
