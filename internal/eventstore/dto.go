package eventstore

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ysaito/personal-calendar/internal/model"
)

const (
	usersCollection  = "users"
	eventsCollection = "events"
)

const (
	fieldTitle     = "title"
	fieldStartAt   = "startAt"
	fieldEndAt     = "endAt"
	fieldAllDay    = "allDay"
	fieldDateKey   = "dateKey"
	fieldLocation  = "location"
	fieldNotes     = "notes"
	fieldUpdatedAt = "updatedAt"
)

// eventDTO is the wire shape of an event document. Store timestamps are
// decoded into time.Time here; nothing above the gateway sees the provider
// representation. The zero-valued serverTimestamp fields are filled by the
// store's clock on create.
type eventDTO struct {
	Title     string     `firestore:"title"`
	StartAt   time.Time  `firestore:"startAt"`
	EndAt     *time.Time `firestore:"endAt"`
	AllDay    bool       `firestore:"allDay"`
	DateKey   string     `firestore:"dateKey"`
	Location  string     `firestore:"location"`
	Notes     string     `firestore:"notes"`
	CreatedAt time.Time  `firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time  `firestore:"updatedAt,serverTimestamp"`
}

func mapToEvent(id string, dto *eventDTO) *model.Event {
	return &model.Event{
		ID:        id,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
		EventCreate: model.EventCreate{
			Title:    dto.Title,
			Start:    dto.StartAt,
			End:      dto.EndAt,
			AllDay:   dto.AllDay,
			DateKey:  dto.DateKey,
			Location: dto.Location,
			Notes:    dto.Notes,
		},
	}
}

func mapFromCreate(event *model.EventCreate) *eventDTO {
	return &eventDTO{
		Title:    event.Title,
		StartAt:  event.Start,
		EndAt:    event.End,
		AllDay:   event.AllDay,
		DateKey:  event.DateKey,
		Location: event.Location,
		Notes:    event.Notes,
	}
}

// fieldUpdates lists every mutable field, so an update overwrites the whole
// record except id and createdAt.
func fieldUpdates(event *model.EventCreate) []firestore.Update {
	return []firestore.Update{
		{Path: fieldTitle, Value: event.Title},
		{Path: fieldStartAt, Value: event.Start},
		{Path: fieldEndAt, Value: event.End},
		{Path: fieldAllDay, Value: event.AllDay},
		{Path: fieldDateKey, Value: event.DateKey},
		{Path: fieldLocation, Value: event.Location},
		{Path: fieldNotes, Value: event.Notes},
		{Path: fieldUpdatedAt, Value: firestore.ServerTimestamp},
	}
}

func moveUpdates(move *model.EventMove) []firestore.Update {
	return []firestore.Update{
		{Path: fieldStartAt, Value: move.Start},
		{Path: fieldEndAt, Value: move.End},
		{Path: fieldAllDay, Value: move.AllDay},
		{Path: fieldDateKey, Value: move.DateKey},
		{Path: fieldUpdatedAt, Value: firestore.ServerTimestamp},
	}
}
