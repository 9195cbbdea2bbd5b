package eventstore

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
	"github.com/ysaito/personal-calendar/internal/model"
)

func TestEventMapping(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	written := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trip keeps scheduling fields", func(t *testing.T) {
		create := &model.EventCreate{
			Title:    "Standup",
			Start:    start,
			End:      &end,
			AllDay:   false,
			DateKey:  "2024-06-03",
			Location: "room 4",
			Notes:    "daily",
		}

		dto := mapFromCreate(create)
		require.True(t, dto.CreatedAt.IsZero(), "createdAt must be left to the server clock")
		require.True(t, dto.UpdatedAt.IsZero(), "updatedAt must be left to the server clock")

		dto.CreatedAt = written
		dto.UpdatedAt = written

		event := mapToEvent("abc123", dto)
		require.Equal(t, "abc123", event.ID)
		require.Equal(t, *create, event.EventCreate)
		require.Equal(t, written, event.CreatedAt)
		require.Equal(t, written, event.UpdatedAt)
	})

	t.Run("all-day event has nil end", func(t *testing.T) {
		dto := mapFromCreate(&model.EventCreate{
			Title:   "Holiday",
			Start:   time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
			DateKey: "2024-06-05",
		})

		event := mapToEvent("id", dto)
		require.True(t, event.AllDay)
		require.Nil(t, event.End)
	})
}

func TestFieldUpdates(t *testing.T) {
	event := &model.EventCreate{
		Title:   "Standup",
		Start:   time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		AllDay:  false,
		DateKey: "2024-06-03",
	}

	updates := fieldUpdates(event)

	paths := make(map[string]interface{}, len(updates))
	for _, u := range updates {
		paths[u.Path] = u.Value
	}

	require.NotContains(t, paths, "createdAt", "update must never touch createdAt")
	require.Equal(t, firestore.ServerTimestamp, paths[fieldUpdatedAt])
	require.Equal(t, event.Title, paths[fieldTitle])
	require.Equal(t, event.DateKey, paths[fieldDateKey])
}

func TestMoveUpdates(t *testing.T) {
	move := &model.EventMove{
		Start:   time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC),
		End:     nil,
		AllDay:  false,
		DateKey: "2024-06-04",
	}

	updates := moveUpdates(move)

	paths := make(map[string]interface{}, len(updates))
	for _, u := range updates {
		paths[u.Path] = u.Value
	}

	require.NotContains(t, paths, fieldTitle, "move touches scheduling fields only")
	require.NotContains(t, paths, "createdAt")
	require.Equal(t, move.Start, paths[fieldStartAt])
	require.Nil(t, paths[fieldEndAt], "missing drop end must clear the stored end")
	require.Equal(t, firestore.ServerTimestamp, paths[fieldUpdatedAt])
}
