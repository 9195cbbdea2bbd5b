package view_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ysaito/personal-calendar/internal/model"
	"github.com/ysaito/personal-calendar/internal/view"
)

type fakeMover struct {
	err   error
	calls []*model.EventMove
}

func (f *fakeMover) Move(_ context.Context, _, _ string, move *model.EventMove) error {
	f.calls = append(f.calls, move)
	return f.err
}

func makeEvent(id, title, dateKey string, start time.Time) *model.Event {
	return &model.Event{
		ID: id,
		EventCreate: model.EventCreate{
			Title:   title,
			Start:   start,
			DateKey: dateKey,
		},
	}
}

func TestGroups(t *testing.T) {
	t.Run("sorted by date key, chronological within a day", func(t *testing.T) {
		p := view.NewProjection([]*model.Event{
			makeEvent("1", "early", "2024-06-03", time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)),
			makeEvent("2", "late", "2024-06-03", time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)),
			makeEvent("3", "next day", "2024-06-04", time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)),
			makeEvent("4", "previous month", "2024-05-30", time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)),
		})

		groups := p.Groups()
		require.Len(t, groups, 3)
		require.Equal(t, "2024-05-30", groups[0].DateKey)
		require.Equal(t, "2024-06-03", groups[1].DateKey)
		require.Equal(t, "2024-06-04", groups[2].DateKey)

		require.Len(t, groups[1].Events, 2)
		require.Equal(t, "early", groups[1].Events[0].Title)
		require.Equal(t, "late", groups[1].Events[1].Title)
	})

	t.Run("missing date key goes to the unscheduled bucket, last", func(t *testing.T) {
		p := view.NewProjection([]*model.Event{
			makeEvent("1", "no key", "", time.Time{}),
			makeEvent("2", "dated", "2024-06-03", time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)),
		})

		groups := p.Groups()
		require.Len(t, groups, 2)
		require.Equal(t, "2024-06-03", groups[0].DateKey)
		require.Equal(t, view.UnscheduledKey, groups[1].DateKey)
	})

	t.Run("empty set", func(t *testing.T) {
		require.Empty(t, view.NewProjection(nil).Groups())
	})
}

func TestCalendar(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	p := view.NewProjection([]*model.Event{
		{ID: "1", EventCreate: model.EventCreate{Title: "timed", Start: start, End: &end}},
		{ID: "2", EventCreate: model.EventCreate{Title: "all day", Start: start, AllDay: true}},
		{ID: "3", EventCreate: model.EventCreate{Title: "broken"}},
	})

	entries := p.Calendar()
	require.Len(t, entries, 2, "event without a start must be omitted")
	require.Equal(t, "1", entries[0].ID)
	require.Equal(t, &end, entries[0].End)
	require.True(t, entries[1].AllDay)
}

func TestReschedule(t *testing.T) {
	day3 := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	day4 := time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)

	t.Run("successful move updates projection and date key", func(t *testing.T) {
		p := view.NewProjection([]*model.Event{makeEvent("1", "standup", "2024-06-03", day3)})
		m := &fakeMover{}

		end := day4.Add(15 * time.Minute)
		require.NoError(t, p.Reschedule(context.Background(), m, "uid", "1", day4, &end))

		require.Len(t, m.calls, 1)
		require.Equal(t, "2024-06-04", m.calls[0].DateKey)

		entries := p.Calendar()
		require.Equal(t, day4, entries[0].Start)
		require.Equal(t, "2024-06-04", p.Groups()[0].DateKey)
	})

	t.Run("failed move snaps the position back", func(t *testing.T) {
		p := view.NewProjection([]*model.Event{makeEvent("1", "standup", "2024-06-03", day3)})
		m := &fakeMover{err: &model.StoreError{Op: "move", Err: errors.New("transport")}}

		err := p.Reschedule(context.Background(), m, "uid", "1", day4, nil)
		require.Error(t, err)

		entries := p.Calendar()
		require.Equal(t, day3, entries[0].Start, "projection must revert to the pre-drag start")
		require.Equal(t, "2024-06-03", p.Groups()[0].DateKey)
	})

	t.Run("all-day flag passes through a drag unchanged", func(t *testing.T) {
		event := makeEvent("1", "holiday", "2024-06-03", day3)
		event.AllDay = true
		p := view.NewProjection([]*model.Event{event})
		m := &fakeMover{}

		require.NoError(t, p.Reschedule(context.Background(), m, "uid", "1", day4, nil))
		require.True(t, m.calls[0].AllDay)
	})

	t.Run("unknown id is a not-found store error", func(t *testing.T) {
		p := view.NewProjection(nil)
		err := p.Reschedule(context.Background(), &fakeMover{}, "uid", "missing", day4, nil)
		require.ErrorIs(t, err, model.ErrNoRecord)
	})
}
