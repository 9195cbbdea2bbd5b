package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ysaito/personal-calendar/internal/model"
	"github.com/ysaito/personal-calendar/internal/session"
	"go.uber.org/zap"
)

type fakeGateway struct {
	events []*model.Event
	nextID int

	listErr   error
	createErr error
	updateErr error
	moveErr   error
	removeErr error

	creates []*model.EventCreate
	updates map[string]*model.EventCreate
	moves   []*model.EventMove
}

func newFakeGateway(events ...*model.Event) *fakeGateway {
	return &fakeGateway{events: events, updates: map[string]*model.EventCreate{}}
}

func (g *fakeGateway) List(_ context.Context, _ string) ([]*model.Event, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}

	res := make([]*model.Event, len(g.events))
	copy(res, g.events)
	return res, nil
}

func (g *fakeGateway) Create(_ context.Context, _ string, event *model.EventCreate) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}

	g.nextID++
	id := time.Now().Format("20060102") + "-" + string(rune('a'+g.nextID))
	g.creates = append(g.creates, event)
	g.events = append(g.events, &model.Event{ID: id, EventCreate: *event})
	return id, nil
}

func (g *fakeGateway) Update(_ context.Context, _, id string, event *model.EventCreate) error {
	if g.updateErr != nil {
		return g.updateErr
	}

	for _, e := range g.events {
		if e.ID == id {
			e.EventCreate = *event
			g.updates[id] = event
			return nil
		}
	}
	return &model.StoreError{Op: "update", Err: model.ErrNoRecord}
}

func (g *fakeGateway) Move(_ context.Context, _, id string, move *model.EventMove) error {
	if g.moveErr != nil {
		return g.moveErr
	}

	g.moves = append(g.moves, move)
	for _, e := range g.events {
		if e.ID == id {
			e.Start = move.Start
			e.End = move.End
			e.DateKey = move.DateKey
			return nil
		}
	}
	return &model.StoreError{Op: "move", Err: model.ErrNoRecord}
}

func (g *fakeGateway) Remove(_ context.Context, _, id string) error {
	if g.removeErr != nil {
		return g.removeErr
	}

	for i, e := range g.events {
		if e.ID == id {
			g.events = append(g.events[:i], g.events[i+1:]...)
			return nil
		}
	}
	return &model.StoreError{Op: "remove", Err: model.ErrNoRecord}
}

func standup() *model.Event {
	end := time.Date(2024, 6, 3, 9, 15, 0, 0, time.Local)
	return &model.Event{
		ID: "ev1",
		EventCreate: model.EventCreate{
			Title:   "Standup",
			Start:   time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local),
			End:     &end,
			DateKey: "2024-06-03",
		},
	}
}

func newSession(t *testing.T, gw *fakeGateway) *session.Session {
	t.Helper()

	s := session.New(zap.NewNop().Sugar(), gw, "uid1")
	require.NoError(t, s.Refresh(context.Background()))
	return s
}

func TestStartCreate(t *testing.T) {
	t.Run("defaults to today when no date selected", func(t *testing.T) {
		s := newSession(t, newFakeGateway())
		s.StartCreate("")

		require.Equal(t, session.StateCreating, s.State())
		require.Equal(t, time.Now().Format("2006-01-02"), s.Draft().Date)
		require.Empty(t, s.Draft().Title)
	})

	t.Run("selecting a calendar day pre-fills the date", func(t *testing.T) {
		s := newSession(t, newFakeGateway())
		s.StartCreate("2024-06-10")
		require.Equal(t, "2024-06-10", s.Draft().Date)
	})
}

func TestStartEdit(t *testing.T) {
	t.Run("populates the draft from the event", func(t *testing.T) {
		s := newSession(t, newFakeGateway(standup()))

		require.NoError(t, s.StartEdit("ev1"))
		require.Equal(t, session.StateEditing, s.State())
		require.Equal(t, "ev1", s.EditingID())

		draft := s.Draft()
		require.Equal(t, "Standup", draft.Title)
		require.Equal(t, "2024-06-03", draft.Date)
		require.Equal(t, "09:00", draft.StartTime)
		require.Equal(t, "09:15", draft.EndTime)
	})

	t.Run("unknown event", func(t *testing.T) {
		s := newSession(t, newFakeGateway())
		require.ErrorIs(t, s.StartEdit("missing"), model.ErrNoRecord)
		require.Equal(t, session.StateIdle, s.State())
	})
}

func TestCancel(t *testing.T) {
	s := newSession(t, newFakeGateway(standup()))
	require.NoError(t, s.StartEdit("ev1"))

	s.Cancel()

	require.Equal(t, session.StateIdle, s.State())
	require.Empty(t, s.EditingID())
	require.Empty(t, s.Draft().Title, "draft must be discarded on cancel")
}

func TestSave(t *testing.T) {
	t.Run("create then refetch", func(t *testing.T) {
		gw := newFakeGateway()
		s := newSession(t, gw)

		s.StartCreate("2024-06-05")
		s.SetDraft(model.Draft{Title: "Holiday", Date: "2024-06-05"})

		require.NoError(t, s.Save(context.Background()))
		require.Equal(t, session.StateIdle, s.State())
		require.Len(t, gw.creates, 1)
		require.True(t, gw.creates[0].AllDay)
		require.Len(t, s.Events(), 1, "event set is refetched after a save")
	})

	t.Run("update routes to the edited id", func(t *testing.T) {
		gw := newFakeGateway(standup())
		s := newSession(t, gw)

		require.NoError(t, s.StartEdit("ev1"))
		draft := s.Draft()
		draft.Title = "Standup (moved)"
		draft.StartTime = "10:00"
		draft.EndTime = "10:15"
		s.SetDraft(draft)

		require.NoError(t, s.Save(context.Background()))
		require.Contains(t, gw.updates, "ev1")
		require.Equal(t, "Standup (moved)", gw.updates["ev1"].Title)
		require.Equal(t, session.StateIdle, s.State())
	})

	t.Run("validation failure keeps state and draft, no store call", func(t *testing.T) {
		gw := newFakeGateway()
		s := newSession(t, gw)

		s.StartCreate("2024-06-05")
		s.SetDraft(model.Draft{Title: "", Date: "2024-06-05"})

		err := s.Save(context.Background())
		var vErr *model.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Empty(t, gw.creates)
		require.Equal(t, session.StateCreating, s.State())
		require.Equal(t, "2024-06-05", s.Draft().Date, "draft survives a failed save")
	})

	t.Run("store failure keeps state and draft", func(t *testing.T) {
		gw := newFakeGateway()
		gw.createErr = &model.StoreError{Op: "create", Err: errors.New("transport")}
		s := newSession(t, gw)

		s.StartCreate("2024-06-05")
		s.SetDraft(model.Draft{Title: "Holiday", Date: "2024-06-05"})

		require.Error(t, s.Save(context.Background()))
		require.Equal(t, session.StateCreating, s.State())
		require.Equal(t, "Holiday", s.Draft().Title)
	})

	t.Run("save from idle", func(t *testing.T) {
		s := newSession(t, newFakeGateway())
		require.ErrorIs(t, s.Save(context.Background()), session.ErrNotEditing)
	})
}

func TestDelete(t *testing.T) {
	t.Run("confirmed delete returns to idle", func(t *testing.T) {
		gw := newFakeGateway(standup())
		s := newSession(t, gw)
		require.NoError(t, s.StartEdit("ev1"))

		require.NoError(t, s.Delete(context.Background(), func() bool { return true }))
		require.Equal(t, session.StateIdle, s.State())
		require.Empty(t, s.Events())
	})

	t.Run("declined confirmation is a no-op", func(t *testing.T) {
		gw := newFakeGateway(standup())
		s := newSession(t, gw)
		require.NoError(t, s.StartEdit("ev1"))

		require.NoError(t, s.Delete(context.Background(), func() bool { return false }))
		require.Equal(t, session.StateEditing, s.State())
		require.Len(t, gw.events, 1)
	})

	t.Run("only reachable while editing", func(t *testing.T) {
		s := newSession(t, newFakeGateway(standup()))
		require.ErrorIs(t, s.Delete(context.Background(), func() bool { return true }), session.ErrNotEditing)
	})

	t.Run("second remove of the same id is an error", func(t *testing.T) {
		gw := newFakeGateway(standup())
		s := newSession(t, gw)
		require.NoError(t, s.StartEdit("ev1"))
		require.NoError(t, s.Delete(context.Background(), func() bool { return true }))

		require.ErrorIs(t, gw.Remove(context.Background(), "uid1", "ev1"), model.ErrNoRecord)
	})
}

func TestMove(t *testing.T) {
	day4 := time.Date(2024, 6, 4, 9, 0, 0, 0, time.Local)

	t.Run("drag updates the store and refetches", func(t *testing.T) {
		gw := newFakeGateway(standup())
		s := newSession(t, gw)

		require.NoError(t, s.Move(context.Background(), "ev1", day4, nil))
		require.Len(t, gw.moves, 1)
		require.Equal(t, "2024-06-04", gw.moves[0].DateKey)
		require.Equal(t, day4, s.Events()[0].Start)
	})

	t.Run("failed drag reverts the projected position", func(t *testing.T) {
		gw := newFakeGateway(standup())
		gw.moveErr = &model.StoreError{Op: "move", Err: errors.New("transport")}
		s := newSession(t, gw)

		require.Error(t, s.Move(context.Background(), "ev1", day4, nil))

		entries := s.Calendar()
		require.Equal(t, time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local), entries[0].Start)
		require.Equal(t, "2024-06-03", s.Groups()[0].DateKey)
	})
}
