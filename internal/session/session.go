// Package session drives the editing lifecycle of a signed-in user's
// calendar: which draft is open, whether it belongs to an existing event,
// and how user actions turn into gateway calls. A Session serves one user
// and one caller at a time; all mutating methods complete their gateway
// round trip and refetch before the next action is issued.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ysaito/personal-calendar/internal/model"
	"github.com/ysaito/personal-calendar/internal/schedule"
	"github.com/ysaito/personal-calendar/internal/view"
	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateCreating
	StateEditing
)

var ErrNotEditing = errors.New("no event is being edited")

type gateway interface {
	List(ctx context.Context, uid string) ([]*model.Event, error)
	Create(ctx context.Context, uid string, event *model.EventCreate) (string, error)
	Update(ctx context.Context, uid, id string, event *model.EventCreate) error
	Move(ctx context.Context, uid, id string, move *model.EventMove) error
	Remove(ctx context.Context, uid, id string) error
}

type Session struct {
	logger  *zap.SugaredLogger
	gateway gateway
	uid     string
	now     func() time.Time

	state      State
	editingID  string
	draft      model.Draft
	events     []*model.Event
	projection *view.Projection
}

func New(logger *zap.SugaredLogger, gw gateway, uid string) *Session {
	return &Session{
		logger:     logger,
		gateway:    gw,
		uid:        uid,
		now:        time.Now,
		projection: view.NewProjection(nil),
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) EditingID() string {
	return s.editingID
}

func (s *Session) Draft() model.Draft {
	return s.draft
}

func (s *Session) SetDraft(draft model.Draft) {
	s.draft = draft
}

func (s *Session) Events() []*model.Event {
	return s.events
}

func (s *Session) Groups() []view.DateGroup {
	return s.projection.Groups()
}

func (s *Session) Calendar() []view.Entry {
	return s.projection.Calendar()
}

// Refresh refetches the full event set. On failure the last-known set
// stays in place so the views never go blank mid-session.
func (s *Session) Refresh(ctx context.Context) error {
	events, err := s.gateway.List(ctx, s.uid)
	if err != nil {
		s.logger.Errorw("refresh events", "uid", s.uid, "err", err)
		return fmt.Errorf("list events: %w", err)
	}

	s.events = events
	s.projection.Replace(events)
	return nil
}

// StartCreate opens a fresh draft. An empty date means the "add" button was
// used rather than a calendar day, so the draft defaults to today.
func (s *Session) StartCreate(date string) {
	if date == "" {
		date = s.now().Format(schedule.DateFormat)
	}

	s.state = StateCreating
	s.editingID = ""
	s.draft = model.Draft{Date: date}
}

// StartEdit opens an existing event for editing, replacing whatever draft
// was in progress.
func (s *Session) StartEdit(id string) error {
	event := s.findEvent(id)
	if event == nil {
		return fmt.Errorf("event %q: %w", id, model.ErrNoRecord)
	}

	s.state = StateEditing
	s.editingID = id
	s.draft = schedule.ToDraft(event)
	return nil
}

// Cancel discards the draft and returns to idle. An in-flight gateway call
// is never cancelled, only the local editing state.
func (s *Session) Cancel() {
	s.toIdle()
}

// Save validates the draft and routes it to create or update. A validation
// failure keeps the state and the draft untouched and never reaches the
// store; a store failure keeps them too, so the user can retry.
func (s *Session) Save(ctx context.Context) error {
	if s.state == StateIdle {
		return ErrNotEditing
	}

	event, err := schedule.ValidateDraft(s.draft)
	if err != nil {
		return err
	}

	switch s.state {
	case StateCreating:
		if _, err := s.gateway.Create(ctx, s.uid, event); err != nil {
			return err
		}
	case StateEditing:
		if err := s.gateway.Update(ctx, s.uid, s.editingID, event); err != nil {
			return err
		}
	}

	s.toIdle()
	return s.Refresh(ctx)
}

// Delete removes the event currently being edited. It is reachable only
// from the editing state and only after the confirmation callback agrees.
func (s *Session) Delete(ctx context.Context, confirm func() bool) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}

	if !confirm() {
		return nil
	}

	if err := s.gateway.Remove(ctx, s.uid, s.editingID); err != nil {
		return err
	}

	s.toIdle()
	return s.Refresh(ctx)
}

// Move applies a drag-initiated reschedule through the projection, which
// reverts the visual position if the store rejects it.
func (s *Session) Move(ctx context.Context, id string, start time.Time, end *time.Time) error {
	if err := s.projection.Reschedule(ctx, s.gateway, s.uid, id, start, end); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

func (s *Session) toIdle() {
	s.state = StateIdle
	s.editingID = ""
	s.draft = model.Draft{}
}

func (s *Session) findEvent(id string) *model.Event {
	for _, e := range s.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}
