// Package view derives the read-only presentations of the event set: the
// date-grouped list and the calendar grid entries. The projection never
// owns the truth; it is rebuilt wholesale from the last fetch and only
// deviates transiently while a drag is being confirmed by the store.
package view

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ysaito/personal-calendar/internal/model"
	"github.com/ysaito/personal-calendar/internal/schedule"
)

// UnscheduledKey groups events whose dateKey is unusable. Sorts after every
// YYYY-MM-DD key because of the leading letter.
const UnscheduledKey = "unscheduled"

type DateGroup struct {
	DateKey string
	Events  []*model.Event
}

// Entry is what the calendar grid renders.
type Entry struct {
	ID     string
	Title  string
	Start  time.Time
	End    *time.Time
	AllDay bool
}

type mover interface {
	Move(ctx context.Context, uid, id string, move *model.EventMove) error
}

type Projection struct {
	events []*model.Event
}

func NewProjection(events []*model.Event) *Projection {
	p := &Projection{}
	p.Replace(events)
	return p
}

// Replace swaps in a freshly fetched event set.
func (p *Projection) Replace(events []*model.Event) {
	p.events = make([]*model.Event, len(events))
	copy(p.events, events)
}

// Groups partitions the events by dateKey, ascending. Events sharing a key
// keep their relative order, which is chronological because the gateway
// lists by start.
func (p *Projection) Groups() []DateGroup {
	byKey := map[string][]*model.Event{}
	keys := make([]string, 0)

	for _, e := range p.events {
		key := e.DateKey
		if key == "" {
			key = UnscheduledKey
		}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], e)
	}

	sort.Strings(keys)

	res := make([]DateGroup, len(keys))
	for i, key := range keys {
		res[i] = DateGroup{DateKey: key, Events: byKey[key]}
	}

	return res
}

// Calendar maps the events to grid entries. An event without a resolvable
// start is omitted rather than crashing the grid.
func (p *Projection) Calendar() []Entry {
	res := make([]Entry, 0, len(p.events))
	for _, e := range p.events {
		if e.Start.IsZero() {
			continue
		}

		res = append(res, Entry{
			ID:     e.ID,
			Title:  e.Title,
			Start:  e.Start,
			End:    e.End,
			AllDay: e.AllDay,
		})
	}

	return res
}

// Reschedule handles a drag-initiated move reported by the calendar. The
// projected position is updated optimistically; if the store rejects the
// move the position snaps back and the error is returned for the notice.
// The allDay flag is never changed by a drag.
func (p *Projection) Reschedule(ctx context.Context, m mover, uid, id string, start time.Time, end *time.Time) error {
	event := p.find(id)
	if event == nil {
		return &model.StoreError{Op: "move", Err: fmt.Errorf("event %q: %w", id, model.ErrNoRecord)}
	}

	prev := event.EventCreate

	move := &model.EventMove{
		Start:   start,
		End:     end,
		AllDay:  event.AllDay,
		DateKey: schedule.DateKeyOf(start),
	}

	event.Start = move.Start
	event.End = move.End
	event.DateKey = move.DateKey

	if err := m.Move(ctx, uid, id, move); err != nil {
		event.EventCreate = prev
		return fmt.Errorf("reschedule event %q: %w", id, err)
	}

	return nil
}

func (p *Projection) find(id string) *model.Event {
	for _, e := range p.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}
