package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ysaito/personal-calendar/internal/model"
	"github.com/ysaito/personal-calendar/internal/pkg/validator"
	"github.com/ysaito/personal-calendar/internal/schedule"
	"github.com/ysaito/personal-calendar/internal/view"
)

type draftReq struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Notes     string `json:"notes"`
}

func (a *Api) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidOf(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	events, err := a.events.List(r.Context(), uid)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("list events: %w", err))
		return
	}

	if r.URL.Query().Get("group") == "date" {
		a.writeGroupedEvents(w, r, events)
		return
	}

	resp, _ := mapSlice(events, mapToEventResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) writeGroupedEvents(w http.ResponseWriter, r *http.Request, events []*model.Event) {
	groups := view.NewProjection(events).Groups()

	resp := make([]*groupResp, len(groups))
	for i, g := range groups {
		eventsResp, _ := mapSlice(g.Events, mapToEventResp)
		resp[i] = &groupResp{Date: g.DateKey, Events: eventsResp}
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidOf(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	req := &draftReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	event, ok := a.validateDraft(w, r, req)
	if !ok {
		return
	}

	if _, err := a.events.Create(r.Context(), uid, event); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create event: %w", err))
		return
	}

	a.respondWithEvents(w, r, uid, http.StatusCreated)
}

func (a *Api) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidOf(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id := chi.URLParam(r, "eventID")

	req := &draftReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	event, ok := a.validateDraft(w, r, req)
	if !ok {
		return
	}

	if err := a.events.Update(r.Context(), uid, id, event); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update event: %w", err))
		}
		return
	}

	a.respondWithEvents(w, r, uid, http.StatusOK)
}

func (a *Api) moveEventHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidOf(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id := chi.URLParam(r, "eventID")

	req := &struct {
		Start  dateTime  `json:"start"`
		End    *dateTime `json:"end"`
		AllDay bool      `json:"all_day"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(!time.Time(req.Start).IsZero(), "start", "start must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	start := time.Time(req.Start)

	var end *time.Time
	if req.End != nil {
		t := time.Time(*req.End)
		end = &t
	}

	move := &model.EventMove{
		Start:   start,
		End:     end,
		AllDay:  req.AllDay,
		DateKey: schedule.DateKeyOf(start),
	}

	if err := a.events.Move(r.Context(), uid, id, move); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("move event: %w", err))
		}
		return
	}

	a.respondWithEvents(w, r, uid, http.StatusOK)
}

func (a *Api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidOf(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	id := chi.URLParam(r, "eventID")

	if err := a.events.Remove(r.Context(), uid, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete event: %w", err))
		}
		return
	}

	a.respondWithEvents(w, r, uid, http.StatusOK)
}

func (a *Api) validateDraft(w http.ResponseWriter, r *http.Request, req *draftReq) (*model.EventCreate, bool) {
	event, err := schedule.ValidateDraft(model.Draft{
		Title:     req.Title,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Notes:     req.Notes,
	})
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			a.failedValidationResponse(w, r, vErr.Fields)
		} else {
			a.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	return event, true
}

// respondWithEvents returns the freshly refetched full event set after a
// mutation; the store stays the single source of truth.
func (a *Api) respondWithEvents(w http.ResponseWriter, r *http.Request, uid string, status int) {
	events, err := a.events.List(r.Context(), uid)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("refetch events: %w", err))
		return
	}

	resp, _ := mapSlice(events, mapToEventResp)

	if err := a.writeJSON(w, status, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
