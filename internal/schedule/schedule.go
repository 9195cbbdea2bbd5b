// Package schedule converts between the form representation of an event
// (calendar date plus optional clock times) and the canonical timed or
// all-day record that gets persisted.
package schedule

import (
	"strings"
	"time"

	"github.com/ysaito/personal-calendar/internal/model"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Normalized is the canonical form of a (date, startTime, endTime) triple.
type Normalized struct {
	Start   time.Time
	End     *time.Time
	AllDay  bool
	DateKey string
}

// Normalize canonicalizes the user-entered triple. An event with neither
// time is all-day and starts at midnight; a present end time is anchored to
// the same calendar date as the start.
func Normalize(date, startTime, endTime string) (*Normalized, error) {
	day, err := time.ParseInLocation(DateFormat, date, time.Local)
	if err != nil {
		return nil, model.NewValidationError("date", "must be a valid date in YYYY-MM-DD format")
	}

	res := &Normalized{
		Start:   day,
		AllDay:  startTime == "" && endTime == "",
		DateKey: day.Format(DateFormat),
	}

	if startTime != "" {
		t, err := time.ParseInLocation(TimeFormat, startTime, time.Local)
		if err != nil {
			return nil, model.NewValidationError("start_time", "must be a valid time in HH:MM format")
		}
		res.Start = combine(day, t)
	}

	if endTime != "" {
		t, err := time.ParseInLocation(TimeFormat, endTime, time.Local)
		if err != nil {
			return nil, model.NewValidationError("end_time", "must be a valid time in HH:MM format")
		}
		end := combine(day, t)
		if end.Before(res.Start) {
			return nil, model.NewValidationError("end_time", "must not be before start time")
		}
		res.End = &end
	}

	return res, nil
}

// ValidateDraft turns a draft into a record ready for the gateway. Pure;
// persistence is the caller's responsibility.
func ValidateDraft(draft model.Draft) (*model.EventCreate, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, model.NewValidationError("title", "title must be provided")
	}

	if draft.Date == "" {
		return nil, model.NewValidationError("date", "date must be provided")
	}

	n, err := Normalize(draft.Date, draft.StartTime, draft.EndTime)
	if err != nil {
		return nil, err
	}

	return &model.EventCreate{
		Title:    title,
		Start:    n.Start,
		End:      n.End,
		AllDay:   n.AllDay,
		DateKey:  n.DateKey,
		Location: draft.Location,
		Notes:    draft.Notes,
	}, nil
}

// ToDraft is the reverse mapping used when an existing event is opened for
// editing. Clock times round-trip losslessly for timed events.
func ToDraft(event *model.Event) model.Draft {
	draft := model.Draft{
		Title:    event.Title,
		Date:     event.Start.Format(DateFormat),
		Location: event.Location,
		Notes:    event.Notes,
	}

	if !event.AllDay {
		draft.StartTime = event.Start.Format(TimeFormat)
	}

	if event.End != nil {
		draft.EndTime = event.End.Format(TimeFormat)
	}

	return draft
}

// DateKeyOf derives the grouping key from a start time.
func DateKeyOf(start time.Time) string {
	return start.Format(DateFormat)
}

func combine(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
