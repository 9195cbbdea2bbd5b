package api

import (
	"encoding/json"
	"time"

	"github.com/ysaito/personal-calendar/internal/model"
)

const dateTimeFormat = time.RFC3339

type dateTime time.Time

func (d dateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dateTimeFormat))
}

func (d *dateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	t, err := time.Parse(dateTimeFormat, s)
	if err != nil {
		return err
	}

	*d = dateTime(t)
	return nil
}

type userResp struct {
	ID       int64  `json:"id,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

func mapToUserResp(user *model.User) (*userResp, error) {
	return &userResp{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Photo:    user.Photo,
	}, nil
}

type eventResp struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     dateTime  `json:"start"`
	End       *dateTime `json:"end,omitempty"`
	AllDay    bool      `json:"all_day"`
	DateKey   string    `json:"date_key"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt dateTime  `json:"created_at"`
	UpdatedAt dateTime  `json:"updated_at"`
}

func mapToEventResp(event *model.Event) (*eventResp, error) {
	resp := &eventResp{
		ID:        event.ID,
		Title:     event.Title,
		Start:     dateTime(event.Start),
		AllDay:    event.AllDay,
		DateKey:   event.DateKey,
		Location:  event.Location,
		Notes:     event.Notes,
		CreatedAt: dateTime(event.CreatedAt),
		UpdatedAt: dateTime(event.UpdatedAt),
	}

	if event.End != nil {
		end := dateTime(*event.End)
		resp.End = &end
	}

	return resp, nil
}

type groupResp struct {
	Date   string       `json:"date"`
	Events []*eventResp `json:"events"`
}

func mapSlice[A any, B any](from []A, mapFn func(A) (B, error)) ([]B, error) {
	res := make([]B, len(from))
	for i, el := range from {
		var err error
		res[i], err = mapFn(el)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}
