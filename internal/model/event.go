package model

import "time"

type EventCreate struct {
	Title    string
	Start    time.Time
	End      *time.Time
	AllDay   bool
	DateKey  string
	Location string
	Notes    string
}

type Event struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	EventCreate
}

// EventMove carries a drag-initiated reschedule. AllDay passes through
// unchanged; a drop position without an end clears the stored end.
type EventMove struct {
	Start   time.Time
	End     *time.Time
	AllDay  bool
	DateKey string
}

// Draft keeps the form fields exactly as the user typed them. Times stay
// strings until save; canonicalization happens in the schedule package.
type Draft struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Location  string
	Notes     string
}
