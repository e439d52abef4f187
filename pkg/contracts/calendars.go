package contracts

import "time"

// CalendarEvent is one event of a calendar, such as a bank holiday.
type CalendarEvent struct {
	ID            string    `json:"id"`
	CalendarID    string    `json:"calendar_id"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
}

func (e CalendarEvent) Validate() error {
	if err := requireUTC(e.StartDatetime, "start_datetime", "CalendarEvent"); err != nil {
		return err
	}
	return requireUTC(e.EndDatetime, "end_datetime", "CalendarEvent")
}

// Contains reports whether t falls within the event.
func (e CalendarEvent) Contains(t time.Time) bool {
	return !t.Before(e.StartDatetime) && t.Before(e.EndDatetime)
}

// CalendarEvents is the list returned by get_calendar_events.
type CalendarEvents []CalendarEvent

func (es CalendarEvents) Validate() error {
	for _, e := range es {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Containing returns the events that contain t.
func (es CalendarEvents) Containing(t time.Time) CalendarEvents {
	var out CalendarEvents
	for _, e := range es {
		if e.Contains(t) {
			out = append(out, e)
		}
	}
	return out
}
