package contracts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ScheduleValue is one field of a ScheduleExpression. It holds either an
// integer or a cron-like string such as "1-5" or "*/2".
type ScheduleValue struct {
	num   int
	str   string
	isStr bool
}

// Num returns an integer schedule field.
func Num(n int) *ScheduleValue { return &ScheduleValue{num: n} }

// Expr returns a string schedule field.
func Expr(s string) *ScheduleValue { return &ScheduleValue{str: s, isStr: true} }

func (v ScheduleValue) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.Itoa(v.num)
}

func (v ScheduleValue) MarshalJSON() ([]byte, error) {
	if v.isStr {
		return json.Marshal(v.str)
	}
	return json.Marshal(v.num)
}

func (v *ScheduleValue) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = ScheduleValue{num: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("schedule field must be an int or a string: %w", err)
	}
	*v = ScheduleValue{str: s, isStr: true}
	return nil
}

// ScheduleExpression is a cron-like schedule interpreted by the runtime.
type ScheduleExpression struct {
	Day       *ScheduleValue `json:"day,omitempty"`
	DayOfWeek *ScheduleValue `json:"day_of_week,omitempty"`
	Hour      *ScheduleValue `json:"hour,omitempty"`
	Minute    *ScheduleValue `json:"minute,omitempty"`
	Second    *ScheduleValue `json:"second,omitempty"`
	Month     *ScheduleValue `json:"month,omitempty"`
	Year      *ScheduleValue `json:"year,omitempty"`
}

func (e ScheduleExpression) fields() []struct {
	name string
	v    *ScheduleValue
} {
	return []struct {
		name string
		v    *ScheduleValue
	}{
		{"day", e.Day}, {"day_of_week", e.DayOfWeek}, {"hour", e.Hour}, {"minute", e.Minute},
		{"second", e.Second}, {"month", e.Month}, {"year", e.Year},
	}
}

func (e ScheduleExpression) Validate() error {
	empty := true
	for _, f := range e.fields() {
		if f.v == nil {
			continue
		}
		empty = false
		if f.v.isStr && f.v.str == "" {
			return invalidf("'ScheduleExpression.%s' must be a non-empty string", f.name)
		}
	}
	if empty {
		return invalidf("Empty ScheduleExpression not allowed")
	}
	return nil
}

// EndOfMonthSchedule runs on a day of every month, failing over when the
// day does not exist in a month.
type EndOfMonthSchedule struct {
	Day      int              `json:"day"`
	Hour     int              `json:"hour"`
	Minute   int              `json:"minute"`
	Second   int              `json:"second"`
	Failover ScheduleFailover `json:"failover,omitempty"`
}

// FailoverOrDefault returns the failover policy, defaulting to
// FIRST_VALID_DAY_BEFORE.
func (s EndOfMonthSchedule) FailoverOrDefault() ScheduleFailover {
	if s.Failover == "" {
		return FailoverFirstValidDayBefore
	}
	return s.Failover
}

func (s EndOfMonthSchedule) Validate() error {
	for _, r := range []struct {
		name   string
		v      int
		lo, hi int
	}{
		{"day", s.Day, 1, 31},
		{"hour", s.Hour, 0, 23},
		{"minute", s.Minute, 0, 59},
		{"second", s.Second, 0, 59},
	} {
		if r.v < r.lo || r.v > r.hi {
			return invalidf("Argument %s of EndOfMonthSchedule object is out of range(%d-%d).", r.name, r.lo, r.hi)
		}
	}
	if s.Failover != "" {
		return requireValidEnum("failover", "ScheduleFailover", s.Failover)
	}
	return nil
}

// ScheduleSkip skips a schedule until End.
type ScheduleSkip struct {
	End time.Time `json:"end"`
}

func (s ScheduleSkip) Validate() error {
	if s.End.IsZero() {
		return invalidf("ScheduleSkip 'end' must be populated")
	}
	return nil
}

// SkipValue is either an indefinite skip or a timed ScheduleSkip.
type SkipValue struct {
	Indefinite bool
	Until      *ScheduleSkip
}

// SkipIndefinitely skips the schedule until it is unskipped.
func SkipIndefinitely() *SkipValue { return &SkipValue{Indefinite: true} }

// SkipUntil skips the schedule until end.
func SkipUntil(end time.Time) *SkipValue { return &SkipValue{Until: &ScheduleSkip{End: end}} }

// Active reports whether the skip suppresses the schedule. A nil or false
// skip is inactive.
func (s *SkipValue) Active() bool {
	return s != nil && (s.Indefinite || s.Until != nil)
}

func (s *SkipValue) validate() error {
	if s == nil || s.Until == nil {
		return nil
	}
	return s.Until.Validate()
}

func (s SkipValue) MarshalJSON() ([]byte, error) {
	if s.Until != nil {
		return json.Marshal(s.Until)
	}
	return json.Marshal(s.Indefinite)
}

func (s *SkipValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = SkipValue{Indefinite: b}
		return nil
	}
	var until ScheduleSkip
	if err := json.Unmarshal(data, &until); err != nil {
		return fmt.Errorf("skip must be a bool or a ScheduleSkip: %w", err)
	}
	*s = SkipValue{Until: &until}
	return nil
}

// ScheduledEvent is returned from the activation and conversion hooks to
// set up a smart contract event type's schedule.
type ScheduledEvent struct {
	StartDatetime  time.Time           `json:"start_datetime,omitempty"`
	EndDatetime    time.Time           `json:"end_datetime,omitempty"`
	Expression     *ScheduleExpression `json:"expression,omitempty"`
	ScheduleMethod *EndOfMonthSchedule `json:"schedule_method,omitempty"`
	Skip           *SkipValue          `json:"skip,omitempty"`
}

func (e ScheduledEvent) Validate() error {
	if e.Expression != nil {
		if err := e.Expression.Validate(); err != nil {
			return prefixed("ScheduledEvent.expression ", err)
		}
	}
	if e.ScheduleMethod != nil {
		if err := e.ScheduleMethod.Validate(); err != nil {
			return prefixed("ScheduledEvent.schedule_method ", err)
		}
	}
	if err := e.Skip.validate(); err != nil {
		return prefixed("ScheduledEvent.skip ", err)
	}
	if e.Skip.Active() {
		return nil
	}
	if e.EndDatetime.IsZero() && e.Expression == nil && e.ScheduleMethod == nil {
		return invalidf("ScheduledEvent must have an end_datetime, expression, schedule_method or skip set")
	}
	if e.Expression != nil && e.ScheduleMethod != nil {
		return invalidf("ScheduledEvent must not have both expression and schedule_method set")
	}
	if e.Expression == nil && e.ScheduleMethod == nil {
		return invalidf("ScheduledEvent must have exactly one of expression or schedule_method set")
	}
	return nil
}
