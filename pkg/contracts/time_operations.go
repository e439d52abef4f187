package contracts

import (
	"encoding/json"
	"fmt"
)

// Ptr returns a pointer to v. It keeps literals of optional fields short.
func Ptr[T any](v T) *T { return &v }

type rangeCheck struct {
	v      *int
	lo, hi int
}

func outOfRange(checks []rangeCheck) bool {
	for _, c := range checks {
		if c.v != nil && (*c.v < c.lo || *c.v > c.hi) {
			return true
		}
	}
	return false
}

func anySet(vs ...*int) bool {
	for _, v := range vs {
		if v != nil {
			return true
		}
	}
	return false
}

// Find locates a datetime relative to an origin. It is implemented by Next,
// Previous and Override.
type Find interface {
	Validator
	findName() string
}

// Override replaces components of a datetime.
type Override struct {
	Year   *int `json:"year,omitempty"`
	Month  *int `json:"month,omitempty"`
	Day    *int `json:"day,omitempty"`
	Hour   *int `json:"hour,omitempty"`
	Minute *int `json:"minute,omitempty"`
	Second *int `json:"second,omitempty"`
}

func (Override) findName() string { return "Override" }

func (o Override) Validate() error {
	if !anySet(o.Year, o.Month, o.Day, o.Hour, o.Minute, o.Second) {
		return invalidf("Override object needs to be populated with at least one attribute.")
	}
	if (o.Year != nil && *o.Year < 0) || outOfRange([]rangeCheck{
		{o.Month, 1, 12}, {o.Day, 1, 31}, {o.Hour, 0, 23}, {o.Minute, 0, 59}, {o.Second, 0, 59},
	}) {
		return invalidf("Values of Override object are out of range.")
	}
	return nil
}

// Shift moves a datetime by a signed amount of each unit.
type Shift struct {
	Years   *int `json:"years,omitempty"`
	Months  *int `json:"months,omitempty"`
	Days    *int `json:"days,omitempty"`
	Hours   *int `json:"hours,omitempty"`
	Minutes *int `json:"minutes,omitempty"`
	Seconds *int `json:"seconds,omitempty"`
}

func (s Shift) Validate() error {
	if !anySet(s.Years, s.Months, s.Days, s.Hours, s.Minutes, s.Seconds) {
		return invalidf("Shift object needs to be populated with at least one attribute.")
	}
	return nil
}

type nextOrPrevious struct {
	Month  *int `json:"month,omitempty"`
	Day    *int `json:"day"`
	Hour   *int `json:"hour,omitempty"`
	Minute *int `json:"minute,omitempty"`
	Second *int `json:"second,omitempty"`
}

func (n nextOrPrevious) validate(kind string) error {
	if n.Day == nil {
		return strongTypingf("'%s.day' expected int, got None", kind)
	}
	if outOfRange([]rangeCheck{
		{n.Month, 1, 12}, {n.Day, 1, 31}, {n.Hour, 0, 23}, {n.Minute, 0, 59}, {n.Second, 0, 59},
	}) {
		return invalidf("Values of %s object are out of range.", kind)
	}
	return nil
}

// Next finds the next datetime matching the given components.
type Next nextOrPrevious

func (Next) findName() string { return "Next" }
func (n Next) Validate() error { return nextOrPrevious(n).validate("Next") }

// Previous finds the previous datetime matching the given components.
type Previous nextOrPrevious

func (Previous) findName() string { return "Previous" }
func (p Previous) Validate() error { return nextOrPrevious(p).validate("Previous") }

// RelativeDateTime is a datetime computed from an origin by a shift and
// then a find.
type RelativeDateTime struct {
	Shift  *Shift          `json:"shift,omitempty"`
	Find   Find            `json:"-"`
	Origin DefinedDateTime `json:"origin"`
}

func (r RelativeDateTime) Validate() error {
	if r.Shift != nil {
		if err := r.Shift.Validate(); err != nil {
			return prefixed("RelativeDateTime.shift ", err)
		}
	}
	if r.Find != nil {
		if err := r.Find.Validate(); err != nil {
			return prefixed("RelativeDateTime.find ", err)
		}
	}
	if r.Shift == nil && r.Find == nil {
		return invalidf("RelativeDateTime Object requires either shift or find attributes to be populated")
	}
	if r.Origin == DefinedDateTimeLive {
		return invalidf(`RelativeDateTime origin attribute does not support "DefinedDateTime.LIVE"`)
	}
	return requireValidEnum("RelativeDateTime.origin", "DefinedDateTime", r.Origin)
}

type relativeJSON struct {
	Shift    *Shift          `json:"shift,omitempty"`
	FindKind string          `json:"find_kind,omitempty"`
	Find     json.RawMessage `json:"find,omitempty"`
	Origin   DefinedDateTime `json:"origin"`
}

func (r RelativeDateTime) MarshalJSON() ([]byte, error) {
	out := relativeJSON{Shift: r.Shift, Origin: r.Origin}
	if r.Find != nil {
		raw, err := json.Marshal(r.Find)
		if err != nil {
			return nil, err
		}
		out.FindKind, out.Find = r.Find.findName(), raw
	}
	return json.Marshal(out)
}

func (r *RelativeDateTime) UnmarshalJSON(data []byte) error {
	var in relativeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = RelativeDateTime{Shift: in.Shift, Origin: in.Origin}
	switch in.FindKind {
	case "":
		return nil
	case "Next":
		var n Next
		r.Find = &n
		return json.Unmarshal(in.Find, &n)
	case "Previous":
		var p Previous
		r.Find = &p
		return json.Unmarshal(in.Find, &p)
	case "Override":
		var o Override
		r.Find = &o
		return json.Unmarshal(in.Find, &o)
	}
	return fmt.Errorf("contracts: unknown find kind %q", in.FindKind)
}

// DateTimeRef is either a DefinedDateTime or a RelativeDateTime.
type DateTimeRef struct {
	Defined  DefinedDateTime   `json:"defined,omitempty"`
	Relative *RelativeDateTime `json:"relative,omitempty"`
}

// Defined refers to a runtime-defined datetime.
func Defined(d DefinedDateTime) DateTimeRef { return DateTimeRef{Defined: d} }

// Relative refers to a datetime relative to an origin.
func Relative(r RelativeDateTime) DateTimeRef { return DateTimeRef{Relative: &r} }

// IsZero reports whether the reference is unset.
func (d DateTimeRef) IsZero() bool { return d.Defined == "" && d.Relative == nil }

func (d DateTimeRef) validate(prefix string) error {
	if d.Relative != nil {
		if err := d.Relative.Validate(); err != nil {
			return err
		}
		return nil
	}
	return requireValidEnum(prefix, "Union[RelativeDateTime, DefinedDateTime]", d.Defined)
}
