package contracts

import (
	"encoding/json"
	"sort"
	"time"
)

// TimeseriesItem is one timestamped value.
type TimeseriesItem[T any] struct {
	At    time.Time `json:"at"`
	Value T         `json:"value"`
}

// Timeseries is an ordered history of values. Lookups return the value in
// force at a point in time.
type Timeseries[T any] struct {
	items         []TimeseriesItem[T]
	returnOnEmpty *T
}

// NewTimeseries builds a timeseries from items, sorting them by time.
// Every timestamp must be UTC.
func NewTimeseries[T any](items []TimeseriesItem[T]) (Timeseries[T], error) {
	for _, it := range items {
		if err := requireUTC(it.At, "at", "Timeseries"); err != nil {
			return Timeseries[T]{}, err
		}
	}
	sorted := append([]TimeseriesItem[T](nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })
	return Timeseries[T]{items: sorted}, nil
}

// WithReturnOnEmpty returns a copy that yields v instead of failing when no
// value is in force.
func (ts Timeseries[T]) WithReturnOnEmpty(v T) Timeseries[T] {
	ts.returnOnEmpty = &v
	return ts
}

// Validate checks ordering and timezones.
func (ts Timeseries[T]) Validate() error {
	for i, it := range ts.items {
		if err := requireUTC(it.At, "at", "Timeseries"); err != nil {
			return err
		}
		if i > 0 && it.At.Before(ts.items[i-1].At) {
			return invalidf("Timeseries items must be in chronological order")
		}
	}
	return nil
}

// At returns the latest value at or before t.
func (ts Timeseries[T]) At(t time.Time) (T, error) {
	if err := requireUTC(t, "at_datetime", "Timeseries.at()"); err != nil {
		var zero T
		return zero, err
	}
	i := sort.Search(len(ts.items), func(i int) bool { return ts.items[i].At.After(t) })
	return ts.pick(i-1, t)
}

// Before returns the latest value strictly before t.
func (ts Timeseries[T]) Before(t time.Time) (T, error) {
	if err := requireUTC(t, "at_datetime", "Timeseries.before()"); err != nil {
		var zero T
		return zero, err
	}
	i := sort.Search(len(ts.items), func(i int) bool { return !ts.items[i].At.Before(t) })
	return ts.pick(i-1, t)
}

// Latest returns the most recent value.
func (ts Timeseries[T]) Latest() (T, error) {
	if len(ts.items) == 0 {
		if ts.returnOnEmpty != nil {
			return *ts.returnOnEmpty, nil
		}
		var zero T
		return zero, strongTypingf("No values provided")
	}
	return ts.items[len(ts.items)-1].Value, nil
}

// All returns every item in chronological order.
func (ts Timeseries[T]) All() []TimeseriesItem[T] {
	return append([]TimeseriesItem[T](nil), ts.items...)
}

// Len returns the number of items.
func (ts Timeseries[T]) Len() int { return len(ts.items) }

func (ts Timeseries[T]) pick(i int, t time.Time) (T, error) {
	if i >= 0 {
		return ts.items[i].Value, nil
	}
	if ts.returnOnEmpty != nil {
		return *ts.returnOnEmpty, nil
	}
	var zero T
	return zero, strongTypingf("No values provided as of date %s", t.Format(time.RFC3339Nano))
}

func (ts Timeseries[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.items)
}

func (ts *Timeseries[T]) UnmarshalJSON(data []byte) error {
	var items []TimeseriesItem[T]
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	ts.items = items
	return nil
}
