package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleExpression(t *testing.T) {
	err := ScheduleExpression{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Empty ScheduleExpression not allowed", err.Error())

	err = ScheduleExpression{Hour: Expr("")}.Validate()
	require.Error(t, err)
	assert.Equal(t, "'ScheduleExpression.hour' must be a non-empty string", err.Error())

	e := ScheduleExpression{Hour: Num(0), Minute: Expr("*/5")}
	require.NoError(t, e.Validate())

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hour":0,"minute":"*/5"}`, string(data))

	got, err := Decode[ScheduleExpression](data)
	require.NoError(t, err)
	assert.Equal(t, "0", got.Hour.String())
	assert.Equal(t, "*/5", got.Minute.String())
}

func TestEndOfMonthSchedule(t *testing.T) {
	s := EndOfMonthSchedule{Day: 31}
	require.NoError(t, s.Validate())
	assert.Equal(t, FailoverFirstValidDayBefore, s.FailoverOrDefault())

	tests := []struct {
		s    EndOfMonthSchedule
		want string
	}{
		{EndOfMonthSchedule{Day: 0}, "Argument day of EndOfMonthSchedule object is out of range(1-31)."},
		{EndOfMonthSchedule{Day: 1, Hour: 24}, "Argument hour of EndOfMonthSchedule object is out of range(0-23)."},
		{EndOfMonthSchedule{Day: 1, Minute: 60}, "Argument minute of EndOfMonthSchedule object is out of range(0-59)."},
		{EndOfMonthSchedule{Day: 1, Second: -1}, "Argument second of EndOfMonthSchedule object is out of range(0-59)."},
	}
	for _, tt := range tests {
		err := tt.s.Validate()
		require.Error(t, err)
		assert.Equal(t, tt.want, err.Error())
	}

	assert.ErrorIs(t, EndOfMonthSchedule{Day: 1, Failover: "SOMETIME"}.Validate(), ErrStrongTyping)
}

func TestScheduledEvent(t *testing.T) {
	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	expr := &ScheduleExpression{Day: Num(1)}
	method := &EndOfMonthSchedule{Day: 28}

	tests := []struct {
		name string
		ev   ScheduledEvent
		want string
	}{
		{"nothing set", ScheduledEvent{}, "ScheduledEvent must have an end_datetime, expression, schedule_method or skip set"},
		{"both set", ScheduledEvent{Expression: expr, ScheduleMethod: method}, "ScheduledEvent must not have both expression and schedule_method set"},
		{"end only", ScheduledEvent{EndDatetime: end}, "ScheduledEvent must have exactly one of expression or schedule_method set"},
		{"expression", ScheduledEvent{Expression: expr}, ""},
		{"method", ScheduledEvent{ScheduleMethod: method, EndDatetime: end}, ""},
		{"skip only", ScheduledEvent{Skip: SkipIndefinitely()}, ""},
		{"skip until", ScheduledEvent{Skip: SkipUntil(end)}, ""},
		{"skip false", ScheduledEvent{Skip: &SkipValue{}}, "ScheduledEvent must have an end_datetime, expression, schedule_method or skip set"},
		{"skip unpopulated", ScheduledEvent{Skip: &SkipValue{Until: &ScheduleSkip{}}}, "ScheduledEvent.skip ScheduleSkip 'end' must be populated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSmartContract)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestSkipValueJSON(t *testing.T) {
	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []*SkipValue{SkipIndefinitely(), SkipUntil(end), {}} {
		data, err := json.Marshal(s)
		require.NoError(t, err)
		var got SkipValue
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, s.Active(), got.Active())
		if s.Until != nil {
			require.NotNil(t, got.Until)
			assert.True(t, s.Until.End.Equal(got.Until.End))
		}
	}
}

func TestEventTypes(t *testing.T) {
	assert.NoError(t, SmartContractEventType{EventType{Name: "ACCRUE"}}.Validate())
	assert.Error(t, SmartContractEventType{}.Validate())

	err := EventTypesGroup{Name: "G", EventTypesOrder: []string{"ONLY"}}.Validate()
	require.Error(t, err)
	assert.Equal(t, "An EventTypesGroup must have at least two event types", err.Error())

	err = EventTypesGroup{EventTypesOrder: []string{"A", "B"}}.Validate()
	require.Error(t, err)
	assert.Equal(t, "EventTypesGroup 'name' must be populated", err.Error())

	assert.NoError(t, EventTypesGroup{Name: "G", EventTypesOrder: []string{"A", "B"}}.Validate())
}
