package contracts

import "time"

// MaxPostingInstructionsPerDirective bounds a PostingInstructionsDirective.
const MaxPostingInstructionsPerDirective = 64

// PostingInstructionsDirective instructs a batch of custom instructions.
type PostingInstructionsDirective struct {
	PostingInstructions []CustomInstruction `json:"posting_instructions"`
	ClientBatchID       string              `json:"client_batch_id,omitempty"`
	ValueDatetime       time.Time           `json:"value_datetime,omitempty"`
	BatchDetails        map[string]string   `json:"batch_details,omitempty"`
}

func (d PostingInstructionsDirective) Validate() error {
	n := len(d.PostingInstructions)
	if n == 0 {
		return invalidf("'posting_instructions' must be a non empty list, got []")
	}
	if n > MaxPostingInstructionsPerDirective {
		return invalidf("Too many posting instructions submitted in the Posting Instructions Directive. Number submitted: %d. Limit: %d.",
			n, MaxPostingInstructionsPerDirective)
	}
	for _, pi := range d.PostingInstructions {
		if err := pi.Validate(); err != nil {
			return err
		}
	}
	return requireUTC(d.ValueDatetime, "value_datetime", "PostingInstructionsDirective")
}

// eventTypeUpdate is the field set shared by the account and plan event type
// update directives.
type eventTypeUpdate struct {
	EventType      string              `json:"event_type"`
	Expression     *ScheduleExpression `json:"expression,omitempty"`
	ScheduleMethod *EndOfMonthSchedule `json:"schedule_method,omitempty"`
	EndDatetime    time.Time           `json:"end_datetime,omitempty"`
	Skip           *SkipValue          `json:"skip,omitempty"`
}

func (u eventTypeUpdate) validate(kind string) error {
	if err := requireNonEmpty(kind+".event_type", u.EventType); err != nil {
		return err
	}
	if u.Expression != nil {
		if err := u.Expression.Validate(); err != nil {
			return err
		}
	}
	if u.ScheduleMethod != nil {
		if err := u.ScheduleMethod.Validate(); err != nil {
			return err
		}
	}
	if u.Skip == nil {
		if u.EndDatetime.IsZero() && u.Expression == nil && u.ScheduleMethod == nil {
			return invalidf("%s object must have either an end_datetime, an expression, schedule_method, or skip defined", kind)
		}
	} else if err := u.Skip.validate(); err != nil {
		return prefixed("skip ", err)
	}
	if u.Expression != nil && u.ScheduleMethod != nil {
		return invalidf("%s cannot contain both expression and schedule_method fields", kind)
	}
	return nil
}

// UpdateAccountEventTypeDirective changes the schedule of an account event type.
type UpdateAccountEventTypeDirective struct {
	eventTypeUpdate
}

// NewUpdateAccountEventTypeDirective builds the directive for eventType.
// Use the setters to populate the schedule fields.
func NewUpdateAccountEventTypeDirective(eventType string) UpdateAccountEventTypeDirective {
	return UpdateAccountEventTypeDirective{eventTypeUpdate{EventType: eventType}}
}

func (d UpdateAccountEventTypeDirective) Validate() error {
	return d.validate("UpdateAccountEventTypeDirective")
}

// WithExpression sets the schedule expression.
func (d UpdateAccountEventTypeDirective) WithExpression(e ScheduleExpression) UpdateAccountEventTypeDirective {
	d.Expression = &e
	return d
}

// WithScheduleMethod sets the end-of-month schedule.
func (d UpdateAccountEventTypeDirective) WithScheduleMethod(m EndOfMonthSchedule) UpdateAccountEventTypeDirective {
	d.ScheduleMethod = &m
	return d
}

// WithEndDatetime sets the end of the schedule.
func (d UpdateAccountEventTypeDirective) WithEndDatetime(t time.Time) UpdateAccountEventTypeDirective {
	d.EndDatetime = t
	return d
}

// WithSkip sets the skip state.
func (d UpdateAccountEventTypeDirective) WithSkip(s *SkipValue) UpdateAccountEventTypeDirective {
	d.Skip = s
	return d
}

// UpdatePlanEventTypeDirective changes the schedule of a plan event type.
type UpdatePlanEventTypeDirective struct {
	eventTypeUpdate
}

// NewUpdatePlanEventTypeDirective builds the directive for eventType.
func NewUpdatePlanEventTypeDirective(eventType string) UpdatePlanEventTypeDirective {
	return UpdatePlanEventTypeDirective{eventTypeUpdate{EventType: eventType}}
}

func (d UpdatePlanEventTypeDirective) Validate() error {
	return d.validate("UpdatePlanEventTypeDirective")
}

// WithExpression sets the schedule expression.
func (d UpdatePlanEventTypeDirective) WithExpression(e ScheduleExpression) UpdatePlanEventTypeDirective {
	d.Expression = &e
	return d
}

// WithScheduleMethod sets the end-of-month schedule.
func (d UpdatePlanEventTypeDirective) WithScheduleMethod(m EndOfMonthSchedule) UpdatePlanEventTypeDirective {
	d.ScheduleMethod = &m
	return d
}

// WithEndDatetime sets the end of the schedule.
func (d UpdatePlanEventTypeDirective) WithEndDatetime(t time.Time) UpdatePlanEventTypeDirective {
	d.EndDatetime = t
	return d
}

// WithSkip sets the skip state.
func (d UpdatePlanEventTypeDirective) WithSkip(s *SkipValue) UpdatePlanEventTypeDirective {
	d.Skip = s
	return d
}

// AccountNotificationDirective publishes an account notification.
type AccountNotificationDirective struct {
	NotificationType    string            `json:"notification_type"`
	NotificationDetails map[string]string `json:"notification_details"`
}

func (d AccountNotificationDirective) Validate() error {
	if len(d.NotificationDetails) == 0 {
		return invalidf("AccountNotificationDirective 'notification_details' must be populated")
	}
	return nil
}

// PlanNotificationDirective publishes a plan notification.
type PlanNotificationDirective struct {
	NotificationType    string            `json:"notification_type"`
	NotificationDetails map[string]string `json:"notification_details"`
}

func (d PlanNotificationDirective) Validate() error {
	if len(d.NotificationDetails) == 0 {
		return invalidf("PlanNotificationDirective 'notification_details' must be populated")
	}
	return nil
}
