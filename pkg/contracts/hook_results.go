package contracts

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateAll[T Validator](items []T) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AccountDirectives is the directive set shared by most contract results.
type AccountDirectives struct {
	AccountNotificationDirectives    []AccountNotificationDirective    `json:"account_notification_directives,omitempty"`
	PostingInstructionsDirectives    []PostingInstructionsDirective    `json:"posting_instructions_directives,omitempty"`
	UpdateAccountEventTypeDirectives []UpdateAccountEventTypeDirective `json:"update_account_event_type_directives,omitempty"`
}

func (d AccountDirectives) empty() bool {
	return len(d.AccountNotificationDirectives) == 0 && len(d.PostingInstructionsDirectives) == 0 &&
		len(d.UpdateAccountEventTypeDirectives) == 0
}

func (d AccountDirectives) validate() error {
	if err := validateAll(d.AccountNotificationDirectives); err != nil {
		return err
	}
	if err := validateAll(d.PostingInstructionsDirectives); err != nil {
		return err
	}
	if err := validateAll(d.UpdateAccountEventTypeDirectives); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, u := range d.UpdateAccountEventTypeDirectives {
		if seen[u.EventType] {
			return invalidf("Event type '%s' cannot be updated more than once in a hook", u.EventType)
		}
		seen[u.EventType] = true
	}
	return nil
}

func validateScheduledEvents(events map[string]ScheduledEvent) error {
	for _, name := range sortedMapKeys(events) {
		if err := events[name].Validate(); err != nil {
			return prefixed("scheduled_events_return_value["+name+"] ", err)
		}
	}
	return nil
}

func validateRejection(r *Rejection) error {
	if r == nil {
		return nil
	}
	return prefixed("rejection ", r.Validate())
}

// ActivationHookResult is returned by activation_hook.
type ActivationHookResult struct {
	AccountNotificationDirectives []AccountNotificationDirective `json:"account_notification_directives,omitempty"`
	PostingInstructionsDirectives []PostingInstructionsDirective `json:"posting_instructions_directives,omitempty"`
	ScheduledEventsReturnValue    map[string]ScheduledEvent      `json:"scheduled_events_return_value,omitempty"`
	Rejection                     *Rejection                     `json:"rejection,omitempty"`
}

func (r ActivationHookResult) Validate() error {
	d := AccountDirectives{
		AccountNotificationDirectives: r.AccountNotificationDirectives,
		PostingInstructionsDirectives: r.PostingInstructionsDirectives,
	}
	if err := d.validate(); err != nil {
		return err
	}
	if err := validateScheduledEvents(r.ScheduledEventsReturnValue); err != nil {
		return err
	}
	if r.Rejection == nil {
		return nil
	}
	if !d.empty() || len(r.ScheduledEventsReturnValue) > 0 {
		return invalidf("ActivationHookResult allows the population of directives/events or rejection, but not both")
	}
	return validateRejection(r.Rejection)
}

// ConversionHookResult is returned by conversion_hook.
type ConversionHookResult struct {
	AccountNotificationDirectives []AccountNotificationDirective `json:"account_notification_directives,omitempty"`
	PostingInstructionsDirectives []PostingInstructionsDirective `json:"posting_instructions_directives,omitempty"`
	ScheduledEventsReturnValue    map[string]ScheduledEvent      `json:"scheduled_events_return_value,omitempty"`
}

func (r ConversionHookResult) Validate() error {
	d := AccountDirectives{
		AccountNotificationDirectives: r.AccountNotificationDirectives,
		PostingInstructionsDirectives: r.PostingInstructionsDirectives,
	}
	if err := d.validate(); err != nil {
		return err
	}
	return validateScheduledEvents(r.ScheduledEventsReturnValue)
}

// DeactivationHookResult is returned by deactivation_hook.
type DeactivationHookResult struct {
	AccountDirectives
	Rejection *Rejection `json:"rejection,omitempty"`
}

func (r DeactivationHookResult) Validate() error {
	if r.Rejection != nil {
		if err := validateRejection(r.Rejection); err != nil {
			return err
		}
		if !r.empty() {
			return invalidf("DeactivationHookResult allows the population of directives or rejection, but not both")
		}
	}
	return r.validate()
}

// DerivedParameterHookResult is returned by derived_parameter_hook.
type DerivedParameterHookResult struct {
	ParametersReturnValue ParameterValues `json:"parameters_return_value"`
}

func (r DerivedParameterHookResult) Validate() error {
	if r.ParametersReturnValue == nil {
		return strongTypingf("'parameters_return_value' expected Dict[str, Union[datetime, Decimal, int, OptionalValue, str, UnionItemValue]], got None")
	}
	for _, name := range sortedMapKeys(r.ParametersReturnValue) {
		switch v := r.ParametersReturnValue[name].(type) {
		case decimal.Decimal, string, int, int64, time.Time:
		case OptionalValue:
			if err := v.Validate(); err != nil {
				return err
			}
		case UnionItemValue:
			if err := v.Validate(); err != nil {
				return err
			}
		default:
			return strongTypingf("'parameters_return_value[%s]' has unsupported type %T", name, v)
		}
	}
	return nil
}

// PostParameterChangeHookResult is returned by post_parameter_change_hook.
type PostParameterChangeHookResult struct {
	AccountDirectives
}

func (r PostParameterChangeHookResult) Validate() error { return r.validate() }

// PostPostingHookResult is returned by post_posting_hook.
type PostPostingHookResult struct {
	AccountDirectives
}

func (r PostPostingHookResult) Validate() error { return r.validate() }

// ScheduledEventHookResult is returned by scheduled_event_hook.
type ScheduledEventHookResult struct {
	AccountDirectives
}

func (r ScheduledEventHookResult) Validate() error { return r.validate() }

// PreParameterChangeHookResult is returned by pre_parameter_change_hook.
type PreParameterChangeHookResult struct {
	Rejection *Rejection `json:"rejection,omitempty"`
}

func (r PreParameterChangeHookResult) Validate() error { return validateRejection(r.Rejection) }

// PrePostingHookResult is returned by pre_posting_hook.
type PrePostingHookResult struct {
	Rejection *Rejection `json:"rejection,omitempty"`
}

func (r PrePostingHookResult) Validate() error { return validateRejection(r.Rejection) }

// SupervisorDirectives is the directive set of supervisor post posting and
// scheduled event results. Supervisee maps are keyed by account id.
type SupervisorDirectives struct {
	PlanNotificationDirectives                 []PlanNotificationDirective                  `json:"plan_notification_directives,omitempty"`
	UpdatePlanEventTypeDirectives              []UpdatePlanEventTypeDirective               `json:"update_plan_event_type_directives,omitempty"`
	SuperviseeAccountNotificationDirectives    map[string][]AccountNotificationDirective    `json:"supervisee_account_notification_directives,omitempty"`
	SuperviseePostingInstructionsDirectives    map[string][]PostingInstructionsDirective    `json:"supervisee_posting_instructions_directives,omitempty"`
	SuperviseeUpdateAccountEventTypeDirectives map[string][]UpdateAccountEventTypeDirective `json:"supervisee_update_account_event_type_directives,omitempty"`
}

func (d SupervisorDirectives) validate() error {
	if err := validateAll(d.PlanNotificationDirectives); err != nil {
		return err
	}
	if err := validateAll(d.UpdatePlanEventTypeDirectives); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, u := range d.UpdatePlanEventTypeDirectives {
		if seen[u.EventType] {
			return invalidf("Event type '%s' cannot be updated more than once in a hook", u.EventType)
		}
		seen[u.EventType] = true
	}
	for _, id := range sortedMapKeys(d.SuperviseeAccountNotificationDirectives) {
		if err := validateAll(d.SuperviseeAccountNotificationDirectives[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedMapKeys(d.SuperviseePostingInstructionsDirectives) {
		if err := validateAll(d.SuperviseePostingInstructionsDirectives[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedMapKeys(d.SuperviseeUpdateAccountEventTypeDirectives) {
		directives := AccountDirectives{UpdateAccountEventTypeDirectives: d.SuperviseeUpdateAccountEventTypeDirectives[id]}
		if err := directives.validate(); err != nil {
			return err
		}
	}
	return nil
}

// SupervisorActivationHookResult is returned by a supervisor's activation_hook.
type SupervisorActivationHookResult struct {
	ScheduledEventsReturnValue map[string]ScheduledEvent `json:"scheduled_events_return_value,omitempty"`
}

func (r SupervisorActivationHookResult) Validate() error {
	return validateScheduledEvents(r.ScheduledEventsReturnValue)
}

// SupervisorConversionHookResult is returned by a supervisor's conversion_hook.
type SupervisorConversionHookResult struct {
	ScheduledEventsReturnValue map[string]ScheduledEvent `json:"scheduled_events_return_value,omitempty"`
}

func (r SupervisorConversionHookResult) Validate() error {
	return validateScheduledEvents(r.ScheduledEventsReturnValue)
}

// SupervisorPostPostingHookResult is returned by a supervisor's post_posting_hook.
type SupervisorPostPostingHookResult struct {
	SupervisorDirectives
}

func (r SupervisorPostPostingHookResult) Validate() error { return r.validate() }

// SupervisorScheduledEventHookResult is returned by a supervisor's scheduled_event_hook.
type SupervisorScheduledEventHookResult struct {
	SupervisorDirectives
}

func (r SupervisorScheduledEventHookResult) Validate() error { return r.validate() }

// SupervisorPrePostingHookResult is returned by a supervisor's pre_posting_hook.
type SupervisorPrePostingHookResult struct {
	Rejection *Rejection `json:"rejection,omitempty"`
}

func (r SupervisorPrePostingHookResult) Validate() error { return validateRejection(r.Rejection) }
