package contracts

import "time"

// HookArguments carries the fields every hook receives.
type HookArguments struct {
	EffectiveDatetime time.Time `json:"effective_datetime"`
}

func (a HookArguments) validateAs(kind string) error {
	if err := requireSet(kind+".effective_datetime", a.EffectiveDatetime); err != nil {
		return err
	}
	return requireUTC(a.EffectiveDatetime, "effective_datetime", kind)
}

func (a HookArguments) Validate() error { return a.validateAs("HookArguments") }

// ParameterValues maps parameter names to their values. Values are
// decimal.Decimal, string, time.Time, int, OptionalValue or UnionItemValue.
type ParameterValues map[string]any

// ActivationHookArguments are the arguments of activation_hook.
type ActivationHookArguments struct{ HookArguments }

func (a ActivationHookArguments) Validate() error { return a.validateAs("ActivationHookArguments") }

// DeactivationHookArguments are the arguments of deactivation_hook.
type DeactivationHookArguments struct{ HookArguments }

func (a DeactivationHookArguments) Validate() error {
	return a.validateAs("DeactivationHookArguments")
}

// DerivedParameterHookArguments are the arguments of derived_parameter_hook.
type DerivedParameterHookArguments struct{ HookArguments }

func (a DerivedParameterHookArguments) Validate() error {
	return a.validateAs("DerivedParameterHookArguments")
}

// ConversionHookArguments are the arguments of conversion_hook.
type ConversionHookArguments struct {
	HookArguments
	ExistingSchedules map[string]ScheduledEvent `json:"existing_schedules"`
}

func (a ConversionHookArguments) Validate() error {
	return a.validateAs("ConversionHookArguments")
}

// PostParameterChangeHookArguments are the arguments of post_parameter_change_hook.
type PostParameterChangeHookArguments struct {
	HookArguments
	OldParameterValues     ParameterValues `json:"old_parameter_values"`
	UpdatedParameterValues ParameterValues `json:"updated_parameter_values"`
}

func (a PostParameterChangeHookArguments) Validate() error {
	return a.validateAs("PostParameterChangeHookArguments")
}

// PreParameterChangeHookArguments are the arguments of pre_parameter_change_hook.
type PreParameterChangeHookArguments struct {
	HookArguments
	UpdatedParameterValues ParameterValues `json:"updated_parameter_values"`
}

func (a PreParameterChangeHookArguments) Validate() error {
	return a.validateAs("PreParameterChangeHookArguments")
}

// PostPostingHookArguments are the arguments of post_posting_hook.
type PostPostingHookArguments struct {
	HookArguments
	PostingInstructions []PostingInstruction         `json:"posting_instructions"`
	ClientTransactions  map[string]ClientTransaction `json:"client_transactions"`
}

func (a PostPostingHookArguments) Validate() error {
	return validatePostingArgs(a.HookArguments, "PostPostingHookArguments", a.PostingInstructions)
}

// PrePostingHookArguments are the arguments of pre_posting_hook.
type PrePostingHookArguments struct {
	HookArguments
	PostingInstructions []PostingInstruction         `json:"posting_instructions"`
	ClientTransactions  map[string]ClientTransaction `json:"client_transactions"`
}

func (a PrePostingHookArguments) Validate() error {
	return validatePostingArgs(a.HookArguments, "PrePostingHookArguments", a.PostingInstructions)
}

func validatePostingArgs(base HookArguments, kind string, pis []PostingInstruction) error {
	if err := base.validateAs(kind); err != nil {
		return err
	}
	for _, pi := range pis {
		if err := pi.Validate(); err != nil {
			return prefixed(kind+".posting_instructions ", err)
		}
	}
	return nil
}

// ScheduledEventHookArguments are the arguments of scheduled_event_hook.
type ScheduledEventHookArguments struct {
	HookArguments
	EventType       string    `json:"event_type"`
	PauseAtDatetime time.Time `json:"pause_at_datetime,omitempty"`
}

func (a ScheduledEventHookArguments) Validate() error {
	if err := a.validateAs("ScheduledEventHookArguments"); err != nil {
		return err
	}
	if err := requireNonEmpty("event_type", a.EventType); err != nil {
		return err
	}
	return requireUTC(a.PauseAtDatetime, "pause_at_datetime", "ScheduledEventHookArguments")
}

// SupervisorActivationHookArguments are the arguments of a supervisor's activation_hook.
type SupervisorActivationHookArguments struct{ HookArguments }

func (a SupervisorActivationHookArguments) Validate() error {
	return a.validateAs("SupervisorActivationHookArguments")
}

// SupervisorConversionHookArguments are the arguments of a supervisor's conversion_hook.
type SupervisorConversionHookArguments struct {
	HookArguments
	ExistingSchedules map[string]ScheduledEvent `json:"existing_schedules"`
}

func (a SupervisorConversionHookArguments) Validate() error {
	return a.validateAs("SupervisorConversionHookArguments")
}

// SupervisorPostPostingHookArguments are the arguments of a supervisor's post_posting_hook.
// Maps are keyed by supervisee account id.
type SupervisorPostPostingHookArguments struct {
	HookArguments
	SuperviseePostingInstructions map[string][]PostingInstruction         `json:"supervisee_posting_instructions"`
	SuperviseeClientTransactions  map[string]map[string]ClientTransaction `json:"supervisee_client_transactions"`
}

func (a SupervisorPostPostingHookArguments) Validate() error {
	return validateSuperviseePostingArgs(a.HookArguments, "SupervisorPostPostingHookArguments", a.SuperviseePostingInstructions)
}

// SupervisorPrePostingHookArguments are the arguments of a supervisor's pre_posting_hook.
type SupervisorPrePostingHookArguments struct {
	HookArguments
	SuperviseePostingInstructions map[string][]PostingInstruction         `json:"supervisee_posting_instructions"`
	SuperviseeClientTransactions  map[string]map[string]ClientTransaction `json:"supervisee_client_transactions"`
}

func (a SupervisorPrePostingHookArguments) Validate() error {
	return validateSuperviseePostingArgs(a.HookArguments, "SupervisorPrePostingHookArguments", a.SuperviseePostingInstructions)
}

func validateSuperviseePostingArgs(base HookArguments, kind string, bySupervisee map[string][]PostingInstruction) error {
	if err := base.validateAs(kind); err != nil {
		return err
	}
	for _, id := range sortedMapKeys(bySupervisee) {
		for _, pi := range bySupervisee[id] {
			if err := pi.Validate(); err != nil {
				return prefixed(kind+".supervisee_posting_instructions["+id+"] ", err)
			}
		}
	}
	return nil
}

// SupervisorScheduledEventHookArguments are the arguments of a supervisor's scheduled_event_hook.
type SupervisorScheduledEventHookArguments struct {
	HookArguments
	EventType                 string               `json:"event_type"`
	PauseAtDatetime           time.Time            `json:"pause_at_datetime,omitempty"`
	SuperviseePauseAtDatetime map[string]time.Time `json:"supervisee_pause_at_datetime"`
}

func (a SupervisorScheduledEventHookArguments) Validate() error {
	kind := "SupervisorScheduledEventHookArguments"
	if err := a.validateAs(kind); err != nil {
		return err
	}
	if err := requireNonEmpty("event_type", a.EventType); err != nil {
		return err
	}
	if err := requireUTC(a.PauseAtDatetime, "pause_at_datetime", kind); err != nil {
		return err
	}
	for _, id := range sortedMapKeys(a.SuperviseePauseAtDatetime) {
		if err := requireUTC(a.SuperviseePauseAtDatetime[id], "supervisee_pause_at_datetime", kind); err != nil {
			return err
		}
	}
	return nil
}
