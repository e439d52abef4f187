package contracts

import "time"

type Tside string

const TsideLiability Tside = "LIABILITY"

type Parameter struct {
	Name         string
	DisplayName  string
	Description  string
	DefaultValue any
}

type PostingInstructionsDirective struct {
	ClientBatchID string
	ValueDatetime time.Time
}

type SmartContractEventType struct {
	Name string
}

type HookArguments struct {
	EffectiveDatetime time.Time
}

type ActivationHookArguments struct{ HookArguments }

type ActivationHookResult struct {
	PostingInstructionsDirectives []PostingInstructionsDirective
}

type DeactivationHookArguments struct{ HookArguments }

type DeactivationHookResult struct{}

type DerivedParameterHookArguments struct{ HookArguments }

type DerivedParameterHookResult struct {
	ParametersReturnValue map[string]any
}

type PostPostingHookArguments struct{ HookArguments }

type PostPostingHookResult struct{}

type PrePostingHookArguments struct{ HookArguments }

type PrePostingHookResult struct{}

type ScheduledEventHookArguments struct{ HookArguments }

type ScheduledEventHookResult struct{}

type SupervisorActivationHookArguments struct{ HookArguments }

type SupervisorActivationHookResult struct{}

type SupervisorPrePostingHookArguments struct{ HookArguments }

type SupervisorPrePostingHookResult struct{}
