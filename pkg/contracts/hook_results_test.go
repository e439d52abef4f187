package contracts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationHookResult(t *testing.T) {
	events := map[string]ScheduledEvent{"ACCRUE": {Expression: &ScheduleExpression{Hour: Num(0)}}}
	require.NoError(t, ActivationHookResult{ScheduledEventsReturnValue: events}.Validate())
	require.NoError(t, ActivationHookResult{Rejection: &Rejection{Message: "closed"}}.Validate())

	err := ActivationHookResult{ScheduledEventsReturnValue: events, Rejection: &Rejection{Message: "closed"}}.Validate()
	require.Error(t, err)
	assert.Equal(t, "ActivationHookResult allows the population of directives/events or rejection, but not both", err.Error())

	err = ActivationHookResult{ScheduledEventsReturnValue: map[string]ScheduledEvent{"BROKEN": {}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduled_events_return_value[BROKEN]")
}

func TestDeactivationHookResult(t *testing.T) {
	notify := []AccountNotificationDirective{{NotificationType: "CLOSED", NotificationDetails: map[string]string{"a": "b"}}}

	r := DeactivationHookResult{Rejection: &Rejection{Message: "balance outstanding", ReasonCode: RejectionReasonAgainstTNC}}
	require.NoError(t, r.Validate())
	assert.Equal(t, RejectionReasonAgainstTNC, r.Rejection.Reason())

	r.AccountNotificationDirectives = notify
	err := r.Validate()
	require.Error(t, err)
	assert.Equal(t, "DeactivationHookResult allows the population of directives or rejection, but not both", err.Error())

	err = DeactivationHookResult{Rejection: &Rejection{}}.Validate()
	require.Error(t, err)
	assert.Equal(t, "rejection Rejection 'message' must be populated", err.Error())
}

func TestDuplicateEventTypeUpdates(t *testing.T) {
	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	update := NewUpdateAccountEventTypeDirective("ACCRUE").WithEndDatetime(end)

	r := PostPostingHookResult{}
	r.UpdateAccountEventTypeDirectives = []UpdateAccountEventTypeDirective{update, update}
	err := r.Validate()
	require.Error(t, err)
	assert.Equal(t, "Event type 'ACCRUE' cannot be updated more than once in a hook", err.Error())

	s := SupervisorScheduledEventHookResult{}
	plan := NewUpdatePlanEventTypeDirective("SWEEP").WithEndDatetime(end)
	s.UpdatePlanEventTypeDirectives = []UpdatePlanEventTypeDirective{plan, plan}
	assert.ErrorIs(t, s.Validate(), ErrInvalidSmartContract)

	s = SupervisorScheduledEventHookResult{}
	s.SuperviseeUpdateAccountEventTypeDirectives = map[string][]UpdateAccountEventTypeDirective{
		"acc-1": {update},
		"acc-2": {update},
	}
	assert.NoError(t, s.Validate(), "duplicates are tracked per supervisee")
}

func TestDerivedParameterHookResult(t *testing.T) {
	err := DerivedParameterHookResult{}.Validate()
	assert.ErrorIs(t, err, ErrStrongTyping)

	ok := DerivedParameterHookResult{ParametersReturnValue: ParameterValues{
		"balance":  decimal.NewFromInt(1),
		"opened":   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		"freq":     UnionItemValue{Key: "m"},
		"nickname": Some("main"),
		"count":    3,
	}}
	require.NoError(t, ok.Validate())

	err = DerivedParameterHookResult{ParametersReturnValue: ParameterValues{"bad": 1.5}}.Validate()
	require.Error(t, err)
	assert.Equal(t, "'parameters_return_value[bad]' has unsupported type float64", err.Error())
}

func TestPrePostingHookResult(t *testing.T) {
	assert.NoError(t, PrePostingHookResult{}.Validate())
	assert.NoError(t, PrePostingHookResult{Rejection: &Rejection{Message: "no", ReasonCode: RejectionReasonInsufficientFunds}}.Validate())
	assert.ErrorIs(t, PrePostingHookResult{Rejection: &Rejection{Message: "no", ReasonCode: "MAYBE"}}.Validate(), ErrStrongTyping)
	assert.ErrorIs(t, SupervisorPrePostingHookResult{Rejection: &Rejection{}}.Validate(), ErrInvalidSmartContract)
}

func TestHookArguments(t *testing.T) {
	err := ActivationHookArguments{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "'ActivationHookArguments.effective_datetime' expected datetime, got None", err.Error())

	now := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ActivationHookArguments{HookArguments{EffectiveDatetime: now}}.Validate())

	args := ScheduledEventHookArguments{HookArguments: HookArguments{EffectiveDatetime: now}}
	err = args.Validate()
	require.Error(t, err)
	assert.Equal(t, "'event_type' must be a non-empty string", err.Error())

	args.EventType = "ACCRUE"
	args.PauseAtDatetime = now.In(time.FixedZone("BST", 3600))
	err = args.Validate()
	require.Error(t, err)
	assert.Equal(t, "'pause_at_datetime' of ScheduledEventHookArguments must have timezone UTC, currently BST.", err.Error())

	pre := PrePostingHookArguments{
		HookArguments:       HookArguments{EffectiveDatetime: now},
		PostingInstructions: []PostingInstruction{{Type: "WIRE"}},
	}
	assert.ErrorIs(t, pre.Validate(), ErrStrongTyping)

	sup := SupervisorPostPostingHookArguments{
		HookArguments: HookArguments{EffectiveDatetime: now},
		SuperviseePostingInstructions: map[string][]PostingInstruction{
			"acc-1": {{Type: Transfer}},
		},
	}
	assert.NoError(t, sup.Validate())
}

func TestSupervision(t *testing.T) {
	err := SupervisedHooks{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "At least one hook supervision must be specified.", err.Error())
	assert.NoError(t, SupervisedHooks{PrePostingHook: SupervisionOverride}.Validate())

	err = SmartContractDescriptor{SmartContractVersionID: "v1"}.Validate()
	assert.ErrorIs(t, err, ErrStrongTyping)

	d := SmartContractDescriptor{Alias: "loan", SmartContractVersionID: "v1", SupervisedHooks: &SupervisedHooks{PrePostingHook: "SOMETIMES"}}
	assert.ErrorIs(t, d.Validate(), ErrStrongTyping)
}
