package vaultapi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
)

func TestVersions(t *testing.T) {
	assert.Len(t, Versions(KindContract), 14)
	assert.Equal(t, "3.4.0", Versions(KindSupervisor)[0])
	assert.Equal(t, "4.0.0", Latest(KindContract))
	assert.Empty(t, Versions(Kind("plan")))
}

func TestSurface_Contract(t *testing.T) {
	v30, err := Surface(KindContract, "3.0.0")
	require.NoError(t, err)
	assert.Equal(t, ClassName, v30.Name)
	_, ok := v30.Method("localize_datetime")
	assert.False(t, ok)
	getPostings, ok := v30.Method("get_postings")
	require.True(t, ok)
	assert.Equal(t, []string{"include_proposed"}, getPostings.ArgNames())

	v33, err := Surface(KindContract, "3.3")
	require.NoError(t, err)
	_, ok = v33.Method("localize_datetime")
	assert.True(t, ok)
	amend, _ := v33.Method("amend_schedule")
	assert.Contains(t, amend.Docstring, "Deprecated")

	v37, err := Surface(KindContract, "3.7.0")
	require.NoError(t, err)
	transfer, ok := v37.Method("make_internal_transfer_instructions")
	require.True(t, ok)
	assert.Contains(t, transfer.ArgNames(), "transaction_code")
	assert.NotContains(t, transfer.ArgNames(), "custom_instruction_grouping_key")

	v310, err := Surface(KindContract, "v3.10.0")
	require.NoError(t, err)
	getPostings, _ = v310.Method("get_postings")
	assert.Equal(t, []string{"fetcher_id", "include_proposed"}, getPostings.ArgNames())
	update, _ := v310.Method("update_event_type")
	assert.Contains(t, update.ArgNames(), "schedule_method")

	v311, err := Surface(KindContract, "3.11.0")
	require.NoError(t, err)
	assert.Equal(t, v310.MethodNames(), v311.MethodNames(), "3.11 adds nothing")

	v40, err := Surface(KindContract, "4.0.0")
	require.NoError(t, err)
	_, ok = v40.Method("get_postings")
	assert.False(t, ok, "4.0 starts over")
	_, ok = v40.Method("get_posting_instructions")
	assert.True(t, ok)
	_, ok = v40.Attribute("events_timezone")
	assert.True(t, ok)
	assert.Len(t, v40.PublicAttributes, 3)
}

func TestSurface_Supervisor(t *testing.T) {
	_, err := Surface(KindSupervisor, "3.3.0")
	assert.ErrorIs(t, err, ErrUnknownVersion)

	v312, err := Surface(KindSupervisor, "3.12.0")
	require.NoError(t, err)
	_, ok := v312.Method("get_posting_instructions_by_supervisee")
	assert.True(t, ok)

	v40, err := Surface(KindSupervisor, "4.0.0")
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"get_plan_opening_datetime", "get_hook_execution_id", "get_calendar_events"},
		v40.MethodNames())
}

func TestSurface_UnknownVersion(t *testing.T) {
	for _, v := range []string{"2.0.0", "3.13.0", "banana"} {
		_, err := Surface(KindContract, v)
		assert.ErrorIs(t, err, ErrUnknownVersion, v)
	}
}

func TestStrictVault_Undeclared(t *testing.T) {
	v, err := NewStrictVault(KindContract, "4.0.0")
	require.NoError(t, err)

	_, err = v.Call("get_postings", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndeclaredMethod)
	assert.Equal(t, "'VaultFunctions' object has no attribute 'get_postings'", err.Error())

	assert.ErrorIs(t, v.On("amend_schedule", nil), ErrUndeclaredMethod)
	assert.ErrorIs(t, v.SetAttr("plan_id", "p"), ErrUndeclaredMethod)
	_, err = v.Attr("plan_id")
	assert.ErrorIs(t, err, ErrUndeclaredMethod)
}

func TestStrictVault_BadArguments(t *testing.T) {
	v, err := NewStrictVault(KindContract, "4.0.0")
	require.NoError(t, err)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			"unexpected",
			map[string]any{"event_type": "ACCRUE", "effective_date": time.Now()},
			"get_last_execution_datetime() got an unexpected keyword argument 'effective_date'",
		},
		{
			"missing",
			map[string]any{},
			"get_last_execution_datetime() missing 1 required argument(s): 'event_type'",
		},
		{
			"mistyped",
			map[string]any{"event_type": 1},
			"VaultFunctions.get_last_execution_datetime arg 'event_type' expected str but got value 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Call("get_last_execution_datetime", tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadArguments)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	_, err = v.Call("get_posting_instructions", map[string]any{})
	assert.ErrorIs(t, err, ErrNotStubbed, "optional arguments may be omitted")
}

func TestStrictVault_Stubs(t *testing.T) {
	v, err := NewStrictVault(KindContract, "3.0.0")
	require.NoError(t, err)

	out, err := v.Call("add_account_note", map[string]any{
		"body":                   "hello",
		"note_type":              "RAW_TEXT",
		"is_visible_to_customer": true,
		"date":                   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Nil(t, out, "methods without a return value need no stub")

	_, err = v.Call("get_hook_execution_id", nil)
	assert.ErrorIs(t, err, ErrNotStubbed)

	require.NoError(t, v.On("get_parameter_timeseries", func(args map[string]any) (any, error) {
		if args["name"] != "rate" {
			return nil, errors.New("unexpected parameter")
		}
		return "ok", nil
	}))
	got, err := v.Call("get_parameter_timeseries", map[string]any{"name": "rate"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	calls := v.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "add_account_note", calls[0].Method)
	assert.Equal(t, "rate", calls[2].Args["name"])
}

func TestStrictVault_ContractAdapter(t *testing.T) {
	v, err := NewStrictVault(KindContract, "4.0.0")
	require.NoError(t, err)
	require.NoError(t, v.SetAttr("account_id", "acc-1"))
	require.NoError(t, v.SetAttr("tside", contracts.TsideLiability))
	assert.ErrorIs(t, v.SetAttr("tside", "LIABILITY_SIDE"), ErrBadArguments)

	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, v.Returns("get_account_creation_datetime", created))
	require.NoError(t, v.Returns("get_alias", "current_account"))
	require.NoError(t, v.Returns("get_last_execution_datetime", nil))
	require.NoError(t, v.Returns("get_permitted_denominations", 42))

	vault := v.Contract()
	assert.Equal(t, "acc-1", vault.AccountID())
	assert.Equal(t, contracts.TsideLiability, vault.Tside())
	assert.Empty(t, vault.EventsTimezone())

	got, err := vault.GetAccountCreationDatetime()
	require.NoError(t, err)
	assert.Equal(t, created, got)

	alias, err := vault.GetAlias()
	require.NoError(t, err)
	assert.Equal(t, "current_account", alias)

	last, err := vault.GetLastExecutionDatetime("ACCRUE")
	require.NoError(t, err)
	assert.Nil(t, last)

	_, err = vault.GetPermittedDenominations()
	assert.Error(t, err, "mistyped stub results are reported")

	_, err = vault.GetPostingInstructions("")
	assert.ErrorIs(t, err, ErrNotStubbed)
	calls := v.Calls()
	assert.Empty(t, calls[len(calls)-1].Args, "empty fetcher id is not passed")
}

func TestStrictVault_SupervisorAdapter(t *testing.T) {
	supervisee, err := NewStrictVault(KindContract, "4.0.0")
	require.NoError(t, err)
	require.NoError(t, supervisee.SetAttr("account_id", "acc-1"))

	plan, err := NewStrictVault(KindSupervisor, "4.0.0")
	require.NoError(t, err)
	require.NoError(t, plan.SetAttr("plan_id", "plan-1"))
	require.NoError(t, plan.SetAttr("supervisees", map[string]Vault{"acc-1": supervisee.Contract()}))
	assert.ErrorIs(t, plan.SetAttr("supervisees", map[string]string{"acc-1": "x"}), ErrBadArguments)

	sv := plan.Supervisor()
	assert.Equal(t, "plan-1", sv.PlanID())
	require.Contains(t, sv.Supervisees(), "acc-1")
	assert.Equal(t, "acc-1", sv.Supervisees()["acc-1"].AccountID())

	_, err = plan.Call("get_calendar_events", map[string]any{"calendar_ids": []int{1}})
	assert.ErrorIs(t, err, ErrBadArguments)
}

func TestMockVault(t *testing.T) {
	m := new(MockVault)
	m.On("GetAlias").Return("savings", nil)
	m.On("GetCalendarEvents", mock.Anything).Return(contracts.CalendarEvents{{ID: "xmas"}}, nil)
	m.On("GetLastExecutionDatetime", "ACCRUE").Return(nil, nil)

	var vault Vault = m
	alias, err := vault.GetAlias()
	require.NoError(t, err)
	assert.Equal(t, "savings", alias)

	evs, err := vault.GetCalendarEvents([]string{"UK"})
	require.NoError(t, err)
	assert.Equal(t, "xmas", evs[0].ID)

	last, err := vault.GetLastExecutionDatetime("ACCRUE")
	require.NoError(t, err)
	assert.Nil(t, last)

	m.AssertExpectations(t)
}
