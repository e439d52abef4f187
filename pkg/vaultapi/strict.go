package vaultapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/typespec"
)

// Handler answers a stubbed call.
type Handler func(args map[string]any) (any, error)

// Call records one invocation made through a StrictVault.
type Call struct {
	Method string
	Args   map[string]any
}

// StrictVault is a test double that only accepts what a surface declares.
// Undeclared methods and attributes fail with ErrUndeclaredMethod, calls
// with unexpected, missing or mistyped arguments fail with ErrBadArguments.
// It is safe for concurrent use.
type StrictVault struct {
	spec    typespec.ClassSpec
	checker *typespec.TypeChecker

	mu    sync.Mutex
	stubs map[string]Handler
	attrs map[string]any
	calls []Call
}

// NewStrictVault builds a StrictVault for the surface of kind at version.
func NewStrictVault(kind Kind, version string) (*StrictVault, error) {
	spec, err := Surface(kind, version)
	if err != nil {
		return nil, err
	}
	return NewStrictVaultFromSpec(spec), nil
}

// NewStrictVaultFromSpec builds a StrictVault over an arbitrary class spec.
func NewStrictVaultFromSpec(spec typespec.ClassSpec) *StrictVault {
	return &StrictVault{
		spec:    spec,
		checker: contracts.Specs.Checker(),
		stubs:   make(map[string]Handler),
		attrs:   make(map[string]any),
	}
}

// Spec returns the surface the vault enforces.
func (v *StrictVault) Spec() typespec.ClassSpec {
	return v.spec
}

// On registers fn as the stub for method.
func (v *StrictVault) On(method string, fn Handler) error {
	if _, ok := v.spec.Method(method); !ok {
		return v.noAttribute(method)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stubs[method] = fn
	return nil
}

// Returns stubs method with a constant result.
func (v *StrictVault) Returns(method string, result any) error {
	return v.On(method, func(map[string]any) (any, error) { return result, nil })
}

// Call invokes method with keyword arguments.
func (v *StrictVault) Call(method string, args map[string]any) (any, error) {
	m, ok := v.spec.Method(method)
	if !ok {
		return nil, v.noAttribute(method)
	}
	if err := v.checkArgs(m, args); err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.calls = append(v.calls, Call{Method: method, Args: args})
	fn := v.stubs[method]
	v.mu.Unlock()

	if fn == nil {
		if m.ReturnValue == nil {
			return nil, nil
		}
		return nil, &Error{Code: ErrCodeNotStubbed, Message: fmt.Sprintf("%s.%s() has no stub", v.spec.Name, method)}
	}
	return fn(args)
}

// Calls returns the calls made so far, in order.
func (v *StrictVault) Calls() []Call {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Call(nil), v.calls...)
}

// SetAttr assigns a declared attribute.
func (v *StrictVault) SetAttr(name string, value any) error {
	if _, ok := v.spec.Attribute(name); !ok {
		return v.noAttribute(name)
	}
	if err := v.spec.AssertAttributeValue(v.checker, name, value); err != nil {
		return &Error{Code: ErrCodeBadArguments, Message: err.Error()}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attrs[name] = value
	return nil
}

// Attr reads a declared attribute. Unset attributes read as nil.
func (v *StrictVault) Attr(name string) (any, error) {
	if _, ok := v.spec.Attribute(name); !ok {
		return nil, v.noAttribute(name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attrs[name], nil
}

func (v *StrictVault) checkArgs(m typespec.MethodSpec, args map[string]any) error {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := m.Arg(name); !ok {
			return &Error{
				Code:    ErrCodeBadArguments,
				Message: fmt.Sprintf("%s() got an unexpected keyword argument '%s'", m.Name, name),
			}
		}
	}

	var missing []string
	for _, a := range m.Args {
		if _, ok := args[a.Name]; !ok && !strings.HasPrefix(a.Type, "Optional[") {
			missing = append(missing, "'"+a.Name+"'")
		}
	}
	if len(missing) > 0 {
		return &Error{
			Code: ErrCodeBadArguments,
			Message: fmt.Sprintf("%s() missing %d required argument(s): %s",
				m.Name, len(missing), strings.Join(missing, ", ")),
		}
	}

	if err := m.AssertArgs(v.checker, v.spec.Name, args); err != nil {
		return &Error{Code: ErrCodeBadArguments, Message: err.Error()}
	}
	return nil
}

func (v *StrictVault) noAttribute(name string) error {
	return &Error{
		Code:    ErrCodeUndeclaredMethod,
		Message: fmt.Sprintf("'%s' object has no attribute '%s'", v.spec.Name, name),
	}
}

// Contract adapts the vault to the typed 4.0 contract interface.
func (v *StrictVault) Contract() Vault {
	return contractVault{v}
}

// Supervisor adapts the vault to the typed 4.0 supervisor interface.
func (v *StrictVault) Supervisor() SupervisorVault {
	return supervisorVault{v}
}

func typedCall[T any](v *StrictVault, method string, args map[string]any) (T, error) {
	var zero T
	out, err := v.Call(method, args)
	if err != nil || out == nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("vaultapi: stub for %s returned %T, want %T", method, out, zero)
	}
	return t, nil
}

func typedAttr[T any](v *StrictVault, name string) T {
	var zero T
	out, err := v.Attr(name)
	if err != nil || out == nil {
		return zero
	}
	t, _ := out.(T)
	return t
}

func fetcherArgs(fetcherID string) map[string]any {
	if fetcherID == "" {
		return map[string]any{}
	}
	return map[string]any{"fetcher_id": fetcherID}
}

type contractVault struct{ v *StrictVault }

func (c contractVault) AccountID() string      { return typedAttr[string](c.v, "account_id") }
func (c contractVault) Tside() contracts.Tside { return typedAttr[contracts.Tside](c.v, "tside") }
func (c contractVault) EventsTimezone() string { return typedAttr[string](c.v, "events_timezone") }

func (c contractVault) GetLastExecutionDatetime(eventType string) (*time.Time, error) {
	out, err := c.v.Call("get_last_execution_datetime", map[string]any{"event_type": eventType})
	if err != nil {
		return nil, err
	}
	switch t := out.(type) {
	case time.Time:
		return &t, nil
	case *time.Time:
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("vaultapi: stub for get_last_execution_datetime returned %T", out)
}

func (c contractVault) GetPostingInstructions(fetcherID string) ([]contracts.PostingInstruction, error) {
	return typedCall[[]contracts.PostingInstruction](c.v, "get_posting_instructions", fetcherArgs(fetcherID))
}

func (c contractVault) GetClientTransactions(fetcherID string) (map[string]contracts.ClientTransaction, error) {
	return typedCall[map[string]contracts.ClientTransaction](c.v, "get_client_transactions", fetcherArgs(fetcherID))
}

func (c contractVault) GetAccountCreationDatetime() (time.Time, error) {
	return typedCall[time.Time](c.v, "get_account_creation_datetime", nil)
}

func (c contractVault) GetBalancesTimeseries(fetcherID string) (map[contracts.BalanceCoordinate]contracts.BalanceTimeseries, error) {
	return typedCall[map[contracts.BalanceCoordinate]contracts.BalanceTimeseries](c.v, "get_balances_timeseries", fetcherArgs(fetcherID))
}

func (c contractVault) GetHookExecutionID() (string, error) {
	return typedCall[string](c.v, "get_hook_execution_id", nil)
}

func (c contractVault) GetParameterTimeseries(name string) (contracts.ParameterTimeseries, error) {
	return typedCall[contracts.ParameterTimeseries](c.v, "get_parameter_timeseries", map[string]any{"name": name})
}

func (c contractVault) GetFlagTimeseries(flag string) (contracts.FlagTimeseries, error) {
	return typedCall[contracts.FlagTimeseries](c.v, "get_flag_timeseries", map[string]any{"flag": flag})
}

func (c contractVault) GetHookResult() (contracts.Validator, error) {
	return typedCall[contracts.Validator](c.v, "get_hook_result", nil)
}

func (c contractVault) GetAlias() (string, error) {
	return typedCall[string](c.v, "get_alias", nil)
}

func (c contractVault) GetPermittedDenominations() ([]string, error) {
	return typedCall[[]string](c.v, "get_permitted_denominations", nil)
}

func (c contractVault) GetCalendarEvents(calendarIDs []string) (contracts.CalendarEvents, error) {
	return typedCall[contracts.CalendarEvents](c.v, "get_calendar_events", map[string]any{"calendar_ids": calendarIDs})
}

func (c contractVault) GetBalancesObservation(fetcherID string) (contracts.BalancesObservation, error) {
	return typedCall[contracts.BalancesObservation](c.v, "get_balances_observation", map[string]any{"fetcher_id": fetcherID})
}

type supervisorVault struct{ v *StrictVault }

func (s supervisorVault) PlanID() string { return typedAttr[string](s.v, "plan_id") }

func (s supervisorVault) Supervisees() map[string]Vault {
	return typedAttr[map[string]Vault](s.v, "supervisees")
}

func (s supervisorVault) GetPlanOpeningDatetime() (time.Time, error) {
	return typedCall[time.Time](s.v, "get_plan_opening_datetime", nil)
}

func (s supervisorVault) GetHookExecutionID() (string, error) {
	return typedCall[string](s.v, "get_hook_execution_id", nil)
}

func (s supervisorVault) GetCalendarEvents(calendarIDs []string) (contracts.CalendarEvents, error) {
	return typedCall[contracts.CalendarEvents](s.v, "get_calendar_events", map[string]any{"calendar_ids": calendarIDs})
}
