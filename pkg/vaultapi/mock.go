package vaultapi

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
)

// MockVault is a testify mock of Vault. Unlike StrictVault it does not check
// calls against a surface; it only checks expectations.
type MockVault struct {
	mock.Mock
}

var _ Vault = (*MockVault)(nil)

func (m *MockVault) AccountID() string {
	return m.Called().String(0)
}

func (m *MockVault) Tside() contracts.Tside {
	return m.Called().Get(0).(contracts.Tside)
}

func (m *MockVault) EventsTimezone() string {
	return m.Called().String(0)
}

func (m *MockVault) GetLastExecutionDatetime(eventType string) (*time.Time, error) {
	args := m.Called(eventType)
	t, _ := args.Get(0).(*time.Time)
	return t, args.Error(1)
}

func (m *MockVault) GetPostingInstructions(fetcherID string) ([]contracts.PostingInstruction, error) {
	args := m.Called(fetcherID)
	pis, _ := args.Get(0).([]contracts.PostingInstruction)
	return pis, args.Error(1)
}

func (m *MockVault) GetClientTransactions(fetcherID string) (map[string]contracts.ClientTransaction, error) {
	args := m.Called(fetcherID)
	cts, _ := args.Get(0).(map[string]contracts.ClientTransaction)
	return cts, args.Error(1)
}

func (m *MockVault) GetAccountCreationDatetime() (time.Time, error) {
	args := m.Called()
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockVault) GetBalancesTimeseries(fetcherID string) (map[contracts.BalanceCoordinate]contracts.BalanceTimeseries, error) {
	args := m.Called(fetcherID)
	ts, _ := args.Get(0).(map[contracts.BalanceCoordinate]contracts.BalanceTimeseries)
	return ts, args.Error(1)
}

func (m *MockVault) GetHookExecutionID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockVault) GetParameterTimeseries(name string) (contracts.ParameterTimeseries, error) {
	args := m.Called(name)
	ts, _ := args.Get(0).(contracts.ParameterTimeseries)
	return ts, args.Error(1)
}

func (m *MockVault) GetFlagTimeseries(flag string) (contracts.FlagTimeseries, error) {
	args := m.Called(flag)
	ts, _ := args.Get(0).(contracts.FlagTimeseries)
	return ts, args.Error(1)
}

func (m *MockVault) GetHookResult() (contracts.Validator, error) {
	args := m.Called()
	r, _ := args.Get(0).(contracts.Validator)
	return r, args.Error(1)
}

func (m *MockVault) GetAlias() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockVault) GetPermittedDenominations() ([]string, error) {
	args := m.Called()
	ds, _ := args.Get(0).([]string)
	return ds, args.Error(1)
}

func (m *MockVault) GetCalendarEvents(calendarIDs []string) (contracts.CalendarEvents, error) {
	args := m.Called(calendarIDs)
	evs, _ := args.Get(0).(contracts.CalendarEvents)
	return evs, args.Error(1)
}

func (m *MockVault) GetBalancesObservation(fetcherID string) (contracts.BalancesObservation, error) {
	args := m.Called(fetcherID)
	obs, _ := args.Get(0).(contracts.BalancesObservation)
	return obs, args.Error(1)
}
