package vaultapi

import (
	"time"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
)

// Vault is the 4.0 contract surface. An empty fetcherID means the argument
// is not passed.
type Vault interface {
	AccountID() string
	Tside() contracts.Tside
	EventsTimezone() string

	// GetLastExecutionDatetime returns nil if the event type never ran.
	GetLastExecutionDatetime(eventType string) (*time.Time, error)
	GetPostingInstructions(fetcherID string) ([]contracts.PostingInstruction, error)
	GetClientTransactions(fetcherID string) (map[string]contracts.ClientTransaction, error)
	GetAccountCreationDatetime() (time.Time, error)
	GetBalancesTimeseries(fetcherID string) (map[contracts.BalanceCoordinate]contracts.BalanceTimeseries, error)
	GetHookExecutionID() (string, error)
	GetParameterTimeseries(name string) (contracts.ParameterTimeseries, error)
	GetFlagTimeseries(flag string) (contracts.FlagTimeseries, error)
	// GetHookResult is only meaningful for supervisee vaults.
	GetHookResult() (contracts.Validator, error)
	GetAlias() (string, error)
	GetPermittedDenominations() ([]string, error)
	GetCalendarEvents(calendarIDs []string) (contracts.CalendarEvents, error)
	GetBalancesObservation(fetcherID string) (contracts.BalancesObservation, error)
}

// SupervisorVault is the 4.0 supervisor surface.
type SupervisorVault interface {
	PlanID() string
	Supervisees() map[string]Vault

	GetPlanOpeningDatetime() (time.Time, error)
	GetHookExecutionID() (string, error)
	GetCalendarEvents(calendarIDs []string) (contracts.CalendarEvents, error)
}

func init() {
	contracts.Specs.Checker().Register("Vault", func(v any) bool {
		_, ok := v.(Vault)
		return ok
	})
}
