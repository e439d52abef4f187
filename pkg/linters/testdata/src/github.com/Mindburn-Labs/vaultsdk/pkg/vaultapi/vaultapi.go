package vaultapi

type Vault interface {
	GetParameterTimeseries(name string) (any, error)
}

type SupervisorVault interface {
	PlanID() string
}
