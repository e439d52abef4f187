package ctr006

import (
	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

const API = "4.0.0"

const ParamLimit = "limit"

func ActivationHook(vault vaultapi.Vault, hookArguments contracts.ActivationHookArguments) *contracts.ActivationHookResult {
	_, _ = vault.GetParameterTimeseries(ParamLimit)
	_, _ = vault.GetParameterTimeseries("limit") // want `CTR006 Use a parameter name constant when fetching parameter timeseries`
	return nil
}
