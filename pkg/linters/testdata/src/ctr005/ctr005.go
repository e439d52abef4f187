package ctr005

import (
	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

const API = "4.0.0"

func ActivationHook(vault vaultapi.Vault, hookArguments contracts.ActivationHookArguments) *contracts.ActivationHookResult { // want `CTR005 Hooks should not be empty`
	return nil
}

func PrePostingHook(vault vaultapi.Vault, hookArguments contracts.PrePostingHookArguments) *contracts.PrePostingHookResult { // want `CTR005`
	return &contracts.PrePostingHookResult{}
}

func DeactivationHook(vault vaultapi.Vault, hookArguments contracts.DeactivationHookArguments) { // want `CTR005`
}

func PostPostingHook(vault vaultapi.Vault, hookArguments contracts.PostPostingHookArguments) *contracts.PostPostingHookResult {
	if hookArguments.EffectiveDatetime.IsZero() {
		return nil
	}
	return &contracts.PostPostingHookResult{}
}

func helper() *contracts.ScheduledEventHookResult { return nil }
