package ctr003supervisor

import (
	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

const API = "4.0.0"

func ActivationHook(vault vaultapi.SupervisorVault, hookArguments contracts.SupervisorActivationHookArguments) *contracts.SupervisorActivationHookResult {
	return &contracts.SupervisorActivationHookResult{}
}

func PrePostingHook(vault vaultapi.Vault, hookArguments contracts.PrePostingHookArguments) *contracts.PrePostingHookResult { // want `arguments should be 'vault vaultapi\.SupervisorVault, hookArguments contracts\.SupervisorPrePostingHookArguments'` `return type should be '\*contracts\.SupervisorPrePostingHookResult'`
	return nil
}

func DeactivationHook() {}
