package ctr003

import (
	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

const API = "4.0.0"

func ActivationHook(vault vaultapi.Vault, hookArguments contracts.ActivationHookArguments) *contracts.ActivationHookResult {
	return &contracts.ActivationHookResult{PostingInstructionsDirectives: nil}
}

func PrePostingHook(v vaultapi.Vault, args contracts.PrePostingHookArguments) *contracts.PrePostingHookResult { // want `CTR003 Typehints should be used for hooks - arguments should be 'vault vaultapi\.Vault, hookArguments contracts\.PrePostingHookArguments'`
	return nil
}

func DerivedParameterHook(vault vaultapi.Vault, hookArguments contracts.DerivedParameterHookArguments) *contracts.DerivedParameterHookResult { // want `CTR003 Typehints should be used for hooks - return type should be 'contracts\.DerivedParameterHookResult'`
	return nil
}

func ScheduledEventHook() { // want `arguments should be 'vault vaultapi\.Vault, hookArguments contracts\.ScheduledEventHookArguments'` `return type should be '\*contracts\.ScheduledEventHookResult'`
}

func helper(vault vaultapi.Vault) string { return "" }
