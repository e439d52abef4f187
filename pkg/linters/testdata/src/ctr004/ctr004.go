package ctr004

import (
	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

const API = "4.0.0"

func ActivationHook(vault vaultapi.Vault, hookArguments contracts.ActivationHookArguments) *contracts.ActivationHookResult {
	return nil
}

func typed(a int) string { return "" }

func untyped(a any, b interface{}) string { // want `CTR004 Typehints should be used for helper methods$` `CTR004 Typehints should be used for helper methods$`
	return ""
}

func result() any { // want `CTR004 Typehints should be used for helper methods - please include return type`
	return nil
}

func variadic(xs ...any) {} // want `CTR004 Typehints should be used for helper methods$`

func generic[T any](v T) T { return v }
