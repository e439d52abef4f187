package linters

import (
	"go/ast"
	"go/types"
	"strings"
)

// HookSignature is the expected parameter list and result of a hook.
type HookSignature struct {
	Arguments string
	Result    string
}

func contractHook(name string, pointer bool) HookSignature {
	result := "contracts." + name + "Result"
	if pointer {
		result = "*" + result
	}
	return HookSignature{
		Arguments: "vault vaultapi.Vault, hookArguments contracts." + name + "Arguments",
		Result:    result,
	}
}

func supervisorHook(name string) HookSignature {
	return HookSignature{
		Arguments: "vault vaultapi.SupervisorVault, hookArguments contracts.Supervisor" + name + "Arguments",
		Result:    "*contracts.Supervisor" + name + "Result",
	}
}

// ContractHooks are the hooks of a smart contract. DerivedParameterHook
// always returns a result.
var ContractHooks = map[string]HookSignature{
	"ActivationHook":          contractHook("ActivationHook", true),
	"ConversionHook":          contractHook("ConversionHook", true),
	"DeactivationHook":        contractHook("DeactivationHook", true),
	"DerivedParameterHook":    contractHook("DerivedParameterHook", false),
	"PostParameterChangeHook": contractHook("PostParameterChangeHook", true),
	"PostPostingHook":         contractHook("PostPostingHook", true),
	"PreParameterChangeHook":  contractHook("PreParameterChangeHook", true),
	"PrePostingHook":          contractHook("PrePostingHook", true),
	"ScheduledEventHook":      contractHook("ScheduledEventHook", true),
}

// SupervisorHooks are the hooks of a supervisor contract.
var SupervisorHooks = map[string]HookSignature{
	"ActivationHook":     supervisorHook("ActivationHook"),
	"ConversionHook":     supervisorHook("ConversionHook"),
	"PostPostingHook":    supervisorHook("PostPostingHook"),
	"PrePostingHook":     supervisorHook("PrePostingHook"),
	"ScheduledEventHook": supervisorHook("ScheduledEventHook"),
}

// hooksFor returns the hook table for a file type. Feature files have none.
func hooksFor(ft FileType) map[string]HookSignature {
	switch ft {
	case FileContract:
		return ContractHooks
	case FileSupervisorContract:
		return SupervisorHooks
	}
	return nil
}

// hookDecl returns the signature of fd if it is a hook of the file type.
func hookDecl(fd *ast.FuncDecl, ft FileType) (HookSignature, bool) {
	if fd.Recv != nil {
		return HookSignature{}, false
	}
	sig, ok := hooksFor(ft)[fd.Name.Name]
	return sig, ok
}

func formatParams(fl *ast.FieldList) string {
	if fl == nil {
		return ""
	}
	var parts []string
	for _, field := range fl.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, typ)
			continue
		}
		for _, n := range field.Names {
			parts = append(parts, n.Name+" "+typ)
		}
	}
	return strings.Join(parts, ", ")
}

func formatResults(fl *ast.FieldList) string {
	if fl == nil || len(fl.List) == 0 {
		return ""
	}
	if len(fl.List) == 1 && len(fl.List[0].Names) == 0 {
		return types.ExprString(fl.List[0].Type)
	}
	return "(" + formatParams(fl) + ")"
}
