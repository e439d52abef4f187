// Package linters holds go/analysis checks for contract authoring
// conventions. Findings are reported as diagnostics; none abort the scan.
package linters

import (
	"go/ast"
	"go/token"
	"reflect"
	"strconv"

	"golang.org/x/tools/go/analysis"
)

const (
	ContractsPath = "github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	VaultAPIPath  = "github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

// FileType classifies a source file for the contract checks.
type FileType string

const (
	FileFeature            FileType = "FEATURE"
	FileContract           FileType = "CONTRACT"
	FileSupervisorContract FileType = "SUPERVISOR_CONTRACT"
	FileUnknown            FileType = "UNKNOWN"
)

// SupervisorTypes are the contracts names only supervisor contracts use.
var SupervisorTypes = map[string]bool{
	"SupervisorScheduledEventHookResult":    true,
	"SupervisorScheduledEventHookArguments": true,
	"SupervisorPrePostingHookResult":        true,
	"SupervisorPrePostingHookArguments":     true,
	"SupervisorPostPostingHookResult":       true,
	"SupervisorPostPostingHookArguments":    true,
	"SupervisorConversionHookResult":        true,
	"SupervisorConversionHookArguments":     true,
	"SupervisorActivationHookResult":        true,
	"SupervisorActivationHookArguments":     true,
	"SupervisorContractEventType":           true,
	"SupervisedHooks":                       true,
	"UpdatePlanEventTypeDirective":          true,
}

// contractsName returns the local name of the contracts import in f.
func contractsName(f *ast.File) (string, bool) {
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != ContractsPath {
			continue
		}
		if spec.Name != nil {
			return spec.Name.Name, true
		}
		return "contracts", true
	}
	return "", false
}

// Classify determines the file type of f. A file declaring
// SupervisedSmartContracts is a supervisor even before it references any
// supervisor-only type; a supervisor with neither is classified as a
// contract.
func Classify(f *ast.File) FileType {
	local, ok := contractsName(f)
	if !ok {
		return FileUnknown
	}
	if !declares(f, "API") {
		return FileFeature
	}
	supervisor := declares(f, "SupervisedSmartContracts")
	ast.Inspect(f, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if x, ok := sel.X.(*ast.Ident); ok && x.Name == local && SupervisorTypes[sel.Sel.Name] {
				supervisor = true
			}
		}
		return !supervisor
	})
	if supervisor {
		return FileSupervisorContract
	}
	return FileContract
}

// declares reports whether f has a package-level const or var named name.
func declares(f *ast.File, name string) bool {
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || (gd.Tok != token.CONST && gd.Tok != token.VAR) {
			continue
		}
		for _, s := range gd.Specs {
			for _, n := range s.(*ast.ValueSpec).Names {
				if n.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// FileTypes maps each file of a package to its type.
type FileTypes map[*ast.File]FileType

// Classifier is the shared classification every check depends on.
var Classifier = &analysis.Analyzer{
	Name:       "contractfiletype",
	Doc:        "classify files as contract, supervisor contract, feature or unknown",
	Run:        runClassifier,
	ResultType: reflect.TypeOf(FileTypes(nil)),
}

func runClassifier(pass *analysis.Pass) (any, error) {
	out := FileTypes{}
	for _, f := range pass.Files {
		out[f] = Classify(f)
	}
	return out, nil
}

// filesOf returns the files of the requested types, or every contract
// related file when none are given.
func filesOf(pass *analysis.Pass, want ...FileType) []*ast.File {
	fileTypes := pass.ResultOf[Classifier].(FileTypes)
	var out []*ast.File
	for _, f := range pass.Files {
		ft := fileTypes[f]
		if ft == FileUnknown {
			continue
		}
		if len(want) == 0 {
			out = append(out, f)
			continue
		}
		for _, w := range want {
			if ft == w {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
