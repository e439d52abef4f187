// Command contractlint runs the contract authoring checks over Go packages.
//
//	contractlint ./library/...
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/Mindburn-Labs/vaultsdk/pkg/linters"
)

func main() {
	multichecker.Main(linters.Analyzers()...)
}
