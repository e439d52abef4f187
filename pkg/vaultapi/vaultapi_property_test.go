//go:build property
// +build property

package vaultapi_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

// TestStrictVaultRejectsUndeclared verifies every surface rejects names it
// does not declare and keywords its methods do not accept.
func TestStrictVaultRejectsUndeclared(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	var vaults []*vaultapi.StrictVault
	for _, kind := range []vaultapi.Kind{vaultapi.KindContract, vaultapi.KindSupervisor} {
		for _, version := range vaultapi.Versions(kind) {
			v, err := vaultapi.NewStrictVault(kind, version)
			if err != nil {
				t.Fatalf("surface %s %s: %v", kind, version, err)
			}
			vaults = append(vaults, v)
		}
	}

	properties.Property("undeclared methods fail", prop.ForAll(
		func(idx int, name string) bool {
			v := vaults[idx]
			method := "undeclared_" + name
			_, err := v.Call(method, nil)
			return errors.Is(err, vaultapi.ErrUndeclaredMethod)
		},
		gen.IntRange(0, len(vaults)-1),
		gen.Identifier(),
	))

	properties.Property("unknown keywords fail", prop.ForAll(
		func(idx, methodIdx int, name string) bool {
			v := vaults[idx]
			methods := v.Spec().PublicMethods
			m := methods[methodIdx%len(methods)]
			_, err := v.Call(m.Name, map[string]any{"unknown_" + name: 1})
			return errors.Is(err, vaultapi.ErrBadArguments)
		},
		gen.IntRange(0, len(vaults)-1),
		gen.IntRange(0, 64),
		gen.Identifier(),
	))

	properties.Property("surfaces grow monotonically within 3.x", prop.ForAll(
		func(kindIdx, a, b int) bool {
			kind := []vaultapi.Kind{vaultapi.KindContract, vaultapi.KindSupervisor}[kindIdx]
			versions := vaultapi.Versions(kind)
			versions = versions[:len(versions)-1]
			lo, hi := versions[a%len(versions)], versions[b%len(versions)]
			if a%len(versions) > b%len(versions) {
				lo, hi = hi, lo
			}
			older, err1 := vaultapi.Surface(kind, lo)
			newer, err2 := vaultapi.Surface(kind, hi)
			if err1 != nil || err2 != nil {
				return false
			}
			for _, name := range older.MethodNames() {
				if _, ok := newer.Method(name); !ok {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 1),
		gen.IntRange(0, 64),
		gen.IntRange(0, 64),
	))

	properties.TestingRun(t)
}
