package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Mindburn-Labs/vaultsdk/pkg/contracts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/typespec"
	"github.com/Mindburn-Labs/vaultsdk/pkg/vaultapi"
)

// specRegistry copies the contracts registry and adds the Vault surface of
// kind at version.
func specRegistry(kind vaultapi.Kind, version string) (*typespec.Registry, error) {
	surface, err := vaultapi.Surface(kind, version)
	if err != nil {
		return nil, err
	}
	reg := typespec.NewRegistry()
	for _, c := range contracts.Specs.Classes() {
		reg.RegisterClass(c, nil)
	}
	for _, e := range contracts.Specs.Enums() {
		reg.RegisterEnum(e, nil)
	}
	for _, e := range contracts.Specs.Exceptions() {
		reg.RegisterException(e)
	}
	reg.RegisterClass(surface, nil)
	return reg, nil
}

// runSpecCmd implements `vaultctl spec`.
func runSpecCmd(args []string, stdout, stderr io.Writer) int {
	fs, level := newFlagSet("spec", stderr)

	var kind, version, format, output string
	fs.StringVar(&kind, "kind", string(vaultapi.KindContract), "Vault surface to document: contract or supervisor")
	fs.StringVar(&version, "version", "", "API version, the latest when empty")
	fs.StringVar(&format, "format", typespec.FormatYAML, "Output format: yaml, json or md")
	fs.StringVar(&output, "output_filepath", "", "Write to this path instead of stdout")

	if _, code, ok := parseFlags(fs, args, flagutil.Options{}, stderr); !ok {
		return code
	}
	setupLogging(stderr, level)

	k := vaultapi.Kind(kind)
	if k != vaultapi.KindContract && k != vaultapi.KindSupervisor {
		_, _ = fmt.Fprintf(stderr, "Error: unknown kind %q\n", kind)
		return 2
	}
	if version == "" {
		version = vaultapi.Latest(k)
	}
	reg, err := specRegistry(k, version)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		w = f
	}
	if err := reg.Export(w, version, format); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
