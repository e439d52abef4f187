package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/manifest"
)

// runManifestCmd implements `vaultctl manifest`. Positional arguments are
// resource files; their resources are listed with payload fingerprints.
func runManifestCmd(args []string, stdout, stderr io.Writer) int {
	fs, level := newFlagSet("manifest", stderr)

	var filter string
	fs.StringVar(&filter, "filter", "", "CEL expression over resource.id, resource.type, resource.vault_id and resource.instantiation_resources")

	files, code, ok := parseFlags(fs, args, flagutil.Options{Positional: true}, stderr)
	if !ok {
		return code
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(stderr, "Usage: vaultctl manifest [--filter <expr>] <resource file>...")
		return 2
	}
	setupLogging(stderr, level)

	var resources []manifest.Resource
	for _, path := range files {
		rf, err := manifest.LoadResources(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		resources = append(resources, rf.Resources...)
	}
	if filter != "" {
		var err error
		if resources, err = manifest.Filter(resources, filter); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tFINGERPRINT")
	for _, r := range resources {
		fp, err := manifest.Fingerprint(r)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %s: %v\n", r.ID, err)
			return 1
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Type, fp)
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
