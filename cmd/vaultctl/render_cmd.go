package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Mindburn-Labs/vaultsdk/pkg/artifacts"
	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/gitsource"
	"github.com/Mindburn-Labs/vaultsdk/pkg/renderer"
)

// runRenderCmd implements `vaultctl render`.
//
// Exit codes:
//
//	0 = rendered, or overwrite declined
//	1 = render failed
//	2 = usage error
func runRenderCmd(args []string, stdout, stderr io.Writer) int {
	fs, level := newFlagSet("render", stderr)

	var (
		input, output, gitRoot, algorithm    string
		useGit, fullPaths, force, formatting bool
		publish                              bool
	)
	fs.StringVar(&input, "input_template", "", "Path to the contract template (REQUIRED)")
	fs.StringVar(&output, "output_filepath", "", "Path to write the rendered contract to (REQUIRED)")
	fs.StringVar(&input, "in", "", "Shorthand for --input_template")
	fs.StringVar(&output, "out", "", "Shorthand for --output_filepath")
	fs.BoolVar(&useGit, "use_git", true, "Include the git commit of each file in headers")
	fs.BoolVar(&fullPaths, "use_full_filepath_in_headers", true, "Use relative paths instead of base names in headers")
	fs.BoolVar(&force, "force", false, "Overwrite the output file without asking")
	fs.BoolVar(&formatting, "apply_formatting", true, "Format the rendered output")
	fs.StringVar(&gitRoot, "git_repo_root", "", "Repository root, discovered from the template when empty")
	fs.StringVar(&algorithm, "hashing_algorithm", gitsource.DefaultAlgorithm, "Algorithm used for file checksums in headers")
	fs.BoolVar(&publish, "publish", false, "Store the rendered file in the artifact store")

	if _, code, ok := parseFlags(fs, args, flagutil.Options{}, stderr); !ok {
		return code
	}
	if err := flagutil.Required(fs, "input_template", "output_filepath"); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if err := flagutil.ApplyModifiers(fs, map[string]func(string) string{
		"input_template":  flagutil.AbsPath,
		"output_filepath": flagutil.AbsPath,
		"git_repo_root":   flagutil.AbsPath,
	}); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	setupLogging(stderr, level)
	logger := slog.Default().With("component", "render")

	if info, err := os.Stat(input); err != nil || info.IsDir() {
		_, _ = fmt.Fprintf(stderr, "Error: Input filepath '%s' could not be found\n", input)
		return 1
	}
	if info, err := os.Stat(output); err == nil {
		if !info.Mode().IsRegular() {
			_, _ = fmt.Fprintf(stderr, "Error: invalid filepath: '%s' is not a file\n", output)
			return 1
		}
		if !force && !confirm(stdout, "File already exists, overwrite? [y/N] ") {
			logger.Info("Output file exists and was not overwritten")
			return 0
		}
	}

	cfg := renderer.DefaultConfig()
	cfg.HashingAlgorithm = algorithm
	cfg.UseGit = useGit
	cfg.UseFullFilepathInHeaders = fullPaths
	cfg.ApplyFormatting = formatting
	cfg.GitRepoRoot = gitRoot

	res, err := renderer.Render(input, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := os.WriteFile(output, res.Source, 0o644); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info(fmt.Sprintf("Rendered smart contract written to %s", output), "features", len(res.Features))

	if publish {
		ctx, cancel := signalContext()
		defer cancel()
		store, err := artifacts.NewStoreFromEnv(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		digest, err := artifacts.Publish(ctx, store, output)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, digest)
	}
	return 0
}
