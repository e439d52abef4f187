package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Mindburn-Labs/vaultsdk/pkg/flagutil"
	"github.com/Mindburn-Labs/vaultsdk/pkg/gitsource"
)

// runGitSourceCmd implements `vaultctl gitsource`.
func runGitSourceCmd(args []string, stdout, stderr io.Writer) int {
	fs, level := newFlagSet("gitsource", stderr)

	opts := gitsource.DefaultOptions()
	var (
		fileHash, commitHash, path, output string
		printHashes                        bool
	)
	fs.StringVar(&fileHash, "file_hash", "", "Hash of the file contents to look for (REQUIRED)")
	fs.StringVar(&commitHash, "git_commit_hash", "", "Commit to search, looked up in the cache when empty")
	fs.StringVar(&opts.Algorithm, "hashing_algorithm", opts.Algorithm, "Algorithm the file hash was computed with")
	fs.StringVar(&path, "filepath", "", "Restrict the search to commits touching this repo-relative path")
	fs.StringVar(&opts.CacheLocation, "cache_filepath", opts.CacheLocation, "SQLite path, postgres:// DSN or redis:// URL of the cache")
	fs.BoolVar(&opts.SaveCache, "save_cache", opts.SaveCache, "Persist the cache after it is updated")
	fs.BoolVar(&printHashes, "print_hashes", true, "Print the file path and commit of the match")
	fs.StringVar(&output, "output_filepath", "", "Write the source to this path instead of stdout")
	fs.StringVar(&opts.RepoRoot, "git_repo_root", opts.RepoRoot, "Path inside the repository to search")

	if _, code, ok := parseFlags(fs, args, flagutil.Options{}, stderr); !ok {
		return code
	}
	if err := flagutil.Required(fs, "file_hash"); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	setupLogging(stderr, level)

	ctx, cancel := signalContext()
	defer cancel()

	finder, err := gitsource.NewFinder(ctx, opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = finder.Close() }()

	res, err := finder.GetSource(ctx, fileHash, commitHash, path)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if printHashes {
		_, _ = fmt.Fprintf(stdout, "Filepath: %s\nCommit hash: %s\n", res.Filepath, res.CommitHash)
	}
	if output != "" {
		if err := os.WriteFile(output, []byte(res.SourceCode), 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = fmt.Fprint(stdout, res.SourceCode)
	return 0
}
