package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"golang.org/x/sync/errgroup"
)

// Options configure a Finder.
type Options struct {
	// CacheLocation is a SQLite path, a postgres:// DSN or a redis:// URL.
	CacheLocation string
	Algorithm     string
	RepoRoot      string
	SaveCache     bool
	// Workers bounds concurrent commit hashing during cache population.
	Workers          int
	ProgressInterval time.Duration
	Logger           *slog.Logger
	// Store overrides CacheLocation.
	Store Store
}

// DefaultOptions returns the CLI defaults.
func DefaultOptions() Options {
	return Options{
		CacheLocation:    DefaultCacheLocation,
		Algorithm:        DefaultAlgorithm,
		RepoRoot:         ".",
		SaveCache:        true,
		Workers:          8,
		ProgressInterval: 10 * time.Second,
	}
}

// Result is a source file found by hash.
type Result struct {
	Filepath   string
	CommitHash string
	FileHash   string
	SourceCode string
}

// Finder retrieves historic source files from a repository by content hash.
type Finder struct {
	opts   Options
	repo   *Repo
	store  Store
	cache  *Cache
	logger *slog.Logger
}

// NewFinder discovers the repository and loads the cache. A cache built
// with another algorithm is discarded.
func NewFinder(ctx context.Context, opts Options) (*Finder, error) {
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}
	if err := CheckAlgorithm(opts.Algorithm); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "gitsource")
	}

	repo, err := LoadRepo(opts.RepoRoot)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		location := opts.CacheLocation
		if location == "" {
			location = DefaultCacheLocation
		}
		logger.Info(fmt.Sprintf("Loading cache from `%s`", location))
		if store, err = OpenStore(ctx, location); err != nil {
			return nil, err
		}
	}

	cache, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("gitsource: load cache: %w", err)
	}
	if !cache.Valid(opts.Algorithm) {
		if cache != nil {
			logger.Warn("Cache is empty or invalid (algorithm mismatch)", "cached", cache.Algorithm, "requested", opts.Algorithm)
		}
		cache = NewCache(opts.Algorithm)
	}

	return &Finder{opts: opts, repo: repo, store: store, cache: cache, logger: logger}, nil
}

// Algorithm is the file hashing algorithm in use.
func (f *Finder) Algorithm() string {
	return f.opts.Algorithm
}

// Repo returns the discovered repository.
func (f *Finder) Repo() *Repo {
	return f.repo
}

// Close releases the cache store.
func (f *Finder) Close() error {
	return f.store.Close()
}

// GetSource finds the file whose content hashes to fileHash. Without a
// commit or path the commit is looked up in the cache, populating it if
// needed. A path restricts the search to commits touching that path.
func (f *Finder) GetSource(ctx context.Context, fileHash, commitHash, path string) (*Result, error) {
	if strings.TrimSpace(fileHash) == "" {
		return nil, errors.New("file hash is not a valid non-empty string")
	}
	if commitHash == "" && path == "" {
		c, err := f.CommitHash(ctx, fileHash)
		if err != nil {
			return nil, err
		}
		commitHash = c
	}
	if commitHash == "" && path == "" {
		return nil, &SourceNotFoundError{Algorithm: f.opts.Algorithm, Hash: fileHash}
	}

	commits, err := f.candidateCommits(commitHash, path)
	if err != nil {
		return nil, err
	}
	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := modifiedFiles(c)
		if err != nil {
			return nil, err
		}
		for _, mf := range files {
			h, err := Hash(f.opts.Algorithm, []byte(mf.Source))
			if err != nil {
				return nil, err
			}
			if h == fileHash {
				return &Result{Filepath: mf.Path, CommitHash: c.Hash.String(), FileHash: h, SourceCode: mf.Source}, nil
			}
		}
	}
	return nil, &SourceNotFoundError{Algorithm: f.opts.Algorithm, Hash: fileHash}
}

func (f *Finder) candidateCommits(commitHash, path string) ([]*object.Commit, error) {
	var rel *string
	if path != "" {
		r := f.repo.RelativePath(path)
		rel = &r
	}
	if commitHash != "" {
		if !plumbing.IsHash(commitHash) {
			return nil, &GitError{Message: fmt.Sprintf("Invalid commit hash %s", commitHash)}
		}
		c, err := f.repo.git.CommitObject(plumbing.NewHash(commitHash))
		if err != nil {
			return nil, &GitError{Message: fmt.Sprintf("Unable to find commit %s. Ensure that remote is up-to-date.", commitHash)}
		}
		if rel != nil && !touches(c, *rel) {
			return nil, nil
		}
		return []*object.Commit{c}, nil
	}

	iter, err := f.repo.git.Log(&git.LogOptions{FileName: rel})
	if err != nil {
		return nil, err
	}
	var out []*object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

func touches(c *object.Commit, rel string) bool {
	files, err := modifiedFiles(c)
	if err != nil {
		return false
	}
	for _, mf := range files {
		if mf.Path == rel {
			return true
		}
	}
	return false
}

// CommitHash returns the commit a file hash was first seen in, populating
// the cache on a miss. It returns "" when no commit matches.
func (f *Finder) CommitHash(ctx context.Context, fileHash string) (string, error) {
	if c, ok := f.cache.HashMap[fileHash]; ok {
		return c, nil
	}
	if err := f.Populate(ctx); err != nil {
		return "", err
	}
	return f.cache.HashMap[fileHash], nil
}

// Populate hashes every commit not yet in the cache and saves the cache
// when it changed.
func (f *Finder) Populate(ctx context.Context) error {
	f.logger.Info("Populating the cache, this may take several minutes...")

	all, err := f.allCommits()
	if err != nil {
		return err
	}
	repoCommits := make(map[string]struct{}, len(all))
	for _, h := range all {
		repoCommits[h.String()] = struct{}{}
	}
	updated := f.cache.Clean(repoCommits)
	if updated {
		f.logger.Info("Removing stale commit hashes from cache")
	}

	var pending []plumbing.Hash
	for _, h := range all {
		if _, ok := f.cache.CommitHashes[h.String()]; !ok {
			pending = append(pending, h)
		}
	}

	if len(pending) > 0 {
		found, err := f.hashCommits(ctx, pending, len(all))
		if err != nil {
			return err
		}
		// Replayed oldest first so the newest commit wins for a repeated hash.
		for i := len(pending) - 1; i >= 0; i-- {
			for fileHash := range found[i] {
				f.cache.HashMap[fileHash] = pending[i].String()
			}
			f.cache.CommitHashes[pending[i].String()] = struct{}{}
		}
		updated = true
	}

	if updated && f.opts.SaveCache {
		f.logger.Info("Writing cache")
		if err := f.store.Save(ctx, f.cache); err != nil {
			return fmt.Errorf("gitsource: save cache: %w", err)
		}
	}
	return nil
}

// allCommits lists HEAD history, newest first.
func (f *Finder) allCommits() ([]plumbing.Hash, error) {
	iter, err := f.repo.git.Log(&git.LogOptions{})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var out []plumbing.Hash
	err = iter.ForEach(func(c *object.Commit) error {
		out = append(out, c.Hash)
		return nil
	})
	if errors.Is(err, storer.ErrStop) {
		err = nil
	}
	return out, err
}

// hashCommits computes the file hashes of each pending commit. Each worker
// reads through its own repository handle.
func (f *Finder) hashCommits(ctx context.Context, pending []plumbing.Hash, total int) ([]map[string]struct{}, error) {
	found := make([]map[string]struct{}, len(pending))
	handles := make(chan *git.Repository, f.opts.Workers)
	for i := 0; i < f.opts.Workers; i++ {
		r, err := git.PlainOpen(f.repo.root)
		if err != nil {
			return nil, err
		}
		handles <- r
	}

	var done atomic.Int64
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(f.opts.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n := done.Load() + int64(total-len(pending))
				f.logger.Info(fmt.Sprintf("%d/%d (%2.0f%%) complete.", n, total, float64(n)/float64(total)*100))
			}
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Workers)
	for i, h := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := <-handles
			defer func() { handles <- r }()

			c, err := r.CommitObject(h)
			if err != nil {
				return err
			}
			files, err := modifiedFiles(c)
			if err != nil {
				return err
			}
			hashes := make(map[string]struct{}, len(files))
			for _, mf := range files {
				fh, err := Hash(f.opts.Algorithm, []byte(mf.Source))
				if err != nil {
					return err
				}
				hashes[fh] = struct{}{}
			}
			found[i] = hashes
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}
