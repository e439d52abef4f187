package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: r}
}

func (tr *testRepo) commit(files map[string]string) string {
	tr.t.Helper()
	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)
	for name, content := range files {
		p := filepath.Join(tr.dir, name)
		require.NoError(tr.t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(tr.t, os.WriteFile(p, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(tr.t, err)
	}
	tr.n++
	h, err := wt.Commit("commit", &git.CommitOptions{Author: &object.Signature{
		Name:  "dev",
		Email: "dev@example.com",
		When:  time.Date(2024, 1, tr.n, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(tr.t, err)
	return h.String()
}

func mustHash(t *testing.T, alg, s string) string {
	t.Helper()
	h, err := Hash(alg, []byte(s))
	require.NoError(t, err)
	return h
}

func TestHash(t *testing.T) {
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", mustHash(t, "md5", "hello"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", mustHash(t, "sha256", "hello"))
	for _, alg := range Algorithms() {
		assert.NoError(t, CheckAlgorithm(alg))
	}
	assert.Len(t, Algorithms(), 6)
	assert.Len(t, mustHash(t, "blake2b_256", "x"), 64)
	assert.Len(t, mustHash(t, "sha3_256", "x"), 64)

	_, err := Hash("crc32", nil)
	assert.EqualError(t, err, "Unsupported hash type crc32")
}

func TestLoadRepo(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit(map[string]string{"a/b.go": "package b\n"})

	r, err := LoadRepo(filepath.Join(tr.dir, "a"))
	require.NoError(t, err)
	assert.Equal(t, tr.dir, r.Root())
	assert.Equal(t, "a/b.go", r.RelativePath(filepath.Join(tr.dir, "a", "b.go")))

	bare := t.TempDir()
	_, err = git.PlainInit(bare, true)
	require.NoError(t, err)
	_, err = LoadRepo(bare)
	assert.ErrorIs(t, err, ErrBareRepo)
	assert.EqualError(t, err, "Repo has no working dir - this is the sign of a bare repo")

	_, err = LoadRepo(t.TempDir())
	assert.Error(t, err)
}

func TestCommitHashHelpers(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(map[string]string{"contract.go": "v1", "other.go": "x"})
	second := tr.commit(map[string]string{"contract.go": "v2"})
	tr.commit(map[string]string{"other.go": "y"})

	r, err := LoadRepo(tr.dir)
	require.NoError(t, err)
	path := filepath.Join(tr.dir, "contract.go")

	got, err := r.CurrentCommitHash(path)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	sum, err := r.FileChecksumAtCommit(path, first, "md5")
	require.NoError(t, err)
	assert.Equal(t, mustHash(t, "md5", "v1"), sum)

	_, err = r.FileChecksumAtCommit(filepath.Join(tr.dir, "missing.go"), first, "md5")
	var gitErr *GitError
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "Unable to find the file missing.go in commit "+first+". Ensure that remote is up-to-date.", gitErr.Message)

	got, err = r.ValidatedCommitHashForFileChecksum(path, mustHash(t, "md5", "v2"), "md5")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	_, err = r.ValidatedCommitHashForFileChecksum(path, mustHash(t, "md5", "v1"), "md5")
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "The checksum of contract.go does not match the latest checksum in the Git repo. Ensure that all changes are committed.", gitErr.Message)
}

func newFinder(t *testing.T, dir, cache string, mutate func(*Options)) *Finder {
	t.Helper()
	opts := DefaultOptions()
	opts.RepoRoot = dir
	opts.CacheLocation = cache
	opts.Workers = 2
	if mutate != nil {
		mutate(&opts)
	}
	f, err := NewFinder(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFinder_GetSource(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit(map[string]string{"lib/contract.go": "package lib // v1\n"})
	tr.commit(map[string]string{"lib/contract.go": "package lib // v2\n", "lib/feature.go": "package lib\n"})

	cache := filepath.Join(t.TempDir(), "cache.db")
	f := newFinder(t, tr.dir, cache, nil)
	ctx := context.Background()

	res, err := f.GetSource(ctx, mustHash(t, "md5", "package lib // v1\n"), "", "")
	require.NoError(t, err)
	assert.Equal(t, first, res.CommitHash)
	assert.Equal(t, "lib/contract.go", res.Filepath)
	assert.Equal(t, "package lib // v1\n", res.SourceCode)

	res, err = f.GetSource(ctx, mustHash(t, "md5", "package lib // v1\n"), first, "lib/contract.go")
	require.NoError(t, err)
	assert.Equal(t, first, res.CommitHash)

	res, err = f.GetSource(ctx, mustHash(t, "md5", "package lib // v2\n"), "", filepath.Join(tr.dir, "lib/contract.go"))
	require.NoError(t, err)
	assert.Equal(t, "package lib // v2\n", res.SourceCode)

	_, err = f.GetSource(ctx, mustHash(t, "md5", "nope"), "", "")
	var nf *SourceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, `No file exists for md5 hash "`+mustHash(t, "md5", "nope")+`"`, err.Error())

	_, err = f.GetSource(ctx, "  ", "", "")
	assert.Error(t, err)
}

func TestFinder_CachePersistence(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(map[string]string{"a.go": "one"})
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	f := newFinder(t, tr.dir, cachePath, nil)
	require.NoError(t, f.Populate(ctx))

	store, err := OpenSQLiteStore(ctx, cachePath)
	require.NoError(t, err)
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NotNil(t, loaded)
	assert.Equal(t, "md5", loaded.Algorithm)
	assert.Contains(t, loaded.CommitHashes, c1)
	assert.Equal(t, c1, loaded.HashMap[mustHash(t, "md5", "one")])

	c2 := tr.commit(map[string]string{"a.go": "two"})
	f2 := newFinder(t, tr.dir, cachePath, nil)
	got, err := f2.CommitHash(ctx, mustHash(t, "md5", "two"))
	require.NoError(t, err)
	assert.Equal(t, c2, got)
	got, err = f2.CommitHash(ctx, mustHash(t, "md5", "one"))
	require.NoError(t, err)
	assert.Equal(t, c1, got, "served from the reloaded cache")

	f3 := newFinder(t, tr.dir, cachePath, func(o *Options) { o.Algorithm = "sha256" })
	assert.Empty(t, f3.cache.HashMap, "algorithm change invalidates the cache")
}

func TestFinder_NoSaveCache(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit(map[string]string{"a.go": "one"})
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	f := newFinder(t, tr.dir, cachePath, func(o *Options) { o.SaveCache = false })
	require.NoError(t, f.Populate(ctx))

	store, err := OpenSQLiteStore(ctx, cachePath)
	require.NoError(t, err)
	defer store.Close()
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCache_Clean(t *testing.T) {
	c := NewCache("md5")
	c.CommitHashes["keep"] = struct{}{}
	c.CommitHashes["gone"] = struct{}{}
	c.HashMap["h1"] = "keep"
	c.HashMap["h2"] = "gone"

	assert.True(t, c.Clean(map[string]struct{}{"keep": {}}))
	assert.Equal(t, map[string]struct{}{"keep": {}}, c.CommitHashes)
	assert.Equal(t, map[string]string{"h1": "keep"}, c.HashMap)
	assert.False(t, c.Clean(map[string]struct{}{"keep": {}}))

	assert.True(t, c.Valid("md5"))
	assert.False(t, c.Valid("sha1"))
	var nilCache *Cache
	assert.False(t, nilCache.Valid("md5"))
}

func TestSQLStore_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS")).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	store, err := NewSQLStore(ctx, db, PlaceholderDollar)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM gsf_meta WHERE key = $1")).
		WithArgs("algorithm").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("sha1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT commit_hash FROM gsf_commits")).
		WillReturnRows(sqlmock.NewRows([]string{"commit_hash"}).AddRow("c1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT file_hash, commit_hash FROM gsf_hashes")).
		WillReturnRows(sqlmock.NewRows([]string{"file_hash", "commit_hash"}).AddRow("h1", "c1"))

	c, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sha1", c.Algorithm)
	assert.Equal(t, map[string]string{"h1": "c1"}, c.HashMap)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM gsf_meta")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM gsf_commits")).WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err = store.Save(ctx, c)
	assert.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_LoadEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &SQLStore{db: db, placeholder: PlaceholderQuestion}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM gsf_meta WHERE key = ?")).
		WithArgs("algorithm").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	c, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestOpenStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := OpenStore(ctx, "redis://127.0.0.1:1/0")
	assert.Error(t, err)
	_, err = OpenStore(ctx, "redis://%zz")
	assert.Error(t, err)
}
