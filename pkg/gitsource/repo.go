// Package gitsource finds historic source files in a git repository by
// their content hash.
package gitsource

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a non-bare repository with a working tree.
type Repo struct {
	git  *git.Repository
	root string
}

// LoadRepo opens the repository at path or in any of its parents.
func LoadRepo(path string) (*Repo, error) {
	logger := slog.Default().With("component", "gitsource")
	if path == "" {
		path = "."
	}
	logger.Info(fmt.Sprintf("Looking for repo at or above `%s`", path))

	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		// Bare repositories have no .git directory to detect.
		r, err = git.PlainOpen(path)
	}
	if err != nil {
		return nil, fmt.Errorf("could not find git repository using path `%s`: %w", path, err)
	}
	wt, err := r.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return nil, ErrBareRepo
	}
	if err != nil {
		return nil, err
	}
	root := wt.Filesystem.Root()
	logger.Info(fmt.Sprintf("Using repo at `%s`", root))
	return &Repo{git: r, root: root}, nil
}

// Root is the absolute path of the working tree.
func (r *Repo) Root() string {
	return r.root
}

// RelativePath returns path relative to the working tree root, in slash
// form. Relative inputs are resolved against the working directory first.
func (r *Repo) RelativePath(path string) string {
	abs := path
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(path); err == nil {
			abs = a
		}
	}
	if rel, err := filepath.Rel(r.root, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return strings.TrimPrefix(strings.TrimPrefix(filepath.ToSlash(path), filepath.ToSlash(r.root)+"/"), "./")
}

// CurrentCommitHash returns the last commit that touched path.
func (r *Repo) CurrentCommitHash(path string) (string, error) {
	rel := r.RelativePath(path)
	iter, err := r.git.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return "", &GitError{Message: fmt.Sprintf("Unable to find file %s in the Git repo.", rel)}
	}
	defer iter.Close()
	c, err := iter.Next()
	if err != nil {
		return "", &GitError{Message: fmt.Sprintf("Unable to find file %s in the Git repo.", rel)}
	}
	return c.Hash.String(), nil
}

// FileChecksumAtCommit hashes path as committed in commitHash. The commit
// must have modified the file.
func (r *Repo) FileChecksumAtCommit(path, commitHash, alg string) (string, error) {
	rel := r.RelativePath(path)
	notFound := &GitError{Message: fmt.Sprintf(
		"Unable to find the file %s in commit %s. Ensure that remote is up-to-date.", rel, commitHash)}

	if !plumbing.IsHash(commitHash) {
		return "", notFound
	}
	c, err := r.git.CommitObject(plumbing.NewHash(commitHash))
	if err != nil {
		return "", notFound
	}
	files, err := modifiedFiles(c)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.Path == rel {
			return Hash(alg, []byte(f.Source))
		}
	}
	return "", notFound
}

// ValidatedCommitHashForFileChecksum returns the last commit of path after
// checking that checksum matches the committed content.
func (r *Repo) ValidatedCommitHashForFileChecksum(path, checksum, alg string) (string, error) {
	commit, err := r.CurrentCommitHash(path)
	if err != nil {
		return "", err
	}
	committed, err := r.FileChecksumAtCommit(path, commit, alg)
	if err != nil {
		return "", err
	}
	if committed != checksum {
		return "", &GitError{Message: fmt.Sprintf(
			"The checksum of %s does not match the latest checksum in the Git repo. Ensure that all changes are committed.",
			r.RelativePath(path))}
	}
	return commit, nil
}

// FileChecksum hashes a file on disk.
func FileChecksum(path, alg string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Hash(alg, data)
}

// ModifiedFile is a text file as left by a commit.
type ModifiedFile struct {
	Path   string
	Source string
}

// modifiedFiles returns the text files added or modified by c relative to
// its first parent. Merge commits report nothing.
func modifiedFiles(c *object.Commit) ([]ModifiedFile, error) {
	if c.NumParents() > 1 {
		return nil, nil
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	var parentTree *object.Tree
	if c.NumParents() == 1 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}

	var out []ModifiedFile
	for _, ch := range changes {
		if ch.To.Name == "" || ch.To.TreeEntry.Mode == filemode.Submodule {
			continue
		}
		f, err := tree.File(ch.To.Name)
		if err != nil {
			continue
		}
		if binary, err := f.IsBinary(); err != nil || binary {
			continue
		}
		src, err := f.Contents()
		if err != nil {
			return nil, err
		}
		if src == "" {
			continue
		}
		out = append(out, ModifiedFile{Path: ch.To.Name, Source: src})
	}
	return out, nil
}
