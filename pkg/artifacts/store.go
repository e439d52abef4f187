// Package artifacts is a content-addressed store for rendered contracts.
package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Digest addresses a stored contract, e.g. "sha256:ab12...".
type Digest string

// DigestOf returns the digest of data.
func DigestOf(data []byte) Digest {
	sum := sha256.Sum256(data)
	return Digest("sha256:" + hex.EncodeToString(sum[:]))
}

// Hex returns the validated hex part of d.
func (d Digest) Hex() (string, error) {
	raw, ok := strings.CutPrefix(string(d), "sha256:")
	if !ok {
		return "", fmt.Errorf("invalid digest format: %s", d)
	}
	if b, err := hex.DecodeString(raw); err != nil || len(b) != sha256.Size {
		return "", fmt.Errorf("invalid digest hex: %s", d)
	}
	return raw, nil
}

// objectKey is the blob name of d under prefix.
func objectKey(prefix string, d Digest) (string, error) {
	raw, err := d.Hex()
	if err != nil {
		return "", err
	}
	return prefix + raw + ".go", nil
}

// Store persists rendered contracts by content.
type Store interface {
	// Put stores data and returns its digest. Storing the same content
	// twice is a no-op.
	Put(ctx context.Context, data []byte) (Digest, error)
	Get(ctx context.Context, d Digest) ([]byte, error)
	Exists(ctx context.Context, d Digest) (bool, error)
	Delete(ctx context.Context, d Digest) error
}

// FileStore keeps contracts in a local directory.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStore creates baseDir if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	//nolint:gosec // G301: shared artifact directory
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure artifact dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(d Digest) (string, error) {
	key, err := objectKey("", d)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, key), nil
}

func (s *FileStore) Put(_ context.Context, data []byte) (Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := DigestOf(data)
	path, err := s.path(d)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return d, nil
	}

	tmp := path + ".tmp"
	//nolint:gosec // G306: rendered contracts are not secret
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write contract: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to commit contract: %w", err)
	}
	return d, nil
}

func (s *FileStore) Get(_ context.Context, d Digest) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(d)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // digest validated as hex
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", d)
		}
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	return io.ReadAll(f)
}

func (s *FileStore) Exists(_ context.Context, d Digest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(d)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) Delete(_ context.Context, d Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(d)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// Publish stores the file at path and returns its digest.
func Publish(ctx context.Context, store Store, path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", path, err)
	}
	return store.Put(ctx, data)
}
