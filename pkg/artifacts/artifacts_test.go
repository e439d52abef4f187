package artifacts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contract = "api = '4.0.0'\n"

func TestDigest(t *testing.T) {
	d := DigestOf([]byte(contract))
	assert.True(t, strings.HasPrefix(string(d), "sha256:"))

	raw, err := d.Hex()
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	_, err = Digest("md5:abc").Hex()
	assert.ErrorContains(t, err, "invalid digest format")
	_, err = Digest("sha256:../../etc/passwd").Hex()
	assert.ErrorContains(t, err, "invalid digest hex")
	_, err = Digest("sha256:abcd").Hex()
	assert.ErrorContains(t, err, "invalid digest hex")
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	d, err := store.Put(ctx, []byte(contract))
	require.NoError(t, err)
	assert.Equal(t, DigestOf([]byte(contract)), d)

	again, err := store.Put(ctx, []byte(contract))
	require.NoError(t, err)
	assert.Equal(t, d, again)

	ok, err := store.Exists(ctx, d)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := store.Get(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, contract, string(data))

	require.NoError(t, store.Delete(ctx, d))
	require.NoError(t, store.Delete(ctx, d))

	ok, err = store.Exists(ctx, d)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, d)
	assert.ErrorContains(t, err, "artifact not found")

	_, err = store.Get(ctx, "sha256:zz")
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "rendered.go")
	require.NoError(t, os.WriteFile(path, []byte(contract), 0o600))

	store, err := NewFileStore(filepath.Join(dir, "store"))
	require.NoError(t, err)

	d, err := Publish(ctx, store, path)
	require.NoError(t, err)
	data, err := store.Get(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, contract, string(data))

	_, err = Publish(ctx, store, filepath.Join(dir, "missing.go"))
	assert.ErrorContains(t, err, "publish")
}

// fakeS3 serves path-style object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodHead, http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		}),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
	return NewS3StoreWithClient(client, "contracts", "rendered/"), fake
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	store, fake := newTestS3(t)

	d, err := store.Put(ctx, []byte(contract))
	require.NoError(t, err)

	raw, err := d.Hex()
	require.NoError(t, err)
	fake.mu.Lock()
	assert.Equal(t, contract, string(fake.objects["contracts/rendered/"+raw+".go"]))
	fake.mu.Unlock()

	ok, err := store.Exists(ctx, d)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := store.Get(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, contract, string(data))

	require.NoError(t, store.Delete(ctx, d))
	fake.mu.Lock()
	assert.Empty(t, fake.objects)
	fake.mu.Unlock()

	_, err = store.Get(ctx, "bogus")
	assert.ErrorContains(t, err, "invalid digest format")
}

func TestNewStoreFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Run("default fs", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "artifacts")
		t.Setenv("VAULT_ARTIFACT_STORE", "")
		t.Setenv("VAULT_ARTIFACT_DIR", dir)

		store, err := NewStoreFromEnv(ctx)
		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, store)
		assert.DirExists(t, dir)
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		t.Setenv("VAULT_ARTIFACT_STORE", "s3")
		t.Setenv("VAULT_ARTIFACT_BUCKET", "")

		_, err := NewStoreFromEnv(ctx)
		assert.ErrorContains(t, err, "VAULT_ARTIFACT_BUCKET is required")
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Setenv("VAULT_ARTIFACT_STORE", "ftp")

		_, err := NewStoreFromEnv(ctx)
		assert.ErrorContains(t, err, "unsupported artifact storage type")
	})
}
