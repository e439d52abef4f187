//go:build gcp

package artifacts

import (
	"context"
	"fmt"
	"os"
)

func newGCSStoreFromEnv(ctx context.Context) (Store, error) {
	bucket := os.Getenv("VAULT_ARTIFACT_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("VAULT_ARTIFACT_BUCKET is required for GCS storage")
	}
	return NewGCSStore(ctx, GCSStoreConfig{
		Bucket: bucket,
		Prefix: os.Getenv("VAULT_ARTIFACT_PREFIX"),
	})
}
