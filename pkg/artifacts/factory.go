package artifacts

import (
	"context"
	"fmt"
	"os"
)

// StoreType names a storage backend.
type StoreType string

const (
	StoreTypeFS  StoreType = "fs"
	StoreTypeS3  StoreType = "s3"
	StoreTypeGCS StoreType = "gcs"
)

// DefaultDir is the filesystem store location.
const DefaultDir = ".artifacts"

// NewStoreFromEnv creates a store from environment variables:
//
//   - VAULT_ARTIFACT_STORE: "fs" (default), "s3" or "gcs"
//   - VAULT_ARTIFACT_DIR: filesystem store directory (default ".artifacts")
//   - VAULT_ARTIFACT_BUCKET: bucket for s3 and gcs (required)
//   - VAULT_ARTIFACT_PREFIX: object key prefix
//   - VAULT_ARTIFACT_S3_REGION or AWS_REGION (default "us-east-1")
//   - VAULT_ARTIFACT_S3_ENDPOINT: custom S3 endpoint
//
// GCS needs a build with -tags gcp.
func NewStoreFromEnv(ctx context.Context) (Store, error) {
	storeType := StoreType(os.Getenv("VAULT_ARTIFACT_STORE"))
	if storeType == "" {
		storeType = StoreTypeFS
	}

	switch storeType {
	case StoreTypeFS:
		dir := os.Getenv("VAULT_ARTIFACT_DIR")
		if dir == "" {
			dir = DefaultDir
		}
		return NewFileStore(dir)
	case StoreTypeS3:
		return newS3StoreFromEnv(ctx)
	case StoreTypeGCS:
		return newGCSStoreFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unsupported artifact storage type: %s", storeType)
	}
}

func newS3StoreFromEnv(ctx context.Context) (Store, error) {
	bucket := os.Getenv("VAULT_ARTIFACT_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("VAULT_ARTIFACT_BUCKET is required for S3 storage")
	}
	region := os.Getenv("VAULT_ARTIFACT_S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	return NewS3Store(ctx, S3StoreConfig{
		Bucket:   bucket,
		Region:   region,
		Endpoint: os.Getenv("VAULT_ARTIFACT_S3_ENDPOINT"),
		Prefix:   os.Getenv("VAULT_ARTIFACT_PREFIX"),
	})
}
