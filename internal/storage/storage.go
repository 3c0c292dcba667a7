package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service lists uploaded media, either from the local uploads directory or
// from an S3 bucket.
type Service interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
