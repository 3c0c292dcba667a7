package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalService lists media stored under a directory on disk.
type LocalService struct {
	root string
}

func NewLocalService(root string) *LocalService {
	return &LocalService{root: filepath.Clean(root)}
}

// ListObjects returns files whose slash-separated path relative to the root
// starts with prefix. A missing root yields no objects.
func (s *LocalService) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	prefix = strings.TrimPrefix(prefix, "/")
	// Only walk the directory the prefix points into.
	dir := path.Dir(prefix)
	if strings.HasSuffix(prefix, "/") {
		dir = strings.TrimSuffix(prefix, "/")
	}
	start := filepath.Join(s.root, filepath.FromSlash(dir))

	var objects []ObjectInfo
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		modified := info.ModTime()
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: &modified,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk %s: %w", start, err)
	}
	return objects, nil
}

var _ Service = (*LocalService)(nil)
