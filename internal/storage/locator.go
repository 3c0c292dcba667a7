package storage

import (
	"context"
	"path"
	"strings"
)

// ImageExtensions are tried in this order when looking for an image.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Locator finds already uploaded images by naming convention:
// <subdir>/<stem><ext>.
type Locator struct {
	svc          Service
	publicPrefix string
}

func NewLocator(svc Service, publicPrefix string) *Locator {
	return &Locator{
		svc:          svc,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}
}

// Find returns the public URL of the image for stem under subdir, or "" when
// none was uploaded.
func (l *Locator) Find(ctx context.Context, subdir, stem string) (string, error) {
	objects, err := l.svc.ListObjects(ctx, path.Join(subdir, stem))
	if err != nil {
		return "", err
	}

	keys := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		keys[obj.Key] = struct{}{}
	}
	for _, ext := range ImageExtensions {
		key := path.Join(subdir, stem+ext)
		if _, ok := keys[key]; ok {
			return l.url(key), nil
		}
	}
	return "", nil
}

func (l *Locator) url(key string) string {
	if l.publicPrefix == "/" {
		return "/" + key
	}
	return l.publicPrefix + "/" + key
}
