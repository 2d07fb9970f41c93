package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

type Service interface {
	Upload(ctx context.Context, uid string, r io.Reader) (string, error)
	RemoveByURL(ctx context.Context, url string) error
	Owner(url string) string
}

type service struct {
	store     Storage
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewService stores images under <uid>/<unix-millis>.jpg in bucket and builds
// URLs as <publicURL>/<bucket>/<key>.
func NewService(store Storage, bucket, publicURL string) Service {
	return &service{
		store:     store,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

func (s *service) Upload(ctx context.Context, uid string, r io.Reader) (string, error) {
	data, err := Compress(r)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%d.jpg", uid, s.now().UnixMilli())
	if err := s.store.Put(ctx, key, "image/jpeg", data); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.publicURL + "/" + s.bucket + "/" + key, nil
}

// RemoveByURL deletes the object whose key follows /<bucket>/ in url. URLs
// that do not point into the bucket are ignored.
func (s *service) RemoveByURL(ctx context.Context, url string) error {
	key := KeyFromURL(url, s.bucket)
	if key == "" {
		return nil
	}
	return s.store.Remove(ctx, key)
}

// Owner returns the uploader of an image URL issued by Upload, or "" for
// any URL this service did not hand out.
func (s *service) Owner(url string) string {
	prefix := s.publicURL + "/" + s.bucket + "/"
	key, ok := strings.CutPrefix(url, prefix)
	if !ok {
		return ""
	}
	uid, name, ok := strings.Cut(key, "/")
	if !ok || uid == "" || name == "" || strings.ContainsAny(name, "/?#") || strings.Contains(uid, "..") {
		return ""
	}
	return uid
}

func KeyFromURL(url, bucket string) string {
	marker := "/" + bucket + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return ""
	}
	return url[i+len(marker):]
}
