// Package source loads raw resume documents from the local filesystem or S3-compatible storage.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const s3Scheme = "s3://"

var documentExtensions = []string{".pdf", ".docx", ".txt"}

// Document is a raw document and the reference it was loaded from.
type Document struct {
	Name string
	Data []byte
}

// ObjectStore reads objects from a bucket.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// Loader resolves document references. S3 references require an ObjectStore.
type Loader struct {
	objects ObjectStore
}

func NewLoader(objects ObjectStore) *Loader {
	return &Loader{objects: objects}
}

// Expand turns directories and S3 prefixes (ending in "/") into individual
// document references, keeping the order of refs.
func (l *Loader) Expand(ctx context.Context, refs []string) ([]string, error) {
	var out []string
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}

		if strings.HasPrefix(ref, s3Scheme) {
			if !strings.HasSuffix(ref, "/") {
				out = append(out, ref)
				continue
			}
			keys, err := l.listS3(ctx, ref)
			if err != nil {
				return nil, err
			}
			out = append(out, keys...)
			continue
		}

		info, err := os.Stat(ref)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", ref, err)
		}
		if !info.IsDir() {
			out = append(out, ref)
			continue
		}

		entries, err := os.ReadDir(ref)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", ref, err)
		}
		for _, e := range entries {
			if e.IsDir() || !isDocument(e.Name()) {
				continue
			}
			out = append(out, filepath.Join(ref, e.Name()))
		}
	}

	return out, nil
}

// Load reads a single reference.
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	if strings.HasPrefix(ref, s3Scheme) {
		bucket, key, err := ParseS3URI(ref)
		if err != nil {
			return nil, err
		}
		if l.objects == nil {
			return nil, fmt.Errorf("s3 storage is not configured for %s", ref)
		}
		data, err := l.objects.Get(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", ref, err)
		}
		return &Document{Name: ref, Data: data}, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return &Document{Name: ref, Data: data}, nil
}

func (l *Loader) listS3(ctx context.Context, ref string) ([]string, error) {
	if l.objects == nil {
		return nil, fmt.Errorf("s3 storage is not configured for %s", ref)
	}

	bucket, prefix, err := ParseS3URI(ref)
	if err != nil {
		return nil, err
	}

	keys, err := l.objects.List(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ref, err)
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if isDocument(k) {
			out = append(out, s3Scheme+bucket+"/"+k)
		}
	}
	return out, nil
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}

	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 uri without bucket: %s", uri)
	}
	return bucket, key, nil
}

func isDocument(name string) bool {
	return slices.Contains(documentExtensions, strings.ToLower(filepath.Ext(name)))
}
