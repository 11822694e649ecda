package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	objects map[string][]byte
	listed  []string
	err     error
}

func (s *stubStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (s *stubStore) List(_ context.Context, _, _ string) ([]string, error) {
	return s.listed, s.err
}

func TestParseS3URI(t *testing.T) {
	t.Parallel()

	bucket, key, err := ParseS3URI("s3://resumes/2024/jane.pdf")
	require.NoError(t, err)
	assert.Equal(t, "resumes", bucket)
	assert.Equal(t, "2024/jane.pdf", key)

	_, _, err = ParseS3URI("s3:///key")
	assert.Error(t, err)

	_, _, err = ParseS3URI("/tmp/file.pdf")
	assert.Error(t, err)
}

func TestExpandDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.docx", "notes.png", "c.TXT"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o700))

	single := filepath.Join(dir, "notes.png")
	refs, err := NewLoader(nil).Expand(context.Background(), []string{single, dir, " "})
	require.NoError(t, err)

	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "a.docx"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.TXT"),
	}, refs)
}

func TestExpandMissingPath(t *testing.T) {
	_, err := NewLoader(nil).Expand(context.Background(), []string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, err)
}

func TestExpandS3Prefix(t *testing.T) {
	store := &stubStore{listed: []string{"batch/a.pdf", "batch/readme.md", "batch/b.docx"}}

	refs, err := NewLoader(store).Expand(context.Background(), []string{"s3://bucket/batch/", "s3://bucket/single.pdf"})
	require.NoError(t, err)

	assert.Equal(t, []string{"s3://bucket/batch/a.pdf", "s3://bucket/batch/b.docx", "s3://bucket/single.pdf"}, refs)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("John Smith"), 0o600))

	store := &stubStore{objects: map[string][]byte{"bucket/cv.pdf": []byte("%PDF")}}
	loader := NewLoader(store)

	doc, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", string(doc.Data))

	doc, err = loader.Load(context.Background(), "s3://bucket/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/cv.pdf", doc.Name)
	assert.Equal(t, "%PDF", string(doc.Data))

	_, err = loader.Load(context.Background(), "s3://bucket/missing.pdf")
	assert.Error(t, err)
}

func TestLoadS3WithoutStore(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "s3://bucket/cv.pdf")
	assert.Error(t, err)
}
