package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 answers the path-style subset of the S3 API the archive uses
type fakeS3 struct {
	mu          sync.Mutex
	buckets     map[string]bool
	objects     map[string]string
	contentType map[string]string
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{buckets: map[string]bool{}, objects: map[string]string{}, contentType: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	switch {
	case r.Method == http.MethodHead && key == "":
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	case r.Method == http.MethodPut && key == "":
		f.buckets[bucket] = true
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = string(body)
		f.contentType[path] = r.Header.Get("Content-Type")
	case r.Method == http.MethodHead:
		if _, ok := f.objects[path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	case r.Method == http.MethodDelete && key != "":
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func testStorageConfig(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Enabled:         true,
		Endpoint:        endpoint,
		Region:          "us-east-1",
		Bucket:          "agritrace-documents",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("missing bucket", func(t *testing.T) {
		cfg := testStorageConfig("http://localhost:9000")
		cfg.Bucket = ""
		_, err := NewS3Archive(cfg)
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := testStorageConfig("http://localhost:9000")
		cfg.SecretAccessKey = ""
		_, err := NewS3Archive(cfg)
		assert.ErrorContains(t, err, "credentials are required")
	})

	t.Run("valid config", func(t *testing.T) {
		a, err := NewS3Archive(testStorageConfig("localhost:9000"), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "agritrace-documents", a.Bucket())
	})
}

func TestS3Archive_RoundTrip(t *testing.T) {
	fake, srv := newFakeS3(t)
	a, err := NewS3Archive(testStorageConfig(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.EnsureBucket(ctx))
	assert.True(t, fake.buckets["agritrace-documents"])
	require.NoError(t, a.EnsureBucket(ctx), "existing bucket is accepted")

	key := "releases/BATCH-COCOA-1-F1/REL-1.json"
	exists, err := a.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, a.Upload(ctx, key, []byte(`{"batchCode":"BATCH-COCOA-1-F1"}`), "application/json"))
	fake.mu.Lock()
	body := fake.objects["agritrace-documents/"+key]
	ct := fake.contentType["agritrace-documents/"+key]
	fake.mu.Unlock()
	assert.Contains(t, body, `"batchCode":"BATCH-COCOA-1-F1"`)
	assert.Equal(t, "application/json", ct)

	exists, err = a.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, a.Delete(ctx, key))
	exists, err = a.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestS3Archive_EmptyKey(t *testing.T) {
	a, err := NewS3Archive(testStorageConfig("http://localhost:9000"))
	require.NoError(t, err)
	assert.ErrorIs(t, a.Upload(context.Background(), "", nil, "application/json"), ErrEmptyKey)
	_, err = a.Exists(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, a.Delete(context.Background(), ""), ErrEmptyKey)
}
