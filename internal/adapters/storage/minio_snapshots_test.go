package storage

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedObject struct {
	contentType string
	body        []byte
}

// objectServer accepts path-style PUT object requests and keeps the payloads
type objectServer struct {
	mu      sync.Mutex
	objects map[string]storedObject
	deny    bool
}

func (s *objectServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.deny {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		if body, err = decodeAWSChunked(body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	s.objects[r.URL.Path] = storedObject{contentType: r.Header.Get("Content-Type"), body: body}
	s.mu.Unlock()

	w.Header().Set("ETag", `"etag-1"`)
	w.WriteHeader(http.StatusOK)
}

// decodeAWSChunked strips the signed chunk framing of streaming uploads
func decodeAWSChunked(raw []byte) ([]byte, error) {
	var out bytes.Buffer
	r := bufio.NewReader(bytes.NewReader(raw))
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex := strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, r, size); err != nil {
			return nil, err
		}
		if _, err := r.ReadString('\n'); err != nil {
			return nil, err
		}
	}
}

func newSnapshotStore(t *testing.T, srv *objectServer) *MinioSnapshots {
	t.Helper()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	client, err := minio.New(strings.TrimPrefix(ts.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("minio", "minio-secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	return NewMinioSnapshots(client, "snapshots")
}

func TestMinioSnapshots_Save(t *testing.T) {
	srv := &objectServer{objects: make(map[string]storedObject)}
	snapshots := newSnapshotStore(t, srv)

	payload := []byte(`{"takenAt":"2025-03-10T09:00:00Z","keys":[{"id":"k1","keyNumber":"M-101"}]}`)
	require.NoError(t, snapshots.Save(context.Background(), "backups/reset-20250310T090000Z.json", payload))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	obj, ok := srv.objects["/snapshots/backups/reset-20250310T090000Z.json"]
	require.True(t, ok, "object not stored: %v", srv.objects)
	assert.Equal(t, "application/json", obj.contentType)
	assert.Equal(t, payload, obj.body)
}

func TestMinioSnapshots_SaveDenied(t *testing.T) {
	srv := &objectServer{objects: make(map[string]storedObject), deny: true}
	snapshots := newSnapshotStore(t, srv)

	err := snapshots.Save(context.Background(), "backups/reset.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minio put backups/reset.json")
	assert.Empty(t, srv.objects)
}
