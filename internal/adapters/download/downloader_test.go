package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingodeck/lingodeck/internal/ports"
)

func TestDownloadWritesFileAndReportsSize(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("lingodeck-audio "), 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 24 Aug 2026 10:00:00 GMT")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "blob")
	downloader := &Downloader{HTTPClient: server.Client()}

	var last ports.DownloadProgress
	result, err := downloader.Download(context.Background(), server.URL, dest, func(p ports.DownloadProgress) { last = p })
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), result.Size)
	assert.Equal(t, "Mon, 24 Aug 2026 10:00:00 GMT", result.Version)
	assert.True(t, last.Done)
	assert.Equal(t, int64(len(payload)), last.Received)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadReportsIntermediateProgress(t *testing.T) {
	t.Parallel()

	// Larger than one progress chunk so at least one non-final report fires.
	payload := bytes.Repeat([]byte("x"), progressChunkBytes+1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "blob")
	downloader := &Downloader{HTTPClient: server.Client()}

	var reports []ports.DownloadProgress
	_, err := downloader.Download(context.Background(), server.URL, dest, func(p ports.DownloadProgress) {
		reports = append(reports, p)
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(reports), 2)
	assert.False(t, reports[0].Done)
	assert.True(t, reports[len(reports)-1].Done)
	assert.Equal(t, int64(len(payload)), reports[0].Total, "the content length must be passed through")
}

func TestDownloadNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "blob")
	downloader := &Downloader{HTTPClient: server.Client()}

	_, err := downloader.Download(context.Background(), server.URL, dest, nil)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestDownloadTruncatedBodyRemovesFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "4096")
		_, _ = w.Write([]byte("short"))
	}))
	t.Cleanup(server.Close)

	dest := filepath.Join(t.TempDir(), "blob")
	downloader := &Downloader{HTTPClient: server.Client()}

	_, err := downloader.Download(context.Background(), server.URL, dest, nil)
	require.Error(t, err)
	assert.NoFileExists(t, dest, "no partial file may survive a failed transfer")
}

func TestDownloadCancelledContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "blob")
	downloader := &Downloader{HTTPClient: server.Client()}

	_, err := downloader.Download(ctx, server.URL, dest, nil)
	require.Error(t, err)
}
