// Package download fetches content blobs over HTTP into a caller-chosen
// destination file. No partial file survives a failed transfer.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/lingodeck/lingodeck/internal/ports"
)

const progressChunkBytes = 256 << 10

type Downloader struct {
	HTTPClient *http.Client
}

var _ ports.Downloader = (*Downloader)(nil)

func (d *Downloader) Download(ctx context.Context, url, dest string, progress ports.ProgressFunc) (ports.DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.DownloadResult{}, fmt.Errorf("create download request: %w", err)
	}

	resp, err := d.httpClient().Do(req)
	if err != nil {
		return ports.DownloadResult{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ports.DownloadResult{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return ports.DownloadResult{}, fmt.Errorf("create download file: %w", err)
	}

	written, copyErr := copyWithProgress(out, resp.Body, resp.ContentLength, progress)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(dest)
		return ports.DownloadResult{}, fmt.Errorf("write download file: %w", copyErr)
	}

	return ports.DownloadResult{
		Size:    written,
		Version: resp.Header.Get("Last-Modified"),
	}, nil
}

func (d *Downloader) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return http.DefaultClient
}

func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress ports.ProgressFunc) (int64, error) {
	if total == 0 {
		total = -1
	}

	var written int64
	buf := make([]byte, 32<<10)
	var sinceReport int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}

			sinceReport += int64(n)
			if progress != nil && sinceReport >= progressChunkBytes {
				progress(ports.DownloadProgress{Received: written, Total: total})
				sinceReport = 0
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	if progress != nil {
		progress(ports.DownloadProgress{Received: written, Total: total, Done: true})
	}
	return written, nil
}
