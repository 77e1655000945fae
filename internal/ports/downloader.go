package ports

import "context"

// DownloadProgress reports bytes received so far. Total is -1 when the
// remote does not announce a length.
type DownloadProgress struct {
	Received int64
	Total    int64
	Done     bool
}

type ProgressFunc func(DownloadProgress)

type DownloadResult struct {
	Size    int64
	Version string
}

// Downloader fetches a content URL into dest. On failure dest must not be
// left behind. Version in the result is the remote's version token
// (typically Last-Modified) when available.
type Downloader interface {
	Download(ctx context.Context, url, dest string, progress ProgressFunc) (DownloadResult, error)
}
