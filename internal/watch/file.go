package watch

import (
	"context"

	"docq/internal/api"
)

// FileJobWatcher gates per-file download actions on the status of the job
// that owns the file. It is a job status watcher with the file identity
// attached; files have no status endpoint of their own.
type FileJobWatcher struct {
	*JobWatcher
	fileID int64
}

// WatchFileJob starts watching the owning job of the given file.
func WatchFileJob(ctx context.Context, client *api.Client, jobID string, fileID int64, opts Options) (*FileJobWatcher, error) {
	jw, err := WatchJob(ctx, client, jobID, opts)
	if err != nil {
		return nil, err
	}
	return &FileJobWatcher{JobWatcher: jw, fileID: fileID}, nil
}

// FileID returns the file whose downloads this watcher gates.
func (w *FileJobWatcher) FileID() int64 {
	return w.fileID
}

// DownloadsEnabled reports whether the source file and its partial reports
// may be downloaded.
func (w *FileJobWatcher) DownloadsEnabled() bool {
	return w.ReportsReady()
}
