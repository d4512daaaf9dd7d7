package logstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore copies logs to a local or shared filesystem path.
type FileStore struct{}

// Upload copies localPath to the file:// location remote (or a bare path).
func (FileStore) Upload(_ context.Context, localPath, remote string) error {
	scheme, path := ParseLocation(remote)
	if scheme != "" && scheme != SchemeFile {
		return fmt.Errorf("file store: unsupported scheme %q", scheme)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("file store: destination %q is not absolute", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("file store: mkdir: %w", err)
	}

	in, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("file store: open: %w", err)
	}
	defer in.Close()

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("file store: create: %w", err)
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}
