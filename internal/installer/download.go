package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"opsinstall/internal/logger"
)

// isArchiveURL reports whether src should be downloaded rather than read from disk.
func isArchiveURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// downloadArchive fetches rawURL into dir, keeping the file name of the URL path
// so the archive format can still be told from its suffix.
func downloadArchive(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid archive URL %s: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return "", fmt.Errorf("archive URL %s has no file name", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	logger.Debug("[DEBUG] Downloading archive from URL: %s\n", rawURL)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to GET %s: %w", rawURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download of %s failed: HTTP status %d", rawURL, resp.StatusCode)
	}

	destPath := filepath.Join(dir, name)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write response to file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	logger.Debug("[DEBUG] Downloaded archive to: %s\n", destPath)
	return destPath, nil
}
