package fetcher

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client downloads upstream statistics archives into the local data
// directory and unpacks them. Downloads are cache-aware: a destination
// that already exists is left alone, so re-running a fetch command is
// cheap and offline-safe once the data is present.
type Client struct {
	http *http.Client
	log  zerolog.Logger
}

// New creates a fetch client with a sane request timeout.
func New(log zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: 120 * time.Second},
		log:  log,
	}
}

// Download fetches url into dest unless dest already exists. The body
// is written to a temp file and renamed into place, so an interrupted
// download never leaves a truncated file to be mistaken for a cache hit.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		c.log.Info().Str("dest", dest).Msg("Archive already downloaded, skipping")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating data directory for %s: %w", dest, err)
	}

	c.log.Info().Str("url", url).Msg("Downloading archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", dest, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving download into place at %s: %w", dest, err)
	}

	c.log.Info().
		Str("dest", dest).
		Float64("size_mb", float64(n)/1024/1024).
		Msg("Downloaded archive")

	return nil
}

// ExtractZip unpacks a ZIP archive into destDir and returns the
// extracted file paths.
func (c *Client) ExtractZip(archivePath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer r.Close()

	var extracted []string
	for _, f := range r.File {
		name := filepath.Clean(f.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return nil, fmt.Errorf("archive %s contains unsafe path %q", archivePath, f.Name)
		}
		dest := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", dest, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", dest, err)
		}
		if err := extractFile(f, dest); err != nil {
			return nil, fmt.Errorf("extracting %s from %s: %w", f.Name, archivePath, err)
		}
		extracted = append(extracted, dest)
	}

	c.log.Info().
		Str("archive", archivePath).
		Int("files", len(extracted)).
		Msg("Extracted archive")

	return extracted, nil
}

func extractFile(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}
