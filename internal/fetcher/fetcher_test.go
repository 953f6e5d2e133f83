package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestDownload(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "data", "CAINC4.zip")
	client := New(zerolog.Nop())

	if err := client.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "archive-bytes" {
		t.Errorf("downloaded content = %q", data)
	}

	// A second call is a cache hit, not another request.
	if err := client.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("cached Download failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "CAINC4.zip")
	client := New(zerolog.Nop())

	if err := client.Download(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if _, err := os.Stat(dest); err == nil {
		t.Error("no file should exist after a failed download")
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("CAINC4__ALL_AREAS_1969_2023.csv")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	f.Write([]byte("GeoFIPS,GeoName,LineCode,2023\n"))
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	archive := filepath.Join(dir, "CAINC4.zip")
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	client := New(zerolog.Nop())
	files, err := client.ExtractZip(archive, dir)
	if err != nil {
		t.Fatalf("ExtractZip failed: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("extracted %d files, want 1", len(files))
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(data) != "GeoFIPS,GeoName,LineCode,2023\n" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestExtractZip_RejectsUnsafePaths(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("../escape.txt")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	f.Write([]byte("nope"))
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	archive := filepath.Join(dir, "evil.zip")
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	client := New(zerolog.Nop())
	if _, err := client.ExtractZip(archive, dir); err == nil {
		t.Fatal("expected error for archive escaping the destination")
	}
}
