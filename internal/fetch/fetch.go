// Package fetch downloads remote dataset archives and extracts them into a
// local directory, skipping the network entirely when the expected files
// are already present.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fetcher downloads and extracts zip archives with a simple
// files-already-exist cache check.
type Fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// New returns a Fetcher with the given HTTP timeout. A zero timeout keeps
// the default of 60s; a nil logger is replaced with a no-op logger.
func New(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// EnsureFiles makes sure every name in expected exists under destDir,
// downloading and extracting the archive at archiveURL only if at least one
// is missing. The whole payload is buffered and validated before anything
// is written; extraction overwrites partially-present files.
func (f *Fetcher) EnsureFiles(ctx context.Context, archiveURL string, expected []string, destDir string) error {
	if len(expected) == 0 {
		return fmt.Errorf("no expected files given")
	}

	missing := false
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			missing = true
			break
		}
	}
	if !missing {
		f.logger.Info("all files already exist", zap.String("dir", destDir))
		return nil
	}

	body, err := f.download(ctx, archiveURL)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		f.logger.Error("invalid archive", zap.String("url", archiveURL), zap.Error(err))
		return &CorruptArchiveError{URL: archiveURL, Err: err}
	}
	// Read every member fully before touching the filesystem; this trips
	// the per-member CRC check on corrupted payloads.
	if err := verifyMembers(zr); err != nil {
		f.logger.Error("archive failed integrity check", zap.String("url", archiveURL), zap.Error(err))
		return &CorruptArchiveError{URL: archiveURL, Err: err}
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", destDir, err)
	}
	f.logger.Info("extracting archive", zap.String("url", archiveURL), zap.String("dir", destDir))
	for _, member := range zr.File {
		if err := extractMember(member, destDir); err != nil {
			return err
		}
	}
	f.logger.Info("extracted archive", zap.String("url", archiveURL), zap.String("dir", destDir))
	return nil
}

func (f *Fetcher) download(ctx context.Context, archiveURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("download failed", zap.String("url", archiveURL), zap.Error(err))
		return nil, &FetchError{URL: archiveURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		f.logger.Error("download failed", zap.String("url", archiveURL), zap.Int("status", resp.StatusCode))
		return nil, &FetchError{URL: archiveURL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: archiveURL, Err: err}
	}
	return body, nil
}

func verifyMembers(zr *zip.Reader) error {
	for _, member := range zr.File {
		rc, err := member.Open()
		if err != nil {
			return fmt.Errorf("member %s: %w", member.Name, err)
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("member %s: %w", member.Name, err)
		}
	}
	return nil
}

// extractMember writes one archive member under destDir, rejecting member
// names that would escape it.
func extractMember(member *zip.File, destDir string) error {
	target, err := safePath(destDir, member.Name)
	if err != nil {
		return err
	}
	if member.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", member.Name, err)
	}
	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("open member %s: %w", member.Name, err)
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extract %s: %w", member.Name, err)
	}
	return nil
}

func safePath(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive member %q has absolute path", name)
	}
	target := filepath.Join(destDir, filepath.FromSlash(name))
	base := filepath.Clean(destDir)
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %q escapes destination", name)
	}
	return target, nil
}
