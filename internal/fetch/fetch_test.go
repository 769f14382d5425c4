package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestEnsureFilesShortCircuitsWhenAllExist(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("cached"), 0o644))
	}
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := New(5*time.Second, nil)
	err := f.EnsureFiles(context.Background(), srv.URL, []string{"a.txt", "b.txt"}, dir)
	require.NoError(t, err)
	assert.Zero(t, hits.Load(), "no network request expected when all files exist")

	// Cached contents untouched.
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "cached", string(got))
}

func TestEnsureFilesFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "dest")
	f := New(5*time.Second, nil)
	err := f.EnsureFiles(context.Background(), srv.URL, []string{"a.txt"}, dir)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, srv.URL, fe.URL)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "destination directory must not be created on fetch failure")
}

func TestEnsureFilesCorruptArchive(t *testing.T) {
	payloads := map[string][]byte{
		"not a zip at all": []byte("these are not the bytes you are looking for"),
	}
	// A structurally valid zip with a flipped payload byte fails the CRC pass.
	good := buildZip(t, map[string]string{"a.txt": "hello hello hello hello"})
	bad := bytes.Clone(good)
	bad[len(bad)/2] ^= 0xFF
	payloads["crc mismatch"] = bad

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(payload)
			}))
			defer srv.Close()

			dir := filepath.Join(t.TempDir(), "dest")
			f := New(5*time.Second, nil)
			err := f.EnsureFiles(context.Background(), srv.URL, []string{"a.txt"}, dir)

			var ce *CorruptArchiveError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, srv.URL, ce.URL)
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "no extraction expected for corrupt payload")
		})
	}
}

func TestEnsureFilesExtractsArchive(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"a.txt":        "alpha",
		"b.txt":        "beta",
		"nested/c.txt": "gamma",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "dest")
	f := New(5*time.Second, nil)
	require.NoError(t, f.EnsureFiles(context.Background(), srv.URL, []string{"a.txt", "b.txt"}, dir))

	for name, want := range map[string]string{"a.txt": "alpha", "b.txt": "beta", "nested/c.txt": "gamma"} {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	// Second call is a no-op even if the server goes away.
	srv.Close()
	assert.NoError(t, f.EnsureFiles(context.Background(), srv.URL, []string{"a.txt", "b.txt"}, dir))
}

func TestEnsureFilesOverwritesPartialFiles(t *testing.T) {
	payload := buildZip(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	// a.txt present but stale; b.txt missing forces a download.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("stale"), 0o644))

	f := New(5*time.Second, nil)
	require.NoError(t, f.EnsureFiles(context.Background(), srv.URL, []string{"a.txt", "b.txt"}, dir))

	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got), "partially-present files are overwritten")
}

func TestEnsureFilesRejectsEscapingMembers(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../evil.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	parent := t.TempDir()
	dir := filepath.Join(parent, "dest")
	f := New(5*time.Second, nil)
	err = f.EnsureFiles(context.Background(), srv.URL, []string{"evil.txt"}, dir)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(parent, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
