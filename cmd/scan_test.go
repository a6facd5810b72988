package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTargetDefaultsToHTTPS(t *testing.T) {
	got, err := normalizeTarget("example.com/pricing")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pricing", got)
}

func TestNormalizeTargetKeepsExplicitScheme(t *testing.T) {
	got, err := normalizeTarget("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", got)
}

func TestNormalizeTargetRejectsBadInput(t *testing.T) {
	_, err := normalizeTarget("ftp://example.com/file")
	assert.Error(t, err)

	_, err = normalizeTarget("https://")
	assert.Error(t, err)
}

func TestFileTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	got, err := fileTarget(path)
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(path), got)

	_, err = fileTarget(dir)
	assert.Error(t, err)

	_, err = fileTarget(filepath.Join(dir, "missing.html"))
	assert.Error(t, err)
}

func TestValidateScanFlags(t *testing.T) {
	reset := func() {
		flagFile = ""
		flagAll = false
		flagPDF = false
		flagJSON = false
	}
	defer reset()

	reset()
	assert.Error(t, validateScanFlags(nil), "needs a target")

	reset()
	flagPDF, flagJSON = true, true
	assert.Error(t, validateScanFlags([]string{"example.com"}))

	reset()
	flagAll = true
	assert.Error(t, validateScanFlags([]string{"a.com", "b.com"}))
	assert.NoError(t, validateScanFlags([]string{"a.com"}))

	reset()
	flagFile = "index.html"
	assert.NoError(t, validateScanFlags(nil))
}
