package uploads

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntake_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	_, err := NewIntake(dir, 0)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewIntake_EmptyDir(t *testing.T) {
	_, err := NewIntake("", 0)
	assert.Error(t, err)
}

func TestIntake_Accept(t *testing.T) {
	intake, err := NewIntake(t.TempDir(), 0)
	require.NoError(t, err)

	content := []byte("profile image bytes")
	publicPath, err := intake.Accept(bytes.NewReader(content), "avatar.png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(publicPath, MountPrefix+"/"), "path %q should start with mount prefix", publicPath)
	assert.True(t, strings.HasSuffix(publicPath, "-avatar.png"), "path %q should keep original name as suffix", publicPath)

	// The file exists on disk with identical content.
	stored := filepath.Join(intake.Dir(), strings.TrimPrefix(publicPath, MountPrefix+"/"))
	got, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestIntake_AcceptSameNameTwice(t *testing.T) {
	intake, err := NewIntake(t.TempDir(), 0)
	require.NoError(t, err)

	first, err := intake.Accept(bytes.NewReader([]byte("one")), "avatar.png")
	require.NoError(t, err)
	second, err := intake.Accept(bytes.NewReader([]byte("two")), "avatar.png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same original name must not collide")
}

func TestIntake_AcceptNilFile(t *testing.T) {
	intake, err := NewIntake(t.TempDir(), 0)
	require.NoError(t, err)

	_, err = intake.Accept(nil, "avatar.png")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestIntake_AcceptTooLarge(t *testing.T) {
	intake, err := NewIntake(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = intake.Accept(bytes.NewReader(bytes.Repeat([]byte("x"), 17)), "big.bin")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// The partial file is removed.
	entries, err := os.ReadDir(intake.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntake_AcceptAtLimit(t *testing.T) {
	intake, err := NewIntake(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = intake.Accept(bytes.NewReader(bytes.Repeat([]byte("x"), 16)), "fits.bin")
	assert.NoError(t, err)
}

func TestIntake_AcceptStripsPathSegments(t *testing.T) {
	intake, err := NewIntake(t.TempDir(), 0)
	require.NoError(t, err)

	publicPath, err := intake.Accept(bytes.NewReader([]byte("data")), "../../etc/passwd")
	require.NoError(t, err)

	assert.NotContains(t, publicPath, "..")
	assert.True(t, strings.HasSuffix(publicPath, "-passwd"))

	// Nothing escaped the upload directory.
	entries, err := os.ReadDir(intake.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
