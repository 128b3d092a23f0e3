package paramfile

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmrml/converter/internal/core/acquisition/charset"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, "acqus", []byte{'#', '#', 0xB5})

	data, err := Read(path, 0, charset.Latin1)
	require.NoError(t, err)
	assert.Equal(t, "##µ", string(data))

	_, err = Read(path, 2, charset.Latin1)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Read(filepath.Join(t.TempDir(), "missing"), 0, charset.UTF8)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Read(t.TempDir(), 0, charset.UTF8)
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	a := writeFile(t, "a", []byte("same"))
	b := writeFile(t, "b", []byte("same"))
	c := writeFile(t, "c", []byte("different"))

	da, err := Digest(a, 0)
	require.NoError(t, err)
	db, err := Digest(b, 0)
	require.NoError(t, err)
	dc, err := Digest(c, 0)
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.NotEqual(t, da, dc)
	assert.Len(t, da, 64)
}

func TestFingerprint(t *testing.T) {
	path := writeFile(t, "procpar", []byte("v1"))

	first, err := Fingerprint(path)
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	second, err := Fingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = Fingerprint(filepath.Dir(path))
	assert.Error(t, err)
}
