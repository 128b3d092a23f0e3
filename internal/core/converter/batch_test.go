package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/nmrml/converter/internal/core/acquisition/testutil"
	"github.com/nmrml/converter/pkg/types"
)

func TestConvertAll(t *testing.T) {
	h := newHarness(t, &types.UserConverterConfig{Workers: types.IntPtr(2)})
	root := t.TempDir()
	inputs := []string{
		fixtures.WriteBruker(t, filepath.Join(root, "a", "1"), nil),
		fixtures.WriteVarian(t, filepath.Join(root, "b.fid"), nil),
		filepath.Join(root, "missing"),
		fixtures.WriteBruker(t, filepath.Join(root, "c", "1"), nil),
	}
	outDir := filepath.Join(root, "out")

	items, err := h.conv.ConvertAll(context.Background(), inputs, BatchOptions{OutDir: outDir, Format: "json"})
	require.NoError(t, err)
	require.Len(t, items, len(inputs))

	for i, item := range items {
		assert.Equal(t, inputs[i], item.Input)
	}
	require.NoError(t, items[0].Err)
	require.NoError(t, items[1].Err)
	assert.True(t, IsReadFailure(items[2].Err))
	require.NoError(t, items[3].Err)

	assert.Equal(t, filepath.Join(outDir, "a_1.json"), items[0].Result.Output)
	assert.Equal(t, filepath.Join(outDir, "b.json"), items[1].Result.Output)
	assert.Equal(t, filepath.Join(outDir, "c_1.json"), items[3].Result.Output)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestConvertAllCancelled(t *testing.T) {
	h := newHarness(t, &types.UserConverterConfig{Workers: types.IntPtr(1)})
	src := fixtures.WriteBruker(t, filepath.Join(t.TempDir(), "1"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items, err := h.conv.ConvertAll(ctx, []string{src, src}, BatchOptions{OutDir: t.TempDir()})
	require.NoError(t, err)
	for _, item := range items {
		assert.ErrorIs(t, item.Err, context.Canceled)
	}

	_, err = h.conv.ConvertAll(context.Background(), []string{src}, BatchOptions{})
	assert.Error(t, err)
}

func TestOutputPaths(t *testing.T) {
	paths := outputPaths([]string{"/x/exp/1", "/y/exp/1", "/z/other.fid"}, "/out", ".nmrML")
	assert.Equal(t, []string{
		"/out/exp_1.nmrML",
		"/out/exp_1-2.nmrML",
		"/out/other.nmrML",
	}, paths)

	// 追加的序号不能与其他输入本身的名称冲突
	paths = outputPaths([]string{"/d/a", "/e/a", "/f/a-2", "/g/a"}, "/out", ".nmrML")
	assert.Equal(t, []string{
		"/out/a.nmrML",
		"/out/a-2.nmrML",
		"/out/a-2-2.nmrML",
		"/out/a-3.nmrML",
	}, paths)
}
