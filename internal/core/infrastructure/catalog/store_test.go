package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogconfig "github.com/nmrml/converter/internal/config/catalog"
	logimpl "github.com/nmrml/converter/internal/core/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

func newTestStore(t *testing.T, inMemory bool) *Store {
	t.Helper()
	cfg := catalogconfig.New(&types.UserCatalogConfig{InMemory: types.BoolPtr(inMemory)}, t.TempDir())
	store, err := New(cfg, logimpl.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*Store)
}

func sampleRecord(source, output string) *types.ConversionRecord {
	return &types.ConversionRecord{
		RunID:        "run-1",
		Source:       source,
		SourceDigest: "abc123",
		Format:       types.FormatBruker,
		Output:       output,
		OutputFormat: "xml",
		ConvertedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:     "12ms",
	}
}

// TestPutGetDelete 测试记录读写删
func TestPutGetDelete(t *testing.T) {
	store := newTestStore(t, true)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "/data/1", "/out/1.xml")
	require.NoError(t, err)
	assert.False(t, found)

	record := sampleRecord("/data/1", "/out/1.xml")
	require.NoError(t, store.Put(ctx, record))

	got, found, err := store.Get(ctx, "/data/1", "/out/1.xml")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record, got)

	// 同键覆盖
	record.SourceDigest = "def456"
	require.NoError(t, store.Put(ctx, record))
	got, _, err = store.Get(ctx, "/data/1", "/out/1.xml")
	require.NoError(t, err)
	assert.Equal(t, "def456", got.SourceDigest)

	require.NoError(t, store.Delete(ctx, "/data/1", "/out/1.xml"))
	_, found, err = store.Get(ctx, "/data/1", "/out/1.xml")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestList 测试列出记录
func TestList(t *testing.T) {
	store := newTestStore(t, true)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleRecord("/data/1", "/out/1.xml")))
	require.NoError(t, store.Put(ctx, sampleRecord("/data/1", "/out/1.json")))
	require.NoError(t, store.Put(ctx, sampleRecord("/data/2", "/out/2.xml")))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

// TestPersistence 测试磁盘目录重新打开后记录仍在
func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := catalogconfig.New(&types.UserCatalogConfig{Path: types.StringPtr(dir)}, "")
	ctx := context.Background()

	store, err := New(cfg, logimpl.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, sampleRecord("/data/1", "/out/1.xml")))
	require.NoError(t, store.Close())

	reopened, err := New(cfg, logimpl.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	_, found, err := reopened.Get(ctx, "/data/1", "/out/1.xml")
	require.NoError(t, err)
	assert.True(t, found)
}

// TestInvalidRecord 测试非法记录与关闭后的操作
func TestInvalidRecord(t *testing.T) {
	store := newTestStore(t, true)
	ctx := context.Background()

	assert.Error(t, store.Put(ctx, nil))
	assert.Error(t, store.Put(ctx, &types.ConversionRecord{}))

	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Put(ctx, sampleRecord("/a", "/b")), ErrClosed)
	_, _, err := store.Get(ctx, "/a", "/b")
	assert.ErrorIs(t, err, ErrClosed)
}

// TestRecordCodec 测试压缩编码可逆
func TestRecordCodec(t *testing.T) {
	record := sampleRecord("/data/1", "-")
	encoded, err := encodeRecord(record)
	require.NoError(t, err)

	decoded, err := decodeRecord(encoded)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)

	_, err = decodeRecord([]byte("not snappy"))
	assert.Error(t, err)
}
