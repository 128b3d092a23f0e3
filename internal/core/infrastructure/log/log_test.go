package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logconfig "github.com/nmrml/converter/internal/config/log"
)

// newFileLogger 创建只写文件的日志器
func newFileLogger(t *testing.T, level string, multiFile bool) (*Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "logs", "nmrml.log")
	options := &logconfig.LogOptions{
		Level:           level,
		FilePath:        logPath,
		ToConsole:       false,
		MaxSize:         1,
		EnableMultiFile: multiFile,
		ReaderLogFile:   "reader.log",
		SystemLogFile:   "system.log",
	}
	logger, err := New(logconfig.New(options))
	require.NoError(t, err)
	return logger.(*Logger), logPath
}

// readEntries 读取 JSON 日志行
func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

// TestFileLogJSON 测试文件日志为 JSON 且包含结构化字段
func TestFileLogJSON(t *testing.T) {
	logger, path := newFileLogger(t, "info", false)

	logger.With("source", "/data/exp/1", "scans", 16).Info("读取完成")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "读取完成", entries[0]["message"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "/data/exp/1", entries[0]["source"])
	assert.EqualValues(t, 16, entries[0]["scans"])
}

// TestLogLevels 测试级别过滤
func TestLogLevels(t *testing.T) {
	logger, path := newFileLogger(t, "warn", false)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warnf("warn %d", 1)
	logger.Errorf("error %d", 2)
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn 1", entries[0]["message"])
	assert.Equal(t, "error 2", entries[1]["message"])
}

// TestMultiFileRouting 测试多文件模式下按 module 拆分
func TestMultiFileRouting(t *testing.T) {
	logger, path := newFileLogger(t, "debug", true)
	dir := filepath.Dir(path)

	WithModule(logger, ModuleBruker).Info("acqus parsed")
	WithModule(logger, ModuleCatalog).Info("record stored")
	require.NoError(t, logger.Sync())

	readerEntries := readEntries(t, filepath.Join(dir, "reader.log"))
	systemEntries := readEntries(t, filepath.Join(dir, "system.log"))
	require.Len(t, readerEntries, 1)
	require.Len(t, systemEntries, 1)
	assert.Equal(t, "acqus parsed", readerEntries[0]["message"])
	assert.Equal(t, "record stored", systemEntries[0]["message"])
}

// TestOddKeyValues 奇数个参数时忽略最后一个
func TestOddKeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(newZap(core))

	logger.With("a", 1, "dangling").Info("odd")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.EqualValues(t, 1, fields["a"])
	assert.NotContains(t, fields, "dangling")
}

// TestSetLogger 测试全局日志器替换
func TestSetLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(NewFromZap(newZap(core)))
	Infof("global %s", "message")
	With("k", "v").Warnf("with %s", "fields")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "global message", logs.All()[0].Message)
	assert.Equal(t, "v", logs.All()[1].ContextMap()["k"])

	// nil 不替换
	SetLogger(nil)
	assert.NotNil(t, GetLogger())
}

// TestResetDefault 测试默认日志器可用
func TestResetDefault(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	ResetDefault()
	require.NotNil(t, GetLogger())
	assert.NotNil(t, GetLogger().GetZapLogger())
}
