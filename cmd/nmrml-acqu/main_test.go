package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/nmrml/converter/internal/core/acquisition/testutil"
	"github.com/nmrml/converter/pkg/types"
)

// testConfig 写出测试用配置：内存目录库、不输出控制台日志
func testConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "environment: test\ndata_dir: " + t.TempDir() + "\nlog:\n  to_console: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--config", testConfig(t)}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestReadJSON(t *testing.T) {
	dir := fixtures.WriteBruker(t, t.TempDir(), nil)

	code, stdout, stderr := runCLI(t, "read", dir)
	require.Equal(t, 0, code, stderr)

	var acq types.Acquisition
	require.NoError(t, json.Unmarshal([]byte(stdout), &acq))
	assert.Equal(t, types.FormatBruker, acq.Format)
	assert.Equal(t, 16, acq.Parameters.NumberOfScans)
}

func TestReadTable(t *testing.T) {
	dir := fixtures.WriteVarian(t, t.TempDir(), nil)

	code, stdout, stderr := runCLI(t, "read", dir, "-o", "table", "--vendor", "varian")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "观测核")
	assert.Contains(t, stdout, "1H")
	assert.Contains(t, stdout, "s2pul")
}

func TestReadFailure(t *testing.T) {
	code, stdout, stderr := runCLI(t, "read", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "读取采集参数失败: "), stderr)

	dir := fixtures.WriteBruker(t, t.TempDir(), map[string]string{"SFO1": fixtures.Omit})
	code, _, stderr = runCLI(t, "read", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "读取采集参数失败")

	code, _, stderr = runCLI(t, "read", dir, "-o", "yaml")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "错误: "), stderr)
}

func TestConvertSingle(t *testing.T) {
	root := t.TempDir()
	dir := fixtures.WriteBruker(t, filepath.Join(root, "1"), nil)
	out := filepath.Join(root, "out.nmrML")
	metricsFile := filepath.Join(root, "metrics.prom")

	code, stdout, stderr := runCLI(t, "--metrics-file", metricsFile, "convert", dir, "--out", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "completed")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<acquisition1D>")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `nmrml_converter_conversions_total{result="completed"} 1`)
}

func TestConvertToStdout(t *testing.T) {
	dir := fixtures.WriteVarian(t, t.TempDir(), nil)

	code, stdout, stderr := runCLI(t, "convert", dir, "--format", "json")
	require.Equal(t, 0, code, stderr)

	var acq types.Acquisition
	require.NoError(t, json.Unmarshal([]byte(stdout), &acq))
	assert.Equal(t, types.FormatVarian, acq.Format)
	assert.Contains(t, stderr, "completed")
}

func TestConvertBatch(t *testing.T) {
	root := t.TempDir()
	a := fixtures.WriteBruker(t, filepath.Join(root, "a", "1"), nil)
	b := fixtures.WriteVarian(t, filepath.Join(root, "b.fid"), nil)
	outDir := filepath.Join(root, "out")

	code, stdout, stderr := runCLI(t, "convert", a, b, "--out", outDir)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(outDir, "a_1.nmrML"))
	assert.FileExists(t, filepath.Join(outDir, "b.nmrML"))
	assert.Equal(t, 2, strings.Count(stdout, "completed"))

	code, stdout, stderr = runCLI(t, "convert", a, filepath.Join(root, "missing"), "--out", outDir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "failed")
	assert.True(t, strings.HasPrefix(stderr, "读取采集参数失败: "), stderr)

	code, _, stderr = runCLI(t, "convert", a, b)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--out")
}

func TestDetectAndFormats(t *testing.T) {
	dir := fixtures.WriteBruker(t, t.TempDir(), nil)

	code, stdout, _ := runCLI(t, "detect", dir)
	require.Equal(t, 0, code)
	assert.Equal(t, "bruker\n", stdout)

	code, _, stderr := runCLI(t, "detect", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "读取采集参数失败")

	code, stdout, _ = runCLI(t, "formats")
	require.Equal(t, 0, code)
	assert.Equal(t, "bruker\nvarian\n", stdout)

	code, stdout, _ = runCLI(t, "example-config")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "output_format: xml")
}

func TestBadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "read", t.TempDir()}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "配置文件")
}
