// Package paramfile 读取厂商参数文件：大小限制、字符集解码、内容摘要与缓存指纹
package paramfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nmrml/converter/internal/core/acquisition/charset"
)

// ErrTooLarge 参数文件超过大小限制
var ErrTooLarge = errors.New("parameter file too large")

// Read 读取参数文件并按字符集解码为 UTF-8
//
// maxSize <= 0 表示不限制。
func Read(path string, maxSize int64, cs string) ([]byte, error) {
	raw, err := readLimited(path, maxSize)
	if err != nil {
		return nil, err
	}
	return charset.Decode(raw, cs)
}

// Digest 参数文件内容的 sha256 十六进制摘要
func Digest(path string, maxSize int64) (string, error) {
	raw, err := readLimited(path, maxSize)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Fingerprint 由路径、修改时间与大小组成的缓存指纹，不读取内容
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s 是目录", path)
	}
	return path + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10) + "|" + strconv.FormatInt(info.Size(), 10), nil
}

func readLimited(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s 是目录", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s (%d > %d 字节)", ErrTooLarge, path, info.Size(), maxSize)
	}

	var r io.Reader = f
	if maxSize > 0 {
		// 文件在 Stat 之后仍可能增长
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	return data, nil
}
