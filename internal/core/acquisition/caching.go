package acquisition

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/nmrml/converter/internal/core/acquisition/paramfile"
	"github.com/nmrml/converter/internal/core/infrastructure/metrics"
	acquisitionInterface "github.com/nmrml/converter/pkg/interfaces/acquisition"
	cacheInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/cache"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// cacheKeyPrefix 缓存键前缀
const cacheKeyPrefix = "acq|"

// ParameterFileLocator 能给出参数文件路径的读取器
type ParameterFileLocator interface {
	ParameterFile() (string, error)
}

// SiblingFileLister 解析结果还取决于参数文件旁其他文件是否存在的读取器
// 例如 Bruker 的维数与 FID 路径取决于 acqu2s/acqu3s/ser
type SiblingFileLister interface {
	SiblingFiles() []string
}

// CachingReader 按参数文件指纹缓存解析结果
//
// 指纹由路径、修改时间与大小组成，文件被改写后自动失效；
// 若读取器实现 SiblingFileLister，相关文件的存在与否也计入指纹。
// 缓存读写失败只记日志，不影响读取结果。
type CachingReader struct {
	inner    acquisitionInterface.Reader
	locator  ParameterFileLocator
	format   types.SourceFormat
	store    cacheInterface.Store
	recorder *metrics.Recorder
	logger   log.Logger
}

// NewCachingReader 创建缓存装饰器
func NewCachingReader(inner acquisitionInterface.Reader, locator ParameterFileLocator, format types.SourceFormat, store cacheInterface.Store, recorder *metrics.Recorder, logger log.Logger) *CachingReader {
	return &CachingReader{
		inner:    inner,
		locator:  locator,
		format:   format,
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Read 实现 acquisition.Reader
func (r *CachingReader) Read() (*types.Acquisition, error) {
	key, ok := r.key()
	if !ok {
		return r.inner.Read()
	}

	ctx := context.Background()
	if acq, hit := r.lookup(ctx, key); hit {
		r.recorder.ObserveCacheLookup(true)
		return acq, nil
	}
	r.recorder.ObserveCacheLookup(false)

	acq, err := r.inner.Read()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(acq); err != nil {
		r.logger.Warnf("编码缓存条目失败: %v", err)
	} else if err := r.store.Set(ctx, key, data, 0); err != nil {
		r.logger.Warnf("写入缓存失败: %v", err)
	}
	return acq, nil
}

// key 参数文件不可访问时返回 false，交给内层读取器报告错误
func (r *CachingReader) key() (string, bool) {
	file, err := r.locator.ParameterFile()
	if err != nil {
		return "", false
	}
	fp, err := paramfile.Fingerprint(file)
	if err != nil {
		return "", false
	}
	key := cacheKeyPrefix + string(r.format) + "|" + fp
	if lister, ok := r.locator.(SiblingFileLister); ok {
		key += "|" + presence(lister.SiblingFiles())
	}
	return key, true
}

// presence 每个文件一位：1 存在，0 不存在
func presence(files []string) string {
	var b strings.Builder
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (r *CachingReader) lookup(ctx context.Context, key string) (*types.Acquisition, bool) {
	data, found, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warnf("读取缓存失败: %v", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var acq types.Acquisition
	if err := json.Unmarshal(data, &acq); err != nil {
		r.logger.Warnf("缓存条目损坏，丢弃: %v", err)
		_ = r.store.Delete(ctx, key)
		return nil, false
	}
	if err := acq.Validate(); err != nil {
		_ = r.store.Delete(ctx, key)
		return nil, false
	}
	return &acq, true
}
