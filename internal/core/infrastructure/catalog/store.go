// Package catalog 提供基于 BadgerDB 的转换目录
//
// 每条记录以 (source, output) 为键，值为 snappy 压缩的 JSON。
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/golang/snappy"
	catalogconfig "github.com/nmrml/converter/internal/config/catalog"
	catalogInterface "github.com/nmrml/converter/pkg/interfaces/infrastructure/catalog"
	"github.com/nmrml/converter/pkg/interfaces/infrastructure/log"
	"github.com/nmrml/converter/pkg/types"
)

// keyPrefix 转换记录键前缀
const keyPrefix = "conv/"

// ErrClosed 目录库已关闭
var ErrClosed = errors.New("catalog closed")

// Store 实现 catalog.Store
type Store struct {
	db     *badgerdb.DB
	logger log.Logger

	mu     sync.RWMutex
	closed bool
}

// New 打开转换目录
func New(config *catalogconfig.Config, logger log.Logger) (catalogInterface.Store, error) {
	var opts badgerdb.Options
	if config.IsInMemory() {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
		logger.Debug("使用内存转换目录")
	} else {
		dataDir := config.GetPath()
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, fmt.Errorf("无法创建转换目录 %s: %w", dataDir, err)
		}
		opts = badgerdb.DefaultOptions(dataDir)
		logger.Debugf("打开转换目录: %s", dataDir)
	}

	opts.SyncWrites = config.IsSyncWritesEnabled()
	opts.MemTableSize = config.GetMemTableSize()
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.BlockCacheSize = 8 << 20
	opts.IndexCacheSize = 8 << 20
	opts.ValueLogFileSize = 16 << 20
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开转换目录失败: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// recordKey 记录键
func recordKey(source, output string) []byte {
	return []byte(keyPrefix + source + "\x00" + output)
}

// encodeRecord JSON 编码后 snappy 压缩
func encodeRecord(record *types.ConversionRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("编码转换记录失败: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// decodeRecord 解压并解码
func decodeRecord(value []byte) (*types.ConversionRecord, error) {
	data, err := snappy.Decode(nil, value)
	if err != nil {
		return nil, fmt.Errorf("解压转换记录失败: %w", err)
	}
	var record types.ConversionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("解码转换记录失败: %w", err)
	}
	return &record, nil
}

// Put 写入记录
func (s *Store) Put(ctx context.Context, record *types.ConversionRecord) error {
	if record == nil || record.Source == "" {
		return fmt.Errorf("转换记录缺少 source")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := encodeRecord(record)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(recordKey(record.Source, record.Output), value)
	})
}

// Get 查询记录
func (s *Store) Get(ctx context.Context, source, output string) (*types.ConversionRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, ErrClosed
	}

	var record *types.ConversionRecord
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(recordKey(source, output))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err := decodeRecord(val)
			if err != nil {
				return err
			}
			record = r
			return nil
		})
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// List 列出全部记录，损坏的记录被跳过并记录警告
func (s *Store) List(ctx context.Context) ([]*types.ConversionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var records []*types.ConversionRecord
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				r, err := decodeRecord(val)
				if err != nil {
					s.logger.Warnf("跳过损坏的转换记录 %q: %v", item.Key(), err)
					return nil
				}
				records = append(records, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete 删除记录
func (s *Store) Delete(ctx context.Context, source, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(recordKey(source, output))
	})
}

// Close 关闭目录库，重复关闭无副作用
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// badgerLogger BadgerDB 日志适配器
type badgerLogger struct {
	logger log.Logger
}

func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

// Errorf 输出错误日志
func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

// Warningf 输出警告日志
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Infof BadgerDB 的 info 很吵，降为 debug
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

// Debugf 输出调试日志
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
