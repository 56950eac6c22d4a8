package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore cache juso dạng một file JSON: {"<key>": {"roadAddr": ..., ...}}.
// Đọc toàn bộ khi khởi tạo. Mỗi Put đọc lại file, gộp bản ghi do process khác ghi,
// rồi ghi lại toàn bộ (temp file + rename). Hai process Put cùng lúc: process ghi sau thắng.
type FileStore struct {
	path   string
	data   map[string]map[string]string
	mu     sync.Mutex
	logger *zap.Logger
	hitCounter
}

// NewFileStore tạo FileStore; file không tồn tại hoặc hỏng được coi là cache rỗng
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs := &FileStore{
		path:   path,
		logger: logger,
	}
	fs.data = fs.readFile()
	return fs
}

// readFile đọc file cache; lỗi đọc hoặc JSON hỏng trả map rỗng, bản ghi sai kiểu bị bỏ qua
func (fs *FileStore) readFile() map[string]map[string]string {
	data := make(map[string]map[string]string)

	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.logger.Warn("Không đọc được file cache, dùng cache rỗng", zap.String("path", fs.path), zap.Error(err))
		}
		return data
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		fs.logger.Warn("File cache hỏng, dùng cache rỗng", zap.String("path", fs.path), zap.Error(err))
		return data
	}

	skipped := 0
	for key, entry := range entries {
		var value map[string]string
		if err := json.Unmarshal(entry, &value); err != nil || value == nil {
			skipped++
			continue
		}
		data[key] = value
	}
	if skipped > 0 {
		fs.logger.Warn("Bỏ qua bản ghi cache sai định dạng", zap.String("path", fs.path), zap.Int("skipped", skipped))
	}
	return data
}

// Get lấy bản ghi theo key
func (fs *FileStore) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	value, found := fs.data[key]
	fs.record(found)
	if !found {
		return nil, false, nil
	}
	return copyValue(value), true, nil
}

// Put đọc lại file, gộp với bộ nhớ, ghi bản ghi và lưu file ngay
func (fs *FileStore) Put(ctx context.Context, key string, value map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	// bản ghi trên đĩa (có thể do process khác ghi sau khi khởi tạo) được giữ lại
	for k, v := range fs.readFile() {
		fs.data[k] = v
	}
	fs.data[key] = copyValue(value)
	return fs.persist()
}

// Clear xóa toàn bộ cache và ghi file rỗng
func (fs *FileStore) Clear(ctx context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.data = make(map[string]map[string]string)
	fs.reset()
	return fs.persist()
}

// Stats thống kê cache
func (fs *FileStore) Stats() CacheStats {
	fs.mu.Lock()
	items := int64(len(fs.data))
	fs.mu.Unlock()
	return fs.stats("file", items)
}

// persist ghi file qua temp file + rename; gọi khi đang giữ mu
func (fs *FileStore) persist() error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tạo thư mục cache: %w", err)
	}

	payload, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("tạo file tạm: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ghi file tạm: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("đóng file tạm: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename file cache: %w", err)
	}
	return nil
}
