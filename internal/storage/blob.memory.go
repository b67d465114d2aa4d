package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ish_admin/internal/common"
)

// MemoryBlobStore là BlobStore lưu trong bộ nhớ, dùng cho test và chạy local không có Firebase.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailUploads bật để giả lập lỗi upload
	FailUploads bool
}

// NewMemoryBlobStore tạo MemoryBlobStore rỗng
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		objects: make(map[string][]byte),
	}
}

// Upload lưu dữ liệu vào map, gắn hậu tố uuid khi trùng tên
func (s *MemoryBlobStore) Upload(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if s.FailUploads {
		return "", common.ErrUploadFailed
	}
	if len(data) == 0 {
		return "", common.NewError(common.ErrCodeValidationInput, "Dữ liệu ảnh rỗng", common.StatusBadRequest, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := sanitizeObjectName(suggestedName)
	objectPath := path.Join("products", name)
	if _, exists := s.objects[objectPath]; exists {
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		objectPath = path.Join("products", fmt.Sprintf("%s_%s%s", base, uuid.New().String(), ext))
	}

	s.objects[objectPath] = data
	return objectPath, nil
}

// Resolve trả về reference nguyên bản nếu object tồn tại, rỗng nếu không
func (s *MemoryBlobStore) Resolve(ctx context.Context, reference string) string {
	if reference == "" {
		return ""
	}
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return reference
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, exists := s.objects[reference]; !exists {
		return ""
	}
	return reference
}

// Len trả về số object đang lưu
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
