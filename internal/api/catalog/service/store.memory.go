package catalogsvc

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ish_admin/internal/common"
)

// MemoryRecordStore là RecordStore lưu trong bộ nhớ, thay thế MongoRecordStore
// khi test projector/writer không cần database.
type MemoryRecordStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
}

// NewMemoryRecordStore tạo MemoryRecordStore rỗng
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		collections: make(map[string]map[string]map[string]interface{}),
	}
}

// Seed đặt trực tiếp một document với key cho trước (dùng trong test)
func (s *MemoryRecordStore) Seed(collection string, key string, fields map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	s.collections[collection][key] = copyFields(fields)
}

// ListAll trả về toàn bộ document trong collection
func (s *MemoryRecordStore) ListAll(ctx context.Context, collection string) ([]RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]RawRecord, 0, len(s.collections[collection]))
	for key, fields := range s.collections[collection] {
		records = append(records, RawRecord{Key: key, Fields: copyFields(fields)})
	}
	return records, nil
}

// Get trả về một document theo key
func (s *MemoryRecordStore) Get(ctx context.Context, collection string, key string) (RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, exists := s.collections[collection][key]
	if !exists {
		return RawRecord{}, common.ErrNotFound
	}
	return RawRecord{Key: key, Fields: copyFields(fields)}, nil
}

// Put ghi các field có điều kiện trên version, giống MongoRecordStore
func (s *MemoryRecordStore) Put(ctx context.Context, collection string, key string, fields map[string]interface{}, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.collections[collection][key]
	if !exists {
		return common.ErrNotFound
	}

	currentVersion := asInt64(current["version"])
	if currentVersion != expectedVersion {
		return common.ErrWriteConflict
	}

	for k, v := range fields {
		current[k] = v
	}
	current["version"] = expectedVersion + 1
	return nil
}

// Create tạo document mới với key ObjectID hex và version 0
func (s *MemoryRecordStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}

	key := primitive.NewObjectID().Hex()
	doc := copyFields(fields)
	if _, ok := doc["version"]; !ok {
		doc["version"] = int64(0)
	}
	s.collections[collection][key] = doc
	return key, nil
}

// Delete xóa một document theo key
func (s *MemoryRecordStore) Delete(ctx context.Context, collection string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[collection][key]; !exists {
		return common.ErrNotFound
	}
	delete(s.collections[collection], key)
	return nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
