// Package catalogsvc - service domain catalog: record store, projector và reconciliation writer.
package catalogsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ish_admin/internal/common"
	"ish_admin/internal/global"
)

// RawRecord là một document thô đọc từ store: key (ObjectID hex) + các field đã decode
type RawRecord struct {
	Key    string
	Fields map[string]interface{}
}

// RecordStore là interface truy cập collection danh mục sản phẩm.
// Không chứa business logic; memoryRecordStore thay thế được cho test.
type RecordStore interface {
	// ListAll trả về toàn bộ document trong collection
	ListAll(ctx context.Context, collection string) ([]RawRecord, error)
	// Get trả về một document theo key, common.ErrNotFound nếu không có
	Get(ctx context.Context, collection string, key string) (RawRecord, error)
	// Put ghi đè các field trong một lần merge duy nhất, có điều kiện trên version.
	// expectedVersion không khớp với version hiện tại trả về common.ErrWriteConflict, không ghi gì.
	Put(ctx context.Context, collection string, key string, fields map[string]interface{}, expectedVersion int64) error
	// Create tạo document mới, trả về key
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	// Delete xóa một document theo key
	Delete(ctx context.Context, collection string, key string) error
}

// MongoRecordStore triển khai RecordStore trên các collection MongoDB đã đăng ký trong registry
type MongoRecordStore struct{}

// NewMongoRecordStore tạo MongoRecordStore
func NewMongoRecordStore() *MongoRecordStore {
	return &MongoRecordStore{}
}

// collection lấy handle collection từ registry toàn cục
func (s *MongoRecordStore) collection(name string) (*mongo.Collection, error) {
	coll, exist := global.RegistryCollections.Get(name)
	if !exist {
		return nil, fmt.Errorf("failed to get collection %s: %w", name, common.ErrNotFound)
	}
	return coll, nil
}

// ListAll trả về toàn bộ document trong collection
func (s *MongoRecordStore) ListAll(ctx context.Context, collection string) ([]RawRecord, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	records := make([]RawRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, rawRecordFromDoc(doc))
	}
	return records, nil
}

// Get trả về một document theo key
func (s *MongoRecordStore) Get(ctx context.Context, collection string, key string) (RawRecord, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return RawRecord{}, err
	}

	oid, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return RawRecord{}, common.ErrInvalidFormat
	}

	var doc bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return RawRecord{}, common.ErrNotFound
		}
		return RawRecord{}, common.ConvertMongoError(err)
	}

	return rawRecordFromDoc(doc), nil
}

// Put ghi các field trong một UpdateOne duy nhất, điều kiện trên version hiện tại.
// Document cũ chưa có field version được coi là version 0.
func (s *MongoRecordStore) Put(ctx context.Context, collection string, key string, fields map[string]interface{}, expectedVersion int64) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return common.ErrInvalidFormat
	}

	versionCond := []bson.M{{"version": expectedVersion}}
	if expectedVersion == 0 {
		versionCond = append(versionCond, bson.M{"version": bson.M{"$exists": false}})
	}
	filter := bson.M{
		"_id": oid,
		"$or": versionCond,
	}

	set := make(bson.M, len(fields)+2)
	for k, v := range fields {
		set[k] = v
	}
	set["version"] = expectedVersion + 1
	set["updatedAt"] = time.Now().UnixMilli()

	result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return common.ConvertMongoError(err)
	}

	if result.MatchedCount == 0 {
		// Phân biệt document không tồn tại với version lệch
		count, countErr := coll.CountDocuments(ctx, bson.M{"_id": oid})
		if countErr != nil {
			return common.ConvertMongoError(countErr)
		}
		if count == 0 {
			return common.ErrNotFound
		}
		return common.ErrWriteConflict
	}

	return nil
}

// Create tạo document mới với version 0 và timestamps
func (s *MongoRecordStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return "", err
	}

	now := time.Now().UnixMilli()
	doc := make(bson.M, len(fields)+3)
	for k, v := range fields {
		doc[k] = v
	}
	if _, ok := doc["version"]; !ok {
		doc["version"] = int64(0)
	}
	doc["createdAt"] = now
	doc["updatedAt"] = now

	result, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", common.ConvertMongoError(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", common.ErrInvalidFormat
	}
	return oid.Hex(), nil
}

// Delete xóa một document theo key
func (s *MongoRecordStore) Delete(ctx context.Context, collection string, key string) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return common.ErrInvalidFormat
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// rawRecordFromDoc tách _id ra khỏi fields và trả về RawRecord
func rawRecordFromDoc(doc bson.M) RawRecord {
	rec := RawRecord{Fields: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				rec.Key = oid.Hex()
			}
			continue
		}
		rec.Fields[k] = v
	}
	return rec
}
