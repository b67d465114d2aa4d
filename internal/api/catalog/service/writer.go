package catalogsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	catalogdto "ish_admin/internal/api/catalog/dto"
	catalogmodels "ish_admin/internal/api/catalog/models"
	"ish_admin/internal/common"
	"ish_admin/internal/storage"
)

// Số lần retry khi ghi có điều kiện bị conflict version
const defaultWriteRetries = 3

// Writer dịch các thao tác trên một biến thể (add/delete/update) thành mutation
// trên CategoryDocument sở hữu nó, giữ invariant 6 mảng song song cùng độ dài.
// Mọi read-modify-write đều ghi có điều kiện trên version và retry khi conflict,
// nên hai lần add đồng thời vào cùng danh mục đều sống sót.
type Writer struct {
	store      RecordStore
	blobs      storage.BlobStore
	maxRetries int
}

// NewWriter tạo Writer trên RecordStore và BlobStore
func NewWriter(store RecordStore, blobs storage.BlobStore) *Writer {
	return &Writer{
		store:      store,
		blobs:      blobs,
		maxRetries: defaultWriteRetries,
	}
}

// AddVariant thêm một biến thể vào danh mục.
// - Danh mục đã có: append biến thể vào cuối cả 6 mảng (một lần ghi merge duy nhất).
// - Danh mục chưa có: tạo document mới với các mảng độ dài 1, version 0.
// - Upload ảnh thất bại: abort toàn bộ thao tác trước khi ghi store (ErrUploadFailed).
func (w *Writer) AddVariant(ctx context.Context, collection string, input *catalogdto.AddVariantInput) (catalogmodels.CategoryDocument, error) {
	var zero catalogmodels.CategoryDocument

	// Upload ảnh trước khi đụng vào store: lỗi ảnh không được để lại document thiếu ảnh
	imageRef := input.ImageURL
	if len(input.ImageData) > 0 {
		ref, err := w.blobs.Upload(ctx, input.ImageData, input.ImageName)
		if err != nil {
			return zero, common.ErrUploadFailed
		}
		imageRef = ref
	}

	variant := catalogmodels.Variant{
		Model:       input.Model,
		Description: input.Description,
		Points:      input.Points,
		Price:       input.Price,
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
	}
	if variant.Description == "" {
		variant.Description = catalogmodels.DefaultDescription
	}

	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		target, found, err := w.findCategoryDocument(ctx, collection, input.Category)
		if err != nil {
			return zero, err
		}

		if !found {
			doc := catalogmodels.CategoryDocument{
				Category: input.Category,
				ImageURL: imageRef,
			}
			doc.SetVariants([]catalogmodels.Variant{variant})
			key, err := w.store.Create(ctx, collection, RecordFields(doc))
			if err != nil {
				return zero, err
			}
			created, err := w.store.Get(ctx, collection, key)
			if err != nil {
				return zero, err
			}
			return CategoryFromRecord(created)
		}

		target.SetVariants(append(target.Variants(), variant))
		if imageRef != "" {
			target.ImageURL = imageRef
		}

		err = w.store.Put(ctx, collection, target.ID.Hex(), RecordFields(target), target.Version)
		if errors.Is(err, common.ErrWriteConflict) {
			logrus.WithFields(logrus.Fields{
				"collection": collection,
				"category":   input.Category,
				"attempt":    attempt + 1,
			}).Warn("Conflict version khi thêm biến thể, đọc lại và retry")
			continue
		}
		if err != nil {
			return zero, err
		}

		target.Version++
		return target, nil
	}

	return zero, common.ErrWriteConflict
}

// DeleteVariant xóa một biến thể theo synthetic id và model.
// Model không có trong danh mục → ErrModelNotFound, không ghi gì.
// Xóa index i khỏi cả 6 mảng trong một lần ghi merge duy nhất, có điều kiện version.
func (w *Writer) DeleteVariant(ctx context.Context, collection string, syntheticID string, model string) (catalogmodels.CategoryDocument, error) {
	var zero catalogmodels.CategoryDocument

	// Synthetic id "<docHex>-<index>": phần trước dấu "-" đầu tiên là document key
	key := syntheticID
	if i := strings.Index(syntheticID, "-"); i >= 0 {
		key = syntheticID[:i]
	}

	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		rec, err := w.store.Get(ctx, collection, key)
		if err != nil {
			return zero, err
		}
		doc, err := CategoryFromRecord(rec)
		if err != nil {
			return zero, err
		}

		i := doc.IndexOfModel(model)
		if i < 0 {
			return zero, common.ErrModelNotFound
		}

		variants := doc.Variants()
		variants = append(variants[:i], variants[i+1:]...)
		doc.SetVariants(variants)

		err = w.store.Put(ctx, collection, key, RecordFields(doc), doc.Version)
		if errors.Is(err, common.ErrWriteConflict) {
			continue
		}
		if err != nil {
			return zero, err
		}

		doc.Version++
		return doc, nil
	}

	return zero, common.ErrWriteConflict
}

// UpdateVariant sửa tại chỗ các field của một biến thể (xác định bằng model) trong danh mục.
// Chỉ các field khác nil trong input được ghi đè.
func (w *Writer) UpdateVariant(ctx context.Context, collection string, input *catalogdto.UpdateVariantInput) (catalogmodels.CategoryDocument, error) {
	var zero catalogmodels.CategoryDocument

	key := input.Key
	if i := strings.Index(key, "-"); i >= 0 {
		key = key[:i]
	}

	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		rec, err := w.store.Get(ctx, collection, key)
		if err != nil {
			return zero, err
		}
		doc, err := CategoryFromRecord(rec)
		if err != nil {
			return zero, err
		}

		i := doc.IndexOfModel(input.Model)
		if i < 0 {
			return zero, common.ErrModelNotFound
		}

		variants := doc.Variants()
		v := &variants[i]
		if input.NewModel != nil {
			v.Model = *input.NewModel
		}
		if input.Description != nil {
			v.Description = *input.Description
		}
		if input.Points != nil {
			v.Points = *input.Points
		}
		if input.Price != nil {
			v.Price = *input.Price
		}
		if input.ProductID != nil {
			v.ProductID = *input.ProductID
		}
		if input.Quantity != nil {
			v.Quantity = *input.Quantity
		}
		doc.SetVariants(variants)

		err = w.store.Put(ctx, collection, key, RecordFields(doc), doc.Version)
		if errors.Is(err, common.ErrWriteConflict) {
			continue
		}
		if err != nil {
			return zero, err
		}

		doc.Version++
		return doc, nil
	}

	return zero, common.ErrWriteConflict
}

// AddPopular thêm sản phẩm nổi bật: luôn tạo document mới,
// productid được gán max(productid trên toàn collection) + 1.
func (w *Writer) AddPopular(ctx context.Context, collection string, input *catalogdto.AddPopularInput) (catalogmodels.CategoryDocument, error) {
	var zero catalogmodels.CategoryDocument

	imageRef := input.ImageURL
	if len(input.ImageData) > 0 {
		ref, err := w.blobs.Upload(ctx, input.ImageData, input.ImageName)
		if err != nil {
			return zero, common.ErrUploadFailed
		}
		imageRef = ref
	}

	maxID, err := w.maxProductID(ctx, collection)
	if err != nil {
		return zero, err
	}

	variant := catalogmodels.Variant{
		Model:       input.Model,
		Description: input.Description,
		Points:      input.Points,
		Price:       input.Price,
		ProductID:   maxID + 1,
		Quantity:    input.Quantity,
	}
	if variant.Description == "" {
		variant.Description = catalogmodels.DefaultDescription
	}

	doc := catalogmodels.CategoryDocument{
		Category: input.Category,
		ImageURL: imageRef,
	}
	doc.SetVariants([]catalogmodels.Variant{variant})

	key, err := w.store.Create(ctx, collection, RecordFields(doc))
	if err != nil {
		return zero, err
	}
	created, err := w.store.Get(ctx, collection, key)
	if err != nil {
		return zero, err
	}
	return CategoryFromRecord(created)
}

// findCategoryDocument tìm document theo category (so khớp chính xác).
// Nhiều document trùng category (dữ liệu bẩn): chọn document có key hex nhỏ nhất
// để mọi lần chạy đều chọn cùng một document.
func (w *Writer) findCategoryDocument(ctx context.Context, collection string, category string) (catalogmodels.CategoryDocument, bool, error) {
	var zero catalogmodels.CategoryDocument

	records, err := w.store.ListAll(ctx, collection)
	if err != nil {
		return zero, false, err
	}

	var target catalogmodels.CategoryDocument
	found := false
	for _, rec := range records {
		doc, err := CategoryFromRecord(rec)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   rec.Key,
				"error": err.Error(),
			}).Warn("Bỏ qua document danh mục sai định dạng khi tìm theo category")
			continue
		}
		if doc.Category != category {
			continue
		}
		if !found || doc.ID.Hex() < target.ID.Hex() {
			target = doc
			found = true
		}
	}
	return target, found, nil
}

// maxProductID quét toàn collection lấy productid lớn nhất, 0 khi collection rỗng
func (w *Writer) maxProductID(ctx context.Context, collection string) (int64, error) {
	records, err := w.store.ListAll(ctx, collection)
	if err != nil {
		return 0, err
	}

	var max int64
	for _, rec := range records {
		for _, id := range asInt64Slice(rec.Fields["productid"]) {
			if id > max {
				max = id
			}
		}
	}
	return max, nil
}
