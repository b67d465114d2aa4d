package catalogsvc

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ish_admin/internal/common"
	catalogmodels "ish_admin/internal/api/catalog/models"
)

// CategoryFromRecord decode RawRecord thành CategoryDocument với coercion khoan dung:
// số có thể là int32/int64/float64 tùy driver, mảng là primitive.A hoặc slice đã typed.
// Field models thiếu hoặc không phải mảng → document malformed, trả về lỗi
// (caller quyết định skip hay abort).
func CategoryFromRecord(rec RawRecord) (catalogmodels.CategoryDocument, error) {
	doc := catalogmodels.CategoryDocument{
		Category: asString(rec.Fields["category"]),
		ImageURL: asString(rec.Fields["imageUrl"]),
		Version:  asInt64(rec.Fields["version"]),
	}
	if rec.Key != "" {
		if oid, err := primitive.ObjectIDFromHex(rec.Key); err == nil {
			doc.ID = oid
		}
	}

	models, ok := asStringSlice(rec.Fields["models"])
	if !ok {
		return doc, common.NewError(
			common.ErrCodeValidationFormat,
			"Field models không phải mảng, document danh mục bị sai định dạng",
			common.StatusBadRequest,
			nil,
		)
	}
	doc.Models = models

	// Các mảng còn lại thiếu hoặc sai kiểu chỉ làm mất dữ liệu từng phần,
	// Variants() sẽ điền giá trị mặc định
	doc.Description, _ = asStringSlice(rec.Fields["description"])
	doc.Points = asInt64Slice(rec.Fields["points"])
	doc.Price = asFloat64Slice(rec.Fields["price"])
	doc.ProductID = asInt64Slice(rec.Fields["productid"])
	doc.Quantity = asInt64Slice(rec.Fields["quantity"])

	return doc, nil
}

// RecordFields chuyển CategoryDocument thành map field để Put/Create qua RecordStore.
// Version không nằm trong map — store tự quản lý version khi ghi có điều kiện.
func RecordFields(doc catalogmodels.CategoryDocument) map[string]interface{} {
	return map[string]interface{}{
		"category":    doc.Category,
		"description": doc.Description,
		"models":      doc.Models,
		"points":      doc.Points,
		"price":       doc.Price,
		"productid":   doc.ProductID,
		"quantity":    doc.Quantity,
		"imageUrl":    doc.ImageURL,
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// asSlice gom các dạng mảng driver trả về thành []interface{}
func asSlice(v interface{}) ([]interface{}, bool) {
	switch arr := v.(type) {
	case primitive.A:
		return arr, true
	case []interface{}:
		return arr, true
	case []string:
		out := make([]interface{}, len(arr))
		for i, s := range arr {
			out[i] = s
		}
		return out, true
	case []int64:
		out := make([]interface{}, len(arr))
		for i, n := range arr {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(arr))
		for i, n := range arr {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

func asStringSlice(v interface{}) ([]string, bool) {
	arr, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]string, len(arr))
	for i, item := range arr {
		out[i] = asString(item)
	}
	return out, true
}

func asInt64Slice(v interface{}) []int64 {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]int64, len(arr))
	for i, item := range arr {
		out[i] = asInt64(item)
	}
	return out
}

func asFloat64Slice(v interface{}) []float64 {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]float64, len(arr))
	for i, item := range arr {
		out[i] = asFloat64(item)
	}
	return out
}
