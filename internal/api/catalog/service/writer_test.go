// Package catalogsvc - Test Reconciliation Writer: add/delete/update biến thể, tie-break, concurrency.
package catalogsvc

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	catalogdto "ish_admin/internal/api/catalog/dto"
	"ish_admin/internal/common"
	"ish_admin/internal/storage"
)

const testCollection = "productss"

func newTestWriter(store RecordStore) *Writer {
	return NewWriter(store, storage.NewMemoryBlobStore())
}

func seedElectronics(store *MemoryRecordStore, key string) {
	store.Seed(testCollection, key, map[string]interface{}{
		"category":    "Electronics",
		"description": []string{"Tivi A", "Tivi B"},
		"models":      []string{"A", "B"},
		"points":      []int64{1, 2},
		"price":       []float64{10, 20},
		"productid":   []int64{100, 200},
		"quantity":    []int64{1, 2},
		"imageUrl":    "https://example.com/tv.png",
		"version":     int64(0),
	})
}

func TestAddVariant_AppendsToExistingCategory(t *testing.T) {
	store := NewMemoryRecordStore()
	seedElectronics(store, "aaaaaaaaaaaaaaaaaaaaaaaa")
	w := newTestWriter(store)

	doc, err := w.AddVariant(context.Background(), testCollection, &catalogdto.AddVariantInput{
		Category: "Electronics",
		Model:    "C",
		Points:   3,
		Price:    30,
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("AddVariant lỗi: %v", err)
	}

	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(doc.Models, want) {
		t.Errorf("Models sau add phải là %v, nhận được %v", want, doc.Models)
	}
	// Cả 6 mảng phải cùng độ dài
	if len(doc.Description) != 3 || len(doc.Points) != 3 || len(doc.Price) != 3 ||
		len(doc.ProductID) != 3 || len(doc.Quantity) != 3 {
		t.Errorf("6 mảng phải cùng độ dài 3 sau add: %+v", doc)
	}
}

func TestAddVariant_CreatesNewCategoryDocument(t *testing.T) {
	store := NewMemoryRecordStore()
	w := newTestWriter(store)

	doc, err := w.AddVariant(context.Background(), testCollection, &catalogdto.AddVariantInput{
		Category: "Furniture",
		Model:    "Ghe-01",
		Price:    50,
		Quantity: 4,
	})
	if err != nil {
		t.Fatalf("AddVariant lỗi: %v", err)
	}

	if len(doc.Models) != 1 || doc.Models[0] != "Ghe-01" {
		t.Errorf("Danh mục mới phải có các mảng độ dài 1, nhận được models=%v", doc.Models)
	}
	if doc.Version != 0 {
		t.Errorf("Document mới phải có version 0, nhận được %d", doc.Version)
	}
	if doc.Description[0] != "No Description" {
		t.Errorf("Description thiếu phải là 'No Description', nhận được %q", doc.Description[0])
	}
}

func TestAddThenDelete_RoundTripRestoresOriginal(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	seedElectronics(store, key)
	w := newTestWriter(store)
	ctx := context.Background()

	original, err := store.Get(ctx, testCollection, key)
	if err != nil {
		t.Fatal(err)
	}
	originalDoc, _ := CategoryFromRecord(original)

	if _, err := w.AddVariant(ctx, testCollection, &catalogdto.AddVariantInput{
		Category: "Electronics",
		Model:    "C",
		Price:    30,
	}); err != nil {
		t.Fatalf("AddVariant lỗi: %v", err)
	}

	after, err := w.DeleteVariant(ctx, testCollection, key+"-2", "C")
	if err != nil {
		t.Fatalf("DeleteVariant lỗi: %v", err)
	}

	if !reflect.DeepEqual(after.Models, originalDoc.Models) ||
		!reflect.DeepEqual(after.Price, originalDoc.Price) ||
		!reflect.DeepEqual(after.Quantity, originalDoc.Quantity) ||
		!reflect.DeepEqual(after.ProductID, originalDoc.ProductID) ||
		!reflect.DeepEqual(after.Points, originalDoc.Points) {
		t.Errorf("Add rồi delete phải trả document về trạng thái ban đầu.\nTrước: %+v\nSau: %+v", originalDoc, after)
	}
}

func TestDeleteVariant_RemovesIndexFromAllSequences(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	store.Seed(testCollection, key, map[string]interface{}{
		"category": "Electronics",
		"models":   []string{"A", "B"},
		"price":    []float64{10, 20},
		"quantity": []int64{1, 2},
		"version":  int64(0),
	})
	w := newTestWriter(store)

	doc, err := w.DeleteVariant(context.Background(), testCollection, key, "A")
	if err != nil {
		t.Fatalf("DeleteVariant lỗi: %v", err)
	}

	if !reflect.DeepEqual(doc.Models, []string{"B"}) {
		t.Errorf("Models phải là [B], nhận được %v", doc.Models)
	}
	if !reflect.DeepEqual(doc.Price, []float64{20}) {
		t.Errorf("Price phải là [20], nhận được %v", doc.Price)
	}
	if !reflect.DeepEqual(doc.Quantity, []int64{2}) {
		t.Errorf("Quantity phải là [2], nhận được %v", doc.Quantity)
	}
}

func TestDeleteVariant_ModelNotFoundLeavesDocumentUnchanged(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	seedElectronics(store, key)
	w := newTestWriter(store)
	ctx := context.Background()

	before, _ := store.Get(ctx, testCollection, key)

	_, err := w.DeleteVariant(ctx, testCollection, key, "KhongTonTai")
	if !errors.Is(err, common.ErrModelNotFound) {
		t.Fatalf("Model không tồn tại phải trả về ErrModelNotFound, nhận được: %v", err)
	}

	after, _ := store.Get(ctx, testCollection, key)
	if !reflect.DeepEqual(before.Fields, after.Fields) {
		t.Error("Delete model không tồn tại không được ghi gì vào document")
	}
}

func TestDeleteVariant_SyntheticIDSplitsOnFirstDash(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	seedElectronics(store, key)
	w := newTestWriter(store)

	doc, err := w.DeleteVariant(context.Background(), testCollection, key+"-1", "B")
	if err != nil {
		t.Fatalf("DeleteVariant với synthetic id lỗi: %v", err)
	}
	if !reflect.DeepEqual(doc.Models, []string{"A"}) {
		t.Errorf("Models phải là [A], nhận được %v", doc.Models)
	}
}

func TestAddVariant_DuplicateCategoryPicksLowestKey(t *testing.T) {
	store := NewMemoryRecordStore()
	// Hai document cùng category (dữ liệu bẩn), key hex khác nhau
	seedElectronics(store, "bbbbbbbbbbbbbbbbbbbbbbbb")
	seedElectronics(store, "aaaaaaaaaaaaaaaaaaaaaaaa")
	w := newTestWriter(store)
	ctx := context.Background()

	for run := 0; run < 3; run++ {
		doc, err := w.AddVariant(ctx, testCollection, &catalogdto.AddVariantInput{
			Category: "Electronics",
			Model:    "C",
		})
		if err != nil {
			t.Fatalf("AddVariant lần %d lỗi: %v", run+1, err)
		}
		if doc.ID.Hex() != "aaaaaaaaaaaaaaaaaaaaaaaa" {
			t.Fatalf("Lần %d: phải luôn chọn document có key nhỏ nhất, nhận được %s", run+1, doc.ID.Hex())
		}
		// Trả document về trạng thái cũ cho lần chạy sau
		if _, err := w.DeleteVariant(ctx, testCollection, "aaaaaaaaaaaaaaaaaaaaaaaa", "C"); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAddVariant_ConcurrentAddsBothSurvive(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	store.Seed(testCollection, key, map[string]interface{}{
		"category": "Electronics",
		"models":   []string{"A"},
		"price":    []float64{10},
		"version":  int64(0),
	})
	w := newTestWriter(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.AddVariant(context.Background(), testCollection, &catalogdto.AddVariantInput{
				Category: "Electronics",
				Model:    []string{"B", "C"}[i],
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Add đồng thời thứ %d lỗi: %v", i+1, err)
		}
	}

	rec, err := store.Get(context.Background(), testCollection, key)
	if err != nil {
		t.Fatal(err)
	}
	doc, _ := CategoryFromRecord(rec)
	if len(doc.Models) != 3 {
		t.Errorf("Hai add đồng thời đều phải sống sót (N tăng 2), nhận được models=%v", doc.Models)
	}
}

func TestAddVariant_ImageUploadFailureAbortsBeforeWrite(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	seedElectronics(store, key)

	blobs := storage.NewMemoryBlobStore()
	blobs.FailUploads = true
	w := NewWriter(store, blobs)
	ctx := context.Background()

	before, _ := store.Get(ctx, testCollection, key)

	_, err := w.AddVariant(ctx, testCollection, &catalogdto.AddVariantInput{
		Category:  "Electronics",
		Model:     "C",
		ImageData: []byte("anh"),
		ImageName: "c.png",
	})
	if !errors.Is(err, common.ErrUploadFailed) {
		t.Fatalf("Upload ảnh lỗi phải trả về ErrUploadFailed, nhận được: %v", err)
	}

	after, _ := store.Get(ctx, testCollection, key)
	if !reflect.DeepEqual(before.Fields, after.Fields) {
		t.Error("Upload ảnh lỗi phải abort trước khi ghi store")
	}
}

func TestUpdateVariant_PatchesFieldsInPlace(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	seedElectronics(store, key)
	w := newTestWriter(store)

	newPrice := 99.0
	newDesc := "Tivi A ban moi"
	doc, err := w.UpdateVariant(context.Background(), testCollection, &catalogdto.UpdateVariantInput{
		Key:         key,
		Model:       "A",
		Price:       &newPrice,
		Description: &newDesc,
	})
	if err != nil {
		t.Fatalf("UpdateVariant lỗi: %v", err)
	}

	if doc.Price[0] != 99 {
		t.Errorf("Price[0] phải là 99, nhận được %v", doc.Price[0])
	}
	if doc.Description[0] != "Tivi A ban moi" {
		t.Errorf("Description[0] phải được ghi đè, nhận được %q", doc.Description[0])
	}
	// Biến thể còn lại giữ nguyên
	if doc.Price[1] != 20 || doc.Models[1] != "B" {
		t.Errorf("Biến thể khác không được thay đổi: %+v", doc)
	}
}

func TestUpdateVariant_ModelNotFound(t *testing.T) {
	store := NewMemoryRecordStore()
	key := "aaaaaaaaaaaaaaaaaaaaaaaa"
	seedElectronics(store, key)
	w := newTestWriter(store)

	_, err := w.UpdateVariant(context.Background(), testCollection, &catalogdto.UpdateVariantInput{
		Key:   key,
		Model: "KhongTonTai",
	})
	if !errors.Is(err, common.ErrModelNotFound) {
		t.Errorf("Update model không tồn tại phải trả về ErrModelNotFound, nhận được: %v", err)
	}
}

func TestAddPopular_AssignsMaxProductIDPlusOne(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Seed("popular_products", "aaaaaaaaaaaaaaaaaaaaaaaa", map[string]interface{}{
		"category":  "Electronics",
		"models":    []string{"A"},
		"productid": []int64{7},
	})
	store.Seed("popular_products", "bbbbbbbbbbbbbbbbbbbbbbbb", map[string]interface{}{
		"category":  "Furniture",
		"models":    []string{"B"},
		"productid": []int64{12},
	})
	w := newTestWriter(store)

	doc, err := w.AddPopular(context.Background(), "popular_products", &catalogdto.AddPopularInput{
		Category: "Toys",
		Model:    "Robot-01",
	})
	if err != nil {
		t.Fatalf("AddPopular lỗi: %v", err)
	}

	if len(doc.ProductID) != 1 || doc.ProductID[0] != 13 {
		t.Errorf("Popular add phải gán productid = max+1 = 13, nhận được %v", doc.ProductID)
	}

	records, _ := store.ListAll(context.Background(), "popular_products")
	if len(records) != 3 {
		t.Errorf("Popular add phải luôn tạo document mới, có %d document", len(records))
	}
}
