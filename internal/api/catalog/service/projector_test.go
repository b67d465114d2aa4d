// Package catalogsvc - Test Flattening Projector: expand mảng song song, default, malformed, ordering.
package catalogsvc

import (
	"context"
	"sort"
	"testing"

	"ish_admin/internal/storage"
)

func newTestProjector(store RecordStore) *Projector {
	return NewProjector(store, storage.NewMemoryBlobStore())
}

func TestFlatten_ProducesOneRowPerVariant(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Seed("productss", "aaaaaaaaaaaaaaaaaaaaaaaa", map[string]interface{}{
		"category":    "Electronics",
		"description": []string{"Tivi 42 inch", "Tivi 50 inch", "Tivi 55 inch"},
		"models":      []string{"TV-42", "TV-50", "TV-55"},
		"points":      []int64{10, 20, 30},
		"price":       []float64{100, 200, 300},
		"productid":   []int64{1, 2, 3},
		"quantity":    []int64{5, 6, 7},
		"imageUrl":    "https://example.com/tv.png",
	})

	p := newTestProjector(store)
	records, _ := store.ListAll(context.Background(), "productss")
	rows := p.Flatten(context.Background(), records)

	if len(rows) != 3 {
		t.Fatalf("Document 3 biến thể phải sinh đúng 3 dòng, nhận được %d", len(rows))
	}
	for _, row := range rows {
		if row.ImageURL != "https://example.com/tv.png" {
			t.Errorf("Mọi dòng phải mang chung imageUrl của document, dòng %s có %q", row.ID, row.ImageURL)
		}
	}
	if rows[0].ID != "aaaaaaaaaaaaaaaaaaaaaaaa-0" {
		t.Errorf("Synthetic id phải là <docHex>-<index>, nhận được %s", rows[0].ID)
	}
}

func TestFlatten_MalformedModelsContributesZeroRows(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Seed("productss", "aaaaaaaaaaaaaaaaaaaaaaaa", map[string]interface{}{
		"category": "Broken",
		"models":   "khong phai mang",
	})
	store.Seed("productss", "bbbbbbbbbbbbbbbbbbbbbbbb", map[string]interface{}{
		"category": "OK",
		"models":   []string{"M1"},
		"price":    []float64{10},
	})

	p := newTestProjector(store)
	records, _ := store.ListAll(context.Background(), "productss")
	rows := p.Flatten(context.Background(), records)

	if len(rows) != 1 {
		t.Fatalf("Document có models không phải mảng phải sinh 0 dòng, tổng phải là 1, nhận được %d", len(rows))
	}
	if rows[0].Category != "OK" {
		t.Errorf("Dòng còn lại phải thuộc document hợp lệ, nhận được category %q", rows[0].Category)
	}
}

func TestFlatten_ShortSequencesGetDefaults(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Seed("productss", "aaaaaaaaaaaaaaaaaaaaaaaa", map[string]interface{}{
		// category thiếu, description ngắn hơn models, các mảng số thiếu hẳn
		"models":      []string{"M1", "M2"},
		"description": []string{"Mo ta M1"},
	})

	p := newTestProjector(store)
	records, _ := store.ListAll(context.Background(), "productss")
	rows := p.Flatten(context.Background(), records)

	if len(rows) != 2 {
		t.Fatalf("Phải sinh 2 dòng, nhận được %d", len(rows))
	}
	for _, row := range rows {
		if row.Category != "Unknown Category" {
			t.Errorf("Category thiếu phải thành 'Unknown Category', nhận được %q", row.Category)
		}
		if row.Price != 0 || row.Points != 0 || row.Quantity != 0 || row.ProductID != 0 {
			t.Errorf("Giá trị số thiếu phải thành 0, dòng %s: %+v", row.ID, row)
		}
	}
	// M2 không có description tương ứng
	for _, row := range rows {
		if row.Model == "M2" && row.Description != "No Description" {
			t.Errorf("Description thiếu phải thành 'No Description', nhận được %q", row.Description)
		}
	}
}

func TestFlatten_OutputSortedByCategoryThenModel(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Seed("productss", "bbbbbbbbbbbbbbbbbbbbbbbb", map[string]interface{}{
		"category": "Zed",
		"models":   []string{"Z2", "Z1"},
	})
	store.Seed("productss", "aaaaaaaaaaaaaaaaaaaaaaaa", map[string]interface{}{
		"category": "Alpha",
		"models":   []string{"A1"},
	})

	p := newTestProjector(store)
	records, _ := store.ListAll(context.Background(), "productss")
	rows := p.Flatten(context.Background(), records)

	if len(rows) != 3 {
		t.Fatalf("Phải sinh 3 dòng, nhận được %d", len(rows))
	}
	if !sort.SliceIsSorted(rows, func(a, b int) bool {
		if rows[a].Category != rows[b].Category {
			return rows[a].Category < rows[b].Category
		}
		return rows[a].Model < rows[b].Model
	}) {
		t.Errorf("Output phải sắp xếp theo (category, model): %+v", rows)
	}
	if rows[0].Category != "Alpha" {
		t.Errorf("Dòng đầu phải thuộc category Alpha, nhận được %q", rows[0].Category)
	}
}

func TestSnapshot_CachesResult(t *testing.T) {
	store := NewMemoryRecordStore()
	store.Seed("productss", "aaaaaaaaaaaaaaaaaaaaaaaa", map[string]interface{}{
		"category": "Electronics",
		"models":   []string{"TV-42"},
	})

	p := newTestProjector(store)
	if _, ok := p.Cached("productss"); ok {
		t.Fatal("Cache phải rỗng trước khi Snapshot")
	}

	rows, err := p.Snapshot(context.Background(), "productss")
	if err != nil {
		t.Fatalf("Snapshot lỗi: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Snapshot phải trả về 1 dòng, nhận được %d", len(rows))
	}

	cached, ok := p.Cached("productss")
	if !ok || len(cached) != 1 {
		t.Errorf("Snapshot phải cache kết quả, cached=%v ok=%v", cached, ok)
	}
}
