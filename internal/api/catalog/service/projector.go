package catalogsvc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	catalogmodels "ish_admin/internal/api/catalog/models"
	"ish_admin/internal/storage"
)

// Projector expand các CategoryDocument thành danh sách FlattenedProduct (một dòng một biến thể).
// Thuần đọc: không bao giờ ghi vào store.
type Projector struct {
	store RecordStore
	blobs storage.BlobStore

	mu sync.Mutex
	// fetchSeq cấp token tăng dần cho mỗi lần Snapshot;
	// kết quả của fetch có token cũ hơn appliedToken bị bỏ, không ghi đè cache
	// (last-requested wins, không phải last-resolved wins)
	fetchSeq     uint64
	appliedToken map[string]uint64
	cache        map[string][]catalogmodels.FlattenedProduct
}

// NewProjector tạo Projector trên RecordStore và BlobStore
func NewProjector(store RecordStore, blobs storage.BlobStore) *Projector {
	return &Projector{
		store:        store,
		blobs:        blobs,
		appliedToken: make(map[string]uint64),
		cache:        make(map[string][]catalogmodels.FlattenedProduct),
	}
}

// Flatten expand danh sách RawRecord thành các dòng FlattenedProduct.
// - Document có models thiếu/không phải mảng: 0 dòng, log warning, không fatal.
// - Mảng ngắn hoặc giá trị thiếu: điền giá trị mặc định ("Unknown Category",
//   "No Description", 0) thay vì lỗi.
// - imageUrl resolve một lần cho mỗi document rồi copy vào mọi dòng.
// - Output sắp xếp ổn định theo (category, model, index) để phân trang deterministic.
func (p *Projector) Flatten(ctx context.Context, records []RawRecord) []catalogmodels.FlattenedProduct {
	type indexedRow struct {
		row   catalogmodels.FlattenedProduct
		index int
	}
	rows := make([]indexedRow, 0, len(records))

	for _, rec := range records {
		doc, err := CategoryFromRecord(rec)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   rec.Key,
				"error": err.Error(),
			}).Warn("Bỏ qua document danh mục sai định dạng khi flatten")
			continue
		}

		category := doc.Category
		if category == "" {
			category = catalogmodels.DefaultCategory
		}
		imageURL := p.blobs.Resolve(ctx, doc.ImageURL)

		for i, v := range doc.Variants() {
			rows = append(rows, indexedRow{
				index: i,
				row: catalogmodels.FlattenedProduct{
					ID:          fmt.Sprintf("%s-%d", rec.Key, i),
					Category:    category,
					Description: v.Description,
					Model:       v.Model,
					Points:      v.Points,
					Price:       v.Price,
					ProductID:   v.ProductID,
					Quantity:    v.Quantity,
					ImageURL:    imageURL,
				},
			})
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].row.Category != rows[b].row.Category {
			return rows[a].row.Category < rows[b].row.Category
		}
		if rows[a].row.Model != rows[b].row.Model {
			return rows[a].row.Model < rows[b].row.Model
		}
		return rows[a].index < rows[b].index
	})

	out := make([]catalogmodels.FlattenedProduct, len(rows))
	for i, r := range rows {
		out[i] = r.row
	}
	return out
}

// Snapshot fetch toàn bộ collection qua RecordStore, flatten và cache kết quả.
// Mỗi lần gọi mang một token tăng dần; fetch hoàn thành muộn với token cũ
// không được ghi vào cache, tránh kết quả stale đè lên kết quả mới hơn.
func (p *Projector) Snapshot(ctx context.Context, collection string) ([]catalogmodels.FlattenedProduct, error) {
	token := atomic.AddUint64(&p.fetchSeq, 1)

	records, err := p.store.ListAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	flattened := p.Flatten(ctx, records)

	p.mu.Lock()
	defer p.mu.Unlock()
	if token > p.appliedToken[collection] {
		p.appliedToken[collection] = token
		p.cache[collection] = flattened
	}
	return flattened, nil
}

// Cached trả về snapshot gần nhất đã flatten cho collection (nếu có)
func (p *Projector) Cached(collection string) ([]catalogmodels.FlattenedProduct, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows, ok := p.cache[collection]
	return rows, ok
}
