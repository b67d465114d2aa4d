// Package catalogdto - input DTO cho domain catalog.
package catalogdto

// AddVariantInput là dữ liệu thêm một biến thể sản phẩm vào danh mục.
// Ảnh đính kèm gửi qua multipart (ImageData + ImageName) hoặc truyền sẵn ImageURL.
type AddVariantInput struct {
	Category    string  `json:"category" validate:"required,no_xss"`
	Model       string  `json:"model" validate:"required,no_xss"`
	Description string  `json:"description" validate:"omitempty,no_xss"`
	Points      int64   `json:"points" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	ProductID   int64   `json:"productid" validate:"gte=0"`
	Quantity    int64   `json:"quantity" validate:"gte=0"`
	ImageData   []byte  `json:"-"`
	ImageName   string  `json:"imageName,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// DeleteVariantInput là dữ liệu xóa một biến thể theo synthetic id + model.
// ID chấp nhận cả synthetic id "<docHex>-<index>" lẫn document key thuần.
type DeleteVariantInput struct {
	ID    string `json:"id" validate:"required"`
	Model string `json:"model" validate:"required"`
}

// UpdateVariantInput là dữ liệu sửa tại chỗ một biến thể trong danh mục.
// Chỉ các field khác nil được ghi đè.
type UpdateVariantInput struct {
	Key         string   `json:"key" validate:"required"`
	Model       string   `json:"model" validate:"required"`
	NewModel    *string  `json:"newModel,omitempty" validate:"omitempty,no_xss"`
	Description *string  `json:"description,omitempty" validate:"omitempty,no_xss"`
	Points      *int64   `json:"points,omitempty" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ProductID   *int64   `json:"productid,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int64   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

// AddPopularInput là dữ liệu thêm sản phẩm nổi bật.
// ProductID không nhận từ client — writer tự gán max(productid)+1.
type AddPopularInput struct {
	Category    string  `json:"category" validate:"required,no_xss"`
	Model       string  `json:"model" validate:"required,no_xss"`
	Description string  `json:"description" validate:"omitempty,no_xss"`
	Points      int64   `json:"points" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int64   `json:"quantity" validate:"gte=0"`
	ImageData   []byte  `json:"-"`
	ImageName   string  `json:"imageName,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}
