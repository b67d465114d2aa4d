// Package models - model danh mục sản phẩm (CategoryDocument) thuộc domain catalog.
// Mỗi document gom tất cả biến thể sản phẩm cùng danh mục, lưu dưới dạng 6 mảng song song cùng độ dài.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Giá trị mặc định khi dữ liệu thiếu hoặc mảng ngắn hơn models
const (
	DefaultCategory    = "Unknown Category"
	DefaultDescription = "No Description"
)

// CategoryDocument định nghĩa mô hình danh mục sản phẩm.
// 6 mảng Description/Models/Points/Price/ProductID/Quantity phải luôn cùng độ dài N,
// index i trên cả 6 mảng mô tả một biến thể. Store không ép buộc điều này —
// mọi mutation phải đi qua Variants()/SetVariants() để giữ invariant.
type CategoryDocument struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Category    string             `json:"category" bson:"category" index:"single"`
	Description []string           `json:"description" bson:"description"`
	Models      []string           `json:"models" bson:"models"`
	Points      []int64            `json:"points" bson:"points"`
	Price       []float64          `json:"price" bson:"price"`
	ProductID   []int64            `json:"productid" bson:"productid"`
	Quantity    []int64            `json:"quantity" bson:"quantity"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	Version     int64              `json:"version" bson:"version"`
	CreatedAt   int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Variant là một biến thể sản phẩm trong danh mục (một index trên 6 mảng song song)
type Variant struct {
	Model       string  `json:"model"`
	Description string  `json:"description"`
	Points      int64   `json:"points"`
	Price       float64 `json:"price"`
	ProductID   int64   `json:"productid"`
	Quantity    int64   `json:"quantity"`
}

// FlattenedProduct là một dòng hiển thị cho một biến thể, sinh ra từ (document, index).
// Không bao giờ được persist, rebuild trên mỗi lần đọc.
type FlattenedProduct struct {
	ID          string  `json:"id"` // "<docHex>-<index>"
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Model       string  `json:"model"`
	Points      int64   `json:"points"`
	Price       float64 `json:"price"`
	ProductID   int64   `json:"productid"`
	Quantity    int64   `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
}

// Variants chuyển 6 mảng song song thành slice Variant.
// Độ dài lấy theo Models; mảng nào ngắn hơn sẽ được điền giá trị mặc định,
// nên đọc một document lệch độ dài không bao giờ panic.
func (d *CategoryDocument) Variants() []Variant {
	n := len(d.Models)
	variants := make([]Variant, n)
	for i := 0; i < n; i++ {
		v := Variant{Model: d.Models[i], Description: DefaultDescription}
		if i < len(d.Description) && d.Description[i] != "" {
			v.Description = d.Description[i]
		}
		if i < len(d.Points) {
			v.Points = d.Points[i]
		}
		if i < len(d.Price) {
			v.Price = d.Price[i]
		}
		if i < len(d.ProductID) {
			v.ProductID = d.ProductID[i]
		}
		if i < len(d.Quantity) {
			v.Quantity = d.Quantity[i]
		}
		variants[i] = v
	}
	return variants
}

// SetVariants ghi lại 6 mảng song song từ slice Variant.
// Đây là đường ghi duy nhất cho các mảng — đảm bảo 6 mảng luôn cùng độ dài.
func (d *CategoryDocument) SetVariants(variants []Variant) {
	n := len(variants)
	d.Description = make([]string, n)
	d.Models = make([]string, n)
	d.Points = make([]int64, n)
	d.Price = make([]float64, n)
	d.ProductID = make([]int64, n)
	d.Quantity = make([]int64, n)
	for i, v := range variants {
		d.Description[i] = v.Description
		d.Models[i] = v.Model
		d.Points[i] = v.Points
		d.Price[i] = v.Price
		d.ProductID[i] = v.ProductID
		d.Quantity[i] = v.Quantity
	}
}

// IndexOfModel trả về index đầu tiên của model trong Models, -1 nếu không có
func (d *CategoryDocument) IndexOfModel(model string) int {
	for i, m := range d.Models {
		if m == model {
			return i
		}
	}
	return -1
}
