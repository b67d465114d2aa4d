// Package models - model đơn hàng (Order) thuộc domain orders.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái đơn hàng hợp lệ.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
)

// Order một đơn hàng trong lịch sử mua (collection history).
// Các mảng Categories/Models/Points/Prices/Quantities song song theo từng
// dòng hàng của đơn.
type Order struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId" index:"single"`
	Name        string             `json:"name" bson:"name"`
	AccountType string             `json:"accountType" bson:"accountType"`
	Categories  []string           `json:"categories" bson:"categories"`
	Models      []string           `json:"models" bson:"models"`
	Points      []int64            `json:"points" bson:"points"`
	Prices      []float64          `json:"prices" bson:"prices"`
	Quantities  []int64            `json:"quantities" bson:"quantities"`
	Timestamp   int64              `json:"timestamp" bson:"timestamp"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsValidStatus kiểm tra một chuỗi có phải trạng thái đơn hàng hợp lệ không.
func IsValidStatus(status string) bool {
	switch status {
	case OrderStatusProcessing, OrderStatusShipping, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderPaginateResult đại diện cho kết quả phân trang Order
type OrderPaginateResult struct {
	Page      int64   `json:"page" bson:"page"`
	Limit     int64   `json:"limit" bson:"limit"`
	ItemCount int64   `json:"itemCount" bson:"itemCount"`
	Items     []Order `json:"items" bson:"items"`
}
