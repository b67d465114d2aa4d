// Package models - model giỏ hàng (CartItem) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem một mục trong giỏ hàng của người dùng.
// Mỗi mục giữ nguyên dạng mảng song song của danh mục nguồn
// (descriptions/models/prices cùng độ dài), thuộc về đúng một user qua UserID.
type CartItem struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId" index:"single"`
	Category     string             `json:"category" bson:"category"`
	Descriptions []string           `json:"descriptions" bson:"descriptions"`
	Models       []string           `json:"models" bson:"models"`
	Prices       []float64          `json:"prices" bson:"prices"`
	Points       int64              `json:"points" bson:"points"`
	ProductID    int64              `json:"productid" bson:"productid"`
	Quantity     int64              `json:"quantity" bson:"quantity"`
	ImageURL     string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}
