// Package models - model đánh dấu xóa user dở dang (UserDeleteMarker).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDeleteMarker ghi lại một lần xóa user mà bước xóa tài khoản Firebase
// thất bại sau khi dữ liệu Mongo đã xóa xong. Dùng để đối soát thủ công,
// không rollback.
type UserDeleteMarker struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	FirebaseUID string             `json:"firebaseUid" bson:"firebaseUid"`
	Reason      string             `json:"reason" bson:"reason"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
