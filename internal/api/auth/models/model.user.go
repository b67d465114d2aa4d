// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các giá trị trạng thái duyệt tài khoản.
const (
	UserStatusPending  = "n" // Chờ duyệt
	UserStatusApproved = "y" // Đã duyệt
)

// Các loại tài khoản.
const (
	AccountTypeAdmin    = "admin"
	AccountTypeCustomer = "customer"
)

// User định nghĩa mô hình người dùng
// Token chứa token xác thực mới nhất của người dùng
// Tokens chứa danh sách các token, mỗi thiết bị khác nhau sẽ có một token riêng để xác thực (bằng hwid)
// Status là trạng thái duyệt tài khoản: "n" chờ duyệt, "y" đã duyệt
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName    string             `json:"fullName" bson:"fullName"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty" index:"unique,sparse"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	Cnic        string             `json:"cnic,omitempty" bson:"cnic,omitempty"`
	AccountType string             `json:"accountType" bson:"accountType"`
	Points      int64              `json:"points" bson:"points"`
	Status      string             `json:"status" bson:"status"`
	FirebaseUID string             `json:"firebaseUid" bson:"firebaseUid" index:"unique"`
	Token       string             `json:"token" bson:"token"`
	Tokens      []Token            `json:"-" bson:"tokens"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsApproved kiểm tra tài khoản đã được duyệt chưa.
func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}

// IsAdmin kiểm tra tài khoản có quyền quản trị không.
func (u *User) IsAdmin() bool {
	return u.AccountType == AccountTypeAdmin
}

// UserPaginateResult đại diện cho kết quả phân trang User
type UserPaginateResult struct {
	Page      int64  `json:"page" bson:"page"`
	Limit     int64  `json:"limit" bson:"limit"`
	ItemCount int64  `json:"itemCount" bson:"itemCount"`
	Items     []User `json:"items" bson:"items"`
}
