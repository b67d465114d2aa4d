package authdto

// UserCreateInput đầu vào tạo người dùng (CRUD admin).
type UserCreateInput struct {
	FullName    string `json:"fullName" validate:"required,no_xss"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Cnic        string `json:"cnic"`
	AccountType string `json:"accountType"`
	Points      int64  `json:"points"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin người dùng.
type UserChangeInfoInput struct {
	FullName string `json:"fullName" validate:"omitempty,no_xss"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Cnic     string `json:"cnic"`
}

// UserLogoutInput đầu vào đăng xuất người dùng.
type UserLogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// FirebaseLoginInput đầu vào đăng nhập bằng Firebase ID token.
type FirebaseLoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
	Hwid    string `json:"hwid" validate:"required"`
}

// DeleteUserInput đầu vào xóa user theo email (cascade).
type DeleteUserInput struct {
	Email string `json:"email" validate:"required,email"`
}
