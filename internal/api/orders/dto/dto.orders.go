package ordersdto

// OrderCreateInput đầu vào tạo đơn hàng.
type OrderCreateInput struct {
	UserID     string    `json:"userId" validate:"required"`
	Name       string    `json:"name" validate:"required,no_xss"`
	Categories []string  `json:"categories" validate:"required,min=1"`
	Models     []string  `json:"models" validate:"required,min=1"`
	Points     []int64   `json:"points"`
	Prices     []float64 `json:"prices"`
	Quantities []int64   `json:"quantities"`
}

// OrderUpdateStatusInput đầu vào cập nhật trạng thái đơn hàng.
type OrderUpdateStatusInput struct {
	Status string `json:"status" validate:"required,order_status"`
}
