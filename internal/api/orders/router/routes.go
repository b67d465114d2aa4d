// Package router đăng ký các route thuộc domain orders.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"ish_admin/internal/api/middleware"
	ordershdl "ish_admin/internal/api/orders/handler"
	apirouter "ish_admin/internal/api/router"
)

// Register đăng ký các route orders lên root.
func Register(root fiber.Router, r *apirouter.Router) error {
	orderHandler, err := ordershdl.NewOrderHandler()
	if err != nil {
		return fmt.Errorf("failed to create order handler: %w", err)
	}

	readChain := []fiber.Handler{middleware.Authenticated(), middleware.Approved()}
	adminChain := []fiber.Handler{middleware.Authenticated(), middleware.Approved(), middleware.AdminRequired()}

	// Lịch sử đơn hàng, mới nhất trước
	apirouter.RegisterRouteWithMiddleware(root, "/api", "GET", "/fetchOrders", readChain, orderHandler.HandleFetchOrders)

	// Tạo đơn hàng mới
	apirouter.RegisterRouteWithMiddleware(root, "/api", "POST", "/createOrder", readChain, orderHandler.HandleCreateOrder)

	// Cập nhật trạng thái đơn hàng (admin)
	apirouter.RegisterRouteWithMiddleware(root, "/orders", "PUT", "/:id/status", adminChain, orderHandler.HandleUpdateOrderStatus)

	// CRUD đọc cho admin tool
	r.RegisterCRUDRoutes(root, "/orders", orderHandler, apirouter.ReadOnlyConfig)

	return nil
}
