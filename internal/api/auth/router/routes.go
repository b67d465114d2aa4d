// Package router đăng ký các route thuộc domain auth: System, Auth, Users.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "ish_admin/internal/api/auth/handler"
	basehdl "ish_admin/internal/api/base/handler"
	"ish_admin/internal/api/middleware"
	apirouter "ish_admin/internal/api/router"
)

// Register đăng ký tất cả route auth (system, auth, users) lên root.
func Register(root fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(root); err != nil {
		return err
	}
	if err := registerAuthRoutes(root); err != nil {
		return err
	}
	if err := registerUserRoutes(root, r); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	router.Post("/auth/login", userHandler.HandleLoginWithFirebase)
	authOnly := []fiber.Handler{middleware.Authenticated()}
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", authOnly, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", authOnly, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/profile", authOnly, userHandler.HandleUpdateProfile)
	return nil
}

func registerUserRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	adminChain := []fiber.Handler{middleware.Authenticated(), middleware.Approved(), middleware.AdminRequired()}

	// Workflow duyệt tài khoản
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/pending", adminChain, userHandler.HandleListPendingUsers)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PUT", "/:id/approve", adminChain, userHandler.HandleApproveUser)

	// Giỏ hàng của một user
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/:id/cart", adminChain, userHandler.HandleGetUserCart)

	// Xóa user cascade theo email
	apirouter.RegisterRouteWithMiddleware(router, "/api", "DELETE", "/deleteUser", adminChain, userHandler.HandleDeleteUser)

	// CRUD người dùng cho admin
	r.RegisterCRUDRoutes(router, "/users", userHandler, apirouter.ReadWriteConfig)

	return nil
}
