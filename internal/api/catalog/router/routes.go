// Package router đăng ký các route thuộc domain catalog.
package router

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	cataloghdl "ish_admin/internal/api/catalog/handler"
	"ish_admin/internal/api/middleware"
	apirouter "ish_admin/internal/api/router"
	"ish_admin/internal/global"
	"ish_admin/internal/storage"
)

// Register đăng ký các route catalog lên root.
// Blob store được khởi tạo tại đây từ bucket cấu hình.
func Register(root fiber.Router, r *apirouter.Router) error {
	blobs, err := storage.NewFirebaseBlobStore(context.Background(), global.MongoDB_ServerConfig.FirebaseStorageBucket)
	if err != nil {
		return fmt.Errorf("failed to create blob store: %w", err)
	}
	return RegisterWithBlobStore(root, r, blobs)
}

// RegisterWithBlobStore đăng ký route catalog với một BlobStore cho trước.
func RegisterWithBlobStore(root fiber.Router, r *apirouter.Router, blobs storage.BlobStore) error {
	catalogHandler, err := cataloghdl.NewCatalogHandler(blobs)
	if err != nil {
		return fmt.Errorf("failed to create catalog handler: %w", err)
	}

	readChain := []fiber.Handler{middleware.Authenticated(), middleware.Approved()}
	adminChain := []fiber.Handler{middleware.Authenticated(), middleware.Approved(), middleware.AdminRequired()}

	// Đọc danh sách sản phẩm (đã flatten)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "GET", "/fetchProducts", readChain, catalogHandler.HandleFetchProducts)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "GET", "/fetchPopularProducts", readChain, catalogHandler.HandleFetchPopularProducts)

	// Thao tác ghi danh mục (admin)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "POST", "/addProduct", adminChain, catalogHandler.HandleAddProduct)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "POST", "/deleteProduct", adminChain, catalogHandler.HandleDeleteProduct)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "PUT", "/updateProduct", adminChain, catalogHandler.HandleUpdateProduct)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "POST", "/addPopularProduct", adminChain, catalogHandler.HandleAddPopularProduct)
	apirouter.RegisterRouteWithMiddleware(root, "/api", "POST", "/deletePopularProduct", adminChain, catalogHandler.HandleDeletePopularProduct)

	return nil
}
