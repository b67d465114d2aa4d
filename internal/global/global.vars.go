package global

import (
	"ish_admin/config"
	"ish_admin/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	// Catalog Collections (danh mục sản phẩm dạng parallel arrays)
	Products        string // Tên collection cho danh mục sản phẩm chính
	PopularProducts string // Tên collection cho sản phẩm nổi bật

	// User Collections
	Users             string // Tên collection cho người dùng
	UserCarts         string // Tên collection cho giỏ hàng của người dùng
	UserDeleteMarkers string // Tên collection đánh dấu user xóa dở (cascade thất bại)

	// Order Collections
	Orders string // Tên collection cho lịch sử đơn hàng
}

// Các biến toàn cục
var Validate *validator.Validate                 // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration   // Cấu hình của server
var MongoDB_ColNames = MongoDB_CollectionName{}  // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
