package main

import (
	"context"

	authsvc "ish_admin/internal/api/auth/service"
	"ish_admin/internal/global"
	"ish_admin/internal/logger"
)

// InitDefaultData khởi tạo dữ liệu mặc định sau khi đã kết nối database.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to initialize user service: %v", err)
	}

	// Tạo user admin tự động từ Firebase UID (nếu có config) - tùy chọn.
	// User phải đã tồn tại trong Firebase Authentication.
	// Nếu không có FIREBASE_ADMIN_UID, user đầu tiên login sẽ tự động trở thành admin.
	if global.MongoDB_ServerConfig.FirebaseAdminUID != "" {
		admin, err := userService.EnsureAdminFromFirebaseUID(context.Background(), global.MongoDB_ServerConfig.FirebaseAdminUID)
		if err != nil {
			log.Warnf("Failed to initialize admin user from Firebase UID: %v", err)
			log.Info("User đầu tiên login sẽ tự động trở thành admin")
		} else {
			log.Infof("✅ [INIT] Admin user ensured from Firebase UID (ID: %s)", admin.ID.Hex())
		}
	} else {
		log.Info("FIREBASE_ADMIN_UID not set")
		log.Info("User đầu tiên login sẽ tự động trở thành admin (First user becomes admin)")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
