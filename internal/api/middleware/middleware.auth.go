package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	models "ish_admin/internal/api/auth/models"
	authsvc "ish_admin/internal/api/auth/service"
	"ish_admin/internal/common"
	"ish_admin/internal/global"
	"ish_admin/internal/logger"
	"ish_admin/internal/utility"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *authsvc.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &AuthManager{
		UserCRUD: userService,
		// Cache user theo token với thời gian sống 5 phút
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// findUserByToken tìm user sở hữu token, ưu tiên cache rồi mới query database.
func (am *AuthManager) findUserByToken(ctx context.Context, token string) (*models.User, error) {
	cacheKey := "auth_token:" + token
	if cached, found := am.Cache.Get(cacheKey); found {
		user := cached.(models.User)
		return &user, nil
	}

	// Ưu tiên query field "token" (token mới nhất) trước vì nó được cập nhật mỗi lần login
	// Nếu không tìm thấy, query trong array "tokens" (tokens theo hwid)
	user, err := am.UserCRUD.FindOne(ctx, bson.M{"token": token}, nil)
	if err != nil {
		user, err = am.UserCRUD.FindOne(ctx, bson.M{"tokens.jwtToken": token}, nil)
		if err != nil {
			return nil, err
		}
	}

	am.Cache.Set(cacheKey, user)
	return &user, nil
}

// Authenticated middleware xác thực bearer token và nạp user vào request locals.
// Session chỉ sống trong phạm vi request (c.Locals), không có state toàn cục.
func Authenticated() fiber.Handler {
	return func(c fiber.Ctx) error {
		authManager := GetAuthManager()

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		token := parts[1]

		// Verify chữ ký JWT trước khi chạm database
		if _, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, token); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid JWT signature")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		user, err := authManager.findUserByToken(c.Context(), token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token not found in database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", *user)
		c.Locals("account_type", user.AccountType)

		return c.Next()
	}
}

// Approved middleware yêu cầu tài khoản đã được duyệt (status == "y").
// Phải đứng sau Authenticated.
func Approved() fiber.Handler {
	return func(c fiber.Ctx) error {
		userVal := c.Locals("user")
		user, ok := userVal.(models.User)
		if !ok {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}
		if !user.IsApproved() {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id": user.ID.Hex(),
				"path":    c.Path(),
			}).Warn("❌ [AUTH] Account not approved")
			HandleErrorResponse(c, common.ErrUserNotApproved)
			return nil
		}
		return c.Next()
	}
}

// AdminRequired middleware yêu cầu tài khoản quản trị (accountType == "admin").
// Phải đứng sau Authenticated.
func AdminRequired() fiber.Handler {
	return func(c fiber.Ctx) error {
		userVal := c.Locals("user")
		user, ok := userVal.(models.User)
		if !ok {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}
		if !user.IsAdmin() {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":      user.ID.Hex(),
				"account_type": user.AccountType,
				"path":         c.Path(),
			}).Warn("❌ [AUTH] Admin permission required")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Chỉ quản trị viên mới được phép thực hiện thao tác này",
				common.StatusForbidden,
				nil,
			))
			return nil
		}
		return c.Next()
	}
}
