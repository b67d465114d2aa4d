package authhdl

import (
	"fmt"

	authdto "ish_admin/internal/api/auth/dto"
	models "ish_admin/internal/api/auth/models"
	authsvc "ish_admin/internal/api/auth/service"
	basehdl "ish_admin/internal/api/base/handler"
	basesvc "ish_admin/internal/api/base/service"
	"ish_admin/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các request xác thực và quản lý người dùng
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserChangeInfoInput]
	userService *authsvc.UserService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserChangeInfoInput](userService)
	return &UserHandler{
		BaseHandler: baseHandler,
		userService: userService,
	}, nil
}

// sanitizeUser xóa các field nhạy cảm trước khi trả về client.
func sanitizeUser(user *models.User) {
	user.Tokens = nil
}

// currentUserID lấy ObjectID của user đã xác thực từ context.
func currentUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userID := c.Locals("user_id")
	if userID == nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	objID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err)
	}
	return objID, nil
}

// HandleLoginWithFirebase đăng nhập bằng Firebase ID token
func (h *UserHandler) HandleLoginWithFirebase(c fiber.Ctx) error {
	var input authdto.FirebaseLoginInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.LoginWithFirebase(c.Context(), &input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	// First user becomes admin: nếu chưa có admin nào, user vừa login được gán quyền admin
	if promoted, errPromote := h.userService.PromoteFirstAdmin(c.Context(), user.ID); errPromote != nil {
		logrus.WithError(errPromote).Warn("LoginWithFirebase: Lỗi khi kiểm tra first admin, không fail login")
	} else if promoted {
		user.AccountType = models.AccountTypeAdmin
		user.Status = models.UserStatusApproved
	}
	sanitizeUser(user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleLogout xử lý đăng xuất người dùng
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.UserLogoutInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.userService.Logout(c.Context(), objID, &input)
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleGetProfile lấy thông tin profile của người dùng
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.BaseServiceMongoImpl.FindOneById(c.Context(), objID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleUpdateProfile cập nhật thông tin profile
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.UserChangeInfoInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	set := make(map[string]interface{})
	if input.FullName != "" {
		set["fullName"] = input.FullName
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.Address != "" {
		set["address"] = input.Address
	}
	if input.Cnic != "" {
		set["cnic"] = input.Cnic
	}
	if len(set) == 0 {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil))
		return nil
	}
	update := &basesvc.UpdateData{Set: set}
	updatedUser, err := h.userService.BaseServiceMongoImpl.UpdateById(c.Context(), objID, update)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(&updatedUser)
	h.HandleResponse(c, updatedUser, nil)
	return nil
}

// HandleListPendingUsers liệt kê user chờ duyệt (admin)
func (h *UserHandler) HandleListPendingUsers(c fiber.Ctx) error {
	users, err := h.userService.ListPendingUsers(c.Context())
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	for i := range users {
		sanitizeUser(&users[i])
	}
	h.HandleResponse(c, users, nil)
	return nil
}

// HandleApproveUser duyệt một user chờ duyệt (admin)
func (h *UserHandler) HandleApproveUser(c fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err))
		return nil
	}
	user, err := h.userService.ApproveUser(c.Context(), id)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitizeUser(user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleGetUserCart lấy giỏ hàng của một user theo id
func (h *UserHandler) HandleGetUserCart(c fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err))
		return nil
	}
	items, err := h.userService.GetCartItems(c.Context(), id)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, items, nil)
	return nil
}

// HandleDeleteUser xóa user theo email (cascade: giỏ hàng, document, Firebase)
func (h *UserHandler) HandleDeleteUser(c fiber.Ctx) error {
	var input authdto.DeleteUserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err := h.userService.DeleteUserCascade(c.Context(), input.Email)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, fiber.Map{"email": input.Email, "deleted": true}, nil)
	return nil
}
