// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	authdto "ish_admin/internal/api/auth/dto"
	models "ish_admin/internal/api/auth/models"
	basesvc "ish_admin/internal/api/base/service"
	"ish_admin/internal/common"
	"ish_admin/internal/global"
	"ish_admin/internal/notification"
	"ish_admin/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	cartService   *basesvc.BaseServiceMongoImpl[models.CartItem]
	markerService *basesvc.BaseServiceMongoImpl[models.UserDeleteMarker]
	mailer        *notification.Mailer
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	cartCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.UserCarts)
	if !exist {
		return nil, fmt.Errorf("failed to get user_carts collection: %v", common.ErrNotFound)
	}
	markerCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.UserDeleteMarkers)
	if !exist {
		return nil, fmt.Errorf("failed to get user_delete_markers collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		cartService:          basesvc.NewBaseServiceMongo[models.CartItem](cartCollection),
		markerService:        basesvc.NewBaseServiceMongo[models.UserDeleteMarker](markerCollection),
		mailer:               notification.NewMailer(global.MongoDB_ServerConfig),
	}, nil
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	newTokens := make([]models.Token, 0)
	for _, t := range user.Tokens {
		if t.Hwid != input.Hwid {
			newTokens = append(newTokens, t)
		}
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// LoginWithFirebase đăng nhập bằng Firebase ID token
func (s *UserService) LoginWithFirebase(ctx context.Context, input *authdto.FirebaseLoginInput) (*models.User, error) {
	token, err := utility.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		logrus.WithError(err).Error("LoginWithFirebase: Lỗi verify Firebase ID token")
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Token không hợp lệ", common.StatusUnauthorized, err)
	}

	firebaseUser, err := utility.GetUserByUID(ctx, token.UID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"firebase_uid": token.UID, "error": err.Error()}).Error("LoginWithFirebase: Lỗi lấy thông tin user từ Firebase")
		return nil, err
	}

	var existingUser *models.User
	var foundBy string
	if firebaseUser.Email != "" {
		emailFilter := bson.M{"email": firebaseUser.Email}
		if emailUser, emailErr := s.BaseServiceMongoImpl.FindOne(ctx, emailFilter, nil); emailErr == nil {
			existingUser = &emailUser
			foundBy = "email"
		} else if !errors.Is(emailErr, common.ErrNotFound) {
			logrus.WithError(emailErr).Error("LoginWithFirebase: Lỗi khi tìm user theo email")
			return nil, emailErr
		}
	}
	if existingUser == nil && firebaseUser.PhoneNumber != "" {
		phoneFilter := bson.M{"phone": firebaseUser.PhoneNumber}
		if phoneUser, phoneErr := s.BaseServiceMongoImpl.FindOne(ctx, phoneFilter, nil); phoneErr == nil {
			existingUser = &phoneUser
			foundBy = "phone"
		} else if !errors.Is(phoneErr, common.ErrNotFound) {
			logrus.WithError(phoneErr).Error("LoginWithFirebase: Lỗi khi tìm user theo phone")
			return nil, phoneErr
		}
	}

	if existingUser != nil {
		if existingUser.FirebaseUID != "" && existingUser.FirebaseUID != token.UID {
			var conflictField string
			if foundBy == "email" {
				conflictField = fmt.Sprintf("Email '%s'", firebaseUser.Email)
			} else {
				conflictField = fmt.Sprintf("Số điện thoại '%s'", firebaseUser.PhoneNumber)
			}
			logrus.WithFields(logrus.Fields{"existing_firebase_uid": existingUser.FirebaseUID, "new_firebase_uid": token.UID, "found_by": foundBy}).Warn("LoginWithFirebase: Conflict")
			return nil, common.NewError(common.ErrCodeAuthCredentials, conflictField+" đã được sử dụng bởi tài khoản khác. Vui lòng sử dụng "+foundBy+" khác hoặc đăng nhập bằng tài khoản cũ.", common.StatusConflict, nil)
		}
	}

	updateData := &basesvc.UpdateData{
		Set:         make(map[string]interface{}),
		SetOnInsert: make(map[string]interface{}),
	}
	updateData.Set["firebaseUid"] = token.UID
	// User mới tạo qua login ở trạng thái chờ duyệt
	updateData.SetOnInsert["status"] = models.UserStatusPending
	updateData.SetOnInsert["accountType"] = models.AccountTypeCustomer
	updateData.SetOnInsert["points"] = int64(0)

	if firebaseUser.DisplayName != "" {
		updateData.Set["fullName"] = firebaseUser.DisplayName
	}
	if firebaseUser.Email != "" {
		updateData.Set["email"] = firebaseUser.Email
	}
	if firebaseUser.PhoneNumber != "" {
		updateData.Set["phone"] = firebaseUser.PhoneNumber
	}

	var filter bson.M
	var user models.User
	if existingUser != nil {
		filter = bson.M{"_id": existingUser.ID}
	} else {
		filter = bson.M{"firebaseUid": token.UID}
	}

	user, err = s.BaseServiceMongoImpl.Upsert(ctx, filter, updateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"filter": filter, "error": err.Error()}).Error("LoginWithFirebase: Lỗi khi gọi Upsert")
		if errors.Is(err, common.ErrMongoDuplicate) {
			logrus.Warn("LoginWithFirebase: Lỗi duplicate, thử tìm lại user theo firebaseUid")
			firebaseFilter := bson.M{"firebaseUid": token.UID}
			if found, findErr := s.BaseServiceMongoImpl.FindOne(ctx, firebaseFilter, nil); findErr == nil {
				user = found
			} else {
				logrus.WithError(findErr).Error("LoginWithFirebase: Không tìm thấy user sau lỗi duplicate")
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	rdNumber := rand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(global.MongoDB_ServerConfig.JwtSecret, user.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, err
	}

	user.Token = tokenMap["token"]
	var idTokenExist int = -1
	for i, _token := range user.Tokens {
		if _token.Hwid == input.Hwid {
			idTokenExist = i
			break
		}
	}
	if idTokenExist == -1 {
		user.Tokens = append(user.Tokens, models.Token{Hwid: input.Hwid, JwtToken: tokenMap["token"]})
	} else {
		user.Tokens[idTokenExist].JwtToken = tokenMap["token"]
	}

	tokenUpdateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  user.Token,
			"tokens": user.Tokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, tokenUpdateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("LoginWithFirebase: Lỗi khi cập nhật token vào user")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email, "status": updatedUser.Status}).Info("LoginWithFirebase: Đăng nhập thành công")
	return &updatedUser, nil
}

// PromoteFirstAdmin gán quyền admin cho user nếu hệ thống chưa có admin nào.
// User đầu tiên đăng nhập trở thành admin và được duyệt luôn.
func (s *UserService) PromoteFirstAdmin(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	adminCount, err := s.BaseServiceMongoImpl.CountDocuments(ctx, bson.M{"accountType": models.AccountTypeAdmin})
	if err != nil {
		return false, err
	}
	if adminCount > 0 {
		return false, nil
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"accountType": models.AccountTypeAdmin,
			"status":      models.UserStatusApproved,
		},
	}
	if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData); err != nil {
		return false, err
	}
	logrus.WithField("user_id", userID.Hex()).Info("PromoteFirstAdmin: User đầu tiên được gán quyền admin")
	return true, nil
}

// EnsureAdminFromFirebaseUID tạo/cập nhật user admin từ một Firebase UID cấu hình sẵn.
// User phải tồn tại trong Firebase Authentication.
func (s *UserService) EnsureAdminFromFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	firebaseUser, err := utility.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"firebaseUid": uid,
			"accountType": models.AccountTypeAdmin,
			"status":      models.UserStatusApproved,
		},
		SetOnInsert: map[string]interface{}{
			"points": int64(0),
		},
	}
	if firebaseUser.DisplayName != "" {
		updateData.Set["fullName"] = firebaseUser.DisplayName
	}
	if firebaseUser.Email != "" {
		updateData.Set["email"] = firebaseUser.Email
	}
	if firebaseUser.PhoneNumber != "" {
		updateData.Set["phone"] = firebaseUser.PhoneNumber
	}

	user, err := s.BaseServiceMongoImpl.Upsert(ctx, bson.M{"firebaseUid": uid}, updateData)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPendingUsers liệt kê các user đang chờ duyệt (status == "n")
func (s *UserService) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{"status": models.UserStatusPending}, nil)
}

// ApproveUser duyệt user (status -> "y") và gửi email thông báo best-effort.
func (s *UserService) ApproveUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusApproved {
		return &user, nil
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": models.UserStatusApproved,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	if err != nil {
		return nil, err
	}

	// Email chỉ là thông báo, lỗi gửi không làm hỏng việc duyệt
	if updatedUser.Email != "" {
		_ = s.mailer.SendApprovalEmail(updatedUser.Email, updatedUser.FullName)
	}

	logrus.WithFields(logrus.Fields{"user_id": updatedUser.ID.Hex(), "email": updatedUser.Email}).Info("ApproveUser: Đã duyệt tài khoản")
	return &updatedUser, nil
}

// GetCartItems lấy các mục giỏ hàng thuộc về một user.
func (s *UserService) GetCartItems(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	return s.cartService.Find(ctx, bson.M{"userId": userID}, nil)
}

// DeleteUserCascade xóa user theo email: xóa giỏ hàng, xóa document Mongo,
// cuối cùng xóa tài khoản Firebase. Thứ tự cố ý đặt bước Firebase sau cùng
// vì chỉ bước đó không đảo ngược được tại đây; nếu nó thất bại thì ghi
// marker đối soát thay vì rollback.
func (s *UserService) DeleteUserCascade(ctx context.Context, email string) error {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return err
	}

	deletedCarts, err := s.cartService.DeleteMany(ctx, bson.M{"userId": user.ID})
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("DeleteUserCascade: Lỗi xóa giỏ hàng")
		return err
	}

	if err := s.BaseServiceMongoImpl.DeleteById(ctx, user.ID); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("DeleteUserCascade: Lỗi xóa user document")
		return err
	}

	if user.FirebaseUID != "" {
		if fbErr := utility.DeleteFirebaseUser(ctx, user.FirebaseUID); fbErr != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "firebase_uid": user.FirebaseUID, "error": fbErr.Error()}).Error("DeleteUserCascade: Xóa tài khoản Firebase thất bại, ghi marker đối soát")
			marker := models.UserDeleteMarker{
				Email:       user.Email,
				FirebaseUID: user.FirebaseUID,
				Reason:      fbErr.Error(),
			}
			if _, markerErr := s.markerService.InsertOne(ctx, marker); markerErr != nil {
				logrus.WithError(markerErr).Error("DeleteUserCascade: Ghi marker đối soát thất bại")
			}
		}
	}

	logrus.WithFields(logrus.Fields{"email": email, "deleted_carts": deletedCarts}).Info("DeleteUserCascade: Đã xóa user")
	return nil
}
