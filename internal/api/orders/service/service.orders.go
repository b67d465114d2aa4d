// Package orderssvc - service đơn hàng (Order).
package orderssvc

import (
	"context"
	"fmt"
	"time"

	models "ish_admin/internal/api/orders/models"
	basesvc "ish_admin/internal/api/base/service"
	"ish_admin/internal/common"
	"ish_admin/internal/global"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// statusRank thứ tự tiến trình đơn hàng, chỉ cho phép chuyển tiến.
var statusRank = map[string]int{
	models.OrderStatusProcessing: 0,
	models.OrderStatusShipping:   1,
	models.OrderStatusDelivered:  2,
}

// OrderService là cấu trúc chứa các phương thức liên quan đến đơn hàng
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[models.Order]
}

// NewOrderService tạo mới OrderService
func NewOrderService() (*OrderService, error) {
	orderCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get history collection: %v", common.ErrNotFound)
	}
	return &OrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Order](orderCollection),
	}, nil
}

// ListOrders liệt kê toàn bộ đơn hàng, mới nhất trước.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{}, opts)
}

// ListOrdersByUser liệt kê đơn hàng của một user, mới nhất trước.
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{"userId": userID}, opts)
}

// ValidateTransition kiểm tra chuyển trạng thái hợp lệ: chỉ đi tiến
// (processing -> shipping -> delivered), giữ nguyên trạng thái cũng hợp lệ.
func ValidateTransition(current string, next string) error {
	nextRank, ok := statusRank[next]
	if !ok {
		return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Trạng thái đơn hàng không hợp lệ: %s", next), common.StatusBadRequest, nil)
	}
	currentRank, ok := statusRank[current]
	if !ok {
		// Đơn cũ chưa có trạng thái chuẩn thì cho phép đặt trạng thái bất kỳ
		return nil
	}
	if nextRank < currentRank {
		return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Không thể chuyển trạng thái từ %s về %s", current, next), common.StatusBadRequest, nil)
	}
	return nil
}

// UpdateStatus cập nhật trạng thái một đơn hàng kèm kiểm tra transition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string) (*models.Order, error) {
	order, err := s.BaseServiceMongoImpl.FindOneById(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(order.Status, newStatus); err != nil {
		return nil, err
	}
	if order.Status == newStatus {
		return &order, nil
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": newStatus,
		},
	}
	updatedOrder, err := s.BaseServiceMongoImpl.UpdateById(ctx, orderID, updateData)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order_id": orderID.Hex(), "from": order.Status, "to": newStatus}).Info("UpdateStatus: Đã cập nhật trạng thái đơn hàng")
	return &updatedOrder, nil
}

// CreateOrder tạo một đơn hàng mới với trạng thái processing và timestamp hiện tại.
func (s *OrderService) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if len(order.Models) != len(order.Categories) {
		return order, common.NewError(common.ErrCodeValidationInput, "Số lượng categories và models không khớp", common.StatusBadRequest, nil)
	}
	if order.Status == "" {
		order.Status = models.OrderStatusProcessing
	}
	if order.Timestamp == 0 {
		order.Timestamp = time.Now().UnixMilli()
	}
	return s.BaseServiceMongoImpl.InsertOne(ctx, order)
}
