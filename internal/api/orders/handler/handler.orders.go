package ordershdl

import (
	"fmt"
	"time"

	basehdl "ish_admin/internal/api/base/handler"
	ordersdto "ish_admin/internal/api/orders/dto"
	models "ish_admin/internal/api/orders/models"
	orderssvc "ish_admin/internal/api/orders/service"
	"ish_admin/internal/common"
	"ish_admin/internal/global"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderHandler xử lý các request về đơn hàng
type OrderHandler struct {
	*basehdl.BaseHandler[models.Order, ordersdto.OrderCreateInput, ordersdto.OrderUpdateStatusInput]
	orderService *orderssvc.OrderService
}

// NewOrderHandler tạo instance mới của OrderHandler
func NewOrderHandler() (*OrderHandler, error) {
	orderService, err := orderssvc.NewOrderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Order, ordersdto.OrderCreateInput, ordersdto.OrderUpdateStatusInput](orderService)
	return &OrderHandler{
		BaseHandler:  baseHandler,
		orderService: orderService,
	}, nil
}

// HandleFetchOrders trả về toàn bộ lịch sử đơn hàng, mới nhất trước
func (h *OrderHandler) HandleFetchOrders(c fiber.Ctx) error {
	orders, err := h.orderService.ListOrders(c.Context())
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, orders, nil)
	return nil
}

// HandleCreateOrder tạo một đơn hàng mới
func (h *OrderHandler) HandleCreateOrder(c fiber.Ctx) error {
	var input ordersdto.OrderCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := global.Validate.Struct(&input); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Dữ liệu đơn hàng không hợp lệ", common.StatusBadRequest, err))
		return nil
	}
	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err))
		return nil
	}
	order := models.Order{
		UserID:     userID,
		Name:       input.Name,
		Categories: input.Categories,
		Models:     input.Models,
		Points:     input.Points,
		Prices:     input.Prices,
		Quantities: input.Quantities,
		Timestamp:  time.Now().UnixMilli(),
		Status:     models.OrderStatusProcessing,
	}
	created, err := h.orderService.CreateOrder(c.Context(), order)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, created, nil)
	return nil
}

// HandleUpdateOrderStatus cập nhật trạng thái một đơn hàng theo id
func (h *OrderHandler) HandleUpdateOrderStatus(c fiber.Ctx) error {
	orderID, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid order ID", common.StatusBadRequest, err))
		return nil
	}
	var input ordersdto.OrderUpdateStatusInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := global.Validate.Struct(&input); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Trạng thái đơn hàng không hợp lệ", common.StatusBadRequest, err))
		return nil
	}
	order, err := h.orderService.UpdateStatus(c.Context(), orderID, input.Status)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, order, nil)
	return nil
}
