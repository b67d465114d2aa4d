package orderssvc

import (
	"errors"
	"testing"

	models "ish_admin/internal/api/orders/models"
	"ish_admin/internal/common"
)

func TestValidateTransition_TienVeTruocHopLe(t *testing.T) {
	cases := [][2]string{
		{models.OrderStatusProcessing, models.OrderStatusShipping},
		{models.OrderStatusProcessing, models.OrderStatusDelivered},
		{models.OrderStatusShipping, models.OrderStatusDelivered},
	}
	for _, tc := range cases {
		if err := ValidateTransition(tc[0], tc[1]); err != nil {
			t.Errorf("Chuyển từ %s sang %s phải hợp lệ, nhận lỗi: %v", tc[0], tc[1], err)
		}
	}
}

func TestValidateTransition_GiuNguyenTrangThai(t *testing.T) {
	if err := ValidateTransition(models.OrderStatusShipping, models.OrderStatusShipping); err != nil {
		t.Errorf("Giữ nguyên trạng thái phải hợp lệ, nhận lỗi: %v", err)
	}
}

func TestValidateTransition_LuiTrangThaiKhongHopLe(t *testing.T) {
	err := ValidateTransition(models.OrderStatusDelivered, models.OrderStatusProcessing)
	if err == nil {
		t.Fatal("Chuyển từ delivered về processing phải bị từ chối")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Lỗi phải là *common.Error, nhận: %T", err)
	}
	if appErr.StatusCode != common.StatusBadRequest {
		t.Errorf("StatusCode phải là %d, nhận %d", common.StatusBadRequest, appErr.StatusCode)
	}
}

func TestValidateTransition_TrangThaiLaKhongHopLe(t *testing.T) {
	if err := ValidateTransition(models.OrderStatusProcessing, "cancelled"); err == nil {
		t.Fatal("Trạng thái không nằm trong danh sách phải bị từ chối")
	}
}

func TestValidateTransition_DonCuKhongCoTrangThai(t *testing.T) {
	if err := ValidateTransition("", models.OrderStatusShipping); err != nil {
		t.Errorf("Đơn cũ chưa có trạng thái phải được phép đặt trạng thái mới, nhận lỗi: %v", err)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{models.OrderStatusProcessing, models.OrderStatusShipping, models.OrderStatusDelivered} {
		if !models.IsValidStatus(s) {
			t.Errorf("Trạng thái %s phải hợp lệ", s)
		}
	}
	if models.IsValidStatus("refunded") {
		t.Error("Trạng thái refunded không được phép hợp lệ")
	}
}
