package utility

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCreateToken_ParseToken kiểm tra vòng đời token: tạo rồi giải mã lại phải ra đúng userID.
func TestCreateToken_ParseToken(t *testing.T) {
	secret := "test-secret"
	userID := "64f1a2b3c4d5e6f7a8b9c0d1"
	timeHex := fmt.Sprintf("%x", time.Now().Unix())

	result, err := CreateToken(secret, userID, timeHex, "42")
	assert.NoError(t, err, "Tạo token không được lỗi")
	assert.NotEmpty(t, result["token"], "Token trả về không được rỗng")

	parsedID, err := ParseToken(secret, result["token"])
	assert.NoError(t, err, "Giải mã token hợp lệ không được lỗi")
	assert.Equal(t, userID, parsedID, "UserID giải mã phải khớp với userID ban đầu")
}

// TestParseToken_SaiSecret kiểm tra token ký bằng secret khác phải bị từ chối.
func TestParseToken_SaiSecret(t *testing.T) {
	result, err := CreateToken("secret-a", "user-1", "abc123", "7")
	assert.NoError(t, err)

	_, err = ParseToken("secret-b", result["token"])
	assert.Error(t, err, "Token ký bằng secret khác phải bị từ chối")
}

// TestParseToken_TokenRac kiểm tra chuỗi không phải JWT phải trả về lỗi.
func TestParseToken_TokenRac(t *testing.T) {
	_, err := ParseToken("secret", "khong-phai-jwt")
	assert.Error(t, err, "Chuỗi rác phải trả về lỗi khi giải mã")
}
