package utility

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// jwtClaims chứa data được mã hóa trong JWT token.
type jwtClaims struct {
	UserID       string `json:"userId"`
	Time         string `json:"time"`
	RandomNumber string `json:"randomNumber"`
	jwt.StandardClaims
}

// CreateToken tạo JWT token cho user với secret của server.
// @params - secret ký token, userID, thời gian tạo (hex), số ngẫu nhiên
// @returns - map chứa token và lỗi nếu có
func CreateToken(secret string, userID string, timeHex string, randomNumber string) (map[string]string, error) {
	claims := jwtClaims{
		UserID:       userID,
		Time:         timeHex,
		RandomNumber: randomNumber,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("không thể ký token: %w", err)
	}

	return map[string]string{"token": signed}, nil
}

// ParseToken giải mã JWT token và trả về userID bên trong.
// Token không hợp lệ hoặc sai chữ ký sẽ trả về lỗi.
func ParseToken(secret string, tokenString string) (string, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token không hợp lệ")
	}
	return claims.UserID, nil
}
