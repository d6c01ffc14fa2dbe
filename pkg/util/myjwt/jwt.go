package myjwt

import (
	"errors"
	"time"

	"ReviewHub/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyKey     = errors.New("jwt key is empty")
	ErrInvalidToken = errors.New("invalid token")
)

// CustomClaims 登录令牌，由账号服务签发，这里只解析 uuid
type CustomClaims struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken 测试与运维脚本使用
func GenerateToken(uuid string, username string) (string, error) {
	conf := config.GetConfig()
	if conf.JwtConfig.Key == "" {
		return "", ErrEmptyKey
	}
	now := time.Now()
	claims := CustomClaims{
		Uuid:     uuid,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(conf.JwtConfig.ExpireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    conf.JwtConfig.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(conf.JwtConfig.Key))
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	key := config.GetConfig().JwtConfig.Key
	if key == "" {
		return nil, ErrEmptyKey
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Uuid == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
