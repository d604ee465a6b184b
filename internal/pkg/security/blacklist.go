package security

import (
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/redis"
	"context"
	"errors"
	"fmt"
)

var (
	ErrTokenRevoked         = errors.New("token 已注销")
	ErrBlacklistUnavailable = errors.New("token 黑名单不可用")
)

// Authenticate 签名不在黑名单中才解析 Token，黑名单由外部认证系统写入
func Authenticate(ctx context.Context, tokenString string) (*UserClaims, error) {
	signature, err := ExtractSignature(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := redis.Exists(ctx, consts.TokenBlacklistKey+signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlacklistUnavailable, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return ValidateToken(tokenString)
}
