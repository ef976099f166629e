// Package auth 负责 Bearer 令牌的签发与校验，以及请求上下文中的用户身份
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/yuqie6/trainerhub/internal/errors"
)

// DefaultTokenTTL 令牌默认有效期
const DefaultTokenTTL = 7 * 24 * time.Hour

// Issuer 使用 HS256 签发和校验令牌，sub 为用户 ID
type Issuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer 创建签发器
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret 不能为空")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{key: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// NewEphemeralIssuer 使用随机密钥创建签发器，进程重启后旧令牌失效
func NewEphemeralIssuer(issuer string, ttl time.Duration) (*Issuer, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("生成随机密钥失败: %w", err)
	}
	return NewIssuer(string(key), issuer, ttl)
}

// Issue 为用户签发令牌
func (i *Issuer) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", apperrors.InvalidArgumentf("user id 必须为正数: %d", userID)
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}
	return signed, nil
}

// Verify 校验令牌并返回用户 ID
func (i *Issuer) Verify(token string) (int64, error) {
	if token == "" {
		return 0, apperrors.Unauthenticated("缺少令牌")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.key, nil
	}, opts...)
	if err != nil {
		return 0, apperrors.WrapWithCode(err, apperrors.CodeUnauthenticated, "令牌无效或已过期")
	}
	if !parsed.Valid {
		return 0, apperrors.Unauthenticated("令牌无效")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, apperrors.Unauthenticated("令牌中的用户标识无效")
	}
	return userID, nil
}

type ownerKey struct{}

// WithOwner 把用户 ID 放入上下文
func WithOwner(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext 取出上下文中的用户 ID
func OwnerFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ownerKey{}).(int64)
	return id, ok && id > 0
}
