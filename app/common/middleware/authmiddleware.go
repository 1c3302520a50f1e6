// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"StyleMuse/app/common/consts/biz"
	"StyleMuse/app/common/consts/errno"
	"StyleMuse/app/common/util"

	"github.com/golang-jwt/jwt/v4"
	"github.com/zeromicro/go-zero/rest/httpx"
	xerrors "github.com/zeromicro/x/errors"
)

type jwtClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves an optional Bearer token into a user id for
// event attribution. Requests without a token pass through anonymously;
// a malformed or expired token is rejected.
type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(biz.AUTHORIZATION)
		if header == "" || m.accessSecret == "" {
			next(w, r)
			return
		}
		tokenStr := strings.TrimPrefix(header, biz.BearerPrefix)
		if tokenStr == header {
			httpx.Error(w, xerrors.New(int(errno.TokenInvalid), "malformed authorization header"))
			return
		}

		claims, err := m.parseToken(tokenStr)
		if err != nil {
			httpx.Error(w, xerrors.New(int(errno.TokenInvalid), "invalid token"))
			return
		}

		util.InjectUserId2Ctx(r, claims.UserID)
		next(w, r)
	}
}

func (m *AuthMiddleware) parseToken(tokenStr string) (*jwtClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.accessSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
