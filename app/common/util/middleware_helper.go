package util

import (
	"context"
	"net/http"

	"StyleMuse/app/common/consts/biz"
)

// UserIdFromCtx reports the authenticated user id, if any. Anonymous
// requests are allowed, so absence is not an error here.
func UserIdFromCtx(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}

	switch val := ctx.Value(biz.USER_KEY).(type) {
	case int64:
		return val, val > 0
	}

	return 0, false
}

func InjectUserId2Ctx(r *http.Request, userId int64) {
	ctx := context.WithValue(r.Context(), biz.USER_KEY, userId)
	*r = *r.WithContext(ctx)
}
