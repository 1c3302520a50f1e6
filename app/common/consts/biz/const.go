package biz

import "time"

type CtxKey string

const (
	USER_KEY CtxKey = "user_id"

	AUTHORIZATION = "Authorization"
	BearerPrefix  = "Bearer "

	DefaultSessionTTL = time.Hour * 24
)
