package mq

import (
	"StyleMuse/app/api/chat/internal/svc"

	"github.com/hibiken/asynq"
)

func NewAsynqMux(sc *svc.ServiceContext) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskExpireConversation, newExpireConversationHandler(sc))
	return mux
}
