package mq

import (
	"context"
	"encoding/json"

	"StyleMuse/app/api/chat/internal/svc"
	"StyleMuse/app/dal/conversation"

	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
)

// EnqueueExpireConversation schedules the retention purge for a closed
// conversation.
func EnqueueExpireConversation(sc *svc.ServiceContext, conversationId int64) error {
	payload, err := json.Marshal(ExpireConversationPayload{ConversationId: conversationId})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskExpireConversation, payload)
	_, err = sc.AsynqClient.Enqueue(task, asynq.ProcessIn(sc.RetentionTTL), asynq.Queue("chat"))
	return err
}

func newExpireConversationHandler(sc *svc.ServiceContext) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ExpireConversationPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}

		if err := sc.Conversations.Delete(ctx, payload.ConversationId); err != nil && err != conversation.ErrNotFound {
			logx.Errorw("purge conversation failed",
				logx.Field("conversation_id", payload.ConversationId), logx.Field("err", err))
			return err
		}
		if err := sc.Sessions.Drop(ctx, payload.ConversationId); err != nil {
			logx.Errorw("drop session failed",
				logx.Field("conversation_id", payload.ConversationId), logx.Field("err", err))
		}

		logx.Infow("conversation purged", logx.Field("conversation_id", payload.ConversationId))
		return nil
	}
}
