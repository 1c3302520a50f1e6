// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"StyleMuse/app/api/chat/internal/logic/helper"
	"StyleMuse/app/api/chat/internal/mq"
	"StyleMuse/app/api/chat/internal/svc"
	"StyleMuse/app/api/chat/internal/types"
	"StyleMuse/app/common/consts/errno"
	"StyleMuse/app/common/snowflake"
	"StyleMuse/app/common/util"
	conversationdal "StyleMuse/app/dal/conversation"
	"StyleMuse/app/stylist/dialogue"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type ChatLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ChatLogic) Chat(req *types.ChatRequest) (*types.ChatResponse, error) {
	st, out, err := l.step(req)
	if err != nil {
		return nil, err
	}
	if out == nil {
		// empty history: greet without touching the model
		return helper.ToChatResponse(st, l.svcCtx.Orchestrator.Greeting(), nil), nil
	}
	return helper.ToChatResponse(st, out.Message, out.Results), nil
}

// step resolves conversation state, runs one orchestrator turn and applies
// the side effects (session save, events, retention). A nil outcome with a
// nil error means the request carried no messages and only needs a greeting.
func (l *ChatLogic) step(req *types.ChatRequest) (*dialogue.State, *dialogue.Outcome, error) {
	st, err := l.resolveState(req)
	if err != nil {
		return nil, nil, err
	}

	if len(req.Messages) == 0 {
		l.saveSession(st)
		return st, nil, nil
	}

	last := req.Messages[len(req.Messages)-1]
	if last.Role != dialogue.RoleUser {
		return nil, nil, xerrors.New(int(errno.InvalidParam), "last message must be from the user")
	}

	out, err := l.svcCtx.Orchestrator.Step(l.ctx, st, last.Content)
	if err != nil {
		switch {
		case errors.Is(err, dialogue.ErrConversationClosed):
			return nil, nil, xerrors.New(int(errno.ConversationClosed), "this conversation has ended, start a new one")
		case errors.Is(err, dialogue.ErrCatalogUnavailable):
			l.Errorw("catalog unavailable", logx.Field("conversation_id", st.ConversationID), logx.Field("err", err))
			return nil, nil, xerrors.New(int(errno.CatalogUnavailable), "sorry, I can't reach the catalog right now, please try again")
		default:
			l.Errorw("chat turn failed", logx.Field("err", err))
			return nil, nil, xerrors.New(int(errno.InternalError), "internal error")
		}
	}

	l.saveSession(st)

	switch out.Stage {
	case dialogue.StageRecommending:
		l.publishRecommendation(st, out)
	case dialogue.StageClosed:
		l.archiveConversation(st)
	}

	return st, out, nil
}

// resolveState finds the live session, rebuilds state from the submitted
// history, or starts a fresh conversation.
func (l *ChatLogic) resolveState(req *types.ChatRequest) (*dialogue.State, error) {
	priorTurns := helper.ToTurns(trimLast(req.Messages))

	if req.ConversationId != "" {
		id, err := strconv.ParseInt(req.ConversationId, 10, 64)
		if err != nil {
			return nil, xerrors.New(int(errno.InvalidParam), "malformed conversation_id")
		}

		st, err := l.svcCtx.Sessions.Load(l.ctx, id)
		if err != nil {
			l.Errorw("session load failed", logx.Field("conversation_id", id), logx.Field("err", err))
		}
		if st != nil {
			return st, nil
		}
		// session expired or lost: rebuild from the turns the client sent
		return l.svcCtx.Orchestrator.Restore(l.ctx, id, priorTurns), nil
	}

	id := snowflake.Next()
	if len(priorTurns) > 0 {
		return l.svcCtx.Orchestrator.Restore(l.ctx, id, priorTurns), nil
	}
	return dialogue.NewState(id), nil
}

func (l *ChatLogic) saveSession(st *dialogue.State) {
	if err := l.svcCtx.Sessions.Save(l.ctx, st); err != nil {
		l.Errorw("session save failed", logx.Field("conversation_id", st.ConversationID), logx.Field("err", err))
	}
}

func (l *ChatLogic) publishRecommendation(st *dialogue.State, out *dialogue.Outcome) {
	userId, _ := util.UserIdFromCtx(l.ctx)
	evt := mq.RecommendationEvent{
		ConversationId: st.ConversationID,
		UserId:         userId,
		ShownAt:        time.Now(),
	}
	for _, r := range out.Results {
		evt.ApparelIds = append(evt.ApparelIds, r.Item.ID)
		evt.Scores = append(evt.Scores, r.Score)
	}
	if err := mq.PublishRecommendationEvent(l.svcCtx, evt); err != nil {
		l.Errorw("publish recommendation event failed",
			logx.Field("conversation_id", st.ConversationID), logx.Field("err", err))
	}
}

// archiveConversation writes the terminal conversation log and schedules its
// retention purge.
func (l *ChatLogic) archiveConversation(st *dialogue.State) {
	turns, err := json.Marshal(st.Turns)
	if err != nil {
		l.Errorw("marshal turns failed", logx.Field("err", err))
		return
	}
	attrs, err := json.Marshal(st.Known)
	if err != nil {
		l.Errorw("marshal attributes failed", logx.Field("err", err))
		return
	}

	userId, _ := util.UserIdFromCtx(l.ctx)
	if _, err := l.svcCtx.Conversations.Insert(l.ctx, &conversationdal.Conversations{
		Id:         st.ConversationID,
		UserId:     userId,
		Stage:      st.Stage,
		Turns:      string(turns),
		Attributes: string(attrs),
	}); err != nil {
		l.Errorw("archive conversation failed",
			logx.Field("conversation_id", st.ConversationID), logx.Field("err", err))
		return
	}

	if err := mq.EnqueueExpireConversation(l.svcCtx, st.ConversationID); err != nil {
		l.Errorw("enqueue conversation purge failed",
			logx.Field("conversation_id", st.ConversationID), logx.Field("err", err))
	}
}

func trimLast(messages []types.ChatMessage) []types.ChatMessage {
	if len(messages) == 0 {
		return nil
	}
	return messages[:len(messages)-1]
}
