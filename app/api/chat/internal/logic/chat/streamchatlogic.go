// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"StyleMuse/app/api/chat/internal/logic/helper"
	"StyleMuse/app/api/chat/internal/svc"
	"StyleMuse/app/api/chat/internal/types"
	"StyleMuse/app/common/consts/errno"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

const chunkWords = 8

// StreamChatLogic renders one chat turn as server-sent events. Event order
// per turn is fixed: message_chunk (one or more), products (only on
// recommending turns), done. Failures surface as a single error event.
type StreamChatLogic struct {
	logx.Logger
	ctx     context.Context
	svcCtx  *svc.ServiceContext
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewStreamChatLogic(ctx context.Context, svcCtx *svc.ServiceContext, w http.ResponseWriter) (*StreamChatLogic, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, xerrors.New(int(errno.InternalError), "streaming unsupported by this connection")
	}
	return &StreamChatLogic{
		Logger:  logx.WithContext(ctx),
		ctx:     ctx,
		svcCtx:  svcCtx,
		w:       w,
		flusher: flusher,
	}, nil
}

func (l *StreamChatLogic) StreamChat(req *types.ChatRequest) {
	l.w.Header().Set("Content-Type", "text/event-stream")
	l.w.Header().Set("Cache-Control", "no-cache")
	l.w.Header().Set("Connection", "keep-alive")
	l.w.Header().Set("X-Accel-Buffering", "no")

	inner := NewChatLogic(l.ctx, l.svcCtx)
	st, out, err := inner.step(req)
	if err != nil {
		l.writeError(err)
		return
	}

	message := ""
	if out != nil {
		message = out.Message
	} else {
		message = l.svcCtx.Orchestrator.Greeting()
	}

	for _, chunk := range chunkText(message, chunkWords) {
		l.writeEvent("message_chunk", map[string]string{"content": chunk})
	}

	if out != nil && len(out.Results) > 0 {
		l.writeEvent("products", map[string]any{
			"recommendations": helper.ToRecommendationViews(out.Results),
		})
	}

	l.writeEvent("done", map[string]string{
		"conversation_id": strconv.FormatInt(st.ConversationID, 10),
		"stage":           st.Stage,
	})
}

func (l *StreamChatLogic) writeError(err error) {
	code := errno.InternalError
	msg := "internal error"
	var cm *xerrors.CodeMsg
	if errors.As(err, &cm) {
		code = cm.Code
		msg = cm.Msg
	}
	l.writeEvent("error", map[string]any{"code": code, "msg": msg})
}

func (l *StreamChatLogic) writeEvent(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		l.Errorw("marshal sse payload failed", logx.Field("event", name), logx.Field("err", err))
		return
	}
	if _, err := fmt.Fprintf(l.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		l.Errorw("write sse event failed", logx.Field("event", name), logx.Field("err", err))
		return
	}
	l.flusher.Flush()
}

// chunkText splits the assistant message into word groups so the client can
// render it progressively.
func chunkText(text string, words int) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(fields); i += words {
		end := i + words
		if end > len(fields) {
			end = len(fields)
		}
		chunk := strings.Join(fields[i:end], " ")
		if end < len(fields) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
