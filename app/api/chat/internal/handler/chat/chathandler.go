// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package chat

import (
	"net/http"

	"StyleMuse/app/api/chat/internal/logic/chat"
	"StyleMuse/app/api/chat/internal/svc"
	"StyleMuse/app/api/chat/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func ChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		if req.Stream {
			l, err := chat.NewStreamChatLogic(r.Context(), svcCtx, w)
			if err != nil {
				httpx.ErrorCtx(r.Context(), w, err)
				return
			}
			l.StreamChat(&req)
			return
		}

		l := chat.NewChatLogic(r.Context(), svcCtx)
		resp, err := l.Chat(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
