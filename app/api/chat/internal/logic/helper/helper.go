package helper

import (
	"strconv"

	"StyleMuse/app/api/chat/internal/types"
	"StyleMuse/app/common/consts/errno"
	"StyleMuse/app/stylist/dialogue"
	"StyleMuse/app/stylist/match"
)

func ToRecommendationViews(results []match.Result) []types.RecommendationView {
	views := make([]types.RecommendationView, 0, len(results))
	for _, r := range results {
		views = append(views, types.RecommendationView{
			Id:       strconv.FormatInt(r.Item.ID, 10),
			Name:     r.Item.Name,
			Category: r.Item.Category,
			Price:    float64(r.Item.Price) / 100.0,
			Score:    r.Score,
			Reason:   r.Reason,
		})
	}
	return views
}

func ToChatResponse(st *dialogue.State, message string, results []match.Result) *types.ChatResponse {
	return &types.ChatResponse{
		Code:            errno.StatusOK,
		Msg:             "ok",
		ConversationId:  strconv.FormatInt(st.ConversationID, 10),
		Stage:           st.Stage,
		Message:         message,
		Recommendations: ToRecommendationViews(results),
	}
}

func ToTurns(messages []types.ChatMessage) []dialogue.Turn {
	turns := make([]dialogue.Turn, 0, len(messages))
	for _, m := range messages {
		role := dialogue.RoleUser
		if m.Role == dialogue.RoleAssistant {
			role = dialogue.RoleAssistant
		}
		turns = append(turns, dialogue.Turn{Role: role, Content: m.Content})
	}
	return turns
}
