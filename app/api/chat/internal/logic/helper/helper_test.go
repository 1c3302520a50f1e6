package helper

import (
	"testing"

	"StyleMuse/app/api/chat/internal/types"
	"StyleMuse/app/common/consts/errno"
	"StyleMuse/app/stylist/dialogue"
	"StyleMuse/app/stylist/match"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecommendationViews(t *testing.T) {
	results := []match.Result{
		{
			Item:   match.Item{ID: 42, Name: "Noir Midi", Category: "dress", Price: 9950},
			Score:  0.87,
			Reason: "Noir Midi matches the black color.",
		},
	}
	views := ToRecommendationViews(results)
	require.Len(t, views, 1)
	assert.Equal(t, "42", views[0].Id)
	assert.Equal(t, 99.50, views[0].Price)
	assert.Equal(t, 0.87, views[0].Score)
	assert.Equal(t, "dress", views[0].Category)
}

func TestToChatResponse(t *testing.T) {
	st := dialogue.NewState(7)
	st.Stage = dialogue.StageClarifying

	resp := ToChatResponse(st, "What kind of piece?", nil)
	assert.Equal(t, errno.StatusOK, resp.Code)
	assert.Equal(t, "7", resp.ConversationId)
	assert.Equal(t, dialogue.StageClarifying, resp.Stage)
	assert.Empty(t, resp.Recommendations)
}

func TestToTurnsNormalizesRoles(t *testing.T) {
	turns := ToTurns([]types.ChatMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "system", Content: "ignored role becomes user"},
	})
	require.Len(t, turns, 3)
	assert.Equal(t, dialogue.RoleUser, turns[0].Role)
	assert.Equal(t, dialogue.RoleAssistant, turns[1].Role)
	assert.Equal(t, dialogue.RoleUser, turns[2].Role)
}
