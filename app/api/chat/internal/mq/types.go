package mq

import "time"

const TaskExpireConversation = "chat:expire_conversation"

type ExpireConversationPayload struct {
	ConversationId int64 `json:"conversation_id"`
}

// RecommendationEvent is emitted once per recommending turn.
type RecommendationEvent struct {
	ConversationId int64     `json:"conversation_id"`
	UserId         int64     `json:"user_id,omitempty"`
	ApparelIds     []int64   `json:"apparel_ids"`
	Scores         []float64 `json:"scores"`
	ShownAt        time.Time `json:"shown_at"`
}
