// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	ConversationId string        `json:"conversation_id,optional"`
	Messages       []ChatMessage `json:"messages,optional"`
	Stream         bool          `json:"stream,optional"`
}

type RecommendationView struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"` // dollars
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}

type ChatResponse struct {
	Code            int                  `json:"code"`
	Msg             string               `json:"msg"`
	ConversationId  string               `json:"conversation_id"`
	Stage           string               `json:"stage"`
	Message         string               `json:"message"`
	Recommendations []RecommendationView `json:"recommendations"`
}
