package dialogue

import (
	"strings"

	"StyleMuse/app/stylist/attr"
	"StyleMuse/app/stylist/match"

	"github.com/cloudwego/eino/schema"
)

const (
	StageGreeting     = "greeting"
	StageClarifying   = "clarifying"
	StageRecommending = "recommending"
	StageClosed       = "closed"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the conversation as persisted in the session store.
type Turn struct {
	Role            string         `json:"role"`
	Content         string         `json:"content"`
	Recommendations []match.Result `json:"recommendations,omitempty"`
}

// State is the full conversation state. It is the unit the session store
// serializes, so everything on it must round-trip through JSON.
type State struct {
	ConversationID int64    `json:"conversation_id"`
	Turns          []Turn   `json:"turns"`
	Known          attr.Set `json:"known"`
	Clarifications int      `json:"clarifications"`
	NonAnswers     int      `json:"non_answers"`
	EmptyRuns      int      `json:"empty_runs"`
	Stage          string   `json:"stage"`
}

func NewState(conversationID int64) *State {
	return &State{
		ConversationID: conversationID,
		Known:          attr.Set{},
		Stage:          StageGreeting,
	}
}

func (s *State) Terminal() bool {
	return s.Stage == StageClosed
}

func (s *State) Clone() *State {
	cp := *s
	cp.Turns = make([]Turn, len(s.Turns))
	copy(cp.Turns, s.Turns)
	cp.Known = s.Known.Clone()
	return &cp
}

func (s *State) appendTurn(t Turn) {
	s.Turns = append(s.Turns, t)
}

// History renders the turns as chat messages for the extractor.
func (s *State) History() []*schema.Message {
	msgs := make([]*schema.Message, 0, len(s.Turns))
	for _, t := range s.Turns {
		switch t.Role {
		case RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(t.Content))
		}
	}
	return msgs
}

// userTranscript joins all user turns into one block of text, used when
// rebuilding attribute state from a raw history.
func (s *State) userTranscript() string {
	var parts []string
	for _, t := range s.Turns {
		if t.Role == RoleUser && strings.TrimSpace(t.Content) != "" {
			parts = append(parts, t.Content)
		}
	}
	return strings.Join(parts, "\n")
}
