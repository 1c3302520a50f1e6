package dialogue

import (
	"context"
	"fmt"
	"strings"

	"StyleMuse/app/stylist/attr"
	"StyleMuse/app/stylist/match"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

// Voice rewrites the deterministic recommendation summary in a
// conversational tone. Implementations must return the draft unchanged when
// they cannot improve on it.
type Voice interface {
	Polish(ctx context.Context, known attr.Set, results []match.Result, draft string) string
}

// ModelVoice polishes with the chat model and falls back to the draft when
// the model is nil or errors.
type ModelVoice struct {
	log   logx.Logger
	model model.BaseChatModel
}

func NewModelVoice(logger logx.Logger, chatModel model.BaseChatModel) *ModelVoice {
	return &ModelVoice{log: logger, model: chatModel}
}

func (v *ModelVoice) Polish(ctx context.Context, known attr.Set, results []match.Result, draft string) string {
	if v == nil || v.model == nil || len(results) == 0 {
		return draft
	}

	var sb strings.Builder
	sb.WriteString("Recommendations to present:\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s, about $%.2f. %s\n", i+1, r.Item.Name, float64(r.Item.Price)/100.0, r.Reason))
	}

	systemPrompt := `You are a friendly personal stylist. Rewrite the recommendation list below as one short, warm paragraph.
Rules:
- Mention every item by name with its price.
- Keep the stated match reasons, do not invent attributes or items.
- No markdown, no bullet lists.`

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(sb.String()),
	}

	out, err := v.model.Generate(ctx, messages)
	if err != nil || out == nil || strings.TrimSpace(out.Content) == "" {
		v.log.Errorw("voice polish failed, using draft", logx.Field("err", err))
		return draft
	}
	return strings.TrimSpace(out.Content)
}

func summarizeResults(results []match.Result) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Here's what I found for you:\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s, about $%.2f", i+1, r.Item.Name, float64(r.Item.Price)/100.0))
		if reason := strings.TrimSpace(r.Reason); reason != "" {
			sb.WriteString(". " + reason)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
