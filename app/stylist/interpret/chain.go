package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"StyleMuse/app/stylist/attr"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

type chainInput struct {
	History []*schema.Message
	Known   attr.Set
}

// wireValue is the per-attribute shape the model is asked to emit. Range
// bounds travel in dollars and are converted to cents on parse.
type wireValue struct {
	Value      string   `json:"value,omitempty"`
	Values     []string `json:"values,omitempty"`
	Min        float64  `json:"min,omitempty"`
	Max        float64  `json:"max,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
}

type wirePayload struct {
	Attributes map[string]wireValue `json:"attributes"`
}

// LLMExtractor runs one extraction request per turn over the full
// conversation, asking the model for a JSON delta keyed by schema attribute.
// Values outside the schema vocabulary are dropped silently.
type LLMExtractor struct {
	log      logx.Logger
	sch      *attr.Schema
	runnable compose.Runnable[chainInput, attr.Set]
	timeout  time.Duration
}

func NewLLMExtractor(ctx context.Context, logger logx.Logger, sch *attr.Schema, chatModel model.BaseChatModel, timeout time.Duration) (*LLMExtractor, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	e := &LLMExtractor{
		log:     logger,
		sch:     sch,
		timeout: timeout,
	}

	chain := compose.NewChain[chainInput, attr.Set]()

	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, in chainInput) ([]*schema.Message, error) {
		var sys strings.Builder
		sys.WriteString("You are the attribute extractor for a fashion shopping assistant. ")
		sys.WriteString("Read the conversation and output ONLY the attributes newly mentioned or changed in the latest user message, as JSON. No explanations, no markdown, no extra text.\n")
		sys.WriteString("Attributes and allowed values:\n")
		sys.WriteString(sch.EnumerateForPrompt())
		sys.WriteString(`Output shape:
{"attributes":{"category":{"value":"dress","confidence":"high"},"occasion":{"values":["party"],"confidence":"high"},"budget":{"min":0,"max":120,"confidence":"high"}}}
Use "values" for occasion and style, "value" for the rest, min/max dollars for budget.
Confidence is "high" when the user stated it, "low" when you inferred it from mood or vibe words.
Omit attributes the latest message says nothing about. Emit {"attributes":{}} when nothing new was said.`)
		if summary := summarizeKnown(in.Known); summary != "" {
			sys.WriteString("\nAlready known, repeat only if the user changed them: ")
			sys.WriteString(summary)
		}

		msgs := make([]*schema.Message, 0, len(in.History)+1)
		msgs = append(msgs, schema.SystemMessage(sys.String()))
		msgs = append(msgs, in.History...)
		return msgs, nil
	}))

	chain.AppendChatModel(chatModel)

	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, msg *schema.Message) (attr.Set, error) {
		if msg == nil {
			return nil, fmt.Errorf("empty message")
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return nil, fmt.Errorf("empty response")
		}

		clean := trimJSONBlock(content)

		var payload wirePayload
		if err := json.Unmarshal([]byte(clean), &payload); err != nil {
			return nil, err
		}
		return e.fromWire(payload), nil
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, err
	}

	e.runnable = runnable
	return e, nil
}

func (e *LLMExtractor) Extract(ctx context.Context, history []*schema.Message, known attr.Set) (attr.Set, error) {
	if e == nil || e.runnable == nil {
		return nil, ErrExtractionUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	delta, err := e.runnable.Invoke(ctx, chainInput{History: history, Known: known})
	if err != nil {
		e.log.Errorw("attribute extraction failed", logx.Field("err", err))
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	return delta, nil
}

// fromWire converts the model payload into schema values, discarding
// anything the schema rejects.
func (e *LLMExtractor) fromWire(payload wirePayload) attr.Set {
	out := attr.Set{}
	for name, wv := range payload.Attributes {
		a, ok := e.sch.Lookup(name)
		if !ok {
			continue
		}
		conf := attr.ConfidenceLow
		if strings.EqualFold(wv.Confidence, "high") {
			conf = attr.ConfidenceHigh
		}
		switch a.Kind {
		case attr.RangeKind:
			min, max := dollarsToCents(wv.Min), dollarsToCents(wv.Max)
			if min == 0 && max == 0 {
				continue
			}
			if max > 0 && min > max {
				min, max = max, min
			}
			out[name] = attr.RangeValue(min, max, conf)
		case attr.SetKind:
			var kept []string
			for _, v := range wv.Values {
				if e.sch.Validate(name, v) {
					kept = append(kept, attr.Normalize(v))
				}
			}
			if len(kept) == 0 {
				continue
			}
			out[name] = attr.SetValue(kept, conf)
		default:
			if !e.sch.Validate(name, wv.Value) {
				continue
			}
			out[name] = attr.ScalarValue(attr.Normalize(wv.Value), conf)
		}
	}
	return out
}

func summarizeKnown(known attr.Set) string {
	if len(known) == 0 {
		return ""
	}
	parts := make([]string, 0, len(known))
	for name, v := range known {
		switch v.Kind {
		case attr.RangeKind:
			parts = append(parts, fmt.Sprintf("%s=$%.0f-$%.0f", name, float64(v.Min)/100, float64(v.Max)/100))
		case attr.SetKind:
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(v.Set, "/")))
		default:
			parts = append(parts, fmt.Sprintf("%s=%s", name, v.Scalar))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func dollarsToCents(d float64) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d*100 + 0.5)
}

func trimJSONBlock(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start > end {
		return content
	}
	return content[start : end+1]
}
