// Package dialogue drives the clarification loop: extract attributes, decide
// whether to ask or search, rank the catalog, and keep conversation state
// consistent across failures.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StyleMuse/app/stylist/attr"
	"StyleMuse/app/stylist/clarify"
	"StyleMuse/app/stylist/interpret"
	"StyleMuse/app/stylist/match"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrCatalogUnavailable reports a failed candidate fetch. The turn that hit
// it is not committed, so the user can simply retry.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ErrConversationClosed reports a Step on a conversation that already ended.
var ErrConversationClosed = errors.New("conversation closed")

// Catalog supplies ranking candidates for the current attribute state.
type Catalog interface {
	Candidates(ctx context.Context, known attr.Set) ([]match.Item, error)
}

const (
	greetingText = "Hey! Tell me what you're shopping for and the vibe you're going for, and I'll pull some options."
	giveUpText   = "I'm having trouble pinning down what you're after. Take a look around the catalog and come back when something catches your eye!"
)

// Outcome is what one committed turn produced.
type Outcome struct {
	Stage   string
	Message string
	Results []match.Result
	Asked   string // attribute name when the turn asked a follow-up
}

type Config struct {
	Schema         *attr.Schema
	Extractor      interpret.Extractor
	Fallback       interpret.Extractor
	Policy         *clarify.Policy
	Matcher        *match.Matcher
	Catalog        Catalog
	Voice          Voice
	CatalogTimeout time.Duration
}

type Orchestrator struct {
	log            logx.Logger
	sch            *attr.Schema
	extractor      interpret.Extractor
	fallback       interpret.Extractor
	policy         *clarify.Policy
	matcher        *match.Matcher
	catalog        Catalog
	voice          Voice
	catalogTimeout time.Duration
}

func NewOrchestrator(logger logx.Logger, cfg Config) *Orchestrator {
	timeout := cfg.CatalogTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	sch := cfg.Schema
	if sch == nil {
		sch = attr.Default()
	}
	return &Orchestrator{
		log:            logger,
		sch:            sch,
		extractor:      cfg.Extractor,
		fallback:       cfg.Fallback,
		policy:         cfg.Policy,
		matcher:        cfg.Matcher,
		catalog:        cfg.Catalog,
		voice:          cfg.Voice,
		catalogTimeout: timeout,
	}
}

// Greeting is the canned opener for an empty conversation. No model call.
func (o *Orchestrator) Greeting() string {
	return greetingText
}

// Step runs one user turn. It works on a clone and writes back into st only
// when the whole turn succeeded, so a catalog failure leaves the
// conversation exactly where it was.
func (o *Orchestrator) Step(ctx context.Context, st *State, userText string) (*Outcome, error) {
	if st.Terminal() {
		return nil, ErrConversationClosed
	}

	ns := st.Clone()
	ns.appendTurn(Turn{Role: RoleUser, Content: userText})

	delta := o.extract(ctx, ns)
	if len(delta) == 0 {
		ns.NonAnswers++
	} else {
		ns.NonAnswers = 0
	}
	ns.Known.Merge(delta)

	decision := o.policy.Decide(clarify.Input{
		Known:          ns.Known,
		Clarifications: ns.Clarifications,
		NonAnswers:     ns.NonAnswers,
		EmptyRuns:      ns.EmptyRuns,
	})

	var out *Outcome
	switch decision.Kind {
	case clarify.KindAsk:
		ns.Clarifications++
		ns.Stage = StageClarifying
		ns.appendTurn(Turn{Role: RoleAssistant, Content: decision.Question})
		out = &Outcome{Stage: ns.Stage, Message: decision.Question, Asked: decision.Attribute}

	case clarify.KindGiveUp:
		ns.Stage = StageClosed
		ns.appendTurn(Turn{Role: RoleAssistant, Content: giveUpText})
		out = &Outcome{Stage: ns.Stage, Message: giveUpText}

	default:
		var err error
		out, err = o.search(ctx, ns)
		if err != nil {
			return nil, err
		}
	}

	*st = *ns
	return out, nil
}

// Restore rebuilds conversation state from a raw turn history, for requests
// that arrive without a live session. The attribute set is recovered with
// one extraction pass over the joined user turns; the question counter is
// recovered from the assistant turns that match a schema prompt.
func (o *Orchestrator) Restore(ctx context.Context, conversationID int64, turns []Turn) *State {
	st := NewState(conversationID)
	st.Turns = append(st.Turns, turns...)
	st.Clarifications = o.spentClarifications(turns)
	if len(turns) > 0 {
		st.Stage = StageClarifying
	}

	transcript := st.userTranscript()
	if transcript == "" {
		return st
	}

	replay := NewState(conversationID)
	replay.appendTurn(Turn{Role: RoleUser, Content: transcript})
	st.Known.Merge(o.extract(ctx, replay))
	return st
}

// spentClarifications counts the assistant turns that asked one of the
// schema's clarification questions. Broadening suggestions and polished
// recommendation texts may carry a question mark without having spent any
// question budget, so counting is by prompt, not by punctuation.
func (o *Orchestrator) spentClarifications(turns []Turn) int {
	prompts := make(map[string]struct{})
	for _, a := range o.sch.Attributes() {
		if a.Prompt != "" {
			prompts[a.Prompt] = struct{}{}
		}
	}

	n := 0
	for _, t := range turns {
		if t.Role != RoleAssistant {
			continue
		}
		if _, ok := prompts[t.Content]; ok {
			n++
		}
	}
	return n
}

// extract runs the primary extractor and falls back to keyword scanning when
// extraction is unavailable. An empty delta is a valid answer.
func (o *Orchestrator) extract(ctx context.Context, ns *State) attr.Set {
	delta, err := o.extractor.Extract(ctx, ns.History(), ns.Known)
	if err == nil {
		return delta
	}
	o.log.Errorw("extraction degraded to keyword scan",
		logx.Field("conversation_id", ns.ConversationID), logx.Field("err", err))

	if o.fallback == nil {
		return attr.Set{}
	}
	delta, err = o.fallback.Extract(ctx, ns.History(), ns.Known)
	if err != nil {
		o.log.Errorw("keyword fallback failed", logx.Field("err", err))
		return attr.Set{}
	}
	return delta
}

// search ranks the catalog against the resolved attributes. The matcher is
// never invoked with an empty set; zero matches turn into a broadening
// question rather than an empty recommendation list.
func (o *Orchestrator) search(ctx context.Context, ns *State) (*Outcome, error) {
	if len(ns.Known) == 0 {
		// question budget may be spent, but searching blind is worse
		q := "Give me anything to go on: a piece, a color, an occasion?"
		ns.Stage = StageClarifying
		ns.appendTurn(Turn{Role: RoleAssistant, Content: q})
		return &Outcome{Stage: ns.Stage, Message: q}, nil
	}

	cctx, cancel := context.WithTimeout(ctx, o.catalogTimeout)
	defer cancel()

	items, err := o.catalog.Candidates(cctx, ns.Known)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	results := o.matcher.Rank(ns.Known, items)
	if len(results) == 0 {
		ns.EmptyRuns++
		q := o.broadeningQuestion(ns.Known)
		ns.Stage = StageClarifying
		ns.appendTurn(Turn{Role: RoleAssistant, Content: q})
		return &Outcome{Stage: ns.Stage, Message: q}, nil
	}

	ns.EmptyRuns = 0
	ns.Stage = StageRecommending

	draft := summarizeResults(results)
	msg := draft
	if o.voice != nil {
		msg = o.voice.Polish(ctx, ns.Known, results, draft)
	}
	ns.appendTurn(Turn{Role: RoleAssistant, Content: msg, Recommendations: results})
	return &Outcome{Stage: ns.Stage, Message: msg, Results: results}, nil
}

// broadeningQuestion suggests the loosening most likely to produce results.
func (o *Orchestrator) broadeningQuestion(known attr.Set) string {
	if v, ok := known["budget"]; ok && v.Max > 0 {
		return fmt.Sprintf("I couldn't find anything under $%.0f that fits. Could you stretch the budget a little, or should I try a different category?", float64(v.Max)/100)
	}
	if known.Resolved("category") {
		return "Nothing in that category matched everything you asked for. Want me to try a neighboring category or drop one of the constraints?"
	}
	return "I came up empty with those filters. Is there a constraint you'd be willing to relax?"
}
