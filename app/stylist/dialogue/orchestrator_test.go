package dialogue

import (
	"context"
	"errors"
	"testing"

	"StyleMuse/app/stylist/attr"
	"StyleMuse/app/stylist/clarify"
	"StyleMuse/app/stylist/interpret"
	"StyleMuse/app/stylist/match"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
)

// scriptExtractor replays a fixed sequence of deltas.
type scriptExtractor struct {
	deltas []attr.Set
	err    error
	calls  int
}

func (s *scriptExtractor) Extract(_ context.Context, _ []*schema.Message, _ attr.Set) (attr.Set, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.calls >= len(s.deltas) {
		return attr.Set{}, nil
	}
	d := s.deltas[s.calls]
	s.calls++
	return d, nil
}

type memCatalog struct {
	items []match.Item
	err   error
	calls int
}

func (c *memCatalog) Candidates(_ context.Context, _ attr.Set) ([]match.Item, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.items, nil
}

func partyDresses() []match.Item {
	return []match.Item{
		{ID: 1, Name: "Noir Midi", Category: "dress", Price: 9900, Color: "black", Fit: "bodycon", Occasions: []string{"party"}},
		{ID: 2, Name: "Scarlet Wrap", Category: "dress", Price: 12900, Color: "red", Fit: "bodycon", Occasions: []string{"date"}},
		{ID: 3, Name: "Garden Sundress", Category: "dress", Price: 7900, Color: "yellow", Fit: "flowy", Occasions: []string{"brunch"}},
	}
}

func fullDelta() attr.Set {
	return attr.Set{
		"category": attr.ScalarValue("dress", attr.ConfidenceHigh),
		"occasion": attr.SetValue([]string{"party"}, attr.ConfidenceHigh),
		"fit":      attr.ScalarValue("bodycon", attr.ConfidenceHigh),
		"color":    attr.ScalarValue("black", attr.ConfidenceHigh),
		"budget":   attr.RangeValue(0, 15000, attr.ConfidenceHigh),
	}
}

func newTestOrchestrator(ext, fb interpret.Extractor, cat Catalog) *Orchestrator {
	sch := attr.Default()
	return NewOrchestrator(logx.WithContext(context.Background()), Config{
		Extractor: ext,
		Fallback:  fb,
		Policy:    clarify.NewPolicy(sch, 2),
		Matcher:   match.NewMatcher(sch, 0, 4),
		Catalog:   cat,
	})
}

func TestVagueOpenerAsksHighestPriority(t *testing.T) {
	ext := &scriptExtractor{deltas: []attr.Set{
		{"occasion": attr.SetValue([]string{"casual"}, attr.ConfidenceLow)},
	}}
	o := newTestOrchestrator(ext, nil, &memCatalog{})

	st := NewState(1)
	out, err := o.Step(context.Background(), st, "I need something casual for the weekend")
	require.NoError(t, err)

	assert.Equal(t, StageClarifying, out.Stage)
	assert.Equal(t, "category", out.Asked)
	assert.Equal(t, 1, st.Clarifications)
	require.Len(t, st.Turns, 2)
	assert.Equal(t, RoleAssistant, st.Turns[1].Role)
}

func TestFullFlowRecommends(t *testing.T) {
	ext := &scriptExtractor{deltas: []attr.Set{fullDelta()}}
	cat := &memCatalog{items: partyDresses()}
	o := newTestOrchestrator(ext, nil, cat)

	st := NewState(1)
	out, err := o.Step(context.Background(), st, "a black bodycon dress for a party, up to $150")
	require.NoError(t, err)

	assert.Equal(t, StageRecommending, out.Stage)
	require.NotEmpty(t, out.Results)
	assert.Equal(t, int64(1), out.Results[0].Item.ID)
	assert.Contains(t, out.Message, "Noir Midi")
	require.Len(t, st.Turns, 2)
	assert.NotEmpty(t, st.Turns[1].Recommendations)
	assert.Zero(t, st.EmptyRuns)
}

func TestZeroMatchesBecomeBroadeningQuestion(t *testing.T) {
	delta := fullDelta()
	delta["budget"] = attr.RangeValue(0, 1000, attr.ConfidenceHigh)
	ext := &scriptExtractor{deltas: []attr.Set{delta}}
	// catalog returns items, but nothing survives a $10 budget with the floor
	cat := &memCatalog{items: []match.Item{{ID: 9, Name: "Gown", Category: "jacket", Price: 99000}}}
	o := newTestOrchestrator(ext, nil, cat)

	st := NewState(1)
	out, err := o.Step(context.Background(), st, "a party dress for ten dollars")
	require.NoError(t, err)

	assert.Equal(t, StageClarifying, out.Stage)
	assert.Empty(t, out.Results)
	assert.Contains(t, out.Message, "$10")
	assert.Equal(t, 1, st.EmptyRuns)
}

func TestCatalogFailureLeavesStateUntouched(t *testing.T) {
	ext := &scriptExtractor{deltas: []attr.Set{fullDelta()}}
	cat := &memCatalog{err: errors.New("mysql is down")}
	o := newTestOrchestrator(ext, nil, cat)

	st := NewState(1)
	_, err := o.Step(context.Background(), st, "a black party dress")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	assert.Empty(t, st.Turns, "failed turn must not be committed")
	assert.Empty(t, st.Known)
	assert.Equal(t, StageGreeting, st.Stage)
}

func TestExtractionFallsBackToKeywords(t *testing.T) {
	ext := &scriptExtractor{err: interpret.ErrExtractionUnavailable}
	fb := interpret.NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())
	o := newTestOrchestrator(ext, fb, &memCatalog{})

	st := NewState(1)
	out, err := o.Step(context.Background(), st, "a black dress for a party under $120")
	require.NoError(t, err)

	// keyword scan resolved attributes, so the policy keeps clarifying
	// instead of giving up
	assert.Equal(t, StageClarifying, out.Stage)
	assert.True(t, st.Known.Resolved("category"))
	assert.True(t, st.Known.Resolved("budget"))
	assert.Equal(t, attr.ConfidenceLow, st.Known["category"].Confidence)
}

func TestGiveUpAfterFruitlessLoop(t *testing.T) {
	ext := &scriptExtractor{deltas: nil} // every turn resolves nothing
	cat := &memCatalog{}
	o := newTestOrchestrator(ext, nil, cat)

	st := NewState(1)
	var lastStage string
	for _, text := range []string{"idk", "whatever", "you pick", "just something"} {
		out, err := o.Step(context.Background(), st, text)
		require.NoError(t, err)
		lastStage = out.Stage
		if st.Terminal() {
			break
		}
	}

	assert.Equal(t, StageClosed, lastStage)
	assert.True(t, st.Terminal())
	assert.Zero(t, cat.calls, "the matcher must never see an empty attribute set")

	_, err := o.Step(context.Background(), st, "hello?")
	assert.ErrorIs(t, err, ErrConversationClosed)
}

func TestRestoreRebuildsCountersAndAttributes(t *testing.T) {
	fb := interpret.NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())
	ext := &scriptExtractor{err: interpret.ErrExtractionUnavailable}
	o := newTestOrchestrator(ext, fb, &memCatalog{})

	sch := attr.Default()
	occasion, _ := sch.Lookup("occasion")
	color, _ := sch.Lookup("color")
	turns := []Turn{
		{Role: RoleUser, Content: "I want a dress"},
		{Role: RoleAssistant, Content: occasion.Prompt},
		{Role: RoleUser, Content: "a party"},
		{Role: RoleAssistant, Content: color.Prompt},
	}
	st := o.Restore(context.Background(), 42, turns)

	assert.Equal(t, int64(42), st.ConversationID)
	assert.Equal(t, 2, st.Clarifications)
	assert.Equal(t, StageClarifying, st.Stage)
	assert.True(t, st.Known.Resolved("category"))
	assert.True(t, st.Known.Resolved("occasion"))
	assert.Len(t, st.Turns, 4)
}

func TestRestoreIgnoresQuestionsThatSpentNoBudget(t *testing.T) {
	ext := &scriptExtractor{err: interpret.ErrExtractionUnavailable}
	o := newTestOrchestrator(ext, nil, &memCatalog{})

	category, _ := attr.Default().Lookup("category")
	turns := []Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: category.Prompt},
		{Role: RoleUser, Content: "a dress for ten dollars"},
		{Role: RoleAssistant, Content: "I couldn't find anything under $10 that fits. Could you stretch the budget a little, or should I try a different category?"},
		{Role: RoleAssistant, Content: "How about the Noir Midi? It runs about $99."},
	}
	st := o.Restore(context.Background(), 7, turns)

	// only the schema prompt counts; broadening and recommendation texts
	// carry question marks without spending question budget
	assert.Equal(t, 1, st.Clarifications)
}

func TestGreetingIsStatic(t *testing.T) {
	o := newTestOrchestrator(&scriptExtractor{}, nil, &memCatalog{})
	assert.NotEmpty(t, o.Greeting())
}
