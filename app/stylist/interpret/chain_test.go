package interpret

import (
	"context"
	"errors"
	"testing"
	"time"

	"StyleMuse/app/stylist/attr"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
)

// stubChatModel replays canned completions.
type stubChatModel struct {
	replies []string
	err     error
	calls   int
}

func (s *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return schema.AssistantMessage(reply, nil), nil
}

func (s *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func newTestExtractor(t *testing.T, m model.BaseChatModel) *LLMExtractor {
	t.Helper()
	e, err := NewLLMExtractor(context.Background(), logx.WithContext(context.Background()), attr.Default(), m, time.Second)
	require.NoError(t, err)
	return e
}

func TestLLMExtractorParsesDelta(t *testing.T) {
	m := &stubChatModel{replies: []string{
		`{"attributes":{"category":{"value":"dress","confidence":"high"},"occasion":{"values":["party"],"confidence":"high"},"budget":{"min":0,"max":120,"confidence":"high"}}}`,
	}}
	e := newTestExtractor(t, m)

	delta, err := e.Extract(context.Background(), history("a party dress under $120"), nil)
	require.NoError(t, err)

	assert.Equal(t, "dress", delta["category"].Scalar)
	assert.Equal(t, attr.ConfidenceHigh, delta["category"].Confidence)
	assert.Equal(t, []string{"party"}, delta["occasion"].Set)
	assert.Equal(t, int64(12000), delta["budget"].Max)
}

func TestLLMExtractorTrimsProse(t *testing.T) {
	m := &stubChatModel{replies: []string{
		"Sure! Here you go:\n```json\n{\"attributes\":{\"color\":{\"value\":\"black\",\"confidence\":\"high\"}}}\n```",
	}}
	e := newTestExtractor(t, m)

	delta, err := e.Extract(context.Background(), history("black please"), nil)
	require.NoError(t, err)
	assert.Equal(t, "black", delta["color"].Scalar)
}

func TestLLMExtractorDropsSchemaViolations(t *testing.T) {
	m := &stubChatModel{replies: []string{
		`{"attributes":{"category":{"value":"spaceship","confidence":"high"},"mood":{"value":"happy"},"color":{"value":"navy","confidence":"low"}}}`,
	}}
	e := newTestExtractor(t, m)

	delta, err := e.Extract(context.Background(), history("anything"), nil)
	require.NoError(t, err)

	assert.False(t, delta.Resolved("category"))
	assert.False(t, delta.Resolved("mood"))
	assert.Equal(t, "navy", delta["color"].Scalar)
	assert.Equal(t, attr.ConfidenceLow, delta["color"].Confidence)
}

func TestLLMExtractorMalformedOutput(t *testing.T) {
	m := &stubChatModel{replies: []string{"I could not decide on attributes, sorry."}}
	e := newTestExtractor(t, m)

	_, err := e.Extract(context.Background(), history("a dress"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionUnavailable)
}

func TestLLMExtractorTransportError(t *testing.T) {
	m := &stubChatModel{err: errors.New("upstream 503")}
	e := newTestExtractor(t, m)

	_, err := e.Extract(context.Background(), history("a dress"), nil)
	assert.ErrorIs(t, err, ErrExtractionUnavailable)
}

func TestLLMExtractorBudgetBoundsSwapped(t *testing.T) {
	m := &stubChatModel{replies: []string{
		`{"attributes":{"budget":{"min":200,"max":100,"confidence":"high"}}}`,
	}}
	e := newTestExtractor(t, m)

	delta, err := e.Extract(context.Background(), history("100 to 200"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), delta["budget"].Min)
	assert.Equal(t, int64(20000), delta["budget"].Max)
}

func TestLLMExtractorDeterministicForSameTurn(t *testing.T) {
	reply := `{"attributes":{"category":{"value":"skirt","confidence":"high"}}}`
	m := &stubChatModel{replies: []string{reply, reply}}
	e := newTestExtractor(t, m)

	h := history("a skirt")
	first, err := e.Extract(context.Background(), h, nil)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), h, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
