package interpret

import (
	"context"
	"testing"

	"StyleMuse/app/stylist/attr"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
)

func history(texts ...string) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(texts))
	for i, t := range texts {
		if i%2 == 0 {
			msgs = append(msgs, schema.UserMessage(t))
		} else {
			msgs = append(msgs, schema.AssistantMessage(t, nil))
		}
	}
	return msgs
}

func TestKeywordExtractorVocabulary(t *testing.T) {
	k := NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())

	delta, err := k.Extract(context.Background(), history("I want a black dress for a party"), nil)
	require.NoError(t, err)

	require.True(t, delta.Resolved("category"))
	assert.Equal(t, "dress", delta["category"].Scalar)
	assert.Equal(t, attr.ConfidenceLow, delta["category"].Confidence)
	assert.Equal(t, "black", delta["color"].Scalar)
	assert.Equal(t, []string{"party"}, delta["occasion"].Set)
}

func TestKeywordExtractorVibes(t *testing.T) {
	k := NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())

	delta, err := k.Extract(context.Background(), history("something casual for the weekend"), nil)
	require.NoError(t, err)

	assert.Equal(t, "relaxed", delta["fit"].Scalar)
	assert.Contains(t, delta["occasion"].Set, "casual")
	for _, v := range delta {
		assert.Equal(t, attr.ConfidenceLow, v.Confidence)
	}
}

func TestKeywordExtractorAliases(t *testing.T) {
	k := NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())

	delta, err := k.Extract(context.Background(), history("a baggy tee please"), nil)
	require.NoError(t, err)

	assert.Equal(t, "t-shirt", delta["category"].Scalar)
	assert.Equal(t, "relaxed", delta["fit"].Scalar)
}

func TestKeywordExtractorBudget(t *testing.T) {
	k := NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())

	tests := []struct {
		name string
		text string
		min  int64
		max  int64
	}{
		{"under", "a dress under $120", 0, 12000},
		{"between", "between $50 and $100", 5000, 10000},
		{"range dash", "$40-$80 works", 4000, 8000},
		{"around", "around $50", 0, 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, err := k.Extract(context.Background(), history(tt.text), nil)
			require.NoError(t, err)
			require.True(t, delta.Resolved("budget"))
			assert.Equal(t, tt.min, delta["budget"].Min)
			assert.Equal(t, tt.max, delta["budget"].Max)
		})
	}
}

func TestKeywordExtractorWordBoundaries(t *testing.T) {
	k := NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())

	// "tailored" must not trigger the color "red"
	delta, err := k.Extract(context.Background(), history("a tailored jacket"), nil)
	require.NoError(t, err)

	assert.False(t, delta.Resolved("color"))
	assert.Equal(t, "tailored", delta["fit"].Scalar)
	assert.Equal(t, "jacket", delta["category"].Scalar)
}

func TestKeywordExtractorEmptyHistory(t *testing.T) {
	k := NewKeywordExtractor(logx.WithContext(context.Background()), attr.Default())

	delta, err := k.Extract(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, delta)
}
