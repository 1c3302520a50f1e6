package clarify

import (
	"testing"

	"StyleMuse/app/stylist/attr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsksInPriorityOrder(t *testing.T) {
	p := NewPolicy(attr.Default(), 5)

	d := p.Decide(Input{Known: attr.Set{}})
	require.Equal(t, KindAsk, d.Kind)
	assert.Equal(t, "category", d.Attribute)
	assert.NotEmpty(t, d.Question)

	known := attr.Set{"category": attr.ScalarValue("dress", attr.ConfidenceHigh)}
	d = p.Decide(Input{Known: known})
	assert.Equal(t, "occasion", d.Attribute)
}

func TestCardinalityTieBreak(t *testing.T) {
	sch := attr.NewSchema([]attr.Attribute{
		{Name: "wide", Kind: attr.ScalarKind, Values: []string{"a", "b", "c", "d"}, Required: true, Priority: 1, Prompt: "wide?"},
		{Name: "narrow", Kind: attr.ScalarKind, Values: []string{"a", "b"}, Required: true, Priority: 1, Prompt: "narrow?"},
	})
	p := NewPolicy(sch, 5)

	d := p.Decide(Input{Known: attr.Set{}})
	require.Equal(t, KindAsk, d.Kind)
	assert.Equal(t, "narrow", d.Attribute)
}

func TestProceedsAtCap(t *testing.T) {
	p := NewPolicy(attr.Default(), 2)

	in := Input{
		Known:          attr.Set{"category": attr.ScalarValue("dress", attr.ConfidenceHigh)},
		Clarifications: 2,
	}
	d := p.Decide(in)
	assert.Equal(t, KindProceed, d.Kind)
}

func TestReasksLowConfidence(t *testing.T) {
	p := NewPolicy(attr.Default(), 5)

	known := attr.Set{
		"category": attr.ScalarValue("dress", attr.ConfidenceHigh),
		"occasion": attr.SetValue([]string{"party"}, attr.ConfidenceHigh),
		"fit":      attr.ScalarValue("relaxed", attr.ConfidenceLow),
		"color":    attr.ScalarValue("black", attr.ConfidenceHigh),
		"budget":   attr.RangeValue(0, 12000, attr.ConfidenceHigh),
	}
	d := p.Decide(Input{Known: known})
	require.Equal(t, KindAsk, d.Kind)
	assert.Equal(t, "fit", d.Attribute)
}

func TestProceedsWhenAllRequiredConfident(t *testing.T) {
	p := NewPolicy(attr.Default(), 2)

	known := attr.Set{
		"category": attr.ScalarValue("dress", attr.ConfidenceHigh),
		"occasion": attr.SetValue([]string{"party"}, attr.ConfidenceHigh),
		"fit":      attr.ScalarValue("bodycon", attr.ConfidenceHigh),
		"color":    attr.ScalarValue("red", attr.ConfidenceHigh),
		"budget":   attr.RangeValue(0, 15000, attr.ConfidenceHigh),
	}
	d := p.Decide(Input{Known: known, Clarifications: 1})
	assert.Equal(t, KindProceed, d.Kind)
}

func TestGiveUpNeedsAllConditions(t *testing.T) {
	p := NewPolicy(attr.Default(), 2)

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			"cap spent, non-answers, nothing known",
			Input{Known: attr.Set{}, Clarifications: 2, NonAnswers: 2},
			KindGiveUp,
		},
		{
			"cap spent, non-answers, empty runs",
			Input{
				Known:          attr.Set{"category": attr.ScalarValue("dress", attr.ConfidenceHigh)},
				Clarifications: 2, NonAnswers: 2, EmptyRuns: 2,
			},
			KindGiveUp,
		},
		{
			"non-answers alone proceed",
			Input{
				Known:          attr.Set{"category": attr.ScalarValue("dress", attr.ConfidenceHigh)},
				Clarifications: 2, NonAnswers: 2,
			},
			KindProceed,
		},
		{
			"cap spent alone proceeds",
			Input{Known: attr.Set{}, Clarifications: 2},
			KindProceed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Decide(tt.in).Kind)
		})
	}
}

func TestDefaultCap(t *testing.T) {
	p := NewPolicy(attr.Default(), 0)
	d := p.Decide(Input{Known: attr.Set{}, Clarifications: 2})
	assert.Equal(t, KindProceed, d.Kind)
	d = p.Decide(Input{Known: attr.Set{}, Clarifications: 1})
	assert.Equal(t, KindAsk, d.Kind)
}
