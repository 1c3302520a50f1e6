// Package clarify decides whether a turn should ask a follow-up question,
// proceed to the catalog, or give up on narrowing the request.
package clarify

import (
	"sort"

	"StyleMuse/app/stylist/attr"
)

const (
	KindAsk     = "ask"
	KindProceed = "proceed"
	KindGiveUp  = "give_up"
)

// Decision is the policy verdict for one turn.
type Decision struct {
	Kind      string
	Attribute string // set for Ask
	Question  string // set for Ask
}

// Input is everything the policy looks at. Counters are maintained by the
// orchestrator.
type Input struct {
	Known          attr.Set
	Clarifications int // questions already asked this conversation
	NonAnswers     int // consecutive user turns that resolved nothing new
	EmptyRuns      int // consecutive searches that matched nothing
}

type Policy struct {
	sch *attr.Schema
	cap int
}

// NewPolicy builds a policy with the given question cap. Cap values below 1
// fall back to the default of 2.
func NewPolicy(sch *attr.Schema, cap int) *Policy {
	if cap < 1 {
		cap = 2
	}
	return &Policy{sch: sch, cap: cap}
}

// Decide picks the next move. Required attributes are asked in priority
// order; ties break toward the smaller vocabulary, which the user can answer
// fastest. Low-confidence answers to required attributes are worth one
// re-ask while budget remains.
func (p *Policy) Decide(in Input) Decision {
	if p.shouldGiveUp(in) {
		return Decision{Kind: KindGiveUp}
	}

	if in.Clarifications >= p.cap {
		return Decision{Kind: KindProceed}
	}

	if name, ok := p.nextMissing(in.Known); ok {
		a, _ := p.sch.Lookup(name)
		return Decision{Kind: KindAsk, Attribute: name, Question: a.Prompt}
	}

	return Decision{Kind: KindProceed}
}

// shouldGiveUp fires only when the question budget is spent, the user has
// repeatedly answered without resolving anything, and searching is pointless
// (nothing known, or the catalog keeps coming back empty).
func (p *Policy) shouldGiveUp(in Input) bool {
	if in.Clarifications < p.cap {
		return false
	}
	if in.NonAnswers < 2 {
		return false
	}
	return len(in.Known) == 0 || in.EmptyRuns >= 2
}

// nextMissing returns the highest-priority required attribute that is either
// unresolved or only known with low confidence.
func (p *Policy) nextMissing(known attr.Set) (string, bool) {
	required := p.sch.RequiredForSearch()

	var candidates []string
	for _, name := range required {
		if !known.Resolved(name) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		for _, name := range required {
			if v, ok := known[name]; ok && v.Confidence == attr.ConfidenceLow {
				candidates = append(candidates, name)
			}
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ai, _ := p.sch.Lookup(candidates[i])
		aj, _ := p.sch.Lookup(candidates[j])
		if ai.Priority != aj.Priority {
			return ai.Priority < aj.Priority
		}
		return p.sch.Cardinality(candidates[i]) < p.sch.Cardinality(candidates[j])
	})
	return candidates[0], true
}
