package attr

import "sort"

type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceHigh
)

// Value is one resolved attribute. Exactly one of Scalar, Set or Min/Max is
// meaningful, selected by Kind. Range bounds are in cents.
type Value struct {
	Kind       Kind       `json:"kind"`
	Scalar     string     `json:"scalar,omitempty"`
	Set        []string   `json:"set,omitempty"`
	Min        int64      `json:"min,omitempty"`
	Max        int64      `json:"max,omitempty"`
	Confidence Confidence `json:"confidence"`
}

func ScalarValue(v string, c Confidence) Value {
	return Value{Kind: ScalarKind, Scalar: v, Confidence: c}
}

func SetValue(vs []string, c Confidence) Value {
	out := dedupeSorted(vs)
	return Value{Kind: SetKind, Set: out, Confidence: c}
}

func RangeValue(min, max int64, c Confidence) Value {
	return Value{Kind: RangeKind, Min: min, Max: max, Confidence: c}
}

// Set is the cumulative attribute state of a conversation, keyed by
// attribute name.
type Set map[string]Value

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		if v.Set != nil {
			cp := make([]string, len(v.Set))
			copy(cp, v.Set)
			v.Set = cp
		}
		out[k] = v
	}
	return out
}

func (s Set) Resolved(name string) bool {
	_, ok := s[name]
	return ok
}

// Merge folds a per-turn delta into the cumulative set. The most recent
// confident mention wins: scalars and ranges overwrite, set values union.
// A low-confidence delta never displaces a high-confidence prior, though a
// low-confidence set mention still extends a low-confidence one.
func (s Set) Merge(delta Set) {
	for name, nv := range delta {
		prev, had := s[name]
		if had && prev.Confidence == ConfidenceHigh && nv.Confidence == ConfidenceLow {
			continue
		}
		if had && nv.Kind == SetKind && prev.Kind == SetKind {
			nv.Set = dedupeSorted(append(append([]string{}, prev.Set...), nv.Set...))
			if prev.Confidence == ConfidenceHigh {
				nv.Confidence = ConfidenceHigh
			}
		}
		s[name] = nv
	}
}

func dedupeSorted(vs []string) []string {
	seen := make(map[string]struct{}, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
