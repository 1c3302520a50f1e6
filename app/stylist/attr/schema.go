// Package attr defines the attribute schema that the interpreter, the
// clarification policy and the matcher all share. The schema is the single
// source of truth for attribute names, value vocabularies, priorities and
// match weights.
package attr

import (
	"sort"
	"strings"
)

type Kind int

const (
	ScalarKind Kind = iota
	SetKind
	RangeKind
)

type Attribute struct {
	Name     string
	Kind     Kind
	Values   []string // closed vocabulary for scalar/set kinds, nil for ranges
	Required bool     // must be resolved before the first catalog search
	Priority int      // ask order among required attributes, lower asks first
	Prompt   string   // clarification question template
	Weight   float64  // match weight, 0 excludes the attribute from scoring
}

type Schema struct {
	attrs []Attribute
	index map[string]int
}

func NewSchema(attrs []Attribute) *Schema {
	s := &Schema{
		attrs: attrs,
		index: make(map[string]int, len(attrs)),
	}
	for i, a := range attrs {
		s.index[a.Name] = i
	}
	return s
}

func (s *Schema) Lookup(name string) (Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

func (s *Schema) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Validate reports whether value is admissible for the named attribute.
// Scalar and set attributes check the closed vocabulary after normalization;
// range attributes accept any non-negative amount.
func (s *Schema) Validate(name, value string) bool {
	a, ok := s.Lookup(name)
	if !ok {
		return false
	}
	switch a.Kind {
	case RangeKind:
		_, err := ParseMoney(value)
		return err == nil
	default:
		v := Normalize(value)
		for _, allowed := range a.Values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// RequiredForSearch returns the required attribute names in ask order.
func (s *Schema) RequiredForSearch() []string {
	var names []string
	for _, a := range s.attrs {
		if a.Required {
			names = append(names, a.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		ai, _ := s.Lookup(names[i])
		aj, _ := s.Lookup(names[j])
		return ai.Priority < aj.Priority
	})
	return names
}

// Cardinality is the size of the attribute's value vocabulary. Ranges are
// open-ended and report 0.
func (s *Schema) Cardinality(name string) int {
	a, ok := s.Lookup(name)
	if !ok {
		return 0
	}
	return len(a.Values)
}

// EnumerateForPrompt renders the schema as a compact listing for the
// extraction prompt.
func (s *Schema) EnumerateForPrompt() string {
	var b strings.Builder
	for _, a := range s.attrs {
		b.WriteString("- ")
		b.WriteString(a.Name)
		switch a.Kind {
		case RangeKind:
			b.WriteString(" (price range, dollars, keys min/max)")
		case SetKind:
			b.WriteString(" (multiple allowed): ")
			b.WriteString(strings.Join(a.Values, ", "))
		default:
			b.WriteString(": ")
			b.WriteString(strings.Join(a.Values, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Default is the apparel schema the service ships with.
func Default() *Schema {
	return NewSchema([]Attribute{
		{
			Name:     "category",
			Kind:     ScalarKind,
			Values:   []string{"dress", "shirt", "blouse", "pants", "skirt", "jacket", "top", "t-shirt", "sweater", "shorts"},
			Required: true,
			Priority: 1,
			Prompt:   "What kind of piece are you looking for, like a dress, a top, or pants?",
			Weight:   3,
		},
		{
			Name:     "occasion",
			Kind:     SetKind,
			Values:   []string{"casual", "work", "party", "date", "vacation", "brunch", "everyday", "evening", "festival", "beach"},
			Required: true,
			Priority: 2,
			Prompt:   "Where will you be wearing it? Work, a party, everyday errands?",
			Weight:   2,
		},
		{
			Name:     "fit",
			Kind:     ScalarKind,
			Values:   []string{"flowy", "relaxed", "body hugging", "bodycon", "tailored", "regular", "loose", "fitted", "slim"},
			Required: true,
			Priority: 3,
			Prompt:   "Do you prefer a relaxed, flowy fit or something more fitted?",
			Weight:   2,
		},
		{
			Name:     "color",
			Kind:     ScalarKind,
			Values:   []string{"black", "white", "red", "blue", "green", "pink", "yellow", "beige", "brown", "navy", "lavender", "pastel pink", "pastel yellow", "olive", "charcoal", "multicolor"},
			Required: true,
			Priority: 4,
			Prompt:   "Any color you're drawn to?",
			Weight:   1.5,
		},
		{
			Name:     "budget",
			Kind:     RangeKind,
			Required: true,
			Priority: 5,
			Prompt:   "What budget should I keep in mind?",
			Weight:   1.5,
		},
		{
			Name:   "style",
			Kind:   SetKind,
			Values: []string{"casual", "formal", "cute", "edgy", "boho", "minimalist", "romantic", "sporty", "vintage", "elevated"},
			Weight: 1,
		},
		{
			Name:   "fabric",
			Kind:   ScalarKind,
			Values: []string{"cotton", "linen", "silk", "satin", "denim", "wool", "leather", "chiffon", "velvet", "knit", "polyester"},
			Weight: 1,
		},
		{
			Name:   "pattern",
			Kind:   ScalarKind,
			Values: []string{"solid", "floral", "striped", "plaid", "polka dot", "animal print", "graphic"},
			Weight: 1,
		},
		{
			// Sizing narrows availability, it says nothing about similarity,
			// so it carries no match weight.
			Name:   "size",
			Kind:   ScalarKind,
			Values: []string{"xxs", "xs", "s", "m", "l", "xl", "xxl", "3xl"},
			Weight: 0,
		},
	})
}
