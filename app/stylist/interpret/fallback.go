package interpret

import (
	"context"
	"regexp"
	"strings"

	"StyleMuse/app/stylist/attr"

	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

// vibes maps mood words to attribute hints. Everything here is inferred, so
// it always lands with low confidence.
var vibes = map[string]map[string][]string{
	"casual": {
		"fit":      {"relaxed"},
		"fabric":   {"cotton"},
		"occasion": {"casual"},
		"style":    {"casual"},
	},
	"formal": {
		"fit":      {"tailored"},
		"occasion": {"work"},
		"style":    {"formal"},
	},
	"cute": {
		"style":   {"cute"},
		"color":   {"pastel pink"},
		"pattern": {"floral"},
	},
	"edgy": {
		"style":  {"edgy"},
		"color":  {"black"},
		"fabric": {"leather"},
	},
	"boho": {
		"style":   {"boho"},
		"fit":     {"flowy"},
		"pattern": {"floral"},
	},
	"cozy": {
		"fit":    {"relaxed"},
		"fabric": {"knit"},
	},
	"professional": {
		"fit":      {"tailored"},
		"occasion": {"work"},
		"style":    {"formal"},
	},
}

var (
	budgetUnderRe   = regexp.MustCompile(`(?i)\b(?:under|below|less than|at most|max(?:imum)?(?: of)?)\s*\$?(\d+(?:\.\d+)?)`)
	budgetBetweenRe = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)\s*(?:to|-|–|and)\s*\$?(\d+(?:\.\d+)?)`)
	budgetAroundRe  = regexp.MustCompile(`(?i)\b(?:around|about|roughly)\s*\$?(\d+(?:\.\d+)?)`)
)

// KeywordExtractor is the degraded path: a substring scan of the latest user
// message against the schema vocabulary, aliases and the vibe table. It never
// reports high confidence.
type KeywordExtractor struct {
	log logx.Logger
	sch *attr.Schema
}

func NewKeywordExtractor(logger logx.Logger, sch *attr.Schema) *KeywordExtractor {
	return &KeywordExtractor{log: logger, sch: sch}
}

func (k *KeywordExtractor) Extract(_ context.Context, history []*schema.Message, _ attr.Set) (attr.Set, error) {
	text := latestUserText(history)
	if text == "" {
		return attr.Set{}, nil
	}
	text = strings.ToLower(text)

	out := attr.Set{}

	for _, a := range k.sch.Attributes() {
		if a.Kind == attr.RangeKind {
			continue
		}
		var hits []string
		for _, v := range a.Values {
			if containsWord(text, v) {
				hits = append(hits, v)
			}
		}
		for alias, canon := range attr.Aliases() {
			if containsWord(text, alias) && k.sch.Validate(a.Name, canon) {
				hits = append(hits, canon)
			}
		}
		if len(hits) == 0 {
			continue
		}
		if a.Kind == attr.SetKind {
			out[a.Name] = attr.SetValue(hits, attr.ConfidenceLow)
		} else {
			out[a.Name] = attr.ScalarValue(hits[0], attr.ConfidenceLow)
		}
	}

	for vibe, hints := range vibes {
		if !containsWord(text, vibe) {
			continue
		}
		for name, values := range hints {
			if out.Resolved(name) {
				continue
			}
			a, ok := k.sch.Lookup(name)
			if !ok {
				continue
			}
			if a.Kind == attr.SetKind {
				out[name] = attr.SetValue(values, attr.ConfidenceLow)
			} else {
				out[name] = attr.ScalarValue(values[0], attr.ConfidenceLow)
			}
		}
	}

	if min, max, ok := scanBudget(text); ok {
		out["budget"] = attr.RangeValue(min, max, attr.ConfidenceLow)
	}

	return out, nil
}

func scanBudget(text string) (int64, int64, bool) {
	if m := budgetBetweenRe.FindStringSubmatch(text); m != nil {
		lo, err1 := attr.ParseMoney(m[1])
		hi, err2 := attr.ParseMoney(m[2])
		if err1 == nil && err2 == nil {
			if lo > hi {
				lo, hi = hi, lo
			}
			return lo, hi, true
		}
	}
	if m := budgetUnderRe.FindStringSubmatch(text); m != nil {
		if hi, err := attr.ParseMoney(m[1]); err == nil {
			return 0, hi, true
		}
	}
	if m := budgetAroundRe.FindStringSubmatch(text); m != nil {
		if hi, err := attr.ParseMoney(m[1]); err == nil {
			return 0, hi + hi/5, true
		}
	}
	return 0, 0, false
}

func latestUserText(history []*schema.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] != nil && history[i].Role == schema.User {
			return history[i].Content
		}
	}
	return ""
}

// containsWord matches needle on word boundaries so "red" does not fire on
// "tailored".
func containsWord(text, needle string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], needle)
		if i == -1 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
