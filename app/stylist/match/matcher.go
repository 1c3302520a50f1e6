// Package match ranks catalog items against the resolved attribute set.
package match

import (
	"fmt"
	"sort"
	"strings"

	"StyleMuse/app/stylist/attr"
)

// Item is one catalog entry as the matcher sees it. Price is in cents.
type Item struct {
	ID        int64
	Name      string
	Category  string
	Price     int64
	Fabric    string
	Fit       string
	Color     string
	Pattern   string
	Styles    []string
	Occasions []string
	Sizes     []string
}

// Result is a scored item. Score is normalized to [0,1] over the weights of
// the attributes that were resolved at ranking time.
type Result struct {
	Item    Item
	Score   float64
	Matched []string
	Reason  string
}

type Matcher struct {
	sch   *attr.Schema
	floor float64
	limit int
}

// NewMatcher builds a matcher with a score floor (items scoring at or below
// it are excluded) and a result limit. Non-positive limits fall back to 4.
func NewMatcher(sch *attr.Schema, floor float64, limit int) *Matcher {
	if limit <= 0 {
		limit = 4
	}
	return &Matcher{sch: sch, floor: floor, limit: limit}
}

// Rank scores every candidate, drops those at or below the floor, and
// returns the top results ordered by score desc, then price asc, then id.
func (m *Matcher) Rank(known attr.Set, items []Item) []Result {
	results := make([]Result, 0, len(items))
	for _, it := range items {
		r := m.score(known, it)
		if r.Score <= m.floor {
			continue
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Item.Price != results[j].Item.Price {
			return results[i].Item.Price < results[j].Item.Price
		}
		return results[i].Item.ID < results[j].Item.ID
	})

	if len(results) > m.limit {
		results = results[:m.limit]
	}
	return results
}

func (m *Matcher) score(known attr.Set, it Item) Result {
	var total, gained float64
	var matched []string
	var phrases []string

	for _, a := range m.sch.Attributes() {
		if a.Weight <= 0 {
			continue
		}
		v, ok := known[a.Name]
		if !ok {
			continue
		}
		total += a.Weight

		var contribution float64
		var phrase string
		switch a.Kind {
		case attr.RangeKind:
			contribution = priceFit(it.Price, v.Min, v.Max) * a.Weight
			phrase = "your budget"
		case attr.SetKind:
			overlap := jaccard(v.Set, itemSet(a.Name, it))
			contribution = overlap * a.Weight
			phrase = fmt.Sprintf("the %s you mentioned", a.Name)
		default:
			if attr.Normalize(itemScalar(a.Name, it)) == v.Scalar {
				contribution = a.Weight
			}
			phrase = fmt.Sprintf("the %s %s", v.Scalar, a.Name)
		}

		if contribution > 0 {
			gained += contribution
			matched = append(matched, a.Name)
			phrases = append(phrases, phrase)
		}
	}

	var score float64
	if total > 0 {
		score = gained / total
	}
	return Result{
		Item:    it,
		Score:   score,
		Matched: matched,
		Reason:  reason(it.Name, phrases),
	}
}

// priceFit is 1 inside the budget and decays linearly outside it, reaching 0
// one band-width past the boundary.
func priceFit(price, min, max int64) float64 {
	if max <= 0 && min <= 0 {
		return 0
	}
	if max <= 0 {
		max = min
	}
	if price >= min && price <= max {
		return 1
	}

	band := max - min
	if band <= 0 {
		band = max / 2
	}
	if band <= 0 {
		return 0
	}

	var dist int64
	if price > max {
		dist = price - max
	} else {
		dist = min - price
	}
	if dist >= band {
		return 0
	}
	return 1 - float64(dist)/float64(band)
}

func jaccard(want, have []string) float64 {
	if len(want) == 0 || len(have) == 0 {
		return 0
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[attr.Normalize(h)] = struct{}{}
	}
	inter := 0
	for _, w := range want {
		if _, ok := haveSet[w]; ok {
			inter++
		}
	}
	union := len(want) + len(haveSet) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func itemScalar(name string, it Item) string {
	switch name {
	case "category":
		return it.Category
	case "fit":
		return it.Fit
	case "color":
		return it.Color
	case "fabric":
		return it.Fabric
	case "pattern":
		return it.Pattern
	}
	return ""
}

func itemSet(name string, it Item) []string {
	switch name {
	case "occasion":
		return it.Occasions
	case "style":
		return it.Styles
	}
	return nil
}

func reason(name string, phrases []string) string {
	if len(phrases) == 0 {
		return name + " is close to what you described."
	}
	return name + " matches " + strings.Join(phrases, ", ") + "."
}
