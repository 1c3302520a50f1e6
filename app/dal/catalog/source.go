package catalog

import (
	"context"
	"encoding/json"

	"StyleMuse/app/stylist/attr"
	"StyleMuse/app/stylist/match"
)

// MatchSource adapts the apparels table to the orchestrator's candidate
// feed. SQL narrows by category and price, a resolved size filters on
// availability here, and the matcher does the rest.
type MatchSource struct {
	model ApparelsModel
	limit int
}

func NewMatchSource(model ApparelsModel, limit int) *MatchSource {
	if limit <= 0 {
		limit = 200
	}
	return &MatchSource{model: model, limit: limit}
}

func (s *MatchSource) Candidates(ctx context.Context, known attr.Set) ([]match.Item, error) {
	var category string
	if v, ok := known["category"]; ok {
		category = v.Scalar
	}
	var maxPrice int64
	if v, ok := known["budget"]; ok {
		maxPrice = v.Max
	}
	var size string
	if v, ok := known["size"]; ok {
		size = attr.Normalize(v.Scalar)
	}

	rows, err := s.model.Search(ctx, category, maxPrice, s.limit)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	items := make([]match.Item, 0, len(rows))
	for _, row := range rows {
		item := toMatchItem(row)
		if size != "" && !carriesSize(item.Sizes, size) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func carriesSize(sizes []string, size string) bool {
	for _, s := range sizes {
		if attr.Normalize(s) == size {
			return true
		}
	}
	return false
}

func toMatchItem(row *Apparels) match.Item {
	return match.Item{
		ID:        row.Id,
		Name:      row.Name,
		Category:  row.Category,
		Price:     row.Price,
		Fabric:    row.Fabric,
		Fit:       row.Fit,
		Color:     row.Color,
		Pattern:   row.Pattern,
		Styles:    decodeList(row.Styles),
		Occasions: decodeList(row.Occasions),
		Sizes:     decodeList(row.Sizes),
	}
}

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
