// Package interpret turns free-form conversation text into schema attribute
// deltas. The primary extractor is an LLM chain; a keyword fallback keeps the
// dialogue moving when the model is unreachable.
package interpret

import (
	"context"
	"errors"

	"StyleMuse/app/stylist/attr"

	"github.com/cloudwego/eino/schema"
)

// ErrExtractionUnavailable reports that the LLM could not produce a usable
// delta this turn (timeout, transport failure, malformed output). Callers
// recover with the keyword fallback.
var ErrExtractionUnavailable = errors.New("attribute extraction unavailable")

// Extractor produces the per-turn attribute delta. The returned set contains
// only attributes mentioned in the conversation, not the cumulative state.
type Extractor interface {
	Extract(ctx context.Context, history []*schema.Message, known attr.Set) (attr.Set, error)
}
