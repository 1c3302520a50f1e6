package attr

import (
	"errors"
	"strconv"
	"strings"
)

// aliases maps common shopper phrasing onto the schema vocabulary.
var aliases = map[string]string{
	"tee":          "t-shirt",
	"tshirt":       "t-shirt",
	"t shirt":      "t-shirt",
	"tank":         "top",
	"tank top":     "top",
	"trousers":     "pants",
	"jeans":        "pants",
	"baggy":        "relaxed",
	"oversized":    "loose",
	"comfy":        "relaxed",
	"tight":        "fitted",
	"skinny":       "slim",
	"form fitting": "fitted",
	"dressy":       "formal",
	"fancy":        "formal",
	"grey":         "charcoal",
	"gray":         "charcoal",
	"cream":        "beige",
	"off-white":    "white",
	"extra small":  "xs",
	"small":        "s",
	"medium":       "m",
	"large":        "l",
	"extra large":  "xl",
}

// Aliases exposes the alias table for keyword scanning.
func Aliases() map[string]string {
	return aliases
}

// Normalize lowercases, trims and resolves aliases so free-form user words
// line up with the schema vocabulary.
func Normalize(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.Trim(v, ".,!?")
	if canon, ok := aliases[v]; ok {
		return canon
	}
	return v
}

var ErrBadMoney = errors.New("unparseable money amount")

// ParseMoney parses a dollar amount like "$120", "120", "89.99" into cents.
func ParseMoney(raw string) (int64, error) {
	v := strings.TrimSpace(raw)
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return 0, ErrBadMoney
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, ErrBadMoney
	}
	return int64(f*100 + 0.5), nil
}
