package api

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// Error bodies arrive in half a dozen shapes depending on which backend
// layer produced them. classifyBody parses a body into exactly one of a
// closed set of variants; render turns each variant into one string. The
// precedence is fixed:
//
//  1. plain text (or a bare JSON string)    → verbatim
//  2. {message|error|detail|title: "..."}   → first non-empty wins
//  3. {errors: [...]}                       → items joined with ", "
//  4. {errors: {field: ...}}                → "Field: msgs" joined with " | "
//  5. {non_field_errors: [...]}             → joined with ", "
//  6. anything else                         → no message (caller falls back)
type bodyVariant struct {
	kind   variantKind
	text   string
	list   []any
	fields map[string]any
}

type variantKind int

const (
	variantEmpty variantKind = iota
	variantText
	variantDirect
	variantErrorList
	variantFieldMap
	variantNonField
	variantUnknown
)

// directKeys are probed in order for a top-level message string.
var directKeys = []string{"message", "error", "detail", "title"}

// normalizeBody reduces an error response body to a single human-readable
// message. ok is false when the body yields nothing usable.
func normalizeBody(body []byte) (msg string, ok bool) {
	v := classifyBody(body)
	return v.render()
}

func classifyBody(body []byte) bodyVariant {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return bodyVariant{kind: variantEmpty}
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		// Not JSON at all: a string body is returned verbatim.
		return bodyVariant{kind: variantText, text: raw}
	}

	switch data := decoded.(type) {
	case string:
		if strings.TrimSpace(data) == "" {
			return bodyVariant{kind: variantEmpty}
		}
		return bodyVariant{kind: variantText, text: data}
	case map[string]any:
		for _, key := range directKeys {
			if s, found := nonEmptyString(data[key]); found {
				return bodyVariant{kind: variantDirect, text: s}
			}
		}
		switch errs := data["errors"].(type) {
		case []any:
			return bodyVariant{kind: variantErrorList, list: errs}
		case map[string]any:
			return bodyVariant{kind: variantFieldMap, fields: errs}
		}
		if nfe, found := data["non_field_errors"].([]any); found {
			return bodyVariant{kind: variantNonField, list: nfe}
		}
		return bodyVariant{kind: variantUnknown}
	default:
		return bodyVariant{kind: variantUnknown}
	}
}

func (v bodyVariant) render() (string, bool) {
	switch v.kind {
	case variantText, variantDirect:
		return v.text, true
	case variantErrorList, variantNonField:
		msgs := renderItems(v.list)
		if len(msgs) == 0 {
			return "", false
		}
		return strings.Join(msgs, ", "), true
	case variantFieldMap:
		parts := make([]string, 0, len(v.fields))
		for _, field := range sortedKeys(v.fields) {
			if part, found := renderFieldEntry(field, v.fields[field]); found {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, " | "), true
	case variantEmpty, variantUnknown:
		return "", false
	default:
		return "", false
	}
}

// renderItems flattens a list of errors. An item is a string, an object
// carrying message/detail, or failing both its JSON form.
func renderItems(items []any) []string {
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			if it != "" {
				msgs = append(msgs, it)
			}
		case map[string]any:
			if s, found := nonEmptyString(it["message"]); found {
				msgs = append(msgs, s)
			} else if s, found := nonEmptyString(it["detail"]); found {
				msgs = append(msgs, s)
			} else if raw, err := json.Marshal(it); err == nil {
				msgs = append(msgs, string(raw))
			}
		default:
			if item == nil {
				continue
			}
			if raw, err := json.Marshal(item); err == nil {
				msgs = append(msgs, string(raw))
			}
		}
	}
	return msgs
}

// renderFieldEntry renders one "<Humanized Field>: <joined messages>"
// part. Values may be a list of strings, a single string, or an object
// with a message.
func renderFieldEntry(field string, value any) (string, bool) {
	var joined string
	switch v := value.(type) {
	case []any:
		msgs := renderItems(v)
		if len(msgs) == 0 {
			return "", false
		}
		joined = strings.Join(msgs, ", ")
	case string:
		if v == "" {
			return "", false
		}
		joined = v
	case map[string]any:
		s, found := nonEmptyString(v["message"])
		if !found {
			return "", false
		}
		joined = s
	default:
		return "", false
	}
	return humanizeFieldName(field) + ": " + joined, true
}

// humanizeFieldName turns "first_name" / "first-name" into "First Name":
// runs of underscores and hyphens become single spaces and each word is
// capitalized.
func humanizeFieldName(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Go map order is randomized; the joined message must not be.
	sort.Strings(keys)
	return keys
}
