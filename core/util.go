package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DateLayout is the layout date pickers store dates in; the backend wants "-" separators.
const DateLayout = "2006/01/02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// TitleCase upper-cases the first letter of every space separated word and lowers the rest.
// Runs of spaces are kept as typed, so the value can be applied on every keystroke.
func TitleCase(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

// NormalizeDate replaces the "/" separators of a picked date with "-".
func NormalizeDate(s string) string {
	return strings.ReplaceAll(s, "/", "-")
}

// FormString renders a loosely typed form value as multipart text.
// ok is false for nil values, which are never transmitted.
func FormString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case []string:
		return strings.Join(val, ","), true
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// DocumentURL joins the documents base URL and a stored relative path.
func DocumentURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
