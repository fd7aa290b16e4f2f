// Package annotations parses @name(...) annotations out of Go comments.
//
// Three forms are recognised:
//
//	@name
//	@name(key: value, key2="value", flag, "positional")
//	@name key="value" flag
package annotations

import (
	"go/token"
	"strings"
)

// Annotation is one parsed annotation.
type Annotation struct {
	Name    string            // e.g. "paint", "schema"
	Params  map[string]string // named parameters; bare flags map to "true"
	Args    []string          // positional arguments in source order
	Raw     map[string]string // named parameter values as written, quotes kept; "" for flags
	RawArgs []string          // positional arguments as written
	RawText string            // original text without the comment marker
	Pos     token.Pos         // position of the comment holding the annotation
}

// Param returns the value of the first of name or aliases that is present.
func (a Annotation) Param(name string, aliases ...string) (string, bool) {
	for _, key := range append([]string{name}, aliases...) {
		if val, ok := a.Params[key]; ok {
			return val, true
		}
	}
	return "", false
}

// Flag reports whether name was given as a bare flag or set to a truthy value.
func (a Annotation) Flag(name string) bool {
	val, ok := a.Params[name]
	if !ok {
		return false
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// ParamList splits a list-valued parameter: "a,b", "[a, b]" or "a;b".
func (a Annotation) ParamList(name string, aliases ...string) []string {
	raw, ok := a.Param(name, aliases...)
	if !ok {
		return nil
	}
	return SplitList(raw)
}

// SplitList splits a raw parameter value into its trimmed, unquoted elements.
func SplitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MatchesName reports whether the annotation is called any of names, ignoring case and a leading "@".
func (a Annotation) MatchesName(names ...string) bool {
	for _, n := range names {
		if NormalizeName(n) == NormalizeName(a.Name) {
			return true
		}
	}
	return false
}

// NormalizeName normalizes annotation names for comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}
