package annotations

import (
	"go/ast"
	"strings"
)

// ParseAnnotations extracts annotations from comment groups. Nil groups are skipped.
func ParseAnnotations(comments []*ast.CommentGroup) []Annotation {
	var out []Annotation
	for _, cg := range comments {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			for _, line := range commentLines(c.Text) {
				if !strings.HasPrefix(line, "@") {
					continue
				}
				if ann, ok := Parse(line); ok {
					ann.Pos = c.Pos()
					out = append(out, ann)
				}
			}
		}
	}
	return out
}

// commentLines strips comment markers and returns the trimmed lines of a comment.
func commentLines(text string) []string {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "//"); ok {
		text = rest
	} else {
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		lines[i] = line
	}
	return lines
}

// Parse parses a single annotation line starting with "@".
func Parse(line string) (Annotation, bool) {
	ann := Annotation{RawText: line, Params: make(map[string]string), Raw: make(map[string]string)}
	body := strings.TrimPrefix(strings.TrimSpace(line), "@")

	var parts []string
	if open := strings.IndexByte(body, '('); open != -1 && !strings.ContainsAny(body[:open], " \t") {
		ann.Name = body[:open]
		inner := body[open+1:]
		if end := strings.LastIndexByte(inner, ')'); end != -1 {
			inner = inner[:end]
		}
		parts = splitTopLevel(inner, func(r rune) bool { return r == ',' })
	} else {
		fields := splitTopLevel(body, func(r rune) bool { return r == ' ' || r == '\t' })
		if len(fields) == 0 {
			return ann, false
		}
		ann.Name, parts = fields[0], fields[1:]
	}

	ann.Name = strings.TrimSpace(ann.Name)
	if ann.Name == "" {
		return ann, false
	}
	for _, part := range parts {
		ann.addPart(strings.TrimSpace(part))
	}
	return ann, true
}

func (a *Annotation) addPart(part string) {
	if part == "" {
		return
	}
	if sep := separatorIndex(part); sep != -1 {
		key := strings.TrimSpace(part[:sep])
		raw := strings.TrimSpace(part[sep+1:])
		a.Params[key] = unquote(raw)
		a.Raw[key] = raw
		return
	}
	if IsQuoted(part) || !isIdentLike(part) {
		a.Args = append(a.Args, unquote(part))
		a.RawArgs = append(a.RawArgs, part)
		return
	}
	a.Params[part] = "true"
	a.Raw[part] = ""
}

// splitTopLevel splits s at runes matching isSep that are outside quotes and brackets.
func splitTopLevel(s string, isSep func(rune) bool) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		depth   int
	)
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
		case depth == 0 && isSep(r):
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()
	return parts
}

// separatorIndex returns the index of the first ':' or '=' outside quotes and brackets.
func separatorIndex(part string) int {
	var quote rune
	depth := 0
	for i, r := range part {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
		case depth == 0 && (r == ':' || r == '='):
			return i
		}
	}
	return -1
}

// IsQuoted reports whether s is wrapped in matching single or double quotes.
func IsQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

func unquote(s string) string {
	if IsQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// isIdentLike reports whether s is a bare flag name: letters, digits, '_' and '-'.
func isIdentLike(s string) bool {
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit && r != '_' && r != '-' {
			return false
		}
	}
	return s != ""
}
