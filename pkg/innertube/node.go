package innertube

import (
	"strconv"
	"strings"
)

// Node is an untyped JSON object. The renderer payloads this client consumes
// have no schema and vary by logical role, so every decode starts from a Node
// and walks optional paths instead of unmarshalling into rigid structs.
type Node map[string]any

// Path walks nested maps and arrays. Steps are string keys or int indexes.
// Any miss along the way returns nil.
func (n Node) Path(steps ...any) any {
	current := any(map[string]any(n))

	for _, step := range steps {
		switch s := step.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			current = m[s]
		case int:
			a, ok := current.([]any)
			if !ok || s < 0 || s >= len(a) {
				return nil
			}

			current = a[s]
		default:
			return nil
		}
	}

	return current
}

// Obj returns the object at the path, or nil.
func (n Node) Obj(steps ...any) Node {
	if m, ok := n.Path(steps...).(map[string]any); ok {
		return Node(m)
	}

	return nil
}

// List returns the array at the path, or nil.
func (n Node) List(steps ...any) []any {
	if a, ok := n.Path(steps...).([]any); ok {
		return a
	}

	return nil
}

// Str returns the string at the path, or "".
func (n Node) Str(steps ...any) string {
	if s, ok := n.Path(steps...).(string); ok {
		return s
	}

	return ""
}

// Int returns the number at the path, or 0. JSON numbers arrive as float64;
// some fields arrive as decimal strings.
func (n Node) Int(steps ...any) int {
	switch v := n.Path(steps...).(type) {
	case float64:
		return int(v)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}

		return i
	default:
		return 0
	}
}

// Bool returns the boolean at the path, or false.
func (n Node) Bool(steps ...any) bool {
	b, _ := n.Path(steps...).(bool)
	return b
}

// asNode converts an arbitrary decoded JSON value to a Node.
func asNode(v any) Node {
	if m, ok := v.(map[string]any); ok {
		return Node(m)
	}

	return nil
}

// runText reads the first text run of a formatted-string field, falling back
// to simpleText.
func (n Node) runText(field string) string {
	if s := n.Str(field, "runs", 0, "text"); s != "" {
		return s
	}

	return n.Str(field, "simpleText")
}

// parseDuration converts "M:SS" or "H:MM:SS" to seconds. Anything it cannot
// parse becomes 0; duration is never required.
func parseDuration(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0
	}

	seconds := 0

	for _, part := range parts {
		val, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || val < 0 {
			return 0
		}

		seconds = seconds*60 + val
	}

	return seconds
}

// parseYear pulls a 4-digit year out of a subtitle run. Returns 0 when the
// run is not a year.
func parseYear(text string) int {
	text = strings.TrimSpace(text)
	if len(text) != 4 {
		return 0
	}

	year, err := strconv.Atoi(text)
	if err != nil || year < 1000 {
		return 0
	}

	return year
}
