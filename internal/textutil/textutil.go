// Package textutil holds small string helpers shared by the engine summary
// and the Slack composer.
package textutil

// MakeList turns a slice into a human-readable list, e.g. "a, b, or c".
// An empty conjunction joins with commas only.
func MakeList(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		if conjunction == "" {
			return items[0] + ", " + items[1]
		}
		return items[0] + " " + conjunction + " " + items[1]
	}

	out := ""
	for i, item := range items {
		switch {
		case i == 0:
			out = item
		case i == len(items)-1 && conjunction != "":
			out += ", " + conjunction + " " + item
		default:
			out += ", " + item
		}
	}
	return out
}

// WrapInDoubleQuotes quotes a string, substituting a space for emptiness so
// the quotes stay visible.
func WrapInDoubleQuotes(s string) string {
	if s == "" {
		s = " "
	}
	return `"` + s + `"`
}

// Truncate shortens a string to at most max characters, appending "..." when
// anything was cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 4 {
		return s[:max]
	}
	return s[:max-4] + "..."
}

// AppendIfNew appends value to list unless it is empty or already present.
func AppendIfNew(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
