package document

import (
	"strconv"
	"unicode/utf8"
)

// Repr renders the value the way reports show it: strings quoted and
// escaped, containers as compact JSON, other scalars as their literal.
func (n *Node) Repr() string {
	switch n.Kind {
	case String:
		return strconv.Quote(n.Text)
	case Number:
		return n.Text
	case Boolean:
		return strconv.FormatBool(n.Bool)
	case Null:
		return "null"
	}
	b, _ := n.MarshalJSON()
	return string(b)
}

// Preview is Repr cut to at most limit characters. A limit of zero or less
// disables truncation.
func (n *Node) Preview(limit int) string {
	return Truncate(n.Repr(), limit)
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	i := 0
	for pos := range s {
		if i == limit {
			return s[:pos]
		}
		i++
	}
	return s
}
