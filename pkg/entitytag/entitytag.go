// Package entitytag implements the EntityTag value: an RFC 2616 entity tag
// with strong/weak comparison semantics.
//
// Parsing and formatting follow Panda3D's HTTPEntityTag
// (panda/src/downloader/httpEntityTag.cxx): an optional leading "W/" or
// "w/" marks the tag weak, the opaque value is then unquoted with '\' as a
// one-character escape, and formatting always re-quotes and re-escapes it.
package entitytag

import "strings"

// Tag is an RFC 2616 entity tag: a weak flag plus an opaque string.
type Tag struct {
	weak  bool
	value string
}

// New constructs a Tag directly from its components.
func New(weak bool, value string) Tag {
	return Tag{weak: weak, value: value}
}

// Parse decodes text as formatted by an HTTP server: an optional "W/" or
// "w/" prefix, then a double-quoted opaque string with '\' escapes.
func Parse(text string) Tag {
	var t Tag

	p := 0
	if len(text) >= 2 {
		switch text[:2] {
		case "W/", "w/":
			t.weak = true
			p = 2
		}
	}

	quoted := false
	if p < len(text) && text[p] == '"' {
		quoted = true
		p++
	}

	var b strings.Builder
	for p < len(text) && !(quoted && text[p] == '"') {
		if text[p] == '\\' {
			p++
			if p >= len(text) {
				break
			}
		}
		b.WriteByte(text[p])
		p++
	}
	t.value = b.String()
	return t
}

// IsWeak reports whether the tag was marked weak.
func (t Tag) IsWeak() bool { return t.weak }

// Value returns the opaque tag string.
func (t Tag) Value() string { return t.value }

// IsEmpty reports whether the tag has no opaque value and isn't weak —
// i.e. it was never set.
func (t Tag) IsEmpty() bool { return !t.weak && t.value == "" }

// String formats the tag for sending to an HTTP server: quoted, with a
// conditional "W/" prefix and '"'/'\' escaped inside the quotes.
func (t Tag) String() string {
	var b strings.Builder
	if t.weak {
		b.WriteString("W/")
	}
	b.WriteByte('"')
	for i := 0; i < len(t.value); i++ {
		c := t.value[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// StrongEqual reports strong-equivalence: neither tag may be weak, and
// their opaque values must match. A weak tag is never strong-equivalent to
// any tag, including itself.
func (t Tag) StrongEqual(other Tag) bool {
	return !t.weak && !other.weak && t.value == other.value
}

// WeakEqual reports weak-equivalence: only the opaque values need match.
func (t Tag) WeakEqual(other Tag) bool {
	return t.value == other.value
}

// Equal is StrongEqual — the default comparison per RFC 2616.
func (t Tag) Equal(other Tag) bool { return t.StrongEqual(other) }

// Compare gives a total order over tags (weak flag, then opaque value),
// suitable for use as a DocumentSpec comparison component.
func (t Tag) Compare(other Tag) int {
	if t.weak != other.weak {
		if t.weak {
			return -1
		}
		return 1
	}
	return strings.Compare(t.value, other.value)
}
