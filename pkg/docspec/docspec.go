// Package docspec implements the DocumentSpec value: a URL plus optional
// freshness predicates (ETag, Date) and a request/cache policy, used to
// describe which version of a document the caller already has (for
// conditional GETs) or is willing to accept.
//
// Mirrors Panda3D's DocumentSpec (panda/src/downloader/documentSpec.cxx):
// compare_to() orders on flags, then URL, then tag, then date, treating
// the request-mode and cache-control fields as presentation-only; the
// textual form is "[ URL (tag) date ]" with both inner components optional.
package docspec

import (
	"fmt"
	"strings"

	"github.com/mallardduck/go-htclient/pkg/entitytag"
	"github.com/mallardduck/go-htclient/pkg/httpdate"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// RequestMode controls how a conditional request is framed.
type RequestMode int

const (
	RequestAny RequestMode = iota
	RequestEqual
	RequestNewer
	RequestEqualOrNewer
)

// CacheControl controls whether a cached copy may be reused.
type CacheControl int

const (
	CacheAllow CacheControl = iota
	CacheRevalidate
	CacheNoCache
)

const (
	flagHasTag = 1 << iota
	flagHasDate
)

// Spec is a (URL, optional ETag, optional HTTPDate, RequestMode,
// CacheControl) tuple.
type Spec struct {
	URL          urlvalue.Value
	Tag          entitytag.Tag
	Date         httpdate.Date
	RequestMode  RequestMode
	CacheControl CacheControl

	flags int
}

// New builds a bare Spec for the given URL, with no tag or date.
func New(url urlvalue.Value) Spec {
	return Spec{URL: url}
}

// SetTag attaches an entity tag freshness predicate.
func (s *Spec) SetTag(tag entitytag.Tag) {
	s.Tag = tag
	s.flags |= flagHasTag
}

// HasTag reports whether an entity tag predicate is set.
func (s Spec) HasTag() bool { return s.flags&flagHasTag != 0 }

// ClearTag removes the entity tag predicate.
func (s *Spec) ClearTag() {
	s.Tag = entitytag.Tag{}
	s.flags &^= flagHasTag
}

// SetDate attaches a last-modified freshness predicate.
func (s *Spec) SetDate(date httpdate.Date) {
	s.Date = date
	s.flags |= flagHasDate
}

// HasDate reports whether a date predicate is set.
func (s Spec) HasDate() bool { return s.flags&flagHasDate != 0 }

// ClearDate removes the date predicate.
func (s *Spec) ClearDate() {
	s.Date = httpdate.Date{}
	s.flags &^= flagHasDate
}

// CompareTo orders two Specs: flags first, then URL, then (if both set)
// tag, then (if both set) date. RequestMode and CacheControl are
// presentation-only and never considered.
func (s Spec) CompareTo(other Spec) int {
	if s.flags != other.flags {
		return s.flags - other.flags
	}
	if c := strings.Compare(s.URL.String(), other.URL.String()); c != 0 {
		return c
	}
	if s.HasTag() {
		if c := s.Tag.Compare(other.Tag); c != 0 {
			return c
		}
	}
	if s.HasDate() {
		if c := s.Date.Compare(other.Date); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether two Specs compare equal under CompareTo.
func (s Spec) Equal(other Spec) bool { return s.CompareTo(other) == 0 }

// String renders the Spec's textual form: "[ URL (tag) date ]", with the
// tag and date segments present only when set.
func (s Spec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ %s", s.URL.String())
	if s.HasTag() {
		fmt.Fprintf(&b, " (%s)", s.Tag.String())
	}
	if s.HasDate() {
		fmt.Fprintf(&b, " %s", s.Date.String())
	}
	b.WriteString(" ]")
	return b.String()
}

// Parse decodes a Spec from its own textual form, as emitted by String().
// Both the tag and date segments are optional.
func Parse(text string) (Spec, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return Spec{}, false
	}
	inner := strings.TrimSpace(text[1 : len(text)-1])

	var spec Spec

	if idx := strings.IndexByte(inner, '('); idx >= 0 {
		urlPart := strings.TrimSpace(inner[:idx])
		rest := inner[idx+1:]
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return Spec{}, false
		}
		spec.URL = urlvalue.New(urlPart, true)
		spec.SetTag(entitytag.Parse(strings.TrimSpace(rest[:close])))
		inner = strings.TrimSpace(rest[close+1:])
	} else {
		// No tag: the remainder, if any, after the URL token is the date.
		fields := strings.SplitN(inner, " ", 2)
		spec.URL = urlvalue.New(strings.TrimSpace(fields[0]), true)
		inner = ""
		if len(fields) == 2 {
			inner = strings.TrimSpace(fields[1])
		}
	}

	if inner != "" {
		d := httpdate.Parse(inner)
		if !d.IsValid() {
			return Spec{}, false
		}
		spec.SetDate(d)
	}

	return spec, true
}
