package docspec_test

import (
	"testing"

	"github.com/mallardduck/go-htclient/pkg/docspec"
	"github.com/mallardduck/go-htclient/pkg/entitytag"
	"github.com/mallardduck/go-htclient/pkg/httpdate"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

func TestStringRoundTrip(t *testing.T) {
	spec := docspec.New(urlvalue.New("http://example.com/foo.txt", true))
	spec.SetTag(entitytag.New(false, "abc123"))
	spec.SetDate(httpdate.Parse("Sun, 06 Nov 1994 08:49:37 GMT"))

	text := spec.String()
	want := `[ http://example.com/foo.txt ("abc123") Sun, 06 Nov 1994 08:49:37 GMT ]`
	if text != want {
		t.Fatalf("String() = %q, want %q", text, want)
	}

	parsed, ok := docspec.Parse(text)
	if !ok {
		t.Fatalf("Parse(%q) failed", text)
	}
	if !parsed.Equal(spec) {
		t.Errorf("round trip mismatch: %v != %v", parsed, spec)
	}
}

func TestParseURLOnly(t *testing.T) {
	spec, ok := docspec.Parse("[ http://example.com/foo.txt ]")
	if !ok {
		t.Fatal("Parse failed")
	}
	if spec.HasTag() || spec.HasDate() {
		t.Error("bare URL spec should have neither tag nor date")
	}
	if spec.URL.String() != "http://example.com/foo.txt" {
		t.Errorf("URL = %q", spec.URL.String())
	}
}

func TestCompareIgnoresRequestModeAndCacheControl(t *testing.T) {
	a := docspec.New(urlvalue.New("http://example.com/foo.txt", true))
	a.RequestMode = docspec.RequestNewer
	a.CacheControl = docspec.CacheNoCache

	b := docspec.New(urlvalue.New("http://example.com/foo.txt", true))
	b.RequestMode = docspec.RequestAny
	b.CacheControl = docspec.CacheAllow

	if !a.Equal(b) {
		t.Error("RequestMode/CacheControl must not affect comparison")
	}
}

func TestCompareFlagsBeforeContent(t *testing.T) {
	base := docspec.New(urlvalue.New("http://example.com/foo.txt", true))
	withTag := base
	withTag.SetTag(entitytag.New(false, "x"))

	if base.Equal(withTag) {
		t.Error("specs differing in which predicates are set must not be equal")
	}
}
