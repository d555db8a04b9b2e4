package entitytag_test

import (
	"testing"

	"github.com/mallardduck/go-htclient/pkg/entitytag"
)

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		in     string
		weak   bool
		value  string
		format string
	}{
		{`"abc"`, false, "abc", `"abc"`},
		{`W/"abc"`, true, "abc", `W/"abc"`},
		{`w/"abc"`, true, "abc", `W/"abc"`},
		{`"a\"b"`, false, `a"b`, `"a\"b"`},
		{`"a\\b"`, false, `a\b`, `"a\\b"`},
	}
	for _, tt := range tests {
		tag := entitytag.Parse(tt.in)
		if tag.IsWeak() != tt.weak {
			t.Errorf("Parse(%q).IsWeak() = %v, want %v", tt.in, tag.IsWeak(), tt.weak)
		}
		if tag.Value() != tt.value {
			t.Errorf("Parse(%q).Value() = %q, want %q", tt.in, tag.Value(), tt.value)
		}
		if tag.String() != tt.format {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.in, tag.String(), tt.format)
		}
	}
}

func TestWeakNeverStrongEquivalent(t *testing.T) {
	a := entitytag.New(true, "x")
	if a.StrongEqual(a) {
		t.Error("a weak tag must never be strong-equivalent, even to itself")
	}
	b := entitytag.New(false, "x")
	if a.StrongEqual(b) {
		t.Error("weak tag must not be strong-equivalent to a matching strong tag")
	}
}

func TestStrongImpliesWeak(t *testing.T) {
	a := entitytag.New(false, "x")
	b := entitytag.New(false, "x")
	if !a.StrongEqual(b) {
		t.Fatal("expected strong equivalence")
	}
	if !a.WeakEqual(b) {
		t.Error("strong-equivalent tags must also be weak-equivalent")
	}
}
