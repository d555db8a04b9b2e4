package cookiejar_test

import (
	"testing"

	"github.com/mallardduck/go-htclient/pkg/cookiejar"
	"github.com/mallardduck/go-htclient/pkg/httpdate"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

func TestParseSetCookieDefaultsFromURL(t *testing.T) {
	url := urlvalue.New("http://www.example.com/some/path/page.html", true)
	c, err := cookiejar.ParseSetCookie("sessionid=abc123", url)
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.Name != "sessionid" || c.Value != "abc123" {
		t.Errorf("name/value = %q=%q", c.Name, c.Value)
	}
	if c.Domain != "www.example.com" {
		t.Errorf("domain defaulted to %q", c.Domain)
	}
	if c.Path != "/some/path/page.html" {
		t.Errorf("path defaulted to %q", c.Path)
	}
}

func TestParseSetCookieExplicitParams(t *testing.T) {
	url := urlvalue.New("http://www.example.com/", true)
	c, err := cookiejar.ParseSetCookie(
		"id=xyz; path=/app; domain=example.com; expires=Sun, 06 Nov 1994 08:49:37 GMT; secure", url)
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if c.Path != "/app" {
		t.Errorf("path = %q", c.Path)
	}
	if c.Domain != ".example.com" {
		t.Errorf("domain should gain a leading dot: %q", c.Domain)
	}
	if !c.HasExpires() {
		t.Error("expected expires to be set")
	}
	if !c.Secure {
		t.Error("expected secure flag")
	}
}

func TestOrderingLongerPathFirst(t *testing.T) {
	a := cookiejar.New("x", "/a", "example.com")
	b := cookiejar.New("x", "/a/b", "example.com")
	if !b.Less(a) {
		t.Error("longer path must sort before shorter path for the same domain/name")
	}
}

func TestUpdateFromRequiresSameSlot(t *testing.T) {
	a := cookiejar.New("x", "/a", "example.com")
	b := cookiejar.New("y", "/a", "example.com")
	if err := a.UpdateFrom(b); err == nil {
		t.Error("expected error updating from a different-named cookie")
	}
}

func TestMatchesURLDomainSuffix(t *testing.T) {
	c := cookiejar.New("id", "/", ".example.com")
	c.Value = "1"

	if !c.MatchesURL(urlvalue.New("http://www.example.com/", true)) {
		t.Error("subdomain should match leading-dot domain")
	}
	if c.MatchesURL(urlvalue.New("http://evilexample.com/", true)) {
		t.Error("evilexample.com must not match .example.com by naive suffix")
	}
}

func TestMatchesURLSecureRequiresTLS(t *testing.T) {
	c := cookiejar.New("id", "/", "example.com")
	c.Value = "1"
	c.Secure = true

	if c.MatchesURL(urlvalue.New("http://example.com/", true)) {
		t.Error("secure cookie must not match a non-TLS URL")
	}
	if !c.MatchesURL(urlvalue.New("https://example.com/", true)) {
		t.Error("secure cookie should match a TLS URL")
	}
}

func TestJarSetGetClearEnumerate(t *testing.T) {
	jar := cookiejar.NewJar()
	url := urlvalue.New("http://example.com/", true)

	c, err := cookiejar.ParseSetCookie("a=1", url)
	if err != nil {
		t.Fatal(err)
	}
	jar.Set(c)

	d, err := cookiejar.ParseSetCookie("b=2", url)
	if err != nil {
		t.Fatal(err)
	}
	jar.Set(d)

	if len(jar.All()) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(jar.All()))
	}

	if got := jar.WriteHeader(url); got != "a=1; b=2" {
		t.Errorf("WriteHeader = %q", got)
	}

	if !jar.Has(c) {
		t.Error("Has should find cookie a")
	}
	if !jar.Clear(c) {
		t.Error("Clear should remove cookie a")
	}
	if jar.Has(c) {
		t.Error("cookie a should be gone")
	}
	if len(jar.All()) != 1 {
		t.Errorf("expected 1 cookie remaining, got %d", len(jar.All()))
	}
}

func TestIsExpired(t *testing.T) {
	c := cookiejar.New("id", "/", "example.com")
	if c.IsExpired(httpdate.Now()) {
		t.Error("a cookie with no Expires parameter is a session cookie and never expires")
	}

	c.Expires = httpdate.Parse("Sun, 06 Nov 1994 08:49:37 GMT")
	if c.IsExpired(httpdate.Now()) {
		t.Error("Expires set but hasExpires unset should not report expired")
	}

	expired, err := cookiejar.ParseSetCookie("id=1; expires=Sun, 06 Nov 1994 08:49:37 GMT", urlvalue.New("http://example.com/", true))
	if err != nil {
		t.Fatal(err)
	}
	if !expired.IsExpired(httpdate.Now()) {
		t.Error("a cookie whose Expires date is long past should report expired")
	}

	fresh, err := cookiejar.ParseSetCookie("id=1; expires=Fri, 31 Dec 2100 23:59:59 GMT", urlvalue.New("http://example.com/", true))
	if err != nil {
		t.Fatal(err)
	}
	if fresh.IsExpired(httpdate.Now()) {
		t.Error("a cookie whose Expires date is in the future should not report expired")
	}
}

func TestJarExcludesExpiredCookieFromForURLAndWriteHeader(t *testing.T) {
	jar := cookiejar.NewJar()
	url := urlvalue.New("http://example.com/", true)

	live, err := cookiejar.ParseSetCookie("a=1", url)
	if err != nil {
		t.Fatal(err)
	}
	jar.Set(live)

	expired, err := cookiejar.ParseSetCookie("b=2; expires=Sun, 06 Nov 1994 08:49:37 GMT", url)
	if err != nil {
		t.Fatal(err)
	}
	jar.Set(expired)

	matches := jar.ForURL(url)
	if len(matches) != 1 || matches[0].Name != "a" {
		t.Errorf("ForURL should exclude the expired cookie, got %+v", matches)
	}

	if got := jar.WriteHeader(url); got != "a=1" {
		t.Errorf("WriteHeader should exclude the expired cookie, got %q", got)
	}

	if len(jar.All()) != 2 {
		t.Error("an expired cookie is still held by the jar; only matching/sending excludes it")
	}
}

func TestJarSetMergesEquivalentCookie(t *testing.T) {
	jar := cookiejar.NewJar()
	url := urlvalue.New("http://example.com/", true)

	c1, _ := cookiejar.ParseSetCookie("a=1", url)
	jar.Set(c1)

	c2, _ := cookiejar.ParseSetCookie("a=2", url)
	jar.Set(c2)

	all := jar.All()
	if len(all) != 1 {
		t.Fatalf("expected cookies to merge into one slot, got %d", len(all))
	}
	if all[0].Value != "2" {
		t.Errorf("expected merged value to be updated to 2, got %q", all[0].Value)
	}
}
