// Package cookiejar implements HTTP cookie storage and the Set-Cookie
// parsing rules a client needs to hold and re-send them.
//
// Grounded in Panda3D's HTTPCookie and the HTTPClient::_cookies set
// (panda/src/downloader/httpCookie.cxx, httpClient.h): cookies are kept in
// a single ordered set keyed on (domain, reverse-path, name) so that a
// longer, more specific path always sorts before a shorter one for the
// same domain — update_from() then lets a refreshed Set-Cookie header
// replace the value/expiry/secure fields of an equivalent entry in place.
// Unlike a browser's single-string document.cookie view, this jar exposes
// full enumeration: a client may legitimately hold cookies for many
// domains and paths at once and needs to inspect or persist all of them.
package cookiejar

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mallardduck/go-htclient/pkg/httpdate"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// Cookie is a single stored cookie.
type Cookie struct {
	Name    string
	Value   string
	Domain  string
	Path    string
	Expires httpdate.Date
	Secure  bool

	hasExpires bool
}

// New constructs a bare Cookie with no expiry.
func New(name, path, domain string) Cookie {
	return Cookie{Name: name, Path: path, Domain: domain}
}

// HasExpires reports whether an expiration date was set.
func (c Cookie) HasExpires() bool { return c.hasExpires }

// IsExpired reports whether c's Expires date is at or before now. A
// cookie with no Expires parameter (a session cookie) never expires by
// this check; grounded in HTTPCookie::is_expired
// (panda/src/downloader/httpCookie.h), which takes the comparison instant
// as a parameter rather than always reading the wall clock, for testing.
func (c Cookie) IsExpired(now httpdate.Date) bool {
	return c.hasExpires && !c.Expires.After(now)
}

// Less implements the jar's total order: domain ascending, then path
// descending (longer paths first), then name ascending. Two cookies for
// which neither Less(other) nor other.Less(c) holds are the same slot and
// may be merged with UpdateFrom.
func (c Cookie) Less(other Cookie) bool {
	if c.Domain != other.Domain {
		return c.Domain < other.Domain
	}
	if c.Path != other.Path {
		return c.Path > other.Path
	}
	return c.Name < other.Name
}

func sameSlot(a, b Cookie) bool {
	return !a.Less(b) && !b.Less(a)
}

// UpdateFrom copies the value, expiration and secure flag from other into
// c. Both cookies must already compare equal under Less (same domain, path
// and name); this never changes a cookie's position in the jar's order.
func (c *Cookie) UpdateFrom(other Cookie) error {
	if !sameSlot(*c, other) {
		return errors.Errorf("cookiejar: update_from called on mismatched cookies %q and %q", c.Name, other.Name)
	}
	c.Value = other.Value
	c.Expires = other.Expires
	c.hasExpires = other.hasExpires
	c.Secure = other.Secure
	return nil
}

// MatchesURL reports whether c should be sent with a request to url: the
// domain must match as a suffix at a dot boundary (or exactly), the path
// must be a prefix, and a secure cookie requires a TLS connection.
func (c Cookie) MatchesURL(url urlvalue.Value) bool {
	if c.Domain == "" {
		return false
	}
	server := url.Server()
	domainMatches := server == c.Domain ||
		"."+server == c.Domain ||
		(len(server) > len(c.Domain) &&
			strings.HasSuffix(server, c.Domain) &&
			(c.Domain[0] == '.' || server[len(server)-len(c.Domain)-1] == '.'))
	if !domainMatches {
		return false
	}

	path := url.Path()
	if !strings.HasPrefix(path, c.Path) {
		return false
	}

	if c.Secure && !url.IsSSL() {
		return false
	}
	return true
}

// String renders the cookie the way a jar dump would: "name=value;
// path=...; domain=..." plus optional expires/secure.
func (c Cookie) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s; path=%s; domain=%s", c.Name, c.Value, c.Path, c.Domain)
	if c.hasExpires {
		fmt.Fprintf(&b, "; expires=%s", c.Expires.String())
	}
	if c.Secure {
		b.WriteString("; secure")
	}
	return b.String()
}

// ParseSetCookie builds a Cookie from a Set-Cookie header value, resolved
// against the URL that produced the response (which seeds the default
// domain and path before any explicit domain=/path= parameter overrides
// them).
func ParseSetCookie(header string, url urlvalue.Value) (Cookie, error) {
	c := Cookie{Domain: url.Server(), Path: url.Path()}

	start := 0
	for start < len(header) && header[start] == ' ' {
		start++
	}

	first := true
	var failed error
	for {
		semi := strings.IndexByte(header[start:], ';')
		var field string
		if semi < 0 {
			field = header[start:]
		} else {
			field = header[start : start+semi]
		}
		if err := c.parseParam(field, first); err != nil && failed == nil {
			failed = err
		}
		first = false
		if semi < 0 {
			break
		}
		start += semi + 1
		for start < len(header) && header[start] == ' ' {
			start++
		}
	}

	return c, failed
}

func (c *Cookie) parseParam(param string, first bool) error {
	key, value, hasValue := param, "", false
	if eq := strings.IndexByte(param, '='); eq >= 0 {
		key, value = param[:eq], param[eq+1:]
		hasValue = true
	}
	_ = hasValue

	if first {
		c.Name = key
		c.Value = value
		return nil
	}

	switch strings.ToLower(key) {
	case "expires":
		d := httpdate.Parse(value)
		if !d.IsValid() {
			return errors.Errorf("cookiejar: invalid expires value %q", value)
		}
		c.Expires = d
		c.hasExpires = true
	case "path":
		c.Path = value
	case "domain":
		domain := strings.ToLower(value)
		if domain != "" && domain[0] != '.' {
			domain = "." + domain
		}
		c.Domain = domain
	case "secure":
		c.Secure = true
	default:
		return errors.Errorf("cookiejar: unrecognized Set-Cookie parameter %q", key)
	}
	return nil
}

// Jar is a thread-safe, fully enumerable collection of cookies, keyed by
// the (domain, path, name) order Cookie.Less defines.
type Jar struct {
	mu      sync.RWMutex
	cookies []Cookie
}

// NewJar returns an empty Jar.
func NewJar() *Jar {
	return &Jar{}
}

func (j *Jar) search(c Cookie) (int, bool) {
	idx := sort.Search(len(j.cookies), func(i int) bool {
		return !j.cookies[i].Less(c)
	})
	if idx < len(j.cookies) && sameSlot(j.cookies[idx], c) {
		return idx, true
	}
	return idx, false
}

// Set inserts cookie into the jar, or merges it into an existing entry for
// the same (domain, path, name) slot via UpdateFrom.
func (j *Jar) Set(cookie Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx, found := j.search(cookie)
	if found {
		_ = j.cookies[idx].UpdateFrom(cookie)
		return
	}
	j.cookies = append(j.cookies, Cookie{})
	copy(j.cookies[idx+1:], j.cookies[idx:])
	j.cookies[idx] = cookie
}

// Clear removes the cookie matching (domain, path, name) of cookie, if
// present. Reports whether a cookie was removed.
func (j *Jar) Clear(cookie Cookie) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx, found := j.search(cookie)
	if !found {
		return false
	}
	j.cookies = append(j.cookies[:idx], j.cookies[idx+1:]...)
	return true
}

// ClearAll removes every cookie from the jar.
func (j *Jar) ClearAll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = nil
}

// Has reports whether a cookie matching (domain, path, name) is stored.
func (j *Jar) Has(cookie Cookie) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, found := j.search(cookie)
	return found
}

// Get returns the stored cookie matching (domain, path, name), if any.
func (j *Jar) Get(cookie Cookie) (Cookie, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	idx, found := j.search(cookie)
	if !found {
		return Cookie{}, false
	}
	return j.cookies[idx], true
}

// All returns every stored cookie, in jar order, for enumeration or
// persistence. The returned slice is a copy.
func (j *Jar) All() []Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Cookie, len(j.cookies))
	copy(out, j.cookies)
	return out
}

// CopyFrom merges every cookie from other into j, via Set.
func (j *Jar) CopyFrom(other *Jar) {
	for _, c := range other.All() {
		j.Set(c)
	}
}

// ForURL returns the cookies in the jar that MatchesURL(url) and have not
// expired, in jar order, suitable for building a Cookie request header.
func (j *Jar) ForURL(url urlvalue.Value) []Cookie {
	return j.forURLAt(url, httpdate.Now())
}

func (j *Jar) forURLAt(url urlvalue.Value, now httpdate.Date) []Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []Cookie
	for _, c := range j.cookies {
		if c.MatchesURL(url) && !c.IsExpired(now) {
			out = append(out, c)
		}
	}
	return out
}

// WriteHeader renders the Cookie request header value for url ("a=1; b=2"),
// or "" if no cookie in the jar matches.
func (j *Jar) WriteHeader(url urlvalue.Value) string {
	matches := j.ForURL(url)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, len(matches))
	for i, c := range matches {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}
