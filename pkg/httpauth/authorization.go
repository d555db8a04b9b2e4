// Package httpauth implements the Basic and Digest HTTP authentication
// schemes (RFC 2617) a channel negotiates in response to a 401/407
// challenge.
//
// Grounded in Panda3D's HTTPAuthorization/HTTPBasicAuthorization/
// HTTPDigestAuthorization (panda/src/downloader/httpAuthorization.cxx,
// httpBasicAuthorization.cxx, httpDigestAuthorization.cxx):
// ParseAuthenticationSchemes tokenizes a WWW-Authenticate/
// Proxy-Authenticate header into one Tokens map per scheme; New resolves
// the challenge's "domain" parameter into a list of canonical URL
// prefixes the credential applies to (or, absent one, the challenge
// URL truncated to its last slash); Basic and Digest each implement
// Generate to produce the matching Authorization request header value.
package httpauth

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// Method is an HTTP request method, as used in the Digest A2 computation.
type Method string

// Tokens is the set of token=value pairs following a scheme name in a
// WWW-Authenticate or Proxy-Authenticate header.
type Tokens map[string]string

// Schemes maps a lowercased scheme name ("basic", "digest", ...) to its
// tokens, as parsed from a single challenge header value (which may list
// more than one scheme).
type Schemes map[string]Tokens

// Generator produces an Authorization (or Proxy-Authorization) header
// value for a request, given the method and path being requested and the
// "username:password" credential to use.
type Generator interface {
	Mechanism() string
	Realm() string
	IsValid() bool
	Generate(method Method, requestPath, username, body string) string
}

// base holds the fields common to every authentication scheme: the
// challenge's realm and the set of canonical URL prefixes it applies to.
type base struct {
	realm  string
	domain []string
}

// Realm returns the protection realm named by the challenge.
func (b base) Realm() string { return b.realm }

// Domain returns the canonical URL prefixes this credential should be
// attached to, as resolved from the challenge's "domain" parameter.
func (b base) Domain() []string { return b.domain }

func newBase(tokens Tokens, url urlvalue.Value, isProxy bool) base {
	b := base{realm: tokens["realm"]}

	canon := CanonicalURL(url)

	if domain, ok := tokens["domain"]; ok && !isProxy {
		p := 0
		for p < len(domain) {
			for p < len(domain) && domain[p] == ' ' {
				p++
			}
			q := p
			for q < len(domain) && domain[q] != ' ' {
				q++
			}
			if q > p {
				token := domain[p:q]
				du := urlvalue.New(token, true)
				if du.HasServer() {
					b.domain = append(b.domain, CanonicalURL(du).String())
				} else {
					rel := canon
					rel.SetPath(token)
					b.domain = append(b.domain, rel.String())
				}
			}
			p = q
		}
	} else {
		str := canon.String()
		if slash := strings.LastIndexByte(str, '/'); slash >= 0 {
			b.domain = append(b.domain, str[:slash+1])
		} else {
			b.domain = append(b.domain, str)
		}
	}

	return b
}

// CanonicalURL returns the URL with an explicit scheme, no username, an
// explicit (possibly default) port, and an explicit path — the form used
// both to resolve relative "domain" parameters and as the request-URI
// stored on a credential cache entry.
func CanonicalURL(url urlvalue.Value) urlvalue.Value {
	canon := url
	canon.SetScheme(canon.Scheme())
	canon.SetUsername("")
	canon.SetPort(canon.Port())
	canon.SetPath(canon.Path())
	return canon
}

// ParseAuthenticationSchemes decodes the text following a
// WWW-Authenticate or Proxy-Authenticate header field into one Tokens set
// per named scheme. The header may describe more than one scheme,
// comma-delimited: "Basic realm=\"x\", Digest realm=\"x\" nonce=\"y\"".
func ParseAuthenticationSchemes(fieldValue string) Schemes {
	schemes := Schemes{}

	p := 0
	for p < len(fieldValue) && fieldValue[p] == ' ' {
		p++
	}
	if p >= len(fieldValue) {
		return schemes
	}

	q := p
	for q < len(fieldValue) && fieldValue[q] != ' ' {
		q++
	}
	scheme := strings.ToLower(fieldValue[p:q])
	tokens := Tokens{}
	schemes[scheme] = tokens

	p = q + 1
	for p < len(fieldValue) {
		q = p
		for q < len(fieldValue) && fieldValue[q] != '=' && fieldValue[q] != ',' && fieldValue[q] != ' ' {
			q++
		}
		if q < len(fieldValue) && fieldValue[q] == '=' {
			token := strings.ToLower(fieldValue[p:q])
			value, next := scanQuotedOrUnquotedString(fieldValue, q+1)
			tokens[token] = value
			p = next
			for p < len(fieldValue) && (fieldValue[p] == ',' || fieldValue[p] == ' ') {
				p++
			}
		} else {
			scheme = strings.ToLower(fieldValue[p:q])
			tokens = Tokens{}
			schemes[scheme] = tokens
			p = q + 1
		}
	}

	return schemes
}

// scanQuotedOrUnquotedString scans a quoted ("\"..\"", with '\' escapes) or
// space/comma-delimited unquoted token starting at pos, returning its
// decoded value and the position following it.
func scanQuotedOrUnquotedString(source string, pos int) (string, int) {
	if pos >= len(source) {
		return "", pos
	}

	var b strings.Builder
	if source[pos] == '"' {
		p := pos + 1
		for p < len(source) && source[p] != '"' {
			if source[p] == '\\' {
				p++
				if p < len(source) {
					b.WriteByte(source[p])
					p++
				}
			} else {
				b.WriteByte(source[p])
				p++
			}
		}
		if p < len(source) {
			p++
		}
		return b.String(), p
	}

	p := pos
	for p < len(source) && source[p] != ',' && source[p] != ' ' {
		b.WriteByte(source[p])
		p++
	}
	return b.String(), p
}

// Select picks the strongest scheme the challenge offers that this
// package supports: Digest if a valid Digest challenge is present,
// otherwise Basic. It returns nil if neither scheme is usable.
func Select(schemes Schemes, url urlvalue.Value, isProxy bool) (Generator, error) {
	if tokens, ok := schemes["digest"]; ok {
		d := NewDigest(tokens, url, isProxy)
		if d.IsValid() {
			return d, nil
		}
	}
	if tokens, ok := schemes["basic"]; ok {
		return NewBasic(tokens, url, isProxy), nil
	}
	return nil, errors.New("httpauth: no supported authentication scheme in challenge")
}
