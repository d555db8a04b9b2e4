package httpauth

import (
	"encoding/base64"

	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// Basic implements RFC 2617 Basic authentication.
//
// The original Panda3D client hand-rolled its own base64 table
// (HTTPAuthorization::base64_encode/base64_decode in
// httpAuthorization.cxx) because it had no third-party dependency to
// reach for; here encoding/base64's StdEncoding replaces that table
// verbatim with no behavior change, so it is used directly rather than
// reimplemented.
type Basic struct {
	base
}

// NewBasic builds a Basic credential from a parsed Basic challenge.
func NewBasic(tokens Tokens, url urlvalue.Value, isProxy bool) *Basic {
	return &Basic{base: newBase(tokens, url, isProxy)}
}

// Mechanism returns "basic".
func (b *Basic) Mechanism() string { return "basic" }

// IsValid always succeeds: the Basic scheme carries no unsupported
// parameters that could render it unusable.
func (b *Basic) IsValid() bool { return true }

// Generate returns the "Basic <base64(username:password)>" header value.
func (b *Basic) Generate(method Method, requestPath, username, body string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username))
}
