package httpauth_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/mallardduck/go-htclient/pkg/httpauth"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

func TestParseAuthenticationSchemesSingle(t *testing.T) {
	schemes := httpauth.ParseAuthenticationSchemes(`Basic realm="protected area"`)
	tokens, ok := schemes["basic"]
	if !ok {
		t.Fatal("expected a basic scheme")
	}
	if tokens["realm"] != "protected area" {
		t.Errorf("realm = %q", tokens["realm"])
	}
}

func TestParseAuthenticationSchemesMultiple(t *testing.T) {
	schemes := httpauth.ParseAuthenticationSchemes(
		`Digest realm="x", nonce="abc123", qop="auth,auth-int", Basic realm="x"`)
	if _, ok := schemes["digest"]; !ok {
		t.Fatal("expected a digest scheme")
	}
	if _, ok := schemes["basic"]; !ok {
		t.Fatal("expected a basic scheme")
	}
	if schemes["digest"]["nonce"] != "abc123" {
		t.Errorf("nonce = %q", schemes["digest"]["nonce"])
	}
	if schemes["digest"]["qop"] != "auth,auth-int" {
		t.Errorf("qop = %q", schemes["digest"]["qop"])
	}
}

func TestBasicGenerateIsBase64OfCredential(t *testing.T) {
	url := urlvalue.New("http://example.com/secret", true)
	schemes := httpauth.ParseAuthenticationSchemes(`Basic realm="x"`)
	b := httpauth.NewBasic(schemes["basic"], url, false)

	header := b.Generate("GET", "/secret", "alice:s3cret", "")
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))
	if header != want {
		t.Errorf("Generate = %q, want %q", header, want)
	}
}

func TestBasicGenerateDecodesBackToCredential(t *testing.T) {
	url := urlvalue.New("http://example.com/", true)
	schemes := httpauth.ParseAuthenticationSchemes(`Basic realm="x"`)
	b := httpauth.NewBasic(schemes["basic"], url, false)

	header := b.Generate("GET", "/", "alice:s3cret", "")
	encoded := strings.TrimPrefix(header, "Basic ")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != "alice:s3cret" {
		t.Errorf("decoded = %q", decoded)
	}
}

func TestDigestRejectsUnknownAlgorithm(t *testing.T) {
	url := urlvalue.New("http://example.com/", true)
	schemes := httpauth.ParseAuthenticationSchemes(`Digest realm="x", nonce="n", algorithm=sha-256`)
	d := httpauth.NewDigest(schemes["digest"], url, false)
	if d.IsValid() {
		t.Error("expected an unsupported algorithm to be invalid")
	}
}

func TestDigestNonceCountIsMonotonicAndEightHex(t *testing.T) {
	url := urlvalue.New("http://example.com/", true)
	schemes := httpauth.ParseAuthenticationSchemes(`Digest realm="x", nonce="abc", qop="auth"`)
	d := httpauth.NewDigest(schemes["digest"], url, false)

	h1 := d.Generate("GET", "/", "alice:pw", "")
	h2 := d.Generate("GET", "/", "alice:pw", "")

	nc1 := extractParam(h1, "nc")
	nc2 := extractParam(h2, "nc")

	if len(nc1) != 8 || len(nc2) != 8 {
		t.Fatalf("nc values must be 8 hex digits: %q, %q", nc1, nc2)
	}
	if nc1 == nc2 {
		t.Errorf("nc must increase across calls: both were %q", nc1)
	}
	if nc1 != "00000001" || nc2 != "00000002" {
		t.Errorf("nc sequence = %q, %q, want 00000001, 00000002", nc1, nc2)
	}
}

func TestDigestResponseChangesWithDifferentCredential(t *testing.T) {
	url := urlvalue.New("http://example.com/", true)
	schemes := httpauth.ParseAuthenticationSchemes(`Digest realm="x", nonce="abc"`)

	d1 := httpauth.NewDigest(schemes["digest"], url, false)
	h1 := d1.Generate("GET", "/doc", "alice:pw1", "")

	d2 := httpauth.NewDigest(schemes["digest"], url, false)
	h2 := d2.Generate("GET", "/doc", "alice:pw2", "")

	if extractParam(h1, "response") == extractParam(h2, "response") {
		t.Error("digest response must differ for different passwords")
	}
}

func extractParam(header, key string) string {
	idx := strings.Index(header, key+"=")
	if idx < 0 {
		return ""
	}
	rest := header[idx+len(key)+1:]
	rest = strings.TrimPrefix(rest, `"`)
	if end := strings.IndexAny(rest, `",`); end >= 0 {
		return rest[:end]
	}
	return rest
}
