package httpauth

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// Algorithm names the RFC 2617 digest algorithm a challenge requested.
type Algorithm int

const (
	AlgorithmMD5 Algorithm = iota
	AlgorithmMD5Sess
	AlgorithmUnknown
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmMD5:
		return "MD5"
	case AlgorithmMD5Sess:
		return "MD5-sess"
	default:
		return "unknown"
	}
}

// qop bitfield, mirroring Q_auth / Q_auth_int.
const (
	qopAuth = 1 << iota
	qopAuthInt
)

// Qop names the quality-of-protection this credential chose for a given
// request; it is decided per-request by get_a2's equivalent, GetA2.
type Qop int

const (
	QopUnused Qop = iota
	QopAuth
	QopAuthInt
)

func (q Qop) String() string {
	switch q {
	case QopAuth:
		return "auth"
	case QopAuthInt:
		return "auth-int"
	default:
		return "unused"
	}
}

// Digest implements RFC 2617 Digest authentication, including the
// "auth-int" quality-of-protection and the optional MD5-sess algorithm.
type Digest struct {
	base

	nonce     string
	opaque    string
	algorithm Algorithm
	qop       int

	cnonce string

	nonceCount uint32
	a1         string // cached MD5-sess A1, per algorithm's definition
}

// NewDigest builds a Digest credential from a parsed Digest challenge.
//
// The open question of whether a cached MD5-sess A1 value should be
// invalidated when the server issues a fresh nonce (stale=true) is
// resolved the same way the original client resolved it: A1 is cached
// for the lifetime of this Digest value and never recomputed, even
// across a nonce refresh. A Digest is reconstructed from scratch for
// each new challenge, so in practice this only matters within a single
// challenge's lifetime.
func NewDigest(tokens Tokens, url urlvalue.Value, isProxy bool) *Digest {
	d := &Digest{
		base:      newBase(tokens, url, isProxy),
		nonce:     tokens["nonce"],
		opaque:    tokens["opaque"],
		algorithm: AlgorithmMD5,
	}

	if algo, ok := tokens["algorithm"]; ok {
		switch strings.ToLower(algo) {
		case "md5":
			d.algorithm = AlgorithmMD5
		case "md5-sess":
			d.algorithm = AlgorithmMD5Sess
		default:
			d.algorithm = AlgorithmUnknown
		}
	}

	if qopStr, ok := tokens["qop"]; ok {
		for _, tok := range strings.Split(qopStr, ",") {
			tok = strings.ToLower(strings.TrimSpace(tok))
			switch tok {
			case "auth":
				d.qop |= qopAuth
			case "auth-int":
				d.qop |= qopAuthInt
			}
		}
	}

	d.cnonce = calcMD5(fmt.Sprintf("%d:%d:%s:go-htclient", time.Now().Unix(), nonceClock(), url.String()))

	return d
}

// nonceClock stands in for C's clock(): a monotonically increasing
// counter that, combined with the wall-clock second and the URL, keeps
// cnonce values from colliding across Digest values minted in the same
// second.
var nonceClockSeq uint64

func nonceClock() uint64 {
	return atomic.AddUint64(&nonceClockSeq, 1)
}

// Mechanism returns "digest".
func (d *Digest) Mechanism() string { return "digest" }

// IsValid reports whether the challenge named a supported algorithm.
func (d *Digest) IsValid() bool { return d.algorithm != AlgorithmUnknown }

// Generate computes the RFC 2617 digest response and formats the
// Authorization (or Proxy-Authorization) header value. It advances the
// nonce-count by one on every call, as required by the spec: each
// generated header uses a distinct, strictly increasing nc value.
func (d *Digest) Generate(method Method, requestPath, username, body string) string {
	d.nonceCount++

	colon := strings.IndexByte(username, ':')
	user, pass := username, ""
	if colon >= 0 {
		user, pass = username[:colon], username[colon+1:]
	}

	digest, qop := d.calcRequestDigest(user, pass, method, requestPath, body)

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s", realm="%s", nonce="%s", uri=%s, response="%s", algorithm=%s`,
		user, d.Realm(), d.nonce, requestPath, digest, d.algorithm)

	if d.opaque != "" {
		fmt.Fprintf(&b, `, opaque="%s"`, d.opaque)
	}

	if qop != QopUnused {
		fmt.Fprintf(&b, `, qop=%s, cnonce="%s", nc=%s`, qop, d.cnonce, d.hexNonceCount())
	}

	return b.String()
}

// calcRequestDigest implements RFC 2617's KD(H(A1), unq(nonce) ":" ... )
// construction, branching on whether the server offered a qop. It
// returns the response digest and the qop that was actually chosen for
// this request (QopUnused if the server offered none).
func (d *Digest) calcRequestDigest(username, password string, method Method, requestPath, body string) (string, Qop) {
	hA1 := d.calcH(d.getA1(username, password))
	hA2, qop := d.getA2(method, requestPath, body)

	var data string
	if d.qop == 0 {
		qop = QopUnused
		data = d.nonce + ":" + hA2
	} else {
		data = strings.Join([]string{d.nonce, d.hexNonceCount(), d.cnonce, qop.String(), hA2}, ":")
	}

	return d.calcKD(hA1, data), qop
}

func (d *Digest) calcH(data string) string {
	switch d.algorithm {
	case AlgorithmMD5, AlgorithmMD5Sess, AlgorithmUnknown:
		return calcMD5(data)
	}
	return ""
}

func (d *Digest) calcKD(secret, data string) string {
	switch d.algorithm {
	case AlgorithmMD5, AlgorithmMD5Sess, AlgorithmUnknown:
		return d.calcH(secret + ":" + data)
	}
	return ""
}

// getA1 returns the A1 value per RFC 2617. For MD5-sess, the whole A1
// (the hashed user:realm:password joined with the nonce and cnonce) is
// computed on the first call and cached for the lifetime of this Digest.
func (d *Digest) getA1(username, password string) string {
	switch d.algorithm {
	case AlgorithmMD5Sess:
		if d.a1 == "" {
			d.a1 = calcMD5(username+":"+d.Realm()+":"+password) + ":" + d.nonce + ":" + d.cnonce
		}
		return d.a1
	default:
		return username + ":" + d.Realm() + ":" + password
	}
}

// getA2 returns the A2 value per RFC 2617, choosing auth-int over auth
// only when the server offered it and the request carries a body.
func (d *Digest) getA2(method Method, requestPath, body string) (string, Qop) {
	if d.qop&qopAuthInt != 0 && body != "" {
		return string(method) + ":" + requestPath + ":" + d.calcH(body), QopAuthInt
	}
	return string(method) + ":" + requestPath, QopAuth
}

// hexNonceCount formats the current nonce count as an 8-digit lowercase
// hexadecimal string, as RFC 2617 requires.
func (d *Digest) hexNonceCount() string {
	return fmt.Sprintf("%08x", d.nonceCount)
}

func calcMD5(source string) string {
	sum := md5.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}
