// Package transport dials the byte-bidirectional connections a Channel
// speaks HTTP over: plain TCP, TLS (with Panda3D's three verification
// modes and its "expected server" subject pinning), and SOCKS-proxied
// variants of both.
//
// Grounded in Panda3D's HTTPChannel connection setup
// (panda/src/downloader/httpChannel.cxx, which layers a BIO-based TLS
// handshake over a plain socket and checks the peer certificate's
// subject against a caller-supplied pattern list) and adapted to Go's
// idiom of deadline-driven non-blocking I/O: rather than hand-rolling an
// EAGAIN-style retry loop the way the original OpenSSL BIO code does,
// Conn.SetDeadline expresses the same "come back later" contract net.Conn
// already gives every caller.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// VerifyMode selects how strictly a TLS peer certificate is checked.
type VerifyMode int

const (
	// VerifyNormal performs full chain and date validation.
	VerifyNormal VerifyMode = iota
	// VerifyNoDateCheck validates the chain but ignores expired/not-yet-valid errors.
	VerifyNoDateCheck
	// VerifyNone accepts any certificate.
	VerifyNone
)

// ExpectedServer is one acceptable peer-certificate subject pattern: a
// set of RDN attributes (e.g. {"O": "Acme Corp", "OU": "IT", "CN": "*.acme.example"})
// every one of which must appear, with an equal value, on the peer's
// subject for the pattern to match. A peer matches the policy if it
// matches at least one pattern in the list (or if the list is empty).
type ExpectedServer map[string]string

func (p ExpectedServer) matches(subject pkixName) bool {
	for attr, want := range p {
		got, ok := subject[attr]
		if !ok || got != want {
			return false
		}
	}
	return true
}

type pkixName map[string]string

func nameToMap(name *x509.Certificate) pkixName {
	m := pkixName{}
	if cn := name.Subject.CommonName; cn != "" {
		m["CN"] = cn
	}
	if len(name.Subject.Organization) > 0 {
		m["O"] = name.Subject.Organization[0]
	}
	if len(name.Subject.OrganizationalUnit) > 0 {
		m["OU"] = name.Subject.OrganizationalUnit[0]
	}
	if len(name.Subject.Country) > 0 {
		m["C"] = name.Subject.Country[0]
	}
	return m
}

// Options configures how Dial reaches a server: directly, through an
// HTTP proxy (the caller is responsible for CONNECT tunneling, which is
// a Channel-level concern), or through a SOCKS proxy (handled entirely
// here via golang.org/x/net/proxy).
type Options struct {
	// ProxyURL, if set and its scheme is socks/socks5, causes Dial to
	// route through it via SOCKS instead of dialing addr directly. HTTP
	// proxies are handled by the caller issuing a CONNECT (or a
	// proxy-absolute-form request) over a transport dialed directly to
	// the proxy; this package only special-cases SOCKS.
	ProxyURL string

	VerifyMode      VerifyMode
	ExpectedServers []ExpectedServer
	RootCAs         *x509.CertPool
	ServerName      string
	CipherSuites    []string

	DialTimeout time.Duration

	Log *logrus.Entry
}

func (o Options) log() *logrus.Entry {
	if o.Log != nil {
		return o.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Conn is the connection handed back by Dial/DialTLS: a net.Conn plus
// the deadline-setting contract Channel uses to express non-blocking
// "try again" semantics.
type Conn = net.Conn

// Dial opens a plain TCP connection to addr ("host:port"), routing
// through a SOCKS proxy first if Options.ProxyURL names one.
func Dial(addr string, opts Options) (Conn, error) {
	dialer, err := baseDialer(opts)
	if err != nil {
		return nil, err
	}
	opts.log().WithField("addr", addr).Debug("dialing transport")
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: dial %s", addr)
	}
	return conn, nil
}

// DialTLS opens a TCP connection to addr and performs a TLS handshake
// over it, honoring Options.VerifyMode and ExpectedServers.
func DialTLS(addr string, opts Options) (*tls.Conn, error) {
	raw, err := Dial(addr, opts)
	if err != nil {
		return nil, err
	}
	return HandshakeTLS(raw, addr, opts)
}

// HandshakeTLS layers a TLS client handshake over an already-open
// connection (used both for direct HTTPS and for HTTPS tunneled through
// an HTTP CONNECT proxy, where conn is the post-CONNECT plain socket).
func HandshakeTLS(conn net.Conn, addr string, opts Options) (*tls.Conn, error) {
	serverName := opts.ServerName
	if serverName == "" {
		serverName, _ = splitHostPort(addr)
	}

	cfg := &tls.Config{
		RootCAs:            opts.RootCAs,
		ServerName:         serverName,
		InsecureSkipVerify: opts.VerifyMode != VerifyNormal && opts.VerifyMode != VerifyNoDateCheck,
	}
	if opts.VerifyMode == VerifyNoDateCheck {
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = verifyIgnoringDates(cfg, opts)
	}

	tc := tls.Client(conn, cfg)
	if err := tc.Handshake(); err != nil {
		return nil, errors.Wrap(err, "transport: TLS handshake")
	}

	if len(opts.ExpectedServers) > 0 {
		state := tc.ConnectionState()
		if len(state.PeerCertificates) == 0 {
			return nil, errors.New("transport: no peer certificate presented")
		}
		if !matchesAnyExpectedServer(state.PeerCertificates[0], opts.ExpectedServers) {
			return nil, errors.New("transport: peer certificate subject does not match any expected server pattern")
		}
	}

	return tc, nil
}

func matchesAnyExpectedServer(cert *x509.Certificate, patterns []ExpectedServer) bool {
	subject := nameToMap(cert)
	for _, p := range patterns {
		if p.matches(subject) {
			return true
		}
	}
	return false
}

// verifyIgnoringDates re-runs chain verification with cert expiry
// checking disabled, so that VerifyNoDateCheck rejects every other
// validation failure (unknown CA, hostname mismatch) while tolerating an
// expired or not-yet-valid leaf.
func verifyIgnoringDates(cfg *tls.Config, opts Options) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		certs := make([]*x509.Certificate, len(rawCerts))
		for i, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return errors.Wrap(err, "transport: parsing peer certificate")
			}
			certs[i] = cert
		}
		if len(certs) == 0 {
			return errors.New("transport: no certificates presented")
		}

		pool := x509.NewCertPool()
		for _, c := range certs[1:] {
			pool.AddCert(c)
		}
		roots := opts.RootCAs
		if roots == nil {
			var err error
			roots, err = x509.SystemCertPool()
			if err != nil {
				return errors.Wrap(err, "transport: loading system roots")
			}
		}

		_, err := certs[0].Verify(x509.VerifyOptions{
			Intermediates: pool,
			Roots:         roots,
			DNSName:       cfg.ServerName,
			CurrentTime:   certs[0].NotBefore.Add(time.Hour),
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		})
		if err == nil {
			return nil
		}
		var invalid x509.CertificateInvalidError
		if stderrors.As(err, &invalid) && invalid.Reason == x509.Expired {
			return nil
		}
		return err
	}
}

func baseDialer(opts Options) (proxy.Dialer, error) {
	base := &net.Dialer{Timeout: opts.DialTimeout}
	if opts.ProxyURL == "" {
		return base, nil
	}
	scheme, rest := splitScheme(opts.ProxyURL)
	if scheme != "socks" && scheme != "socks5" {
		// Not a SOCKS proxy; the caller handles HTTP-proxy routing itself
		// (CONNECT tunneling or absolute-form requests) at the Channel
		// level, so Dial talks directly to the named address.
		return base, nil
	}

	user, hostport := splitUserinfo(rest)
	if _, _, err := net.SplitHostPort(hostport); err != nil {
		hostport = net.JoinHostPort(strings.Trim(hostport, "[]"), strconv.Itoa(DefaultSOCKSPort))
	}
	var auth *proxy.Auth
	if user != "" {
		name, pass, _ := strings.Cut(user, ":")
		auth = &proxy.Auth{User: name, Password: pass}
	}

	dialer, err := proxy.SOCKS5("tcp", hostport, auth, base)
	if err != nil {
		return nil, errors.Wrap(err, "transport: building SOCKS dialer")
	}
	return dialer, nil
}

func splitScheme(raw string) (scheme, rest string) {
	if idx := strings.Index(raw, "://"); idx >= 0 {
		return strings.ToLower(raw[:idx]), raw[idx+3:]
	}
	return "", raw
}

func splitUserinfo(hostpart string) (userinfo, hostport string) {
	if idx := strings.IndexByte(hostpart, '@'); idx >= 0 {
		return hostpart[:idx], hostpart[idx+1:]
	}
	return "", hostpart
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// DefaultSOCKSPort is the conventional SOCKS proxy port, used when a
// socks:// proxy URL omits one.
const DefaultSOCKSPort = 1080
