// Package htclient implements the Client: the per-context owner of a
// trust store, cookie jar, username table and pool of channels that
// spec.md §4.11 describes.
//
// Grounded in Panda3D's HTTPClient (panda/src/downloader/httpClient.h,
// httpClient.cxx, httpClient_emscripten.cxx): set_username/get_username
// and select_username's five-step lookup order are ported verbatim from
// httpClient_emscripten.cxx (the fuller httpClient.cxx elides the body in
// the pack's filtered source, but declares the identical signature);
// load_certificates, add_proxy/get_proxies_for_url, and the preapproved-
// server-certificate list map onto LoadCertificates, the per-scheme
// proxy table, and ExpectedServers below.
package htclient

import (
	"crypto/x509"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mallardduck/go-htclient/pkg/channel"
	"github.com/mallardduck/go-htclient/pkg/cookiejar"
	"github.com/mallardduck/go-htclient/pkg/docspec"
	"github.com/mallardduck/go-htclient/pkg/transport"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// proxyServerLiteral is the special "server" key set_username/get_username
// accept to mean "any proxy", per httpClient_emscripten.cxx's set_username
// doc comment.
const proxyServerLiteral = "*proxy"

// Options configures a new Client. Every field is optional; the zero
// value is a client with no proxy, no trust bundle beyond the system
// roots, normal TLS verification, and HTTP/1.1.
type Options struct {
	VerifySSL       transport.VerifyMode
	HTTPVersion     channel.HTTPVersion
	CipherSuites    []string
	ExpectedServers []transport.ExpectedServer
	Throttle        *channel.ThrottleConfig
	PersistentConns bool
	NonBlocking     bool
	Log             *logrus.Entry
}

// Client is the per-context owner described in spec.md §4.11: a trust
// store, a cookie jar, a username table, a set of expected-server
// patterns, and a pool of idle channels keyed by (scheme, host, port,
// proxy). It is safe for concurrent use; the pool and tables are
// internally synchronized, matching the "shared resources" contract of
// spec.md §5.
type Client struct {
	mu sync.Mutex

	log *logrus.Entry

	verifySSL       transport.VerifyMode
	httpVersion     channel.HTTPVersion
	cipherSuites    []string
	persistentConns bool
	nonBlocking     bool
	throttle        *channel.ThrottleConfig

	trustStore      *x509.CertPool
	expectedServers []transport.ExpectedServer

	proxiesByScheme map[string]string // "" is the default/catch-all proxy

	usernames map[string]string // "server:realm" -> "username:password"

	jar *cookiejar.Jar

	pool map[string][]*channel.Channel
}

// NewClient constructs a Client with no proxy and no extra trust bundle
// beyond whatever LoadCertificates adds later.
func NewClient(opts Options) *Client {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		log:             log,
		verifySSL:       opts.VerifySSL,
		httpVersion:     opts.HTTPVersion,
		cipherSuites:    opts.CipherSuites,
		persistentConns: opts.PersistentConns,
		nonBlocking:     opts.NonBlocking,
		throttle:        opts.Throttle,
		expectedServers: append([]transport.ExpectedServer(nil), opts.ExpectedServers...),
		proxiesByScheme: map[string]string{},
		usernames:       map[string]string{},
		jar:             cookiejar.NewJar(),
		pool:            map[string][]*channel.Channel{},
	}
}

// LoadCertificates reads one or more PEM bundles from disk and adds their
// certificates to this client's trust store, grounded in
// HTTPClient::load_certificates. Every path is attempted even if an
// earlier one fails, and every failure is reported via
// github.com/hashicorp/go-multierror rather than stopping at the first.
func (c *Client) LoadCertificates(paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trustStore == nil {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		c.trustStore = pool
	}

	var result *multierror.Error
	for _, path := range paths {
		pem, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "htclient: reading trust bundle %s", path))
			continue
		}
		if !c.trustStore.AppendCertsFromPEM(pem) {
			result = multierror.Append(result, errors.Errorf("htclient: no certificates found in %s", path))
		}
	}
	return result.ErrorOrNil()
}

// LoadCertificatesPEM adds the certificates in a PEM blob already held in
// memory, for callers that don't want LoadCertificates's disk I/O.
func (c *Client) LoadCertificatesPEM(pem []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trustStore == nil {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		c.trustStore = pool
	}
	if !c.trustStore.AppendCertsFromPEM(pem) {
		return errors.New("htclient: no certificates found in PEM blob")
	}
	return nil
}

// AddExpectedServer pins an acceptable TLS peer-certificate subject
// pattern, per add_preapproved_server_certificate_name.
func (c *Client) AddExpectedServer(pattern transport.ExpectedServer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expectedServers = append(c.expectedServers, pattern)
}

// AddProxy registers the proxy URL used for the given scheme ("http",
// "https", "socks5", or "" for the default used when no scheme-specific
// entry matches), per HTTPClient::add_proxy.
func (c *Client) AddProxy(scheme, proxyURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proxiesByScheme[scheme] = proxyURL
}

// ClearProxy removes every configured proxy, per HTTPClient::clear_proxy.
func (c *Client) ClearProxy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proxiesByScheme = map[string]string{}
}

func (c *Client) proxyForURL(url urlvalue.Value) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.proxiesByScheme[url.Scheme()]; ok {
		return p
	}
	return c.proxiesByScheme[""]
}

// SetUsername stores the username:password string to offer for the given
// server/realm pair, per HTTPClient::set_username. Either may be empty to
// match anything; server may be proxyServerLiteral ("*proxy") to match
// any proxy. An empty username clears the entry.
func (c *Client) SetUsername(server, realm, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := server + ":" + realm
	if username == "" {
		delete(c.usernames, key)
		return
	}
	c.usernames[key] = username
}

// GetUsername returns the username:password string set for the given
// server/realm pair, or "" if nothing was set, per HTTPClient::get_username.
func (c *Client) GetUsername(server, realm string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usernames[server+":"+realm]
}

// AddHTTPUsername parses a "[server:][realm:]user:pass" string, per
// HTTPClient::add_http_username, and stores it via SetUsername. A bare
// "user:pass" sets the general (any server, any realm) credential; with a
// realm prefix, (any server, realm); with server and realm prefixes,
// (server, realm). A string with no colon is an error.
func (c *Client) AddHTTPUsername(spec string) error {
	parts := strings.Split(spec, ":")
	switch len(parts) {
	case 1:
		return errors.Errorf("htclient: invalid http-username %q", spec)
	case 2:
		c.SetUsername("", "", spec)
	case 3:
		c.SetUsername("", parts[0], parts[1]+":"+parts[2])
	case 4:
		c.SetUsername(parts[0], parts[1], parts[2]+":"+parts[3])
	default:
		return errors.Errorf("htclient: invalid http-username %q", spec)
	}
	return nil
}

// Lookup implements channel.Credentials: it resolves a username:password
// for url/realm following the five-step order of spec.md §4.11,
// grounded in HTTPClient::select_username. An origin URL's own
// credential (step 1) is never used for a proxy challenge.
func (c *Client) Lookup(url urlvalue.Value, realm string, isProxy bool) (string, bool) {
	if !isProxy && url.HasUsername() {
		return url.Username(), true
	}

	server := url.Server()
	if isProxy {
		server = proxyServerLiteral
	}

	if u := c.GetUsername(server, realm); u != "" {
		return u, true
	}
	if u := c.GetUsername(server, ""); u != "" {
		return u, true
	}
	if u := c.GetUsername("", realm); u != "" {
		return u, true
	}
	if u := c.GetUsername("", ""); u != "" {
		return u, true
	}
	return "", false
}

// Jar returns the client's cookie jar.
func (c *Client) Jar() *cookiejar.Jar { return c.jar }

// SetCookie stores cookie as if received from a server, per
// HTTPClient::set_cookie.
func (c *Client) SetCookie(cookie cookiejar.Cookie) { c.jar.Set(cookie) }

// ClearCookie removes a cookie matching (domain, path, name), per
// HTTPClient::clear_cookie.
func (c *Client) ClearCookie(cookie cookiejar.Cookie) bool { return c.jar.Clear(cookie) }

// ClearAllCookies empties the jar, per HTTPClient::clear_all_cookies.
func (c *Client) ClearAllCookies() { c.jar.ClearAll() }

// HasCookie reports whether a cookie matching (domain, path, name) is
// stored, per HTTPClient::has_cookie.
func (c *Client) HasCookie(cookie cookiejar.Cookie) bool { return c.jar.Has(cookie) }

// GetCookie returns the stored cookie matching (domain, path, name), per
// HTTPClient::get_cookie.
func (c *Client) GetCookie(cookie cookiejar.Cookie) (cookiejar.Cookie, bool) {
	return c.jar.Get(cookie)
}

// CopyCookiesFrom merges every cookie from other's jar into this
// client's, per HTTPClient::copy_cookies_from.
func (c *Client) CopyCookiesFrom(other *Client) { c.jar.CopyFrom(other.jar) }

func (c *Client) poolKey(url urlvalue.Value, proxyURL string) string {
	return url.Scheme() + "|" + url.ServerAndPort() + "|" + proxyURL
}

// acquireChannel pops a reusable idle channel for this (scheme, host,
// port, proxy) from the pool, or builds a fresh one, per
// HTTPClient::make_channel.
func (c *Client) acquireChannel(url urlvalue.Value) *channel.Channel {
	proxyURL := c.proxyForURL(url)
	key := c.poolKey(url, proxyURL)

	c.mu.Lock()
	idle := c.pool[key]
	var ch *channel.Channel
	if len(idle) > 0 {
		ch = idle[len(idle)-1]
		c.pool[key] = idle[:len(idle)-1]
	}
	topts := transport.Options{
		VerifyMode:      c.verifySSL,
		ExpectedServers: c.expectedServers,
		RootCAs:         c.trustStore,
		CipherSuites:    c.cipherSuites,
		Log:             c.log,
	}
	c.mu.Unlock()

	if ch != nil {
		return ch
	}
	return channel.New(channel.Options{
		ProxyURL:        proxyURL,
		Transport:       topts,
		NonBlocking:     c.nonBlocking,
		HTTPVersion:     c.httpVersion,
		PersistentConns: c.persistentConns,
		Throttle:        c.throttle,
		Jar:             c.jar,
		Credentials:     c,
		Log:             c.log,
	})
}

// releaseChannel returns ch to the idle pool if it is in a reusable
// state — header fully consumed, body fully drained, the server did not
// say Connection: close, and persistent connections are enabled — per
// spec.md §4.11's reclaim rule. Otherwise it is simply dropped (and, per
// spec.md §5, its transport closes on drop).
func (c *Client) releaseChannel(ch *channel.Channel, reqURL urlvalue.Value) {
	if !c.persistentConns || !ch.WasReadSuccessful() || !ch.IsDownloadComplete() {
		return
	}
	if conn, ok := ch.Header("connection"); ok && strings.EqualFold(strings.TrimSpace(conn), "close") {
		return
	}
	proxyURL := c.proxyForURL(reqURL)
	key := c.poolKey(reqURL, proxyURL)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool[key] = append(c.pool[key], ch)
}

// run drives ch to a terminal Run() result, blocking the caller (the
// channel's own NonBlocking option governs whether individual Run() calls
// busy-poll or block on I/O; run() here just loops until RunTerminal).
func run(ch *channel.Channel) error {
	for {
		res, err := ch.Run()
		if res == channel.RunTerminal {
			return err
		}
	}
}

// GetDocument issues a GET for spec's URL (conditional on its ETag/Date,
// if set) and blocks until the exchange completes, per
// HTTPClient::get_document. dest, if non-nil, receives the drained body
// directly (e.g. an open file); otherwise the returned Channel buffers it
// in memory for Channel.Document.
func (c *Client) GetDocument(spec docspec.Spec, dest io.Writer) (*channel.Channel, error) {
	ch := c.acquireChannel(spec.URL)
	if dest != nil {
		ch.SetDownloadDestination(dest)
	}
	ch.GetDocument(spec, 0, 0)
	err := run(ch)
	c.releaseChannel(ch, spec.URL)
	return ch, err
}

// GetSubdocument issues a GET with a Range header for bytes [first, last]
// of url (last == 0 meaning "to the end"), the mechanism resumable
// downloads use (spec.md §4.10's get_subdocument).
func (c *Client) GetSubdocument(url urlvalue.Value, first, last int64, dest io.Writer) (*channel.Channel, error) {
	ch := c.acquireChannel(url)
	if dest != nil {
		ch.SetDownloadDestination(dest)
	}
	ch.GetSubdocument(url, first, last)
	err := run(ch)
	c.releaseChannel(ch, url)
	return ch, err
}

// HeadDocument issues a HEAD request, per HTTPClient::get_header.
func (c *Client) HeadDocument(spec docspec.Spec) (*channel.Channel, error) {
	ch := c.acquireChannel(spec.URL)
	ch.HeadDocument(spec)
	err := run(ch)
	c.releaseChannel(ch, spec.URL)
	return ch, err
}

// PostForm issues a POST with an application/x-www-form-urlencoded body,
// per HTTPClient::post_form.
func (c *Client) PostForm(spec docspec.Spec, body string, dest io.Writer) (*channel.Channel, error) {
	ch := c.acquireChannel(spec.URL)
	if dest != nil {
		ch.SetDownloadDestination(dest)
	}
	ch.PostForm(spec, body)
	err := run(ch)
	c.releaseChannel(ch, spec.URL)
	return ch, err
}

// Close drops every pooled idle channel. Channels currently in flight
// (held by a caller, not in the pool) are unaffected; dropping them is
// the caller's responsibility, per spec.md §5's cancellation contract.
func (c *Client) Close() error {
	c.mu.Lock()
	pool := c.pool
	c.pool = map[string][]*channel.Channel{}
	c.mu.Unlock()

	var result *multierror.Error
	for _, idle := range pool {
		for _, ch := range idle {
			if err := ch.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
