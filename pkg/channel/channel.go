// Package channel implements the Channel state machine: one HTTP
// request/response exchange over a pooled or freshly-dialed connection,
// including proxy CONNECT tunneling, TLS setup, authentication retry,
// redirect following and transfer-coding body decoding.
//
// Grounded in Panda3D's HTTPChannel (panda/src/downloader/httpChannel.h,
// httpChannel.cxx): the State enum below is the same sixteen states
// (S_new through S_failure) the original declares, in the same order,
// and Run drives them in the same sequence. Where the original hand-
// rolls non-blocking socket I/O against raw BIOs so it can suspend and
// resume mid-syscall, this port instead uses Go's idiomatic deadline-
// driven net.Conn: NonBlocking mode sets a one-millisecond read/write
// deadline before every I/O call and turns the resulting timeout into
// RunPending, which is both less code and the way Go networking code
// ordinarily expresses "would block, try again."
package channel

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mallardduck/go-htclient/pkg/bodystream"
	"github.com/mallardduck/go-htclient/pkg/cookiejar"
	"github.com/mallardduck/go-htclient/pkg/docspec"
	"github.com/mallardduck/go-htclient/pkg/headers"
	"github.com/mallardduck/go-htclient/pkg/transport"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// State names one node of the Channel state machine, in the same order
// Panda3D's HTTPChannel::State enum declares them.
type State int

const (
	StateNew State = iota
	StateConnecting
	StateProxyReady
	StateProxyRequestSent
	StateProxyReadingHeader
	StateSetupSSL
	StateSSLHandshake
	StateReady
	StateRequestSent
	StateReadingHeader
	StateReadHeader
	StateBeginBody
	StateReadingBody
	StateReadBody
	StateReadTrailer
	StateFailure
)

func (s State) String() string {
	names := [...]string{
		"New", "Connecting", "ProxyReady", "ProxyRequestSent", "ProxyReadingHeader",
		"SetupSSL", "SSLHandshake", "Ready", "RequestSent", "ReadingHeader",
		"ReadHeader", "BeginBody", "ReadingBody", "ReadBody", "ReadTrailer", "Failure",
	}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// RunResult reports whether Run has more work to do.
type RunResult int

const (
	RunPending RunResult = iota
	RunTerminal
)

// Sentinel errors, matching the failure taxonomy a caller distinguishes
// via errors.Is.
var (
	ErrNoConnection         = errors.New("channel: could not open a connection")
	ErrTimeout              = errors.New("channel: operation would block")
	ErrLostConnection       = errors.New("channel: connection lost while reading the response")
	ErrNonHTTPResponse      = errors.New("channel: server did not speak HTTP")
	ErrInvalidHTTP          = errors.New("channel: malformed HTTP response")
	ErrTLS                  = errors.New("channel: TLS handshake or verification failed")
	ErrDownloadOpen         = errors.New("channel: could not open download destination")
	ErrDownloadWrite        = errors.New("channel: could not write to download destination")
	ErrDownloadInvalidRange = errors.New("channel: server returned an unusable byte range")
	ErrRedirectCycle        = errors.New("channel: redirect cycle detected")
)

// HTTPVersion clamps the request line's protocol version.
type HTTPVersion int

const (
	HTTP10 HTTPVersion = iota
	HTTP11
)

func (v HTTPVersion) String() string {
	if v == HTTP10 {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

// Credentials resolves a username:password for a given (server, realm)
// or proxy challenge; implemented by the owning Client.
type Credentials interface {
	Lookup(url urlvalue.Value, realm string, isProxy bool) (string, bool)
}

// ThrottleConfig enables a token-bucket download throttle, realized with
// golang.org/x/time/rate.Limiter: burst is bytes_per_update, and the
// refill rate is bytes_per_update/seconds_per_update per second, which
// reproduces the original's "copy at most N bytes every T seconds"
// contract without hand-rolling a ticker.
type ThrottleConfig struct {
	BytesPerUpdate   int
	SecondsPerUpdate float64
}

// Options configures a single Channel.
type Options struct {
	ProxyURL        string
	Transport       transport.Options
	NonBlocking     bool
	HTTPVersion     HTTPVersion
	PersistentConns bool
	Throttle        *ThrottleConfig
	Jar             *cookiejar.Jar
	Credentials     Credentials
	Log             *logrus.Entry
}

// Channel drives one logical request/response exchange. It is not safe
// for concurrent use: per §5 of the design, a channel is single-threaded
// cooperative, owned by one caller at a time.
type Channel struct {
	id  uuid.UUID
	log *logrus.Entry

	opts Options

	url    urlvalue.Value
	method string
	header map[string]string
	body   string

	firstByte, lastByte int64

	state     State
	doneState State

	readIndex int // generation counter; bumped each time a new request starts on this channel and on Close

	conn        net.Conn
	tlsConn     *tls.Conn
	br          *bufio.Reader
	connDirty   bool // true once bytes have been written/read on the current conn this request
	connectAddr string

	requestText      string
	sentSoFar        int
	proxyRequestText string
	proxyTunnel      bool

	httpVersionString string
	statusCode        int
	statusString      string
	realm             string
	redirectTo        urlvalue.Value
	visitedURLs       map[string]bool

	respHeaders   map[string]string
	lastHeaderKey string
	fileSize      int64
	downloaded    int64

	tried401        bool
	tried407        bool
	lastAuth        string
	lastProxyAuth   string
	headerPublished bool

	// retryPending/retryTarget stash the state an automatic 401/407/redirect
	// retry (runReadProxyHeader, runReadHeaderDone) is working toward while
	// the old challenge/redirect response body is drained through BeginBody/
	// ReadingBody/ReadTrailer first, so the retried request lands on a byte
	// stream that's actually at a response boundary.
	retryPending bool
	retryTarget  State

	bodyStream   io.Reader
	downloadDest io.Writer
	ramBuffer    *bytes.Buffer

	limiter     *rate.Limiter
	lastTick    time.Time

	err error
}

// New constructs a fresh Channel, not yet associated with any request.
func New(opts Options) *Channel {
	id := uuid.New()
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("channel_id", id.String())

	c := &Channel{
		id:          id,
		log:         log,
		opts:        opts,
		state:       StateNew,
		visitedURLs: map[string]bool{},
		header:      map[string]string{},
	}
	if opts.Throttle != nil {
		c.limiter = rate.NewLimiter(
			rate.Limit(float64(opts.Throttle.BytesPerUpdate)/opts.Throttle.SecondsPerUpdate),
			opts.Throttle.BytesPerUpdate,
		)
	}
	return c
}

// ID returns this channel's unique identifier.
func (c *Channel) ID() uuid.UUID { return c.id }

// State returns the channel's current state.
func (c *Channel) State() State { return c.state }

// Generation returns the current request's generation counter, which a
// body stream captures at Open time and compares before touching the
// channel's state.
func (c *Channel) Generation() uint64 { return uint64(c.readIndex) }

// AddFileSize implements bodystream.Owner.
func (c *Channel) AddFileSize(n int64) { c.fileSize += n }

// BodyComplete implements bodystream.Owner: it advances the channel from
// ReadingBody to ReadBody, as long as the generation still matches.
func (c *Channel) BodyComplete(generation uint64) {
	if generation != uint64(c.readIndex) {
		return
	}
	c.state = StateReadBody
}

// StatusCode returns the HTTP status code of the most recently read
// response, or a value <= 0 if the channel failed before a status line
// could be parsed.
func (c *Channel) StatusCode() int { return c.statusCode }

// Header returns the named response header's value. The lookup is
// case-insensitive: response header names are stored lowercased.
func (c *Channel) Header(name string) (string, bool) {
	v, ok := c.respHeaders[strings.ToLower(name)]
	return v, ok
}

// Redirect returns the Location header recorded during header reading.
func (c *Channel) Redirect() (urlvalue.Value, bool) {
	if c.redirectTo.IsEmpty() {
		return urlvalue.Value{}, false
	}
	return c.redirectTo, true
}

// IsDownloadComplete reports whether the body was fully consumed.
func (c *Channel) IsDownloadComplete() bool {
	return c.state == StateReady || c.state == StateProxyReady
}

// WasReadSuccessful reports whether the channel has not entered Failure.
// It is true while an exchange is still in progress as well as after it
// has ended in Ready.
func (c *Channel) WasReadSuccessful() bool {
	return c.state != StateFailure
}

// BytesDownloaded returns how many body bytes have been read so far.
func (c *Channel) BytesDownloaded() int64 { return c.downloaded }

// Err returns the error that moved the channel to StateFailure, if any.
func (c *Channel) Err() error { return c.err }

// Close drops the channel's transport, if any. Per spec.md §5's
// cancellation contract, a live body stream becomes inert on its next
// operation (its generation no longer matches) rather than erroring.
func (c *Channel) Close() error {
	c.readIndex++
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.tlsConn = nil
	c.br = nil
	c.connDirty = false
	return err
}

// BodyReader returns the decoded body reader once the channel has
// reached ReadHeader and the caller wants to stream it manually, instead
// of having Run() drive ReadingBody to completion on its own.
func (c *Channel) BodyReader() io.Reader { return c.bodyStream }

// SetDownloadDestination directs the bytes Run() drains from the body
// (when the caller lets Run() run ReadingBody to completion rather than
// pulling from BodyReader itself) to w instead of the channel's own RAM
// buffer. Call before starting a request; it applies to every request
// issued on this channel until changed.
func (c *Channel) SetDownloadDestination(w io.Writer) { c.downloadDest = w }

// Document returns the accumulated body bytes, for the common case where
// no explicit download destination was set and Run() drove the body into
// the channel's own RAM buffer.
func (c *Channel) Document() []byte {
	if c.ramBuffer == nil {
		return nil
	}
	return c.ramBuffer.Bytes()
}

func (c *Channel) activeWriter() io.Writer {
	if c.retryPending {
		// Draining a superseded challenge/redirect response body: discard
		// it, it was never the caller's document.
		return io.Discard
	}
	if c.downloadDest != nil {
		return c.downloadDest
	}
	return c.ramBuffer
}

// GetDocument begins a GET request for spec's URL, optionally
// conditional on spec's ETag/Date. first/last (both zero meaning "whole
// document") request a byte range, per get_subdocument.
func (c *Channel) GetDocument(spec docspec.Spec, first, last int64) {
	c.beginRequest("GET", spec, first, last)
}

// GetSubdocument requests bytes [first, last] of url (last == 0 means
// "to the end"), the mechanism resumable downloads use.
func (c *Channel) GetSubdocument(url urlvalue.Value, first, last int64) {
	c.beginRequest("GET", docspec.New(url), first, last)
}

// HeadDocument begins a HEAD request.
func (c *Channel) HeadDocument(spec docspec.Spec) {
	c.beginRequest("HEAD", spec, 0, 0)
}

// PostForm begins a POST request with an
// application/x-www-form-urlencoded body.
func (c *Channel) PostForm(spec docspec.Spec, body string) {
	c.body = body
	c.beginRequest("POST", spec, 0, 0)
}

func (c *Channel) beginRequest(method string, spec docspec.Spec, first, last int64) {
	c.readIndex++
	c.url = spec.URL
	c.method = method
	c.firstByte, c.lastByte = first, last
	c.statusCode = 0
	c.statusString = ""
	c.respHeaders = map[string]string{}
	c.fileSize = 0
	c.downloaded = 0
	c.tried401, c.tried407 = false, false
	c.redirectTo = urlvalue.Value{}
	c.bodyStream = nil
	c.headerPublished = false
	c.retryPending = false
	c.err = nil
	c.doneState = StateNew
	c.ramBuffer = &bytes.Buffer{}
	c.visitedURLs = map[string]bool{c.url.String(): true}

	if spec.HasTag() {
		c.header[headers.IfNoneMatch] = spec.Tag.String()
	} else {
		delete(c.header, headers.IfNoneMatch)
	}
	if spec.HasDate() {
		c.header[headers.IfModifiedSince] = spec.Date.String()
	} else {
		delete(c.header, headers.IfModifiedSince)
	}

	if c.connDirty || c.conn == nil {
		c.state = StateNew
	} else {
		// A pooled, idle connection: skip straight to composing the
		// request text against the existing transport.
		c.state = StateReady
	}

	c.buildRequestText()
	c.log.WithFields(logrus.Fields{"method": method, "url": c.url.String()}).Debug("starting request")
}

// buildRequestText composes the request-line plus headers, per the
// rules in the design's request-text construction section: absolute-form
// when talking HTTP-proxy, origin-form otherwise; Host always present
// for HTTP/1.1; Connection: close when persistent connections are off;
// Range when a byte range was requested; Content-Type/Content-Length
// when there's a body; Proxy-Authorization/Authorization as remembered.
func (c *Channel) buildRequestText() {
	var b strings.Builder

	path := c.url.PathAndQuery()
	if path == "" {
		path = "/"
	}

	usingHTTPProxy := c.opts.ProxyURL != "" && !c.isSOCKSProxy() && !c.url.IsSSL()
	requestURI := path
	if usingHTTPProxy {
		requestURI = c.url.String()
	}

	fmt.Fprintf(&b, "%s %s %s\r\n", c.method, requestURI, c.opts.HTTPVersion)

	if c.opts.HTTPVersion == HTTP11 {
		fmt.Fprintf(&b, "%s: %s\r\n", headers.Host, c.url.ServerAndPort())
	}
	if !c.opts.PersistentConns {
		fmt.Fprintf(&b, "%s: close\r\n", headers.Connection)
	}
	if c.lastByte > 0 {
		fmt.Fprintf(&b, "%s: bytes=%d-%d\r\n", headers.Range, c.firstByte, c.lastByte)
	} else if c.firstByte > 0 {
		fmt.Fprintf(&b, "%s: bytes=%d-\r\n", headers.Range, c.firstByte)
	}
	if c.body != "" {
		fmt.Fprintf(&b, "%s: application/x-www-form-urlencoded\r\n", headers.ContentType)
		fmt.Fprintf(&b, "%s: %d\r\n", headers.ContentLength, len(c.body))
	}
	if c.opts.Jar != nil {
		if cookieHeader := c.opts.Jar.WriteHeader(c.url); cookieHeader != "" {
			fmt.Fprintf(&b, "%s: %s\r\n", headers.Cookie, cookieHeader)
		}
	}
	if usingHTTPProxy && c.lastProxyAuth != "" {
		fmt.Fprintf(&b, "%s: %s\r\n", headers.ProxyAuthorization, c.lastProxyAuth)
	}
	if c.lastAuth != "" {
		fmt.Fprintf(&b, "%s: %s\r\n", headers.Authorization, c.lastAuth)
	}
	for k, v := range c.header {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	b.WriteString("\r\n")
	b.WriteString(c.body)

	c.requestText = b.String()
	c.sentSoFar = 0
}

func (c *Channel) isSOCKSProxy() bool {
	return strings.HasPrefix(c.opts.ProxyURL, "socks://") || strings.HasPrefix(c.opts.ProxyURL, "socks5://")
}

// deadline applies the channel's non-blocking policy to conn: no
// deadline in blocking mode, or one millisecond from now in non-blocking
// mode so any I/O that can't complete almost at once returns a timeout
// error Run translates into RunPending. (A deadline of exactly "now"
// would fail every call before it could transfer anything.)
func (c *Channel) deadline(conn net.Conn) {
	if c.opts.NonBlocking {
		conn.SetDeadline(time.Now().Add(time.Millisecond))
	} else {
		conn.SetDeadline(time.Time{})
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// Run advances the state machine as far as it can without blocking
// (in non-blocking mode) and reports whether more calls are needed.
func (c *Channel) Run() (RunResult, error) {
	for {
		if c.limiter != nil && (c.state == StateReadingBody) {
			if !c.limiter.AllowN(time.Now(), 0) {
				return RunPending, nil
			}
		}

		switch c.state {
		case StateNew:
			c.runNew()
		case StateConnecting:
			if done := c.runConnecting(); !done {
				return RunPending, nil
			}
		case StateProxyReady:
			c.runProxyReady()
		case StateProxyRequestSent:
			if done := c.runSendProxyRequest(); !done {
				return RunPending, nil
			}
		case StateProxyReadingHeader:
			if done := c.runReadProxyHeader(); !done {
				return RunPending, nil
			}
		case StateSetupSSL:
			c.state = StateSSLHandshake
		case StateSSLHandshake:
			if done := c.runSSLHandshake(); !done {
				return RunPending, nil
			}
		case StateReady:
			c.state = StateRequestSent
		case StateRequestSent:
			if done := c.runSendRequest(); !done {
				return RunPending, nil
			}
		case StateReadingHeader:
			if done := c.runReadHeaderLines(); !done {
				return RunPending, nil
			}
		case StateReadHeader:
			if !c.headerPublished {
				if cont := c.runReadHeaderDone(); cont {
					// state moved on to a retry/redirect/auth attempt
					continue
				}
				if c.state == StateFailure {
					return RunTerminal, c.err
				}
				// published; caller inspects headers on this return, and
				// the next Run() call drains the body without re-running
				// the automatic 401/407/redirect checks a second time.
				c.headerPublished = true
				return RunPending, nil
			}
			c.state = StateBeginBody
		case StateBeginBody:
			c.runBeginBody()
		case StateReadingBody:
			if done := c.runDrainBody(); !done {
				return RunPending, nil
			}
		case StateReadBody:
			c.state = StateReadTrailer
		case StateReadTrailer:
			c.runReadTrailer()
		case StateFailure:
			return RunTerminal, c.err
		}

		if c.state == StateReady && c.doneState == StateReady {
			return RunTerminal, nil
		}
	}
}

func (c *Channel) fail(sentinel error, detail string) {
	if detail != "" {
		c.err = errors.Wrap(sentinel, detail)
	} else {
		c.err = sentinel
	}
	c.statusCode = 0
	c.state = StateFailure
	c.log.WithError(c.err).Warn("channel failed")
}

func (c *Channel) runNew() {
	addr := c.connectTarget()
	c.log.WithField("addr", addr).Debug("connecting")
	c.connectAddr = addr
	c.state = StateConnecting
}
