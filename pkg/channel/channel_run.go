package channel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mallardduck/go-htclient/pkg/bodystream"
	"github.com/mallardduck/go-htclient/pkg/headers"
	"github.com/mallardduck/go-htclient/pkg/httpauth"
	"github.com/mallardduck/go-htclient/pkg/transport"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// connectTarget returns the address this channel must dial: the proxy,
// if one is configured and this isn't a SOCKS proxy (which transport
// handles by rewriting the dial itself), or the request URL's own host.
func (c *Channel) connectTarget() string {
	if c.opts.ProxyURL != "" && !c.isSOCKSProxy() {
		proxyURL := stripScheme(c.opts.ProxyURL)
		return proxyURL
	}
	return c.url.ServerAndPort()
}

func stripScheme(raw string) string {
	if idx := strings.Index(raw, "://"); idx >= 0 {
		return raw[idx+3:]
	}
	return raw
}

// runConnecting dials a plain TCP connection (through the SOCKS proxy when
// one is configured). TLS is not started here: an https target moves on
// to StateSetupSSL, or first to StateProxyReady for a CONNECT tunnel when
// an HTTP proxy is in use.
// Returns false if the dial is still pending (non-blocking mode only
// simulates this; a real dial is synchronous, so this always completes
// or fails in one call, matching Go's net.Dialer behavior).
func (c *Channel) runConnecting() bool {
	// Belt and suspenders: every path that reaches StateNew is supposed to
	// have already closed a prior connection of its own (redirect handling
	// does, via runBeginBody/runReadTrailer), but a fresh dial must never
	// silently leak whatever c.conn still points at.
	c.closeConn()

	topts := c.opts.Transport
	topts.ProxyURL = c.opts.ProxyURL
	if topts.Log == nil {
		topts.Log = c.log
	}

	conn, err := transport.Dial(c.connectAddr, topts)
	if err != nil {
		c.fail(ErrNoConnection, err.Error())
		return true
	}
	c.conn = conn
	c.connDirty = false
	c.resetReader()

	switch {
	case c.opts.ProxyURL != "" && !c.isSOCKSProxy():
		c.proxyTunnel = c.url.IsSSL()
		c.state = StateProxyReady
	case c.url.IsSSL():
		c.state = StateSetupSSL
	default:
		c.state = StateReady
	}
	return true
}

func (c *Channel) resetReader() {
	c.br = newBufReader(c.conn)
}

// runProxyReady issues the CONNECT request when tunneling HTTPS through
// an HTTP proxy; otherwise it proceeds straight to Ready, where the
// original (plain-HTTP-over-proxy) request text will be sent instead.
func (c *Channel) runProxyReady() {
	if !c.proxyTunnel {
		c.state = StateReady
		return
	}

	target := c.url.ServerAndPort()
	var b strings.Builder
	fmt.Fprintf(&b, "CONNECT %s %s\r\n", target, c.opts.HTTPVersion)
	fmt.Fprintf(&b, "Host: %s\r\n", target)
	if c.lastProxyAuth != "" {
		fmt.Fprintf(&b, "Proxy-Authorization: %s\r\n", c.lastProxyAuth)
	}
	b.WriteString("\r\n")
	c.proxyRequestText = b.String()
	c.sentSoFar = 0
	c.state = StateProxyRequestSent
}

func (c *Channel) runSendProxyRequest() bool {
	c.deadline(c.conn)
	n, err := io.WriteString(c.conn, c.proxyRequestText[c.sentSoFar:])
	c.sentSoFar += n
	if err != nil {
		if isTimeout(err) {
			return false
		}
		c.fail(ErrLostConnection, "writing CONNECT request: "+err.Error())
		return true
	}
	if c.sentSoFar < len(c.proxyRequestText) {
		return false
	}
	c.state = StateProxyReadingHeader
	return true
}

func (c *Channel) runReadProxyHeader() bool {
	c.deadline(c.conn)
	statusLine, err := c.br.ReadString('\n')
	if err != nil {
		if isTimeout(err) {
			return false
		}
		c.fail(ErrLostConnection, "reading CONNECT response: "+err.Error())
		return true
	}
	code, _, ok := parseStatusLine(statusLine)
	if !ok {
		c.fail(ErrInvalidHTTP, "unparseable CONNECT status line: "+statusLine)
		return true
	}

	connectHeaders := map[string]string{}
	for {
		line, err := c.br.ReadString('\n')
		if err != nil {
			c.fail(ErrLostConnection, "reading CONNECT headers: "+err.Error())
			return true
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if colon := strings.IndexByte(trimmed, ':'); colon >= 0 {
			key := strings.ToLower(strings.TrimSpace(trimmed[:colon]))
			connectHeaders[key] = strings.TrimSpace(trimmed[colon+1:])
		}
	}

	if code == 407 && !c.tried407 {
		c.tried407 = true
		if auth, ok := c.authFromChallengeValue(connectHeaders[strings.ToLower(headers.ProxyAuthenticate)], true); ok {
			c.lastProxyAuth = auth
			c.proxyTunnel = true
			// The CONNECT challenge may carry a body of its own; stage its
			// code/headers so BeginBody drains it on this same connection
			// before we re-issue CONNECT with Proxy-Authorization.
			c.statusCode = code
			c.respHeaders = connectHeaders
			c.retryPending = true
			c.retryTarget = StateProxyReady
			c.state = StateBeginBody
			return true
		}
		c.fail(ErrInvalidHTTP, "proxy requires authentication we could not satisfy")
		return true
	}
	if code < 200 || code >= 300 {
		c.fail(ErrInvalidHTTP, fmt.Sprintf("CONNECT failed with status %d", code))
		return true
	}

	c.state = StateSetupSSL
	return true
}

func (c *Channel) runSSLHandshake() bool {
	topts := c.opts.Transport
	if topts.Log == nil {
		topts.Log = c.log
	}
	addr := c.url.ServerAndPort()
	tc, err := transport.HandshakeTLS(c.conn, addr, topts)
	if err != nil {
		c.fail(ErrTLS, err.Error())
		return true
	}
	c.tlsConn = tc
	c.conn = tc
	c.resetReader()
	c.state = StateReady
	return true
}

func (c *Channel) runSendRequest() bool {
	c.deadline(c.conn)
	n, err := io.WriteString(c.conn, c.requestText[c.sentSoFar:])
	c.sentSoFar += n
	c.connDirty = true
	if err != nil {
		if isTimeout(err) {
			return false
		}
		c.fail(ErrLostConnection, "writing request: "+err.Error())
		return true
	}
	if c.sentSoFar < len(c.requestText) {
		return false
	}
	c.state = StateReadingHeader
	return true
}

func (c *Channel) runReadHeaderLines() bool {
	c.deadline(c.conn)
	statusLine, err := c.br.ReadString('\n')
	if err != nil {
		if isTimeout(err) {
			return false
		}
		c.fail(ErrNonHTTPResponse, "reading status line: "+err.Error())
		return true
	}
	code, reason, ok := parseStatusLine(statusLine)
	if !ok {
		c.fail(ErrInvalidHTTP, "unparseable status line: "+statusLine)
		return true
	}
	c.statusCode = code
	c.statusString = reason
	c.httpVersionString = firstField(statusLine)

	for {
		line, err := c.br.ReadString('\n')
		if err != nil {
			c.fail(ErrLostConnection, "reading headers: "+err.Error())
			return true
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && c.lastHeaderKey != "" {
			c.respHeaders[c.lastHeaderKey] += " " + strings.TrimSpace(trimmed)
			continue
		}
		colon := strings.IndexByte(trimmed, ':')
		if colon < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(trimmed[:colon]))
		value := strings.TrimSpace(trimmed[colon+1:])
		c.respHeaders[key] = value
		c.lastHeaderKey = key

		if key == "location" {
			c.redirectTo = c.resolveRedirect(value)
		}
	}

	if c.statusCode == 206 {
		c.parseContentRange()
	}

	c.state = StateReadHeader
	return true
}

// runReadHeaderDone implements the automatic behaviors gating the
// ReadHeader publish point: proxy auth retry, origin auth retry, and
// redirect following. It returns false once the state has actually
// settled into a publishable ReadHeader or Failure.
func (c *Channel) runReadHeaderDone() bool {
	if c.statusCode == 407 && !c.tried407 {
		c.tried407 = true
		if auth, ok := c.authFromChallenge(headers.ProxyAuthenticate, true); ok {
			c.lastProxyAuth = auth
			c.buildRequestText()
			c.retryPending = true
			c.retryTarget = StateRequestSent
			c.state = StateBeginBody
			return true
		}
	}
	if c.statusCode == 401 && !c.tried401 {
		c.tried401 = true
		if auth, ok := c.authFromChallenge(headers.WWWAuthenticate, false); ok {
			c.lastAuth = auth
			c.buildRequestText()
			c.retryPending = true
			c.retryTarget = StateRequestSent
			c.state = StateBeginBody
			return true
		}
	}
	if isRedirectStatus(c.statusCode) && (c.method == "GET" || c.method == "HEAD") {
		if target, ok := c.Redirect(); ok {
			key := target.String()
			if !c.visitedURLs[key] {
				c.visitedURLs[key] = true
				c.url = target
				c.buildRequestText()
				c.retryPending = true
				c.retryTarget = StateNew
				c.state = StateBeginBody
				return true
			}
			c.fail(ErrRedirectCycle, "")
			return false
		}
	}

	c.state = StateReadHeader
	return false
}

func (c *Channel) authFromChallenge(headerName string, isProxy bool) (string, bool) {
	raw, ok := c.Header(headerName)
	if !ok {
		return "", false
	}
	return c.authFromChallengeValue(raw, isProxy)
}

// authFromChallengeValue builds an Authorization/Proxy-Authorization
// header value from a raw WWW-Authenticate/Proxy-Authenticate field,
// resolving the credential to use through the Client's username table.
func (c *Channel) authFromChallengeValue(raw string, isProxy bool) (string, bool) {
	if raw == "" || c.opts.Credentials == nil {
		return "", false
	}
	schemes := httpauth.ParseAuthenticationSchemes(raw)
	gen, err := httpauth.Select(schemes, c.url, isProxy)
	if err != nil {
		return "", false
	}
	username, ok := c.opts.Credentials.Lookup(c.url, gen.Realm(), isProxy)
	if !ok {
		return "", false
	}
	c.realm = gen.Realm()
	return gen.Generate(httpauth.Method(c.method), c.url.PathAndQuery(), username, c.body), true
}

func isRedirectStatus(code int) bool {
	return code >= 300 && code < 400 && code != 305
}

func (c *Channel) resolveRedirect(location string) urlvalue.Value {
	target := urlvalue.New(location, true)
	if target.HasServer() {
		return target
	}
	resolved := c.url
	resolved.SetPath(location)
	return resolved
}

func (c *Channel) parseContentRange() {
	raw, ok := c.Header(headers.ContentRange)
	if !ok {
		return
	}
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "bytes ")
	slash := strings.IndexByte(raw, '/')
	if slash < 0 {
		return
	}
	rangePart, totalPart := raw[:slash], raw[slash+1:]
	dash := strings.IndexByte(rangePart, '-')
	if dash < 0 {
		return
	}
	first, err1 := strconv.ParseInt(rangePart[:dash], 10, 64)
	last, err2 := strconv.ParseInt(rangePart[dash+1:], 10, 64)
	if err1 != nil || err2 != nil {
		c.fail(ErrDownloadInvalidRange, raw)
		return
	}
	c.firstByte, c.lastByte = first, last
	if _, hasLen := c.Header(headers.ContentLength); !hasLen && totalPart != "*" {
		if total, err := strconv.ParseInt(totalPart, 10, 64); err == nil {
			c.fileSize = total
		}
	}
}

func (c *Channel) runBeginBody() {
	// A redirect retry always re-dials in runConnecting, so there's no
	// connection to preserve here; when this (old) response is also on
	// its way out anyway, skip decoding it entirely and free the
	// transport now instead of draining it byte-for-byte.
	if c.retryPending && c.retryTarget == StateNew {
		willClose := !c.opts.PersistentConns ||
			strings.EqualFold(c.respHeaders["connection"], "close") ||
			c.httpVersionString == "HTTP/1.0"
		if willClose {
			c.closeConn()
			c.retryPending = false
			c.state = StateNew
			return
		}
	}

	if c.statusCode < 200 && c.statusCode >= 100 || c.statusCode == 204 || c.statusCode == 304 || c.method == "HEAD" {
		if c.retryPending {
			target := c.retryTarget
			c.retryPending = false
			c.state = target
			return
		}
		c.state = StateReady
		c.doneState = StateReady
		return
	}

	if strings.EqualFold(c.respHeaders["transfer-encoding"], "chunked") {
		c.bodyStream = bodystream.NewChunked(c.br, c)
	} else if lenStr, ok := c.Header(headers.ContentLength); ok {
		n, err := strconv.ParseInt(lenStr, 10, 64)
		if err != nil {
			c.fail(ErrInvalidHTTP, "bad Content-Length: "+lenStr)
			return
		}
		c.bodyStream = bodystream.NewIdentityKnownLength(c.br, n, c)
	} else {
		c.bodyStream = bodystream.NewIdentityUnknownLength(c.br, c)
	}

	c.state = StateReadingBody
}

// runDrainBody reads one block of the body stream into activeWriter (the
// download destination, the RAM buffer, or io.Discard while draining a
// superseded retry response). Run calls it again until the decoder
// signals EOF (which, via bodystream.Owner, flips the state to ReadBody
// itself).
func (c *Channel) runDrainBody() bool {
	c.deadline(c.conn)
	buf := make([]byte, 32*1024)
	if c.limiter != nil {
		if burst := c.limiter.Burst(); burst > 0 && len(buf) > burst {
			buf = buf[:burst]
		}
	}
	n, err := c.bodyStream.Read(buf)
	if n > 0 {
		if _, werr := c.activeWriter().Write(buf[:n]); werr != nil {
			c.fail(ErrDownloadWrite, werr.Error())
			return true
		}
		if !c.retryPending {
			c.downloaded += int64(n)
		}
	}
	if c.limiter != nil && n > 0 {
		c.limiter.ReserveN(time.Now(), n)
	}
	if err != nil {
		if err == io.EOF {
			if c.state == StateReadingBody {
				// Decoder reached EOF without calling BodyComplete
				// (length-unknown identity close); force the transition.
				c.state = StateReadBody
			}
			return true
		}
		if isTimeout(err) {
			return false
		}
		c.fail(ErrLostConnection, "reading body: "+err.Error())
		return true
	}
	return true
}

func (c *Channel) runReadTrailer() {
	if strings.EqualFold(c.respHeaders["transfer-encoding"], "chunked") {
		for {
			line, err := c.br.ReadString('\n')
			if err != nil || strings.TrimRight(line, "\r\n") == "" {
				break
			}
		}
	}

	persistAllowed := c.opts.PersistentConns &&
		!strings.EqualFold(c.respHeaders["connection"], "close") &&
		c.httpVersionString != "HTTP/1.0"
	if id, ok := c.bodyStream.(*bodystream.Identity); ok && id.ConnectionMustClose() {
		persistAllowed = false
	}

	if c.retryPending {
		target := c.retryTarget
		c.retryPending = false
		if target == StateNew || !persistAllowed {
			c.closeConn()
			target = StateNew
		}
		c.connDirty = false
		c.state = target
		return
	}

	if !persistAllowed {
		c.closeConn()
	}
	c.connDirty = false

	if c.opts.ProxyURL != "" && !c.isSOCKSProxy() && !c.proxyTunnel && persistAllowed {
		c.state = StateProxyReady
	} else {
		c.state = StateReady
	}
	c.doneState = StateReady
}

func (c *Channel) closeConn() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.tlsConn = nil
	c.br = nil
}

