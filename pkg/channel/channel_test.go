package channel

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/mallardduck/go-htclient/pkg/docspec"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// serveOnce accepts a single connection on a loopback listener and hands
// that connection to handler, which reads the request off it and writes
// back whatever response it likes. It returns the listener's address.
func serveOnce(t *testing.T, handler func(t *testing.T, conn net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		defer ln.Close()
		handler(t, conn)
	}()
	return ln.Addr().String()
}

// runUntilTerminal drives Run() to completion. A single checkpoint pause
// at ReadHeader (so the caller can inspect the response before the body
// drains) returns RunPending even on a blocking channel, so this always
// loops rather than trusting one call to reach a terminal result.
func runUntilTerminal(t *testing.T, c *Channel) (RunResult, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		res, err := c.Run()
		if res == RunTerminal {
			return res, err
		}
		if time.Now().After(deadline) {
			t.Fatalf("channel did not reach a terminal state in time (stuck in %s)", c.State())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGetDocumentRoundTrip(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		line, _ := br.ReadString('\n')
		if line == "" {
			t.Error("expected a request line")
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		body := "hello world"
		fmt.Fprintf(conn, "HTTP/1.1 200 OK\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s", len(body), body)
	})

	url := urlvalue.New("http://"+addr+"/doc.txt", true)
	c := New(Options{HTTPVersion: HTTP11})
	c.GetDocument(docspec.New(url), 0, 0)

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() = %v, %v", res, err)
	}
	if c.StatusCode() != 200 {
		t.Fatalf("status = %d", c.StatusCode())
	}
	if got := string(c.Document()); got != "hello world" {
		t.Fatalf("document = %q", got)
	}
	if !c.WasReadSuccessful() || !c.IsDownloadComplete() {
		t.Fatalf("expected a successful, complete download")
	}
	if n := c.BytesDownloaded(); n != int64(len("hello world")) {
		t.Fatalf("BytesDownloaded() = %d", n)
	}
}

func TestGetSubdocumentSendsRangeHeader(t *testing.T) {
	var sawRange string
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
			if len(l) > 6 && l[:6] == "Range:" {
				sawRange = l
			}
		}
		body := "orld"
		fmt.Fprintf(conn, "HTTP/1.1 206 Partial Content\r\nContent-Length: %d\r\nContent-Range: bytes 7-10/11\r\nConnection: close\r\n\r\n%s", len(body), body)
	})

	url := urlvalue.New("http://"+addr+"/doc.txt", true)
	c := New(Options{HTTPVersion: HTTP11})
	c.GetSubdocument(url, 7, 10)

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() = %v, %v", res, err)
	}
	if sawRange == "" {
		t.Fatal("expected a Range header on the resumed request")
	}
	if c.StatusCode() != 206 {
		t.Fatalf("status = %d", c.StatusCode())
	}
	if got := string(c.Document()); got != "orld" {
		t.Fatalf("document = %q", got)
	}
}

func TestProxyCONNECTTunnel(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		line, _ := br.ReadString('\n')
		if len(line) < 7 || line[:7] != "CONNECT" {
			t.Fatalf("expected a CONNECT request, got %q", line)
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		// Respond 200 to the CONNECT; the subsequent TLS handshake
		// is out of scope here, so the test only verifies the tunnel
		// request/response plumbing up to StateSetupSSL.
		fmt.Fprint(conn, "HTTP/1.1 200 Connection Established\r\n\r\n")
	})

	url := urlvalue.New("https://example.invalid/secure", true)
	c := New(Options{
		HTTPVersion: HTTP11,
		ProxyURL:    "http://" + addr,
	})
	c.GetDocument(docspec.New(url), 0, 0)

	// The fake proxy above only understands the CONNECT exchange; once
	// it answers 200 the channel moves on to a real TLS handshake
	// against "example.invalid", which cannot succeed. Reaching that
	// failure (rather than a CONNECT/proxy-auth failure) is exactly what
	// proves the tunnel request/response round-trip itself worked.
	res, err := runUntilTerminal(t, c)
	if res != RunTerminal {
		t.Fatalf("Run() = %v", res)
	}
	if c.State() != StateFailure || err == nil {
		t.Fatalf("expected the channel to fail past the tunnel (TLS stage), got state=%s err=%v", c.State(), err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("TLS")) {
		t.Fatalf("expected a TLS-stage failure proving the CONNECT tunnel succeeded, got: %v", err)
	}
}

func TestRedirectCycleDetected(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		for {
			br := bufio.NewReader(conn)
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			_ = line
			for {
				l, err := br.ReadString('\n')
				if err != nil || l == "\r\n" {
					break
				}
			}
			fmt.Fprintf(conn, "HTTP/1.1 302 Found\r\nLocation: http://%s/a\r\nContent-Length: 0\r\nConnection: close\r\n\r\n", addr)
			return
		}
	})

	url := urlvalue.New("http://"+addr+"/a", true)
	c := New(Options{HTTPVersion: HTTP11})
	// GetDocument records the starting URL /a as visited, so the single
	// redirect response above (a -> a) is recognized as a cycle without
	// needing a second real listener round-trip.
	c.GetDocument(docspec.New(url), 0, 0)

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal {
		t.Fatalf("Run() = %v", res)
	}
	if err == nil || c.State() != StateFailure {
		t.Fatalf("expected a redirect-cycle failure, got state=%s err=%v", c.State(), err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("redirect cycle")) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNonBlockingReturnsPendingOnSlowServer(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		time.Sleep(150 * time.Millisecond)
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok")
	})

	url := urlvalue.New("http://"+addr+"/slow", true)
	c := New(Options{HTTPVersion: HTTP11, NonBlocking: true})
	c.GetDocument(docspec.New(url), 0, 0)

	res, _ := c.Run()

	deadline := time.Now().Add(2 * time.Second)
	for res != RunTerminal {
		if time.Now().After(deadline) {
			t.Fatalf("non-blocking channel never reached terminal state (stuck in %s)", c.State())
		}
		time.Sleep(5 * time.Millisecond)
		res, _ = c.Run()
	}
	if c.StatusCode() != 200 {
		t.Fatalf("status = %d", c.StatusCode())
	}
}

func TestHeaderPublishedGatesAutomaticAdvanceToBody(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\nConnection: close\r\n\r\nhello")
	})

	url := urlvalue.New("http://"+addr+"/x", true)
	c := New(Options{HTTPVersion: HTTP11})
	c.GetDocument(docspec.New(url), 0, 0)

	// Drive the channel until it first parks at ReadHeader with the
	// header published; it must not silently skip past it in one call.
	var sawReadHeader bool
	deadline := time.Now().Add(2 * time.Second)
	for {
		res, err := c.Run()
		if c.State() == StateReadHeader && res == RunPending {
			sawReadHeader = true
			break
		}
		if res == RunTerminal {
			t.Fatalf("reached terminal before ReadHeader was published (err=%v)", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("never reached a published ReadHeader state")
		}
	}
	if !sawReadHeader {
		t.Fatal("expected to observe a published ReadHeader state")
	}
	if c.StatusCode() != 200 {
		t.Fatalf("status = %d", c.StatusCode())
	}

	// The next call must advance past ReadHeader (to BeginBody and then
	// drain the body) rather than returning RunPending at ReadHeader again.
	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() after header publish = %v, %v", res, err)
	}
	if got := string(c.Document()); got != "hello" {
		t.Fatalf("document = %q", got)
	}
}

func TestHeadDocumentSkipsBody(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 100\r\nConnection: close\r\n\r\n")
	})

	url := urlvalue.New("http://"+addr+"/x", true)
	c := New(Options{HTTPVersion: HTTP11})
	c.HeadDocument(docspec.New(url))

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() = %v, %v", res, err)
	}
	if len(c.Document()) != 0 {
		t.Fatalf("expected no body bytes for a HEAD request, got %d", len(c.Document()))
	}
}

// TestRedirectDrainsOldResponseAndClosesConnection follows a 302 whose
// response carries its own body (as a real server's might, e.g. an HTML
// "moved" page) to a second listener. It must end up with the second
// response's content only, proving the first response's body was drained
// (or skipped) rather than leaking into the document, and must complete at
// all, proving runConnecting's fresh dial isn't left trying to reuse a
// connection that was never closed.
func TestRedirectDrainsOldResponseAndClosesConnection(t *testing.T) {
	targetAddr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 9\r\nConnection: close\r\n\r\ndone here")
	})

	redirectAddr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		body := "<html>moved</html>"
		fmt.Fprintf(conn, "HTTP/1.1 302 Found\r\nLocation: http://%s/real\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s", targetAddr, len(body), body)
	})

	url := urlvalue.New("http://"+redirectAddr+"/start", true)
	c := New(Options{HTTPVersion: HTTP11})
	c.GetDocument(docspec.New(url), 0, 0)

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() = %v, %v", res, err)
	}
	if c.StatusCode() != 200 {
		t.Fatalf("status = %d", c.StatusCode())
	}
	if got := string(c.Document()); got != "done here" {
		t.Fatalf("document = %q, want the redirect target's body only", got)
	}
}

// TestAuthRetryDrainsChallengeBodyOnPersistentConnection issues a GET
// against a server that answers the first request with a 401 (carrying a
// body, as a real challenge page might) and the retried request -- on the
// very same TCP connection, since PersistentConns is on -- with 200 and
// the real content. If the challenge's body were not drained first, the
// retried request's status line would be read out of the middle of that
// leftover body instead of off a real response.
func TestAuthRetryDrainsChallengeBodyOnPersistentConnection(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		challengeBody := "unauthorized"
		fmt.Fprintf(conn, "HTTP/1.1 401 Unauthorized\r\nWWW-Authenticate: Basic realm=\"x\"\r\nContent-Length: %d\r\n\r\n%s", len(challengeBody), challengeBody)

		br.ReadString('\n')
		var sawAuth bool
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
			if len(l) > 15 && l[:15] == "Authorization: " {
				sawAuth = true
			}
		}
		if !sawAuth {
			t.Error("expected the retried request to carry an Authorization header")
		}
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 9\r\nConnection: close\r\n\r\nreal body")
	})

	url := urlvalue.New("http://"+addr+"/secret", true)
	c := New(Options{
		HTTPVersion:     HTTP11,
		PersistentConns: true,
		Credentials:     fakeCredentials{user: "alice:pw"},
	})
	c.GetDocument(docspec.New(url), 0, 0)

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() = %v, %v", res, err)
	}
	if c.StatusCode() != 200 {
		t.Fatalf("status = %d", c.StatusCode())
	}
	if got := string(c.Document()); got != "real body" {
		t.Fatalf("document = %q, want only the retried response's body", got)
	}
}

type fakeCredentials struct{ user string }

func (f fakeCredentials) Lookup(url urlvalue.Value, realm string, isProxy bool) (string, bool) {
	return f.user, true
}

func TestDownloadDestinationReceivesBody(t *testing.T) {
	addr := serveOnce(t, func(t *testing.T, conn net.Conn) {
		br := bufio.NewReader(conn)
		br.ReadString('\n')
		for {
			l, err := br.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		fmt.Fprint(conn, "HTTP/1.1 200 OK\r\nContent-Length: 7\r\nConnection: close\r\n\r\nabcdefg")
	})

	url := urlvalue.New("http://"+addr+"/x", true)
	c := New(Options{HTTPVersion: HTTP11})
	var dest bytes.Buffer
	c.SetDownloadDestination(&dest)
	c.GetDocument(docspec.New(url), 0, 0)

	res, err := runUntilTerminal(t, c)
	if res != RunTerminal || err != nil {
		t.Fatalf("Run() = %v, %v", res, err)
	}
	if dest.String() != "abcdefg" {
		t.Fatalf("destination = %q", dest.String())
	}
}
