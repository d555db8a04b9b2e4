// Package bodystream implements the two response body transfer-coding
// decoders a Channel may hand the caller: chunked and identity.
//
// Grounded in Panda3D's ChunkedStreamBuf (panda/src/downloader/
// chunkedStreamBuf.cxx) and the identity-mode reads done directly against
// the socket in httpChannel.cxx. Both decoders report completion back to
// an owner through the Generation interface rather than holding a direct
// pointer to the channel, so that a decoder whose channel has already
// moved on to a later request becomes a silent no-op instead of
// corrupting that later request's state — the same guard
// ChunkedStreamBuf applies by comparing _read_index against
// doc->_read_index before touching doc->_state.
package bodystream

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Owner is the subset of Channel a decoder reports into: the generation
// it was opened for, and the hooks to advance or grow the channel's
// bookkeeping. A decoder call is a no-op whenever Generation() no longer
// matches the generation captured at Open time.
type Owner interface {
	Generation() uint64
	AddFileSize(n int64)
	BodyComplete(generation uint64)
}

// Chunked decodes an HTTP/1.1 "Transfer-Encoding: chunked" body.
type Chunked struct {
	r          *bufio.Reader
	owner      Owner
	generation uint64

	remaining int64
	done      bool
}

// NewChunked decodes chunked framing directly off r, reporting completion
// to owner under the generation captured right now. r must be the
// channel's own buffered reader, not a fresh wrapper around it: any bytes
// read ahead past the final chunk terminator belong to the trailer (or
// the next pipelined response on a persistent connection), and stranding
// them in a second buffer that goes out of scope with this decoder would
// desync everything read after it.
func NewChunked(r *bufio.Reader, owner Owner) *Chunked {
	return &Chunked{
		r:          r,
		owner:      owner,
		generation: owner.Generation(),
	}
}

// Read implements io.Reader, decoding one or more chunks as needed.
func (c *Chunked) Read(p []byte) (int, error) {
	if c.done || c.owner.Generation() != c.generation {
		return 0, io.EOF
	}

	if c.remaining == 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			c.done = true
			if c.owner.Generation() == c.generation {
				c.owner.BodyComplete(c.generation)
			}
			return 0, io.EOF
		}
		if c.owner.Generation() == c.generation {
			c.owner.AddFileSize(size)
		}
		c.remaining = size
	}

	want := int64(len(p))
	if want > c.remaining {
		want = c.remaining
	}
	n, err := c.r.Read(p[:want])
	c.remaining -= int64(n)
	if c.remaining == 0 {
		// Consume the chunk's trailing CRLF before the next size line.
		c.r.Discard(2)
	}
	return n, err
}

// readChunkSize reads one chunk-size line: hex digits, an optional
// ";extension" (ignored), terminated by CRLF.
func (c *Chunked) readChunkSize() (int64, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return 0, errors.Wrap(err, "bodystream: reading chunk size line")
	}
	line = strings.TrimRight(line, "\r\n")
	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	line = strings.TrimSpace(line)
	size, err := strconv.ParseInt(line, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bodystream: invalid chunk size %q", line)
	}
	return size, nil
}

// Identity decodes an unencoded ("Transfer-Encoding: identity", or no
// transfer-encoding header at all) response body.
//
// With a known Content-Length, it reads exactly that many bytes and
// reports completion. Without one, it reads until the underlying
// transport reports end-of-stream — the caller (Channel) must then close
// the connection regardless of keep-alive policy, since there is no
// other way to detect the end of such a body.
type Identity struct {
	r          io.Reader
	owner      Owner
	generation uint64

	knownLength bool
	remaining   int64
	done        bool
}

// NewIdentityKnownLength wraps r, reading exactly length bytes before
// reporting completion to owner.
func NewIdentityKnownLength(r io.Reader, length int64, owner Owner) *Identity {
	return &Identity{
		r: r, owner: owner, generation: owner.Generation(),
		knownLength: true, remaining: length,
	}
}

// NewIdentityUnknownLength wraps r, reading until it returns io.EOF and
// then reporting completion to owner. ConnectionMustClose always reports
// true for a decoder built this way.
func NewIdentityUnknownLength(r io.Reader, owner Owner) *Identity {
	return &Identity{r: r, owner: owner, generation: owner.Generation()}
}

// Read implements io.Reader.
func (id *Identity) Read(p []byte) (int, error) {
	if id.done || id.owner.Generation() != id.generation {
		return 0, io.EOF
	}

	if id.knownLength {
		if id.remaining == 0 {
			id.finish()
			return 0, io.EOF
		}
		want := int64(len(p))
		if want > id.remaining {
			want = id.remaining
		}
		n, err := id.r.Read(p[:want])
		id.remaining -= int64(n)
		if id.remaining == 0 {
			id.finish()
			if err == nil {
				err = io.EOF
			}
		}
		return n, err
	}

	n, err := id.r.Read(p)
	if err == io.EOF {
		id.finish()
	}
	return n, err
}

func (id *Identity) finish() {
	if id.done {
		return
	}
	id.done = true
	if id.owner.Generation() == id.generation {
		id.owner.BodyComplete(id.generation)
	}
}

// ConnectionMustClose reports whether this decoder's framing relies on
// the connection closing to signal end-of-body (i.e., length was
// unknown), in which case the owning channel may not reuse the
// connection for a subsequent request even if the server claimed
// keep-alive.
func (id *Identity) ConnectionMustClose() bool { return !id.knownLength }
