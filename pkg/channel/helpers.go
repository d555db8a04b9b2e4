package channel

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

func newBufReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, 4096)
}

// parseStatusLine parses "HTTP/1.1 200 OK\r\n" into (200, "OK", true).
func parseStatusLine(line string) (code int, reason string, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 {
		return 0, "", false
	}
	if !strings.HasPrefix(fields[0], "HTTP/") {
		return 0, "", false
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, "", false
	}
	if len(fields) == 3 {
		reason = fields[2]
	}
	return code, reason, true
}

// firstField returns the first whitespace-delimited token of s, used to
// pull the "HTTP/1.1" token off the front of a status line.
func firstField(s string) string {
	s = strings.TrimLeft(s, " \t")
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return s[:idx]
	}
	return strings.TrimRight(s, "\r\n")
}
