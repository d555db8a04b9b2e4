package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mallardduck/go-htclient/internal/config"
	"github.com/mallardduck/go-htclient/pkg/channel"
	"github.com/mallardduck/go-htclient/pkg/docspec"
	"github.com/mallardduck/go-htclient/pkg/urlvalue"
)

// runGet builds a Client from flags, issues one request for rawURL, and
// streams its body to flags.output (or stdout when unset). --resume
// reopens an existing --output file and continues it with a Range
// request starting at its current size, the CLI's end-to-end exercise of
// spec.md §4.10's get_subdocument.
func runGet(flags *flagSet, rawURL string) error {
	client, err := config.NewClient(flags.toConfig())
	if err != nil {
		return errors.Wrap(err, "htget: building client")
	}
	defer client.Close()

	url := urlvalue.New(rawURL, true)
	spec := docspec.New(url)

	dest, cleanup, resumeOffset, err := openDestination(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	var ch *channel.Channel
	switch flags.method {
	case "HEAD":
		ch, err = client.HeadDocument(spec)
	case "POST":
		ch, err = client.PostForm(spec, flags.body, dest)
	case "GET", "":
		if resumeOffset > 0 {
			ch, err = client.GetSubdocument(url, resumeOffset, 0, dest)
		} else {
			ch, err = client.GetDocument(spec, dest)
		}
	default:
		return errors.Errorf("htget: unsupported method %q", flags.method)
	}
	if err != nil {
		return errors.Wrapf(err, "htget: %s %s", flags.method, rawURL)
	}

	if flags.output == "" && flags.method != "HEAD" {
		if _, werr := os.Stdout.Write(ch.Document()); werr != nil {
			return errors.Wrap(werr, "htget: writing to stdout")
		}
	}

	if !ch.WasReadSuccessful() {
		return errors.Errorf("htget: %s %s: status %d", flags.method, rawURL, ch.StatusCode())
	}
	fmt.Fprintf(os.Stderr, "%d %s (%d bytes)\n", ch.StatusCode(), rawURL, ch.BytesDownloaded())
	return nil
}

// openDestination resolves flags.output/--resume into an io.Writer for
// SetDownloadDestination, returning the byte offset to resume from (0
// when not resuming) and a cleanup func that closes any opened file.
func openDestination(flags *flagSet) (dest io.Writer, cleanup func(), resumeOffset int64, err error) {
	if flags.output == "" {
		return nil, func() {}, 0, nil
	}

	if flags.resume {
		if info, statErr := os.Stat(flags.output); statErr == nil {
			resumeOffset = info.Size()
		}
	}

	flag := os.O_WRONLY | os.O_CREATE
	if resumeOffset > 0 {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	f, openErr := os.OpenFile(flags.output, flag, 0o644)
	if openErr != nil {
		return nil, func() {}, 0, errors.Wrapf(openErr, "htget: opening %s", flags.output)
	}
	return f, func() { f.Close() }, resumeOffset, nil
}
