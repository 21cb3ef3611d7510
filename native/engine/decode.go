package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/kbukum/xfer/status"
)

// acceptAll is sent when ACCEPT_ENCODING is the empty string.
const acceptAll = "deflate, gzip, br, zstd"

// decoder wraps body in the readers undoing the listed content encodings,
// outermost last.
func decoder(body io.Reader, encoding string) (io.Reader, func(), error) {
	closers := []func(){}
	done := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	codings := strings.Split(encoding, ",")
	for i := len(codings) - 1; i >= 0; i-- {
		c := strings.ToLower(strings.TrimSpace(codings[i]))
		switch c {
		case "", "identity":
			continue
		case "gzip", "x-gzip":
			zr, err := gzip.NewReader(body)
			if err != nil {
				done()
				return nil, nil, fail(status.BadContentEncoding, err)
			}
			closers = append(closers, func() { zr.Close() })
			body = zr
		case "deflate":
			body = inflater(body)
		case "br":
			body = brotli.NewReader(body)
		case "zstd":
			zr, err := zstd.NewReader(body)
			if err != nil {
				done()
				return nil, nil, fail(status.BadContentEncoding, err)
			}
			closers = append(closers, zr.Close)
			body = zr
		default:
			done()
			return nil, nil, fail(status.BadContentEncoding, fmt.Errorf("unrecognized content encoding %q", c))
		}
	}
	return decodeErrors{body}, done, nil
}

// inflater reads "deflate" bodies, which servers send either zlib wrapped
// or raw.
func inflater(body io.Reader) io.Reader {
	br := bufio.NewReader(body)
	hdr, _ := br.Peek(2)
	if len(hdr) == 2 && hdr[0]&0x0f == 8 && (uint(hdr[0])<<8|uint(hdr[1]))%31 == 0 {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return errReader{fail(status.BadContentEncoding, err)}
		}
		return zr
	}
	return flate.NewReader(br)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// decodeErrors reports corrupt compressed data as a content encoding failure.
type decodeErrors struct {
	r io.Reader
}

func (d decodeErrors) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && err != io.EOF {
		if _, ok := err.(*transferError); !ok && !isTransport(err) {
			err = fail(status.BadContentEncoding, err)
		}
	}
	return n, err
}

// isTransport reports errors of the connection under the decoder.
func isTransport(err error) bool {
	var ne net.Error
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(errors.As(err, &ne) && ne.Timeout())
}
