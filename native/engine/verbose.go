package engine

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
)

var debugPrefix = map[native.DebugKind]string{
	native.DebugText:      "* ",
	native.DebugHeaderIn:  "< ",
	native.DebugHeaderOut: "> ",
}

// trace passes verbose data to the debug callback, or writes text and
// headers to stderr. Nothing is traced unless VERBOSE is set.
func (t *transfer) trace(kind native.DebugKind, data []byte) {
	if !t.o.flag(opt.Verbose) {
		return
	}
	if t.o.debug != nil {
		t.o.debug(kind, data)
		return
	}
	prefix, ok := debugPrefix[kind]
	if !ok {
		return
	}
	if kind == native.DebugText {
		t.ez.log.Debug(strings.TrimRight(string(data), "\r\n"), logger.Fields(logger.FieldURL, t.url))
	}
	var b bytes.Buffer
	for line := range strings.Lines(string(data)) {
		b.WriteString(prefix)
		b.WriteString(line)
	}
	_, _ = t.e.stderr.Write(b.Bytes())
}

func (t *transfer) infof(format string, args ...any) {
	if t.o.flag(opt.Verbose) {
		t.trace(native.DebugText, []byte(fmt.Sprintf(format, args...)+"\n"))
	}
}

// writeHeader renders h in a stable order, one "Name: value" line per value.
func writeHeader(b *bytes.Buffer, h http.Header) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			fmt.Fprintf(b, "%s: %s\r\n", k, v)
		}
	}
}

// requestHead renders the request line and headers of r as sent.
func requestHead(r *http.Request) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s HTTP/%d.%d\r\n", r.Method, r.URL.RequestURI(), max(r.ProtoMajor, 1), r.ProtoMinor)
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	h := r.Header.Clone()
	for k, v := range h {
		if len(v) == 1 && v[0] == "" {
			delete(h, k)
		}
	}
	if r.ContentLength > 0 {
		h.Set("Content-Length", fmt.Sprint(r.ContentLength))
	}
	writeHeader(&b, h)
	b.WriteString("\r\n")
	return b.Bytes()
}

// responseHead renders the status line and headers of r.
func responseHead(r *http.Response) []byte {
	var b bytes.Buffer
	if r.ProtoMajor == 2 {
		fmt.Fprintf(&b, "HTTP/2 %d \r\n", r.StatusCode)
	} else {
		fmt.Fprintf(&b, "HTTP/%d.%d %s\r\n", r.ProtoMajor, r.ProtoMinor, r.Status)
	}
	writeHeader(&b, r.Header)
	b.WriteString("\r\n")
	return b.Bytes()
}
