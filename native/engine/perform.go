package engine

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/resilience"
	"github.com/kbukum/xfer/status"
)

// transfer is the state of one perform.
type transfer struct {
	e   *Engine
	ez  *easy
	o   *options
	ctx context.Context
	url string

	start      time.Time
	downloaded int64
	uploaded   int64
	dlTotal    int64
	ulTotal    int64
	recv       *resilience.Throttle
	send       *resilience.Throttle

	lowSpeedStart time.Time
	lowSpeedBytes int64
}

// EasyPerform runs the configured transfer and blocks until it is done.
// A handle that belongs to a multi handle cannot be performed on its own.
func (e *Engine) EasyPerform(h native.Handle) status.Code {
	ez, ok := e.easy(h)
	if !ok {
		return status.BadFunctionArgument
	}
	if ez.multi != 0 {
		return status.FailedInit
	}
	return ez.perform(e, context.Background())
}

func (ez *easy) perform(e *Engine, ctx context.Context) status.Code {
	ez.res = newResult()
	t := &transfer{
		e:     e,
		ez:    ez,
		o:     &ez.opts,
		start: time.Now(),
		recv: resilience.NewThrottle(resilience.ThrottleConfig{
			Name:           "recv",
			BytesPerSecond: ez.opts.long(native.Option(opt.MaxRecvSpeedLarge)),
		}),
		send: resilience.NewThrottle(resilience.ThrottleConfig{
			Name:           "send",
			BytesPerSecond: ez.opts.long(native.Option(opt.MaxSendSpeedLarge)),
		}),
	}

	if ms := t.o.long(native.Option(opt.TimeoutMS)); ms > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer cancel()
	}
	t.ctx = ctx

	err := t.run()
	code := codeFor(err)

	r := &ez.res
	r.total = time.Since(t.start)
	r.sizeDownload = t.downloaded
	r.sizeUpload = t.uploaded
	if secs := r.total.Seconds(); secs > 0 {
		r.speedDownload = int64(float64(t.downloaded) / secs)
		r.speedUpload = int64(float64(t.uploaded) / secs)
	}
	r.fillTimings()

	if code != status.OK {
		r.osErrno = errno(err)
		t.infof("%s", err)
		ez.log.WithError(err).Debug("transfer failed",
			logger.Fields(logger.FieldURL, t.url, logger.FieldStatus, code.String()))
	}
	return code
}

// fillTimings makes the timing points monotonic: a phase that did not
// happen takes the value of the one before it.
func (r *result) fillTimings() {
	prev := time.Duration(0)
	for _, p := range []*time.Duration{&r.nameLookup, &r.connect, &r.pretransfer, &r.startTransfer} {
		if *p < prev {
			*p = prev
		}
		prev = *p
	}
	if r.appConnect > r.pretransfer {
		r.pretransfer = r.appConnect
	}
	if r.startTransfer < r.pretransfer {
		r.startTransfer = r.pretransfer
	}
	if r.total < r.startTransfer {
		r.total = r.startTransfer
	}
}

func (t *transfer) run() error {
	raw := t.o.str(opt.URL)
	if raw == "" {
		return fail(status.URLMalformat, errors.New("no URL set"))
	}
	u, err := t.target(raw)
	if err != nil {
		return err
	}
	t.url = u.String()
	t.ez.res.effectiveURL = t.url

	p := proto.ForScheme(u.Scheme)
	t.ez.res.protocol = p
	t.ez.res.scheme = strings.ToUpper(u.Scheme)

	if err := t.ez.loadCookieFiles(); err != nil {
		return fail(status.ReadError, err)
	}
	if err := t.progress(); err != nil {
		return err
	}

	if p == proto.FILE {
		return t.file(u)
	}
	return t.fetch(u)
}

// target parses the URL, guessing a scheme when it has none, and checks
// the scheme against PROTOCOLS.
func (t *transfer) target(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		scheme := t.o.str(opt.DefaultProtocol)
		if scheme == "" {
			scheme = "http"
		}
		raw = scheme + "://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fail(status.URLMalformat, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, fail(status.URLMalformat, fmt.Errorf("no host part in %q", raw))
		}
	case "file":
	default:
		return nil, fail(status.UnsupportedProtocol, fmt.Errorf("protocol %q not supported", u.Scheme))
	}
	allowed := proto.Protocol(t.o.long(native.Option(opt.Protocols)))
	if !allowed.Has(proto.ForScheme(u.Scheme)) {
		return nil, fail(status.UnsupportedProtocol, fmt.Errorf("protocol %q disabled", u.Scheme))
	}
	if u.Path == "" && u.Scheme != "file" {
		u.Path = "/"
	}
	return u, nil
}

// deliver passes body data to the write callback or the engine's stdout.
func (t *transfer) deliver(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if fn := t.o.write; fn != nil {
		if n := fn(data); n != len(data) {
			return fail(status.WriteError, fmt.Errorf("write callback consumed %d of %d bytes", n, len(data)))
		}
		return nil
	}
	if _, err := t.e.stdout.Write(data); err != nil {
		return fail(status.WriteError, err)
	}
	return nil
}

// deliverHeader passes one header block to the header callback, and to the
// body sink when HEADER is set.
func (t *transfer) deliverHeader(head []byte) error {
	t.ez.res.headerSize += int64(len(head))
	if fn := t.o.header; fn != nil {
		for line := range strings.Lines(string(head)) {
			if n := fn([]byte(line)); n != len(line) {
				return fail(status.WriteError, errors.New("header callback refused data"))
			}
		}
	}
	if t.o.flag(opt.Header) {
		return t.deliver(head)
	}
	return nil
}

func (t *transfer) progress() error {
	fn := t.o.progress
	if fn == nil || t.o.flag(opt.NoProgress) {
		return nil
	}
	if fn(t.dlTotal, t.downloaded, t.ulTotal, t.uploaded) != 0 {
		return fail(status.AbortedByCallback, errors.New("progress callback aborted"))
	}
	return nil
}

// checkLowSpeed aborts when fewer than LOW_SPEED_LIMIT bytes per second
// arrived over LOW_SPEED_TIME seconds.
func (t *transfer) checkLowSpeed(n int) error {
	limit := t.o.long(native.Option(opt.LowSpeedLimit))
	window := time.Duration(t.o.long(native.Option(opt.LowSpeedTime))) * time.Second
	if limit <= 0 || window <= 0 {
		return nil
	}
	now := time.Now()
	if t.lowSpeedStart.IsZero() {
		t.lowSpeedStart = now
	}
	t.lowSpeedBytes += int64(n)
	if elapsed := now.Sub(t.lowSpeedStart); elapsed >= window {
		if float64(t.lowSpeedBytes)/elapsed.Seconds() < float64(limit) {
			return fail(status.OperationTimedout, fmt.Errorf("transfer below %d bytes/sec for %s", limit, window))
		}
		t.lowSpeedStart = now
		t.lowSpeedBytes = 0
	}
	return nil
}

// download copies body to the sink in BUFFERSIZE chunks.
func (t *transfer) download(body io.Reader) error {
	size := int(t.o.long(native.Option(opt.BufferSize)))
	if size <= 0 || size > 10*1024*1024 {
		size = 16 * 1024
	}
	maxSize := t.o.offT(opt.MaxFileSizeLarge, opt.MaxFileSize)
	buf := make([]byte, size)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			t.downloaded += int64(n)
			if maxSize > 0 && t.downloaded > maxSize {
				return fail(status.FilesizeExceeded, fmt.Errorf("exceeded the maximum allowed file size (%d)", maxSize))
			}
			if werr := t.recv.WaitN(t.ctx, n); werr != nil {
				return werr
			}
			if t.o.flag(opt.Verbose) && t.o.debug != nil {
				t.o.debug(native.DebugDataIn, buf[:n])
			}
			if werr := t.deliver(buf[:n]); werr != nil {
				return werr
			}
			if perr := t.progress(); perr != nil {
				return perr
			}
			if lerr := t.checkLowSpeed(n); lerr != nil {
				return lerr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// upload is the request body source: the read callback or the engine's
// stdin, counted, throttled and traced.
type upload struct {
	t  *transfer
	fn native.ReadFunc
	r  io.Reader
}

func (u *upload) Read(p []byte) (int, error) {
	var n int
	if u.fn != nil {
		n = u.fn(p)
		switch {
		case n == native.ReadAbort:
			return 0, fail(status.AbortedByCallback, errors.New("read callback aborted"))
		case n < 0 || n > len(p):
			return 0, fail(status.ReadError, fmt.Errorf("read callback returned %d", n))
		case n == 0:
			return 0, io.EOF
		}
	} else {
		var err error
		n, err = u.r.Read(p)
		if err != nil && err != io.EOF {
			return n, fail(status.ReadError, err)
		}
		if n == 0 && err == io.EOF {
			return 0, io.EOF
		}
	}
	t := u.t
	t.uploaded += int64(n)
	if err := t.send.WaitN(t.ctx, n); err != nil {
		return n, err
	}
	if t.o.flag(opt.Verbose) && t.o.debug != nil {
		t.o.debug(native.DebugDataOut, p[:n])
	}
	if err := t.progress(); err != nil {
		return n, err
	}
	return n, nil
}

func (t *transfer) uploadSource() *upload {
	return &upload{t: t, fn: t.o.read, r: t.e.stdin}
}

// file serves file:// URLs: reading, or writing when UPLOAD is set.
func (t *transfer) file(u *url.URL) error {
	name := u.Path
	if name == "" {
		name = u.Opaque
	}
	if t.o.req == requestPut {
		f, err := os.Create(name)
		if err != nil {
			return fail(status.WriteError, err)
		}
		defer f.Close()
		t.ulTotal = t.o.offT(opt.InFileSizeLarge, opt.InFileSize)
		if _, err := io.Copy(f, t.uploadSource()); err != nil {
			return err
		}
		return nil
	}

	f, err := os.Open(name)
	if err != nil {
		return fail(status.FileCouldntReadFile, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		return fail(status.FileCouldntReadFile, fmt.Errorf("%s is not a readable file", name))
	}

	r := &t.ez.res
	r.contentLenDL = fi.Size()
	if t.o.flag(opt.FileTime) {
		r.fileTime = fi.ModTime().Unix()
	}
	if t.o.flag(opt.Header) || t.o.flag(opt.NoBody) {
		h := fmt.Sprintf("Content-Length: %d\r\nAccept-ranges: bytes\r\nLast-Modified: %s\r\n\r\n",
			fi.Size(), fi.ModTime().UTC().Format(http.TimeFormat))
		if err := t.deliverHeader([]byte(h)); err != nil {
			return err
		}
	}
	if t.o.flag(opt.NoBody) {
		return nil
	}

	var body io.Reader = f
	if from := t.o.offT(opt.ResumeFromLarge, opt.ResumeFrom); from > 0 {
		if from > fi.Size() {
			return fail(status.BadDownloadResume, fmt.Errorf("offset %d beyond file size", from))
		}
		if _, err := f.Seek(from, io.SeekStart); err != nil {
			return fail(status.BadDownloadResume, err)
		}
	} else if rng := t.o.str(opt.Range); rng != "" {
		start, end, ok := parseRange(rng, fi.Size())
		if !ok {
			return fail(status.RangeError, fmt.Errorf("bad range %q", rng))
		}
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			return fail(status.RangeError, err)
		}
		body = io.LimitReader(f, end-start+1)
	}
	t.dlTotal = r.contentLenDL
	return t.download(body)
}

// parseRange reads a single "a-b", "a-" or "-n" byte range.
func parseRange(s string, size int64) (start, end int64, ok bool) {
	a, b, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return 0, 0, false
	}
	var err error
	switch {
	case a == "":
		n, err := strconv.ParseInt(b, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		return max(size-n, 0), size - 1, true
	case b == "":
		start, err = strconv.ParseInt(a, 10, 64)
		return start, size - 1, err == nil && start < size
	default:
		start, err = strconv.ParseInt(a, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		end, err = strconv.ParseInt(b, 10, 64)
		if err != nil || end < start {
			return 0, 0, false
		}
		return start, min(end, size-1), start < size
	}
}

// timingHooks records connection phases relative to the start of the
// transfer and the address of the connection used.
func (t *transfer) timingHooks() *httptrace.ClientTrace {
	r := &t.ez.res
	since := func() time.Duration { return time.Since(t.start) }
	return &httptrace.ClientTrace{
		DNSDone: func(httptrace.DNSDoneInfo) { r.nameLookup = since() },
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				r.connect = since()
			}
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err == nil {
				r.appConnect = since()
			}
		},
		GotConn: func(info httptrace.GotConnInfo) {
			if !info.Reused {
				r.numConnects++
			}
			if ra, ok := info.Conn.RemoteAddr().(*net.TCPAddr); ok {
				r.primaryIP = ra.IP.String()
				r.primaryPort = int64(ra.Port)
			}
			if la, ok := info.Conn.LocalAddr().(*net.TCPAddr); ok {
				r.localIP = la.IP.String()
				r.localPort = int64(la.Port)
			}
			r.pretransfer = since()
		},
		GotFirstResponseByte: func() { r.startTransfer = since() },
	}
}
