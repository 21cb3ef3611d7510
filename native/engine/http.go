package engine

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

const formType = "application/x-www-form-urlencoded"

// fetch performs an HTTP(S) transfer, following redirects as configured.
func (t *transfer) fetch(u *url.URL) error {
	req, err := t.request(u)
	if err != nil {
		return err
	}

	k := t.ez.transportKey()
	rt, err := t.ez.poolFor().get(k, k.build)
	if err != nil {
		return err
	}

	client := &http.Client{
		Transport:     &tap{next: rt, t: t},
		CheckRedirect: t.checkRedirect,
	}
	if jar := t.ez.jar(); jar != nil {
		client.Jar = jar
	}

	t.infof("Trying %s...", u.Host)
	resp, err := client.Do(req.WithContext(httptrace.WithClientTrace(t.ctx, t.timingHooks())))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return t.response(resp)
}

// request builds the first request of the transfer from the options.
func (t *transfer) request(u *url.URL) (*http.Request, error) {
	o := t.o
	method := http.MethodGet
	var (
		body    io.Reader
		length  int64
		getBody func() (io.ReadCloser, error)
		form    bool
	)

	switch o.req {
	case requestPost:
		method = http.MethodPost
		if o.hasStr(opt.CopyPostFields) {
			data := o.str(opt.CopyPostFields)
			if size := o.offT(opt.PostFieldSizeLarge, opt.PostFieldSize); size >= 0 && size < int64(len(data)) {
				data = data[:size]
			}
			body = &upload{t: t, r: strings.NewReader(data)}
			length = int64(len(data))
			getBody = func() (io.ReadCloser, error) {
				return io.NopCloser(&upload{t: t, r: strings.NewReader(data)}), nil
			}
			form = true
		} else {
			body = t.uploadSource()
			length = o.offT(opt.PostFieldSizeLarge, opt.PostFieldSize)
		}
	case requestPut:
		method = http.MethodPut
		body = t.uploadSource()
		length = o.offT(opt.InFileSizeLarge, opt.InFileSize)
	}
	if o.noBody {
		method = http.MethodHead
		body, length, getBody, form = nil, 0, nil, false
	}
	if cr := o.str(opt.CustomRequest); cr != "" {
		method = cr
	}

	req, err := http.NewRequest(method, u.String(), nil)
	if err != nil {
		return nil, fail(status.URLMalformat, err)
	}
	if body != nil {
		req.Body = io.NopCloser(body)
		req.GetBody = getBody
		req.ContentLength = length
		if length < 0 {
			req.ContentLength = -1
		} else {
			t.ulTotal = length
			t.ez.res.contentLenUL = length
		}
		if length == 0 {
			req.Body = http.NoBody
		}
	}

	h := req.Header
	h["User-Agent"] = []string{""}
	if ua := o.str(opt.UserAgent); ua != "" {
		h.Set("User-Agent", ua)
	}
	h.Set("Accept", "*/*")
	if ref := o.str(opt.Referer); ref != "" {
		h.Set("Referer", ref)
	}
	if o.hasStr(opt.AcceptEncoding) {
		ae := o.str(opt.AcceptEncoding)
		if ae == "" {
			ae = acceptAll
		}
		h.Set("Accept-Encoding", ae)
	}
	if c := o.str(opt.Cookie); c != "" {
		h.Set("Cookie", c)
	}
	if form {
		h.Set("Content-Type", formType)
	}
	if method == http.MethodGet || method == http.MethodHead {
		if from := o.offT(opt.ResumeFromLarge, opt.ResumeFrom); from > 0 {
			h.Set("Range", fmt.Sprintf("bytes=%d-", from))
		} else if rng := o.str(opt.Range); rng != "" {
			h.Set("Range", "bytes="+rng)
		}
	}
	tv := time.Unix(o.offT(opt.TimeValueLarge, opt.TimeValue), 0).UTC().Format(http.TimeFormat)
	switch o.long(native.Option(opt.TimeCondition)) {
	case proto.TimeCondIfModSince:
		h.Set("If-Modified-Since", tv)
	case proto.TimeCondIfUnmodSince:
		h.Set("If-Unmodified-Since", tv)
	}
	t.authorize(req)
	customHeaders(req, o.list(opt.HTTPHeader))
	return req, nil
}

func (t *transfer) authorize(req *http.Request) {
	o := t.o
	mask := o.long(native.Option(opt.HTTPAuth))
	if mask == proto.AuthNone {
		mask = proto.AuthBasic
	}
	switch {
	case o.str(opt.XOAuth2Bearer) != "" && mask&proto.AuthBearer != 0:
		req.Header.Set("Authorization", "Bearer "+o.str(opt.XOAuth2Bearer))
	case (o.hasStr(opt.Username) || o.hasStr(opt.Password)) && mask&proto.AuthBasic != 0:
		req.SetBasicAuth(o.str(opt.Username), o.str(opt.Password))
	}
}

// customHeaders applies HTTPHEADER lines. "Name: value" replaces a header
// set internally, "Name:" removes it and "Name;" sends it without a value.
func customHeaders(req *http.Request, lines []string) {
	h := req.Header
	seen := make(map[string]bool)
	for _, line := range lines {
		if name, ok := strings.CutSuffix(strings.TrimSpace(line), ";"); ok && !strings.Contains(name, ":") {
			h[http.CanonicalHeaderKey(name)] = []string{""}
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = http.CanonicalHeaderKey(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		switch {
		case value == "" && name == "User-Agent":
			h[name] = []string{""}
		case value == "":
			h.Del(name)
		case name == "Host":
			req.Host = value
		case seen[name]:
			h.Add(name, value)
		default:
			h.Set(name, value)
		}
		seen[name] = true
	}
}

func (t *transfer) checkRedirect(req *http.Request, via []*http.Request) error {
	o := t.o
	if !o.flag(opt.FollowLocation) {
		return http.ErrUseLastResponse
	}
	if limit := o.long(native.Option(opt.MaxRedirs)); limit >= 0 && int64(len(via)) > limit {
		return fail(status.TooManyRedirects, fmt.Errorf("maximum (%d) redirects followed", limit))
	}
	p := proto.ForScheme(req.URL.Scheme)
	allowed := proto.Protocol(o.long(native.Option(opt.RedirProtocols))) &
		proto.Protocol(o.long(native.Option(opt.Protocols)))
	if p == 0 || !allowed.Has(p) || (p != proto.HTTP && p != proto.HTTPS) {
		return fail(status.UnsupportedProtocol, fmt.Errorf("protocol %q not allowed in redirect", req.URL.Scheme))
	}
	switch {
	case o.flag(opt.AutoReferer):
		req.Header.Set("Referer", via[len(via)-1].URL.String())
	case o.str(opt.Referer) != "":
		req.Header.Set("Referer", o.str(opt.Referer))
	default:
		req.Header.Del("Referer")
	}
	t.ez.res.redirectCount = int64(len(via))
	t.ez.res.redirect = time.Since(t.start)
	t.infof("Issue another request to this URL: '%s'", req.URL)
	return nil
}

// tap sees every request and response of the transfer, including the ones
// of followed redirects, to trace them and deliver response headers.
type tap struct {
	next http.RoundTripper
	t    *transfer
}

func (tp *tap) RoundTrip(req *http.Request) (*http.Response, error) {
	t := tp.t
	head := requestHead(req)
	t.ez.res.requestSize += int64(len(head))
	t.trace(native.DebugHeaderOut, head)

	resp, err := tp.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.ez.res.responseCode = int64(resp.StatusCode)
	head = responseHead(resp)
	t.trace(native.DebugHeaderIn, head)
	if err := t.deliverHeader(head); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func httpVersion(resp *http.Response) proto.HTTPVersion {
	switch {
	case resp.ProtoMajor == 2:
		return proto.HTTPVersion2_0
	case resp.ProtoMajor == 1 && resp.ProtoMinor == 0:
		return proto.HTTPVersion1_0
	default:
		return proto.HTTPVersion1_1
	}
}

// response records what the final response says and downloads its body.
func (t *transfer) response(resp *http.Response) error {
	o := t.o
	r := &t.ez.res
	final := resp.Request.URL

	r.responseCode = int64(resp.StatusCode)
	r.effectiveURL = final.String()
	r.scheme = strings.ToUpper(final.Scheme)
	r.protocol = proto.ForScheme(final.Scheme)
	r.contentType = resp.Header.Get("Content-Type")
	r.httpVersion = httpVersion(resp)
	r.contentLenDL = resp.ContentLength
	if cl := resp.Header.Get("Content-Length"); r.contentLenDL < 0 && cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			r.contentLenDL = n
		}
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if loc := resp.Header.Get("Location"); loc != "" {
			if ref, err := final.Parse(loc); err == nil {
				r.redirectURL = ref.String()
			}
		}
	}
	if o.flag(opt.FileTime) {
		if lm, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
			r.fileTime = lm.Unix()
		}
	}
	if o.long(native.Option(opt.TimeCondition)) != proto.TimeCondNone &&
		(resp.StatusCode == http.StatusNotModified || resp.StatusCode == http.StatusPreconditionFailed) {
		r.condUnmet = true
	}

	if o.flag(opt.FailOnError) && resp.StatusCode >= 400 {
		return fail(status.HTTPReturnedError, fmt.Errorf("the requested URL returned error: %d", resp.StatusCode))
	}
	if resp.Request.Method == http.MethodHead || o.noBody {
		return nil
	}

	maxSize := o.offT(opt.MaxFileSizeLarge, opt.MaxFileSize)
	if maxSize > 0 && r.contentLenDL > maxSize {
		return fail(status.FilesizeExceeded, fmt.Errorf("maximum file size exceeded (%d > %d)", r.contentLenDL, maxSize))
	}
	if from := o.offT(opt.ResumeFromLarge, opt.ResumeFrom); from > 0 && resp.StatusCode == http.StatusOK {
		return fail(status.RangeError, fmt.Errorf("server does not support byte ranges, cannot resume"))
	}

	var body io.Reader = resp.Body
	if ce := resp.Header.Get("Content-Encoding"); ce != "" && o.hasStr(opt.AcceptEncoding) && o.flag(opt.HTTPContentDecoding) {
		decoded, done, err := decoder(body, ce)
		if err != nil {
			return err
		}
		defer done()
		body = decoded
	}
	t.dlTotal = max(r.contentLenDL, 0)
	return t.download(body)
}
