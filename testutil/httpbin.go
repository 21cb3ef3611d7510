package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Echo is the JSON body of the echo endpoints.
type Echo struct {
	Method  string              `json:"method"`
	URL     string              `json:"url"`
	Args    map[string][]string `json:"args"`
	Headers map[string]string   `json:"headers"`
	Body    string              `json:"body"`
}

// HTTPBin is an httpbin-style fixture server.
//
// Routes:
//
//	/anything, /get, /post, /put, /delete   echo the request as Echo JSON
//	/headers                                 request headers as JSON
//	/status/:code                            reply with code
//	/redirect/:n                             n relative redirects, then /get
//	/absolute-redirect/:n                    n absolute redirects, then /get
//	/delay/:ms                               wait, then echo
//	/bytes/:n                                n bytes of 'x' with Content-Length
//	/gzip, /deflate, /brotli, /zstd          encoded JSON body
//	/cookies                                 received cookies as JSON
//	/cookies/set?name=value                  set cookies, redirect to /cookies
//	/basic-auth/:user/:pass                  200 on matching credentials, else 401
//	/response-headers?name=value             echo the query as response headers
type HTTPBin struct {
	mu       sync.RWMutex
	ts       *httptest.Server
	requests atomic.Int64
	last     atomic.Pointer[http.Request]
}

var _ Fixture = (*HTTPBin)(nil)

// NewHTTPBin creates a stopped fixture.
func NewHTTPBin() *HTTPBin { return &HTTPBin{} }

// Name returns the fixture name.
func (b *HTTPBin) Name() string { return "httpbin" }

// Start serves on a loopback port.
func (b *HTTPBin) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ts != nil {
		return fmt.Errorf("fixture already started")
	}
	b.ts = httptest.NewServer(b.routes())
	return nil
}

// Stop closes the server.
func (b *HTTPBin) Stop(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ts != nil {
		b.ts.Close()
		b.ts = nil
	}
	return nil
}

// Reset clears the request counters.
func (b *HTTPBin) Reset(_ context.Context) error {
	b.requests.Store(0)
	b.last.Store(nil)
	return nil
}

// BaseURL returns the server URL, or "" when stopped.
func (b *HTTPBin) BaseURL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.ts == nil {
		return ""
	}
	return b.ts.URL
}

// URL joins path onto the server URL.
func (b *HTTPBin) URL(path string) string { return b.BaseURL() + path }

// Requests returns the number of requests served since start or Reset.
func (b *HTTPBin) Requests() int64 { return b.requests.Load() }

// LastRequest returns the most recent request, with its body consumed.
func (b *HTTPBin) LastRequest() *http.Request { return b.last.Load() }

func (b *HTTPBin) routes() http.Handler {
	r := gin.New()
	r.Use(b.record, requestID)

	r.Any("/anything", echo)
	r.GET("/get", echo)
	r.POST("/post", echo)
	r.PUT("/put", echo)
	r.DELETE("/delete", echo)
	r.GET("/headers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"headers": flatHeaders(c.Request.Header)})
	})
	r.Any("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || code < 100 || code > 999 {
			c.String(http.StatusBadRequest, "bad status code")
			return
		}
		c.String(code, "status %d", code)
	})
	r.GET("/redirect/:n", redirect(false))
	r.GET("/absolute-redirect/:n", redirect(true))
	r.Any("/delay/:ms", func(c *gin.Context) {
		ms, _ := strconv.Atoi(c.Param("ms"))
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			echo(c)
		case <-c.Request.Context().Done():
		}
	})
	r.GET("/bytes/:n", func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil || n < 0 {
			c.String(http.StatusBadRequest, "bad size")
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", bytes.Repeat([]byte("x"), n))
	})
	r.GET("/gzip", encoded("gzip", func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }))
	r.GET("/deflate", encoded("deflate", func(w io.Writer) io.WriteCloser { return zlib.NewWriter(w) }))
	r.GET("/brotli", encoded("br", func(w io.Writer) io.WriteCloser { return brotli.NewWriter(w) }))
	r.GET("/zstd", encoded("zstd", func(w io.Writer) io.WriteCloser {
		zw, _ := zstd.NewWriter(w)
		return zw
	}))
	r.GET("/cookies", func(c *gin.Context) {
		out := map[string]string{}
		for _, ck := range c.Request.Cookies() {
			out[ck.Name] = ck.Value
		}
		c.JSON(http.StatusOK, gin.H{"cookies": out})
	})
	r.GET("/cookies/set", func(c *gin.Context) {
		for name, values := range c.Request.URL.Query() {
			c.SetCookie(name, values[0], 0, "/", "", false, false)
		}
		c.Redirect(http.StatusFound, "/cookies")
	})
	r.GET("/basic-auth/:user/:pass", func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != c.Param("user") || pass != c.Param("pass") {
			c.Header("WWW-Authenticate", `Basic realm="httpbin"`)
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
	})
	r.GET("/response-headers", func(c *gin.Context) {
		for name, values := range c.Request.URL.Query() {
			for _, v := range values {
				c.Writer.Header().Add(name, v)
			}
		}
		c.JSON(http.StatusOK, c.Request.URL.Query())
	})
	return r
}

func (b *HTTPBin) record(c *gin.Context) {
	b.requests.Add(1)
	b.last.Store(c.Request)
	c.Next()
}

func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	c.Header("X-Request-Id", id)
	c.Next()
}

func echo(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.JSON(http.StatusOK, Echo{
		Method:  c.Request.Method,
		URL:     c.Request.URL.String(),
		Args:    c.Request.URL.Query(),
		Headers: flatHeaders(c.Request.Header),
		Body:    string(body),
	})
}

func flatHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v[0]
		for _, more := range v[1:] {
			out[k] += ", " + more
		}
	}
	return out
}

func redirect(absolute bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil || n < 1 {
			c.String(http.StatusBadRequest, "bad redirect count")
			return
		}
		next := "/get"
		if n > 1 {
			next = fmt.Sprintf("%s/%d", c.FullPath()[:len(c.FullPath())-len("/:n")], n-1)
		}
		if absolute {
			next = "http://" + c.Request.Host + next
		}
		c.Redirect(http.StatusFound, next)
	}
}

func encoded(coding string, wrap func(io.Writer) io.WriteCloser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Encoding", coding)
		c.Header("Content-Type", "application/json")
		c.Status(http.StatusOK)
		w := wrap(c.Writer)
		fmt.Fprintf(w, `{"encoding":%q}`, coding)
		w.Close()
	}
}
