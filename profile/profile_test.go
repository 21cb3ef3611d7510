package profile

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/xfer/easy"
	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/info"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native/engine"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/security"
	"github.com/kbukum/xfer/status"
	"github.com/kbukum/xfer/testutil"
)

func newHandle(t *testing.T, lib *engine.Engine) *easy.Handle {
	t.Helper()
	h, err := easy.New(easy.WithLibrary(lib), easy.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func int64p(v int64) *int64 { return &v }

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Profile
		wantErr string
	}{
		{"zero value", Profile{}, ""},
		{"default", Default(), ""},
		{"full", Profile{
			Headers:     []string{"Accept: text/plain"},
			Timeout:     time.Second,
			MaxRedirs:   int64p(-1),
			HTTPVersion: "2",
			Proxy:       "socks5h://127.0.0.1:1080",
		}, ""},
		{"bad header", Profile{Headers: []string{"nope"}}, "headers[0]"},
		{"negative timeout", Profile{Timeout: -time.Second}, "timeout"},
		{"max redirs below -1", Profile{MaxRedirs: int64p(-5)}, "max_redirs"},
		{"unknown http version", Profile{HTTPVersion: "3"}, "http_version"},
		{"proxy scheme", Profile{Proxy: "socks4://127.0.0.1"}, "proxy"},
		{"server name", Profile{TLS: security.TLSConfig{ServerName: "x"}}, "tls.server_name"},
		{"cert without key", Profile{TLS: security.TLSConfig{CertFile: "c.pem"}}, "tls"},
		{"bearer with username", Profile{Bearer: "t", Username: "u"}, "bearer"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestProfile_ApplyInvalidLeavesHandleUntouched(t *testing.T) {
	h := newHandle(t, engine.New(engine.WithLogger(logger.Nop())))
	p := Profile{UserAgent: "ua", Headers: []string{"broken"}}
	applied, err := p.Apply(h)
	if err == nil || applied != nil {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestProfile_ApplyPerform(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	lib := engine.New(engine.WithLogger(logger.Nop()))
	h := newHandle(t, lib)

	p := Profile{
		UserAgent:       "profile-test/1.0",
		Headers:         []string{"X-Trace: abc", "Accept:"},
		Timeout:         5 * time.Second,
		FollowRedirects: true,
		Username:        "user",
		Password:        "pass",
	}
	applied, err := p.Apply(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer applied.Close()

	var body bytes.Buffer
	if err := h.SetString(opt.URL, bin.URL("/redirect/1")); err != nil {
		t.Fatal(err)
	}
	if err := h.SetWriter(&body); err != nil {
		t.Fatal(err)
	}
	if err := h.Perform(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var echo testutil.Echo
	if err := json.Unmarshal(body.Bytes(), &echo); err != nil {
		t.Fatalf("unexpected body %q: %v", body.String(), err)
	}
	if echo.Headers["User-Agent"] != "profile-test/1.0" {
		t.Errorf("expected user agent, got %q", echo.Headers["User-Agent"])
	}
	if echo.Headers["X-Trace"] != "abc" {
		t.Errorf("expected X-Trace header, got %v", echo.Headers)
	}
	if _, ok := echo.Headers["Accept"]; ok {
		t.Error("expected Accept header removed")
	}
	if !strings.HasPrefix(echo.Headers["Authorization"], "Basic ") {
		t.Errorf("expected basic auth, got %q", echo.Headers["Authorization"])
	}
	if n, _ := h.GetLong(info.RedirectCount); n != 1 {
		t.Errorf("expected 1 redirect, got %d", n)
	}

	if err := applied.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := lib.Stats().Nodes; got != 0 {
		t.Errorf("expected list nodes released, got %d", got)
	}
}

func TestProfile_RedirectLimit(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	h := newHandle(t, engine.New(engine.WithLogger(logger.Nop())))

	p := Profile{FollowRedirects: true, MaxRedirs: int64p(1)}
	applied, err := p.Apply(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer applied.Close()

	_ = h.SetString(opt.URL, bin.URL("/redirect/3"))
	_ = h.SetWriter(&bytes.Buffer{})
	if err := h.Perform(); !status.Is(err, status.TooManyRedirects) {
		t.Errorf("expected %s, got %v", status.TooManyRedirects, err)
	}
}

func TestProfile_FailOnError(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	h := newHandle(t, engine.New(engine.WithLogger(logger.Nop())))

	p := Profile{FailOnError: true, Compressed: true}
	applied, err := p.Apply(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer applied.Close()

	_ = h.SetString(opt.URL, bin.URL("/status/500"))
	_ = h.SetWriter(&bytes.Buffer{})
	if err := h.Perform(); !status.Is(err, status.HTTPReturnedError) {
		t.Errorf("expected %s, got %v", status.HTTPReturnedError, err)
	}
}

func TestSSLVersion(t *testing.T) {
	if got := sslVersion(tls.VersionTLS12) | sslVersion(tls.VersionTLS13)<<16; got != 6|7<<16 {
		t.Errorf("unexpected encoding %#x", got)
	}
	if got := sslVersion(0); got != 0 {
		t.Errorf("expected 0 for unset, got %d", got)
	}
}

func TestProfile_Merge(t *testing.T) {
	base := Default()
	base.Headers = []string{"A: 1"}
	base.Timeout = time.Second

	base.Merge(Profile{
		Headers:   []string{"B: 2"},
		MaxRedirs: int64p(3),
		Verbose:   true,
	})

	if len(base.Headers) != 2 {
		t.Errorf("expected headers appended, got %v", base.Headers)
	}
	if base.Timeout != time.Second {
		t.Errorf("expected timeout kept, got %v", base.Timeout)
	}
	if base.MaxRedirs == nil || *base.MaxRedirs != 3 {
		t.Errorf("expected max redirs 3, got %v", base.MaxRedirs)
	}
	if !base.Verbose || !strings.HasPrefix(base.UserAgent, "xfer/") {
		t.Errorf("unexpected merge result %+v", base)
	}
}
