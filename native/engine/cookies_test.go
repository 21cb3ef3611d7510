package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/xfer/info"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

func cookieLines(t *testing.T, e *Engine, h native.Handle) []string {
	t.Helper()
	var l native.List
	if code := e.EasyGetinfo(h, native.Info(info.CookieList), &l); code != status.OK {
		t.Fatalf("expected OK, got %s", code)
	}
	defer e.SlistFreeAll(l)
	return e.strings(l)
}

func TestCookies_RoundTripWithinHandle(t *testing.T) {
	srv := testServer(t)
	e := newTestEngine()
	h := mustInit(t, e)
	setopt(t, e, h, native.Option(opt.CookieFile), "")
	setWriter(t, e, h)

	setURL(t, e, h, srv.URL+"/cookie/set")
	if code := e.EasyPerform(h); code != status.OK {
		t.Fatalf("expected OK, got %s", code)
	}
	out := setWriter(t, e, h)
	setURL(t, e, h, srv.URL+"/cookie/get")
	if code := e.EasyPerform(h); code != status.OK {
		t.Fatalf("expected OK, got %s", code)
	}
	if out.String() != "abc" {
		t.Errorf("expected cookie value abc, got %q", out.String())
	}

	lines := cookieLines(t, e, h)
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "\tsession\tabc") {
		t.Errorf("expected one session cookie line, got %v", lines)
	}
}

func TestCookies_DisabledByDefault(t *testing.T) {
	srv := testServer(t)
	e := newTestEngine()
	h := mustInit(t, e)
	setWriter(t, e, h)
	setURL(t, e, h, srv.URL+"/cookie/set")
	e.EasyPerform(h)

	out := setWriter(t, e, h)
	setURL(t, e, h, srv.URL+"/cookie/get")
	if code := e.EasyPerform(h); code != status.OK {
		t.Fatalf("expected OK, got %s", code)
	}
	if out.String() != "" {
		t.Errorf("expected no cookie sent, got %q", out.String())
	}
}

func TestCookies_CookieListCommands(t *testing.T) {
	e := newTestEngine()
	h := mustInit(t, e)

	setopt(t, e, h, native.Option(opt.CookieList), "example.com\tFALSE\t/\tFALSE\t0\ta\t1")
	setopt(t, e, h, native.Option(opt.CookieList), "Set-Cookie: b=2; Domain=example.com; Expires=Wed, 01 Jan 2100 00:00:00 GMT")
	if got := cookieLines(t, e, h); len(got) != 2 {
		t.Fatalf("expected 2 cookies, got %v", got)
	}

	setopt(t, e, h, native.Option(opt.CookieList), "SESS")
	got := cookieLines(t, e, h)
	if len(got) != 1 || !strings.HasSuffix(got[0], "\tb\t2") {
		t.Errorf("expected only the persistent cookie, got %v", got)
	}

	setopt(t, e, h, native.Option(opt.CookieList), "ALL")
	if got := cookieLines(t, e, h); len(got) != 0 {
		t.Errorf("expected empty jar, got %v", got)
	}
}

func TestCookies_FileAndJar(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	content := "# Netscape HTTP Cookie File\n" +
		"#HttpOnly_example.com\tFALSE\t/\tTRUE\t4102444800\ttoken\txyz\n"
	if err := os.WriteFile(in, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := newTestEngine()
	h := e.EasyInit()
	setopt(t, e, h, native.Option(opt.CookieFile), in)
	setopt(t, e, h, native.Option(opt.CookieJar), out)
	setopt(t, e, h, native.Option(opt.CookieList), "RELOAD")

	lines := cookieLines(t, e, h)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "#HttpOnly_example.com") {
		t.Fatalf("expected loaded http-only cookie, got %v", lines)
	}

	e.EasyCleanup(h)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected jar written on cleanup, got %v", err)
	}
	if !strings.Contains(string(data), "\ttoken\txyz") {
		t.Errorf("expected token in jar, got %q", data)
	}
}

func TestShare_CookiesAcrossHandles(t *testing.T) {
	srv := testServer(t)
	e := newTestEngine()
	sh := e.ShareInit()
	if code := e.ShareSetopt(sh, native.ShareOptShare, proto.LockDataCookie); code != status.ShareOK {
		t.Fatalf("expected ShareOK, got %s", code)
	}

	a := mustInit(t, e)
	b := mustInit(t, e)
	for _, h := range []native.Handle{a, b} {
		setopt(t, e, h, native.Option(opt.CookieFile), "")
		setopt(t, e, h, native.Option(opt.Share), sh)
	}

	setWriter(t, e, a)
	setURL(t, e, a, srv.URL+"/cookie/set")
	if code := e.EasyPerform(a); code != status.OK {
		t.Fatalf("expected OK, got %s", code)
	}

	out := setWriter(t, e, b)
	setURL(t, e, b, srv.URL+"/cookie/get")
	if code := e.EasyPerform(b); code != status.OK {
		t.Fatalf("expected OK, got %s", code)
	}
	if out.String() != "abc" {
		t.Errorf("expected shared cookie abc, got %q", out.String())
	}

	if code := e.ShareCleanup(sh); code != status.ShareInUse {
		t.Errorf("expected %s while attached, got %s", status.ShareInUse, code)
	}
	setopt(t, e, a, native.Option(opt.Share), nil)
	setopt(t, e, b, native.Option(opt.Share), nil)
	if code := e.ShareCleanup(sh); code != status.ShareOK {
		t.Errorf("expected ShareOK after detach, got %s", code)
	}
}

func TestShare_Setopt(t *testing.T) {
	e := newTestEngine()
	sh := e.ShareInit()
	defer e.ShareCleanup(sh)

	tests := []struct {
		name string
		o    native.ShareOption
		data proto.LockData
		want status.ShareCode
	}{
		{"dns", native.ShareOptShare, proto.LockDataDNS, status.ShareOK},
		{"ssl sessions", native.ShareOptShare, proto.LockDataSSLSession, status.ShareOK},
		{"connections", native.ShareOptShare, proto.LockDataConnect, status.ShareOK},
		{"psl", native.ShareOptShare, proto.LockDataPSL, status.ShareNotBuiltIn},
		{"unshare dns", native.ShareOptUnshare, proto.LockDataDNS, status.ShareOK},
		{"unknown option", native.ShareOption(99), proto.LockDataDNS, status.ShareBadOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ShareSetopt(sh, tt.o, tt.data); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	h := mustInit(t, e)
	setopt(t, e, h, native.Option(opt.Share), sh)
	if got := e.ShareSetopt(sh, native.ShareOptShare, proto.LockDataCookie); got != status.ShareInUse {
		t.Errorf("expected %s while attached, got %s", status.ShareInUse, got)
	}
	setopt(t, e, h, native.Option(opt.Share), nil)
}

func TestShare_InvalidHandle(t *testing.T) {
	e := newTestEngine()
	if got := e.ShareCleanup(0); got != status.ShareInvalid {
		t.Errorf("expected %s, got %s", status.ShareInvalid, got)
	}
	if got := e.ShareSetopt(native.Share(12345), native.ShareOptShare, proto.LockDataDNS); got != status.ShareInvalid {
		t.Errorf("expected %s, got %s", status.ShareInvalid, got)
	}
}
