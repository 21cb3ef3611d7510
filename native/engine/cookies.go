package engine

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/status"
)

const httpOnlyPrefix = "#HttpOnly_"

type cookie struct {
	domain    string
	tailmatch bool
	path      string
	secure    bool
	httpOnly  bool
	expires   int64
	name      string
	value     string
}

func (c *cookie) expired(now time.Time) bool {
	return c.expires != 0 && c.expires <= now.Unix()
}

func (c *cookie) matches(u *url.URL, now time.Time) bool {
	if c.expired(now) {
		return false
	}
	if c.secure && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != c.domain && !(c.tailmatch && strings.HasSuffix(host, "."+c.domain)) {
		return false
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if p == c.path {
		return true
	}
	return strings.HasPrefix(p, c.path) && (strings.HasSuffix(c.path, "/") || p[len(c.path)] == '/')
}

// line renders c as one Netscape cookie file record.
func (c *cookie) line() string {
	domain := c.domain
	if c.tailmatch {
		domain = "." + domain
	}
	if c.httpOnly {
		domain = httpOnlyPrefix + domain
	}
	return strings.Join([]string{
		domain,
		boolField(c.tailmatch),
		c.path,
		boolField(c.secure),
		strconv.FormatInt(c.expires, 10),
		c.name,
		c.value,
	}, "\t")
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// cookieStore is an http.CookieJar that can be listed, loaded and saved in
// the Netscape cookie file format.
type cookieStore struct {
	mu      sync.Mutex
	cookies []*cookie
	now     func() time.Time
}

var _ http.CookieJar = (*cookieStore)(nil)

func newCookieStore() *cookieStore {
	return &cookieStore{now: time.Now}
}

// put replaces any cookie with the same domain, path and name.
func (s *cookieStore) put(c *cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookies = slices.DeleteFunc(s.cookies, func(o *cookie) bool {
		return o.domain == c.domain && o.path == c.path && o.name == c.name
	})
	if !c.expired(s.now()) {
		s.cookies = append(s.cookies, c)
	}
}

// SetCookies stores the cookies of a response for u.
func (s *cookieStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, hc := range cookies {
		if c, ok := s.fromHTTP(u, hc); ok {
			s.put(c)
		}
	}
}

func (s *cookieStore) fromHTTP(u *url.URL, hc *http.Cookie) (*cookie, bool) {
	host := strings.ToLower(u.Hostname())
	c := &cookie{
		domain:   host,
		path:     hc.Path,
		secure:   hc.Secure,
		httpOnly: hc.HttpOnly,
		name:     hc.Name,
		value:    hc.Value,
	}
	if d := strings.TrimPrefix(strings.ToLower(hc.Domain), "."); d != "" {
		if d != host && !strings.HasSuffix(host, "."+d) {
			return nil, false
		}
		if ps, _ := publicsuffix.PublicSuffix(d); ps == d && d != host {
			return nil, false
		}
		c.domain = d
		c.tailmatch = true
	}
	if c.path == "" || c.path[0] != '/' {
		c.path = defaultCookiePath(u)
	}
	switch {
	case hc.MaxAge < 0:
		c.expires = 1
	case hc.MaxAge > 0:
		c.expires = s.now().Unix() + int64(hc.MaxAge)
	case !hc.Expires.IsZero():
		c.expires = hc.Expires.Unix()
		if c.expires <= 0 {
			c.expires = 1
		}
	}
	return c, true
}

func defaultCookiePath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" || p[0] != '/' {
		return "/"
	}
	dir := path.Dir(p)
	if dir == "." {
		return "/"
	}
	return dir
}

// Cookies returns the cookies to send to u, longest path first.
func (s *cookieStore) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var matched []*cookie
	for _, c := range s.cookies {
		if c.matches(u, now) {
			matched = append(matched, c)
		}
	}
	slices.SortStableFunc(matched, func(a, b *cookie) int {
		return len(b.path) - len(a.path)
	})
	out := make([]*http.Cookie, 0, len(matched))
	for _, c := range matched {
		out = append(out, &http.Cookie{Name: c.name, Value: c.value})
	}
	return out
}

// lines lists every live cookie in Netscape format.
func (s *cookieStore) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]string, 0, len(s.cookies))
	for _, c := range s.cookies {
		if !c.expired(now) {
			out = append(out, c.line())
		}
	}
	return out
}

// add parses a Netscape record or a "Set-Cookie:" header line.
func (s *cookieStore) add(line string, skipSession bool) bool {
	var c *cookie
	if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "set-cookie") {
		hc, err := http.ParseSetCookie(strings.TrimSpace(value))
		if err != nil || hc.Domain == "" {
			return false
		}
		u := &url.URL{Scheme: "http", Host: strings.TrimPrefix(hc.Domain, "."), Path: "/"}
		if c, ok = s.fromHTTP(u, hc); !ok {
			return false
		}
	} else if c, ok = parseNetscape(line); !ok {
		return false
	}
	if skipSession && c.expires == 0 {
		return false
	}
	s.put(c)
	return true
}

func parseNetscape(line string) (*cookie, bool) {
	c := &cookie{}
	if rest, ok := strings.CutPrefix(line, httpOnlyPrefix); ok {
		c.httpOnly = true
		line = rest
	}
	if line == "" || line[0] == '#' {
		return nil, false
	}
	f := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(f) == 6 {
		f = append(f, "")
	}
	if len(f) != 7 {
		return nil, false
	}
	expires, err := strconv.ParseInt(f[4], 10, 64)
	if err != nil {
		return nil, false
	}
	c.domain = strings.ToLower(strings.TrimPrefix(f[0], "."))
	c.tailmatch = strings.EqualFold(f[1], "TRUE")
	c.path = f[2]
	c.secure = strings.EqualFold(f[3], "TRUE")
	c.expires = expires
	c.name = f[5]
	c.value = f[6]
	return c, c.domain != "" && c.path != ""
}

func (s *cookieStore) clearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = nil
}

func (s *cookieStore) clearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = slices.DeleteFunc(s.cookies, func(c *cookie) bool { return c.expires == 0 })
}

// load reads a cookie file. A missing file is not an error.
func (s *cookieStore) load(name string, skipSession bool) error {
	f, err := os.Open(name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s.add(sc.Text(), skipSession)
	}
	return sc.Err()
}

func (s *cookieStore) save(name string) error {
	var b strings.Builder
	b.WriteString("# Netscape HTTP Cookie File\n")
	b.WriteString("# This file was generated by xfer. Edit at your own risk.\n\n")
	for _, l := range s.lines() {
		fmt.Fprintln(&b, l)
	}
	if name == "-" {
		_, err := os.Stdout.WriteString(b.String())
		return err
	}
	return os.WriteFile(name, []byte(b.String()), 0o600)
}

// jar returns the cookie store in effect: the share's when cookies are
// shared, otherwise the handle's own, or nil when cookies are disabled.
func (ez *easy) jar() *cookieStore {
	if s := ez.share; s != nil {
		if jar := s.cookieJar(); jar != nil {
			return jar
		}
	}
	return ez.cookies
}

func (ez *easy) enableCookies() {
	if ez.cookies == nil {
		ez.cookies = newCookieStore()
	}
}

func (ez *easy) cookieCommand(cmd string) status.Code {
	ez.enableCookies()
	jar := ez.jar()
	switch strings.ToUpper(cmd) {
	case "ALL":
		jar.clearAll()
	case "SESS":
		jar.clearSession()
	case "FLUSH":
		if err := ez.flushCookies(); err != nil {
			return status.WriteError
		}
	case "RELOAD":
		if err := ez.loadCookieFiles(); err != nil {
			return status.ReadError
		}
	default:
		jar.add(cmd, false)
	}
	return status.OK
}

// loadCookieFiles reads the pending COOKIEFILE entries once.
func (ez *easy) loadCookieFiles() error {
	jar := ez.jar()
	if jar == nil {
		return nil
	}
	files := ez.opts.cookieFiles
	ez.opts.cookieFiles = nil
	skip := ez.opts.flag(opt.CookieSession)
	for _, name := range files {
		if err := jar.load(name, skip); err != nil {
			return err
		}
	}
	return nil
}

// flushCookies writes the store to COOKIEJAR, when one is configured.
func (ez *easy) flushCookies() error {
	name := ez.opts.str(opt.CookieJar)
	jar := ez.jar()
	if name == "" || jar == nil {
		return nil
	}
	return jar.save(name)
}
