package engine

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/security"
)

var (
	errInterface   = errors.New("engine: failed to bind local interface")
	errProxyScheme = errors.New("engine: unsupported proxy scheme")
	errProxyURL    = errors.New("engine: malformed proxy")
)

type dnsEntry struct {
	addrs   []string
	expires time.Time
}

// dnsCache remembers resolved host addresses for DNS_CACHE_TIMEOUT seconds.
type dnsCache struct {
	mu       sync.Mutex
	entries  map[string]dnsEntry
	resolver *net.Resolver
	now      func() time.Time
}

func newDNSCache() *dnsCache {
	return &dnsCache{
		entries:  make(map[string]dnsEntry),
		resolver: net.DefaultResolver,
		now:      time.Now,
	}
}

// lookup resolves host. A negative ttl caches forever, zero disables caching.
func (c *dnsCache) lookup(ctx context.Context, host string, ttl time.Duration) ([]string, error) {
	key := strings.ToLower(host)
	if ttl != 0 {
		c.mu.Lock()
		e, ok := c.entries[key]
		c.mu.Unlock()
		if ok && (ttl < 0 || c.now().Before(e.expires)) {
			return e.addrs, nil
		}
	}

	addrs, err := c.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}
	if ttl != 0 {
		c.mu.Lock()
		c.entries[key] = dnsEntry{addrs: addrs, expires: c.now().Add(ttl)}
		c.mu.Unlock()
	}
	return addrs, nil
}

// connPool caches transports, and so their idle connections, per
// connection-relevant configuration.
type connPool struct {
	mu         sync.Mutex
	transports map[transportKey]http.RoundTripper
}

func newConnPool() *connPool {
	return &connPool{transports: make(map[transportKey]http.RoundTripper)}
}

func (p *connPool) get(k transportKey, build func() (http.RoundTripper, error)) (http.RoundTripper, error) {
	if k.fresh {
		return build()
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if rt, ok := p.transports[k]; ok {
		return rt, nil
	}
	rt, err := build()
	if err != nil {
		return nil, err
	}
	p.transports[k] = rt
	return rt, nil
}

func (p *connPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, rt := range p.transports {
		closeIdle(rt)
		delete(p.transports, k)
	}
}

func closeIdle(rt http.RoundTripper) {
	if c, ok := rt.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

// transportKey is the part of a handle's configuration that shapes its
// connections. Lists are joined with newlines.
type transportKey struct {
	proxySet     bool
	proxy        string
	proxyType    int64
	proxyPort    int64
	proxyUser    string
	proxyPass    string
	proxyHeaders string
	noProxy      string

	caInfo, caPath string
	cert, key      string
	pinned         string
	verifyPeer     bool
	verifyHost     bool
	sslVersion     int64
	unixSocket     string
	resolve        string
	connectTo      string
	iface          string
	localPort      int64
	ipResolve      int64
	httpVersion    proto.HTTPVersion
	keepAlive      bool
	keepIdle       int64
	noDelay        bool
	connectTimeout time.Duration
	dnsTTL         time.Duration
	forbidReuse    bool
	fresh          bool
	dns            *dnsCache
	sessions       tls.ClientSessionCache
}

func (ez *easy) transportKey() transportKey {
	o := &ez.opts
	ttl := time.Duration(o.long(native.Option(opt.DNSCacheTimeout))) * time.Second
	if ttl < 0 {
		ttl = -1
	}
	return transportKey{
		proxySet:       o.hasStr(opt.Proxy),
		proxy:          o.str(opt.Proxy),
		proxyType:      o.long(native.Option(opt.ProxyType)),
		proxyPort:      o.long(native.Option(opt.ProxyPort)),
		proxyUser:      o.str(opt.ProxyUsername),
		proxyPass:      o.str(opt.ProxyPassword),
		proxyHeaders:   strings.Join(o.list(opt.ProxyHeader), "\n"),
		noProxy:        o.str(opt.NoProxy),
		caInfo:         o.str(opt.CAInfo),
		caPath:         o.str(opt.CAPath),
		cert:           o.str(opt.SSLCert),
		key:            o.str(opt.SSLKey),
		pinned:         o.str(opt.PinnedPublicKey),
		verifyPeer:     o.flag(opt.SSLVerifyPeer),
		verifyHost:     o.flag(opt.SSLVerifyHost),
		sslVersion:     o.long(native.Option(opt.SSLVersion)),
		unixSocket:     o.str(opt.UnixSocketPath),
		resolve:        strings.Join(o.list(opt.Resolve), "\n"),
		connectTo:      strings.Join(o.list(opt.ConnectTo), "\n"),
		iface:          o.str(opt.Interface),
		localPort:      o.long(native.Option(opt.LocalPort)),
		ipResolve:      o.long(native.Option(opt.IPResolve)),
		httpVersion:    proto.HTTPVersion(o.long(native.Option(opt.HTTPVersion))),
		keepAlive:      o.flag(opt.TCPKeepAlive),
		keepIdle:       o.long(native.Option(opt.TCPKeepIdle)),
		noDelay:        o.flag(opt.TCPNoDelay),
		connectTimeout: time.Duration(o.long(native.Option(opt.ConnectTimeoutMS))) * time.Millisecond,
		dnsTTL:         ttl,
		forbidReuse:    o.flag(opt.ForbidReuse),
		fresh:          o.flag(opt.FreshConnect),
		dns:            ez.dnsCacheFor(),
		sessions:       ez.sessionCache(),
	}
}

// tlsConfig maps the handle's TLS options onto security.TLSConfig.
func (k transportKey) tlsConfig() (*tls.Config, error) {
	c := security.TLSConfig{
		SkipVerify:      !k.verifyPeer,
		SkipHostVerify:  !k.verifyHost,
		CAFile:          k.caInfo,
		CAPath:          k.caPath,
		CertFile:        k.cert,
		KeyFile:         k.key,
		PinnedPublicKey: k.pinned,
		SessionCache:    k.sessions,
	}
	c.MinVersion, c.MaxVersion = tlsVersions(k.sslVersion)
	cfg, err := c.Build()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return cfg, nil
}

// tlsVersions decodes an SSLVERSION value: the minimum in the low 16 bits,
// the maximum in the high ones.
func tlsVersions(v int64) (minV, maxV uint16) {
	versions := map[int64]uint16{
		1: tls.VersionTLS10,
		4: tls.VersionTLS10,
		5: tls.VersionTLS11,
		6: tls.VersionTLS12,
		7: tls.VersionTLS13,
	}
	minV = versions[v&0xffff]
	maxV = versions[v>>16]
	if maxV != 0 && minV > maxV {
		maxV = minV
	}
	return minV, maxV
}

// dialer opens connections honoring UNIX_SOCKET_PATH, CONNECT_TO, RESOLVE,
// IPRESOLVE and the DNS cache.
type dialer struct {
	net       *net.Dialer
	network   string
	unix      string
	resolve   map[string][]string
	connectTo []connectRule
	dns       *dnsCache
	dnsTTL    time.Duration
	noDelay   bool
}

type connectRule struct {
	host, port     string
	toHost, toPort string
}

func (d *dialer) Dial(network, addr string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, addr)
}

func (d *dialer) DialContext(ctx context.Context, _, addr string) (net.Conn, error) {
	if d.unix != "" {
		return d.net.DialContext(ctx, "unix", d.unix)
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	host, port = d.redirect(host, port)

	addrs, ok := d.resolve[strings.ToLower(host)+":"+port]
	if !ok {
		if net.ParseIP(host) != nil {
			addrs = []string{host}
		} else if addrs, err = d.dns.lookup(ctx, host, d.dnsTTL); err != nil {
			return nil, err
		}
	}
	addrs = d.family(addrs)
	if len(addrs) == 0 {
		return nil, &net.DNSError{Err: "no suitable address", Name: host, IsNotFound: true}
	}

	var lastErr error
	for _, a := range addrs {
		conn, err := d.net.DialContext(ctx, d.network, net.JoinHostPort(a, port))
		if err == nil {
			if tc, ok := conn.(*net.TCPConn); ok && !d.noDelay {
				_ = tc.SetNoDelay(false)
			}
			return conn, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (d *dialer) redirect(host, port string) (string, string) {
	for _, r := range d.connectTo {
		if (r.host == "" || strings.EqualFold(r.host, host)) && (r.port == "" || r.port == port) {
			if r.toHost != "" {
				host = r.toHost
			}
			if r.toPort != "" {
				port = r.toPort
			}
			return host, port
		}
	}
	return host, port
}

func (d *dialer) family(addrs []string) []string {
	if d.network == "tcp" {
		return addrs
	}
	out := addrs[:0:0]
	for _, a := range addrs {
		ip := net.ParseIP(a)
		if ip == nil {
			continue
		}
		if (ip.To4() != nil) == (d.network == "tcp4") {
			out = append(out, a)
		}
	}
	return out
}

// splitHostField cuts one host field, which may be a bracketed IPv6
// literal, off the front of s.
func splitHostField(s string) (field, rest string) {
	if strings.HasPrefix(s, "[") {
		if end := strings.IndexByte(s, ']'); end > 0 {
			field = s[1:end]
			rest = strings.TrimPrefix(s[end+1:], ":")
			return field, rest
		}
	}
	field, rest, _ = strings.Cut(s, ":")
	return field, rest
}

// parseResolve reads RESOLVE entries of the form HOST:PORT:ADDR[,ADDR].
// Removal entries ("-HOST:PORT") have nothing to remove from a fresh map.
func parseResolve(entries string) map[string][]string {
	out := make(map[string][]string)
	for _, e := range strings.Split(entries, "\n") {
		e = strings.TrimPrefix(strings.TrimSpace(e), "+")
		if e == "" || e[0] == '-' {
			continue
		}
		host, rest := splitHostField(e)
		port, addrList, ok := strings.Cut(rest, ":")
		if !ok || host == "" {
			continue
		}
		var addrs []string
		for _, a := range strings.Split(addrList, ",") {
			a = strings.Trim(strings.TrimSpace(a), "[]")
			if net.ParseIP(a) != nil {
				addrs = append(addrs, a)
			}
		}
		if len(addrs) > 0 {
			out[strings.ToLower(host)+":"+port] = addrs
		}
	}
	return out
}

// parseConnectTo reads CONNECT_TO entries of the form
// HOST:PORT:CONNECT-TO-HOST:CONNECT-TO-PORT; empty fields match anything.
func parseConnectTo(entries string) []connectRule {
	var out []connectRule
	for _, e := range strings.Split(entries, "\n") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		var r connectRule
		var rest string
		r.host, rest = splitHostField(e)
		r.port, rest, _ = strings.Cut(rest, ":")
		r.toHost, rest = splitHostField(rest)
		r.toPort = rest
		out = append(out, r)
	}
	return out
}

func (k transportKey) localAddr() (net.Addr, error) {
	port := int(k.localPort)
	if k.iface == "" {
		if port > 0 {
			return &net.TCPAddr{Port: port}, nil
		}
		return nil, nil
	}
	name := k.iface
	for _, prefix := range []string{"if!", "host!"} {
		name = strings.TrimPrefix(name, prefix)
	}
	if ip := net.ParseIP(name); ip != nil {
		return &net.TCPAddr{IP: ip, Port: port}, nil
	}
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInterface, err)
	}
	addrs, err := ifi.Addrs()
	if err != nil || len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %s has no address", errInterface, name)
	}
	ipn, ok := addrs[0].(*net.IPNet)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errInterface, name)
	}
	return &net.TCPAddr{IP: ipn.IP, Port: port}, nil
}

func (k transportKey) dialer() (*dialer, error) {
	local, err := k.localAddr()
	if err != nil {
		return nil, err
	}
	keepAlive := time.Duration(-1)
	if k.keepAlive {
		keepAlive = time.Duration(k.keepIdle) * time.Second
		if keepAlive <= 0 {
			keepAlive = 60 * time.Second
		}
	}
	network := "tcp"
	switch k.ipResolve {
	case 1:
		network = "tcp4"
	case 2:
		network = "tcp6"
	}
	dns := k.dns
	if dns == nil {
		dns = newDNSCache()
	}
	return &dialer{
		net: &net.Dialer{
			Timeout:   k.connectTimeout,
			KeepAlive: keepAlive,
			LocalAddr: local,
		},
		network:   network,
		unix:      k.unixSocket,
		resolve:   parseResolve(k.resolve),
		connectTo: parseConnectTo(k.connectTo),
		dns:       dns,
		dnsTTL:    k.dnsTTL,
		noDelay:   k.noDelay,
	}, nil
}

// proxyURL returns the configured proxy or nil for none. fromEnv reports
// that PROXY was never set and the environment decides.
func (k transportKey) proxyURL() (u *url.URL, fromEnv bool, err error) {
	if !k.proxySet {
		return nil, true, nil
	}
	if k.proxy == "" {
		return nil, false, nil
	}
	raw := k.proxy
	if !strings.Contains(raw, "://") {
		scheme := "http"
		switch k.proxyType {
		case 2:
			scheme = "https"
		case 4, 6:
			scheme = "socks4"
		case 5:
			scheme = "socks5"
		case 7:
			scheme = "socks5h"
		}
		raw = scheme + "://" + raw
	}
	u, err = url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false, fmt.Errorf("%w: %q", errProxyURL, k.proxy)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, false, fmt.Errorf("%w: %s", errProxyScheme, u.Scheme)
	}
	if k.proxyPort > 0 {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.FormatInt(k.proxyPort, 10))
	} else if u.Port() == "" {
		port := "1080"
		if u.Scheme == "https" {
			port = "443"
		}
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	if k.proxyUser != "" || k.proxyPass != "" {
		u.User = url.UserPassword(k.proxyUser, k.proxyPass)
	}
	return u, false, nil
}

// bypass reports whether NOPROXY exempts host.
func (k transportKey) bypass(host string) bool {
	host = strings.ToLower(host)
	for _, n := range strings.Split(k.noProxy, ",") {
		n = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(n), "."))
		switch {
		case n == "":
		case n == "*":
			return true
		case host == n, strings.HasSuffix(host, "."+n):
			return true
		}
	}
	return false
}

func proxyHeader(lines string) http.Header {
	if lines == "" {
		return nil
	}
	h := make(http.Header)
	for _, l := range strings.Split(lines, "\n") {
		if name, value, ok := strings.Cut(l, ":"); ok {
			h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}
	return h
}

// build creates the round tripper for k.
func (k transportKey) build() (http.RoundTripper, error) {
	d, err := k.dialer()
	if err != nil {
		return nil, err
	}
	tlsCfg, err := k.tlsConfig()
	if err != nil {
		return nil, err
	}
	proxyU, fromEnv, err := k.proxyURL()
	if err != nil {
		return nil, err
	}

	if k.httpVersion == proto.HTTPVersion2PriorKnowledge {
		return k.priorKnowledge(d, tlsCfg), nil
	}

	tr := &http.Transport{
		DialContext:           d.DialContext,
		TLSClientConfig:       tlsCfg,
		TLSHandshakeTimeout:   k.connectTimeout,
		DisableCompression:    true,
		DisableKeepAlives:     k.forbidReuse,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       118 * time.Second,
		ExpectContinueTimeout: time.Second,
		ProxyConnectHeader:    proxyHeader(k.proxyHeaders),
	}

	switch {
	case fromEnv:
		tr.Proxy = http.ProxyFromEnvironment
	case proxyU == nil:
	case strings.HasPrefix(proxyU.Scheme, "socks5"):
		var auth *proxy.Auth
		if proxyU.User != nil {
			pass, _ := proxyU.User.Password()
			auth = &proxy.Auth{User: proxyU.User.Username(), Password: pass}
		}
		socks, err := proxy.SOCKS5("tcp", proxyU.Host, auth, d)
		if err != nil {
			return nil, err
		}
		cd, ok := socks.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errProxyScheme, proxyU.Scheme)
		}
		tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, _ := net.SplitHostPort(addr)
			if k.bypass(host) {
				return d.DialContext(ctx, network, addr)
			}
			return cd.DialContext(ctx, network, addr)
		}
	default:
		tr.Proxy = func(r *http.Request) (*url.URL, error) {
			if k.bypass(r.URL.Hostname()) {
				return nil, nil
			}
			return proxyU, nil
		}
	}

	switch k.httpVersion {
	case proto.HTTPVersion1_0, proto.HTTPVersion1_1:
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	default:
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

// priorKnowledge speaks HTTP/2 without negotiation, in clear text for
// http:// URLs.
func (k transportKey) priorKnowledge(d *dialer, tlsCfg *tls.Config) http.RoundTripper {
	plain := &http2.Transport{
		AllowHTTP:          true,
		DisableCompression: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return d.DialContext(ctx, network, addr)
		},
	}
	secure := &http2.Transport{
		DisableCompression: true,
		TLSClientConfig:    tlsCfg,
		DialTLSContext: func(ctx context.Context, network, addr string, cfg *tls.Config) (net.Conn, error) {
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			tc := tls.Client(conn, cfg)
			if err := tc.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tc, nil
		},
	}
	return &h2Transport{plain: plain, secure: secure}
}

type h2Transport struct {
	plain, secure *http2.Transport
}

func (t *h2Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Scheme == "http" {
		return t.plain.RoundTrip(r)
	}
	return t.secure.RoundTrip(r)
}

func (t *h2Transport) CloseIdleConnections() {
	t.plain.CloseIdleConnections()
	t.secure.CloseIdleConnections()
}
