package profile

import (
	"crypto/tls"
	"time"

	"github.com/kbukum/xfer/easy"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/security"
	"github.com/kbukum/xfer/slist"
	"github.com/kbukum/xfer/validation"
	"github.com/kbukum/xfer/version"
)

// DefaultMaxRedirs is the redirect limit applied when FollowRedirects is set
// and MaxRedirs is not.
const DefaultMaxRedirs int64 = 30

// Profile is a named set of transfer settings.
type Profile struct {
	UserAgent string   `yaml:"user_agent" mapstructure:"user_agent"`
	Headers   []string `yaml:"headers" mapstructure:"headers" validate:"dive,header"`
	Referer   string   `yaml:"referer" mapstructure:"referer" validate:"omitempty,scheme"`

	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gte=0"`

	FollowRedirects bool `yaml:"follow_redirects" mapstructure:"follow_redirects"`
	// MaxRedirs of -1 means unlimited. Nil applies DefaultMaxRedirs.
	MaxRedirs *int64 `yaml:"max_redirs" mapstructure:"max_redirs" validate:"omitempty,gte=-1"`

	// HTTPVersion is one of "1.1", "2", "2-tls" or "2-prior-knowledge".
	HTTPVersion string `yaml:"http_version" mapstructure:"http_version" validate:"omitempty,oneof=1.1 2 2-tls 2-prior-knowledge"`
	// Compressed requests every supported content encoding and decodes the
	// response.
	Compressed  bool `yaml:"compressed" mapstructure:"compressed"`
	FailOnError bool `yaml:"fail_on_error" mapstructure:"fail_on_error"`

	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Bearer   string `yaml:"bearer" mapstructure:"bearer"`

	Proxy   string `yaml:"proxy" mapstructure:"proxy" validate:"omitempty,scheme=http https socks5 socks5h"`
	NoProxy string `yaml:"no_proxy" mapstructure:"no_proxy"`

	// Resolve entries are "host:port:address".
	Resolve []string `yaml:"resolve" mapstructure:"resolve"`

	// Byte per second limits; zero means unlimited.
	MaxRecvSpeed int64 `yaml:"max_recv_speed" mapstructure:"max_recv_speed" validate:"gte=0"`
	MaxSendSpeed int64 `yaml:"max_send_speed" mapstructure:"max_send_speed" validate:"gte=0"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// Default returns a profile identifying as this build.
func Default() Profile {
	return Profile{UserAgent: version.UserAgent()}
}

// Validate checks the profile without touching any handle.
func (p *Profile) Validate() error {
	if err := validation.Validate(p); err != nil {
		return err
	}
	v := validation.New().
		Custom(p.TLS.ServerName == "", "tls.server_name", "is not supported; use resolve instead").
		Custom(p.Bearer == "" || p.Username == "", "bearer", "cannot be combined with username")
	if err := p.TLS.Validate(); err != nil {
		v.AddError("tls", err.Error())
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Applied holds the native lists a profile attached to a handle. Keep it
// open until the handle stops performing.
type Applied struct {
	lists []*slist.List
}

// Close releases the attached lists.
func (a *Applied) Close() error {
	if a == nil {
		return nil
	}
	for _, l := range a.lists {
		_ = l.Close()
	}
	a.lists = nil
	return nil
}

// Apply validates p and configures h with it. Settings left at their zero
// value are not applied, so the handle keeps its defaults for them.
func (p *Profile) Apply(h *easy.Handle) (*Applied, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a := &Applied{}
	if err := p.apply(h, a); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (p *Profile) apply(h *easy.Handle, a *Applied) error {
	s := setter{h: h}

	s.str(opt.UserAgent, p.UserAgent)
	s.str(opt.Referer, p.Referer)
	s.dur(opt.TimeoutMS, p.Timeout)
	s.dur(opt.ConnectTimeoutMS, p.ConnectTimeout)

	if p.FollowRedirects {
		s.flag(opt.FollowLocation, true)
		maxRedirs := DefaultMaxRedirs
		if p.MaxRedirs != nil {
			maxRedirs = *p.MaxRedirs
		}
		s.long(opt.MaxRedirs, maxRedirs)
	}
	if p.HTTPVersion != "" {
		s.long(opt.HTTPVersion, int64(httpVersions[p.HTTPVersion]))
	}
	if p.Compressed {
		// Empty means every encoding the library supports.
		if s.err == nil {
			s.err = h.SetString(opt.AcceptEncoding, "")
		}
		s.flag(opt.HTTPContentDecoding, true)
	}
	if p.FailOnError {
		s.flag(opt.FailOnError, true)
	}

	if p.Username != "" {
		s.str(opt.Username, p.Username)
		s.str(opt.Password, p.Password)
	}
	if p.Bearer != "" {
		s.str(opt.XOAuth2Bearer, p.Bearer)
		s.long(opt.HTTPAuth, proto.AuthBearer)
	}

	s.str(opt.Proxy, p.Proxy)
	s.str(opt.NoProxy, p.NoProxy)

	if p.MaxRecvSpeed > 0 {
		s.offT(opt.MaxRecvSpeedLarge, p.MaxRecvSpeed)
	}
	if p.MaxSendSpeed > 0 {
		s.offT(opt.MaxSendSpeedLarge, p.MaxSendSpeed)
	}

	p.applyTLS(&s)

	if p.Verbose {
		s.flag(opt.Verbose, true)
	}
	if s.err != nil {
		return s.err
	}

	if err := attachList(h, a, opt.HTTPHeader, p.Headers); err != nil {
		return err
	}
	return attachList(h, a, opt.Resolve, p.Resolve)
}

func (p *Profile) applyTLS(s *setter) {
	t := p.TLS
	if t.SkipVerify {
		s.flag(opt.SSLVerifyPeer, false)
	}
	if t.SkipHostVerify {
		s.flag(opt.SSLVerifyHost, false)
	}
	s.str(opt.CAInfo, t.CAFile)
	s.str(opt.CAPath, t.CAPath)
	s.str(opt.SSLCert, t.CertFile)
	s.str(opt.SSLKey, t.KeyFile)
	s.str(opt.PinnedPublicKey, t.PinnedPublicKey)
	if t.MinVersion != 0 || t.MaxVersion != 0 {
		s.long(opt.SSLVersion, sslVersion(t.MinVersion)|sslVersion(t.MaxVersion)<<16)
	}
}

var httpVersions = map[string]proto.HTTPVersion{
	"1.1":               proto.HTTPVersion1_1,
	"2":                 proto.HTTPVersion2_0,
	"2-tls":             proto.HTTPVersion2TLS,
	"2-prior-knowledge": proto.HTTPVersion2PriorKnowledge,
}

// sslVersion encodes a crypto/tls version as a CURL_SSLVERSION value.
func sslVersion(v uint16) int64 {
	switch v {
	case tls.VersionTLS10:
		return 4
	case tls.VersionTLS11:
		return 5
	case tls.VersionTLS12:
		return 6
	case tls.VersionTLS13:
		return 7
	default:
		return 0
	}
}

func attachList(h *easy.Handle, a *Applied, o opt.List, values []string) error {
	if len(values) == 0 {
		return nil
	}
	l, err := slist.New(slist.WithLibrary(h.Library()))
	if err != nil {
		return err
	}
	a.lists = append(a.lists, l)
	for _, v := range values {
		if err := l.Append(v); err != nil {
			return err
		}
	}
	return h.SetList(o, l)
}

// setter applies options until the first failure.
type setter struct {
	h   *easy.Handle
	err error
}

func (s *setter) str(o opt.String, v string) {
	if s.err == nil && v != "" {
		s.err = s.h.SetString(o, v)
	}
}

func (s *setter) long(o opt.Long, v int64) {
	if s.err == nil {
		s.err = s.h.SetLong(o, v)
	}
}

func (s *setter) flag(o opt.Bool, v bool) {
	if s.err == nil {
		s.err = s.h.SetBool(o, v)
	}
}

func (s *setter) offT(o opt.OffT, v int64) {
	if s.err == nil {
		s.err = s.h.SetOffT(o, v)
	}
}

func (s *setter) dur(o opt.Duration, d time.Duration) {
	if s.err == nil && d > 0 {
		s.err = s.h.SetDuration(o, d)
	}
}

// Merge overlays the non-zero settings of o onto p.
func (p *Profile) Merge(o Profile) {
	if o.UserAgent != "" {
		p.UserAgent = o.UserAgent
	}
	p.Headers = append(p.Headers, o.Headers...)
	if o.Referer != "" {
		p.Referer = o.Referer
	}
	if o.Timeout != 0 {
		p.Timeout = o.Timeout
	}
	if o.ConnectTimeout != 0 {
		p.ConnectTimeout = o.ConnectTimeout
	}
	p.FollowRedirects = p.FollowRedirects || o.FollowRedirects
	if o.MaxRedirs != nil {
		p.MaxRedirs = o.MaxRedirs
	}
	if o.HTTPVersion != "" {
		p.HTTPVersion = o.HTTPVersion
	}
	p.Compressed = p.Compressed || o.Compressed
	p.FailOnError = p.FailOnError || o.FailOnError
	if o.Username != "" {
		p.Username, p.Password = o.Username, o.Password
	}
	if o.Bearer != "" {
		p.Bearer = o.Bearer
	}
	if o.Proxy != "" {
		p.Proxy = o.Proxy
	}
	if o.NoProxy != "" {
		p.NoProxy = o.NoProxy
	}
	p.Resolve = append(p.Resolve, o.Resolve...)
	if o.MaxRecvSpeed != 0 {
		p.MaxRecvSpeed = o.MaxRecvSpeed
	}
	if o.MaxSendSpeed != 0 {
		p.MaxSendSpeed = o.MaxSendSpeed
	}
	if o.TLS.IsEnabled() {
		p.TLS = o.TLS
	}
	p.Verbose = p.Verbose || o.Verbose
}
