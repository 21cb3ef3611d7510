// Package urlapi owns a native URL handle for parsing, editing and
// rendering URLs the way the transfer library understands them.
//
//	u, err := urlapi.Parse("https://example.com/a/../b?x=1", 0)
//	if err != nil {
//	    return err
//	}
//	defer u.Close()
//	u.Set(urlapi.Query, "y=2", urlapi.AppendQuery|urlapi.Encode)
//	s, _ := u.Get(urlapi.Full, 0) // https://example.com/b?x=1&y=2
package urlapi

import (
	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/resource"
	"github.com/kbukum/xfer/status"
)

// Part selects a URL component.
type Part = native.URLPart

// URL parts.
const (
	Full     = native.URLPartURL
	Scheme   = native.URLPartScheme
	User     = native.URLPartUser
	Password = native.URLPartPassword
	Options  = native.URLPartOptions
	Host     = native.URLPartHost
	Port     = native.URLPartPort
	Path     = native.URLPartPath
	Query    = native.URLPartQuery
	Fragment = native.URLPartFragment
	ZoneID   = native.URLPartZoneID
)

// Flags modify Set and Get.
type Flags = native.URLFlags

// URL flags.
const (
	DefaultPort      = native.URLDefaultPort
	NoDefaultPort    = native.URLNoDefaultPort
	DefaultScheme    = native.URLDefaultScheme
	NonSupportScheme = native.URLNonSupportScheme
	PathAsIs         = native.URLPathAsIs
	DisallowUser     = native.URLDisallowUser
	Decode           = native.URLDecode
	Encode           = native.URLEncode
	AppendQuery      = native.URLAppendQuery
	GuessScheme      = native.URLGuessScheme
	NoAuthority      = native.URLNoAuthority
)

// URL owns a native URL handle.
type URL struct {
	lib native.Library
	own *resource.Owned[native.URL]
}

// Option configures a URL.
type Option func(*URL)

// WithLibrary backs the URL with lib instead of the default library.
func WithLibrary(lib native.Library) Option {
	return func(u *URL) { u.lib = lib }
}

// New allocates an empty URL handle.
func New(opts ...Option) (*URL, error) {
	u := &URL{}
	for _, o := range opts {
		o(u)
	}
	if u.lib == nil {
		lib, err := native.Default()
		if err != nil {
			return nil, err
		}
		u.lib = lib
	}
	return u.wrap(u.lib.URLInit())
}

func (u *URL) wrap(raw native.URL) (*URL, error) {
	if raw == 0 {
		return nil, errors.OutOfMemory("url handle")
	}
	return &URL{lib: u.lib, own: resource.Acquire(raw, u.lib.URLCleanup)}, nil
}

// Parse returns a handle holding raw.
func Parse(raw string, flags Flags, opts ...Option) (*URL, error) {
	u, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := u.Set(Full, raw, flags); err != nil {
		u.Close()
		return nil, err
	}
	return u, nil
}

func (u *URL) raw() (native.URL, error) {
	raw := u.own.Get()
	if raw == 0 {
		return 0, errors.Released("url handle")
	}
	return raw, nil
}

// Set replaces one part. Setting Full parses value, resolving it against
// the current URL when it is relative.
func (u *URL) Set(part Part, value string, flags Flags) error {
	return u.set(part, &value, flags)
}

// Clear removes one part. Clearing Full empties the handle.
func (u *URL) Clear(part Part) error {
	return u.set(part, nil, 0)
}

func (u *URL) set(part Part, value *string, flags Flags) error {
	raw, err := u.raw()
	if err != nil {
		return err
	}
	return status.Check(u.lib.URLSet(raw, part, value, flags))
}

// Get returns one part. A missing part fails with its NO_* code.
func (u *URL) Get(part Part, flags Flags) (string, error) {
	raw, err := u.raw()
	if err != nil {
		return "", err
	}
	v, code := u.lib.URLGet(raw, part, flags)
	if err := status.Check(code); err != nil {
		return "", err
	}
	return v, nil
}

// String renders the full URL, or "" when the handle cannot form one.
func (u *URL) String() string {
	s, _ := u.Get(Full, 0)
	return s
}

// Duplicate returns an independent copy.
func (u *URL) Duplicate() (*URL, error) {
	raw, err := u.raw()
	if err != nil {
		return nil, err
	}
	return u.wrap(u.lib.URLDup(raw))
}

// Close releases the handle. Closing twice is a no-op.
func (u *URL) Close() error {
	return u.own.Close()
}
