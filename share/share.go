// Package share owns a native share handle, which lets several transfer
// handles use one cookie store, DNS cache, TLS session cache or connection
// pool.
//
//	s, err := share.New()
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	if err := s.Share(proto.LockDataCookie); err != nil {
//	    return err
//	}
//	a.SetShare(opt.Share, s)
//	b.SetShare(opt.Share, s)
//
// A share cannot be reconfigured or closed while handles are attached to it.
package share

import (
	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/resource"
	"github.com/kbukum/xfer/status"
)

// Share owns a native share handle.
type Share struct {
	lib native.Library
	own *resource.Owned[native.Share]
}

// Option configures a Share.
type Option func(*Share)

// WithLibrary backs the share with lib instead of the default library.
func WithLibrary(lib native.Library) Option {
	return func(s *Share) { s.lib = lib }
}

// New allocates a share that shares nothing yet.
func New(opts ...Option) (*Share, error) {
	s := &Share{}
	for _, o := range opts {
		o(s)
	}
	if s.lib == nil {
		lib, err := native.Default()
		if err != nil {
			return nil, err
		}
		s.lib = lib
	}
	raw := s.lib.ShareInit()
	if raw == 0 {
		return nil, errors.OutOfMemory("share handle")
	}
	// Close runs ShareCleanup itself to report IN_USE.
	s.own = resource.Acquire[native.Share](raw, nil)
	return s, nil
}

// Library returns the library that allocated the share.
func (s *Share) Library() native.Library { return s.lib }

// Raw returns the native share handle, or 0 after Close.
func (s *Share) Raw() native.Share { return s.own.Get() }

// Share starts sharing data of kind d.
func (s *Share) Share(d proto.LockData) error {
	return s.setopt(native.ShareOptShare, d)
}

// Unshare stops sharing data of kind d.
func (s *Share) Unshare(d proto.LockData) error {
	return s.setopt(native.ShareOptUnshare, d)
}

func (s *Share) setopt(o native.ShareOption, d proto.LockData) error {
	raw := s.own.Get()
	if raw == 0 {
		return errors.Released("share handle")
	}
	if err := status.Check(s.lib.ShareSetopt(raw, o, d)); err != nil {
		return err.(*errors.AppError).WithDetail("lock_data", d.String())
	}
	return nil
}

// Close releases the share. It fails with IN_USE, keeping the share
// open, while transfer handles are still attached.
func (s *Share) Close() error {
	raw := s.own.Get()
	if raw == 0 {
		return nil
	}
	if err := status.Check(s.lib.ShareCleanup(raw)); err != nil {
		return err
	}
	s.own.Take()
	return nil
}
