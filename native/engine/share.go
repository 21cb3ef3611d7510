package engine

import (
	"crypto/tls"
	"sync"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

// shareState is the data a share handle lends to the easy handles attached
// to it.
type shareState struct {
	mu       sync.Mutex
	locks    map[proto.LockData]bool
	users    int
	jar      *cookieStore
	dns      *dnsCache
	pool     *connPool
	sessions tls.ClientSessionCache
}

func (s *shareState) has(d proto.LockData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locks[d]
}

func (s *shareState) cookieJar() *cookieStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locks[proto.LockDataCookie] {
		return nil
	}
	return s.jar
}

func (e *Engine) shareState(sh native.Share) (*shareState, bool) {
	return lookup[*shareState](e.objects, uintptr(sh), KindShare)
}

// ShareInit allocates a share handle with nothing shared.
func (e *Engine) ShareInit() native.Share {
	return native.Share(e.objects.alloc(KindShare, &shareState{locks: make(map[proto.LockData]bool)}))
}

// ShareCleanup releases sh. A share still attached to easy handles is kept
// and ShareInUse returned.
func (e *Engine) ShareCleanup(sh native.Share) status.ShareCode {
	s, ok := e.shareState(sh)
	if !ok {
		return status.ShareInvalid
	}
	s.mu.Lock()
	users := s.users
	s.mu.Unlock()
	if users > 0 {
		return status.ShareInUse
	}
	if s.pool != nil {
		s.pool.close()
	}
	e.objects.drop(uintptr(sh), KindShare)
	return status.ShareOK
}

// ShareSetopt starts or stops sharing one kind of data. Options cannot be
// changed while easy handles are attached.
func (e *Engine) ShareSetopt(sh native.Share, o native.ShareOption, data proto.LockData) status.ShareCode {
	s, ok := e.shareState(sh)
	if !ok {
		return status.ShareInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.users > 0 {
		return status.ShareInUse
	}
	switch data {
	case proto.LockDataCookie, proto.LockDataDNS, proto.LockDataSSLSession, proto.LockDataConnect:
	case proto.LockDataPSL:
		return status.ShareNotBuiltIn
	default:
		return status.ShareBadOption
	}

	switch o {
	case native.ShareOptShare:
		s.locks[data] = true
		switch data {
		case proto.LockDataCookie:
			if s.jar == nil {
				s.jar = newCookieStore()
			}
		case proto.LockDataDNS:
			if s.dns == nil {
				s.dns = newDNSCache()
			}
		case proto.LockDataConnect:
			if s.pool == nil {
				s.pool = newConnPool()
			}
		case proto.LockDataSSLSession:
			if s.sessions == nil {
				s.sessions = tls.NewLRUClientSessionCache(0)
			}
		}
	case native.ShareOptUnshare:
		delete(s.locks, data)
		switch data {
		case proto.LockDataCookie:
			s.jar = nil
		case proto.LockDataDNS:
			s.dns = nil
		case proto.LockDataConnect:
			if s.pool != nil {
				s.pool.close()
				s.pool = nil
			}
		case proto.LockDataSSLSession:
			s.sessions = nil
		}
	default:
		return status.ShareBadOption
	}
	return status.ShareOK
}

func (ez *easy) attachShare(e *Engine, sh native.Share) status.Code {
	if sh == 0 {
		ez.detachShare()
		return status.OK
	}
	s, ok := e.shareState(sh)
	if !ok {
		return status.BadFunctionArgument
	}
	if s == ez.share {
		return status.OK
	}
	ez.detachShare()

	s.mu.Lock()
	s.users++
	shared := s.locks[proto.LockDataCookie]
	jar := s.jar
	s.mu.Unlock()

	// Cookies the handle already holds move into the shared store.
	if shared && ez.cookies != nil && jar != nil {
		for _, l := range ez.cookies.lines() {
			jar.add(l, false)
		}
	}
	ez.share = s
	return status.OK
}

func (ez *easy) detachShare() {
	s := ez.share
	if s == nil {
		return
	}
	if jar := s.cookieJar(); jar != nil && ez.opts.str(opt.CookieJar) != "" {
		ez.enableCookies()
		for _, l := range jar.lines() {
			ez.cookies.add(l, false)
		}
	}
	s.mu.Lock()
	s.users--
	s.mu.Unlock()
	ez.share = nil
}

// dnsCacheFor returns the resolver cache in effect for the handle.
func (ez *easy) dnsCacheFor() *dnsCache {
	if s := ez.share; s != nil && s.has(proto.LockDataDNS) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.dns
	}
	return ez.dns
}

func (ez *easy) poolFor() *connPool {
	if s := ez.share; s != nil && s.has(proto.LockDataConnect) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.pool
	}
	if ez.shared != nil {
		return ez.shared
	}
	return ez.pool
}

func (ez *easy) sessionCache() tls.ClientSessionCache {
	if s := ez.share; s != nil && s.has(proto.LockDataSSLSession) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions
	}
	return nil
}
