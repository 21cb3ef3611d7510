package engine

import (
	"time"

	"github.com/kbukum/xfer/info"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

// easy is the state behind one native.Handle.
type easy struct {
	opts options
	res  result

	cookies *cookieStore
	share   *shareState
	pool    *connPool
	dns     *dnsCache
	multi   native.Multi
	shared  *connPool

	log *logger.Logger
}

// result holds what the last perform learned.
type result struct {
	effectiveURL  string
	contentType   string
	redirectURL   string
	primaryIP     string
	localIP       string
	scheme        string
	responseCode  int64
	headerSize    int64
	requestSize   int64
	redirectCount int64
	numConnects   int64
	primaryPort   int64
	localPort     int64
	osErrno       int64
	verifyResult  int64
	condUnmet     bool
	protocol      proto.Protocol
	httpVersion   proto.HTTPVersion

	sizeUpload    int64
	sizeDownload  int64
	contentLenDL  int64
	contentLenUL  int64
	fileTime      int64
	speedDownload int64
	speedUpload   int64

	total, nameLookup, connect, appConnect, pretransfer, startTransfer, redirect time.Duration
}

func newResult() result {
	return result{contentLenDL: -1, contentLenUL: -1, fileTime: -1}
}

func newEasy(log *logger.Logger) *easy {
	return &easy{
		opts: newOptions(),
		res:  newResult(),
		pool: newConnPool(),
		dns:  newDNSCache(),
		log:  log,
	}
}

func (e *Engine) easy(h native.Handle) (*easy, bool) {
	return lookup[*easy](e.objects, uintptr(h), KindEasy)
}

// EasyInit allocates a transfer handle with default options.
func (e *Engine) EasyInit() native.Handle {
	return native.Handle(e.objects.alloc(KindEasy, newEasy(e.logger())))
}

// EasyCleanup releases h. A handle still attached to a multi is removed
// from it first; a configured cookie jar is written out.
func (e *Engine) EasyCleanup(h native.Handle) {
	ez, ok := e.easy(h)
	if !ok {
		return
	}
	if ez.multi != 0 {
		e.MultiRemoveHandle(ez.multi, h)
	}
	if err := ez.flushCookies(); err != nil {
		ez.log.WithError(err).Warn("failed to write cookie jar")
	}
	ez.detachShare()
	ez.pool.close()
	e.objects.drop(uintptr(h), KindEasy)
}

// EasyDuphandle copies the options of h into a new handle. Connections,
// cookies and share attachment are not inherited; a cookie engine that was
// enabled on h is enabled, empty, on the copy.
func (e *Engine) EasyDuphandle(h native.Handle) native.Handle {
	src, ok := e.easy(h)
	if !ok {
		return 0
	}
	dup := newEasy(src.log)
	dup.opts = src.opts.clone()
	dup.res = newResult()
	if src.cookies != nil {
		dup.cookies = newCookieStore()
	}
	return native.Handle(e.objects.alloc(KindEasy, dup))
}

// EasyReset restores every option of h to its default. Cookies, the share
// attachment and cached connections survive.
func (e *Engine) EasyReset(h native.Handle) {
	ez, ok := e.easy(h)
	if !ok {
		return
	}
	ez.opts = newOptions()
	ez.res = newResult()
}

// EasySetopt sets one option. The dynamic type of value must match the
// option's range: int64 for long and off_t options, string, native.List or
// native.Share for object options, the native callback types for function
// options. nil clears object and function options.
func (e *Engine) EasySetopt(h native.Handle, o native.Option, value any) status.Code {
	ez, ok := e.easy(h)
	if !ok {
		return status.BadFunctionArgument
	}
	return ez.setopt(e, o, value)
}

// EasyGetinfo stores one result into out, which must be *string, *int64,
// *float64 or *native.List according to the kind of i.
func (e *Engine) EasyGetinfo(h native.Handle, i native.Info, out any) status.Code {
	ez, ok := e.easy(h)
	if !ok {
		return status.BadFunctionArgument
	}
	switch i.Kind() {
	case native.InfoString:
		p, ok := out.(*string)
		if !ok || p == nil {
			return status.BadFunctionArgument
		}
		v, ok := ez.stringInfo(info.String(i))
		if !ok {
			return status.UnknownOption
		}
		*p = v
	case native.InfoLong:
		p, ok := out.(*int64)
		if !ok || p == nil {
			return status.BadFunctionArgument
		}
		v, ok := ez.longInfo(i)
		if !ok {
			return status.UnknownOption
		}
		*p = v
	case native.InfoDouble:
		p, ok := out.(*float64)
		if !ok || p == nil {
			return status.BadFunctionArgument
		}
		v, ok := ez.doubleInfo(i)
		if !ok {
			return status.UnknownOption
		}
		*p = v
	case native.InfoOffT:
		p, ok := out.(*int64)
		if !ok || p == nil {
			return status.BadFunctionArgument
		}
		v, ok := ez.offTInfo(i)
		if !ok {
			return status.UnknownOption
		}
		*p = v
	case native.InfoSList:
		p, ok := out.(*native.List)
		if !ok || p == nil {
			return status.BadFunctionArgument
		}
		var values []string
		switch info.List(i) {
		case info.SSLEngines:
		case info.CookieList:
			if jar := ez.jar(); jar != nil {
				values = jar.lines()
			}
		default:
			return status.UnknownOption
		}
		list, ok := e.newList(values)
		if !ok {
			return status.OutOfMemory
		}
		*p = list
	default:
		return status.UnknownOption
	}
	return status.OK
}

func (ez *easy) stringInfo(i info.String) (string, bool) {
	r := &ez.res
	switch i {
	case info.EffectiveURL:
		return r.effectiveURL, true
	case info.ContentType:
		return r.contentType, true
	case info.RedirectURL:
		return r.redirectURL, true
	case info.PrimaryIP:
		return r.primaryIP, true
	case info.LocalIP:
		return r.localIP, true
	case info.Scheme:
		return r.scheme, true
	case info.FTPEntryPath, info.RTSPSessionID:
		return "", true
	}
	return "", false
}

func (ez *easy) longInfo(i native.Info) (int64, bool) {
	r := &ez.res
	switch i {
	case native.Info(info.ResponseCode):
		return r.responseCode, true
	case native.Info(info.HeaderSize):
		return r.headerSize, true
	case native.Info(info.RequestSize):
		return r.requestSize, true
	case native.Info(info.SSLVerifyResult):
		return r.verifyResult, true
	case native.Info(info.RedirectCount):
		return r.redirectCount, true
	case native.Info(info.NumConnects):
		return r.numConnects, true
	case native.Info(info.OSErrno):
		return r.osErrno, true
	case native.Info(info.PrimaryPort):
		return r.primaryPort, true
	case native.Info(info.LocalPort):
		return r.localPort, true
	case native.Info(info.HTTPConnectCode), native.Info(info.ProxySSLVerifyResult),
		native.Info(info.RTSPClientCSeq), native.Info(info.RTSPServerCSeq), native.Info(info.RTSPCSeqRecv):
		return 0, true
	case native.Info(info.ConditionUnmet):
		if r.condUnmet {
			return 1, true
		}
		return 0, true
	case native.Info(info.Protocol):
		return int64(r.protocol), true
	case native.Info(info.HTTPVersion):
		return int64(r.httpVersion), true
	case native.Info(info.HTTPAuthAvail), native.Info(info.ProxyAuthAvail):
		return 0, true
	}
	return 0, false
}

func (ez *easy) offTInfo(i native.Info) (int64, bool) {
	r := &ez.res
	switch i {
	case native.Info(info.SizeUpload):
		return r.sizeUpload, true
	case native.Info(info.SizeDownload):
		return r.sizeDownload, true
	case native.Info(info.SpeedDownload):
		return r.speedDownload, true
	case native.Info(info.SpeedUpload):
		return r.speedUpload, true
	case native.Info(info.FileTime):
		return r.fileTime, true
	case native.Info(info.ContentLengthDownload):
		return r.contentLenDL, true
	case native.Info(info.ContentLengthUpload):
		return r.contentLenUL, true
	}
	if d, ok := ez.timing(i); ok {
		return d.Microseconds(), true
	}
	return 0, false
}

// doubleTable maps the legacy double queries onto their off_t variants.
var doubleTable = map[native.Info]native.Info{
	native.InfoDouble + 3:  native.Info(info.TotalTime),
	native.InfoDouble + 4:  native.Info(info.NameLookupTime),
	native.InfoDouble + 5:  native.Info(info.ConnectTime),
	native.InfoDouble + 6:  native.Info(info.PretransferTime),
	native.InfoDouble + 7:  native.Info(info.SizeUpload),
	native.InfoDouble + 8:  native.Info(info.SizeDownload),
	native.InfoDouble + 9:  native.Info(info.SpeedDownload),
	native.InfoDouble + 10: native.Info(info.SpeedUpload),
	native.InfoDouble + 15: native.Info(info.ContentLengthDownload),
	native.InfoDouble + 16: native.Info(info.ContentLengthUpload),
	native.InfoDouble + 17: native.Info(info.StartTransferTime),
	native.InfoDouble + 19: native.Info(info.RedirectTime),
	native.InfoDouble + 33: native.Info(info.AppConnectTime),
}

// doubleInfo reports timings in seconds and counters as floats.
func (ez *easy) doubleInfo(i native.Info) (float64, bool) {
	target, ok := doubleTable[i]
	if !ok {
		return 0, false
	}
	if d, ok := ez.timing(target); ok {
		return d.Seconds(), true
	}
	v, ok := ez.offTInfo(target)
	return float64(v), ok
}

func (ez *easy) timing(i native.Info) (time.Duration, bool) {
	r := &ez.res
	switch i {
	case native.Info(info.TotalTime):
		return r.total, true
	case native.Info(info.NameLookupTime):
		return r.nameLookup, true
	case native.Info(info.ConnectTime):
		return r.connect, true
	case native.Info(info.AppConnectTime):
		return r.appConnect, true
	case native.Info(info.PretransferTime):
		return r.pretransfer, true
	case native.Info(info.StartTransferTime):
		return r.startTransfer, true
	case native.Info(info.RedirectTime):
		return r.redirect, true
	}
	return 0, false
}
