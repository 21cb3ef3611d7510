//go:build libcurl

package libcurl

/*
#cgo pkg-config: libcurl
#include "shim.h"
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

// Name is the registry name of the binding.
const Name = "libcurl"

func init() {
	native.Register(Name, New())
	if err := native.SetDefault(Name); err != nil {
		panic(err)
	}
}

// easyState holds the Go callbacks of one easy handle. Native callbacks
// reach it through a cgo.Handle passed as their user data.
type easyState struct {
	self     cgo.Handle
	write    native.WriteFunc
	header   native.WriteFunc
	read     native.ReadFunc
	progress native.ProgressFunc
	debug    native.DebugFunc
}

// Library is the libcurl binding.
type Library struct {
	mu     sync.Mutex
	easies map[native.Handle]*easyState
}

var _ native.Library = (*Library)(nil)

// New creates a binding. All bindings share the process-wide libcurl.
func New() *Library {
	return &Library{easies: make(map[native.Handle]*easyState)}
}

func (l *Library) Name() string { return Name }

// Version returns the curl_version() string.
func (l *Library) Version() string { return C.GoString(C.curl_version()) }

func (l *Library) GlobalInit(flags proto.GlobalFlags) status.Code {
	return status.Code(C.curl_global_init(C.long(flags)))
}

func (l *Library) GlobalCleanup() { C.curl_global_cleanup() }

func easyPtr(h native.Handle) *C.CURL { return C.as_easy(C.uintptr_t(h)) }

func (l *Library) state(h native.Handle) (*easyState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.easies[h]
	return st, ok
}

func (l *Library) track(p *C.CURL) native.Handle {
	if p == nil {
		return 0
	}
	h := native.Handle(uintptr(unsafe.Pointer(p)))
	st := &easyState{}
	st.self = cgo.NewHandle(st)
	l.mu.Lock()
	l.easies[h] = st
	l.mu.Unlock()
	return h
}

func (l *Library) EasyInit() native.Handle { return l.track(C.curl_easy_init()) }

func (l *Library) EasyCleanup(h native.Handle) {
	l.mu.Lock()
	st, ok := l.easies[h]
	delete(l.easies, h)
	l.mu.Unlock()
	if !ok {
		return
	}
	C.curl_easy_cleanup(easyPtr(h))
	st.self.Delete()
}

// EasyDuphandle duplicates h and points the copied callbacks at the
// duplicate's own state.
func (l *Library) EasyDuphandle(h native.Handle) native.Handle {
	src, ok := l.state(h)
	if !ok {
		return 0
	}
	dup := l.track(C.curl_easy_duphandle(easyPtr(h)))
	if dup == 0 {
		return 0
	}
	st, _ := l.state(dup)
	st.write, st.header, st.read = src.write, src.header, src.read
	st.progress, st.debug = src.progress, src.debug
	l.bindCallbacks(dup, st)
	return dup
}

func (l *Library) EasyReset(h native.Handle) {
	st, ok := l.state(h)
	if !ok {
		return
	}
	C.curl_easy_reset(easyPtr(h))
	st.write, st.header, st.read, st.progress, st.debug = nil, nil, nil, nil, nil
}

func (l *Library) EasyPerform(h native.Handle) status.Code {
	if _, ok := l.state(h); !ok {
		return status.BadFunctionArgument
	}
	return status.Code(C.curl_easy_perform(easyPtr(h)))
}

// EasySetopt accepts int64 for long and off_t options, string, native.List,
// native.Share or nil for object options, and the native callback types for
// function options.
func (l *Library) EasySetopt(h native.Handle, o native.Option, value any) status.Code {
	st, ok := l.state(h)
	if !ok {
		return status.BadFunctionArgument
	}
	p := easyPtr(h)
	co := C.CURLoption(o)
	switch o.Base() {
	case native.OptionLong:
		v, ok := value.(int64)
		if !ok {
			return status.BadFunctionArgument
		}
		return status.Code(C.setopt_long(p, co, C.long(v)))
	case native.OptionOffT:
		v, ok := value.(int64)
		if !ok {
			return status.BadFunctionArgument
		}
		return status.Code(C.setopt_off(p, co, C.curl_off_t(v)))
	case native.OptionObject:
		switch v := value.(type) {
		case nil:
			return status.Code(C.setopt_ptr(p, co, nil))
		case string:
			cs := C.CString(v)
			defer C.free(unsafe.Pointer(cs))
			return status.Code(C.setopt_str(p, co, cs))
		case native.List:
			return status.Code(C.setopt_ptr(p, co, C.as_ptr(C.uintptr_t(v))))
		case native.Share:
			return status.Code(C.setopt_ptr(p, co, C.as_ptr(C.uintptr_t(v))))
		default:
			return status.BadFunctionArgument
		}
	case native.OptionFunction:
		return l.setFunction(h, st, o, value)
	default:
		return status.UnknownOption
	}
}

func (l *Library) setFunction(h native.Handle, st *easyState, o native.Option, value any) status.Code {
	var ok bool
	switch o {
	case native.Option(opt.WriteFunction):
		st.write, ok = value.(native.WriteFunc)
	case native.Option(opt.HeaderFunction):
		st.header, ok = value.(native.WriteFunc)
	case native.Option(opt.ReadFunction):
		st.read, ok = value.(native.ReadFunc)
	case native.Option(opt.XferInfo):
		st.progress, ok = value.(native.ProgressFunc)
	case native.Option(opt.DebugFunction):
		st.debug, ok = value.(native.DebugFunc)
	default:
		return status.UnknownOption
	}
	if !ok && value != nil {
		return status.BadFunctionArgument
	}
	return l.bindCallback(h, st, o)
}

// callbackData maps each function option to its user data option.
var callbackData = map[native.Option]C.CURLoption{
	native.Option(opt.WriteFunction):  C.CURLOPT_WRITEDATA,
	native.Option(opt.HeaderFunction): C.CURLOPT_HEADERDATA,
	native.Option(opt.ReadFunction):   C.CURLOPT_READDATA,
	native.Option(opt.XferInfo):       C.CURLOPT_XFERINFODATA,
	native.Option(opt.DebugFunction):  C.CURLOPT_DEBUGDATA,
}

func (l *Library) bindCallback(h native.Handle, st *easyState, o native.Option) status.Code {
	p := easyPtr(h)
	ud := C.uintptr_t(st.self)
	var set bool
	var rc C.CURLcode
	switch o {
	case native.Option(opt.WriteFunction):
		if set = st.write != nil; set {
			rc = C.set_write(p, ud)
		}
	case native.Option(opt.HeaderFunction):
		if set = st.header != nil; set {
			rc = C.set_header(p, ud)
		}
	case native.Option(opt.ReadFunction):
		if set = st.read != nil; set {
			rc = C.set_read(p, ud)
		}
	case native.Option(opt.XferInfo):
		if set = st.progress != nil; set {
			rc = C.set_progress(p, ud)
		}
	case native.Option(opt.DebugFunction):
		if set = st.debug != nil; set {
			rc = C.set_debug(p, ud)
		}
	}
	if !set {
		rc = C.clear_function(p, C.CURLoption(o), callbackData[o])
	}
	return status.Code(rc)
}

func (l *Library) bindCallbacks(h native.Handle, st *easyState) {
	for o := range callbackData {
		_ = l.bindCallback(h, st, o)
	}
}

// EasyGetinfo stores one result into out: *string, *int64, *float64 or
// *native.List according to the kind of i.
func (l *Library) EasyGetinfo(h native.Handle, i native.Info, out any) status.Code {
	if _, ok := l.state(h); !ok {
		return status.BadFunctionArgument
	}
	p := easyPtr(h)
	ci := C.CURLINFO(i)
	switch i.Kind() {
	case native.InfoString:
		ptr, ok := out.(*string)
		if !ok || ptr == nil {
			return status.BadFunctionArgument
		}
		var cs *C.char
		rc := C.getinfo_str(p, ci, &cs)
		if rc == C.CURLE_OK {
			*ptr = C.GoString(cs)
		}
		return status.Code(rc)
	case native.InfoLong:
		ptr, ok := out.(*int64)
		if !ok || ptr == nil {
			return status.BadFunctionArgument
		}
		var v C.long
		rc := C.getinfo_long(p, ci, &v)
		*ptr = int64(v)
		return status.Code(rc)
	case native.InfoOffT:
		ptr, ok := out.(*int64)
		if !ok || ptr == nil {
			return status.BadFunctionArgument
		}
		var v C.curl_off_t
		rc := C.getinfo_off(p, ci, &v)
		*ptr = int64(v)
		return status.Code(rc)
	case native.InfoDouble:
		ptr, ok := out.(*float64)
		if !ok || ptr == nil {
			return status.BadFunctionArgument
		}
		var v C.double
		rc := C.getinfo_double(p, ci, &v)
		*ptr = float64(v)
		return status.Code(rc)
	case native.InfoSList:
		ptr, ok := out.(*native.List)
		if !ok || ptr == nil {
			return status.BadFunctionArgument
		}
		var v *C.struct_curl_slist
		rc := C.getinfo_slist(p, ci, &v)
		*ptr = native.List(uintptr(unsafe.Pointer(v)))
		return status.Code(rc)
	default:
		return status.UnknownOption
	}
}
