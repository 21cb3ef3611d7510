//go:build libcurl

package libcurl

/*
#include <curl/curl.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/kbukum/xfer/native"
)

func stateOf(ud unsafe.Pointer) *easyState {
	return cgo.Handle(uintptr(ud)).Value().(*easyState)
}

func bytesOf(ptr *C.char, n C.size_t) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(n))
}

//export xferWrite
func xferWrite(ptr *C.char, size, nmemb C.size_t, ud unsafe.Pointer) (n C.size_t) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	fn := stateOf(ud).write
	if fn == nil {
		return size * nmemb
	}
	return C.size_t(fn(bytesOf(ptr, size*nmemb)))
}

//export xferHeader
func xferHeader(ptr *C.char, size, nmemb C.size_t, ud unsafe.Pointer) (n C.size_t) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	fn := stateOf(ud).header
	if fn == nil {
		return size * nmemb
	}
	return C.size_t(fn(bytesOf(ptr, size*nmemb)))
}

//export xferRead
func xferRead(ptr *C.char, size, nitems C.size_t, ud unsafe.Pointer) (n C.size_t) {
	defer func() {
		if recover() != nil {
			n = C.CURL_READFUNC_ABORT
		}
	}()
	fn := stateOf(ud).read
	if fn == nil {
		return 0
	}
	return C.size_t(fn(bytesOf(ptr, size*nitems)))
}

//export xferProgress
func xferProgress(ud unsafe.Pointer, dlTotal, dlNow, ulTotal, ulNow C.curl_off_t) (rc C.int) {
	defer func() {
		if recover() != nil {
			rc = 1
		}
	}()
	fn := stateOf(ud).progress
	if fn == nil {
		return 0
	}
	return C.int(fn(int64(dlTotal), int64(dlNow), int64(ulTotal), int64(ulNow)))
}

//export xferDebug
func xferDebug(_ *C.CURL, kind C.curl_infotype, data *C.char, size C.size_t, ud unsafe.Pointer) C.int {
	defer func() { _ = recover() }()
	if fn := stateOf(ud).debug; fn != nil {
		fn(native.DebugKind(kind), bytesOf(data, size))
	}
	return 0
}
