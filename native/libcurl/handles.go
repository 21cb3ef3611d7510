//go:build libcurl

package libcurl

/*
#cgo pkg-config: libcurl
#include "shim.h"
*/
import "C"

import (
	"unsafe"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

func (l *Library) SlistAppend(list native.List, text string) native.List {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	head := C.curl_slist_append(C.as_list(C.uintptr_t(list)), cs)
	return native.List(uintptr(unsafe.Pointer(head)))
}

func (l *Library) SlistFreeAll(list native.List) {
	C.curl_slist_free_all(C.as_list(C.uintptr_t(list)))
}

func (l *Library) SlistNext(node native.List) native.List {
	if node == 0 {
		return 0
	}
	next := C.as_list(C.uintptr_t(node)).next
	return native.List(uintptr(unsafe.Pointer(next)))
}

func (l *Library) SlistData(node native.List) []byte {
	if node == 0 {
		return nil
	}
	data := C.as_list(C.uintptr_t(node)).data
	return C.GoBytes(unsafe.Pointer(data), C.int(C.strlen(data)))
}

func multiPtr(m native.Multi) *C.CURLM { return C.as_multi(C.uintptr_t(m)) }

func (l *Library) MultiInit() native.Multi {
	return native.Multi(uintptr(unsafe.Pointer(C.curl_multi_init())))
}

func (l *Library) MultiCleanup(m native.Multi) status.MultiCode {
	return status.MultiCode(C.curl_multi_cleanup(multiPtr(m)))
}

func (l *Library) MultiAddHandle(m native.Multi, h native.Handle) status.MultiCode {
	if _, ok := l.state(h); !ok {
		return status.MultiBadEasyHandle
	}
	return status.MultiCode(C.curl_multi_add_handle(multiPtr(m), easyPtr(h)))
}

func (l *Library) MultiRemoveHandle(m native.Multi, h native.Handle) status.MultiCode {
	if _, ok := l.state(h); !ok {
		return status.MultiBadEasyHandle
	}
	return status.MultiCode(C.curl_multi_remove_handle(multiPtr(m), easyPtr(h)))
}

func (l *Library) MultiSetopt(m native.Multi, o native.MultiOption, value int64) status.MultiCode {
	return status.MultiCode(C.multi_setopt_long(multiPtr(m), C.CURLMoption(o), C.long(value)))
}

// pollTimeout bounds one wait for activity, in milliseconds.
const pollTimeout = 1000

// MultiPerform drives every added transfer to completion.
func (l *Library) MultiPerform(m native.Multi) status.MultiCode {
	p := multiPtr(m)
	var running C.int
	for {
		if rc := C.curl_multi_perform(p, &running); rc != C.CURLM_OK {
			return status.MultiCode(rc)
		}
		if running == 0 {
			return status.MultiOK
		}
		if rc := C.curl_multi_poll(p, nil, 0, pollTimeout, nil); rc != C.CURLM_OK {
			return status.MultiCode(rc)
		}
	}
}

func (l *Library) MultiInfoRead(m native.Multi) (native.Message, bool) {
	var queued C.int
	for {
		msg := C.curl_multi_info_read(multiPtr(m), &queued)
		if msg == nil {
			return native.Message{}, false
		}
		if C.msg_done(msg) == 0 {
			continue
		}
		h := native.Handle(uintptr(unsafe.Pointer(C.msg_handle(msg))))
		return native.Message{Handle: h, Result: status.Code(C.msg_result(msg))}, true
	}
}

func sharePtr(s native.Share) *C.CURLSH { return C.as_share(C.uintptr_t(s)) }

func (l *Library) ShareInit() native.Share {
	return native.Share(uintptr(unsafe.Pointer(C.curl_share_init())))
}

func (l *Library) ShareCleanup(s native.Share) status.ShareCode {
	return status.ShareCode(C.curl_share_cleanup(sharePtr(s)))
}

func (l *Library) ShareSetopt(s native.Share, o native.ShareOption, data proto.LockData) status.ShareCode {
	return status.ShareCode(C.share_setopt_int(sharePtr(s), C.CURLSHoption(o), C.int(data)))
}

func urlPtr(u native.URL) *C.CURLU { return C.as_url(C.uintptr_t(u)) }

func (l *Library) URLInit() native.URL {
	return native.URL(uintptr(unsafe.Pointer(C.curl_url())))
}

func (l *Library) URLDup(u native.URL) native.URL {
	return native.URL(uintptr(unsafe.Pointer(C.curl_url_dup(urlPtr(u)))))
}

func (l *Library) URLCleanup(u native.URL) { C.curl_url_cleanup(urlPtr(u)) }

// URLSet clears the part when value is nil.
func (l *Library) URLSet(u native.URL, part native.URLPart, value *string, flags native.URLFlags) status.URLCode {
	var cs *C.char
	if value != nil {
		cs = C.CString(*value)
		defer C.free(unsafe.Pointer(cs))
	}
	return status.URLCode(C.curl_url_set(urlPtr(u), C.CURLUPart(part), cs, C.uint(flags)))
}

func (l *Library) URLGet(u native.URL, part native.URLPart, flags native.URLFlags) (string, status.URLCode) {
	var cs *C.char
	rc := C.curl_url_get(urlPtr(u), C.CURLUPart(part), &cs, C.uint(flags))
	if rc != C.CURLUE_OK {
		return "", status.URLCode(rc)
	}
	defer C.curl_free(unsafe.Pointer(cs))
	return C.GoString(cs), status.URLOK
}
