package engine

import (
	"maps"
	"strings"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

type request int

const (
	requestGet request = iota
	requestPost
	requestPut
)

// options is the configuration of one easy handle.
type options struct {
	strs  map[native.Option]string
	longs map[native.Option]int64
	lists map[native.Option][]string

	write    native.WriteFunc
	header   native.WriteFunc
	read     native.ReadFunc
	progress native.ProgressFunc
	debug    native.DebugFunc

	req         request
	noBody      bool
	cookieFiles []string
}

var defaults = map[native.Option]int64{
	native.Option(opt.SSLVerifyPeer):        1,
	native.Option(opt.SSLVerifyHost):        2,
	native.Option(opt.ProxySSLVerifyPeer):   1,
	native.Option(opt.ProxySSLVerifyHost):   2,
	native.Option(opt.NoProgress):           1,
	native.Option(opt.MaxRedirs):            30,
	native.Option(opt.HTTPContentDecoding):  1,
	native.Option(opt.HTTPTransferDecoding): 1,
	native.Option(opt.TCPNoDelay):           1,
	native.Option(opt.DNSCacheTimeout):      60,
	native.Option(opt.BufferSize):           16 * 1024,
	native.Option(opt.UploadBufferSize):     64 * 1024,
	native.Option(opt.ConnectTimeoutMS):     300_000,
	native.Option(opt.PostFieldSize):        -1,
	native.Option(opt.PostFieldSizeLarge):   -1,
	native.Option(opt.InFileSize):           -1,
	native.Option(opt.InFileSizeLarge):      -1,
	native.Option(opt.Protocols):            int64(proto.All),
	native.Option(opt.RedirProtocols):       int64(proto.HTTP | proto.HTTPS | proto.FTP | proto.FTPS),
	native.Option(opt.Expect100TimeoutMS):   1000,
}

var listOptions = map[native.Option]bool{
	native.Option(opt.HTTPHeader):     true,
	native.Option(opt.Quote):          true,
	native.Option(opt.PostQuote):      true,
	native.Option(opt.PreQuote):       true,
	native.Option(opt.HTTP200Aliases): true,
	native.Option(opt.MailRcpt):       true,
	native.Option(opt.Resolve):        true,
	native.Option(opt.ProxyHeader):    true,
	native.Option(opt.ConnectTo):      true,
}

func newOptions() options {
	return options{
		strs:  make(map[native.Option]string),
		longs: make(map[native.Option]int64),
		lists: make(map[native.Option][]string),
	}
}

func (o *options) clone() options {
	c := *o
	c.strs = maps.Clone(o.strs)
	c.longs = maps.Clone(o.longs)
	c.lists = make(map[native.Option][]string, len(o.lists))
	for k, v := range o.lists {
		c.lists[k] = append([]string(nil), v...)
	}
	c.cookieFiles = append([]string(nil), o.cookieFiles...)
	return c
}

func (o *options) str(id opt.String) string {
	return o.strs[native.Option(id)]
}

func (o *options) hasStr(id opt.String) bool {
	_, ok := o.strs[native.Option(id)]
	return ok
}

func (o *options) long(id native.Option) int64 {
	if v, ok := o.longs[id]; ok {
		return v
	}
	return defaults[id]
}

func (o *options) isSet(id native.Option) bool {
	_, ok := o.longs[id]
	return ok
}

func (o *options) flag(id opt.Bool) bool {
	return o.long(native.Option(id)) != 0
}

func (o *options) list(id opt.List) []string {
	return o.lists[native.Option(id)]
}

// offT returns the first of the large or plain variant that was set.
func (o *options) offT(large opt.OffT, plain opt.Long) int64 {
	if o.isSet(native.Option(large)) {
		return o.long(native.Option(large))
	}
	if o.isSet(native.Option(plain)) {
		return o.long(native.Option(plain))
	}
	return o.long(native.Option(large))
}

// setopt stores one option value after checking its dynamic type against
// the option's range.
func (ez *easy) setopt(e *Engine, o native.Option, value any) status.Code {
	if o < 0 {
		return status.UnknownOption
	}
	switch o.Base() {
	case native.OptionLong, native.OptionOffT:
		v, ok := value.(int64)
		if !ok {
			return status.BadFunctionArgument
		}
		return ez.setLong(o, v)
	case native.OptionObject:
		return ez.setObject(e, o, value)
	case native.OptionFunction:
		return ez.setFunction(o, value)
	default:
		return status.UnknownOption
	}
}

func (ez *easy) setLong(o native.Option, v int64) status.Code {
	opts := &ez.opts
	switch o {
	case native.Option(opt.Timeout), native.Option(opt.ConnectTimeout):
		if v < 0 {
			return status.BadFunctionArgument
		}
		ms := native.Option(opt.TimeoutMS)
		if o == native.Option(opt.ConnectTimeout) {
			ms = native.Option(opt.ConnectTimeoutMS)
		}
		opts.longs[ms] = v * 1000
	case native.Option(opt.TimeoutMS), native.Option(opt.ConnectTimeoutMS),
		native.Option(opt.MaxRecvSpeedLarge), native.Option(opt.MaxSendSpeedLarge):
		if v < 0 {
			return status.BadFunctionArgument
		}
	case native.Option(opt.MaxRedirs):
		if v < -1 {
			return status.BadFunctionArgument
		}
	case native.Option(opt.HTTPVersion):
		switch {
		case v < int64(proto.HTTPVersionNone):
			return status.BadFunctionArgument
		case v == int64(proto.HTTPVersion3):
			return status.UnsupportedProtocol
		case v > int64(proto.HTTPVersion2PriorKnowledge):
			return status.BadFunctionArgument
		}
	case native.Option(opt.Post):
		opts.req = requestGet
		if v != 0 {
			opts.req = requestPost
			opts.noBody = false
		}
	case native.Option(opt.HTTPGet):
		if v != 0 {
			opts.req = requestGet
			opts.noBody = false
		}
	case native.Option(opt.Upload), native.Option(opt.Put):
		opts.req = requestGet
		if v != 0 {
			opts.req = requestPut
			opts.noBody = false
		}
	case native.Option(opt.NoBody):
		opts.noBody = v != 0
	}
	opts.longs[o] = v
	return status.OK
}

func (ez *easy) setObject(e *Engine, o native.Option, value any) status.Code {
	opts := &ez.opts
	switch v := value.(type) {
	case nil:
		delete(opts.strs, o)
		delete(opts.lists, o)
		if o == native.Option(opt.Share) {
			ez.detachShare()
		}
		return status.OK
	case string:
		if listOptions[o] || o == native.Option(opt.Share) {
			return status.BadFunctionArgument
		}
		return ez.setString(e, o, v)
	case native.List:
		if !listOptions[o] {
			return status.BadFunctionArgument
		}
		if v == 0 {
			delete(opts.lists, o)
			return status.OK
		}
		opts.lists[o] = e.strings(v)
		return status.OK
	case native.Share:
		if o != native.Option(opt.Share) {
			return status.BadFunctionArgument
		}
		return ez.attachShare(e, v)
	default:
		return status.BadFunctionArgument
	}
}

func (ez *easy) setString(e *Engine, o native.Option, v string) status.Code {
	opts := &ez.opts
	switch o {
	case native.Option(opt.UserPwd):
		user, pass, _ := strings.Cut(v, ":")
		opts.strs[native.Option(opt.Username)] = user
		opts.strs[native.Option(opt.Password)] = pass
	case native.Option(opt.ProxyUserPwd):
		user, pass, _ := strings.Cut(v, ":")
		opts.strs[native.Option(opt.ProxyUsername)] = user
		opts.strs[native.Option(opt.ProxyPassword)] = pass
	case native.Option(opt.CopyPostFields):
		opts.req = requestPost
		opts.noBody = false
	case native.Option(opt.CookieFile):
		ez.enableCookies()
		if v != "" {
			opts.cookieFiles = append(opts.cookieFiles, v)
		}
	case native.Option(opt.CookieJar):
		ez.enableCookies()
	case native.Option(opt.CookieList):
		return ez.cookieCommand(v)
	}
	opts.strs[o] = v
	return status.OK
}

func (ez *easy) setFunction(o native.Option, value any) status.Code {
	opts := &ez.opts
	var ok bool
	switch o {
	case native.Option(opt.WriteFunction):
		opts.write, ok = value.(native.WriteFunc)
	case native.Option(opt.HeaderFunction):
		opts.header, ok = value.(native.WriteFunc)
	case native.Option(opt.ReadFunction):
		opts.read, ok = value.(native.ReadFunc)
	case native.Option(opt.XferInfo):
		opts.progress, ok = value.(native.ProgressFunc)
	case native.Option(opt.DebugFunction):
		opts.debug, ok = value.(native.DebugFunc)
	default:
		return status.UnknownOption
	}
	if !ok && value != nil {
		return status.BadFunctionArgument
	}
	return status.OK
}
