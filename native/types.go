package native

import (
	"github.com/kbukum/xfer/status"
)

// Opaque resource handles. The zero value of each is the empty resource.
type (
	// Handle is a single-transfer handle (CURL *).
	Handle uintptr
	// List is the head of a string list (struct curl_slist *).
	List uintptr
	// Multi is a multi-transfer handle (CURLM *).
	Multi uintptr
	// Share is a shared-state handle (CURLSH *).
	Share uintptr
	// URL is a URL handle (CURLU *).
	URL uintptr
)

// Option is a configure identifier (CURLoption). The option's value kind is
// encoded in its numeric range.
type Option int

// Option ranges.
const (
	OptionLong     Option = 0
	OptionObject   Option = 10000
	OptionFunction Option = 20000
	OptionOffT     Option = 30000
	OptionBlob     Option = 40000
)

// Base returns the start of the numeric range o belongs to.
func (o Option) Base() Option {
	switch {
	case o >= OptionBlob:
		return OptionBlob
	case o >= OptionOffT:
		return OptionOffT
	case o >= OptionFunction:
		return OptionFunction
	case o >= OptionObject:
		return OptionObject
	default:
		return OptionLong
	}
}

// Info is a query identifier (CURLINFO). Its result kind is encoded in the
// bits covered by InfoTypeMask.
type Info int

// Info result kinds.
const (
	InfoString   Info = 0x100000
	InfoLong     Info = 0x200000
	InfoDouble   Info = 0x300000
	InfoSList    Info = 0x400000
	InfoPtr      Info = 0x400000
	InfoSocket   Info = 0x500000
	InfoOffT     Info = 0x600000
	InfoTypeMask Info = 0xf00000
)

// Kind returns the result kind of i.
func (i Info) Kind() Info { return i & InfoTypeMask }

// MultiOption is a multi handle configure identifier (CURLMoption).
type MultiOption int

// Multi options. All take an integer.
const (
	MultiOptPipelining           MultiOption = 3
	MultiOptMaxConnects          MultiOption = 6
	MultiOptMaxHostConnections   MultiOption = 7
	MultiOptMaxTotalConnections  MultiOption = 13
	MultiOptMaxConcurrentStreams MultiOption = 16
)

// ShareOption is a share handle configure identifier (CURLSHoption).
type ShareOption int

// Share options.
const (
	ShareOptShare   ShareOption = 1
	ShareOptUnshare ShareOption = 2
)

// URLPart selects one component of a URL handle (CURLUPart).
type URLPart int

// URL parts.
const (
	URLPartURL      URLPart = 0
	URLPartScheme   URLPart = 1
	URLPartUser     URLPart = 2
	URLPartPassword URLPart = 3
	URLPartOptions  URLPart = 4
	URLPartHost     URLPart = 5
	URLPartPort     URLPart = 6
	URLPartPath     URLPart = 7
	URLPartQuery    URLPart = 8
	URLPartFragment URLPart = 9
	URLPartZoneID   URLPart = 10
)

// URLFlags modify URL set and get operations (CURLU_*).
type URLFlags uint

// URL flags.
const (
	URLDefaultPort      URLFlags = 1 << 0
	URLNoDefaultPort    URLFlags = 1 << 1
	URLDefaultScheme    URLFlags = 1 << 2
	URLNonSupportScheme URLFlags = 1 << 3
	URLPathAsIs         URLFlags = 1 << 4
	URLDisallowUser     URLFlags = 1 << 5
	URLDecode           URLFlags = 1 << 6
	URLEncode           URLFlags = 1 << 7
	URLAppendQuery      URLFlags = 1 << 8
	URLGuessScheme      URLFlags = 1 << 9
	URLNoAuthority      URLFlags = 1 << 10
)

// Message reports one completed transfer of a multi handle (CURLMsg).
type Message struct {
	Handle Handle
	Result status.Code
}

// DebugKind classifies the data passed to a DebugFunc (curl_infotype).
type DebugKind int

// Debug data kinds.
const (
	DebugText       DebugKind = 0
	DebugHeaderIn   DebugKind = 1
	DebugHeaderOut  DebugKind = 2
	DebugDataIn     DebugKind = 3
	DebugDataOut    DebugKind = 4
	DebugSSLDataIn  DebugKind = 5
	DebugSSLDataOut DebugKind = 6
)

// Callback signatures accepted by function options.
type (
	// WriteFunc receives downloaded body or header data. Returning anything
	// other than len(data) aborts the transfer with a write error.
	WriteFunc func(data []byte) int
	// ReadFunc fills buf with upload data and returns the number of bytes
	// written, 0 at end of input, or ReadAbort.
	ReadFunc func(buf []byte) int
	// ProgressFunc reports transfer progress. A non-zero return aborts.
	ProgressFunc func(dlTotal, dlNow, ulTotal, ulNow int64) int
	// DebugFunc receives verbose trace data.
	DebugFunc func(kind DebugKind, data []byte)
)

// ReadAbort returned from a ReadFunc aborts the transfer.
const ReadAbort = 0x10000000
