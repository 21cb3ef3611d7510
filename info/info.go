// Package info enumerates the query identifiers of a transfer handle.
//
// As with package opt, identifiers are partitioned by result kind and the
// handle has one getter per partition. Timing identifiers are reported
// natively in microseconds and surface as time.Duration.
//
// Bitmask results (HTTPAUTH_AVAIL, PROXYAUTH_AVAIL) and raw pointer results
// (CERTINFO, TLS_SSL_PTR) are enumerated for completeness but have no getter.
package info

import "github.com/kbukum/xfer/native"

// Query identifier categories.
type (
	String  native.Info
	Long    native.Info
	Bool    native.Info
	OffT    native.Info
	Time    native.Info
	List    native.Info
	Proto   native.Info
	Version native.Info
	// Bitmask results have no getter.
	Bitmask native.Info
	// Pointer results have no getter.
	Pointer native.Info
)

const (
	str  = native.InfoString
	lng  = native.InfoLong
	slst = native.InfoSList
	ptr  = native.InfoPtr
	offT = native.InfoOffT
)

// Text results.
const (
	EffectiveURL  String = String(str + 1)
	ContentType   String = String(str + 18)
	FTPEntryPath  String = String(str + 30)
	RedirectURL   String = String(str + 31)
	PrimaryIP     String = String(str + 32)
	RTSPSessionID String = String(str + 36)
	LocalIP       String = String(str + 41)
	Scheme        String = String(str + 49)
)

// Integer results.
const (
	ResponseCode         Long = Long(lng + 2)
	HeaderSize           Long = Long(lng + 11)
	RequestSize          Long = Long(lng + 12)
	SSLVerifyResult      Long = Long(lng + 13)
	RedirectCount        Long = Long(lng + 20)
	HTTPConnectCode      Long = Long(lng + 22)
	OSErrno              Long = Long(lng + 25)
	NumConnects          Long = Long(lng + 26)
	RTSPClientCSeq       Long = Long(lng + 37)
	RTSPServerCSeq       Long = Long(lng + 38)
	RTSPCSeqRecv         Long = Long(lng + 39)
	PrimaryPort          Long = Long(lng + 40)
	LocalPort            Long = Long(lng + 42)
	ProxySSLVerifyResult Long = Long(lng + 47)
)

// Boolean results.
const (
	ConditionUnmet Bool = Bool(lng + 35)
)

// Protocol results.
const (
	Protocol Proto = Proto(lng + 48)
)

// HTTP version results.
const (
	HTTPVersion Version = Version(lng + 46)
)

// Size, speed and timestamp results.
const (
	SizeUpload            OffT = OffT(offT + 7)
	SizeDownload          OffT = OffT(offT + 8)
	SpeedDownload         OffT = OffT(offT + 9)
	SpeedUpload           OffT = OffT(offT + 10)
	FileTime              OffT = OffT(offT + 14)
	ContentLengthDownload OffT = OffT(offT + 15)
	ContentLengthUpload   OffT = OffT(offT + 16)
)

// Timing results, measured from the start of the transfer.
const (
	TotalTime         Time = Time(offT + 50)
	NameLookupTime    Time = Time(offT + 51)
	ConnectTime       Time = Time(offT + 52)
	PretransferTime   Time = Time(offT + 53)
	StartTransferTime Time = Time(offT + 54)
	RedirectTime      Time = Time(offT + 55)
	AppConnectTime    Time = Time(offT + 56)
)

// List results.
const (
	SSLEngines List = List(slst + 27)
	CookieList List = List(slst + 28)
)

// Results without a getter.
const (
	HTTPAuthAvail  Bitmask = Bitmask(lng + 23)
	ProxyAuthAvail Bitmask = Bitmask(lng + 24)
	CertInfo       Pointer = Pointer(ptr + 34)
	TLSSSLPtr      Pointer = Pointer(ptr + 45)
)
