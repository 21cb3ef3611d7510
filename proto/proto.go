// Package proto holds the value enumerations exchanged with the native
// library: protocol bits, HTTP versions, global init flags and the kinds of
// data a share handle can share.
package proto

import (
	"strings"
)

// Protocol is a CURLPROTO_* bit. A Protocol reported by a query has exactly
// one bit set; protocol allow-lists are the bitwise OR of several.
type Protocol int64

// Protocol bits.
const (
	HTTP   Protocol = 1 << 0
	HTTPS  Protocol = 1 << 1
	FTP    Protocol = 1 << 2
	FTPS   Protocol = 1 << 3
	SCP    Protocol = 1 << 4
	SFTP   Protocol = 1 << 5
	TELNET Protocol = 1 << 6
	LDAP   Protocol = 1 << 7
	LDAPS  Protocol = 1 << 8
	DICT   Protocol = 1 << 9
	FILE   Protocol = 1 << 10
	TFTP   Protocol = 1 << 11
	IMAP   Protocol = 1 << 12
	IMAPS  Protocol = 1 << 13
	POP3   Protocol = 1 << 14
	POP3S  Protocol = 1 << 15
	SMTP   Protocol = 1 << 16
	SMTPS  Protocol = 1 << 17
	RTSP   Protocol = 1 << 18
	RTMP   Protocol = 1 << 19
	RTMPT  Protocol = 1 << 20
	RTMPE  Protocol = 1 << 21
	RTMPTE Protocol = 1 << 22
	RTMPS  Protocol = 1 << 23
	RTMPTS Protocol = 1 << 24
	GOPHER Protocol = 1 << 25
	SMB    Protocol = 1 << 26
	SMBS   Protocol = 1 << 27

	All Protocol = ^0
)

var protocolNames = []struct {
	p    Protocol
	name string
}{
	{HTTP, "HTTP"}, {HTTPS, "HTTPS"}, {FTP, "FTP"}, {FTPS, "FTPS"}, {SCP, "SCP"}, {SFTP, "SFTP"},
	{TELNET, "TELNET"}, {LDAP, "LDAP"}, {LDAPS, "LDAPS"}, {DICT, "DICT"}, {FILE, "FILE"},
	{TFTP, "TFTP"}, {IMAP, "IMAP"}, {IMAPS, "IMAPS"}, {POP3, "POP3"}, {POP3S, "POP3S"},
	{SMTP, "SMTP"}, {SMTPS, "SMTPS"}, {RTSP, "RTSP"}, {RTMP, "RTMP"}, {RTMPT, "RTMPT"},
	{RTMPE, "RTMPE"}, {RTMPTE, "RTMPTE"}, {RTMPS, "RTMPS"}, {RTMPTS, "RTMPTS"},
	{GOPHER, "GOPHER"}, {SMB, "SMB"}, {SMBS, "SMBS"},
}

// String returns the protocol names joined with "|", or "NONE".
func (p Protocol) String() string {
	if p == 0 {
		return "NONE"
	}
	if p == All {
		return "ALL"
	}
	var names []string
	for _, n := range protocolNames {
		if p&n.p != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Has reports whether every bit of q is set in p.
func (p Protocol) Has(q Protocol) bool { return p&q == q }

// ForScheme returns the protocol bit for a URL scheme, or 0 when unknown.
func ForScheme(scheme string) Protocol {
	for _, n := range protocolNames {
		if strings.EqualFold(n.name, scheme) {
			return n.p
		}
	}
	return 0
}

// HTTPVersion is a CURL_HTTP_VERSION_* value.
type HTTPVersion int64

// HTTP versions.
const (
	HTTPVersionNone            HTTPVersion = 0
	HTTPVersion1_0             HTTPVersion = 1
	HTTPVersion1_1             HTTPVersion = 2
	HTTPVersion2_0             HTTPVersion = 3
	HTTPVersion2TLS            HTTPVersion = 4
	HTTPVersion2PriorKnowledge HTTPVersion = 5
	HTTPVersion3               HTTPVersion = 30
)

// String returns the version as it appears on a status line.
func (v HTTPVersion) String() string {
	switch v {
	case HTTPVersion1_0:
		return "HTTP/1.0"
	case HTTPVersion1_1:
		return "HTTP/1.1"
	case HTTPVersion2_0, HTTPVersion2TLS, HTTPVersion2PriorKnowledge:
		return "HTTP/2"
	case HTTPVersion3:
		return "HTTP/3"
	default:
		return "NONE"
	}
}

// GlobalFlags select which subsystems global initialization sets up.
type GlobalFlags int64

// Global init flags.
const (
	GlobalSSL      GlobalFlags = 1 << 0
	GlobalWin32    GlobalFlags = 1 << 1
	GlobalAll      GlobalFlags = GlobalSSL | GlobalWin32
	GlobalNothing  GlobalFlags = 0
	GlobalDefault  GlobalFlags = GlobalAll
	GlobalAckEINTR GlobalFlags = 1 << 2
)

// LockData names a kind of state a share handle can share between transfers.
type LockData int64

// Shareable data.
const (
	LockDataNone       LockData = 0
	LockDataShare      LockData = 1
	LockDataCookie     LockData = 2
	LockDataDNS        LockData = 3
	LockDataSSLSession LockData = 4
	LockDataConnect    LockData = 5
	LockDataPSL        LockData = 6
)

// String returns the lock data name.
func (d LockData) String() string {
	switch d {
	case LockDataShare:
		return "share"
	case LockDataCookie:
		return "cookie"
	case LockDataDNS:
		return "dns"
	case LockDataSSLSession:
		return "ssl_session"
	case LockDataConnect:
		return "connect"
	case LockDataPSL:
		return "psl"
	default:
		return "none"
	}
}

// HTTP authentication bits (CURLAUTH_*) accepted by the HTTPAUTH and
// PROXYAUTH options.
const (
	AuthNone      int64 = 0
	AuthBasic     int64 = 1 << 0
	AuthDigest    int64 = 1 << 1
	AuthNegotiate int64 = 1 << 2
	AuthNTLM      int64 = 1 << 3
	AuthBearer    int64 = 1 << 6
	AuthAny       int64 = ^int64(1 << 4)
)

// TIMECONDITION values.
const (
	TimeCondNone         int64 = 0
	TimeCondIfModSince   int64 = 1
	TimeCondIfUnmodSince int64 = 2
	TimeCondLastMod      int64 = 3
)
