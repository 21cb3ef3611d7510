package opt

// Integer options.
const (
	Port                   Long = Long(long + 3)
	Timeout                Long = Long(long + 13)
	InFileSize             Long = Long(long + 14)
	LowSpeedLimit          Long = Long(long + 19)
	LowSpeedTime           Long = Long(long + 20)
	ResumeFrom             Long = Long(long + 21)
	SSLVersion             Long = Long(long + 32)
	TimeCondition          Long = Long(long + 33)
	TimeValue              Long = Long(long + 34)
	ProxyPort              Long = Long(long + 59)
	PostFieldSize          Long = Long(long + 60)
	MaxRedirs              Long = Long(long + 68)
	MaxConnects            Long = Long(long + 71)
	ConnectTimeout         Long = Long(long + 78)
	HTTPVersion            Long = Long(long + 84)
	SSLEngineDefault       Long = Long(long + 90)
	DNSCacheTimeout        Long = Long(long + 92)
	BufferSize             Long = Long(long + 98)
	ProxyType              Long = Long(long + 101)
	HTTPAuth               Long = Long(long + 107)
	ProxyAuth              Long = Long(long + 111)
	FTPResponseTimeout     Long = Long(long + 112)
	IPResolve              Long = Long(long + 113)
	MaxFileSize            Long = Long(long + 114)
	UseSSL                 Long = Long(long + 119)
	FTPSSLAuth             Long = Long(long + 129)
	FTPFileMethod          Long = Long(long + 138)
	LocalPort              Long = Long(long + 139)
	LocalPortRange         Long = Long(long + 140)
	SSLSessionIDCache      Long = Long(long + 150)
	SSHAuthTypes           Long = Long(long + 151)
	FTPSSLCCC              Long = Long(long + 154)
	NewFilePerms           Long = Long(long + 159)
	NewDirectoryPerms      Long = Long(long + 160)
	PostRedir              Long = Long(long + 161)
	ProxyTransferMode      Long = Long(long + 166)
	AddressScope           Long = Long(long + 171)
	CertInfo               Long = Long(long + 172)
	TFTPBlkSize            Long = Long(long + 178)
	SOCKS5GSSAPINEC        Long = Long(long + 180)
	Protocols              Long = Long(long + 181)
	RedirProtocols         Long = Long(long + 182)
	FTPUsePRET             Long = Long(long + 188)
	RTSPRequest            Long = Long(long + 189)
	RTSPClientCSeq         Long = Long(long + 193)
	RTSPServerCSeq         Long = Long(long + 194)
	WildcardMatch          Long = Long(long + 197)
	TransferEncoding       Long = Long(long + 207)
	GSSAPIDelegation       Long = Long(long + 210)
	TCPKeepIdle            Long = Long(long + 214)
	TCPKeepIntvl           Long = Long(long + 215)
	SSLOptions             Long = Long(long + 216)
	SASLIR                 Long = Long(long + 218)
	SSLEnableNPN           Long = Long(long + 225)
	SSLEnableALPN          Long = Long(long + 226)
	HeaderOpt              Long = Long(long + 229)
	SSLVerifyStatus        Long = Long(long + 232)
	SSLFalseStart          Long = Long(long + 233)
	PathAsIs               Long = Long(long + 234)
	PipeWait               Long = Long(long + 237)
	StreamWeight           Long = Long(long + 239)
	TFTPNoOptions          Long = Long(long + 242)
	TCPFastOpen            Long = Long(long + 244)
	KeepSendingOnError     Long = Long(long + 245)
	ProxySSLVerifyPeer     Long = Long(long + 248)
	ProxySSLVerifyHost     Long = Long(long + 249)
	ProxySSLVersion        Long = Long(long + 250)
	ProxySSLOptions        Long = Long(long + 261)
	SuppressConnectHeaders Long = Long(long + 265)
	SOCKS5Auth             Long = Long(long + 267)
	SSHCompression         Long = Long(long + 268)
	HAProxyProtocol        Long = Long(long + 274)
	DNSShuffleAddresses    Long = Long(long + 275)
	DisallowUsernameInURL  Long = Long(long + 278)
	UploadBufferSize       Long = Long(long + 280)
	HTTP09Allowed          Long = Long(long + 285)
)

// Boolean options.
const (
	CRLF                 Bool = Bool(long + 27)
	Verbose              Bool = Bool(long + 41)
	Header               Bool = Bool(long + 42)
	NoProgress           Bool = Bool(long + 43)
	NoBody               Bool = Bool(long + 44)
	FailOnError          Bool = Bool(long + 45)
	Upload               Bool = Bool(long + 46)
	Post                 Bool = Bool(long + 47)
	DirListOnly          Bool = Bool(long + 48)
	Append               Bool = Bool(long + 50)
	Netrc                Bool = Bool(long + 51)
	FollowLocation       Bool = Bool(long + 52)
	TransferText         Bool = Bool(long + 53)
	Put                  Bool = Bool(long + 54)
	AutoReferer          Bool = Bool(long + 58)
	HTTPProxyTunnel      Bool = Bool(long + 61)
	SSLVerifyPeer        Bool = Bool(long + 64)
	FileTime             Bool = Bool(long + 69)
	FreshConnect         Bool = Bool(long + 74)
	ForbidReuse          Bool = Bool(long + 75)
	HTTPGet              Bool = Bool(long + 80)
	SSLVerifyHost        Bool = Bool(long + 81)
	FTPUseEPSV           Bool = Bool(long + 85)
	CookieSession        Bool = Bool(long + 96)
	NoSignal             Bool = Bool(long + 99)
	UnrestrictedAuth     Bool = Bool(long + 105)
	FTPUseEPRT           Bool = Bool(long + 106)
	FTPCreateMissingDirs Bool = Bool(long + 110)
	TCPNoDelay           Bool = Bool(long + 121)
	IgnoreContentLength  Bool = Bool(long + 136)
	FTPSkipPasvIP        Bool = Bool(long + 137)
	ConnectOnly          Bool = Bool(long + 141)
	HTTPTransferDecoding Bool = Bool(long + 157)
	HTTPContentDecoding  Bool = Bool(long + 158)
	TCPKeepAlive         Bool = Bool(long + 213)
)

// Millisecond options.
const (
	TimeoutMS              Duration = Duration(long + 155)
	ConnectTimeoutMS       Duration = Duration(long + 156)
	AcceptTimeoutMS        Duration = Duration(long + 212)
	Expect100TimeoutMS     Duration = Duration(long + 227)
	HappyEyeballsTimeoutMS Duration = Duration(long + 271)
	UpkeepIntervalMS       Duration = Duration(long + 281)
)

// Large size and counter options.
const (
	InFileSizeLarge    OffT = OffT(offT + 115)
	ResumeFromLarge    OffT = OffT(offT + 116)
	MaxFileSizeLarge   OffT = OffT(offT + 117)
	PostFieldSizeLarge OffT = OffT(offT + 120)
	MaxSendSpeedLarge  OffT = OffT(offT + 145)
	MaxRecvSpeedLarge  OffT = OffT(offT + 146)
	TimeValueLarge     OffT = OffT(offT + 270)
)
