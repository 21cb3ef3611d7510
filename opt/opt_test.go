package opt

import (
	"testing"

	"github.com/kbukum/xfer/native"
)

func allOptions() map[native.Option]string {
	all := make(map[native.Option]string)
	add := func(cat string, ids ...native.Option) {
		for _, id := range ids {
			if prev, dup := all[id]; dup {
				all[id] = prev + "," + cat
				continue
			}
			all[id] = cat
		}
	}
	add("String",
		native.Option(URL),
		native.Option(Proxy),
		native.Option(UserPwd),
		native.Option(ProxyUserPwd),
		native.Option(Range),
		native.Option(Referer),
		native.Option(FTPPort),
		native.Option(UserAgent),
		native.Option(Cookie),
		native.Option(SSLCert),
		native.Option(KeyPasswd),
		native.Option(CookieFile),
		native.Option(CustomRequest),
		native.Option(Interface),
		native.Option(KrbLevel),
		native.Option(CAInfo),
		native.Option(RandomFile),
		native.Option(EGDSocket),
		native.Option(CookieJar),
		native.Option(SSLCipherList),
		native.Option(SSLCertType),
		native.Option(SSLKey),
		native.Option(SSLKeyType),
		native.Option(SSLEngine),
		native.Option(CAPath),
		native.Option(AcceptEncoding),
		native.Option(NetrcFile),
		native.Option(FTPAccount),
		native.Option(CookieList),
		native.Option(FTPAlternativeToUser),
		native.Option(SSHPublicKeyFile),
		native.Option(SSHPrivateKeyFile),
		native.Option(SSHHostPublicKeyMD5),
		native.Option(CopyPostFields),
		native.Option(CRLFile),
		native.Option(IssuerCert),
		native.Option(Username),
		native.Option(Password),
		native.Option(ProxyUsername),
		native.Option(ProxyPassword),
		native.Option(NoProxy),
		native.Option(SSHKnownHosts),
		native.Option(MailFrom),
		native.Option(RTSPSessionID),
		native.Option(RTSPStreamURI),
		native.Option(RTSPTransport),
		native.Option(TLSAuthUsername),
		native.Option(TLSAuthPassword),
		native.Option(TLSAuthType),
		native.Option(DNSServers),
		native.Option(MailAuth),
		native.Option(XOAuth2Bearer),
		native.Option(DNSInterface),
		native.Option(DNSLocalIP4),
		native.Option(DNSLocalIP6),
		native.Option(LoginOptions),
		native.Option(PinnedPublicKey),
		native.Option(UnixSocketPath),
		native.Option(ProxyServiceName),
		native.Option(ServiceName),
		native.Option(DefaultProtocol),
		native.Option(ProxyCAInfo),
		native.Option(ProxyCAPath),
		native.Option(ProxyTLSAuthUsername),
		native.Option(ProxyTLSAuthPassword),
		native.Option(ProxyTLSAuthType),
		native.Option(ProxySSLCert),
		native.Option(ProxySSLCertType),
		native.Option(ProxySSLKey),
		native.Option(ProxySSLKeyType),
		native.Option(ProxyKeyPasswd),
		native.Option(ProxySSLCipherList),
		native.Option(ProxyCRLFile),
		native.Option(PreProxy),
		native.Option(ProxyPinnedPublicKey),
		native.Option(AbstractUnixSocket),
		native.Option(RequestTarget),
		native.Option(TLS13Ciphers),
		native.Option(ProxyTLS13Ciphers),
		native.Option(DOHURL),
	)
	add("Long",
		native.Option(Port),
		native.Option(Timeout),
		native.Option(InFileSize),
		native.Option(LowSpeedLimit),
		native.Option(LowSpeedTime),
		native.Option(ResumeFrom),
		native.Option(SSLVersion),
		native.Option(TimeCondition),
		native.Option(TimeValue),
		native.Option(ProxyPort),
		native.Option(PostFieldSize),
		native.Option(MaxRedirs),
		native.Option(MaxConnects),
		native.Option(ConnectTimeout),
		native.Option(HTTPVersion),
		native.Option(SSLEngineDefault),
		native.Option(DNSCacheTimeout),
		native.Option(BufferSize),
		native.Option(ProxyType),
		native.Option(HTTPAuth),
		native.Option(ProxyAuth),
		native.Option(FTPResponseTimeout),
		native.Option(IPResolve),
		native.Option(MaxFileSize),
		native.Option(UseSSL),
		native.Option(FTPSSLAuth),
		native.Option(FTPFileMethod),
		native.Option(LocalPort),
		native.Option(LocalPortRange),
		native.Option(SSLSessionIDCache),
		native.Option(SSHAuthTypes),
		native.Option(FTPSSLCCC),
		native.Option(NewFilePerms),
		native.Option(NewDirectoryPerms),
		native.Option(PostRedir),
		native.Option(ProxyTransferMode),
		native.Option(AddressScope),
		native.Option(CertInfo),
		native.Option(TFTPBlkSize),
		native.Option(SOCKS5GSSAPINEC),
		native.Option(Protocols),
		native.Option(RedirProtocols),
		native.Option(FTPUsePRET),
		native.Option(RTSPRequest),
		native.Option(RTSPClientCSeq),
		native.Option(RTSPServerCSeq),
		native.Option(WildcardMatch),
		native.Option(TransferEncoding),
		native.Option(GSSAPIDelegation),
		native.Option(TCPKeepIdle),
		native.Option(TCPKeepIntvl),
		native.Option(SSLOptions),
		native.Option(SASLIR),
		native.Option(SSLEnableNPN),
		native.Option(SSLEnableALPN),
		native.Option(HeaderOpt),
		native.Option(SSLVerifyStatus),
		native.Option(SSLFalseStart),
		native.Option(PathAsIs),
		native.Option(PipeWait),
		native.Option(StreamWeight),
		native.Option(TFTPNoOptions),
		native.Option(TCPFastOpen),
		native.Option(KeepSendingOnError),
		native.Option(ProxySSLVerifyPeer),
		native.Option(ProxySSLVerifyHost),
		native.Option(ProxySSLVersion),
		native.Option(ProxySSLOptions),
		native.Option(SuppressConnectHeaders),
		native.Option(SOCKS5Auth),
		native.Option(SSHCompression),
		native.Option(HAProxyProtocol),
		native.Option(DNSShuffleAddresses),
		native.Option(DisallowUsernameInURL),
		native.Option(UploadBufferSize),
		native.Option(HTTP09Allowed),
	)
	add("Bool",
		native.Option(CRLF),
		native.Option(Verbose),
		native.Option(Header),
		native.Option(NoProgress),
		native.Option(NoBody),
		native.Option(FailOnError),
		native.Option(Upload),
		native.Option(Post),
		native.Option(DirListOnly),
		native.Option(Append),
		native.Option(Netrc),
		native.Option(FollowLocation),
		native.Option(TransferText),
		native.Option(Put),
		native.Option(AutoReferer),
		native.Option(HTTPProxyTunnel),
		native.Option(SSLVerifyPeer),
		native.Option(FileTime),
		native.Option(FreshConnect),
		native.Option(ForbidReuse),
		native.Option(HTTPGet),
		native.Option(SSLVerifyHost),
		native.Option(FTPUseEPSV),
		native.Option(CookieSession),
		native.Option(NoSignal),
		native.Option(UnrestrictedAuth),
		native.Option(FTPUseEPRT),
		native.Option(FTPCreateMissingDirs),
		native.Option(TCPNoDelay),
		native.Option(IgnoreContentLength),
		native.Option(FTPSkipPasvIP),
		native.Option(ConnectOnly),
		native.Option(HTTPTransferDecoding),
		native.Option(HTTPContentDecoding),
		native.Option(TCPKeepAlive),
	)
	add("OffT",
		native.Option(InFileSizeLarge),
		native.Option(ResumeFromLarge),
		native.Option(MaxFileSizeLarge),
		native.Option(PostFieldSizeLarge),
		native.Option(MaxSendSpeedLarge),
		native.Option(MaxRecvSpeedLarge),
		native.Option(TimeValueLarge),
	)
	add("Duration",
		native.Option(TimeoutMS),
		native.Option(ConnectTimeoutMS),
		native.Option(AcceptTimeoutMS),
		native.Option(Expect100TimeoutMS),
		native.Option(HappyEyeballsTimeoutMS),
		native.Option(UpkeepIntervalMS),
	)
	add("List",
		native.Option(HTTPHeader),
		native.Option(Quote),
		native.Option(PostQuote),
		native.Option(PreQuote),
		native.Option(HTTP200Aliases),
		native.Option(MailRcpt),
		native.Option(Resolve),
		native.Option(ProxyHeader),
		native.Option(ConnectTo),
	)
	add("WriteCallback",
		native.Option(WriteFunction),
		native.Option(HeaderFunction),
	)
	add("ReadCallback",
		native.Option(ReadFunction),
	)
	add("ProgressCallback",
		native.Option(XferInfo),
	)
	add("DebugCallback",
		native.Option(DebugFunction),
	)
	add("Shared",
		native.Option(Share),
	)
	add("UnsupportedCallback",
		native.Option(ProgressFunction),
		native.Option(SSLCtxFunction),
		native.Option(IoctlFunction),
		native.Option(ConvFromNetworkFunction),
		native.Option(ConvToNetworkFunction),
		native.Option(ConvFromUTF8Function),
		native.Option(SockoptFunction),
		native.Option(OpenSocketFunction),
		native.Option(SeekFunction),
		native.Option(SSHKeyFunction),
		native.Option(InterleaveFunction),
		native.Option(ChunkBgnFunction),
		native.Option(ChunkEndFunction),
		native.Option(FnmatchFunction),
		native.Option(CloseSocketFunction),
		native.Option(ResolverStartFunction),
		native.Option(TrailerFunction),
	)
	return all
}

func TestCategories_Disjoint(t *testing.T) {
	for id, cats := range allOptions() {
		for _, c := range cats {
			if c == ',' {
				t.Errorf("option %d belongs to more than one category: %s", id, cats)
				break
			}
		}
	}
}

func TestCategories_Ranges(t *testing.T) {
	want := map[string]native.Option{
		"String":              native.OptionObject,
		"List":                native.OptionObject,
		"Shared":              native.OptionObject,
		"Long":                native.OptionLong,
		"Bool":                native.OptionLong,
		"Duration":            native.OptionLong,
		"OffT":                native.OptionOffT,
		"WriteCallback":       native.OptionFunction,
		"ReadCallback":        native.OptionFunction,
		"ProgressCallback":    native.OptionFunction,
		"DebugCallback":       native.OptionFunction,
		"UnsupportedCallback": native.OptionFunction,
	}
	for id, cat := range allOptions() {
		if base, ok := want[cat]; ok && id.Base() != base {
			t.Errorf("option %d in %s has base %d, want %d", id, cat, id.Base(), base)
		}
	}
}

func TestWellKnownNumbers(t *testing.T) {
	tests := []struct {
		name string
		got  native.Option
		want native.Option
	}{
		{"URL", native.Option(URL), 10002},
		{"TIMEOUT", native.Option(Timeout), 13},
		{"HTTPHEADER", native.Option(HTTPHeader), 10023},
		{"WRITEFUNCTION", native.Option(WriteFunction), 20011},
		{"TIMEOUT_MS", native.Option(TimeoutMS), 155},
		{"MAX_RECV_SPEED_LARGE", native.Option(MaxRecvSpeedLarge), 30146},
		{"SHARE", native.Option(Share), 10100},
		{"TCP_KEEPALIVE", native.Option(TCPKeepAlive), 213},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, tt.got)
		}
	}
}
