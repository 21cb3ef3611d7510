package opt

// Text options.
const (
	URL                  String = String(object + 2)
	Proxy                String = String(object + 4)
	UserPwd              String = String(object + 5)
	ProxyUserPwd         String = String(object + 6)
	Range                String = String(object + 7)
	Referer              String = String(object + 16)
	FTPPort              String = String(object + 17)
	UserAgent            String = String(object + 18)
	Cookie               String = String(object + 22)
	SSLCert              String = String(object + 25)
	KeyPasswd            String = String(object + 26)
	CookieFile           String = String(object + 31)
	CustomRequest        String = String(object + 36)
	Interface            String = String(object + 62)
	KrbLevel             String = String(object + 63)
	CAInfo               String = String(object + 65)
	RandomFile           String = String(object + 76)
	EGDSocket            String = String(object + 77)
	CookieJar            String = String(object + 82)
	SSLCipherList        String = String(object + 83)
	SSLCertType          String = String(object + 86)
	SSLKey               String = String(object + 87)
	SSLKeyType           String = String(object + 88)
	SSLEngine            String = String(object + 89)
	CAPath               String = String(object + 97)
	AcceptEncoding       String = String(object + 102)
	NetrcFile            String = String(object + 118)
	FTPAccount           String = String(object + 134)
	CookieList           String = String(object + 135)
	FTPAlternativeToUser String = String(object + 147)
	SSHPublicKeyFile     String = String(object + 152)
	SSHPrivateKeyFile    String = String(object + 153)
	SSHHostPublicKeyMD5  String = String(object + 162)
	CopyPostFields       String = String(object + 165)
	CRLFile              String = String(object + 169)
	IssuerCert           String = String(object + 170)
	Username             String = String(object + 173)
	Password             String = String(object + 174)
	ProxyUsername        String = String(object + 175)
	ProxyPassword        String = String(object + 176)
	NoProxy              String = String(object + 177)
	SSHKnownHosts        String = String(object + 183)
	MailFrom             String = String(object + 186)
	RTSPSessionID        String = String(object + 190)
	RTSPStreamURI        String = String(object + 191)
	RTSPTransport        String = String(object + 192)
	TLSAuthUsername      String = String(object + 204)
	TLSAuthPassword      String = String(object + 205)
	TLSAuthType          String = String(object + 206)
	DNSServers           String = String(object + 211)
	MailAuth             String = String(object + 217)
	XOAuth2Bearer        String = String(object + 220)
	DNSInterface         String = String(object + 221)
	DNSLocalIP4          String = String(object + 222)
	DNSLocalIP6          String = String(object + 223)
	LoginOptions         String = String(object + 224)
	PinnedPublicKey      String = String(object + 230)
	UnixSocketPath       String = String(object + 231)
	ProxyServiceName     String = String(object + 235)
	ServiceName          String = String(object + 236)
	DefaultProtocol      String = String(object + 238)
	ProxyCAInfo          String = String(object + 246)
	ProxyCAPath          String = String(object + 247)
	ProxyTLSAuthUsername String = String(object + 251)
	ProxyTLSAuthPassword String = String(object + 252)
	ProxyTLSAuthType     String = String(object + 253)
	ProxySSLCert         String = String(object + 254)
	ProxySSLCertType     String = String(object + 255)
	ProxySSLKey          String = String(object + 256)
	ProxySSLKeyType      String = String(object + 257)
	ProxyKeyPasswd       String = String(object + 258)
	ProxySSLCipherList   String = String(object + 259)
	ProxyCRLFile         String = String(object + 260)
	PreProxy             String = String(object + 262)
	ProxyPinnedPublicKey String = String(object + 263)
	AbstractUnixSocket   String = String(object + 264)
	RequestTarget        String = String(object + 266)
	TLS13Ciphers         String = String(object + 276)
	ProxyTLS13Ciphers    String = String(object + 277)
	DOHURL               String = String(object + 279)
)

// List options.
const (
	HTTPHeader     List = List(object + 23)
	Quote          List = List(object + 28)
	PostQuote      List = List(object + 39)
	PreQuote       List = List(object + 93)
	HTTP200Aliases List = List(object + 104)
	MailRcpt       List = List(object + 187)
	Resolve        List = List(object + 203)
	ProxyHeader    List = List(object + 228)
	ConnectTo      List = List(object + 243)
)
