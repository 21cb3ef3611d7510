package status

import "strconv"

// Code is a single-transfer result code (CURLcode).
type Code int

// Single-transfer result codes.
const (
	OK                      Code = 0
	UnsupportedProtocol     Code = 1
	FailedInit              Code = 2
	URLMalformat            Code = 3
	NotBuiltIn              Code = 4
	CouldntResolveProxy     Code = 5
	CouldntResolveHost      Code = 6
	CouldntConnect          Code = 7
	WeirdServerReply        Code = 8
	RemoteAccessDenied      Code = 9
	FTPAcceptFailed         Code = 10
	FTPWeirdPassReply       Code = 11
	FTPAcceptTimeout        Code = 12
	FTPWeirdPasvReply       Code = 13
	FTPWeird227Format       Code = 14
	FTPCantGetHost          Code = 15
	HTTP2                   Code = 16
	FTPCouldntSetType       Code = 17
	PartialFile             Code = 18
	FTPCouldntRetrFile      Code = 19
	QuoteError              Code = 21
	HTTPReturnedError       Code = 22
	WriteError              Code = 23
	UploadFailed            Code = 25
	ReadError               Code = 26
	OutOfMemory             Code = 27
	OperationTimedout       Code = 28
	FTPPortFailed           Code = 30
	FTPCouldntUseRest       Code = 31
	RangeError              Code = 33
	HTTPPostError           Code = 34
	SSLConnectError         Code = 35
	BadDownloadResume       Code = 36
	FileCouldntReadFile     Code = 37
	LDAPCannotBind          Code = 38
	LDAPSearchFailed        Code = 39
	FunctionNotFound        Code = 41
	AbortedByCallback       Code = 42
	BadFunctionArgument     Code = 43
	InterfaceFailed         Code = 45
	TooManyRedirects        Code = 47
	UnknownOption           Code = 48
	SetoptOptionSyntax      Code = 49
	GotNothing              Code = 52
	SSLEngineNotFound       Code = 53
	SSLEngineSetFailed      Code = 54
	SendError               Code = 55
	RecvError               Code = 56
	SSLCertProblem          Code = 58
	SSLCipher               Code = 59
	PeerFailedVerification  Code = 60
	BadContentEncoding      Code = 61
	FilesizeExceeded        Code = 63
	UseSSLFailed            Code = 64
	SendFailRewind          Code = 65
	SSLEngineInitFailed     Code = 66
	LoginDenied             Code = 67
	TFTPNotFound            Code = 68
	TFTPPerm                Code = 69
	RemoteDiskFull          Code = 70
	TFTPIllegal             Code = 71
	TFTPUnknownID           Code = 72
	RemoteFileExists        Code = 73
	TFTPNoSuchUser          Code = 74
	SSLCACertBadFile        Code = 77
	RemoteFileNotFound      Code = 78
	SSH                     Code = 79
	SSLShutdownFailed       Code = 80
	Again                   Code = 81
	SSLCRLBadFile           Code = 82
	SSLIssuerError          Code = 83
	FTPPRETFailed           Code = 84
	RTSPCSeqError           Code = 85
	RTSPSessionError        Code = 86
	FTPBadFileList          Code = 87
	ChunkFailed             Code = 88
	NoConnectionAvailable   Code = 89
	SSLPinnedPubKeyNotMatch Code = 90
	SSLInvalidCertStatus    Code = 91
	HTTP2Stream             Code = 92
	RecursiveAPICall        Code = 93
	AuthError               Code = 94
	HTTP3                   Code = 95
	QUICConnectError        Code = 96
)

var codeNames = map[Code]string{
	OK: "CURLE_OK", UnsupportedProtocol: "CURLE_UNSUPPORTED_PROTOCOL", FailedInit: "CURLE_FAILED_INIT",
	URLMalformat: "CURLE_URL_MALFORMAT", NotBuiltIn: "CURLE_NOT_BUILT_IN",
	CouldntResolveProxy: "CURLE_COULDNT_RESOLVE_PROXY", CouldntResolveHost: "CURLE_COULDNT_RESOLVE_HOST",
	CouldntConnect: "CURLE_COULDNT_CONNECT", WeirdServerReply: "CURLE_WEIRD_SERVER_REPLY",
	RemoteAccessDenied: "CURLE_REMOTE_ACCESS_DENIED", HTTP2: "CURLE_HTTP2", PartialFile: "CURLE_PARTIAL_FILE",
	QuoteError: "CURLE_QUOTE_ERROR", HTTPReturnedError: "CURLE_HTTP_RETURNED_ERROR",
	WriteError: "CURLE_WRITE_ERROR", UploadFailed: "CURLE_UPLOAD_FAILED", ReadError: "CURLE_READ_ERROR",
	OutOfMemory: "CURLE_OUT_OF_MEMORY", OperationTimedout: "CURLE_OPERATION_TIMEDOUT",
	RangeError: "CURLE_RANGE_ERROR", HTTPPostError: "CURLE_HTTP_POST_ERROR",
	SSLConnectError: "CURLE_SSL_CONNECT_ERROR", BadDownloadResume: "CURLE_BAD_DOWNLOAD_RESUME",
	FileCouldntReadFile: "CURLE_FILE_COULDNT_READ_FILE", FunctionNotFound: "CURLE_FUNCTION_NOT_FOUND",
	AbortedByCallback: "CURLE_ABORTED_BY_CALLBACK", BadFunctionArgument: "CURLE_BAD_FUNCTION_ARGUMENT",
	InterfaceFailed: "CURLE_INTERFACE_FAILED", TooManyRedirects: "CURLE_TOO_MANY_REDIRECTS",
	UnknownOption: "CURLE_UNKNOWN_OPTION", SetoptOptionSyntax: "CURLE_SETOPT_OPTION_SYNTAX",
	GotNothing: "CURLE_GOT_NOTHING", SendError: "CURLE_SEND_ERROR", RecvError: "CURLE_RECV_ERROR",
	SSLCertProblem: "CURLE_SSL_CERTPROBLEM", SSLCipher: "CURLE_SSL_CIPHER",
	PeerFailedVerification: "CURLE_PEER_FAILED_VERIFICATION", BadContentEncoding: "CURLE_BAD_CONTENT_ENCODING",
	FilesizeExceeded: "CURLE_FILESIZE_EXCEEDED", UseSSLFailed: "CURLE_USE_SSL_FAILED",
	SendFailRewind: "CURLE_SEND_FAIL_REWIND", LoginDenied: "CURLE_LOGIN_DENIED",
	RemoteFileNotFound: "CURLE_REMOTE_FILE_NOT_FOUND", SSLCACertBadFile: "CURLE_SSL_CACERT_BADFILE",
	Again: "CURLE_AGAIN", SSLPinnedPubKeyNotMatch: "CURLE_SSL_PINNEDPUBKEYNOTMATCH",
	HTTP2Stream: "CURLE_HTTP2_STREAM", RecursiveAPICall: "CURLE_RECURSIVE_API_CALL",
	AuthError: "CURLE_AUTH_ERROR", HTTP3: "CURLE_HTTP3", QUICConnectError: "CURLE_QUIC_CONNECT_ERROR",
}

var codeMessages = map[Code]string{
	OK:                      "No error",
	UnsupportedProtocol:     "Unsupported protocol",
	FailedInit:              "Failed initialization",
	URLMalformat:            "URL using bad/illegal format or missing URL",
	NotBuiltIn:              "A requested feature, protocol or option was not found built-in in this libcurl due to a build-time decision.",
	CouldntResolveProxy:     "Couldn't resolve proxy name",
	CouldntResolveHost:      "Couldn't resolve host name",
	CouldntConnect:          "Couldn't connect to server",
	WeirdServerReply:        "Weird server reply",
	RemoteAccessDenied:      "Access denied to remote resource",
	FTPAcceptFailed:         "FTP: The server failed to connect to data port",
	FTPWeirdPassReply:       "FTP: unknown PASS reply",
	FTPAcceptTimeout:        "FTP: Accepting server connect has timed out",
	FTPWeirdPasvReply:       "FTP: unknown PASV reply",
	FTPWeird227Format:       "FTP: unknown 227 response format",
	FTPCantGetHost:          "FTP: can't figure out the host in the PASV response",
	HTTP2:                   "Error in the HTTP2 framing layer",
	FTPCouldntSetType:       "FTP: couldn't set file type",
	PartialFile:             "Transferred a partial file",
	FTPCouldntRetrFile:      "FTP: couldn't retrieve (RETR failed) the specified file",
	QuoteError:              "Quote command returned error",
	HTTPReturnedError:       "HTTP response code said error",
	WriteError:              "Failed writing received data to disk/application",
	UploadFailed:            "Upload failed (at start/before it took off)",
	ReadError:               "Failed to open/read local data from file/application",
	OutOfMemory:             "Out of memory",
	OperationTimedout:       "Timeout was reached",
	FTPPortFailed:           "FTP: command PORT failed",
	FTPCouldntUseRest:       "FTP: command REST failed",
	RangeError:              "Requested range was not delivered by the server",
	HTTPPostError:           "Internal problem setting up the POST",
	SSLConnectError:         "SSL connect error",
	BadDownloadResume:       "Couldn't resume download",
	FileCouldntReadFile:     "Couldn't read a file:// file",
	LDAPCannotBind:          "LDAP: cannot bind",
	LDAPSearchFailed:        "LDAP: search failed",
	FunctionNotFound:        "A required function in the library was not found",
	AbortedByCallback:       "Operation was aborted by an application callback",
	BadFunctionArgument:     "A libcurl function was given a bad argument",
	InterfaceFailed:         "Failed binding local connection end",
	TooManyRedirects:        "Number of redirects hit maximum amount",
	UnknownOption:           "An unknown option was passed in to libcurl",
	SetoptOptionSyntax:      "Malformed option provided in a setopt",
	GotNothing:              "Server returned nothing (no headers, no data)",
	SSLEngineNotFound:       "SSL crypto engine not found",
	SSLEngineSetFailed:      "Can not set SSL crypto engine as default",
	SendError:               "Failed sending data to the peer",
	RecvError:               "Failure when receiving data from the peer",
	SSLCertProblem:          "Problem with the local SSL certificate",
	SSLCipher:               "Couldn't use specified SSL cipher",
	PeerFailedVerification:  "SSL peer certificate or SSH remote key was not OK",
	BadContentEncoding:      "Unrecognized or bad HTTP Content or Transfer-Encoding",
	FilesizeExceeded:        "Maximum file size exceeded",
	UseSSLFailed:            "Requested SSL level failed",
	SendFailRewind:          "Send failed since rewinding of the data stream failed",
	SSLEngineInitFailed:     "Failed to initialise SSL crypto engine",
	LoginDenied:             "Login denied",
	TFTPNotFound:            "TFTP: File Not Found",
	TFTPPerm:                "TFTP: Access Violation",
	RemoteDiskFull:          "Disk full or allocation exceeded",
	TFTPIllegal:             "TFTP: Illegal operation",
	TFTPUnknownID:           "TFTP: Unknown transfer ID",
	RemoteFileExists:        "Remote file already exists",
	TFTPNoSuchUser:          "TFTP: No such user",
	SSLCACertBadFile:        "Problem with the SSL CA cert (path? access rights?)",
	RemoteFileNotFound:      "Remote file not found",
	SSH:                     "Error in the SSH layer",
	SSLShutdownFailed:       "Failed to shut down the SSL connection",
	Again:                   "Socket not ready for send/recv",
	SSLCRLBadFile:           "Failed to load CRL file (path? access rights?, format?)",
	SSLIssuerError:          "Issuer check against peer certificate failed",
	FTPPRETFailed:           "FTP: The server did not accept the PRET command.",
	RTSPCSeqError:           "RTSP CSeq mismatch or invalid CSeq",
	RTSPSessionError:        "RTSP session error",
	FTPBadFileList:          "Unable to parse FTP file list",
	ChunkFailed:             "Chunk callback failed",
	NoConnectionAvailable:   "The max connection limit is reached",
	SSLPinnedPubKeyNotMatch: "SSL public key does not match pinned public key",
	SSLInvalidCertStatus:    "SSL server certificate status verification FAILED",
	HTTP2Stream:             "Stream error in the HTTP/2 framing layer",
	RecursiveAPICall:        "API function called from within callback",
	AuthError:               "An authentication function returned an error",
	HTTP3:                   "HTTP/3 error",
	QUICConnectError:        "QUIC connection error",
}

// Message returns the diagnostic text for the code.
func (c Code) Message() string { return lookup(codeMessages, c) }

// String returns the symbolic name of the code.
func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "CURLE_" + strconv.Itoa(int(c))
}

// Retryable reports whether a transfer that failed with c may succeed when
// attempted again unchanged.
func (c Code) Retryable() bool {
	switch c {
	case CouldntResolveProxy, CouldntResolveHost, CouldntConnect, OperationTimedout,
		GotNothing, SendError, RecvError, PartialFile, HTTP2, HTTP2Stream, Again,
		NoConnectionAvailable:
		return true
	}
	return false
}

func (c Code) ok() bool { return c == OK }
