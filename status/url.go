package status

import "strconv"

// URLCode is a URL handle result code (CURLUcode).
type URLCode int

// URL handle result codes.
const (
	URLOK                URLCode = 0
	URLBadHandle         URLCode = 1
	URLBadPartpointer    URLCode = 2
	URLMalformedInput    URLCode = 3
	URLBadPortNumber     URLCode = 4
	URLUnsupportedScheme URLCode = 5
	URLURLDecode         URLCode = 6
	URLOutOfMemory       URLCode = 7
	URLUserNotAllowed    URLCode = 8
	URLUnknownPart       URLCode = 9
	URLNoScheme          URLCode = 10
	URLNoUser            URLCode = 11
	URLNoPassword        URLCode = 12
	URLNoOptions         URLCode = 13
	URLNoHost            URLCode = 14
	URLNoPort            URLCode = 15
	URLNoQuery           URLCode = 16
	URLNoFragment        URLCode = 17
)

var urlMessages = map[URLCode]string{
	URLOK:                "No error",
	URLBadHandle:         "An invalid CURLU pointer was passed as argument",
	URLBadPartpointer:    "An invalid 'part' argument was passed as argument",
	URLMalformedInput:    "Malformed input to a URL function",
	URLBadPortNumber:     "Port number was not a decimal number between 0 and 65535",
	URLUnsupportedScheme: "Unsupported URL scheme",
	URLURLDecode:         "URL decode error, most likely because of rubbish in the input",
	URLOutOfMemory:       "A memory function failed",
	URLUserNotAllowed:    "Credentials was passed in the URL when prohibited",
	URLUnknownPart:       "An unknown part ID was passed to a URL API function",
	URLNoScheme:          "No scheme part in the URL",
	URLNoUser:            "No user part in the URL",
	URLNoPassword:        "No password part in the URL",
	URLNoOptions:         "No options part in the URL",
	URLNoHost:            "No host part in the URL",
	URLNoPort:            "No port part in the URL",
	URLNoQuery:           "No query part in the URL",
	URLNoFragment:        "No fragment part in the URL",
}

var urlNames = map[URLCode]string{
	URLOK: "CURLUE_OK", URLBadHandle: "CURLUE_BAD_HANDLE", URLBadPartpointer: "CURLUE_BAD_PARTPOINTER",
	URLMalformedInput: "CURLUE_MALFORMED_INPUT", URLBadPortNumber: "CURLUE_BAD_PORT_NUMBER",
	URLUnsupportedScheme: "CURLUE_UNSUPPORTED_SCHEME", URLURLDecode: "CURLUE_URLDECODE",
	URLOutOfMemory: "CURLUE_OUT_OF_MEMORY", URLUserNotAllowed: "CURLUE_USER_NOT_ALLOWED",
	URLUnknownPart: "CURLUE_UNKNOWN_PART", URLNoScheme: "CURLUE_NO_SCHEME", URLNoUser: "CURLUE_NO_USER",
	URLNoPassword: "CURLUE_NO_PASSWORD", URLNoOptions: "CURLUE_NO_OPTIONS", URLNoHost: "CURLUE_NO_HOST",
	URLNoPort: "CURLUE_NO_PORT", URLNoQuery: "CURLUE_NO_QUERY", URLNoFragment: "CURLUE_NO_FRAGMENT",
}

// Message returns the diagnostic text for the code.
func (c URLCode) Message() string { return lookup(urlMessages, c) }

// String returns the symbolic name of the code.
func (c URLCode) String() string {
	if n, ok := urlNames[c]; ok {
		return n
	}
	return "CURLUE_" + strconv.Itoa(int(c))
}

// Retryable reports whether the failure is transient. URL parsing is
// deterministic, so no URL code is.
func (c URLCode) Retryable() bool { return false }

func (c URLCode) ok() bool { return c == URLOK }
