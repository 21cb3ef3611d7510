package status

import "strconv"

// ShareCode is a shared-state result code (CURLSHcode).
type ShareCode int

// Shared-state result codes.
const (
	ShareOK         ShareCode = 0
	ShareBadOption  ShareCode = 1
	ShareInUse      ShareCode = 2
	ShareInvalid    ShareCode = 3
	ShareNoMem      ShareCode = 4
	ShareNotBuiltIn ShareCode = 5
)

var shareMessages = map[ShareCode]string{
	ShareOK:         "No error",
	ShareBadOption:  "Unknown share option",
	ShareInUse:      "Share currently in use",
	ShareInvalid:    "Invalid share handle",
	ShareNoMem:      "Out of memory",
	ShareNotBuiltIn: "Feature not enabled in this library",
}

var shareNames = map[ShareCode]string{
	ShareOK: "CURLSHE_OK", ShareBadOption: "CURLSHE_BAD_OPTION", ShareInUse: "CURLSHE_IN_USE",
	ShareInvalid: "CURLSHE_INVALID", ShareNoMem: "CURLSHE_NOMEM", ShareNotBuiltIn: "CURLSHE_NOT_BUILT_IN",
}

// Message returns the diagnostic text for the code.
func (c ShareCode) Message() string { return lookup(shareMessages, c) }

// String returns the symbolic name of the code.
func (c ShareCode) String() string {
	if n, ok := shareNames[c]; ok {
		return n
	}
	return "CURLSHE_" + strconv.Itoa(int(c))
}

// Retryable reports whether the failure is transient.
func (c ShareCode) Retryable() bool { return c == ShareInUse }

func (c ShareCode) ok() bool { return c == ShareOK }
