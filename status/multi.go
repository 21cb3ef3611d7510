package status

import "strconv"

// MultiCode is a multi-transfer result code (CURLMcode).
type MultiCode int

// Multi-transfer result codes.
const (
	MultiCallMultiPerform MultiCode = -1
	MultiOK               MultiCode = 0
	MultiBadHandle        MultiCode = 1
	MultiBadEasyHandle    MultiCode = 2
	MultiOutOfMemory      MultiCode = 3
	MultiInternalError    MultiCode = 4
	MultiBadSocket        MultiCode = 5
	MultiUnknownOption    MultiCode = 6
	MultiAddedAlready     MultiCode = 7
	MultiRecursiveAPICall MultiCode = 8
	MultiWakeupFailure    MultiCode = 9
	MultiBadFunctionArg   MultiCode = 10
)

var multiMessages = map[MultiCode]string{
	MultiCallMultiPerform: "Please call curl_multi_perform() soon",
	MultiOK:               "No error",
	MultiBadHandle:        "Invalid multi handle",
	MultiBadEasyHandle:    "Invalid easy handle",
	MultiOutOfMemory:      "Out of memory",
	MultiInternalError:    "Internal error",
	MultiBadSocket:        "Invalid socket argument",
	MultiUnknownOption:    "Unknown option",
	MultiAddedAlready:     "The easy handle is already added to a multi handle",
	MultiRecursiveAPICall: "API function called from within callback",
	MultiWakeupFailure:    "Wakeup is unavailable or failed",
	MultiBadFunctionArg:   "A libcurl function was given a bad argument",
}

var multiNames = map[MultiCode]string{
	MultiCallMultiPerform: "CURLM_CALL_MULTI_PERFORM", MultiOK: "CURLM_OK",
	MultiBadHandle: "CURLM_BAD_HANDLE", MultiBadEasyHandle: "CURLM_BAD_EASY_HANDLE",
	MultiOutOfMemory: "CURLM_OUT_OF_MEMORY", MultiInternalError: "CURLM_INTERNAL_ERROR",
	MultiBadSocket: "CURLM_BAD_SOCKET", MultiUnknownOption: "CURLM_UNKNOWN_OPTION",
	MultiAddedAlready: "CURLM_ADDED_ALREADY", MultiRecursiveAPICall: "CURLM_RECURSIVE_API_CALL",
	MultiWakeupFailure: "CURLM_WAKEUP_FAILURE", MultiBadFunctionArg: "CURLM_BAD_FUNCTION_ARGUMENT",
}

// Message returns the diagnostic text for the code.
func (c MultiCode) Message() string { return lookup(multiMessages, c) }

// String returns the symbolic name of the code.
func (c MultiCode) String() string {
	if n, ok := multiNames[c]; ok {
		return n
	}
	return "CURLM_" + strconv.Itoa(int(c))
}

// Retryable reports whether the failure is transient.
func (c MultiCode) Retryable() bool { return c == MultiCallMultiPerform }

// CALL_MULTI_PERFORM is informational, not a failure.
func (c MultiCode) ok() bool { return c == MultiOK || c == MultiCallMultiPerform }
