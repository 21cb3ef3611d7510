package native

import (
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

// Library is the primitive surface of a transfer library. All methods are
// safe to call with empty handles, which they report as bad arguments or
// ignore in the case of cleanup functions.
type Library interface {
	// Name returns the registered name of the implementation.
	Name() string
	// Version returns the implementation's version string.
	Version() string

	GlobalInit(flags proto.GlobalFlags) status.Code
	GlobalCleanup()

	EasyInit() Handle
	EasyCleanup(h Handle)
	EasyDuphandle(h Handle) Handle
	EasyReset(h Handle)
	EasyPerform(h Handle) status.Code
	// EasySetopt stores value for o. The dynamic type of value must match
	// the option's range: int64 for long and off_t options, string, List or
	// Share for object options, and one of the callback types for function
	// options.
	EasySetopt(h Handle, o Option, value any) status.Code
	// EasyGetinfo writes the result for i into out, which must be a *string,
	// *int64, *float64 or *List matching the info's kind.
	EasyGetinfo(h Handle, i Info, out any) status.Code

	// SlistAppend returns the head of list with text appended, or 0 when
	// allocation failed, in which case list is left intact.
	SlistAppend(list List, text string) List
	SlistFreeAll(list List)
	SlistNext(node List) List
	SlistData(node List) []byte

	MultiInit() Multi
	MultiCleanup(m Multi) status.MultiCode
	MultiAddHandle(m Multi, h Handle) status.MultiCode
	MultiRemoveHandle(m Multi, h Handle) status.MultiCode
	MultiSetopt(m Multi, o MultiOption, value int64) status.MultiCode
	// MultiPerform drives every added transfer to completion.
	MultiPerform(m Multi) status.MultiCode
	// MultiInfoRead pops the next completion message.
	MultiInfoRead(m Multi) (Message, bool)

	ShareInit() Share
	ShareCleanup(s Share) status.ShareCode
	ShareSetopt(s Share, o ShareOption, data proto.LockData) status.ShareCode

	URLInit() URL
	URLDup(u URL) URL
	URLCleanup(u URL)
	// URLSet sets part to value; a nil value clears the part.
	URLSet(u URL, part URLPart, value *string, flags URLFlags) status.URLCode
	URLGet(u URL, part URLPart, flags URLFlags) (string, status.URLCode)
}
