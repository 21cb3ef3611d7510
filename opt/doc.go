// Package opt enumerates the configure identifiers of a transfer handle.
//
// Identifiers are partitioned by the kind of value the native library
// expects for them. Each partition is its own named type, and the handle has
// one setter per type, so configuring an identifier with a value of the wrong
// kind does not compile:
//
//	h.SetString(opt.URL, "https://example.test/get")
//	h.SetLong(opt.Timeout, 5)
//	h.SetBool(opt.FollowLocation, true)
//	h.SetLong(opt.URL, 5) // compile error: opt.URL is an opt.String
//
// The numeric values are the native library's option numbers.
package opt
