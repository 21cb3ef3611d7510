// Package native defines the untyped primitive surface of a transfer library
// and the registry that selects which implementation backs the typed facade.
//
// The Library interface mirrors the C calling convention: handles are opaque
// integers where zero means "no resource", configure and query take an
// untyped value, and every fallible call returns a result code instead of an
// error. Nothing in this package is meant for application code; packages
// easy, multi, share, slist and urlapi wrap it with ownership and types.
//
// Implementations register themselves by name, in the style of database/sql
// drivers:
//
//	import _ "github.com/kbukum/xfer/native/engine"
//
//	lib, err := native.Lookup("engine")
package native
