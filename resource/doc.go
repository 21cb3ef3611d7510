// Package resource provides single-ownership wrappers for native resources.
//
// An Owned value holds one raw native resource together with the function
// that releases it. The zero value of the raw type is the empty sentinel:
// an empty owner releases nothing. Ownership moves explicitly with Move or
// Take, and Close releases the held resource exactly once.
//
// Owners must not be copied. Each Owned holds a mutex, so go vet's
// copylocks check reports on copies. Duplicating a native resource is the
// native layer's job; wrap the duplicate in a new owner:
//
//	dup := resource.Acquire(lib.EasyDuphandle(h.Get()), lib.EasyCleanup)
//	if dup.Empty() {
//	    return errors.OutOfMemory("easy handle")
//	}
//	defer dup.Close()
package resource
