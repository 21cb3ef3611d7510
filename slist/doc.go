// Package slist provides an owned native string list.
//
// A List owns the head of a native linked list of byte strings. Appending
// may move the head; the owner follows it only when the native append
// succeeds, so a failed append leaves the previous chain owned and intact.
//
//	l, err := slist.Of("Accept: application/json", "X-Trace: 1")
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//
//	for v := range l.All() {
//	    fmt.Println(string(v))
//	}
//
// Iterators obtained from All are invalidated by Append and Close; using an
// invalidated iterator panics.
package slist
