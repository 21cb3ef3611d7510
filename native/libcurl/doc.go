// Package libcurl binds the native surface to the system libcurl through
// cgo. It is compiled only with the libcurl build tag:
//
//	go build -tags libcurl ./...
//
// Importing the package registers the binding as "libcurl" and makes it the
// default library. Without the tag the package is empty and importing it has
// no effect, so commands can import it unconditionally.
//
// Unlike the pure Go engine, libcurl does not copy string lists handed to a
// handle: a list attached with SetList must stay open until the handle stops
// performing or the option is replaced.
package libcurl
