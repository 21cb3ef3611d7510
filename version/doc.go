// Package version reports the build version of xfer binaries and the
// default User-Agent sent by the command line client.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/xfer/version.Version=1.2.0" ./cmd/xfer
package version
