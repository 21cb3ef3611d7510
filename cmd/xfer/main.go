// Command xfer performs URL transfers from the command line.
//
// The pure Go engine is always available. Build with -tags libcurl to link
// the system libcurl and make it the default library.
package main

import (
	"github.com/kbukum/xfer/internal/cli"
	_ "github.com/kbukum/xfer/native/engine"
	_ "github.com/kbukum/xfer/native/libcurl"
)

func main() {
	cli.Main()
}
