package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/version"
)

func newVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.Get().String())
			var lib native.Library
			var err error
			if o.library != "" {
				lib, err = native.Lookup(o.library)
			} else {
				lib, err = native.Default()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "library: %s %s\n", lib.Name(), lib.Version())
			return nil
		},
	}
}
