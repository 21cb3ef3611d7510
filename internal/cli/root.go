// Package cli implements the xfer command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/xfer/status"
)

// options holds the flag values of one invocation.
type options struct {
	configFile  string
	profileName string
	library     string

	method         string
	headers        []string
	data           string
	userAgent      string
	user           string
	location       bool
	maxRedirs      int64
	maxTime        float64
	connectTimeout float64
	insecure       bool
	head           bool
	fail           bool
	compressed     bool
	limitRate      string
	output         string
	verbose        bool
	retry          int
	writeOut       string
	parallel       bool
}

// NewRootCommand builds the xfer command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "xfer [flags] URL...",
		Short: "Transfer data from or to a URL",
		Long: `xfer performs URL transfers through the typed transfer handle facade.

Settings come from the configuration file (see --config and --profile),
then from flags, which take precedence.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(cmd, o)
			if err != nil {
				return err
			}
			defer r.close(cmd.Context())
			return r.run(cmd.Context(), args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "config file (default: ./xfer.yml or the user config dir)")
	pf.StringVar(&o.profileName, "profile", "", "named profile from the config file")
	pf.StringVar(&o.library, "library", "", "native library: engine or libcurl")

	f := cmd.Flags()
	f.StringVarP(&o.method, "request", "X", "", "request method")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "request header line (repeatable)")
	f.StringVarP(&o.data, "data", "d", "", "POST data; @file reads it from a file")
	f.StringVarP(&o.userAgent, "user-agent", "A", "", "User-Agent to send")
	f.StringVarP(&o.user, "user", "u", "", "user:password for server authentication")
	f.BoolVarP(&o.location, "location", "L", false, "follow redirects")
	f.Int64Var(&o.maxRedirs, "max-redirs", 0, "maximum number of redirects to follow (-1 for unlimited)")
	f.Float64VarP(&o.maxTime, "max-time", "m", 0, "maximum time in seconds for the whole transfer")
	f.Float64Var(&o.connectTimeout, "connect-timeout", 0, "maximum time in seconds for the connect phase")
	f.BoolVarP(&o.insecure, "insecure", "k", false, "skip server certificate verification")
	f.BoolVarP(&o.head, "head", "I", false, "fetch headers only")
	f.BoolVarP(&o.fail, "fail", "f", false, "fail on HTTP responses of 400 and above")
	f.BoolVar(&o.compressed, "compressed", false, "request a compressed response and decode it")
	f.StringVar(&o.limitRate, "limit-rate", "", "maximum download speed in bytes per second (suffixes K, M, G)")
	f.StringVarP(&o.output, "output", "o", "", "write the body to a file instead of stdout")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "trace the transfer on stderr")
	f.IntVar(&o.retry, "retry", 0, "retry transient failures this many times")
	f.StringVarP(&o.writeOut, "write-out", "w", "", "print transfer info after completion: json or yaml")
	f.BoolVarP(&o.parallel, "parallel", "Z", false, "perform all URLs concurrently")

	cmd.AddCommand(newVersionCommand(o))
	return cmd
}

// Execute runs the command and returns the process exit status: the
// transfer status code for transfer failures, 1 for anything else.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var rep reported
		if !errors.As(err, &rep) {
			fmt.Fprintln(stderr, "xfer:", err)
		}
		if code, ok := status.CodeOf(err); ok {
			return int(code)
		}
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/xfer.
func Main() {
	os.Exit(Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
