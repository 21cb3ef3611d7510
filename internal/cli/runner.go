package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/xfer"
	"github.com/kbukum/xfer/config"
	"github.com/kbukum/xfer/easy"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/multi"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/observability"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/profile"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/resilience"
	"github.com/kbukum/xfer/share"
	"github.com/kbukum/xfer/util"
)

// runner performs the transfers of one invocation.
type runner struct {
	o      *options
	cfg    *config.Config
	lib    native.Library
	global *xfer.Global
	prof   profile.Profile
	log    *logger.Logger

	observers []easy.Observer
	shutdown  []func(context.Context) error

	stdout io.Writer
	stderr io.Writer
}

func loadConfig(o *options) (*config.Config, error) {
	var opts []config.LoaderOption
	if o.configFile != "" {
		if _, err := os.Stat(o.configFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	return config.Load(opts...)
}

func newRunner(cmd *cobra.Command, o *options) (*runner, error) {
	switch strings.ToLower(o.writeOut) {
	case "", "json", "yaml", "yml":
	default:
		return nil, fmt.Errorf("unknown --write-out format %q (want json or yaml)", o.writeOut)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging)

	name := cfg.Library
	if o.library != "" {
		name = o.library
	}
	lib, err := native.Lookup(name)
	if err != nil {
		return nil, err
	}

	prof, err := cfg.Select(o.profileName)
	if err != nil {
		return nil, err
	}
	fp, err := o.profile(cmd.Flags())
	if err != nil {
		return nil, err
	}
	prof.Merge(fp)
	if o.insecure {
		prof.TLS.SkipVerify = true
		prof.TLS.SkipHostVerify = true
	}
	if err := prof.Validate(); err != nil {
		return nil, err
	}

	global, err := xfer.Init(proto.GlobalDefault, xfer.WithLibrary(lib))
	if err != nil {
		return nil, err
	}

	r := &runner{
		o:      o,
		cfg:    cfg,
		lib:    lib,
		global: global,
		prof:   prof,
		log:    logger.Get(logger.ComponentCLI),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
	if cfg.Telemetry.Enabled {
		if err := r.initTelemetry(cmd.Context()); err != nil {
			r.close(cmd.Context())
			return nil, err
		}
	}
	return r, nil
}

// profile converts the transfer flags into a profile to merge over the
// configured one.
func (o *options) profile(flags *pflag.FlagSet) (profile.Profile, error) {
	p := profile.Profile{
		UserAgent:       o.userAgent,
		Headers:         o.headers,
		FollowRedirects: o.location,
		Timeout:         seconds(o.maxTime),
		ConnectTimeout:  seconds(o.connectTimeout),
		FailOnError:     o.fail,
		Compressed:      o.compressed,
		Verbose:         o.verbose,
	}
	if flags.Changed("max-redirs") {
		v := o.maxRedirs
		p.MaxRedirs = &v
	}
	if o.user != "" {
		p.Username, p.Password, _ = strings.Cut(o.user, ":")
	}
	if o.limitRate != "" {
		n, err := util.ParseSize(o.limitRate)
		if err != nil {
			return p, fmt.Errorf("--limit-rate: %w", err)
		}
		p.MaxRecvSpeed = n
	}
	return p, nil
}

func (r *runner) initTelemetry(ctx context.Context) error {
	t := r.cfg.Telemetry
	tc := observability.DefaultTracerConfig(t.ServiceName)
	tc.Endpoint, tc.Insecure, tc.SampleRate = t.Endpoint, t.Insecure, t.SampleRate
	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return err
	}
	r.shutdown = append(r.shutdown, tp.Shutdown)

	mc := observability.DefaultMeterConfig(t.ServiceName)
	mc.Endpoint, mc.Insecure = t.Endpoint, t.Insecure
	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return err
	}
	r.shutdown = append(r.shutdown, mp.Shutdown)

	obs, err := observability.NewTransferObserver(
		observability.Tracer("xfer"), observability.Meter("xfer"))
	if err != nil {
		return err
	}
	r.observers = append(r.observers, obs.WithContext(ctx))
	return nil
}

func (r *runner) close(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, fn := range r.shutdown {
		if err := fn(ctx); err != nil {
			r.log.Warn("telemetry shutdown failed", logger.Fields("error", err.Error()))
		}
	}
	_ = r.global.Close()
}

func (r *runner) run(ctx context.Context, urls []string) error {
	if r.o.output != "" && len(urls) > 1 {
		return fmt.Errorf("--output takes a single URL")
	}
	if r.o.parallel && len(urls) > 1 {
		return r.runParallel(urls)
	}
	var firstErr error
	for _, u := range urls {
		if err := r.runOne(ctx, u); err != nil {
			fmt.Fprintln(r.stderr, "xfer:", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return reported{firstErr}
	}
	return nil
}

// reported marks an error already printed per transfer.
type reported struct{ error }

func (e reported) Unwrap() error { return e.error }

// transfer is one prepared handle and where its body goes.
type transfer struct {
	url     string
	h       *easy.Handle
	applied *profile.Applied
	body    *bytes.Buffer
	sink    io.Writer
	file    *os.File
}

func (t *transfer) close() {
	_ = t.applied.Close()
	_ = t.h.Close()
	if t.file != nil {
		_ = t.file.Close()
	}
}

// flush writes a buffered body to its destination.
func (t *transfer) flush() error {
	if t.body == nil {
		return nil
	}
	_, err := t.body.WriteTo(t.sink)
	return err
}

func (r *runner) prepare(rawURL string, buffered bool) (*transfer, error) {
	opts := []easy.Option{easy.WithLibrary(r.lib), easy.WithLogger(r.log)}
	for _, obs := range r.observers {
		opts = append(opts, easy.WithObserver(obs))
	}
	h, err := easy.New(opts...)
	if err != nil {
		return nil, err
	}
	t := &transfer{url: rawURL, h: h, sink: r.stdout}
	t.applied, err = r.prof.Apply(h)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	if err := r.configure(t, buffered); err != nil {
		t.close()
		return nil, err
	}
	return t, nil
}

func (r *runner) configure(t *transfer, buffered bool) error {
	h, o := t.h, r.o
	if err := h.SetString(opt.URL, t.url); err != nil {
		return err
	}
	if o.data != "" {
		data, err := readData(o.data)
		if err != nil {
			return err
		}
		if err := h.SetString(opt.CopyPostFields, data); err != nil {
			return err
		}
	}
	if o.method != "" {
		if err := h.SetString(opt.CustomRequest, o.method); err != nil {
			return err
		}
	}
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		t.file, t.sink = f, f
	}

	w := t.sink
	if buffered {
		t.body = &bytes.Buffer{}
		w = t.body
	}
	if o.head {
		if err := h.SetBool(opt.NoBody, true); err != nil {
			return err
		}
		if err := h.SetHeaderWriter(w); err != nil {
			return err
		}
	}
	if err := h.SetWriter(w); err != nil {
		return err
	}
	if o.verbose {
		if err := h.SetDebugFunc(opt.DebugFunction, r.trace); err != nil {
			return err
		}
	}
	return nil
}

// readData returns the request body of -d, reading "@file" arguments.
func readData(arg string) (string, error) {
	path, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// trace prints verbose data the way command line transfer tools do.
func (r *runner) trace(kind native.DebugKind, data []byte) {
	var prefix string
	switch kind {
	case native.DebugText:
		prefix = "* "
	case native.DebugHeaderOut:
		prefix = "> "
	case native.DebugHeaderIn:
		prefix = "< "
	default:
		return
	}
	for line := range strings.Lines(string(data)) {
		fmt.Fprint(r.stderr, prefix, line)
		if !strings.HasSuffix(line, "\n") {
			fmt.Fprintln(r.stderr)
		}
	}
}

func (r *runner) retryConfig() resilience.RetryConfig {
	attempts := r.cfg.Retry.Attempts
	if r.o.retry > 0 {
		attempts = r.o.retry + 1
	}
	rc := resilience.TransferRetryConfig(max(attempts, 1))
	if r.cfg.Retry.InitialBackoff > 0 {
		rc.InitialBackoff = r.cfg.Retry.InitialBackoff
	}
	if r.cfg.Retry.MaxBackoff > 0 {
		rc.MaxBackoff = r.cfg.Retry.MaxBackoff
	}
	rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
		fmt.Fprintf(r.stderr, "Warning: transient problem: %v\nWarning: retrying in %s (attempt %d)\n", err, backoff, attempt+1)
	}
	return rc
}

func (r *runner) runOne(ctx context.Context, rawURL string) error {
	fields := logger.Fields(logger.FieldURL, util.RedactURL(rawURL))
	if r.prof.Username != "" {
		fields["user"] = r.prof.Username
		fields["password"] = util.MaskSecret(r.prof.Password, 0)
	}
	r.log.Debug("starting transfer", fields)

	rc := r.retryConfig()
	t, err := r.prepare(rawURL, rc.MaxAttempts > 1)
	if err != nil {
		return err
	}
	defer t.close()

	err = resilience.RetryFunc(ctx, rc, func() error {
		if t.body != nil {
			t.body.Reset()
		}
		return t.h.Perform()
	})
	if ferr := t.flush(); ferr != nil && err == nil {
		err = ferr
	}
	if werr := r.writeOut([]*Report{collect(t, err)}); werr != nil && err == nil {
		err = werr
	}
	return err
}

// runParallel performs every URL at once over one multi handle, sharing
// cookies and DNS between them. Bodies are written in argument order.
func (r *runner) runParallel(urls []string) error {
	sh, err := share.New(share.WithLibrary(r.lib))
	if err != nil {
		return err
	}
	defer sh.Close()
	for _, d := range []proto.LockData{proto.LockDataCookie, proto.LockDataDNS} {
		if err := sh.Share(d); err != nil {
			return err
		}
	}

	m, err := multi.New(multi.WithLibrary(r.lib), multi.WithLogger(r.log))
	if err != nil {
		return err
	}
	defer m.Close()

	transfers := make([]*transfer, 0, len(urls))
	defer func() {
		for _, t := range transfers {
			_ = m.Remove(t.h)
			t.close()
		}
	}()
	for _, u := range urls {
		t, err := r.prepare(u, true)
		if err != nil {
			return err
		}
		transfers = append(transfers, t)
		if err := t.h.SetShare(opt.Share, sh); err != nil {
			return err
		}
		if err := m.Add(t.h); err != nil {
			return err
		}
	}
	if err := m.Perform(); err != nil {
		return err
	}

	results := make(map[*easy.Handle]error, len(transfers))
	for _, res := range m.Messages() {
		results[res.Handle] = res.Err
	}

	var firstErr error
	reports := make([]*Report, 0, len(transfers))
	for _, t := range transfers {
		err := results[t.h]
		if err == nil {
			err = t.flush()
		} else {
			fmt.Fprintln(r.stderr, "xfer:", err)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		reports = append(reports, collect(t, err))
	}
	if err := r.writeOut(reports); err != nil {
		return err
	}
	if firstErr != nil {
		return reported{firstErr}
	}
	return nil
}
