package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/xfer/info"
	"github.com/kbukum/xfer/status"
)

// Report is the transfer summary printed by --write-out.
type Report struct {
	URL               string  `json:"url" yaml:"url"`
	EffectiveURL      string  `json:"url_effective" yaml:"url_effective"`
	ResponseCode      int64   `json:"response_code" yaml:"response_code"`
	HTTPVersion       string  `json:"http_version,omitempty" yaml:"http_version,omitempty"`
	ContentType       string  `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	RemoteIP          string  `json:"remote_ip,omitempty" yaml:"remote_ip,omitempty"`
	RemotePort        int64   `json:"remote_port,omitempty" yaml:"remote_port,omitempty"`
	RedirectCount     int64   `json:"num_redirects" yaml:"num_redirects"`
	NumConnects       int64   `json:"num_connects" yaml:"num_connects"`
	SizeDownload      int64   `json:"size_download" yaml:"size_download"`
	SpeedDownload     int64   `json:"speed_download" yaml:"speed_download"`
	TimeNameLookup    float64 `json:"time_namelookup" yaml:"time_namelookup"`
	TimeConnect       float64 `json:"time_connect" yaml:"time_connect"`
	TimeAppConnect    float64 `json:"time_appconnect" yaml:"time_appconnect"`
	TimePretransfer   float64 `json:"time_pretransfer" yaml:"time_pretransfer"`
	TimeStartTransfer float64 `json:"time_starttransfer" yaml:"time_starttransfer"`
	TimeTotal         float64 `json:"time_total" yaml:"time_total"`
	ExitCode          int     `json:"exitcode" yaml:"exitcode"`
	ErrorMsg          string  `json:"errormsg,omitempty" yaml:"errormsg,omitempty"`
}

// collect reads the transfer info of t. Info the library cannot report is
// left zero.
func collect(t *transfer, err error) *Report {
	h := t.h
	rep := &Report{URL: t.url}
	rep.EffectiveURL, _ = h.GetString(info.EffectiveURL)
	rep.ContentType, _ = h.GetString(info.ContentType)
	rep.RemoteIP, _ = h.GetString(info.PrimaryIP)
	rep.ResponseCode, _ = h.GetLong(info.ResponseCode)
	rep.RemotePort, _ = h.GetLong(info.PrimaryPort)
	rep.RedirectCount, _ = h.GetLong(info.RedirectCount)
	rep.NumConnects, _ = h.GetLong(info.NumConnects)
	rep.SizeDownload, _ = h.GetOffT(info.SizeDownload)
	rep.SpeedDownload, _ = h.GetOffT(info.SpeedDownload)
	if v, verr := h.GetHTTPVersion(info.HTTPVersion); verr == nil && v != 0 {
		rep.HTTPVersion = v.String()
	}

	timings := []struct {
		i   info.Time
		dst *float64
	}{
		{info.NameLookupTime, &rep.TimeNameLookup},
		{info.ConnectTime, &rep.TimeConnect},
		{info.AppConnectTime, &rep.TimeAppConnect},
		{info.PretransferTime, &rep.TimePretransfer},
		{info.StartTransferTime, &rep.TimeStartTransfer},
		{info.TotalTime, &rep.TimeTotal},
	}
	for _, tm := range timings {
		d, _ := h.GetTime(tm.i)
		*tm.dst = d.Round(time.Microsecond).Seconds()
	}

	if err != nil {
		rep.ExitCode = 1
		if code, ok := status.CodeOf(err); ok {
			rep.ExitCode = int(code)
		}
		rep.ErrorMsg = err.Error()
	}
	return rep
}

func (r *runner) writeOut(reports []*Report) error {
	if r.o.writeOut == "" {
		return nil
	}
	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	switch strings.ToLower(r.o.writeOut) {
	case "json":
		enc := json.NewEncoder(r.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(r.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown --write-out format %q (want json or yaml)", r.o.writeOut)
	}
}
