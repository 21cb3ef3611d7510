package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	_ "github.com/kbukum/xfer/native/engine"
	"github.com/kbukum/xfer/status"
	"github.com/kbukum/xfer/testutil"
)

// writeConfig writes a config file that keeps logs quiet and returns its path.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xfer.yml")
	content := "logging:\n  level: error\n  output: discard\n" + extra
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func decodeEcho(t *testing.T, body string) testutil.Echo {
	t.Helper()
	var e testutil.Echo
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("decode echo %q: %v", body, err)
	}
	return e
}

func TestRoot_Get(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, "")

	out, errOut, code := execute(t, "--config", cfg, "-A", "cli-test/1", "-H", "X-Trace: abc", bin.URL("/get"))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}
	e := decodeEcho(t, out)
	if e.Method != "GET" {
		t.Errorf("expected GET, got %s", e.Method)
	}
	if e.Headers["User-Agent"] != "cli-test/1" {
		t.Errorf("expected user agent cli-test/1, got %q", e.Headers["User-Agent"])
	}
	if e.Headers["X-Trace"] != "abc" {
		t.Errorf("expected X-Trace abc, got %q", e.Headers["X-Trace"])
	}
}

func TestRoot_PostData(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, "")
	file := filepath.Join(t.TempDir(), "body.txt")
	if err := os.WriteFile(file, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string
		verb string
	}{
		{"inline", []string{"-d", "a=1"}, "a=1", "POST"},
		{"from file", []string{"-d", "@" + file}, "from-file", "POST"},
		{"custom method", []string{"-X", "PUT", "-d", "x"}, "x", "PUT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"--config", cfg}, tc.args...)
			out, errOut, code := execute(t, append(args, bin.URL("/anything"))...)
			if code != 0 {
				t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
			}
			e := decodeEcho(t, out)
			if e.Method != tc.verb {
				t.Errorf("expected %s, got %s", tc.verb, e.Method)
			}
			if e.Body != tc.want {
				t.Errorf("expected body %q, got %q", tc.want, e.Body)
			}
		})
	}
}

func TestRoot_FailExitCode(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, "")

	_, errOut, code := execute(t, "--config", cfg, "-f", bin.URL("/status/404"))
	if code != int(status.HTTPReturnedError) {
		t.Errorf("expected exit %d, got %d", status.HTTPReturnedError, code)
	}
	if strings.Count(errOut, "xfer:") != 1 {
		t.Errorf("expected the error printed once, got %q", errOut)
	}

	_, _, code = execute(t, "--config", cfg, bin.URL("/status/404"))
	if code != 0 {
		t.Errorf("expected exit 0 without --fail, got %d", code)
	}
}

func TestRoot_Redirects(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, "")

	out, _, code := execute(t, "--config", cfg, "-L", "-w", "json", "-o", filepath.Join(t.TempDir(), "body"), bin.URL("/redirect/2"))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var rep Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if rep.RedirectCount != 2 {
		t.Errorf("expected 2 redirects, got %d", rep.RedirectCount)
	}
	if rep.ResponseCode != 200 {
		t.Errorf("expected 200, got %d", rep.ResponseCode)
	}
	if !strings.HasSuffix(rep.EffectiveURL, "/get") {
		t.Errorf("expected effective URL ending in /get, got %s", rep.EffectiveURL)
	}

	_, _, code = execute(t, "--config", cfg, "-L", "--max-redirs", "1", bin.URL("/redirect/3"))
	if code != int(status.TooManyRedirects) {
		t.Errorf("expected exit %d, got %d", status.TooManyRedirects, code)
	}
}

func TestRoot_ProfileFromConfig(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, `profiles:
  api:
    user_agent: profile-agent
    headers:
      - "X-Profile: yes"
`)

	out, errOut, code := execute(t, "--config", cfg, "--profile", "api", bin.URL("/get"))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}
	e := decodeEcho(t, out)
	if e.Headers["User-Agent"] != "profile-agent" {
		t.Errorf("expected profile user agent, got %q", e.Headers["User-Agent"])
	}
	if e.Headers["X-Profile"] != "yes" {
		t.Errorf("expected X-Profile header, got %q", e.Headers["X-Profile"])
	}

	_, errOut, code = execute(t, "--config", cfg, "--profile", "missing", bin.URL("/get"))
	if code != 1 || !strings.Contains(errOut, "missing") {
		t.Errorf("expected unknown profile error, got %d %q", code, errOut)
	}
}

func TestRoot_Parallel(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, "")

	out, errOut, code := execute(t, "--config", cfg, "-Z", "-w", "yaml",
		bin.URL("/bytes/3"), bin.URL("/status/500"), bin.URL("/bytes/5"))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}
	body, reportText, ok := strings.Cut(out, "xxxxx")
	if !ok || body != "xxxstatus 500" {
		t.Errorf("expected bodies in argument order, got %q", out)
	}
	var reports []Report
	if err := yaml.Unmarshal([]byte(reportText), &reports); err != nil {
		t.Fatalf("decode reports %q: %v", reportText, err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	want := []int64{200, 500, 200}
	for i, rep := range reports {
		if rep.ResponseCode != want[i] {
			t.Errorf("report %d: expected %d, got %d", i, want[i], rep.ResponseCode)
		}
	}
}

func TestRoot_Retry(t *testing.T) {
	cfg := writeConfig(t, "retry:\n  initial_backoff: 1ms\n  max_backoff: 2ms\n")

	_, errOut, code := execute(t, "--config", cfg, "--retry", "2", "http://127.0.0.1:1/")
	if code != int(status.CouldntConnect) {
		t.Errorf("expected exit %d, got %d", status.CouldntConnect, code)
	}
	if n := strings.Count(errOut, "Warning: retrying"); n != 2 {
		t.Errorf("expected 2 retries, got %d (%q)", n, errOut)
	}
}

func TestRoot_Verbose(t *testing.T) {
	bin := testutil.T(t).HTTPBin()
	cfg := writeConfig(t, "")

	_, errOut, code := execute(t, "--config", cfg, "-v", bin.URL("/get"))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(errOut, "> GET /get") {
		t.Errorf("expected request trace, got %q", errOut)
	}
	if !strings.Contains(errOut, "< HTTP/1.1 200") {
		t.Errorf("expected response trace, got %q", errOut)
	}
}

func TestRoot_Errors(t *testing.T) {
	cfg := writeConfig(t, "")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no url", []string{"--config", cfg}, "requires at least 1 arg"},
		{"missing config", []string{"--config", "/nonexistent/xfer.yml", "http://x"}, "config file"},
		{"unknown library", []string{"--config", cfg, "--library", "nope", "http://x"}, "nope"},
		{"bad header", []string{"--config", cfg, "-H", "broken", "http://x"}, "headers"},
		{"bad limit rate", []string{"--config", cfg, "--limit-rate", "fast", "http://x"}, "--limit-rate"},
		{"bad write-out", []string{"--config", cfg, "-w", "xml", "http://127.0.0.1:1/"}, "write-out"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errOut, code := execute(t, tc.args...)
			if code == 0 {
				t.Fatalf("expected failure")
			}
			if !strings.Contains(errOut, tc.want) {
				t.Errorf("expected %q in %q", tc.want, errOut)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, code := execute(t, "version", "--library", "engine")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "library: engine") {
		t.Errorf("expected library line, got %q", out)
	}
}
