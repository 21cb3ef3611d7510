package config

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const sample = `
library: engine
logging:
  level: debug
  format: json
profile:
  user_agent: sample/1.0
  timeout: 30s
  follow_redirects: true
  headers:
    - "Accept: */*"
profiles:
  api:
    headers: ["Accept: application/json", "X-Api: 1"]
    max_redirs: 2
    tls:
      min_version: "1.2"
      max_version: "tls1.3"
retry:
  attempts: 3
  initial_backoff: 200ms
`

func TestLoad(t *testing.T) {
	path := writeFile(t, "xfer.yml", sample)
	cfg, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Library != "engine" || cfg.Logging.Level != "debug" {
		t.Errorf("unexpected top level values %+v", cfg)
	}
	if cfg.Profile.Timeout != 30*time.Second || !cfg.Profile.FollowRedirects {
		t.Errorf("unexpected profile %+v", cfg.Profile)
	}
	if cfg.Retry.Attempts != 3 || cfg.Retry.InitialBackoff != 200*time.Millisecond {
		t.Errorf("unexpected retry %+v", cfg.Retry)
	}
	if cfg.Telemetry.ServiceName != "xfer" || cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("expected telemetry defaults, got %+v", cfg.Telemetry)
	}

	api := cfg.Profiles["api"]
	if api.TLS.MinVersion != tls.VersionTLS12 || api.TLS.MaxVersion != tls.VersionTLS13 {
		t.Errorf("expected TLS 1.2-1.3, got %x-%x", api.TLS.MinVersion, api.TLS.MaxVersion)
	}
	if api.MaxRedirs == nil || *api.MaxRedirs != 2 {
		t.Errorf("expected max_redirs 2, got %v", api.MaxRedirs)
	}
}

func TestConfig_Select(t *testing.T) {
	path := writeFile(t, "xfer.yml", sample)
	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	base, err := cfg.Select("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(base.Headers) != 1 {
		t.Errorf("expected base headers only, got %v", base.Headers)
	}

	api, err := cfg.Select("api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Accept: */*", "Accept: application/json", "X-Api: 1"}
	if !slices.Equal(api.Headers, want) {
		t.Errorf("expected %v, got %v", want, api.Headers)
	}
	if api.UserAgent != "sample/1.0" || api.Timeout != 30*time.Second {
		t.Errorf("expected base values inherited, got %+v", api)
	}
	if len(cfg.Profile.Headers) != 1 {
		t.Errorf("expected base profile unchanged, got %v", cfg.Profile.Headers)
	}

	if _, err := cfg.Select("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoad_InvalidProfile(t *testing.T) {
	path := writeFile(t, "xfer.yml", `
profiles:
  bad:
    headers: ["no separator"]
`)
	_, err := Load(WithConfigFile(path))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "config.profiles.bad") {
		t.Errorf("expected profile name in error, got %v", err)
	}
}

func TestLoad_InvalidLogging(t *testing.T) {
	path := writeFile(t, "xfer.yml", "logging:\n  level: loud\n")
	if _, err := Load(WithConfigFile(path)); err == nil || !strings.Contains(err.Error(), "config.logging") {
		t.Errorf("expected logging error, got %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, "xfer.yml", "profile: [unterminated\n")
	if _, err := Load(WithConfigFile(path)); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(WithConfigFile("/nonexistent/xfer.yml"))
	if err != nil {
		t.Fatalf("expected Load to succeed with missing file, got %v", err)
	}
	if cfg.Library != "engine" {
		t.Errorf("expected default library, got %q", cfg.Library)
	}
	if !strings.HasPrefix(cfg.Profile.UserAgent, "xfer/") {
		t.Errorf("expected default user agent, got %q", cfg.Profile.UserAgent)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "xfer.yml", sample)
	t.Setenv("XFER_PROFILE_TIMEOUT", "5s")
	t.Setenv("XFER_LOGGING_LEVEL", "warn")
	t.Setenv("UNRELATED_PROFILE_TIMEOUT", "9s")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile.Timeout != 5*time.Second {
		t.Errorf("expected env timeout 5s, got %v", cfg.Profile.Timeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env level warn, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	env := writeFile(t, ".env", "XFER_PROFILE_USER_AGENT=from-dotenv/2\n")
	t.Setenv("XFER_PROFILE_USER_AGENT", "")
	os.Unsetenv("XFER_PROFILE_USER_AGENT")

	cfg, err := Load(WithConfigFile("/nonexistent/xfer.yml"), WithEnvFile(env))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile.UserAgent != "from-dotenv/2" {
		t.Errorf("expected user agent from .env, got %q", cfg.Profile.UserAgent)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{
		files: map[string]bool{
			"/home/u/.config/xfer/config.yml": true,
			".env":                            true,
		},
		configDir: "/home/u/.config",
	}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles(LoaderConfig{})
	if files.ConfigFile != "/home/u/.config/xfer/config.yml" {
		t.Errorf("expected user config file, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", files.EnvFile)
	}

	fs.files["./xfer.yml"] = true
	if got := resolver.ResolveFiles(LoaderConfig{}).ConfigFile; got != "./xfer.yml" {
		t.Errorf("expected working directory file first, got %q", got)
	}

	explicit := resolver.ResolveFiles(LoaderConfig{ConfigFile: "/etc/xfer.yml"})
	if explicit.ConfigFile != "/etc/xfer.yml" {
		t.Errorf("expected explicit path kept, got %q", explicit.ConfigFile)
	}
}

type mockFS struct {
	files     map[string]bool
	configDir string
}

func (m *mockFS) Exists(path string) bool {
	if m.files[path] {
		return true
	}
	_, err := os.Stat(path)
	return err == nil && filepath.IsAbs(path)
}
func (m *mockFS) LoadEnv(path string) error      { return nil }
func (m *mockFS) UserConfigDir() (string, error) { return m.configDir, nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("PROFILE_USER_AGENT")
	for _, want := range []string{"profile.user_agent", "profile_user_agent", "profile.user.agent"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := generateEnvKeyVariants("LIBRARY"); !slices.Equal(got, []string{"library"}) {
		t.Errorf("expected single variant, got %v", got)
	}
}

func TestTLSVersionHook(t *testing.T) {
	stringType, uint16Type := reflect.TypeOf(""), reflect.TypeOf(uint16(0))
	tests := map[string]any{
		"1.3":    uint16(tls.VersionTLS13),
		"TLS1.0": uint16(tls.VersionTLS10),
		"9.9":    "9.9",
	}
	for in, want := range tests {
		got, err := tlsVersionHook(stringType, uint16Type, in)
		if err != nil || got != want {
			t.Errorf("%s: expected %v, got %v (%v)", in, want, got, err)
		}
	}
}
