package security

import (
	"crypto/tls"
	"errors"
	"net/http"
	"testing"

	"github.com/kbukum/xfer/security/tlstest"
)

func TestTLSConfig_Build_NilConfig(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatal("expected nil for nil config")
	}
}

func TestTLSConfig_Build_ZeroValue(t *testing.T) {
	result, err := (&TLSConfig{}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatal("expected nil for zero-value config")
	}
}

func TestTLSConfig_Build_SkipVerify(t *testing.T) {
	result, err := (&TLSConfig{SkipVerify: true}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected MinVersion=TLS12, got %d", result.MinVersion)
	}
	if result.VerifyConnection != nil {
		t.Error("expected no verification hook without pins")
	}
}

func TestTLSConfig_Build_Versions(t *testing.T) {
	result, err := (&TLSConfig{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MinVersion != tls.VersionTLS13 || result.MaxVersion != tls.VersionTLS13 {
		t.Errorf("unexpected versions %x..%x", result.MinVersion, result.MaxVersion)
	}
}

func TestTLSConfig_Build_InvalidCAFile(t *testing.T) {
	_, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build()
	if !errors.Is(err, ErrCAFile) {
		t.Fatalf("expected ErrCAFile, got %v", err)
	}
}

func TestTLSConfig_Build_InvalidCAContent(t *testing.T) {
	path := tlstest.WriteInvalidPEM(t, "bad-ca.pem")
	_, err := (&TLSConfig{CAFile: path}).Build()
	if !errors.Is(err, ErrCAFile) {
		t.Fatalf("expected ErrCAFile, got %v", err)
	}
}

func TestTLSConfig_Build_InvalidCertFiles(t *testing.T) {
	_, err := (&TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}).Build()
	if !errors.Is(err, ErrClientCert) {
		t.Fatalf("expected ErrClientCert, got %v", err)
	}
}

func TestTLSConfig_Build_ValidCAAndClientCert(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	result, err := (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
	if len(result.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(result.Certificates))
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		wantErr bool
	}{
		{"nil", nil, false},
		{"empty", &TLSConfig{}, false},
		{"cert without key", &TLSConfig{CertFile: "c.pem"}, true},
		{"bad pin", &TLSConfig{PinnedPublicKey: "md5//abc"}, true},
		{"short pin", &TLSConfig{PinnedPublicKey: "sha256//YWJj"}, true},
		{"inverted versions", &TLSConfig{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS12}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTLSConfig_IsEnabled(t *testing.T) {
	var nilCfg *TLSConfig
	if nilCfg.IsEnabled() {
		t.Error("nil config should not be enabled")
	}
	if (&TLSConfig{}).IsEnabled() {
		t.Error("empty config should not be enabled")
	}
	if !(&TLSConfig{SkipHostVerify: true}).IsEnabled() {
		t.Error("SkipHostVerify should enable TLS settings")
	}
}

func get(t *testing.T, cfg *TLSConfig, url string) error {
	t.Helper()
	tc, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: tc}}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func TestTLSConfig_Handshake(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	pin := PinSHA256(certs.Leaf(t))

	t.Run("trusted CA", func(t *testing.T) {
		if err := get(t, &TLSConfig{CAFile: certs.CAFile}, srv.URL); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("matching pin", func(t *testing.T) {
		if err := get(t, &TLSConfig{CAFile: certs.CAFile, PinnedPublicKey: pin}, srv.URL); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("mismatched pin", func(t *testing.T) {
		other := "sha256//AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
		err := get(t, &TLSConfig{SkipVerify: true, PinnedPublicKey: other}, srv.URL)
		if !errors.Is(err, ErrPinnedKey) {
			t.Errorf("expected ErrPinnedKey, got %v", err)
		}
	})

	t.Run("host mismatch tolerated", func(t *testing.T) {
		cfg := &TLSConfig{CAFile: certs.CAFile, SkipHostVerify: true, ServerName: "not-the-host.test"}
		if err := get(t, cfg, srv.URL); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("host mismatch rejected", func(t *testing.T) {
		cfg := &TLSConfig{CAFile: certs.CAFile, ServerName: "not-the-host.test"}
		if err := get(t, cfg, srv.URL); err == nil {
			t.Error("expected host name verification failure")
		}
	})
}
