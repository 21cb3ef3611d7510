package security

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Failure classes reported by Build and by the verification hooks it installs.
var (
	ErrCAFile         = errors.New("security/tls: CA certificate problem")
	ErrClientCert     = errors.New("security/tls: client certificate problem")
	ErrPinnedKey      = errors.New("security/tls: public key does not match pinned public key")
	ErrPeerVerify     = errors.New("security/tls: peer certificate verification failed")
	ErrInvalidPinning = errors.New("security/tls: malformed pinned public key")
)

// TLSConfig holds the TLS settings of one transfer.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// SkipHostVerify keeps chain verification but skips matching the
	// certificate against the host name.
	SkipHostVerify bool `yaml:"skip_host_verify" mapstructure:"skip_host_verify"`

	// CAFile is the path to a PEM bundle of trusted CA certificates.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CAPath is a directory of PEM files with trusted CA certificates.
	CAPath string `yaml:"ca_path" mapstructure:"ca_path"`

	// CertFile is the path to the client TLS certificate file.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the path to the client TLS key file.
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the server name used for SNI and verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// PinnedPublicKey lists "sha256//<base64>" hashes separated by ';'.
	// The server's leaf public key must match one of them.
	PinnedPublicKey string `yaml:"pinned_public_key" mapstructure:"pinned_public_key"`

	// MinVersion is the minimum TLS version. Defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`

	// MaxVersion is the maximum TLS version. Zero means the highest supported.
	MaxVersion uint16 `yaml:"max_version" mapstructure:"max_version"`

	// SessionCache resumes TLS sessions across connections when set.
	SessionCache tls.ClientSessionCache `yaml:"-" mapstructure:"-"`
}

// Build creates a *tls.Config from the configuration.
// Returns nil if no TLS settings are configured (all fields are zero values).
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || !c.hasSettings() {
		return nil, nil
	}

	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	cfg := &tls.Config{
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
		MaxVersion:         c.MaxVersion,
		ClientSessionCache: c.SessionCache,
	}

	if err := c.loadCA(cfg); err != nil {
		return nil, err
	}
	if err := c.loadClientCert(cfg); err != nil {
		return nil, err
	}

	pins, err := parsePins(c.PinnedPublicKey)
	if err != nil {
		return nil, err
	}

	switch {
	case c.SkipVerify:
		cfg.InsecureSkipVerify = true
		if len(pins) > 0 {
			cfg.VerifyConnection = func(cs tls.ConnectionState) error {
				return checkPins(cs, pins)
			}
		}
	case c.SkipHostVerify || len(pins) > 0:
		// Chain verification is done by hand so the host name check can be
		// dropped and the pins checked against the verified leaf.
		roots := cfg.RootCAs
		skipHost := c.SkipHostVerify
		cfg.InsecureSkipVerify = true
		cfg.VerifyConnection = func(cs tls.ConnectionState) error {
			if err := verifyChain(cs, roots, skipHost); err != nil {
				return err
			}
			return checkPins(cs, pins)
		}
	}

	return cfg, nil
}

// Validate checks that the TLS configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security/tls: both cert_file and key_file must be provided together")
	}
	if c.MaxVersion != 0 && c.MaxVersion < c.MinVersion {
		return fmt.Errorf("security/tls: max_version below min_version")
	}
	_, err := parsePins(c.PinnedPublicKey)
	return err
}

// IsEnabled returns true if any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	return c != nil && c.hasSettings()
}

func (c *TLSConfig) hasSettings() bool {
	return c.SkipVerify || c.SkipHostVerify || c.CAFile != "" || c.CAPath != "" ||
		c.CertFile != "" || c.ServerName != "" || c.PinnedPublicKey != "" ||
		c.MinVersion != 0 || c.MaxVersion != 0 || c.SessionCache != nil
}

// loadCA loads CAFile and every PEM file of CAPath into one pool.
func (c *TLSConfig) loadCA(cfg *tls.Config) error {
	if c.CAFile == "" && c.CAPath == "" {
		return nil
	}
	pool := x509.NewCertPool()
	files := []string{}
	if c.CAFile != "" {
		files = append(files, c.CAFile)
	}
	if c.CAPath != "" {
		matches, err := filepath.Glob(filepath.Join(c.CAPath, "*.pem"))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCAFile, err)
		}
		files = append(files, matches...)
	}
	for _, f := range files {
		ca, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("%w: failed to read %s: %v", ErrCAFile, f, err)
		}
		if !pool.AppendCertsFromPEM(ca) {
			return fmt.Errorf("%w: failed to parse %s", ErrCAFile, f)
		}
	}
	cfg.RootCAs = pool
	return nil
}

func (c *TLSConfig) loadClientCert(cfg *tls.Config) error {
	if c.CertFile == "" {
		return nil
	}
	keyFile := c.KeyFile
	if keyFile == "" {
		// A combined PEM carries both blocks.
		keyFile = c.CertFile
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, keyFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClientCert, err)
	}
	cfg.Certificates = []tls.Certificate{cert}
	return nil
}

func verifyChain(cs tls.ConnectionState, roots *x509.CertPool, skipHost bool) error {
	if len(cs.PeerCertificates) == 0 {
		return fmt.Errorf("%w: no peer certificate", ErrPeerVerify)
	}
	opts := x509.VerifyOptions{
		Roots:         roots,
		Intermediates: x509.NewCertPool(),
	}
	if !skipHost {
		opts.DNSName = cs.ServerName
	}
	for _, ic := range cs.PeerCertificates[1:] {
		opts.Intermediates.AddCert(ic)
	}
	if _, err := cs.PeerCertificates[0].Verify(opts); err != nil {
		return fmt.Errorf("%w: %v", ErrPeerVerify, err)
	}
	return nil
}

// PinSHA256 returns the pin string matching cert's public key.
func PinSHA256(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.RawSubjectPublicKeyInfo)
	return "sha256//" + base64.StdEncoding.EncodeToString(sum[:])
}

func parsePins(list string) ([][sha256.Size]byte, error) {
	if list == "" {
		return nil, nil
	}
	var pins [][sha256.Size]byte
	for _, p := range strings.Split(list, ";") {
		p = strings.TrimSpace(p)
		b64, ok := strings.CutPrefix(p, "sha256//")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPinning, p)
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil || len(raw) != sha256.Size {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPinning, p)
		}
		pins = append(pins, [sha256.Size]byte(raw))
	}
	return pins, nil
}

func checkPins(cs tls.ConnectionState, pins [][sha256.Size]byte) error {
	if len(pins) == 0 {
		return nil
	}
	if len(cs.PeerCertificates) == 0 {
		return ErrPinnedKey
	}
	sum := sha256.Sum256(cs.PeerCertificates[0].RawSubjectPublicKeyInfo)
	for _, p := range pins {
		if p == sum {
			return nil
		}
	}
	return ErrPinnedKey
}
