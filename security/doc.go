// Package security builds the TLS client configuration of a transfer.
//
// TLSConfig mirrors the transfer options that govern TLS: peer and host
// verification, CA bundles, client certificates and public key pinning.
//
//	cfg := security.TLSConfig{
//	    CAFile:          "/path/to/ca.pem",
//	    PinnedPublicKey: "sha256//YhKJKSzoTt2b5FP18fvpHo7fJYqQCjAa3HWY3tvRMwE=",
//	}
//
//	tlsConfig, err := cfg.Build()
//
// Build failures wrap ErrCAFile or ErrClientCert; failures during the
// handshake wrap ErrPeerVerify or ErrPinnedKey, so callers can classify them
// with errors.Is.
package security
