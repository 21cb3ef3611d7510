package engine

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/security"
	"github.com/kbukum/xfer/security/tlstest"
	"github.com/kbukum/xfer/status"
)

func TestPerform_TLSVerification(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "secure")
	}))
	leafPin := security.PinSHA256(certs.Leaf(t))
	caPin := security.PinSHA256(certs.CACert)

	tests := []struct {
		name string
		opts map[native.Option]any
		want status.Code
	}{
		{"unknown authority", nil, status.PeerFailedVerification},
		{"trusted ca", map[native.Option]any{native.Option(opt.CAInfo): certs.CAFile}, status.OK},
		{"verification off", map[native.Option]any{native.Option(opt.SSLVerifyPeer): int64(0), native.Option(opt.SSLVerifyHost): int64(0)}, status.OK},
		{"matching pin", map[native.Option]any{native.Option(opt.CAInfo): certs.CAFile, native.Option(opt.PinnedPublicKey): leafPin}, status.OK},
		{"wrong pin", map[native.Option]any{native.Option(opt.CAInfo): certs.CAFile, native.Option(opt.PinnedPublicKey): caPin}, status.SSLPinnedPubKeyNotMatch},
		{"missing ca file", map[native.Option]any{native.Option(opt.CAInfo): filepath.Join(t.TempDir(), "none.pem")}, status.SSLCACertBadFile},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			h := mustInit(t, e)
			setURL(t, e, h, srv.URL)
			body := setWriter(t, e, h)
			for o, v := range tc.opts {
				setopt(t, e, h, o, v)
			}
			if code := e.EasyPerform(h); code != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, code)
			}
			if tc.want == status.OK && body.String() != "secure" {
				t.Errorf("expected body secure, got %q", body.String())
			}
		})
	}
}
