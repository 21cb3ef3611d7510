package proto

import "testing"

func TestProtocol_String(t *testing.T) {
	tests := []struct {
		p    Protocol
		want string
	}{
		{0, "NONE"},
		{HTTP, "HTTP"},
		{HTTPS, "HTTPS"},
		{HTTP | HTTPS, "HTTP|HTTPS"},
		{All, "ALL"},
		{1 << 40, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestForScheme(t *testing.T) {
	if ForScheme("https") != HTTPS {
		t.Error("expected HTTPS")
	}
	if ForScheme("File") != FILE {
		t.Error("expected case-insensitive FILE")
	}
	if ForScheme("nope") != 0 {
		t.Error("expected 0 for unknown scheme")
	}
	if !(HTTP | HTTPS).Has(HTTPS) {
		t.Error("expected Has to report the HTTPS bit")
	}
}

func TestHTTPVersion_String(t *testing.T) {
	if HTTPVersion1_1.String() != "HTTP/1.1" {
		t.Errorf("unexpected %q", HTTPVersion1_1.String())
	}
	if HTTPVersion2PriorKnowledge.String() != "HTTP/2" {
		t.Errorf("unexpected %q", HTTPVersion2PriorKnowledge.String())
	}
	if HTTPVersionNone.String() != "NONE" {
		t.Errorf("unexpected %q", HTTPVersionNone.String())
	}
}
