package engine

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"

	"github.com/kbukum/xfer/security"
	"github.com/kbukum/xfer/status"
)

// transferError carries a status decided inside the transfer, such as a
// refused write or an exceeded size limit, through net/http.
type transferError struct {
	code status.Code
	err  error
}

func (e *transferError) Error() string {
	if e.err != nil {
		return e.code.Message() + ": " + e.err.Error()
	}
	return e.code.Message()
}

func (e *transferError) Unwrap() error { return e.err }

func fail(code status.Code, err error) error {
	return &transferError{code: code, err: err}
}

// codeFor classifies a transfer error.
func codeFor(err error) status.Code {
	if err == nil {
		return status.OK
	}

	var te *transferError
	if errors.As(err, &te) {
		return te.code
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return status.OperationTimedout
	case errors.Is(err, errInterface):
		return status.InterfaceFailed
	case errors.Is(err, errProxyScheme):
		return status.UnsupportedProtocol
	case errors.Is(err, errProxyURL):
		return status.CouldntResolveProxy
	case errors.Is(err, security.ErrPinnedKey):
		return status.SSLPinnedPubKeyNotMatch
	case errors.Is(err, security.ErrCAFile):
		return status.SSLCACertBadFile
	case errors.Is(err, security.ErrClientCert):
		return status.SSLCertProblem
	case errors.Is(err, security.ErrInvalidPinning):
		return status.BadFunctionArgument
	case errors.Is(err, security.ErrPeerVerify):
		return status.PeerFailedVerification
	}

	var (
		dnsErr     *net.DNSError
		certErr    *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
		urlErr     *url.Error
		opErr      *net.OpError
	)
	switch {
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return status.OperationTimedout
		}
		return status.CouldntResolveHost
	case errors.As(err, &certErr), errors.As(err, &unknownCA), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return status.PeerFailedVerification
	case errors.As(err, &recordErr), errors.As(err, &alertErr):
		return status.SSLConnectError
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.ENOENT):
		return status.CouldntConnect
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return status.RecvError
	case errors.Is(err, io.ErrUnexpectedEOF):
		return status.PartialFile
	case errors.Is(err, io.EOF):
		return status.GotNothing
	}

	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return status.OperationTimedout
		}
		if opErr.Op == "dial" {
			return status.CouldntConnect
		}
		if opErr.Op == "write" {
			return status.SendError
		}
		return status.RecvError
	}
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return status.OperationTimedout
	}
	return status.RecvError
}

// errno extracts the OS error number behind err, or 0.
func errno(err error) int64 {
	var n syscall.Errno
	if errors.As(err, &n) {
		return int64(n)
	}
	return 0
}
