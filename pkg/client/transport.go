package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"syscall"

	"github.com/alnah/go-aliyun/pkg/apierr"
)

var errNotJSON = errors.New("response body is not JSON")

// stripURL drops the *url.Error wrapper, whose message embeds the signed
// query string.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// classifyTransportError maps an HTTP transport error to the taxonomy.
func classifyTransportError(err error) *apierr.Error {
	err = stripURL(err)

	switch {
	case errors.Is(err, context.Canceled):
		return apierr.NewInternal("request cancelled", err)
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return apierr.NewRequestFailure(apierr.FailureTimeout, 0, "request timed out", err)
	case isConnect(err):
		return apierr.NewRequestFailure(apierr.FailureConnect, 0, "could not connect", err)
	default:
		return apierr.NewInternal("transport error", err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnect reports failures before any request byte reached the server:
// DNS, dial, refused connections and TLS handshake errors.
func isConnect(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return true
	}
	var hostErr x509.HostnameError
	return errors.As(err, &hostErr)
}
