package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// SSLChecker inspects the certificate a host presents on port 443.
type SSLChecker struct {
	Timeout time.Duration
}

// Check dials the host over TLS and extracts certificate validity, issuer,
// remaining lifetime, and whether the certificate covers the hostname.
// An invalid certificate is still inspected: verification is done manually
// so self-signed or mismatched certificates produce data, not just errors.
func (s *SSLChecker) Check(ctx context.Context, host string) SSLCheck {
	result := SSLCheck{}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.Timeout},
		Config: &tls.Config{
			ServerName: host,
			// Verification happens below so we can report on bad
			// certificates instead of failing the handshake.
			InsecureSkipVerify: true, // #nosec G402
		},
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, "443"))
	if err != nil {
		result.Error = fmt.Sprintf("TLS connection failed: %v", err)
		return result
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok || len(tlsConn.ConnectionState().PeerCertificates) == 0 {
		result.Error = "no certificate presented"
		return result
	}

	cert := tlsConn.ConnectionState().PeerCertificates[0]
	now := time.Now()

	result.Issuer = cert.Issuer.CommonName
	if result.Issuer == "" && len(cert.Issuer.Organization) > 0 {
		result.Issuer = cert.Issuer.Organization[0]
	}
	result.ValidFrom = cert.NotBefore.Format(time.RFC3339)
	result.ValidTo = cert.NotAfter.Format(time.RFC3339)
	result.DaysRemaining = int(cert.NotAfter.Sub(now).Hours() / 24)
	result.DomainMatch = cert.VerifyHostname(host) == nil
	result.Valid = result.DomainMatch &&
		now.After(cert.NotBefore) &&
		now.Before(cert.NotAfter)

	return result
}

// Name returns the name of this checker.
func (s *SSLChecker) Name() string {
	return "check ssl"
}
