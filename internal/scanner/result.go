package scanner

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"syscall"
)

// Reason explains why a probe did or did not produce a finding.
type Reason string

const (
	ReasonFound    Reason = "found"
	ReasonNotFound Reason = "not-found"
	ReasonSkipped  Reason = "skipped"
	ReasonTimeout  Reason = "timeout"
	ReasonRefused  Reason = "refused"
	ReasonTLS      Reason = "tls"
	ReasonDNS      Reason = "dns"
	ReasonCanceled Reason = "canceled"
	ReasonError    Reason = "error"
)

// Failed reports whether the reason is a transport or resolution failure
// rather than a clean found/not-found answer.
func (r Reason) Failed() bool {
	switch r {
	case ReasonFound, ReasonNotFound, ReasonSkipped:
		return false
	}
	return true
}

// Finding is a confirmed resource. ID is the full URL, composed domain or
// Host header value and is the deduplication key.
type Finding struct {
	ID     string `json:"id"`
	Value  string `json:"value,omitempty"` // resolved address for DNS findings
	Kind   Kind   `json:"kind"`
	Target string `json:"target"`
}

// Outcome holds the result of a single probe. Probes never return errors;
// failures are described by Reason and Err.
type Outcome struct {
	Item       WorkItem
	Reason     Reason
	StatusCode int
	Finding    Finding // set only when Reason == ReasonFound
	Err        error
}

// Found reports whether the probe discovered something.
func (o Outcome) Found() bool { return o.Reason == ReasonFound }

// classify maps a transport or resolution error to a Reason.
func classify(err error) Reason {
	if err == nil {
		return ReasonNotFound
	}
	if errors.Is(err, context.Canceled) {
		return ReasonCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ReasonTimeout
		}
		return ReasonDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonRefused
	}
	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return ReasonTLS
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return ReasonTLS
	}
	return ReasonError
}
