package scanner

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver performs forward lookups for the DNS subdomain probe.
type Resolver interface {
	LookupHost(ctx context.Context, name string) ([]string, error)
}

// NewResolver returns a resolver that queries server directly, or the
// system resolver when server is empty.
func NewResolver(server string, timeout time.Duration) Resolver {
	if server == "" {
		return net.DefaultResolver
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &DNSResolver{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
	}
}

// DNSResolver sends A and AAAA queries to a single nameserver.
type DNSResolver struct {
	server string
	client *dns.Client
}

// LookupHost returns the A records for name, falling back to AAAA when
// there are none. A missing name yields a *net.DNSError with IsNotFound set.
func (r *DNSResolver) LookupHost(ctx context.Context, name string) ([]string, error) {
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		addrs, rcode, err := r.query(ctx, name, qtype)
		if err != nil {
			return nil, err
		}
		if rcode == dns.RcodeNameError {
			break
		}
		if rcode != dns.RcodeSuccess {
			return nil, &net.DNSError{
				Err:    fmt.Sprintf("server answered %s", dns.RcodeToString[rcode]),
				Name:   name,
				Server: r.server,
			}
		}
		if len(addrs) > 0 {
			return addrs, nil
		}
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, Server: r.server, IsNotFound: true}
}

func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) ([]string, int, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, 0, err
	}

	var addrs []string
	for _, rr := range in.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			addrs = append(addrs, rec.A.String())
		case *dns.AAAA:
			addrs = append(addrs, rec.AAAA.String())
		}
	}
	return addrs, in.Rcode, nil
}
