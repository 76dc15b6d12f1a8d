package scanner

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/maxvaer/goforce/internal/config"
	"github.com/maxvaer/goforce/internal/netutil"
)

// Prober executes one WorkItem. Implementations must not panic or return
// errors; every failure is folded into the Outcome.
type Prober interface {
	Probe(ctx context.Context, item WorkItem) Outcome
}

// Checker runs the four network probes against live targets.
type Checker struct {
	req      *Requester
	resolver Resolver
	timeout  time.Duration
}

// NewChecker builds a Checker from a run's options.
func NewChecker(opts config.Options) *Checker {
	return &Checker{
		req:      NewRequester(opts),
		resolver: NewResolver(opts.Resolver, opts.Timeout),
		timeout:  opts.Timeout,
	}
}

// WithResolver replaces the resolver used by the DNS probe.
func (c *Checker) WithResolver(r Resolver) *Checker {
	c.resolver = r
	return c
}

// Close releases idle HTTP connections.
func (c *Checker) Close() {
	c.req.CloseIdle()
}

// Probe dispatches item to the check matching its kind.
func (c *Checker) Probe(ctx context.Context, item WorkItem) Outcome {
	switch item.Kind {
	case KindURI:
		return c.CheckURI(ctx, item.Target, item.Entry)
	case KindDNS:
		return c.CheckDNSSubdomain(ctx, item.Target, item.Entry)
	case KindVHost:
		return c.CheckVirtualHost(ctx, item.Target, item.Entry)
	case KindDirectory:
		return c.CheckDirectory(ctx, item.Target, item.Entry)
	}
	return Outcome{Item: item, Reason: ReasonSkipped}
}

// CheckURI requests target/path and reports a finding on HTTP 200.
func (c *Checker) CheckURI(ctx context.Context, target, path string) Outcome {
	return c.checkPath(ctx, WorkItem{Target: target, Entry: path, Kind: KindURI})
}

// CheckDirectory uses the same request as CheckURI but is reported as a
// separate kind so directory policy can diverge later.
func (c *Checker) CheckDirectory(ctx context.Context, target, name string) Outcome {
	return c.checkPath(ctx, WorkItem{Target: target, Entry: name, Kind: KindDirectory})
}

func (c *Checker) checkPath(ctx context.Context, item WorkItem) Outcome {
	u := baseURL(item.Target) + "/" + item.Entry
	status, err := c.req.Get(ctx, u, "")
	return httpOutcome(item, u, status, err)
}

// CheckVirtualHost requests target with the Host header set to host and
// reports a finding on HTTP 200.
func (c *Checker) CheckVirtualHost(ctx context.Context, target, host string) Outcome {
	item := WorkItem{Target: target, Entry: host, Kind: KindVHost}
	status, err := c.req.Get(ctx, baseURL(target), host)
	return httpOutcome(item, host, status, err)
}

// CheckDNSSubdomain resolves label.host and reports a finding when the
// name has at least one address.
func (c *Checker) CheckDNSSubdomain(ctx context.Context, target, label string) Outcome {
	item := WorkItem{Target: target, Entry: label, Kind: KindDNS}
	host := netutil.Hostname(target)
	if net.ParseIP(host) != nil {
		// label.<ip> is never a resolvable name.
		return Outcome{Item: item, Reason: ReasonSkipped}
	}
	domain := label + "." + host

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addrs, err := c.resolver.LookupHost(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return Outcome{Item: item, Reason: ReasonNotFound, Err: err}
		}
		return Outcome{Item: item, Reason: classify(err), Err: err}
	}
	if len(addrs) == 0 {
		return Outcome{Item: item, Reason: ReasonNotFound}
	}
	return Outcome{
		Item:    item,
		Reason:  ReasonFound,
		Finding: Finding{ID: domain, Value: addrs[0], Kind: KindDNS, Target: target},
	}
}

func httpOutcome(item WorkItem, id string, status int, err error) Outcome {
	if err != nil {
		return Outcome{Item: item, Reason: classify(err), Err: err}
	}
	if status != http.StatusOK {
		return Outcome{Item: item, Reason: ReasonNotFound, StatusCode: status}
	}
	return Outcome{
		Item:       item,
		Reason:     ReasonFound,
		StatusCode: status,
		Finding:    Finding{ID: id, Kind: item.Kind, Target: item.Target},
	}
}

// baseURL gives bare host targets an http scheme so they can be requested.
func baseURL(target string) string {
	if netutil.IsHTTP(target) {
		return target
	}
	return "http://" + target
}
