package scanner

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/maxvaer/goforce/internal/config"
)

// maxDrain bounds how much of a response body is read before the
// connection is returned to the pool.
const maxDrain = 64 << 10

// Requester wraps an HTTP client shared by the URI, vhost and directory probes.
type Requester struct {
	client    *http.Client
	userAgent string
	user      string
	pass      string
	basicAuth bool
}

// NewRequester creates a Requester from the provided options.
func NewRequester(opts config.Options) *Requester {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: opts.Threads,
		MaxIdleConns:        opts.Threads,
		IdleConnTimeout:     30 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "goforce/1.0"
	}

	r := &Requester{client: client, userAgent: ua}
	r.user, r.pass, r.basicAuth = opts.Credentials()
	return r
}

// Get issues a GET to rawURL and returns the final status code. host
// overrides the Host header if non-empty.
func (r *Requester) Get(ctx context.Context, rawURL, host string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("User-Agent", r.userAgent)
	if r.basicAuth {
		req.SetBasicAuth(r.user, r.pass)
	}
	if host != "" {
		req.Host = host
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	return resp.StatusCode, nil
}

// CloseIdle releases pooled connections once a run is over.
func (r *Requester) CloseIdle() {
	r.client.CloseIdleConnections()
}
