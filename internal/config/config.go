package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultWordlist = "wordlist.txt"
	DefaultThreads  = 10
	DefaultTimeout  = 5 * time.Second
)

// Options holds all configuration for a goforce run. A Run receives a
// cloned snapshot, so callers may keep editing their own copy afterwards.
type Options struct {
	// Target
	Targets      []string // raw positional arguments (URLs, file://, hosts)
	WordlistPath string
	Ports        []int

	// Performance
	Threads int
	Timeout time.Duration

	// HTTP
	FollowRedirects bool
	Auth            string // "user:password", empty = no basic auth
	UserAgent       string

	// DNS
	Resolver string // nameserver host[:port], empty = system resolver

	// Output
	OutputFile  string
	OnResultCmd string
	NoColor     bool
	Debug       bool
	Silent      bool
	NoShell     bool
}

// Default returns Options populated with the command-line defaults.
func Default() Options {
	return Options{
		WordlistPath:    DefaultWordlist,
		Threads:         DefaultThreads,
		Timeout:         DefaultTimeout,
		FollowRedirects: true,
	}
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	c := o
	c.Targets = append([]string(nil), o.Targets...)
	c.Ports = append([]int(nil), o.Ports...)
	return c
}

// Credentials splits Auth into username and password. ok is false when no
// credentials are configured.
func (o Options) Credentials() (user, pass string, ok bool) {
	if o.Auth == "" {
		return "", "", false
	}
	user, pass, _ = strings.Cut(o.Auth, ":")
	return user, pass, true
}

// Validate reports the first configuration error that would prevent a run.
func (o Options) Validate() error {
	if len(o.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	if o.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", o.Threads)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if err := ValidateAuth(o.Auth); err != nil {
		return err
	}
	for _, p := range o.Ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("invalid port %d: must be between 1 and 65535", p)
		}
	}
	if o.WordlistPath == "" {
		return fmt.Errorf("wordlist path is empty")
	}
	if _, err := os.Stat(o.WordlistPath); err != nil {
		return fmt.Errorf("wordlist %s: %w", o.WordlistPath, err)
	}
	return nil
}

// ValidateAuth checks that auth is empty or of the form "user:password".
func ValidateAuth(auth string) error {
	if auth == "" {
		return nil
	}
	user, _, found := strings.Cut(auth, ":")
	if !found || user == "" {
		return fmt.Errorf("invalid auth %q, expected 'user:password'", auth)
	}
	return nil
}
