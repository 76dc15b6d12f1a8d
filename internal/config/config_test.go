package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validOpts(t *testing.T) Options {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte("admin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	o := Default()
	o.Targets = []string{"http://example.test"}
	o.WordlistPath = path
	return o
}

func TestDefault(t *testing.T) {
	o := Default()
	if o.WordlistPath != "wordlist.txt" || o.Threads != 10 || o.Timeout != 5*time.Second || !o.FollowRedirects {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"valid", func(o *Options) {}, false},
		{"no targets", func(o *Options) { o.Targets = nil }, true},
		{"zero threads", func(o *Options) { o.Threads = 0 }, true},
		{"zero timeout", func(o *Options) { o.Timeout = 0 }, true},
		{"bad auth", func(o *Options) { o.Auth = "nocolon" }, true},
		{"empty user", func(o *Options) { o.Auth = ":secret" }, true},
		{"good auth", func(o *Options) { o.Auth = "admin:secret" }, false},
		{"bad port", func(o *Options) { o.Ports = []int{0} }, true},
		{"port too large", func(o *Options) { o.Ports = []int{70000} }, true},
		{"missing wordlist", func(o *Options) { o.WordlistPath = "/nonexistent/wordlist.txt" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOpts(t)
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	o := Default()
	o.Targets = []string{"a"}
	o.Ports = []int{80}

	c := o.Clone()
	o.Targets[0] = "b"
	o.Ports[0] = 443

	if c.Targets[0] != "a" || c.Ports[0] != 80 {
		t.Errorf("clone shares backing arrays: %+v", c)
	}
}

func TestCredentials(t *testing.T) {
	o := Options{Auth: "admin:p:ss"}
	user, pass, ok := o.Credentials()
	if !ok || user != "admin" || pass != "p:ss" {
		t.Errorf("Credentials() = %q, %q, %v", user, pass, ok)
	}
	if _, _, ok := (Options{}).Credentials(); ok {
		t.Error("expected no credentials for empty auth")
	}
}
