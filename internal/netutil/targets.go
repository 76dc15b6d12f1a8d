package netutil

import (
	"bufio"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const filePrefix = "file://"

// ResolveTargets expands the raw target arguments into the ordered list of
// targets to probe. http(s) URLs lose their trailing slash, file://<path>
// arguments contribute one target per non-empty line, and anything else is
// used as-is. When ports is non-empty every target is multiplied across it.
func ResolveTargets(args []string, ports []int) ([]string, error) {
	var targets []string
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if strings.HasPrefix(arg, filePrefix) {
			lines, err := readTargetsFile(strings.TrimPrefix(arg, filePrefix))
			if err != nil {
				return nil, err
			}
			for _, line := range lines {
				targets = append(targets, normalize(line))
			}
			continue
		}
		targets = append(targets, normalize(arg))
	}

	if len(ports) > 0 {
		targets = expandPorts(targets, ports)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets specified")
	}
	return targets, nil
}

// Hostname returns the host portion of a target, without scheme, port or
// path. Bare hosts are returned unchanged.
func Hostname(target string) string {
	if IsHTTP(target) {
		u, err := url.Parse(target)
		if err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	if host, _, err := net.SplitHostPort(target); err == nil {
		return host
	}
	return target
}

// IsHTTP reports whether target carries an http:// or https:// scheme.
func IsHTTP(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func normalize(target string) string {
	if IsHTTP(target) {
		return strings.TrimRight(target, "/")
	}
	return target
}

func readTargetsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening targets file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}
	return lines, nil
}

// expandPorts returns scheme://host:port for every target and port. Bare
// hosts are treated as plain http. Any path on a URL target is kept.
func expandPorts(targets []string, ports []int) []string {
	out := make([]string, 0, len(targets)*len(ports))
	for _, t := range targets {
		scheme, path := "http", ""
		host := t
		if IsHTTP(t) {
			if u, err := url.Parse(t); err == nil && u.Hostname() != "" {
				scheme, host, path = u.Scheme, u.Hostname(), u.EscapedPath()
			}
		} else {
			host = Hostname(t)
		}
		for _, p := range ports {
			out = append(out, fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, strconv.Itoa(p)), path))
		}
	}
	return out
}
