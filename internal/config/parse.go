package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParsePorts parses port numbers given as separate fields, comma-separated
// lists, or a mix of both.
func ParsePorts(fields []string) ([]int, error) {
	var ports []int
	for _, field := range fields {
		for _, p := range strings.Split(field, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q: %w", p, err)
			}
			if n < 1 || n > 65535 {
				return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", n)
			}
			ports = append(ports, n)
		}
	}
	return ports, nil
}

// ParseSeconds parses a timeout given in (fractional) seconds such as "5"
// or "2.5". Go duration strings like "500ms" are accepted too.
func ParseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %q", s)
		}
		return time.Duration(f * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: expected seconds", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %q", s)
	}
	return d, nil
}
