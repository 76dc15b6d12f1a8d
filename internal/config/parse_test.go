package config

import (
	"testing"
	"time"
)

func TestParsePorts(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		want    []int
		wantErr bool
	}{
		{"separate fields", []string{"80", "443"}, []int{80, 443}, false},
		{"comma list", []string{"80,8080, 8443"}, []int{80, 8080, 8443}, false},
		{"empty parts skipped", []string{"80,,"}, []int{80}, false},
		{"not a number", []string{"http"}, nil, true},
		{"out of range", []string{"65536"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePorts(tt.fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePorts(%v) error = %v, wantErr %v", tt.fields, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePorts(%v) = %v, want %v", tt.fields, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"5", 5 * time.Second, false},
		{"2.5", 2500 * time.Millisecond, false},
		{"500ms", 500 * time.Millisecond, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeconds(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeconds(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSeconds(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
