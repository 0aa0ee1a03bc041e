package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", "192.168.1.7", "garbage", ""})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.7", true},
		{"192.168.1.8", false},
		{"::ffff:10.0.0.1", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if NewIPMatcher(nil).IsEmpty() != true {
		t.Error("empty list should produce an empty matcher")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ClientIP(r, false); got != "127.0.0.1" {
		t.Errorf("ClientIP(untrusted) = %q, want 127.0.0.1", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.9" {
		t.Errorf("ClientIP(trusted) = %q, want 203.0.113.9", got)
	}
}
