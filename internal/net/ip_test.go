package net

import (
	"net"
	"testing"
)

func ipNet(s string) net.Addr {
	ip, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	n.IP = ip
	return n
}

func TestPickLANAddr(t *testing.T) {
	tests := []struct {
		name  string
		addrs []net.Addr
		want  string
	}{
		{"private wins", []net.Addr{ipNet("203.0.113.7/24"), ipNet("192.168.1.20/24")}, "192.168.1.20"},
		{"public fallback", []net.Addr{ipNet("203.0.113.7/24")}, "203.0.113.7"},
		{"skips loopback and link-local", []net.Addr{ipNet("127.0.0.1/8"), ipNet("169.254.3.4/16"), ipNet("10.0.0.5/8")}, "10.0.0.5"},
		{"skips ipv6", []net.Addr{ipNet("fd00::1/64"), &net.IPAddr{IP: net.ParseIP("172.16.0.9")}}, "172.16.0.9"},
		{"nothing usable", []net.Addr{ipNet("127.0.0.1/8"), ipNet("fe80::1/64")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickLANAddr(tt.addrs)
			if tt.want == "" {
				if got != nil {
					t.Errorf("got %v, want none", got)
				}
				return
			}
			if got.String() != tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}
