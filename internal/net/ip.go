package net

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoLANAddress is returned when no interface has a usable IPv4 address.
var ErrNoLANAddress = errors.New("no LAN address")

// routeProbe is never contacted: dialing UDP only selects the source
// address of the default route.
const routeProbe = "8.8.8.8:80"

// OutgoingIP finds the address other machines on the LAN can reach the
// bridge at: the source address of the default route, else the best IPv4
// address of an interface that is up.
func OutgoingIP() (string, error) {
	if ip, err := routeIP(); err == nil {
		return ip.String(), nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	var addrs []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		a, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}

	ip := pickLANAddr(addrs)
	if ip == nil {
		return "", ErrNoLANAddress
	}
	return ip.String(), nil
}

func routeIP() (net.IP, error) {
	conn, err := net.Dial("udp4", routeProbe)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.IsUnspecified() || addr.IP.IsLoopback() {
		return nil, ErrNoLANAddress
	}
	return addr.IP, nil
}

// pickLANAddr prefers a private IPv4 address over any other global unicast
// IPv4 one. Loopback, link-local and IPv6 addresses are skipped.
func pickLANAddr(addrs []net.Addr) net.IP {
	var fallback net.IP
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		ip = ip.To4()
		if ip == nil || !ip.IsGlobalUnicast() {
			continue
		}
		if ip.IsPrivate() {
			return ip
		}
		if fallback == nil {
			fallback = ip
		}
	}
	return fallback
}
