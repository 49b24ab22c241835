package net

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service the bridge is advertised under.
const ServiceType = "_markupboard._tcp"

// Advertise announces the bridge on the local network. Shut the returned
// server down to stop answering queries.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if len(info) == 0 {
		info = []string{"MarkupBoard"}
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}
