package tool

import (
	"net"
	"slices"
)

// GetLocalIPv4List returns the non-loopback IPv4 addresses of this host in
// lexical order.
func GetLocalIPv4List() []string {
	var result []string

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return result
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip := ipnet.IP
		if ip == nil || ip.IsLoopback() {
			continue
		}

		ipv4 := ip.To4()
		if ipv4 == nil {
			continue
		}

		result = append(result, ipv4.String())
	}
	slices.Sort(result)
	return slices.Compact(result)
}

// isWildcardHost reports whether host listens on every interface.
func isWildcardHost(host string) bool {
	return host == "" || host == "0.0.0.0" || host == "::"
}
