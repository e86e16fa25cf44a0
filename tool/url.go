package tool

import (
	"net"
	"net/url"
	"strconv"
)

// BuildServiceURL builds the public URL of a listener. A wildcard host is
// replaced by the first LAN address, or localhost when there is none.
func BuildServiceURL(scheme, host string, port int, base string) string {
	if isWildcardHost(host) {
		host = "localhost"
		if ips := GetLocalIPv4List(); len(ips) > 0 {
			host = ips[0]
		}
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   normalizeURLBase(base),
	}
	return u.String()
}
