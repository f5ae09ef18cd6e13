package httpclient

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

var ErrBlockedAddress = errors.New("destination address is not allowed")

// carrier-grade NAT, not covered by netip's IsPrivate
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// NewHttpClient builds a pooled client. A zero timeout leaves the deadline to the request context.
// With blockPrivate set, connections to loopback, private, link-local and unspecified addresses
// are refused after DNS resolution, and proxies from the environment are ignored.
func NewHttpClient(timeout time.Duration, blockPrivate bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	proxy := http.ProxyFromEnvironment
	if blockPrivate {
		dialer.Control = denyPrivate
		proxy = nil
	}

	transport := &http.Transport{
		Proxy:                 proxy,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func denyPrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	if IsBlocked(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}
	return nil
}

// IsBlocked reports whether addr is outside the public unicast space.
func IsBlocked(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() ||
		sharedAddressSpace.Contains(addr)
}
