package security

import (
	"net/netip"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var ErrDisallowedURL = errors.New("disallowed endpoint URL")

// EndpointPolicy decides which endpoint URLs a client may be pointed at.
type EndpointPolicy struct {
	// AllowHTTP permits plain HTTP URLs. HTTPS is always allowed.
	AllowHTTP bool
	// AllowLocalNetworks permits loopback, private and link-local targets.
	AllowLocalNetworks bool
}

var (
	// RemoteAPI is used for hosted model providers.
	RemoteAPI = EndpointPolicy{}
	// LocalService is used for services expected to run next to the chatbot, like ollama.
	LocalService = EndpointPolicy{AllowHTTP: true, AllowLocalNetworks: true}
)

// ValidateEndpointURL checks the scheme and host of a configured endpoint.
// IP literals are checked without DNS lookups.
func ValidateEndpointURL(rawURL string, p EndpointPolicy) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrapf(ErrDisallowedURL, "%q: %v", rawURL, err)
	}

	switch parsed.Scheme {
	case "https":
	case "http":
		if !p.AllowHTTP {
			return errors.Wrapf(ErrDisallowedURL, "%q: http is not allowed", rawURL)
		}
	default:
		return errors.Wrapf(ErrDisallowedURL, "%q: unsupported scheme %q", rawURL, parsed.Scheme)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return errors.Wrapf(ErrDisallowedURL, "%q: missing host", rawURL)
	}
	if p.AllowLocalNetworks {
		return nil
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return errors.Wrapf(ErrDisallowedURL, "%q: local host", rawURL)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	if addr.Zone() != "" {
		return errors.Wrapf(ErrDisallowedURL, "%q: zoned address", rawURL)
	}
	addr = addr.Unmap()
	if addr.IsUnspecified() || addr.IsMulticast() || addr.IsLoopback() || addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() {
		return errors.Wrapf(ErrDisallowedURL, "%q: local network address", rawURL)
	}
	return nil
}
