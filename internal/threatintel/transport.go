package threatintel

import (
	"net/http"
	"net/url"
)

// newTransport routes lookups through the configured proxies, falling back
// to HTTP_PROXY / HTTPS_PROXY / NO_PROXY from the environment.
func newTransport(httpProxy, httpsProxy string) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = proxyFunc(httpProxy, httpsProxy)
	return t
}

func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		switch {
		case req.URL.Scheme == "https" && httpsProxy != "":
			return url.Parse(httpsProxy)
		case httpProxy != "":
			return url.Parse(httpProxy)
		default:
			return http.ProxyFromEnvironment(req)
		}
	}
}
