package mealinfo

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

/**
 * interfaces
 */

// Relay re-issues a request through an intermediary when the upstream api
// can't be reached directly.
type Relay interface {
	Name() string
	Endpoint(targetUrl string, timeout int) (*Endpoint, error)
}

func NewRelay(config *Config) (Relay, error) {
	switch config.RelayType {
	case "", RelayTypeQuery:
		relay, err := NewQueryRelay(config.RelayUrl, config.RelayParam)
		if err != nil {
			return nil, err
		}
		return relay, nil
	case RelayTypeProxy:
		relay, err := NewForwardProxyRelay(config.RelayUrl)
		if err != nil {
			return nil, err
		}
		return relay, nil
	default:
		return nil, fmt.Errorf("Unknown relay type: %s", config.RelayType)
	}
}

/**
 * QueryRelay
 */

// QueryRelay embeds the escaped target url as a query parameter of a public
// forwarding service.
type QueryRelay struct {
	baseUrl string
	param   string
}

func NewQueryRelay(baseUrl string, param string) (*QueryRelay, error) {
	if len(baseUrl) == 0 {
		return nil, fmt.Errorf("QueryRelay: relay url not configured")
	}

	if _, err := url.Parse(baseUrl); err != nil {
		return nil, fmt.Errorf("QueryRelay: invalid relay url %s: %w", baseUrl, err)
	}

	if len(param) == 0 {
		param = DefaultRelayParam
	}

	return &QueryRelay{baseUrl: baseUrl, param: param}, nil
}

func (qr *QueryRelay) Name() string {
	return "relay"
}

func (qr *QueryRelay) RelayUrl(targetUrl string) string {
	sep := "?"
	if strings.Contains(qr.baseUrl, "?") {
		sep = "&"
	}
	return qr.baseUrl + sep + qr.param + "=" + url.QueryEscape(targetUrl)
}

func (qr *QueryRelay) Endpoint(targetUrl string, timeout int) (*Endpoint, error) {
	return NewGetEndpoint(qr.RelayUrl(targetUrl), timeout, JSONAcceptHeaders...), nil
}

/**
 * ForwardProxyRelay
 */

// ForwardProxyRelay sends the unchanged request through an http(s) proxy.
type ForwardProxyRelay struct {
	url *url.URL
}

func NewForwardProxyRelay(proxyUrl string) (*ForwardProxyRelay, error) {
	parsed, err := url.Parse(proxyUrl)
	if err != nil {
		return nil, fmt.Errorf("ForwardProxyRelay: invalid proxy url: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("ForwardProxyRelay: proxy url must be http(s)://[user:pass@]host:port, got %s", censorUrl(parsed))
	}

	return &ForwardProxyRelay{url: parsed}, nil
}

func (fpr *ForwardProxyRelay) Name() string {
	return "proxy"
}

func (fpr *ForwardProxyRelay) GetUrl() *url.URL {
	return fpr.url
}

func (fpr *ForwardProxyRelay) GetHttpClient(timeout int) *http.Client {
	transport := &http.Transport{}
	transport.Proxy = http.ProxyURL(fpr.url)

	if timeout <= 0 {
		timeout = EndpointDefaultTimeout
	}

	client := new(http.Client)
	client.Transport = transport
	client.Timeout = time.Duration(timeout) * time.Second

	return client
}

func (fpr *ForwardProxyRelay) Endpoint(targetUrl string, timeout int) (*Endpoint, error) {
	endpoint := NewGetEndpoint(targetUrl, timeout, JSONAcceptHeaders...)
	endpoint.HttpClient = fpr.GetHttpClient(timeout)

	Log.Debugf("Using proxy: %s", censorUrl(fpr.url))

	return endpoint, nil
}

func censorUrl(u *url.URL) string {
	parts := strings.Split(u.String(), "@")
	if len(parts) == 1 {
		return u.String() //no auth, just return the plain url
	}

	if len(parts) != 2 {
		return "<malformed>"
	}

	partsAuth := strings.Split(parts[0], ":")
	if len(partsAuth) < 2 {
		return "<malformed>"
	}

	return fmt.Sprintf("%s:%s:<snip>@%s", partsAuth[0], partsAuth[1], parts[1])
}

var apiKeyParamPattern = regexp.MustCompile(`((?:^|[?&]|%3F|%26)KEY(?:=|%3D))[^&%]+`)

// censorUrlString hides the api key, also when embedded as an escaped relay parameter.
func censorUrlString(rawUrl string) string {
	censored := apiKeyParamPattern.ReplaceAllString(rawUrl, "${1}<snip>")

	if u, err := url.Parse(censored); err == nil && u.User != nil {
		return censorUrl(u)
	}

	return censored
}
