package network

import (
	"context"
	"fmt"
	"net/url"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/jimezsa/proxyprobe/internal/config"
)

const userAgent = "proxyprobe/1.0"

// Mode limits which request schemes are routed through the proxy. Requests
// outside the scope go direct.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeHTTPOnly  Mode = "http"
	ModeHTTPSOnly Mode = "https"
)

// BuildError reports that no client could be constructed from the given
// proxy configuration. It is the only failure NewClient can return.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build client: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

type Option func(*options)

type options struct {
	mode     Mode
	timeout  time.Duration
	user     string
	pass     string
	insecure bool
}

// WithMode sets the proxy protocol scope. Default is ModeAll.
func WithMode(mode Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithTimeout bounds each request issued by the client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithAuth attaches Basic credentials to the proxy URL.
func WithAuth(user, pass string) Option {
	return func(o *options) {
		o.user = user
		o.pass = pass
	}
}

// WithInsecureTLS skips certificate verification, for targets with
// self-signed certificates.
func WithInsecureTLS() Option {
	return func(o *options) { o.insecure = true }
}

// Client routes requests through a forward proxy according to its protocol
// scope. It holds a proxied and a direct underlying client and picks one per
// request by URL scheme.
type Client struct {
	proxied  tls_client.HttpClient
	direct   tls_client.HttpClient
	mode     Mode
	proxyURL string
}

// NewClient builds a client that tunnels through the given proxy endpoint.
// It fails only when the proxy configuration does not form a valid URL.
func NewClient(proxy config.ProxyConfig, opts ...Option) (*Client, error) {
	o := options{mode: ModeAll, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	proxyURL, err := buildProxyURL(proxy, o.user, o.pass)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	base := []tls_client.HttpClientOption{
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutMilliseconds(int(o.timeout.Milliseconds())),
	}
	if o.insecure {
		base = append(base, tls_client.WithInsecureSkipVerify())
	}

	proxied, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		append(base, tls_client.WithProxyUrl(proxyURL))...,
	)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	direct, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), base...)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	return &Client{
		proxied:  proxied,
		direct:   direct,
		mode:     o.mode,
		proxyURL: proxyURL,
	}, nil
}

func buildProxyURL(proxy config.ProxyConfig, user, pass string) (string, error) {
	raw := proxy.URL()
	if user != "" {
		raw = fmt.Sprintf("http://%s:%s@%s", url.QueryEscape(user), url.QueryEscape(pass), proxy.Addr())
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("proxy url %q has no host", raw)
	}
	if parsed.Port() == "" {
		return "", fmt.Errorf("proxy url %q has no port", raw)
	}
	return raw, nil
}

// ProxyURL returns the proxy endpoint this client routes through, with any
// credentials attached.
func (c *Client) ProxyURL() string {
	return c.proxyURL
}

func (c *Client) Mode() Mode {
	return c.mode
}

// Do dispatches the request to the proxied or direct underlying client
// depending on the request scheme and the proxy scope.
func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return c.pick(req.URL.Scheme).Do(req)
}

// Get issues a GET for the target URL.
func (c *Client) Get(ctx context.Context, target string) (*fhttp.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func (c *Client) pick(scheme string) tls_client.HttpClient {
	switch c.mode {
	case ModeHTTPOnly:
		if scheme == "http" {
			return c.proxied
		}
		return c.direct
	case ModeHTTPSOnly:
		if scheme == "https" {
			return c.proxied
		}
		return c.direct
	default:
		return c.proxied
	}
}
