package scenario

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
)

const cancelDeadline = 5 * time.Second

// HTTP issues a plain HTTP GET through the proxy.
type HTTP struct{}

func (HTTP) Name() string  { return NameHTTP }
func (HTTP) Title() string { return "Basic HTTP Request" }

func (HTTP) Run(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy, env.clientOptions()...)
	if err != nil {
		return buildFailure(err)
	}
	return FetchOrigin(ctx, client, env.Settings.Target)
}

// HTTPS issues a GET to a TLS target; the proxy relays it as a CONNECT
// tunnel.
type HTTPS struct{}

func (HTTPS) Name() string  { return NameHTTPS }
func (HTTPS) Title() string { return "HTTPS Request (CONNECT tunnel)" }

func (HTTPS) Run(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy, env.clientOptions()...)
	if err != nil {
		return buildFailure(err)
	}
	return FetchOrigin(ctx, client, env.Settings.TargetTLS)
}

// Auth issues a GET through the proxy using the configured Basic
// credentials.
type Auth struct{}

func (Auth) Name() string  { return NameAuth }
func (Auth) Title() string { return "Authenticated Proxy" }

func (Auth) Run(ctx context.Context, env *Env) models.Outcome {
	proxy := env.Settings.Proxy
	client, err := network.NewClient(proxy, env.clientOptions(network.WithAuth(proxy.User, proxy.Pass))...)
	if err != nil {
		return buildFailure(err)
	}
	return FetchOrigin(ctx, client, env.Settings.TargetTLS)
}

// Page fetches an HTML page through the proxy and reports its title,
// demonstrating proxied retrieval of real web content.
type Page struct{}

func (Page) Name() string  { return NamePage }
func (Page) Title() string { return "Proxied Page Fetch" }

func (Page) Run(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy, env.clientOptions()...)
	if err != nil {
		return buildFailure(err)
	}

	resp, err := client.Get(ctx, env.Settings.PageTarget)
	if err != nil {
		kind, detail := network.Classify(err)
		return models.Failed(kind, detail)
	}
	defer resp.Body.Close()

	if kind := network.ClassifyStatus(resp.StatusCode); kind != models.KindSuccess {
		return models.Outcome{Kind: kind, Status: resp.StatusCode, Detail: "status " + resp.Status}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Failed(models.KindOther, err.Error())
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return models.Outcome{
		Kind:   models.KindSuccess,
		Status: resp.StatusCode,
		Detail: "Title: " + title,
	}
}

// Cancel bounds a request with a context deadline instead of the client
// timeout.
type Cancel struct{}

func (Cancel) Name() string  { return NameCancel }
func (Cancel) Title() string { return "Context Cancellation" }

func (Cancel) Run(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy, env.clientOptions()...)
	if err != nil {
		return buildFailure(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, cancelDeadline)
	defer cancel()

	req, err := fhttp.NewRequestWithContext(reqCtx, fhttp.MethodGet, env.Settings.TargetTLS, nil)
	if err != nil {
		return models.Failed(models.KindOther, err.Error())
	}
	resp, err := client.Do(req)
	if err != nil {
		kind, detail := network.Classify(err)
		return models.Failed(kind, detail)
	}
	resp.Body.Close()
	return models.Outcome{Kind: models.KindSuccess, Status: resp.StatusCode}
}

func buildFailure(err error) models.Outcome {
	kind, detail := network.Classify(err)
	return models.Failed(kind, detail)
}
