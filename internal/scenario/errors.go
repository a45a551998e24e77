package scenario

import (
	"context"
	"fmt"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
)

// unreachableTarget uses the reserved .invalid TLD, which never resolves.
const unreachableTarget = "http://invalid.invalid.invalid/"

const (
	wrongUser = "wronguser"
	wrongPass = "wrongpass"
)

// Errors exercises the common failure conditions: a request timeout, an
// unresolvable host, and rejected proxy credentials. Each sub-case reports
// whether the expected failure occurred; an unexpected success is noted but
// never aborts the scenario.
type Errors struct{}

func (Errors) Name() string  { return NameErrors }
func (Errors) Title() string { return "Error Handling" }

type subCase struct {
	label  string
	expect models.Kind
	run    func(ctx context.Context, env *Env) models.Outcome
}

func (Errors) Run(ctx context.Context, env *Env) models.Outcome {
	subs := []subCase{
		{"connection timeout", models.KindTimeout, timeoutCase},
		{"unreachable host", models.KindConnect, unreachableCase},
		{"proxy auth failure", models.KindAuth, badCredentialsCase},
	}

	observed := 0
	for _, sub := range subs {
		env.UI.Printf("Testing %s...", sub.label)
		outcome := sub.run(ctx, env)
		switch {
		case outcome.Kind == sub.expect:
			observed++
			env.UI.Successf("  Caught %s error (expected)%s", outcome.Kind, authPath(outcome))
		case outcome.OK():
			env.UI.Warnf("  Unexpected success: status %d", outcome.Status)
		default:
			env.UI.Warnf("  %s error: %s", outcome.Kind, outcome.Detail)
		}
	}

	kind := models.KindSuccess
	if observed < len(subs) {
		kind = models.KindOther
	}
	return models.Outcome{
		Kind:   kind,
		Detail: fmt.Sprintf("%d/%d expected failures observed", observed, len(subs)),
	}
}

// authPath distinguishes the two ways rejected credentials surface: a 407
// response on plain relaying versus a refused CONNECT tunnel.
func authPath(outcome models.Outcome) string {
	if outcome.Kind != models.KindAuth {
		return ""
	}
	if outcome.Status == fhttp.StatusProxyAuthRequired {
		return " via 407 response"
	}
	return " via tunnel rejection"
}

func timeoutCase(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy,
		env.clientOptions(network.WithTimeout(env.Settings.ShortTimeout))...)
	if err != nil {
		return buildFailure(err)
	}
	return FetchOrigin(ctx, client, env.Settings.DelayTarget)
}

func unreachableCase(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy, env.clientOptions()...)
	if err != nil {
		return buildFailure(err)
	}
	return FetchOrigin(ctx, client, unreachableTarget)
}

func badCredentialsCase(ctx context.Context, env *Env) models.Outcome {
	client, err := network.NewClient(env.Settings.Proxy,
		env.clientOptions(network.WithAuth(wrongUser, wrongPass))...)
	if err != nil {
		return buildFailure(err)
	}
	return FetchOrigin(ctx, client, env.Settings.Target)
}
