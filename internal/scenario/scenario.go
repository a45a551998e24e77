// Package scenario implements the demo scenarios the probe runs against a
// forward proxy. Scenarios are sequential and self-contained: every failure
// is classified and reported, none aborts the run.
package scenario

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jimezsa/proxyprobe/internal/config"
	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
	"github.com/jimezsa/proxyprobe/internal/ui"
)

const (
	NameHTTP   = "http"
	NameHTTPS  = "https"
	NameAuth   = "auth"
	NameErrors = "errors"
	NameFanout = "fanout"
	NamePage   = "page"
	NameCancel = "cancel"
)

// Env carries the per-run dependencies each scenario needs.
type Env struct {
	Settings config.Settings
	UI       *ui.UI
	Log      zerolog.Logger
}

func (e *Env) clientOptions(extra ...network.Option) []network.Option {
	opts := []network.Option{network.WithTimeout(e.Settings.Timeout)}
	if e.Settings.ProxyScope != "" {
		opts = append(opts, network.WithMode(network.Mode(e.Settings.ProxyScope)))
	}
	if e.Settings.InsecureTLS {
		opts = append(opts, network.WithInsecureTLS())
	}
	return append(opts, extra...)
}

type Scenario interface {
	Name() string
	Title() string
	Run(ctx context.Context, env *Env) models.Outcome
}

// Order returns the scenarios in their canonical run order.
func Order() []Scenario {
	return []Scenario{HTTP{}, HTTPS{}, Auth{}, Errors{}, Fanout{}, Page{}, Cancel{}}
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, bool) {
	for _, sc := range Order() {
		if sc.Name() == name {
			return sc, true
		}
	}
	return nil, false
}

// RunAll executes the scenarios strictly in order, printing a banner and a
// result line for each. A failing scenario never prevents the next one from
// running; outcomes are returned in execution order.
func RunAll(ctx context.Context, env *Env, scenarios []Scenario) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(scenarios))
	for _, sc := range scenarios {
		env.UI.Banner(sc.Title())
		env.Log.Debug().Str("scenario", sc.Name()).Msg("running scenario")

		outcome := sc.Run(ctx, env)
		outcome.Scenario = sc.Name()
		render(env, outcome)
		outcomes = append(outcomes, outcome)
		env.UI.Printf("")
	}
	return outcomes
}

func render(env *Env, outcome models.Outcome) {
	if outcome.OK() {
		if outcome.Status > 0 {
			env.UI.Printf("Status: %d", outcome.Status)
		}
		if outcome.Body != "" {
			env.UI.Printf("Response: %s", outcome.Body)
		}
		if outcome.Detail != "" {
			env.UI.Successf("%s", outcome.Detail)
		}
		return
	}
	env.UI.Warnf("%s error: %s", outcome.Kind, outcome.Detail)
}
