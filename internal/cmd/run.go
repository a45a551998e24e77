package cmd

import (
	"context"
	"fmt"

	"github.com/jimezsa/proxyprobe/internal/scenario"
)

type RunCmd struct {
	Requests int `help:"Number of concurrent requests in the fan-out scenario." env:"PROXYPROBE_REQUESTS"`
}

// Run executes every scenario in order. Scenario failures are demonstrative
// and never produce a non-zero exit.
func (r *RunCmd) Run(ctx *Context) error {
	settings := ctx.Settings
	if r.Requests > 0 {
		settings.Requests = r.Requests
	}

	ctx.UI.Printf("proxyprobe %s", ctx.Version)
	ctx.UI.Printf("Proxy: %s", settings.Proxy.URL())
	ctx.UI.Printf("")

	outcomes := scenario.RunAll(context.Background(), ctx.scenarioEnv(settings), scenario.Order())

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.OK() {
			failed++
		}
	}
	if failed > 0 {
		ctx.UI.Warnf("%d of %d scenarios reported failures.", failed, len(outcomes))
	}
	ctx.UI.Printf("All scenarios completed.")
	return nil
}

// ScenarioCmd runs a single scenario by name.
type ScenarioCmd struct {
	Scenario string `kong:"-"`
}

func (s *ScenarioCmd) Run(ctx *Context) error {
	sc, ok := scenario.Lookup(s.Scenario)
	if !ok {
		return fmt.Errorf("unknown scenario %q", s.Scenario)
	}
	scenario.RunAll(context.Background(), ctx.scenarioEnv(ctx.Settings), []scenario.Scenario{sc})
	return nil
}
