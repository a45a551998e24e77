package cmd

import (
	"context"

	"github.com/jimezsa/proxyprobe/internal/models"
	"github.com/jimezsa/proxyprobe/internal/network"
	"github.com/jimezsa/proxyprobe/internal/scenario"
)

type FanoutCmd struct {
	Requests int    `help:"Number of concurrent requests." env:"PROXYPROBE_REQUESTS"`
	Output   string `name:"output" short:"o" help:"Write the outcomes and distribution to a JSON file."`
}

func (f *FanoutCmd) Run(ctx *Context) error {
	settings := ctx.Settings
	if f.Requests > 0 {
		settings.Requests = f.Requests
	}

	opts := []network.Option{network.WithTimeout(settings.Timeout)}
	if settings.ProxyScope != "" {
		opts = append(opts, network.WithMode(network.Mode(settings.ProxyScope)))
	}
	if settings.InsecureTLS {
		opts = append(opts, network.WithInsecureTLS())
	}
	client, err := network.NewClient(settings.Proxy, opts...)
	if err != nil {
		return err
	}

	n := settings.Requests
	if !ctx.JSONOutput && !ctx.PlainText {
		ctx.UI.Printf("Making %d concurrent requests...", n)
	}

	outcomes := scenario.FanOut(context.Background(), client, settings.Target, n, settings.Timeout)
	report := models.BuildReport(outcomes)

	if !ctx.JSONOutput && !ctx.PlainText {
		for i, outcome := range outcomes {
			if outcome.OK() {
				ctx.UI.Printf("  Request %d: %s", i, outcome.Origin)
			} else {
				ctx.UI.Warnf("  Request %d: %s error: %s", i, outcome.Kind, outcome.Detail)
			}
		}
		ctx.UI.Printf("")
	}

	if f.Output != "" {
		if err := saveFanoutReport(f.Output, outcomes, report); err != nil {
			return err
		}
		ctx.UI.Infof("Report written to %s", f.Output)
	}

	return writeFanoutReport(ctx, outcomes, report)
}
