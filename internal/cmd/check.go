package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/proxyprobe/internal/config"
	"github.com/jimezsa/proxyprobe/internal/network"
	"github.com/jimezsa/proxyprobe/internal/scenario"
)

type CheckCmd struct {
	Target  string `help:"Target URL to request through each proxy."`
	Timeout int    `help:"Timeout in seconds." default:"15"`
	Proxies string `help:"Comma-separated extra proxy URLs." env:"PROXYPROBE_PROXIES"`
}

type CheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	Kind      string `json:"kind,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Run probes the configured proxy endpoint, plus any extras from the flag,
// PROXYPROBE_PROXIES, or proxies.txt.
func (c *CheckCmd) Run(ctx *Context) error {
	target := strings.TrimSpace(c.Target)
	if target == "" {
		target = ctx.Settings.Target
	}

	raws := []string{ctx.Settings.Proxy.URL()}
	extras, err := config.LoadProxies(c.Proxies)
	if err != nil {
		return err
	}
	raws = append(raws, extras...)

	results := make([]CheckResult, 0, len(raws))
	for _, raw := range raws {
		results = append(results, c.checkOne(ctx, raw, target))
	}

	return writeCheckResults(ctx, results)
}

func (c *CheckCmd) checkOne(ctx *Context, raw, target string) CheckResult {
	result := CheckResult{Proxy: raw}

	proxy, err := config.ParseProxyURL(raw)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	opts := []network.Option{network.WithTimeout(time.Duration(c.Timeout) * time.Second)}
	if proxy.User != "" {
		opts = append(opts, network.WithAuth(proxy.User, proxy.Pass))
	}
	if ctx.Settings.InsecureTLS {
		opts = append(opts, network.WithInsecureTLS())
	}

	client, err := network.NewClient(proxy, opts...)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	outcome := scenario.FetchOrigin(context.Background(), client, target)
	result.LatencyMS = outcome.LatencyMS
	if outcome.OK() {
		result.Status = strconv.Itoa(outcome.Status)
	} else {
		result.Status = "error"
		result.Kind = string(outcome.Kind)
		result.Error = outcome.Detail
	}
	return result
}

func writeCheckResults(ctx *Context, results []CheckResult) error {
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, strconv.FormatInt(res.LatencyMS, 10), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
