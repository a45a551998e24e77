package cmd

import (
	"github.com/alecthomas/kong"

	"github.com/jimezsa/proxyprobe/internal/scenario"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Run     RunCmd      `cmd:"" default:"1" help:"Run every scenario in order."`
	HTTP    ScenarioCmd `cmd:"" name:"http" help:"Plain HTTP request through the proxy."`
	HTTPS   ScenarioCmd `cmd:"" name:"https" help:"HTTPS request through the proxy (CONNECT tunnel)."`
	Auth    ScenarioCmd `cmd:"" name:"auth" help:"Request through the proxy with Basic credentials."`
	Errors  ScenarioCmd `cmd:"" name:"errors" help:"Exercise timeout, unreachable-host, and bad-credential failures."`
	Page    ScenarioCmd `cmd:"" name:"page" help:"Fetch an HTML page through the proxy and report its title."`
	Cancel  ScenarioCmd `cmd:"" name:"cancel" help:"Request bounded by a context deadline."`
	Fanout  FanoutCmd   `cmd:"" help:"Concurrent requests showing origin distribution."`
	Check   CheckCmd    `cmd:"" help:"Probe configured proxies for reachability and latency."`
	Config  ConfigCmd   `cmd:"" help:"Manage configuration."`
	Version VersionCmd  `cmd:"" help:"Print version."`
}

func NewCLI() *CLI {
	return &CLI{
		HTTP:   ScenarioCmd{Scenario: scenario.NameHTTP},
		HTTPS:  ScenarioCmd{Scenario: scenario.NameHTTPS},
		Auth:   ScenarioCmd{Scenario: scenario.NameAuth},
		Errors: ScenarioCmd{Scenario: scenario.NameErrors},
		Page:   ScenarioCmd{Scenario: scenario.NamePage},
		Cancel: ScenarioCmd{Scenario: scenario.NameCancel},
	}
}
