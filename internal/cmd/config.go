package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/proxyprobe/internal/config"
)

type ConfigCmd struct {
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration."`
	Init InitConfigCmd `cmd:"" help:"Write default config and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
}

type ShowConfigCmd struct{}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	settings := ctx.Settings
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, map[string]any{
			"proxy_host":   settings.Proxy.Host,
			"proxy_port":   settings.Proxy.Port,
			"proxy_user":   settings.Proxy.User,
			"proxy_scope":  settings.ProxyScope,
			"target":       settings.Target,
			"target_tls":   settings.TargetTLS,
			"delay_target": settings.DelayTarget,
			"page_target":  settings.PageTarget,
			"timeout":      settings.Timeout.String(),
			"requests":     settings.Requests,
		})
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"proxy", settings.Proxy.URL()},
		{"proxy user", settings.Proxy.User},
		{"proxy scope", settings.ProxyScope},
		{"target", settings.Target},
		{"target (tls)", settings.TargetTLS},
		{"delay target", settings.DelayTarget},
		{"page target", settings.PageTarget},
		{"timeout", settings.Timeout.String()},
		{"requests", fmt.Sprintf("%d", settings.Requests)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}
