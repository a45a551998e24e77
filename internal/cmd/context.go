package cmd

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/jimezsa/proxyprobe/internal/config"
	"github.com/jimezsa/proxyprobe/internal/scenario"
	"github.com/jimezsa/proxyprobe/internal/ui"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Settings   config.Settings
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
}

func (c *Context) scenarioEnv(settings config.Settings) *scenario.Env {
	return &scenario.Env{Settings: settings, UI: c.UI, Log: c.Logger}
}
