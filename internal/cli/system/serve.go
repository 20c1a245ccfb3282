package system

import (
	"github.com/julianstephens/habitkit/internal/api"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." default:":3333" env:"HABITKIT_ADDR"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultListenAddr
	}
	ctx.Printf("Serving habit API on %s (Ctrl+C to stop)\n", addr)
	if path := logger.Path(); path != "" {
		ctx.Printf("Logging to %s\n", path)
	}
	return api.NewServer(addr, ctx.Store, ctx.Engine).Run(ctx.Ctx)
}
