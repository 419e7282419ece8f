package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/eduquest/client/internal/server"
)

func (r *runner) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local web views",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides server.port"},
		},
		Action: func(c *cli.Context) error {
			if port := c.String("port"); port != "" {
				r.deps.Config.Server.Port = port
			}
			srv, err := server.NewServer(r.deps)
			if err != nil {
				return fail(err)
			}
			if err := srv.Run(c.Context); err != nil {
				return cli.Exit(err.Error(), ExitFailure)
			}
			return nil
		},
	}
}
