package main

import (
	"context"
	"os"

	"github.com/eduquest/client/internal/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args, os.Stdout, os.Stderr))
}
