package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kovetskiy/katexify/util"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

const (
	version     = "1.0.0"
	usage       = "A tool for pre-rendering KaTeX equations in HTML and markdown files."
	description = `katexify finds elements marked with the inline-equation or equation class, reads the expression from their data-expr attribute and replaces their content with KaTeX output, so pages need no client-side math rendering.`
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "katexify",
		Usage:                 usage,
		Description:           description,
		Version:               version,
		Flags:                 util.Flags,
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Before:                util.CheckOutputFlags,
		Action:                util.RunKatexify,
	}
}

func main() {
	cmd := newCommand()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
