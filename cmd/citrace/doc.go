package main

import (
	"os"

	"github.com/alecthomas/kong"
)

// DocCmd renders the full command tree's help text as markdown, for
// checking into a repository's own docs folder.
type DocCmd struct{}

func (c *DocCmd) Run(rctx *RunContext, kctx *kong.Context) error {
	markdownHelpPrinter(os.Stdout, kctx)
	return nil
}
