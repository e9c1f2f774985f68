// Command citrace observes a build invocation and emits a JSON compilation
// database. Its two working subcommands are intercept (C8), which runs the
// build under observation into an event store, and citnames (C3-C5), which
// turns that event store into compile_commands.json; version and doc print
// build provenance and the command help as markdown.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
)

// CLI is the root command tree, matching the two-subcommand surface of §6.
type CLI struct {
	LogFile  string `help:"write logs here instead of stderr." placeholder:"<path>"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" help:"logging verbosity."`

	Intercept InterceptCmd `cmd:"" help:"run a build under observation, recording an event store."`
	Citnames  CitnamesCmd  `cmd:"" help:"turn an event store into compile_commands.json."`
	Version   VersionCmd   `cmd:"" help:"print version information."`
	Doc       DocCmd       `cmd:"" help:"print complete command help as markdown."`
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("citrace"),
		kong.Description("Observe a build and emit a JSON compilation database."),
		kong.Configuration(kongyaml.Loader, ".citrace.yml", "~/.citrace.yml"),
		kong.UsageOnError(),
	)
	kongcompletion.Register(parser)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	level := cli.LogLevel
	if cli.Citnames.Verbose {
		level = "debug"
	}
	if _, err := initLogging(cli.LogFile, level, ctx.Command()); err != nil {
		fmt.Fprintln(os.Stderr, "citrace: init logging:", err)
		os.Exit(1)
	}

	err = ctx.Run(&RunContext{})
	ctx.FatalIfErrorf(err)
}
