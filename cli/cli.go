package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/reshape/cli/cmd"
	"github.com/ardnew/reshape/pkg"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Apply cmd.Apply `cmd:"" default:"withargs" help:"Match data and print the instantiated template."`
	Match cmd.Match `cmd:""                    help:"Match data and print the bindings."`
	Names cmd.Names `cmd:""                    help:"List the names a document binds and inserts."`
	Check cmd.Check `cmd:""                    help:"Compile documents without matching any data."`
	Repl  cmd.Repl  `cmd:""                    help:"Match data interactively."`
	Init  cmd.Init  `cmd:""                    help:"Write the global flags to the configuration file."`
}

// Run parses args and executes the selected command. kong calls exit after
// printing help or a usage error.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so parse errors honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFile()),
		kong.Vars{
			cmd.ConfigIdentifier: configFile(),
			cmd.CacheIdentifier:  pkg.CacheDir(),
		}.
			CloneWith(cli.Log.vars()).
			CloneWith(cli.Pprof.vars()),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
