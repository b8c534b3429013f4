// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveapp"
	"github.com/xmidt-org/devserve/devserveplugin"
	"github.com/xmidt-org/devserve/devservepprof"
	"github.com/xmidt-org/devserve/devserveview"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultStopTimeout bounds the graceful shutdown of the server.
const DefaultStopTimeout = 10 * time.Second

// cli holds everything a single execution of the command needs.
type cli struct {
	registry    *devserveplugin.Registry
	args        []string
	stdout      io.Writer
	stderr      io.Writer
	stopTimeout time.Duration

	// started, if set, is invoked with each server once it is listening
	started func(*devserveapp.Server)
}

// session is the result of the first pass over the command line:  the stored
// configuration, the built stack, and the complete set of flags.
type session struct {
	stored      devserve.Config
	loader      devserveplugin.Loader
	stack       *devserveplugin.Stack
	logger      *zap.Logger
	view        devserve.View
	diagnostics *devserve.Diagnostics

	flags   *pflag.FlagSet
	plugins *pflag.FlagSet
}

func (c *cli) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devserve [flags]",
		Short: "A pluggable local web server",
		Long: `devserve serves HTTP, HTTPS, or HTTP/2 from a stack of plugins.  Each request
passes through the plugins in order, and unanswered requests receive a 404.

Plugins are named with --stack and are either modules found on disk or
builtins.  Options declared by the plugins in the stack become flags.`,

		// plugin flags are unknown until the stack is built
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd)
		},
	}

	addCoreFlags(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &devserve.ConfigurationError{
			Option: "flags",
			Reason: err.Error(),
			Err:    err,
		}
	})

	cmd.SetHelpFunc(c.help)
	cmd.SetArgs(c.args)
	cmd.SetOut(c.stdout)
	cmd.SetErr(c.stderr)
	return cmd
}

// load reads stored configuration and builds the stack named by the core flags,
// then defines the full set of flags.  When quiet is set, no view is created.
func (c *cli) load(ctx context.Context, core *pflag.FlagSet, quiet bool) (s *session, err error) {
	s = &session{
		loader: devserveplugin.Loader{
			Dirs:     stringsFlag(core, flagModuleDir),
			Prefix:   stringFlag(core, flagModulePrefix),
			Registry: c.registry,
		},
	}

	s.stored, err = devserve.StoredConfig{File: stringFlag(core, flagConfigFile)}.Load()
	if err != nil {
		return
	}

	first := devserve.ResolveConfig(devserve.Defaults(), s.stored, overrides(core))
	s.logger, err = devserveview.NewLogger(stringFlag(core, flagLogLevel), stringFlag(core, flagLogFormat))
	if err != nil {
		return
	}

	if !quiet {
		name, _ := first.View().(string)
		if s.view, err = devserveview.New(name, c.stdout, s.logger); err != nil {
			return
		}

		if cv, ok := s.view.(*devserveview.ConsoleView); ok {
			cv.NoColor = boolFlag(core, flagNoColor)
		}
	}

	s.diagnostics = devserve.NewDiagnostics(s.view)
	s.diagnostics.SetConfig(first)
	s.stack, err = devserveplugin.FromConfig(ctx, first, devserveplugin.BuildOptions{
		Loader: s.loader,
		Emit:   s.diagnostics.Emitter(),
	})

	if err != nil {
		return
	}

	s.flags = pflag.NewFlagSet("devserve", pflag.ContinueOnError)
	s.flags.SetOutput(io.Discard)
	addCoreFlags(s.flags)
	for _, d := range addPluginFlags(s.flags, s.stack.OptionDefinitions()) {
		s.diagnostics.Emit(devserve.EventOptionIgnored, d.Name)
	}

	s.plugins = pflag.NewFlagSet("plugins", pflag.ContinueOnError)
	s.flags.VisitAll(func(f *pflag.Flag) {
		if core.Lookup(f.Name) == nil {
			s.plugins.AddFlag(f)
		}
	})

	return
}

// parse is the second, strict pass over the command line.  It returns the
// caller overrides, which hold the already built stack.
func (c *cli) parse(s *session) (devserve.Config, error) {
	if err := s.flags.Parse(c.args); err != nil {
		return nil, &devserve.ConfigurationError{
			Option: "flags",
			Reason: err.Error(),
			Err:    err,
		}
	}

	if s.flags.NArg() > 0 {
		return nil, &devserve.ConfigurationError{
			Option: "flags",
			Reason: fmt.Sprintf("unexpected arguments: %v", s.flags.Args()),
		}
	}

	o := overrides(s.flags)
	o[devserve.StackKey] = s.stack
	return o, nil
}

func (c *cli) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	s, err := c.load(ctx, cmd.Flags(), false)
	if err != nil {
		return err
	}

	defer s.logger.Sync() //nolint:errcheck
	o, err := c.parse(s)
	if err != nil {
		return err
	}

	if boolFlag(s.flags, flagPrintConfig) {
		return c.printConfig(cmd.OutOrStdout(), devserve.ResolveConfig(devserve.Defaults(), s.stored, o), s.stack)
	}

	a := &devserveapp.Assembler{
		Loader: s.loader,
		Options: []fx.Option{
			(&devservepprof.Profiles{
				CPU:  stringFlag(s.flags, flagCPUProfile),
				Heap: stringFlag(s.flags, flagHeapProfile),
			}).Module(),
		},
	}

	if s.view != nil {
		a.Views = append(a.Views, s.view)
	}

	if s.logger.Core().Enabled(zap.DebugLevel) {
		a.Logger = s.logger.Named("fx")
	}

	server, err := a.Create(ctx, devserve.Merge(s.stored, o))
	if err != nil {
		return err
	}

	if c.started != nil {
		c.started(server)
	}

	select {
	case <-ctx.Done():
	case <-a.Done():
	}

	timeout := c.stopTimeout
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Stop(stopCtx)
}

// printConfig writes a resolved configuration as YAML.  The stack is written
// as its plugin names.
func (c *cli) printConfig(w io.Writer, cfg devserve.Config, stack *devserveplugin.Stack) error {
	printable := make(map[string]any, len(cfg))
	for k, v := range cfg {
		printable[k] = durationOf(v)
	}

	printable[devserve.StackKey] = stack.Names()
	e := yaml.NewEncoder(w)
	defer e.Close()
	return e.Encode(printable)
}

// help writes the usage for the core flags followed by the options of the
// plugins in the stack, if the stack can be built.
func (c *cli) help(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n%s", cmd.Long, cmd.UsageString())

	s, err := c.load(cmd.Context(), cmd.Flags(), true)
	if err != nil {
		fmt.Fprintf(out, "\nUnable to load plugins: %s\n", err)
		return
	}

	fmt.Fprint(out, pluginUsage(s.stack, s.plugins))
}
