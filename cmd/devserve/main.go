// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devservebuiltin"
	"github.com/xmidt-org/devserve/devserveplugin"
	"github.com/xmidt-org/devserve/devservepprof"
	"go.uber.org/multierr"
)

// newRegistry returns a registry holding every compiled-in plugin.
func newRegistry() (*devserveplugin.Registry, error) {
	r := devserveplugin.NewRegistry()
	return r, multierr.Combine(
		devservebuiltin.Register(r),
		devservepprof.Register(r),
	)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r, err := newRegistry()
	if err == nil {
		c := &cli{
			registry: r,
			args:     args,
			stdout:   stdout,
			stderr:   stderr,
		}

		err = c.command().ExecuteContext(ctx)
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %s\n", err)
	}

	return devserve.ExitCodeFor(err, nil)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
