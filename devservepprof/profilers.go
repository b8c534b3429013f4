// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservepprof

import (
	"context"
	"errors"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/fx"
	"go.uber.org/multierr"
)

var (
	// ErrAlreadyProfiling indicates that a CPU profile to a particular path
	// has already been started
	ErrAlreadyProfiling = errors.New("CPU profiling has already been started")
)

func openProfilePath(path string, overwrite bool) (*os.File, error) {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag |= os.O_EXCL
	}

	return os.OpenFile(path, flag, 0666)
}

// Profiles describes the profile data written over the lifetime of a server.
// CPU profiling starts with the server and stops when it is stopped, at which
// point the heap profile is written.
type Profiles struct {
	// CPU is the optional file system path where CPU profile data is written.
	CPU string

	// Heap is the optional file system path where heap profile data is written.
	Heap string

	// Overwrite permits replacing existing profile files.  By default, an
	// error is raised if either path already exists.
	Overwrite bool

	// DisableGC skips the runtime.GC call made before heap profile data is written.
	DisableGC bool

	cpu *os.File
}

// Enabled tests if either profile path is set.
func (p *Profiles) Enabled() bool {
	return len(p.CPU) > 0 || len(p.Heap) > 0
}

func (p *Profiles) start(context.Context) (err error) {
	if len(p.CPU) == 0 {
		return
	}

	if p.cpu != nil {
		return ErrAlreadyProfiling
	}

	var f *os.File
	f, err = openProfilePath(p.CPU, p.Overwrite)
	if err == nil {
		err = pprof.StartCPUProfile(f)
		if err != nil {
			f.Close()
		} else {
			p.cpu = f
		}
	}

	return
}

func (p *Profiles) stop(context.Context) (err error) {
	if p.cpu != nil {
		pprof.StopCPUProfile()
		err = p.cpu.Close()
		p.cpu = nil
	}

	if len(p.Heap) > 0 {
		f, herr := openProfilePath(p.Heap, p.Overwrite)
		if herr == nil {
			if !p.DisableGC {
				runtime.GC()
			}

			herr = multierr.Append(pprof.WriteHeapProfile(f), f.Close())
		}

		err = multierr.Append(err, herr)
	}

	return
}

// Module binds these profiles to the enclosing fx.App's lifecycle.  When no
// path is set, the returned option does nothing.
func (p *Profiles) Module() fx.Option {
	if !p.Enabled() {
		return fx.Options()
	}

	return fx.Invoke(
		func(l fx.Lifecycle) {
			l.Append(fx.Hook{
				OnStart: p.start,
				OnStop:  p.stop,
			})
		},
	)
}
