// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveview

import (
	"fmt"
	"io"
	"sort"

	"github.com/xmidt-org/devserve"
	"go.uber.org/zap"
)

const (
	// ViewConsole names the ConsoleView.
	ViewConsole = "console"

	// ViewVerbose names a ConsoleView with Verbose set.
	ViewVerbose = "verbose"

	// ViewLog names the LogView.
	ViewLog = "log"

	// ViewNone names no view at all.
	ViewNone = "none"
)

// Names returns the view names understood by New.
func Names() []string {
	return []string{ViewConsole, ViewVerbose, ViewLog, ViewNone}
}

// New creates a view by name.  The empty name is the same as ViewConsole.
// ViewNone yields a nil View.  Any other unknown name is a *devserve.ConfigurationError.
func New(name string, out io.Writer, logger *zap.Logger) (devserve.View, error) {
	switch name {
	case ViewConsole, "":
		return &ConsoleView{Out: out}, nil

	case ViewVerbose:
		return &ConsoleView{Out: out, Verbose: true}, nil

	case ViewLog:
		if logger == nil {
			logger = zap.NewNop()
		}

		return LogView{Logger: logger}, nil

	case ViewNone:
		return nil, nil

	default:
		return nil, &devserve.ConfigurationError{
			Option: devserve.ViewKey,
			Reason: fmt.Sprintf("unknown view %q", name),
		}
	}
}

func sortedKeys(cfg devserve.Config) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}
