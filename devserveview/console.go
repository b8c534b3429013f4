// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveview

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveapp"
	"github.com/xmidt-org/devserve/devservehttp"
	"github.com/xmidt-org/devserve/devserveplugin"
	"github.com/xmidt-org/devserve/internal/devservereflect"
)

// ConsoleView writes events to a terminal.  By default only the events an operator
// acts on are shown:  the stack, the listening URLs, errors, and ignored options.
type ConsoleView struct {
	// Out is where lines are written.  If unset, os.Stderr is used.
	Out io.Writer

	// NoColor disables color output.
	NoColor bool

	// Verbose also shows configuration, plugin loading, and socket events.
	Verbose bool

	once   sync.Once
	accent *color.Color
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	quiet  *color.Color
}

var _ devserve.View = (*ConsoleView)(nil)

func (cv *ConsoleView) init() {
	cv.accent = color.New(color.FgCyan)
	cv.ok = color.New(color.FgGreen, color.Bold)
	cv.warn = color.New(color.FgYellow)
	cv.fail = color.New(color.FgRed)
	cv.quiet = color.New(color.FgHiBlack)

	if cv.NoColor {
		for _, c := range []*color.Color{cv.accent, cv.ok, cv.warn, cv.fail, cv.quiet} {
			c.DisableColor()
		}
	}
}

func (cv *ConsoleView) out() io.Writer {
	return devservereflect.Safe[io.Writer](cv.Out, os.Stderr)
}

// Write implements devserve.View.
func (cv *ConsoleView) Write(key string, value any, cfg devserve.Config) {
	cv.once.Do(cv.init)
	w := cv.out()

	switch v := value.(type) {
	case devserveapp.ListeningEvent:
		for _, u := range v.URLs {
			cv.ok.Fprintf(w, "Serving at %s\n", u)
		}

	case devserveapp.RequestError:
		cv.fail.Fprintf(w, "%s %s failed: %s\n", v.Method, v.URL, v.Panic)

	case devservehttp.ErrorEvent:
		cv.fail.Fprintln(w, v.Message)

	case devservehttp.ConnEvent:
		if cv.Verbose {
			cv.quiet.Fprintf(w, "[%s] %s %s\n", key, v.State, v.Remote)
		}

	case devserveplugin.LoadEvent:
		if cv.Verbose {
			cv.quiet.Fprintf(w, "Loaded %s (%s) as %s\n", v.Reference, v.Kind, v.Type)
		}

	default:
		cv.other(w, key, value, cfg)
	}
}

func (cv *ConsoleView) other(w io.Writer, key string, value any, cfg devserve.Config) {
	switch key {
	case devserve.EventStack:
		if names, ok := value.([]string); ok && len(names) > 0 {
			cv.accent.Fprintf(w, "Stack: %s\n", strings.Join(names, ", "))
		}

	case devserve.EventOptionIgnored:
		cv.warn.Fprintf(w, "Ignored option: %v\n", value)

	case devserve.EventServerClose:
		cv.warn.Fprintf(w, "Closed %v\n", value)

	case devserve.EventServerError:
		cv.fail.Fprintf(w, "%v\n", value)

	case devserve.EventConfig:
		if cv.Verbose {
			cv.quiet.Fprintln(w, formatConfig(cfg))
		}

	default:
		if cv.Verbose {
			cv.quiet.Fprintf(w, "[%s] %v\n", key, value)
		}
	}
}

// formatConfig renders a configuration as sorted key: value lines.
func formatConfig(cfg devserve.Config) string {
	var b strings.Builder
	b.WriteString("Configuration:")
	for _, k := range sortedKeys(cfg) {
		fmt.Fprintf(&b, "\n  %s: %v", k, cfg[k])
	}

	return b.String()
}
