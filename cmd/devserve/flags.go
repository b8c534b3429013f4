// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveplugin"
)

const (
	flagConfigFile   = "config-file"
	flagModuleDir    = "module-dir"
	flagModulePrefix = "module-prefix"
	flagPrintConfig  = "config"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagNoColor      = "no-color"
	flagCPUProfile   = "cpu-profile"
	flagHeapProfile  = "heap-profile"
	flagHelp         = "help"
)

// metaFlags control the command itself and never become configuration.
var metaFlags = map[string]bool{
	flagConfigFile:   true,
	flagModuleDir:    true,
	flagModulePrefix: true,
	flagPrintConfig:  true,
	flagLogLevel:     true,
	flagLogFormat:    true,
	flagNoColor:      true,
	flagCPUProfile:   true,
	flagHeapProfile:  true,
	flagHelp:         true,
}

// addCoreFlags defines every option the command itself understands.  Defaults
// are left at Go zero values, since only flags given on the command line are
// merged over the stored configuration.
func addCoreFlags(fs *pflag.FlagSet) {
	fs.IntP("port", "p", 0, fmt.Sprintf("the port to listen on (default %d)", devserve.DefaultPort))
	fs.StringP("hostname", "H", "", "the hostname to bind, all interfaces if unset")
	fs.StringSliceP(devserve.StackKey, "s", nil, "the plugins to load, in order")

	fs.Bool("https", false, "serve over TLS, using a generated certificate if none is given")
	fs.Bool("http2", false, "serve HTTP/2 over TLS")
	fs.String("key", "", "the TLS private key file")
	fs.String("cert", "", "the TLS certificate file")
	fs.String("pfx", "", "a PKCS#12 file holding both the TLS key and certificate")
	fs.String("passphrase", "", "the passphrase for the key or pfx file")
	fs.Int("max-connections", 0, "the limit on simultaneous connections")
	fs.Int("keep-alive-timeout", 0, "the keep-alive timeout in milliseconds, 0 for none")

	fs.String(devserve.ViewKey, "", "how events are displayed: console, verbose, log, or none")
	fs.String(flagLogLevel, "info", "the log level")
	fs.String(flagLogFormat, "console", "the log format: console or json")
	fs.Bool(flagNoColor, false, "disable colored console output")

	fs.StringP(flagConfigFile, "c", "", "the stored configuration file")
	fs.StringSlice(flagModuleDir, nil, "directories searched for plugin modules")
	fs.String(flagModulePrefix, devserveplugin.DefaultPrefix, "the plugin naming prefix")
	fs.Bool(flagPrintConfig, false, "print the resolved configuration and exit")
	fs.String(flagCPUProfile, "", "write a CPU profile to this file")
	fs.String(flagHeapProfile, "", "write a heap profile to this file when the server stops")
}

// addPluginFlags defines a flag for each option a stack declares.  Definitions
// whose normalized name collides with a flag already defined are skipped, and
// each skipped definition is returned.
func addPluginFlags(fs *pflag.FlagSet, defs []devserveplugin.OptionDefinition) (ignored []devserveplugin.OptionDefinition) {
	defined := make(map[string]bool)
	fs.VisitAll(func(f *pflag.Flag) {
		defined[devserve.NormalizeKey(f.Name)] = true
	})

	for _, d := range defs {
		if len(d.Name) == 0 || defined[d.Key()] {
			ignored = append(ignored, d)
			continue
		}

		defined[d.Key()] = true
		switch {
		case d.Type == devserveplugin.Bool:
			fs.Bool(d.Name, false, d.Description)

		case d.Type == devserveplugin.Int && d.Multiple:
			fs.IntSlice(d.Name, nil, d.Description)

		case d.Type == devserveplugin.Int:
			fs.Int(d.Name, 0, d.Description)

		case d.Type == devserveplugin.Duration && d.Multiple:
			fs.DurationSlice(d.Name, nil, d.Description)

		case d.Type == devserveplugin.Duration:
			fs.Duration(d.Name, 0, d.Description)

		case d.Multiple:
			// repeated values are kept whole, as they may contain commas
			fs.StringArray(d.Name, nil, d.Description)

		default:
			fs.String(d.Name, "", d.Description)
		}
	}

	return
}

// overrides returns the configuration given by the flags that were actually set.
func overrides(fs *pflag.FlagSet) devserve.Config {
	o := make(devserve.Config)
	fs.Visit(func(f *pflag.Flag) {
		if !metaFlags[f.Name] {
			o[devserve.NormalizeKey(f.Name)] = flagValue(fs, f)
		}
	})

	return o
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) any {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		values := sv.GetSlice()
		s := make([]any, 0, len(values))
		for _, v := range values {
			s = append(s, v)
		}

		return s
	}

	switch f.Value.Type() {
	case "bool":
		v, _ := fs.GetBool(f.Name)
		return v

	case "int":
		v, _ := fs.GetInt(f.Name)
		return v

	case "duration":
		v, _ := fs.GetDuration(f.Name)
		return v

	default:
		return f.Value.String()
	}
}

// stringsFlag returns a string slice flag, or nil if it isn't defined.
func stringsFlag(fs *pflag.FlagSet, name string) []string {
	v, _ := fs.GetStringSlice(name)
	return v
}

func stringFlag(fs *pflag.FlagSet, name string) string {
	v, _ := fs.GetString(name)
	return v
}

func boolFlag(fs *pflag.FlagSet, name string) bool {
	v, _ := fs.GetBool(name)
	return v
}

// pluginUsage formats plugin descriptions and option flags for the help text.
func pluginUsage(s *devserveplugin.Stack, fs *pflag.FlagSet) string {
	if s == nil || s.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nPlugins:\n")
	for _, d := range s.Descriptions() {
		fmt.Fprintf(&b, "  %s\n", d)
	}

	if usages := fs.FlagUsages(); len(usages) > 0 {
		b.WriteString("\nPlugin Flags:\n")
		b.WriteString(usages)
	}

	return b.String()
}

// durationOf is used when printing configuration, so that durations read well.
func durationOf(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}

	return v
}
