// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserveplugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/internal/devservereflect"
)

const (
	// DefaultPrefix is the naming convention for plugin modules.  With this
	// prefix, the name "cors" also resolves to "devserve-cors".
	DefaultPrefix = "devserve-"

	// ModuleExtension is the file extension of compiled plugin modules.
	ModuleExtension = ".so"

	// ConstructorSymbol is the symbol a plugin module must export.
	ConstructorSymbol = "New"
)

// Opener opens a plugin module file and returns its constructor as a Class.
type Opener func(path string) (Class, error)

// Loader resolves path references to classes.  The zero value searches only
// the filesystem relative to the working directory, using no prefix.
type Loader struct {
	// Dirs are searched in order for modules named by a reference.
	Dirs []string

	// Prefix is the plugin naming convention.  If set, each name is also
	// tried with this prefix prepended.
	Prefix string

	// Registry holds compiled-in plugins.  It is consulted after the filesystem.
	Registry *Registry

	// Open opens module files.  If unset, OpenModule is used.
	Open Opener
}

// candidateNames returns name, then the prefixed name when it differs.
func (l Loader) candidateNames(name string) []string {
	names := []string{name}
	if len(l.Prefix) > 0 && !strings.HasPrefix(name, l.Prefix) {
		names = append(names, l.Prefix+name)
	}

	return names
}

// candidateFiles returns the files tried for a reference, in order.
func (l Loader) candidateFiles(ref string) []string {
	files := []string{ref}
	if filepath.IsAbs(ref) {
		return files
	}

	for _, dir := range l.Dirs {
		for _, name := range l.candidateNames(ref) {
			p := filepath.Join(dir, name)
			files = append(files, p)
			if filepath.Ext(p) != ModuleExtension {
				files = append(files, p+ModuleExtension)
			}
		}
	}

	return files
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// Load resolves a reference to a class.  The reference is tried, in order:
//
//   - as a file path, relative to the working directory or absolute
//   - within each of Dirs, both as given and with Prefix
//   - in the Registry, both as given and with Prefix
//
// The first match is used.  If nothing matches, a *devserve.PluginNotFoundError is
// returned.  If the match is not a valid plugin, a *devserve.PluginInvalidError is
// returned.  No plugin is created.
func (l Loader) Load(ref string) (Class, error) {
	var searched []string
	for _, f := range l.candidateFiles(ref) {
		searched = append(searched, f)
		if isFile(f) {
			return l.openFile(ref, f)
		}
	}

	for _, name := range l.candidateNames(ref) {
		searched = append(searched, "registry:"+name)
		if c, ok := l.Registry.Lookup(name); ok {
			return l.validate(ref, c)
		}
	}

	return Class{}, &devserve.PluginNotFoundError{
		Reference: ref,
		Searched:  searched,
	}
}

func (l Loader) openFile(ref, path string) (Class, error) {
	open := devservereflect.Safe[Opener](l.Open, OpenModule)

	c, err := open(path)
	switch {
	case errors.Is(err, ErrPluginsNotSupported):
		return Class{}, &devserve.PluginNotFoundError{
			Reference: ref,
			Searched:  []string{path},
			Err:       err,
		}

	case err != nil:
		return Class{}, &devserve.PluginInvalidError{
			Reference: ref,
			Reason:    fmt.Sprintf("unable to open %s: %s", path, err),
		}
	}

	return l.validate(ref, c)
}

func (l Loader) validate(ref string, c Class) (Class, error) {
	if !c.Satisfies() {
		return Class{}, &devserve.PluginInvalidError{
			Reference: ref,
			Reason:    fmt.Sprintf("type %s implements neither Middleware nor Readier", c.Type()),
		}
	}

	return c, nil
}
