// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultStoredConfigName is the base name, without extension, searched for
// in the working directory when no stored configuration file is given.
const DefaultStoredConfigName = "devserve.config"

// StoredConfig describes where stored configuration comes from.
type StoredConfig struct {
	// File is an explicit configuration file.  Any format viper understands may
	// be used, determined by the file extension.  If set, the file must exist.
	File string

	// Dirs are the directories searched for DefaultStoredConfigName when File
	// is unset.  If empty, the working directory is searched.
	Dirs []string
}

// Load reads the stored configuration.  When searching for the default file and
// none exists, an empty Config is returned with no error.
func (sc StoredConfig) Load() (Config, error) {
	v := viper.New()
	explicit := len(sc.File) > 0
	if explicit {
		if _, err := os.Stat(sc.File); err != nil {
			return nil, &ConfigurationError{
				Option: "config-file",
				Reason: fmt.Sprintf("unable to read stored config %s: %s", sc.File, err),
				Err:    err,
			}
		}

		v.SetConfigFile(sc.File)
	} else {
		v.SetConfigName(DefaultStoredConfigName)
		dirs := sc.Dirs
		if len(dirs) == 0 {
			dirs = []string{"."}
		}

		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return Config{}, nil
		}

		return nil, &ConfigurationError{
			Option: "config-file",
			Reason: fmt.Sprintf("unable to parse stored config: %s", err),
			Err:    err,
		}
	}

	return NewConfig(v.AllSettings()), nil
}

// LoadStored is a convenience for StoredConfig{File: file}.Load().
func LoadStored(file string) (Config, error) {
	return StoredConfig{File: file}.Load()
}
