// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StoredConfigSuite struct {
	suite.Suite
	dir string
}

func (suite *StoredConfigSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *StoredConfigSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(
		os.WriteFile(path, []byte(content), 0o600),
	)

	return path
}

func (suite *StoredConfigSuite) TestYAML() {
	path := suite.writeFile("custom.yaml", `
port: 9000
maxConnections: 5
stack:
  - body
  - header
cors:
  allowed-origins: ["*"]
`)

	c, err := LoadStored(path)
	suite.Require().NoError(err)
	suite.Equal(9000, c["port"])
	suite.Equal(5, c["maxconnections"])
	suite.Equal([]any{"body", "header"}, c.Stack())

	cors, ok := c["cors"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(cors, "allowedorigins")
}

func (suite *StoredConfigSuite) TestJSON() {
	path := suite.writeFile("custom.json", `{"hostname": "localhost", "http2": true}`)

	c, err := LoadStored(path)
	suite.Require().NoError(err)
	suite.Equal("localhost", c["hostname"])
	suite.Equal(true, c["http2"])
}

func (suite *StoredConfigSuite) TestDefaultFile() {
	suite.writeFile(DefaultStoredConfigName+".yaml", "port: 1234\n")

	c, err := StoredConfig{Dirs: []string{suite.dir}}.Load()
	suite.Require().NoError(err)
	suite.Equal(1234, c["port"])
}

func (suite *StoredConfigSuite) TestMissingDefaultFile() {
	c, err := StoredConfig{Dirs: []string{suite.dir}}.Load()
	suite.NoError(err)
	suite.NotNil(c)
	suite.Empty(c)
}

func (suite *StoredConfigSuite) TestMissingExplicitFile() {
	c, err := LoadStored(filepath.Join(suite.dir, "missing.yaml"))
	suite.Nil(c)

	var ce *ConfigurationError
	suite.Require().ErrorAs(err, &ce)
	suite.Equal("config-file", ce.Option)
	suite.ErrorIs(err, os.ErrNotExist)
}

func (suite *StoredConfigSuite) TestParseError() {
	path := suite.writeFile("broken.json", `{"port": `)

	c, err := LoadStored(path)
	suite.Nil(c)

	var ce *ConfigurationError
	suite.ErrorAs(err, &ce)
}

func TestStoredConfig(t *testing.T) {
	suite.Run(t, new(StoredConfigSuite))
}
