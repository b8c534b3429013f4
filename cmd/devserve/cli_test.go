// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/devserve"
	"github.com/xmidt-org/devserve/devserveapp"
	"github.com/xmidt-org/devserve/devserveplugin"
	"gopkg.in/yaml.v3"
)

// conflict declares an option that collides with a core flag.
type conflict struct{}

func (conflict) Middleware(devserve.Config, devserveplugin.App) ([]devserveplugin.Handler, error) {
	return nil, nil
}

func (conflict) OptionDefinitions() []devserveplugin.OptionDefinition {
	return []devserveplugin.OptionDefinition{
		{Name: "port", Type: devserveplugin.String},
		{Name: "conflict-value", Type: devserveplugin.Int},
	}
}

type CLISuite struct {
	suite.Suite

	registry *devserveplugin.Registry
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func (suite *CLISuite) SetupTest() {
	var err error
	suite.registry, err = newRegistry()
	suite.Require().NoError(err)
	suite.Require().NoError(
		suite.registry.RegisterFunc("devserve-conflict", func() conflict { return conflict{} }),
	)

	suite.stdout.Reset()
	suite.stderr.Reset()
}

func (suite *CLISuite) newCLI(args ...string) *cli {
	return &cli{
		registry: suite.registry,
		args:     args,
		stdout:   &suite.stdout,
		stderr:   &suite.stderr,
	}
}

func (suite *CLISuite) execute(args ...string) error {
	return suite.newCLI(args...).command().ExecuteContext(context.Background())
}

// printed executes with --config and decodes the printed configuration.
func (suite *CLISuite) printed(args ...string) map[string]any {
	suite.Require().NoError(
		suite.execute(append(args, "--config", "--view", "none")...),
	)

	var printed map[string]any
	suite.Require().NoError(yaml.Unmarshal(suite.stdout.Bytes(), &printed))
	return printed
}

func (suite *CLISuite) storedConfig(content string) string {
	path := filepath.Join(suite.T().TempDir(), "devserve.config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0600))
	return path
}

func (suite *CLISuite) TestPrintDefaults() {
	printed := suite.printed()
	suite.Equal(devserve.DefaultPort, printed["port"])
	suite.Equal([]any{}, printed["stack"])
}

func (suite *CLISuite) TestPrintOverrides() {
	printed := suite.printed(
		"--port", "9000",
		"--hostname", "localhost",
		"--stack", "body",
		"--body", "hello",
		"--body-status", "201",
	)

	suite.Equal(9000, printed["port"])
	suite.Equal("localhost", printed["hostname"])
	suite.Equal([]any{"body"}, printed["stack"])
	suite.Equal("hello", printed["body"])
	suite.Equal(201, printed["bodystatus"])
	suite.NotContains(printed, "configfile")
	suite.NotContains(printed, "config")
}

func (suite *CLISuite) TestRepeatedPluginOption() {
	printed := suite.printed(
		"--stack", "header",
		"--header", "A: 1, 2",
		"--header", "B: 3",
	)

	suite.Equal([]any{"A: 1, 2", "B: 3"}, printed["header"])
}

func (suite *CLISuite) TestStoredConfig() {
	path := suite.storedConfig("port: 7000\nstack:\n  - body\nbody: stored\n")

	printed := suite.printed("--config-file", path)
	suite.Equal(7000, printed["port"])
	suite.Equal([]any{"body"}, printed["stack"])
	suite.Equal("stored", printed["body"])

	suite.stdout.Reset()
	printed = suite.printed("--config-file", path, "--body", "flag", "--stack", "body,header")
	suite.Equal(7000, printed["port"])
	suite.Equal([]any{"body", "header"}, printed["stack"])
	suite.Equal("flag", printed["body"])
}

func (suite *CLISuite) TestOptionIgnored() {
	suite.Require().NoError(
		suite.execute("--stack", "conflict", "--conflict-value", "3", "--config", "--no-color"),
	)

	suite.Contains(suite.stdout.String(), "Ignored option: port")
	suite.Contains(suite.stdout.String(), "conflictvalue: 3")
}

func (suite *CLISuite) TestHelp() {
	suite.Require().NoError(suite.execute("--stack", "body", "--help"))

	out := suite.stdout.String()
	suite.Contains(out, "--stack")
	suite.Contains(out, "Plugin Flags:")
	suite.Contains(out, "--body-status")
	suite.NotContains(out, "--request-id-header")
}

func (suite *CLISuite) TestHelpPluginNotFound() {
	suite.Require().NoError(suite.execute("--stack", "nosuch", "--help"))
	suite.Contains(suite.stdout.String(), "Unable to load plugins")
}

func (suite *CLISuite) TestErrors() {
	testData := []struct {
		name     string
		args     []string
		expected int
	}{
		{"UnknownFlag", []string{"--nosuch"}, devserve.ConfigurationExitCode},
		{"BadValue", []string{"--port", "abc"}, devserve.ConfigurationExitCode},
		{"UnexpectedArgument", []string{"extra"}, devserve.ConfigurationExitCode},
		{"LogLevel", []string{"--log-level", "nosuch"}, devserve.ConfigurationExitCode},
		{"View", []string{"--view", "nosuch"}, devserve.ConfigurationExitCode},
		{"MissingConfigFile", []string{"--config-file", "/nosuch/devserve.yaml"}, devserve.ConfigurationExitCode},
		{"PluginNotFound", []string{"--stack", "nosuch"}, devserve.PluginNotFoundExitCode},
		{"ConflictingTLS", []string{"--https", "--pfx", "a.pfx", "--port", "0"}, devserve.ConfigurationExitCode},
		{"InvalidTLS", []string{"--key", "a.key", "--port", "0"}, devserve.ConfigurationExitCode},
	}

	for _, record := range testData {
		suite.Run(record.name, func() {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), append(record.args, "--view", "none"), &stdout, &stderr)
			suite.Equal(record.expected, code)
			suite.Contains(stderr.String(), "Error:")
		})
	}
}

func (suite *CLISuite) TestServe() {
	var (
		ctx, cancel = context.WithCancel(context.Background())
		started     = make(chan *devserveapp.Server, 1)
		result      = make(chan error, 1)

		c = suite.newCLI(
			"--hostname", "127.0.0.1",
			"--port", "0",
			"--stack", "request-id,body",
			"--body", "hello",
			"--view", "none",
		)
	)

	defer cancel()
	c.started = func(s *devserveapp.Server) {
		started <- s
	}

	go func() {
		result <- c.command().ExecuteContext(ctx)
	}()

	var s *devserveapp.Server
	select {
	case s = <-started:
	case err := <-result:
		suite.FailNow("the command exited early", "%v", err)
	case <-time.After(5 * time.Second):
		suite.FailNow("the server did not start")
	}

	suite.Require().Len(s.URLs(), 1)
	response, err := http.Get(s.URLs()[0])
	suite.Require().NoError(err)
	b, _ := io.ReadAll(response.Body)
	response.Body.Close()

	suite.Equal(http.StatusOK, response.StatusCode)
	suite.Equal("hello", string(b))
	suite.NotEmpty(response.Header.Get("X-Request-ID"))

	cancel()
	select {
	case err := <-result:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("the command did not exit")
	}
}

func (suite *CLISuite) TestProfiles() {
	var (
		dir         = suite.T().TempDir()
		ctx, cancel = context.WithCancel(context.Background())
		c           = suite.newCLI(
			"--hostname", "127.0.0.1",
			"--port", "0",
			"--view", "none",
			"--cpu-profile", filepath.Join(dir, "cpu.prof"),
			"--heap-profile", filepath.Join(dir, "heap.prof"),
		)
	)

	// stop as soon as the server is listening
	c.started = func(*devserveapp.Server) { cancel() }
	suite.Require().NoError(c.command().ExecuteContext(ctx))

	for _, name := range []string{"cpu.prof", "heap.prof"} {
		info, err := os.Stat(filepath.Join(dir, name))
		suite.Require().NoError(err)
		suite.Greater(info.Size(), int64(0))
	}
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(CLISuite))
}
