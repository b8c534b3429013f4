// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// sameSlice tests that two slices share the same backing array and length.
func sameSlice(expected, actual any) bool {
	ev, av := reflect.ValueOf(expected), reflect.ValueOf(actual)
	return ev.Kind() == reflect.Slice && av.Kind() == reflect.Slice &&
		ev.Type() == av.Type() &&
		ev.Pointer() == av.Pointer() &&
		ev.Len() == av.Len()
}

func TestNormalizeKey(t *testing.T) {
	testData := []struct {
		key      string
		expected string
	}{
		{"port", "port"},
		{"maxConnections", "maxconnections"},
		{"max-connections", "maxconnections"},
		{"max_connections", "maxconnections"},
		{"MaxConnections", "maxconnections"},
		{"keep-alive-timeout", "keepalivetimeout"},
		{"", ""},
	}

	for _, record := range testData {
		t.Run(record.key, func(t *testing.T) {
			assert.Equal(t, record.expected, NormalizeKey(record.key))
		})
	}
}

func testNewConfigNormalizes(t *testing.T) {
	var (
		assert = assert.New(t)
		stack  = []any{"one"}

		c = NewConfig(map[string]any{
			"maxConnections": 10,
			"stack":          stack,
			"nested": map[string]any{
				"Keep-Alive": true,
			},
		})
	)

	assert.Equal(10, c["maxconnections"])
	assert.True(sameSlice(stack, c.Stack()))
	assert.Equal(map[string]any{"keepalive": true}, c["nested"])
}

func testNewConfigCollidingSpellings(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := NewConfig(map[string]any{
			"max-connections": 1,
			"max_connections": 2,
			"maxConnections":  3,
		})

		assert.Equal(t, Config{"maxconnections": 2}, c)
	}
}

func testConfigAccessors(t *testing.T) {
	var (
		assert = assert.New(t)
		c      = Config{"port": 1234, "view": "cli", "hostname": nil}
	)

	v, ok := c.Get("Port")
	assert.True(ok)
	assert.Equal(1234, v)

	assert.True(c.IsSet("port"))
	assert.False(c.IsSet("hostname"))
	assert.False(c.IsSet("missing"))
	assert.Equal("cli", c.View())
	assert.Nil(c.Stack())

	clone := c.Clone()
	clone["port"] = 5678
	assert.Equal(1234, c["port"])

	with := c.With("max-connections", 3)
	assert.Equal(3, with["maxconnections"])
	assert.NotContains(c, "maxconnections")
}

func TestConfig(t *testing.T) {
	t.Run("NewConfigNormalizes", testNewConfigNormalizes)
	t.Run("NewConfigCollidingSpellings", testNewConfigCollidingSpellings)
	t.Run("Accessors", testConfigAccessors)
}

type MergeSuite struct {
	suite.Suite
}

func (suite *MergeSuite) TestEmptyStackKeepsPrevious() {
	for _, empty := range []any{[]any{}, []string{}, ([]any)(nil)} {
		var (
			previous = []any{"one", "two"}
			merged   = Merge(
				Config{StackKey: previous},
				Config{StackKey: empty},
			)
		)

		suite.True(sameSlice(previous, merged.Stack()), "%T should not replace the stack", empty)
	}
}

func (suite *MergeSuite) TestNonEmptyStackReplaces() {
	var (
		previous = []any{"one", "two"}
		next     = []any{"three"}
		merged   = Merge(
			Config{StackKey: previous},
			Config{StackKey: next},
		)
	)

	suite.True(sameSlice(next, merged.Stack()))
	suite.Equal([]any{"three"}, merged.Stack())
}

func (suite *MergeSuite) TestSequenceAdoptedWhenUndefined() {
	var (
		empty  = []any{}
		merged = Merge(
			Config{"port": 8000},
			Config{StackKey: empty},
		)
	)

	suite.True(sameSlice(empty, merged.Stack()))
}

func (suite *MergeSuite) TestBuiltStackPreservedByReference() {
	type builtStack struct {
		plugins []string
	}

	var (
		built  = &builtStack{plugins: []string{"one"}}
		merged = Merge(
			Config{StackKey: built},
			Config{StackKey: []string{}},
		)
	)

	suite.Same(built, merged.Stack())
}

func (suite *MergeSuite) TestThreeSources() {
	merged := Merge(
		Config{"port": 8000},
		Config{StackKey: []any{"one"}},
		Config{StackKey: []any{"two"}, "help": true},
	)

	suite.Equal(
		Config{"port": 8000, StackKey: []any{"two"}, "help": true},
		merged,
	)
}

func (suite *MergeSuite) TestNestedMappings() {
	var (
		first = Config{
			"cors": map[string]any{
				"origin":  "*",
				"methods": []any{"GET"},
			},
		}

		second = Config{
			"cors": map[string]any{
				"credentials": true,
				"methods":     []any{},
			},
		}

		merged = Merge(first, second)
	)

	suite.Equal(
		map[string]any{
			"origin":      "*",
			"methods":     []any{"GET"},
			"credentials": true,
		},
		merged["cors"],
	)

	// the sources are never modified
	suite.NotContains(first["cors"], "credentials")
	suite.Len(second["cors"], 2)
}

func (suite *MergeSuite) TestScalarsAndMismatches() {
	merged := Merge(
		Config{"port": 8000, "hostname": "a", "https": map[string]any{"x": 1}, "key": []any{"a"}},
		Config{"port": "9000", "https": true, "key": "file.pem"},
		Config{"hostname": []any{"b"}},
	)

	suite.Equal("9000", merged["port"])
	suite.Equal(true, merged["https"])
	suite.Equal("file.pem", merged["key"])
	suite.Equal([]any{"b"}, merged["hostname"])
}

func (suite *MergeSuite) TestNormalizesKeys() {
	merged := Merge(
		Config{"maxConnections": 1},
		Config{"max-connections": 2},
		Config{"keep_alive_timeout": 0},
	)

	suite.Equal(Config{"maxconnections": 2, "keepalivetimeout": 0}, merged)
}

func (suite *MergeSuite) TestCollidingSpellings() {
	src := Config{
		"max-connections": 1,
		"maxConnections":  2,
		"cors": map[string]any{
			"max_age": 10,
			"maxAge":  20,
			"max-age": 30,
		},
	}

	for i := 0; i < 50; i++ {
		merged := Merge(Config{"cors": map[string]any{"origin": "*"}}, src)
		suite.Equal(2, merged["maxconnections"])
		suite.Equal(map[string]any{"origin": "*", "maxage": 10}, merged["cors"])
	}
}

func (suite *MergeSuite) TestNoSources() {
	suite.Empty(Merge())
	suite.Empty(Merge(nil, Config{}))
}

func (suite *MergeSuite) TestAssociative() {
	var (
		a = Config{"port": 1, StackKey: []any{"a"}, "cors": map[string]any{"x": 1}}
		b = Config{StackKey: []any{}, "cors": map[string]any{"y": 2}}
		c = Config{"port": 3, "cors": map[string]any{"x": 3}}
	)

	suite.Equal(
		Merge(Merge(a, b), c),
		Merge(a, Merge(b, c)),
	)
}

func TestMerge(t *testing.T) {
	suite.Run(t, new(MergeSuite))
}

func TestResolveConfig(t *testing.T) {
	t.Run("DefaultsOnly", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)

			resolved = ResolveConfig(Defaults(), nil, nil)
		)

		assert.Equal(DefaultPort, resolved["port"])
		require.NotNil(resolved.Stack())
		assert.Empty(resolved.Stack())
	})

	t.Run("NilStackOverride", func(t *testing.T) {
		var (
			assert   = assert.New(t)
			resolved = ResolveConfig(Config{}, Config{StackKey: nil}, nil)
		)

		assert.Equal([]any{}, resolved.Stack())
	})

	t.Run("Precedence", func(t *testing.T) {
		var (
			assert   = assert.New(t)
			stored   = Config{"port": 9000, StackKey: []any{"stored"}}
			resolved = ResolveConfig(
				Defaults(),
				stored,
				Config{"hostname": "localhost", StackKey: []any{}},
			)
		)

		assert.Equal(9000, resolved["port"])
		assert.Equal("localhost", resolved["hostname"])
		assert.True(sameSlice(stored.Stack(), resolved.Stack()))
	})
}
