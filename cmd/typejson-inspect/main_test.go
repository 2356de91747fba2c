package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
  "name": "north",
  "vehicles": [
    {"brand": "b", "__class__": "Bike", "__module__": "example.com/fleet"},
    {"brand": "v", "owner": {"name": "x", "__class__": "*Person", "__module__": "example.com/people"},
     "__class__": "Van", "__module__": "example.com/fleet"}
  ],
  "odd key": {"__class__": "int"},
  "blank": {"__class__": "", "__module__": "example.com/fleet"},
  "numeric": {"__class__": 7},
  "__class__": "Fleet",
  "__module__": "example.com/fleet"
}`

func TestRun_Outline(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader(document), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, strings.Join([]string{
		"$\texample.com/fleet.Fleet",
		"$.vehicles[0]\texample.com/fleet.Bike",
		"$.vehicles[1]\texample.com/fleet.Van",
		"$.vehicles[1].owner\texample.com/people.*Person",
		"$[\"odd key\"]\tint",
	}, "\n")+"\n", stdout.String())
}

func TestRun_IndentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-indent", path}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "  $.vehicles[0]"))
	assert.True(t, strings.HasPrefix(lines[3], "    $.vehicles[1].owner"))
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-"}, strings.NewReader(`{"a": [1, 2`), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Failed to parse document")
	assert.Empty(t, stdout.String())

	stderr.Reset()
	assert.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "missing.json")}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Failed to open document")

	assert.Equal(t, 2, run(nil, nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"-bogus", "-"}, nil, &stdout, &stderr))
}
