package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_stdout(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", filepath.Join("..", "..", "cinema", "projectiongen.yaml"), "--stdout"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "// Code generated by projectiongen. DO NOT EDIT.")
	assert.Contains(t, out.String(), "type CountryProjection struct")
}

func TestRootCommand_missingConfig(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
