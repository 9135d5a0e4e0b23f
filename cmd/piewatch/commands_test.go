package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("PIEWATCH_CONFIG", "")
	assert.Equal(t, "custom.toml", resolveConfigPath("custom.toml"))

	t.Setenv("PIEWATCH_CONFIG", "/etc/piewatch.toml")
	assert.Equal(t, "/etc/piewatch.toml", resolveConfigPath(""))
}

func TestCommandNames(t *testing.T) {
	assert.Equal(t, "run", (&runCmd{}).Name())
	assert.Equal(t, "schedule", (&scheduleCmd{}).Name())
	assert.Equal(t, "version", (&versionCmd{}).Name())
}
