package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "runs", "retailers", "manifest", "fetch"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
