package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"initdb", "load", "query", "prepare", "serve"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestLoadCommandFlags(t *testing.T) {
	for _, flag := range []string{"table", "srid", "mode", "infer-commune", "communes-table", "batch-size"} {
		assert.NotNil(t, loadCmd.Flags().Lookup(flag), "flag %s missing", flag)
	}
	assert.Equal(t, "append", loadCmd.Flags().Lookup("mode").DefValue)
	assert.Equal(t, "2154", loadCmd.Flags().Lookup("srid").DefValue)
}

func TestQueryCommandFlags(t *testing.T) {
	for _, flag := range []string{"commune", "field", "stats", "intersect", "limit", "export", "out"} {
		assert.NotNil(t, queryCmd.Flags().Lookup(flag), "flag %s missing", flag)
	}
	assert.Equal(t, "100", queryCmd.Flags().Lookup("limit").DefValue)
}
