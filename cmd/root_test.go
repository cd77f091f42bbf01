//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"extract", "bulk", "conversations", "serve", "config", "samples"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "extractify", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
}

func TestExtractCommand_Flags(t *testing.T) {
	flag := extractCmd.Flags().Lookup("no-model")
	require.NotNil(t, flag, "extract command should have --no-model flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestBulkCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"save", "no-model"} {
		flag := bulkCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "bulk command should have --%s flag", flagName)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestConversationsCommand_HasSubcommands(t *testing.T) {
	cmds := conversationsCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"list", "show", "delete"}
	for _, name := range expected {
		assert.True(t, names[name], "conversations should have subcommand %q", name)
	}
}

func TestConfigCommand_HasSubcommands(t *testing.T) {
	cmds := configCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	assert.True(t, names["init"], "config should have subcommand init")
	assert.True(t, names["show"], "config should have subcommand show")
}
