package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "taskboard" {
		t.Errorf("Expected root command use to be 'taskboard', got %s", rootCmd.Use)
	}

	if !strings.Contains(rootCmd.Short, "API server") {
		t.Errorf("Expected short description to mention the API server")
	}
}

func TestRootCmd_Help(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"--help"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Failed to execute help command: %v", err)
	}

	out := buf.String()
	for _, sub := range []string{"serve", "migrate", "seed", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("Expected help output to list the %s command", sub)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected a --config persistent flag")
	}
	if rootCmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("Expected a --log-level persistent flag")
	}
}

func TestVersionCmd(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("Expected command use to be 'version', got %s", versionCmd.Use)
	}

	if !strings.Contains(versionCmd.Short, "version information") {
		t.Error("Expected short description to mention version information")
	}

	// The Run function prints to stdout; it just must not panic.
	versionCmd.Run(versionCmd, []string{})
}

func TestMigrateCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range migrateCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"up", "down", "status"} {
		if !names[want] {
			t.Errorf("Expected migrate to have a %s subcommand", want)
		}
	}
}
