package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "webscraper" {
			t.Errorf("expected use 'webscraper', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has quiet flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("quiet")
		if flag == nil {
			t.Fatal("expected quiet flag")
		}
		if flag.Shorthand != "q" {
			t.Errorf("expected shorthand 'q', got %q", flag.Shorthand)
		}
	})

	t.Run("has scrape subcommand", func(t *testing.T) {
		t.Parallel()
		if !hasSubcommand(cmd.Commands(), "scrape") {
			t.Error("expected scrape subcommand")
		}
	})

	t.Run("has history subcommand", func(t *testing.T) {
		t.Parallel()
		if !hasSubcommand(cmd.Commands(), "history") {
			t.Error("expected history subcommand")
		}
	})

	t.Run("has version subcommand", func(t *testing.T) {
		t.Parallel()
		if !hasSubcommand(cmd.Commands(), "version") {
			t.Error("expected version subcommand")
		}
	})
}

func hasSubcommand(cmds []*cobra.Command, name string) bool {
	for _, c := range cmds {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "webscraper version") {
		t.Errorf("expected version output, got %q", output)
	}
	if !strings.Contains(output, "commit:") {
		t.Errorf("expected commit line, got %q", output)
	}
}

// TestGetVersion tests version string resolution.
func TestGetVersion(t *testing.T) {
	if got := getVersion(); got == "" {
		t.Error("expected non-empty version")
	}
	if got := getCommit(); got == "" {
		t.Error("expected non-empty commit")
	}
	if got := getDate(); got == "" {
		t.Error("expected non-empty date")
	}
}
