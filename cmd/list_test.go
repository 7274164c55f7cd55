package cmd

import (
	"strings"
	"testing"
)

func TestListCmd(t *testing.T) {
	t.Run("list command structure", func(t *testing.T) {
		if listCmd.Use != "list" {
			t.Errorf("listCmd.Use = %q, want %q", listCmd.Use, "list")
		}
	})

	t.Run("list command has all flag", func(t *testing.T) {
		flag := listCmd.Flags().Lookup("all")
		if flag == nil {
			t.Fatal("listCmd should have --all flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("all flag shorthand = %q, want %q", flag.Shorthand, "a")
		}
	})
}

func TestListCmd_Run(t *testing.T) {
	db := setupCLI(t)

	stdout, _, err := executeCmd(rootCmd, "list", "--db", db)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(stdout, "No chores yet") {
		t.Errorf("empty list output = %q", stdout)
	}

	runJSON(t, db, "add", "Water plants", "--days", "mon,wed,fri", "--at", "08:00")
	runJSON(t, db, "add", "Recycling day", "--days", "tue")

	stdout, _, err = executeCmd(rootCmd, "list", "--db", db)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"Water plants", "Mo We Fr", "08:00", "Recycling day", "Total: 2 chore(s)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output missing %q:\n%s", want, stdout)
		}
	}

	out := runJSON(t, db, "list")
	if out["count"] != float64(2) {
		t.Errorf("count = %v, want 2", out["count"])
	}
}
