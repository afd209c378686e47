package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const programManifest = `
[[symbol]]
key = "Game.Main"
kind = "method"
containing = "Game.App"
references = ["Game.App.Start"]

[[symbol]]
key = "Game.App"
kind = "class"

[[symbol]]
key = "Game.App.Start"
kind = "method"
containing = "Game.App"
returns = "System.Void"

[[symbol]]
key = "System.Void"
kind = "extern"

[[symbol]]
key = "Game.Unused"
kind = "class"
`

// execute runs the root command in a fresh project directory.
func execute(t *testing.T, manifest string, args ...string) (string, error) {
	t.Helper()
	newProject(t, manifest)
	return run(t, args...)
}

// newProject writes manifest and config into a temp dir and enters it. The
// disk cache lives in its own temp dir for the rest of the test.
func newProject(t *testing.T, manifest string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "program.toml"), manifest)
	writeFile(t, filepath.Join(dir, configName), "[graph]\nmanifest = \"program.toml\"\nentry = [\"Game.Main\"]\n")
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// run executes the root command in the current project.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDepsCommand(t *testing.T) {
	out, err := execute(t, programManifest, "deps", "Game.Main")
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, out)
	}
	for _, want := range []string{"Game.App ", "Game.App.Start", "System.Void"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Game.Unused") || strings.Contains(out, "Game.Main ") {
		t.Errorf("unexpected symbols in closure:\n%s", out)
	}
}

func TestRequiredUsesConfigEntry(t *testing.T) {
	out, err := execute(t, programManifest, "required")
	if err != nil {
		t.Fatalf("required: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Game.Main") || strings.Contains(out, "Game.Unused") {
		t.Fatalf("required output:\n%s", out)
	}
}

func TestCheckReportsErrors(t *testing.T) {
	broken := programManifest + "\n[[symbol]]\nkey = \"Game.Broken\"\nkind = \"field\"\ntype = \"Game.Nowhere\"\n"
	out, err := execute(t, broken, "check")
	if err == nil {
		t.Fatalf("check must fail:\n%s", out)
	}
	if !strings.Contains(out, "SEM3001") || !strings.Contains(out, "Game.Nowhere") {
		t.Fatalf("check output:\n%s", out)
	}
}

// resetFlag restores a flag after the test; cobra keeps parsed values on the
// shared command tree.
func resetFlag(t *testing.T, flags *pflag.FlagSet, name string) {
	t.Helper()
	def := flags.Lookup(name).DefValue
	t.Cleanup(func() { _ = flags.Set(name, def) })
}

func TestDepsNormalisesKeyWithAndWithoutCache(t *testing.T) {
	newProject(t, programManifest+"\n[[symbol]]\nkey = \"Game.Caf\u00e9\"\nkind = \"class\"\nreferences = [\"Game.App\"]\n")

	cold, err := run(t, "deps", "  Game.Cafe\u0301 ")
	if err != nil {
		t.Fatalf("uncached deps: %v\n%s", err, cold)
	}
	entries, err := os.ReadDir(filepath.Join(os.Getenv("XDG_CACHE_HOME"), "symgraph", "closures"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("first run must fill the cache, got %v (%v)", entries, err)
	}
	warm, err := run(t, "deps", "  Game.Cafe\u0301 ")
	if err != nil {
		t.Fatalf("cached deps: %v\n%s", err, warm)
	}
	if !strings.Contains(warm, "Game.App") || warm != cold {
		t.Fatalf("cached output differs:\ncold:\n%s\nwarm:\n%s", cold, warm)
	}
}

func TestDepsShowsFlags(t *testing.T) {
	withFlags := programManifest + `
[[symbol]]
key = "Game.Tick"
kind = "method"
containing = "Game.App"
static = true
virtual = true
references = ["Game.App.Start"]
`
	out, err := execute(t, withFlags, "deps", "Game.Tick")
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, out)
	}
	if !strings.Contains(out, "FLAGS") {
		t.Fatalf("no flags column:\n%s", out)
	}
	var external string
	for line := range strings.Lines(out) {
		if strings.HasPrefix(line, "System.Void") {
			external = line
		}
	}
	if !strings.Contains(external, "extern") {
		t.Fatalf("System.Void row lacks its extern flag: %q\n%s", external, out)
	}
}

func TestDepsDirectNotesExternWithoutDependencies(t *testing.T) {
	resetFlag(t, depsCmd.Flags(), "direct")
	out, err := execute(t, programManifest, "deps", "--direct", "System.Void")
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, out)
	}
	if !strings.Contains(out, "note: System.Void records no dependencies (extern)") {
		t.Fatalf("missing note:\n%s", out)
	}
}

func TestCheckWithoutDiagnosticLimit(t *testing.T) {
	resetFlag(t, rootCmd.PersistentFlags(), "max-diagnostics")
	broken := programManifest + "\n[[symbol]]\nkey = \"Game.Broken\"\nkind = \"method\"\nreferences = [\"X1\", \"X2\", \"X3\"]\n"
	out, err := execute(t, broken, "--max-diagnostics", "0", "check")
	if err == nil {
		t.Fatalf("check must fail:\n%s", out)
	}
	if got := strings.Count(out, "SEM3001"); got != 3 {
		t.Fatalf("SEM3001 reported %d times, want 3:\n%s", got, out)
	}
}
