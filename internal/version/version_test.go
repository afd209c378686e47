package version

import (
	"strings"
	"testing"
)

func TestCurrentTrims(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = " 1.2.3 "
	GitCommit = "abc123\n"
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123" {
		t.Fatalf("info = %+v", info)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		plain   string
	}{
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"1.0.0-beta.1", false, "1.0.0-beta.1"},
		{"1.2.3", true, "1.2.3"},
		{"unknown", true, "unknown"},
	}
	for _, tt := range tests {
		got := Colored(tt.in, tt.enabled)
		if stripped := stripANSI(got); stripped != tt.plain {
			t.Errorf("Colored(%q) = %q, want %q after stripping", tt.in, stripped, tt.plain)
		}
		if tt.enabled && tt.in != "unknown" && !strings.Contains(got, "\x1b[") {
			t.Errorf("Colored(%q, true) has no escapes", tt.in)
		}
		if !tt.enabled && strings.Contains(got, "\x1b[") {
			t.Errorf("Colored(%q, false) has escapes", tt.in)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
