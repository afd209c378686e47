package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"SYMBOL", "KIND"}, [][]string{
		{"Game.界", "type"},
		{"Game.Player", "method"},
	}, false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"SYMBOL       KIND",
		"Game.界      type",
		"Game.Player  method",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
