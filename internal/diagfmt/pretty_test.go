package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"symgraph/internal/diag"
	"symgraph/internal/source"
)

func fixture() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	content := []byte("[[symbol]]\nkey = \"Game.Player\"\nkind = \"class\"\n\n[[symbol]]\nkey = \"Game.Player\"\n")
	id := fs.AddVirtual("/home/user/game/program.toml", content)

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.ManifestDuplicateKey,
		Message:  `duplicate symbol "Game.Player"`,
		Primary:  source.Span{File: id, Start: 58, End: 77},
		Subject:  "Game.Player",
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 11, End: 30}, Msg: "previous declaration here"}},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  "cannot read manifest",
	})
	return fs, bag
}

func TestPrettyPlain(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeRelative, BaseDir: "/home/user", ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"game/program.toml:6:1: ERROR MAN1002: duplicate symbol \"Game.Player\"",
		" 5 | [[symbol]]",
		" 6 | key = \"Game.Player\"",
		"   | ^~~~~~~~~~~~~~~~~~~\n",
		"note: game/program.toml:2:1: previous declaration here",
		"symgraph: ERROR IO4001: cannot read manifest",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour disabled but escape codes present:\n%s", out)
	}
}

func TestPrettyColorAndLimit(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true, Max: 1, PathMode: PathModeBasename})
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected escape codes:\n%q", out)
	}
	if strings.Contains(out, "IO4001") || strings.Contains(out, "note:") {
		t.Fatalf("Max and ShowNotes not honoured:\n%s", out)
	}
	if !strings.Contains(out, "program.toml") {
		t.Fatalf("basename missing:\n%s", out)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	line := "key = \"界.A\""
	id := fs.AddVirtual("w.toml", []byte(line+"\n"))
	start := uint32(strings.Index(line, "A"))
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.SemaDependencyCycle, Message: "m", Primary: source.Span{File: id, Start: start, End: start + 1}})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	// "key = \"" is 7 columns, the ideograph takes two more, the dot one
	if !strings.Contains(buf.String(), "| "+strings.Repeat(" ", 10)+"^\n") {
		t.Fatalf("caret misplaced:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "MAN1002" || first.Symbol != "Game.Player" || first.Location.File != "program.toml" || first.Location.StartLine != 6 {
		t.Fatalf("first = %+v", first)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location.StartLine != 2 {
		t.Fatalf("notes = %+v", first.Notes)
	}
	if out.Diagnostics[1].Location.File != "" {
		t.Fatalf("fileless diagnostic must have empty location")
	}
}
