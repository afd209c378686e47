package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.toml")
	content := []byte("\xEF\xBB\xBF[[symbol]]\r\nkey = \"A\"\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if got, want := string(f.Content), "[[symbol]]\nkey = \"A\"\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF", f.Flags)
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != id {
		t.Fatalf("GetLatest = %v, %v", latest, ok)
	}
}

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.toml", []byte("one"))
	second := fs.AddVirtual("a.toml", []byte("two"))
	if first == second {
		t.Fatalf("expected new FileID for re-added file")
	}
	if first == NoFileID || fs.Get(NoFileID) != nil {
		t.Fatalf("FileID 0 must stay reserved")
	}
	if latest, _ := fs.GetLatest("a.toml"); latest != second {
		t.Fatalf("latest = %d, want %d", latest, second)
	}
	if fs.Get(first).Hash == fs.Get(second).Hash {
		t.Fatalf("different content must hash differently")
	}
}

func TestResolveAndFindLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("p.toml", []byte("[[symbol]]\nkey = \"Game.A\"\n\n[[symbol]]\nkey = \"Game.B\"\n"))

	span, ok := fs.FindLine(id, `"Game.B"`, 0)
	if !ok {
		t.Fatalf("FindLine did not find key")
	}
	start, end := fs.Resolve(span)
	if start.Line != 5 || start.Col != 1 {
		t.Fatalf("start = %+v, want line 5 col 1", start)
	}
	if end.Line != 5 {
		t.Fatalf("end = %+v, want line 5", end)
	}

	if _, ok := fs.FindLine(id, "missing", 0); ok {
		t.Fatalf("FindLine must fail for absent needle")
	}
}
