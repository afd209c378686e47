package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
)

// FileSet keeps every manifest and config file read during a run so that
// diagnostics can be resolved back to line and column.
type FileSet struct {
	mu    sync.RWMutex
	files []File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates an empty FileSet. FileID 0 is reserved for spans
// that point nowhere.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1, 4),
		index: make(map[string]FileID),
	}
}

// Add stores normalized content, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %q is too large: %w", path, err))
	}
	hash := sha256.Sum256(content)
	normalized := normalizePath(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	value, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(value)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id or nil when id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetLatest returns the latest file ID loaded for path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// FindLine returns a span covering the first line of file that contains needle.
// Used to anchor diagnostics on TOML entries, whose decoder does not keep offsets.
func (fs *FileSet) FindLine(id FileID, needle string, from uint32) (Span, bool) {
	f := fs.Get(id)
	if f == nil || needle == "" || int(from) > len(f.Content) {
		return Span{}, false
	}
	rel := bytes.Index(f.Content[from:], []byte(needle))
	if rel < 0 {
		return Span{}, false
	}
	start := from + uint32(rel) //nolint:gosec // bounded by content length
	lineStart := bytes.LastIndexByte(f.Content[:start], '\n') + 1
	lineEnd := bytes.IndexByte(f.Content[start:], '\n')
	end := uint32(len(f.Content)) //nolint:gosec // checked in Add
	if lineEnd >= 0 {
		end = start + uint32(lineEnd) //nolint:gosec // bounded by content length
	}
	return Span{File: id, Start: uint32(lineStart), End: end}, true //nolint:gosec // bounded by content length
}
