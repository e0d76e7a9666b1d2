package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks files added from memory (tests, REPL input, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position, both components 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

// FileSet owns every loaded source file of a compilation.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 4),
		index: make(map[string]FileID),
	}
}

// Add stores already normalized content and returns a fresh FileID,
// even when the same path was added before.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	clean := filepath.ToSlash(filepath.Clean(path))
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    clean,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.index[clean] = id
	return id
}

// Load reads path from disk, strips a UTF-8 BOM and normalizes CRLF.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content under name.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, _ = normalizeCRLF(content)
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file for id or nil when id is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Lookup returns the latest file registered under path.
func (fileSet *FileSet) Lookup(path string) (*File, bool) {
	id, ok := fileSet.index[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, false
	}
	return &fileSet.files[id], true
}

func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Resolve converts a span into start and end line/column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the source text covered by span.
func (fileSet *FileSet) Text(span Span) string {
	f := fileSet.Get(span.File)
	if f == nil {
		return ""
	}
	end := min(int(span.End), len(f.Content))
	start := min(int(span.Start), end)
	return string(f.Content[start:end])
}

// GetLine returns line lineNum (1-based) without its trailing newline.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	size := len(f.Content)
	var start int
	if lineNum > 1 {
		prev := int(lineNum) - 2
		if prev >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[prev]) + 1
	}
	end := size
	if idx := int(lineNum) - 1; idx < len(f.LineIdx) {
		end = int(f.LineIdx[idx])
	}
	if start >= size || start > end {
		return ""
	}
	return string(f.Content[start:end])
}
