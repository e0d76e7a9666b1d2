package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"playscript/internal/diag"
	"playscript/internal/project"
	"playscript/internal/source"
	"playscript/internal/version"
)

// Increment when DiagPayload changes shape.
const diagCacheSchemaVersion uint16 = 1

// DiagCache stores the analysis diagnostics of a file on disk, keyed by the
// file's content hash and the tool version. Safe for concurrent use.
type DiagCache struct {
	mu  sync.RWMutex
	dir string
}

// DiagPayload is the cached outcome of analysing one file. Spans are stored
// without their FileID and rebound on load.
type DiagPayload struct {
	Schema      uint16
	Path        string
	ContentHash project.Digest
	Diagnostics []CachedDiagnostic
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// OpenDiagCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiagCache(app string) (*DiagCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiagCacheAt(filepath.Join(base, app))
}

// OpenDiagCacheAt opens a cache rooted at dir.
func OpenDiagCacheAt(dir string) (*DiagCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiagCache{dir: dir}, nil
}

// CacheKey derives the cache key of a file.
func CacheKey(f *source.File) project.Digest {
	return project.Combine(project.Digest(f.Hash), []byte(version.Version), []byte{byte(diagCacheSchemaVersion)})
}

func (c *DiagCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "diags", hex.EncodeToString(key[:])+".mp")
}

// Put writes payload atomically.
func (c *DiagCache) Put(key project.Digest, payload *DiagPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diagCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing entry or one written by another
// schema is a miss, not an error.
func (c *DiagCache) Get(key project.Digest, out *DiagPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diagCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiagCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "diags"))
}

// payloadFromBag captures the diagnostics of file f.
func payloadFromBag(f *source.File, bag *diag.Bag) *DiagPayload {
	items := bag.Items()
	payload := &DiagPayload{
		Path:        f.Path,
		ContentHash: project.Digest(f.Hash),
		Diagnostics: make([]CachedDiagnostic, 0, len(items)),
	}
	for _, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// restore replays cached diagnostics into bag, bound to file id.
func (p *DiagPayload) restore(id source.FileID, bag *diag.Bag) {
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), source.Span{File: id, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: id, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
}
