package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[run]
entry = "src/main.play"

[check]
jobs = 2
`)
	writeFile(t, filepath.Join(root, "src", "main.play"), "println(1);\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	if m.Config.Check.Jobs != 2 {
		t.Errorf("jobs = %d, want 2", m.Config.Check.Jobs)
	}
	// absent keys keep their defaults
	if m.Config.Check.MaxDiagnostics != 100 || !m.Config.Check.Cache || m.Config.Trace.Level != "off" {
		t.Errorf("defaults lost: %+v", m.Config)
	}
	entry, err := m.EntryPath()
	if err != nil {
		t.Fatalf("EntryPath: %v", err)
	}
	if entry != filepath.Join(root, "src", "main.play") {
		t.Errorf("entry = %q", entry)
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	cases := map[string]string{
		"syntax":      "[run\n",
		"unknown key": "[run]\nmain = \"x.play\"\n",
		"empty entry": "[run]\nentry = \"  \"\n",
		"negative":    "[check]\njobs = -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, content)
			if _, err := LoadFile(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestEntryPathMissing(t *testing.T) {
	m := &Manifest{Path: "playscript.toml", Root: t.TempDir()}
	if _, err := m.EntryPath(); !errors.Is(err, ErrNoEntry) {
		t.Fatalf("expected ErrNoEntry, got %v", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, "main.play")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := DefaultConfig()
	want.Run.Entry = "main.play"
	if !reflect.DeepEqual(m.Config, want) {
		t.Fatalf("config = %+v, want %+v", m.Config, want)
	}
	if _, err := WriteDefault(dir, "main.play"); err == nil {
		t.Fatal("expected an error for an existing manifest")
	}
}

func TestCollectSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.play"), "")
	writeFile(t, filepath.Join(root, "a", "c.play"), "")
	writeFile(t, filepath.Join(root, "a", "notes.txt"), "")
	writeFile(t, filepath.Join(root, ".hidden", "d.play"), "")
	explicit := filepath.Join(root, "a", "notes.txt")

	got, err := CollectSources([]string{root, explicit, filepath.Join(root, "b.play")})
	if err != nil {
		t.Fatalf("CollectSources: %v", err)
	}
	want := []string{
		filepath.Join(root, "a", "c.play"),
		filepath.Join(root, "a", "notes.txt"),
		filepath.Join(root, "b.play"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := CollectSources([]string{filepath.Join(root, "missing")}); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}
