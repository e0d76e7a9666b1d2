package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SourceExt is the extension of PlayScript source files.
const SourceExt = ".play"

// CollectSources expands paths into a sorted, duplicate-free list of source
// files. Directories are walked recursively; hidden directories are skipped.
// Files named explicitly are kept whatever their extension.
func CollectSources(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) == SourceExt {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}
