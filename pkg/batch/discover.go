package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Discover expands the given paths into the TypeScript files to lower.
// Files are taken as given; directories are walked for ".ts" files,
// skipping declaration files, dot-directories and node_modules.
func Discover(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
		if !info.IsDir() {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
			continue
		}
		found, err := DiscoverFS(os.DirFS(p), ".")
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
		for _, f := range found {
			full := filepath.Join(p, filepath.FromSlash(f))
			if !seen[full] {
				seen[full] = true
				files = append(files, full)
			}
		}
	}
	return files, nil
}

// DiscoverFS walks root in fsys and returns the lowerable files in lexical
// order, as slash-separated paths relative to fsys.
func DiscoverFS(fsys fs.FS, root string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if isLowerable(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

func isLowerable(p string) bool {
	return path.Ext(p) == ".ts" && !strings.HasSuffix(p, ".d.ts")
}
