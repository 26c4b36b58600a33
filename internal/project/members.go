package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of IDL source files.
const SourceExt = ".lavish"

// ListSourceFiles returns every *.lavish file below dir, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ResolveMembers expands the member globs of m into source files. A glob
// matching a directory contributes every source file below it. unmatched
// lists the globs that produced no file at all.
func (m *Manifest) ResolveMembers() (files, unmatched []string, err error) {
	seen := make(map[string]bool)
	for _, member := range m.Members {
		pattern := filepath.Join(m.Dir, filepath.FromSlash(member))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("member %q: %w", member, err)
		}
		found := 0
		for _, match := range matches {
			if !pathWithin(m.Dir, match) {
				return nil, nil, fmt.Errorf("member %q escapes the workspace root", member)
			}
			info, err := os.Stat(match)
			if err != nil {
				return nil, nil, fmt.Errorf("member %q: %w", member, err)
			}
			var batch []string
			if info.IsDir() {
				if batch, err = ListSourceFiles(match); err != nil {
					return nil, nil, fmt.Errorf("member %q: %w", member, err)
				}
			} else if strings.HasSuffix(match, SourceExt) {
				batch = []string{match}
			}
			for _, f := range batch {
				found++
				if !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
		}
		if found == 0 {
			unmatched = append(unmatched, member)
		}
	}
	sort.Strings(files)
	return files, unmatched, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
