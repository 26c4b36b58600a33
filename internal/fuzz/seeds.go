package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"lavish/internal/project"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	f.Add([]byte{})
	f.Add([]byte("namespace n {}"))
	f.Add([]byte("namespace n { struct S { a: map<string, array<option<u8>>>, } }"))
	f.Add([]byte("namespace n { enum E { a, b, } server fn f(x: E) -> (y: n.E) { client fn g() } }"))
	f.Add([]byte("namespace n { struct Loop { next: Loop } struct K { m: map<Loop, bool> } }"))
	f.Add([]byte("/* unterminated"))
	f.Add([]byte("namespace n { struct S { s: \"string\" } }"))
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.lavish файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != project.SourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
