package service

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The core may depend on domain, ports and shared packages, never on the
// HTTP or storage adapters.
func TestCoreDoesNotImportAdapters(t *testing.T) {
	forbidden := []string{
		"github.com/movieapp/movie-api/internal/api",
		"github.com/movieapp/movie-api/internal/infrastructure",
	}

	dirs := []string{".", "../domain", "../ports"}
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		for _, file := range files {
			f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", file, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				for _, prefix := range forbidden {
					if path == prefix || strings.HasPrefix(path, prefix+"/") {
						t.Errorf("%s imports %s", file, path)
					}
				}
			}
		}
	}
}
