// Package scan discovers analyzable source files under a repository
// root, honoring .gitignore and a directory exclusion list.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/1119302165/callgraph-analyzer/internal/graph"
)

// File is one discovered source file. Path is repo-relative with
// forward slashes; AbsPath is where to read it from.
type File struct {
	Path     string
	AbsPath  string
	Language graph.Language
}

// Options controls the walk.
type Options struct {
	// ExcludeDirs are directory names skipped anywhere in the tree, in
	// addition to the defaults.
	ExcludeDirs []string
	// Languages restricts discovery to the given languages. Empty
	// means all supported languages.
	Languages []graph.Language
	// NoGitignore disables .gitignore filtering.
	NoGitignore bool
}

// defaultExcludeDirs are skipped regardless of Options. They hold
// dependencies and build output, never first-party source.
var defaultExcludeDirs = []string{
	".git", "node_modules", "__pycache__", "dist", "build",
	"vendor", "target", ".idea", ".vscode", ".venv", "venv",
}

// extLanguages maps file extensions to languages.
var extLanguages = map[string]graph.Language{
	".go":   graph.LangGo,
	".ts":   graph.LangTypeScript,
	".tsx":  graph.LangTypeScript,
	".js":   graph.LangJavaScript,
	".jsx":  graph.LangJavaScript,
	".mjs":  graph.LangJavaScript,
	".py":   graph.LangPython,
	".java": graph.LangJava,
	".rs":   graph.LangRust,
}

// Walk returns every analyzable source file under root, in walk order.
func Walk(root string, opts Options) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: %s is not a directory", root)
	}

	excluded := make(map[string]bool, len(defaultExcludeDirs)+len(opts.ExcludeDirs))
	for _, d := range defaultExcludeDirs {
		excluded[d] = true
	}
	for _, d := range opts.ExcludeDirs {
		excluded[d] = true
	}

	wanted := make(map[graph.Language]bool, len(opts.Languages))
	for _, l := range opts.Languages {
		wanted[l] = true
	}

	var matcher *ignore.GitIgnore
	if !opts.NoGitignore {
		// A missing or unreadable .gitignore just means no filtering.
		matcher, _ = ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if excluded[d.Name()] {
				return fs.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		lang, ok := extLanguages[strings.ToLower(filepath.Ext(rel))]
		if !ok {
			return nil
		}
		if len(wanted) > 0 && !wanted[lang] {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		files = append(files, File{Path: rel, AbsPath: path, Language: lang})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}
