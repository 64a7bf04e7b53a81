package graph

import "context"

// Declaration is one extracted function, method, class, or
// endpoint-handler declaration.
type Declaration struct {
	QualifiedName string
	ShortName     string
	Kind          ComponentKind
	File          string
	LineStart     int
	LineEnd       int
	Metadata      *Metadata
}

// CallSite is one raw call expression found in a declaration body.
// Caller is the qualified name of the enclosing declaration; it is empty
// for module-scope calls, which never produce edges. Callee is the
// textual reference, normalized to dotted form (a.b.c).
type CallSite struct {
	Caller      string
	CallerScope string // enclosing class/module context, dotted, may be empty
	Callee      string
	File        string
	Line        int
}

// ExtractResult holds the declarations and call sites from a single file.
type ExtractResult struct {
	File         string
	Language     Language
	Declarations []Declaration
	Calls        []CallSite
}

// Parser extracts declarations and call sites from source files.
// Implementations: TreeSitterParser (production), stub parsers in tests.
type Parser interface {
	// Parse extracts declarations and calls from a single source file.
	// path is repo-relative; lang determines which grammar to use.
	Parse(ctx context.Context, path string, source []byte, lang Language) (*ExtractResult, error)

	// SupportedLanguages returns the languages this parser can handle.
	SupportedLanguages() []Language

	// Close releases parser resources (Tree-sitter C memory).
	Close() error
}
