package graph

import (
	"context"
	"fmt"
	"testing"
)

// stubParser returns canned results per path, failing where told to.
type stubParser struct {
	results map[string]*ExtractResult
	fail    map[string]bool
}

func (p *stubParser) Parse(_ context.Context, path string, _ []byte, lang Language) (*ExtractResult, error) {
	if p.fail[path] {
		return nil, fmt.Errorf("syntax error")
	}
	res, ok := p.results[path]
	if !ok {
		return &ExtractResult{File: path, Language: lang}, nil
	}
	return res, nil
}

func (p *stubParser) SupportedLanguages() []Language { return SupportedLanguages }
func (p *stubParser) Close() error                   { return nil }

func TestAnalyzer_EndToEnd(t *testing.T) {
	parser := &stubParser{
		results: map[string]*ExtractResult{
			"a.py": {
				File:     "a.py",
				Language: LangPython,
				Declarations: []Declaration{
					{QualifiedName: "a.run", ShortName: "run", Kind: KindFunction, File: "a.py", LineStart: 1, LineEnd: 5},
					{QualifiedName: "a.step", ShortName: "step", Kind: KindFunction, File: "a.py", LineStart: 10, LineEnd: 15},
				},
				Calls: []CallSite{
					{Caller: "a.run", CallerScope: "a", Callee: "step", File: "a.py", Line: 2},
				},
			},
		},
	}

	analyzer := NewAnalyzer(parser, 2)
	g, diags, err := analyzer.Analyze(context.Background(), []SourceFile{
		{Path: "a.py", Language: LangPython, Source: []byte("x")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags.ParseFailures) != 0 {
		t.Fatalf("unexpected failures: %v", diags.ParseFailures)
	}
	if g.Summary.TotalComponents != 2 || g.Summary.TotalEdges != 1 {
		t.Errorf("summary = %+v", g.Summary)
	}
	if len(g.LeafNodes) != 1 {
		t.Errorf("LeafNodes = %v, want just step", g.LeafNodes)
	}
}

func TestAnalyzer_ParseFailureSkipsFile(t *testing.T) {
	parser := &stubParser{
		results: map[string]*ExtractResult{
			"good.py": {
				File:     "good.py",
				Language: LangPython,
				Declarations: []Declaration{
					{QualifiedName: "good.f", ShortName: "f", Kind: KindFunction, File: "good.py", LineStart: 1, LineEnd: 2},
				},
			},
		},
		fail: map[string]bool{"bad.py": true},
	}

	analyzer := NewAnalyzer(parser, 0)
	g, diags, err := analyzer.Analyze(context.Background(), []SourceFile{
		{Path: "good.py", Language: LangPython, Source: []byte("x")},
		{Path: "bad.py", Language: LangPython, Source: []byte("x")},
	})
	if err != nil {
		t.Fatalf("one bad file must not fail the run: %v", err)
	}
	if len(diags.ParseFailures) != 1 || diags.ParseFailures[0].File != "bad.py" {
		t.Fatalf("ParseFailures = %v", diags.ParseFailures)
	}
	if g.Summary.TotalComponents != 1 {
		t.Errorf("good file should still be analyzed, got %+v", g.Summary)
	}
}

func TestAnalyzer_DuplicateDeclarationsCollapse(t *testing.T) {
	decl := Declaration{QualifiedName: "m.f", ShortName: "f", Kind: KindFunction, File: "m.py", LineStart: 3, LineEnd: 8}
	parser := &stubParser{
		results: map[string]*ExtractResult{
			"m.py": {
				File:         "m.py",
				Language:     LangPython,
				Declarations: []Declaration{decl, decl},
			},
		},
	}

	analyzer := NewAnalyzer(parser, 1)
	g, _, err := analyzer.Analyze(context.Background(), []SourceFile{
		{Path: "m.py", Language: LangPython, Source: []byte("x")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Summary.TotalComponents != 1 {
		t.Errorf("duplicate declarations should collapse, got %d", g.Summary.TotalComponents)
	}
}
