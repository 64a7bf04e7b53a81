package graph

import (
	"testing"
)

// mkComp builds a component for resolver tests.
func mkComp(qualifiedName, shortName, file string, line int) Component {
	return Component{
		ID:            ComponentID(qualifiedName, file, line),
		QualifiedName: qualifiedName,
		ShortName:     shortName,
		Kind:          KindFunction,
		Language:      LangPython,
		File:          file,
		LineStart:     line,
		LineEnd:       line + 5,
	}
}

func edgeBetween(t *testing.T, edges []Edge, caller, callee Component) bool {
	t.Helper()
	for _, e := range edges {
		if e.CallerID == caller.ID && e.CalleeID == callee.ID {
			return true
		}
	}
	return false
}

func TestResolve_ExactQualified(t *testing.T) {
	a := mkComp("pkg.main.run", "run", "pkg/main.py", 1)
	b := mkComp("pkg.util.helper", "helper", "pkg/util.py", 1)
	components := []Component{a, b}

	r := NewCallResolver(NewSymbolIndex(components))
	edges, stats := r.Resolve([]CallSite{
		{Caller: "pkg.main.run", CallerScope: "pkg.main", Callee: "pkg.util.helper", File: "pkg/main.py", Line: 2},
	})

	if len(edges) != 1 || !edgeBetween(t, edges, a, b) {
		t.Fatalf("expected one edge run->helper, got %v", edges)
	}
	if stats.Unresolved != 0 {
		t.Errorf("Unresolved = %d, want 0", stats.Unresolved)
	}
}

func TestResolve_SameScopeShortName(t *testing.T) {
	// Two methods on the same class; save() calls validate() bare.
	save := mkComp("pkg.svc.Svc.save", "save", "pkg/svc.py", 10)
	validate := mkComp("pkg.svc.Svc.validate", "validate", "pkg/svc.py", 20)
	// A decoy validate in another module.
	decoy := mkComp("other.validate", "validate", "other.py", 1)
	components := []Component{save, validate, decoy}

	r := NewCallResolver(NewSymbolIndex(components))
	edges, stats := r.Resolve([]CallSite{
		{Caller: "pkg.svc.Svc.save", CallerScope: "pkg.svc.Svc", Callee: "validate", File: "pkg/svc.py", Line: 12},
	})

	if !edgeBetween(t, edges, save, validate) {
		t.Fatalf("expected same-scope resolution to Svc.validate, got %v", edges)
	}
	if stats.Unresolved != 0 {
		t.Errorf("Unresolved = %d, want 0", stats.Unresolved)
	}
}

func TestResolve_UniqueGlobalShortName(t *testing.T) {
	caller := mkComp("a.main", "main", "a.py", 1)
	callee := mkComp("lib.deep.helper", "helper", "lib/deep.py", 1)
	components := []Component{caller, callee}

	r := NewCallResolver(NewSymbolIndex(components))
	edges, _ := r.Resolve([]CallSite{
		{Caller: "a.main", CallerScope: "a", Callee: "helper", File: "a.py", Line: 2},
	})

	if !edgeBetween(t, edges, caller, callee) {
		t.Fatalf("expected unique short-name resolution, got %v", edges)
	}
}

func TestResolve_ClosestFileWins(t *testing.T) {
	// util exists in both pkgA and pkgB; the caller sits in pkgA, so the
	// pkgA candidate is closer and wins.
	caller := mkComp("pkgA.main.run", "run", "pkgA/main.py", 1)
	utilA := mkComp("pkgA.util.util", "util", "pkgA/util.py", 1)
	utilB := mkComp("pkgB.util.util", "util", "pkgB/util.py", 1)
	components := []Component{caller, utilA, utilB}

	r := NewCallResolver(NewSymbolIndex(components))
	edges, stats := r.Resolve([]CallSite{
		{Caller: "pkgA.main.run", CallerScope: "pkgA.main", Callee: "util", File: "pkgA/main.py", Line: 3},
	})

	if !edgeBetween(t, edges, caller, utilA) {
		t.Fatalf("expected pkgA.util.util to win, got %v", edges)
	}
	if edgeBetween(t, edges, caller, utilB) {
		t.Error("pkgB.util.util should not be linked")
	}
	if stats.Unresolved != 0 {
		t.Errorf("Unresolved = %d, want 0", stats.Unresolved)
	}
}

func TestResolve_AmbiguousTieStaysUnresolved(t *testing.T) {
	// Both candidates are equally distant from the caller's file.
	caller := mkComp("main.run", "run", "main.py", 1)
	utilA := mkComp("pkgA.util.helper", "helper", "pkgA/util.py", 1)
	utilB := mkComp("pkgB.util.helper", "helper", "pkgB/util.py", 1)
	components := []Component{caller, utilA, utilB}

	r := NewCallResolver(NewSymbolIndex(components))
	edges, stats := r.Resolve([]CallSite{
		{Caller: "main.run", CallerScope: "main", Callee: "helper", File: "main.py", Line: 2},
	})

	if len(edges) != 0 {
		t.Fatalf("ambiguous call should produce no edge, got %v", edges)
	}
	if stats.Unresolved != 1 {
		t.Errorf("Unresolved = %d, want 1", stats.Unresolved)
	}
}

func TestResolve_UnknownCalleeCounted(t *testing.T) {
	caller := mkComp("main.run", "run", "main.py", 1)

	r := NewCallResolver(NewSymbolIndex([]Component{caller}))
	edges, stats := r.Resolve([]CallSite{
		{Caller: "main.run", CallerScope: "main", Callee: "print", File: "main.py", Line: 2},
		{Caller: "main.run", CallerScope: "main", Callee: "len", File: "main.py", Line: 3},
	})

	if len(edges) != 0 {
		t.Fatalf("expected no edges, got %v", edges)
	}
	if stats.Unresolved != 2 {
		t.Errorf("Unresolved = %d, want 2", stats.Unresolved)
	}
}

func TestResolve_ModuleScopeCallsDropped(t *testing.T) {
	target := mkComp("app.setup", "setup", "app.py", 1)

	r := NewCallResolver(NewSymbolIndex([]Component{target}))
	edges, stats := r.Resolve([]CallSite{
		{Caller: "", CallerScope: "app", Callee: "setup", File: "app.py", Line: 10},
	})

	if len(edges) != 0 {
		t.Fatalf("module-scope calls must not become edges, got %v", edges)
	}
	if stats.DroppedCallers != 1 {
		t.Errorf("DroppedCallers = %d, want 1", stats.DroppedCallers)
	}
	if stats.Unresolved != 0 {
		t.Errorf("Unresolved = %d, want 0; dropped callers are not unresolved", stats.Unresolved)
	}
}

func TestResolve_DuplicateCallsCollapse(t *testing.T) {
	caller := mkComp("a.run", "run", "a.py", 1)
	callee := mkComp("a.step", "step", "a.py", 10)

	r := NewCallResolver(NewSymbolIndex([]Component{caller, callee}))
	edges, _ := r.Resolve([]CallSite{
		{Caller: "a.run", CallerScope: "a", Callee: "step", File: "a.py", Line: 2},
		{Caller: "a.run", CallerScope: "a", Callee: "step", File: "a.py", Line: 3},
		{Caller: "a.run", CallerScope: "a", Callee: "a.step", File: "a.py", Line: 4},
	})

	if len(edges) != 1 {
		t.Fatalf("repeated calls should collapse to one edge, got %d", len(edges))
	}
}

func TestSymbolIndex_ConflictsLaterWins(t *testing.T) {
	first := mkComp("pkg.f", "f", "pkg/a.py", 1)
	second := Component{
		ID:            ComponentID("pkg.f", "pkg/b.py", 5),
		QualifiedName: "pkg.f",
		ShortName:     "f",
		Kind:          KindFunction,
		Language:      LangPython,
		File:          "pkg/b.py",
		LineStart:     5,
		LineEnd:       9,
	}

	idx := NewSymbolIndex([]Component{first, second})
	if idx.Conflicts() != 1 {
		t.Errorf("Conflicts = %d, want 1", idx.Conflicts())
	}
	got := idx.Lookup("pkg.f")
	if got == nil || got.File != "pkg/b.py" {
		t.Errorf("later declaration should win, got %+v", got)
	}
	if len(idx.LookupShort("f")) != 2 {
		t.Errorf("both declarations should stay reachable by short name")
	}
}
