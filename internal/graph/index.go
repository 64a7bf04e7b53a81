package graph

// SymbolIndex maps declared names to components for call resolution.
// Qualified names are unique keys; when two declarations collide on the
// same qualified name the later one wins and the collision is counted.
// Short names map to every component carrying that name, in insertion
// order, so ambiguity can be broken deterministically.
type SymbolIndex struct {
	byQualified map[string]*Component
	byShort     map[string][]*Component
	conflicts   int
}

// NewSymbolIndex builds an index over the given components. The slice
// is indexed in place; components must not move after this call.
func NewSymbolIndex(components []Component) *SymbolIndex {
	idx := &SymbolIndex{
		byQualified: make(map[string]*Component, len(components)),
		byShort:     make(map[string][]*Component),
	}
	for i := range components {
		c := &components[i]
		if _, exists := idx.byQualified[c.QualifiedName]; exists {
			idx.conflicts++
		}
		idx.byQualified[c.QualifiedName] = c
		idx.byShort[c.ShortName] = append(idx.byShort[c.ShortName], c)
	}
	return idx
}

// Lookup returns the component with the exact qualified name, or nil.
func (idx *SymbolIndex) Lookup(qualifiedName string) *Component {
	return idx.byQualified[qualifiedName]
}

// LookupShort returns all components sharing a short name, in the order
// they were indexed.
func (idx *SymbolIndex) LookupShort(shortName string) []*Component {
	return idx.byShort[shortName]
}

// Conflicts reports how many qualified-name collisions the index saw.
func (idx *SymbolIndex) Conflicts() int {
	return idx.conflicts
}

// Size returns the number of distinct qualified names indexed.
func (idx *SymbolIndex) Size() int {
	return len(idx.byQualified)
}
