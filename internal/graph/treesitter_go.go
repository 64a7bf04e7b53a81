package graph

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goExtractor extracts declarations and call sites from Go source files.
// Methods are qualified by their receiver type: module.Recv.Method.
type goExtractor struct{}

func (e *goExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) ([]Declaration, []CallSite) {
	var decls []Declaration
	var calls []CallSite

	mod := modulePath(filePath)
	e.walk(root, source, filePath, mod, "", mod, &decls, &calls)
	return decls, calls
}

// walk recurses through the tree carrying the enclosing declaration
// (caller) and its scope, so call sites get attributed correctly.
func (e *goExtractor) walk(
	node *tree_sitter.Node,
	source []byte,
	filePath, mod, caller, scope string,
	decls *[]Declaration,
	calls *[]CallSite,
) {
	switch node.Kind() {
	case "function_declaration":
		if name := fieldText(node, "name", source); name != "" {
			qn := joinQualified(mod, name)
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          KindFunction,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			caller, scope = qn, mod
		}

	case "method_declaration":
		if name := fieldText(node, "name", source); name != "" {
			recv := e.receiverType(node, source)
			scopeQN := joinQualified(mod, recv)
			qn := joinQualified(scopeQN, name)
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          KindMethod,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			caller, scope = qn, scopeQN
		}

	case "type_declaration":
		// type_declaration contains one or more type_spec children.
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil || child.Kind() != "type_spec" {
				continue
			}
			name := fieldText(child, "name", source)
			if name == "" {
				continue
			}
			start, end := lineRange(child)
			*decls = append(*decls, Declaration{
				QualifiedName: joinQualified(mod, name),
				ShortName:     name,
				Kind:          KindClass,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
		}

	case "call_expression":
		if callee := e.callee(node, source); callee != "" {
			*calls = append(*calls, CallSite{
				Caller:      caller,
				CallerScope: scope,
				Callee:      callee,
				File:        filePath,
				Line:        int(node.StartPosition().Row) + 1,
			})
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.walk(child, source, filePath, mod, caller, scope, decls, calls)
		}
	}
}

// receiverType extracts the bare receiver type name from a method
// declaration, stripping pointers and generics.
func (e *goExtractor) receiverType(node *tree_sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	if id := findFirstKind(recv, "type_identifier"); id != nil {
		return id.Utf8Text(source)
	}
	return ""
}

// callee returns the textual callee reference in dotted form. Only
// simple identifiers and selector expressions are extracted.
func (e *goExtractor) callee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier", "selector_expression":
		return fnNode.Utf8Text(source)
	default:
		return ""
	}
}

// findFirstKind does a depth-first search for the first descendant of
// the given kind.
func findFirstKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if found := findFirstKind(child, kind); found != nil {
			return found
		}
	}
	return nil
}
