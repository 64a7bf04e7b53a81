package graph

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsExtractor extracts declarations and call sites from TypeScript and
// JavaScript sources. Both grammars expose the same node kinds for the
// constructs read here, so one extractor serves both languages.
type tsExtractor struct{}

func (e *tsExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) ([]Declaration, []CallSite) {
	var decls []Declaration
	var calls []CallSite

	mod := modulePath(filePath)
	e.walk(root, source, filePath, mod, "", mod, false, &decls, &calls)
	return decls, calls
}

func (e *tsExtractor) walk(
	node *tree_sitter.Node,
	source []byte,
	filePath, mod, caller, scope string,
	inClass bool,
	decls *[]Declaration,
	calls *[]CallSite,
) {
	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration", "interface_declaration", "enum_declaration":
		if name := fieldText(node, "name", source); name != "" {
			qn := joinQualified(scope, name)
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          KindClass,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			caller, scope, inClass = qn, qn, true
		}

	case "function_declaration", "generator_function_declaration":
		if name := fieldText(node, "name", source); name != "" {
			qn := joinQualified(scope, name)
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          KindFunction,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			caller, scope, inClass = qn, qn, false
		}

	case "method_definition":
		if name := fieldText(node, "name", source); name != "" && inClass {
			qn := joinQualified(scope, name)
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          KindMethod,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			caller, inClass = qn, false
		}

	case "variable_declarator":
		// const f = () => {...} and const f = function() {...} are
		// function declarations in all but syntax.
		if name, fn := e.functionValue(node, source); name != "" {
			qn := joinQualified(scope, name)
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          KindFunction,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			// Recurse into the function body only, with the new caller.
			e.walk(fn, source, filePath, mod, qn, qn, false, decls, calls)
			return
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

	case "new_expression":
		if callee := e.constructorCallee(node, source); callee != "" {
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
			e.walk(child, source, filePath, mod, caller, scope, inClass, decls, calls)
		}
	}
}

// functionValue returns the variable name and the function node if the
// declarator's value is an arrow or anonymous function, otherwise "".
func (e *tsExtractor) functionValue(node *tree_sitter.Node, source []byte) (string, *tree_sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	value := node.ChildByFieldName("value")
	if nameNode == nil || value == nil || nameNode.Kind() != "identifier" {
		return "", nil
	}
	switch value.Kind() {
	case "arrow_function", "function_expression", "generator_function":
		return nameNode.Utf8Text(source), value
	}
	return "", nil
}

func (e *tsExtractor) callee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier", "member_expression":
		return fnNode.Utf8Text(source)
	default:
		return ""
	}
}

// constructorCallee returns the constructed type for new Foo(...).
func (e *tsExtractor) constructorCallee(node *tree_sitter.Node, source []byte) string {
	ctor := node.ChildByFieldName("constructor")
	if ctor == nil {
		return ""
	}
	switch ctor.Kind() {
	case "identifier", "member_expression":
		return ctor.Utf8Text(source)
	default:
		return ""
	}
}
