package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rsExtractor extracts declarations and call sites from Rust source
// files. Path separators ("::") are normalized to dots so references
// line up with the dotted qualified-name scheme used everywhere else.
type rsExtractor struct{}

func (e *rsExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) ([]Declaration, []CallSite) {
	var decls []Declaration
	var calls []CallSite

	mod := modulePath(filePath)
	e.walk(root, source, filePath, mod, "", mod, &decls, &calls)
	return decls, calls
}

func (e *rsExtractor) walk(
	node *tree_sitter.Node,
	source []byte,
	filePath, mod, caller, scope string,
	decls *[]Declaration,
	calls *[]CallSite,
) {
	switch node.Kind() {
	case "struct_item", "enum_item", "trait_item", "union_item":
		if name := fieldText(node, "name", source); name != "" {
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: joinQualified(scope, name),
				ShortName:     name,
				Kind:          KindClass,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
		}

	case "impl_item":
		// Functions inside an impl block become Type.method.
		if typeName := e.implType(node, source); typeName != "" {
			scope = joinQualified(mod, typeName)
			caller = scope
		}

	case "function_item":
		if name := fieldText(node, "name", source); name != "" {
			qn := joinQualified(scope, name)
			kind := KindFunction
			if scope != mod {
				kind = KindMethod
			}
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          kind,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
			})
			caller = qn
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

	case "macro_invocation":
		// Macros are not calls; skip their token trees entirely.
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.walk(child, source, filePath, mod, caller, scope, decls, calls)
		}
	}
}

// implType extracts the bare type name from an impl block, skipping
// generics and using the trait target for `impl Trait for Type`.
func (e *rsExtractor) implType(node *tree_sitter.Node, source []byte) string {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	if typeNode.Kind() == "type_identifier" {
		return typeNode.Utf8Text(source)
	}
	if id := findFirstKind(typeNode, "type_identifier"); id != nil {
		return id.Utf8Text(source)
	}
	return ""
}

func (e *rsExtractor) callee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier":
		return fnNode.Utf8Text(source)
	case "scoped_identifier":
		// Vec::new and module::helper become Vec.new, module.helper.
		return strings.ReplaceAll(fnNode.Utf8Text(source), "::", ".")
	case "field_expression":
		return e.fieldCallee(fnNode, source)
	default:
		return ""
	}
}

// fieldCallee builds "receiver.method" for method-call syntax, keeping
// only simple identifier receivers.
func (e *rsExtractor) fieldCallee(fnNode *tree_sitter.Node, source []byte) string {
	field := fieldText(fnNode, "field", source)
	if field == "" {
		return ""
	}
	value := fnNode.ChildByFieldName("value")
	if value == nil {
		return field
	}
	switch value.Kind() {
	case "identifier":
		return value.Utf8Text(source) + "." + field
	case "self":
		return field
	default:
		return field
	}
}
