package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaExtractor extracts declarations and call sites from Java source
// files. It recognizes Spring controller classes and mapping annotations
// so that handler methods become endpoint-handler components with their
// route and HTTP method attached.
type javaExtractor struct{}

// javaMappingMethods maps Spring mapping annotation names to HTTP
// methods. RequestMapping stays empty unless a method argument is given.
var javaMappingMethods = map[string]string{
	"GetMapping":     "GET",
	"PostMapping":    "POST",
	"PutMapping":     "PUT",
	"DeleteMapping":  "DELETE",
	"PatchMapping":   "PATCH",
	"RequestMapping": "",
}

// javaClassCtx carries controller context from a class declaration down
// to its methods.
type javaClassCtx struct {
	classQN    string
	prefix     string // class-level @RequestMapping path
	controller bool
}

func (e *javaExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) ([]Declaration, []CallSite) {
	var decls []Declaration
	var calls []CallSite

	mod := modulePath(filePath)
	e.walk(root, source, filePath, mod, "", mod, nil, &decls, &calls)
	return decls, calls
}

func (e *javaExtractor) walk(
	node *tree_sitter.Node,
	source []byte,
	filePath, mod, caller, scope string,
	class *javaClassCtx,
	decls *[]Declaration,
	calls *[]CallSite,
) {
	switch node.Kind() {
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
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
			class = &javaClassCtx{
				classQN:    qn,
				prefix:     e.mappingPath(node, source),
				controller: e.isController(node, source, name),
			}
			caller, scope = qn, qn
		}

	case "method_declaration":
		if name := fieldText(node, "name", source); name != "" {
			qn := joinQualified(scope, name)
			kind := KindMethod
			var meta *Metadata
			if class != nil && class.controller {
				if m := e.endpointMeta(node, source, class.prefix); m != nil {
					kind = KindEndpoint
					meta = m
				}
			}
			start, end := lineRange(node)
			*decls = append(*decls, Declaration{
				QualifiedName: qn,
				ShortName:     name,
				Kind:          kind,
				File:          filePath,
				LineStart:     start,
				LineEnd:       end,
				Metadata:      meta,
			})
			caller = qn
		}

	case "method_invocation":
		if callee := e.invocationCallee(node, source); callee != "" {
			*calls = append(*calls, CallSite{
				Caller:      caller,
				CallerScope: scope,
				Callee:      callee,
				File:        filePath,
				Line:        int(node.StartPosition().Row) + 1,
			})
		}

	case "object_creation_expression":
		// new Foo(...) counts as a call to the created type.
		if callee := e.creationType(node, source); callee != "" {
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
			e.walk(child, source, filePath, mod, caller, scope, class, decls, calls)
		}
	}
}

// invocationCallee builds the dotted callee reference for a method
// invocation: "object.method" when a receiver is present, bare "method"
// otherwise.
func (e *javaExtractor) invocationCallee(node *tree_sitter.Node, source []byte) string {
	name := fieldText(node, "name", source)
	if name == "" {
		return ""
	}
	obj := node.ChildByFieldName("object")
	if obj == nil {
		return name
	}
	switch obj.Kind() {
	case "identifier", "field_access", "this":
		objText := obj.Utf8Text(source)
		objText = strings.TrimPrefix(objText, "this.")
		if objText == "this" {
			return name
		}
		return objText + "." + name
	default:
		return name
	}
}

// creationType returns the bare type name of an object creation.
func (e *javaExtractor) creationType(node *tree_sitter.Node, source []byte) string {
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

// isController reports whether a class is a Spring controller. A
// @Controller/@RestController annotation wins; class names containing
// "Controller" count as a fallback for annotation-less codebases.
func (e *javaExtractor) isController(classNode *tree_sitter.Node, source []byte, name string) bool {
	for _, ann := range e.annotations(classNode, source) {
		if ann.name == "Controller" || ann.name == "RestController" {
			return true
		}
	}
	return strings.Contains(name, "Controller") || strings.Contains(name, "controller")
}

// mappingPath returns the class-level @RequestMapping path, or "".
func (e *javaExtractor) mappingPath(classNode *tree_sitter.Node, source []byte) string {
	for _, ann := range e.annotations(classNode, source) {
		if _, ok := javaMappingMethods[ann.name]; ok && ann.path != "" {
			return ann.path
		}
	}
	return ""
}

// endpointMeta returns route metadata for a controller method carrying a
// mapping annotation, with the class-level prefix joined in. Returns nil
// for unannotated methods.
func (e *javaExtractor) endpointMeta(methodNode *tree_sitter.Node, source []byte, prefix string) *Metadata {
	for _, ann := range e.annotations(methodNode, source) {
		httpMethod, ok := javaMappingMethods[ann.name]
		if !ok {
			continue
		}
		if ann.httpMethod != "" {
			httpMethod = ann.httpMethod
		}
		return &Metadata{
			Route:      joinRoute(prefix, ann.path),
			HTTPMethod: httpMethod,
		}
	}
	return nil
}

// javaAnnotation is a parsed annotation: simple name, path argument
// (value/path key or direct string), and an explicit method= argument.
type javaAnnotation struct {
	name       string
	path       string
	httpMethod string
}

// annotations collects the annotations attached to a declaration's
// modifiers, parsing mapping arguments along the way.
func (e *javaExtractor) annotations(node *tree_sitter.Node, source []byte) []javaAnnotation {
	var out []javaAnnotation
	for i := uint(0); i < node.ChildCount(); i++ {
		mods := node.Child(i)
		if mods == nil || mods.Kind() != "modifiers" {
			continue
		}
		for j := uint(0); j < mods.ChildCount(); j++ {
			ann := mods.Child(j)
			if ann == nil {
				continue
			}
			switch ann.Kind() {
			case "marker_annotation", "annotation":
				out = append(out, e.parseAnnotation(ann, source))
			}
		}
	}
	return out
}

func (e *javaExtractor) parseAnnotation(ann *tree_sitter.Node, source []byte) javaAnnotation {
	parsed := javaAnnotation{}

	nameNode := ann.ChildByFieldName("name")
	if nameNode != nil {
		name := nameNode.Utf8Text(source)
		// Fully qualified annotations keep only the simple name.
		if idx := strings.LastIndex(name, "."); idx != -1 {
			name = name[idx+1:]
		}
		parsed.name = name
	}

	args := ann.ChildByFieldName("arguments")
	if args == nil {
		return parsed
	}

	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg == nil {
			continue
		}
		switch arg.Kind() {
		case "string_literal":
			// Direct argument: @GetMapping("/path").
			if parsed.path == "" {
				parsed.path = trimJavaString(arg.Utf8Text(source))
			}
		case "element_value_pair":
			key := fieldText(arg, "key", source)
			val := arg.ChildByFieldName("value")
			if val == nil {
				continue
			}
			switch key {
			case "value", "path":
				if s := findFirstKind(val, "string_literal"); s != nil && parsed.path == "" {
					parsed.path = trimJavaString(s.Utf8Text(source))
				}
			case "method":
				// method = RequestMethod.POST keeps only POST.
				text := val.Utf8Text(source)
				if idx := strings.LastIndex(text, "."); idx != -1 {
					text = text[idx+1:]
				}
				parsed.httpMethod = strings.ToUpper(text)
			}
		}
	}
	return parsed
}

// trimJavaString strips surrounding double quotes from a string literal.
func trimJavaString(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// joinRoute concatenates a class-level path prefix and a method-level
// path without producing double slashes.
func joinRoute(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, "/"):
		return prefix + path[1:]
	case !strings.HasSuffix(prefix, "/") && !strings.HasPrefix(path, "/"):
		return prefix + "/" + path
	default:
		return prefix + path
	}
}
