package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyExtractor extracts declarations and call sites from Python source
// files. It is route-aware: Flask @app.route(...) and FastAPI-style
// @router.get(...) decorators turn a function into an endpoint-handler.
type pyExtractor struct{}

// pyRouteMethods maps decorator attribute names to HTTP methods.
var pyRouteMethods = map[string]string{
	"get":    "GET",
	"post":   "POST",
	"put":    "PUT",
	"delete": "DELETE",
	"patch":  "PATCH",
}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte, filePath string) ([]Declaration, []CallSite) {
	var decls []Declaration
	var calls []CallSite

	mod := modulePath(filePath)
	e.walk(root, source, filePath, mod, "", mod, false, &decls, &calls)
	return decls, calls
}

func (e *pyExtractor) walk(
	node *tree_sitter.Node,
	source []byte,
	filePath, mod, caller, scope string,
	inClass bool,
	decls *[]Declaration,
	calls *[]CallSite,
) {
	switch node.Kind() {
	case "class_definition":
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

	case "function_definition":
		if name := fieldText(node, "name", source); name != "" {
			qn := joinQualified(scope, name)
			kind := KindFunction
			if inClass {
				kind = KindMethod
			}
			meta := e.routeFromDecorators(node, source)
			if meta != nil {
				kind = KindEndpoint
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
			caller, scope, inClass = qn, qn, false
		}

	case "call":
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
			e.walk(child, source, filePath, mod, caller, scope, inClass, decls, calls)
		}
	}
}

func (e *pyExtractor) callee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier", "attribute":
		return fnNode.Utf8Text(source)
	default:
		return ""
	}
}

// routeFromDecorators inspects the decorators wrapping a function
// definition and returns route metadata if one of them is a routing
// decorator. Returns nil for undecorated or non-routing functions.
func (e *pyExtractor) routeFromDecorators(def *tree_sitter.Node, source []byte) *Metadata {
	parent := def.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}

	for i := uint(0); i < parent.ChildCount(); i++ {
		dec := parent.Child(i)
		if dec == nil || dec.Kind() != "decorator" {
			continue
		}
		if meta := e.parseRouteDecorator(dec, source); meta != nil {
			return meta
		}
	}
	return nil
}

// parseRouteDecorator handles @x.route("/p", methods=["POST"]) and
// @x.get("/p") shaped decorators. The receiver name (app, router, bp)
// is not checked; the attribute name decides.
func (e *pyExtractor) parseRouteDecorator(dec *tree_sitter.Node, source []byte) *Metadata {
	call := findFirstKind(dec, "call")
	if call == nil {
		return nil
	}
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "attribute" {
		return nil
	}
	attr := fieldText(fn, "attribute", source)

	httpMethod := ""
	switch {
	case attr == "route":
		httpMethod = "GET"
	case pyRouteMethods[attr] != "":
		httpMethod = pyRouteMethods[attr]
	default:
		return nil
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}

	route := ""
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg == nil {
			continue
		}
		switch arg.Kind() {
		case "string":
			if route == "" {
				route = trimPyString(arg.Utf8Text(source))
			}
		case "keyword_argument":
			// methods=["POST"] overrides the default for @route.
			if fieldText(arg, "name", source) != "methods" {
				continue
			}
			if val := arg.ChildByFieldName("value"); val != nil {
				if s := findFirstKind(val, "string"); s != nil {
					httpMethod = strings.ToUpper(trimPyString(s.Utf8Text(source)))
				}
			}
		}
	}

	if route == "" {
		return nil
	}
	return &Metadata{Route: route, HTTPMethod: httpMethod}
}

// trimPyString strips matching single or double quotes from a Python
// string literal's text.
func trimPyString(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}
