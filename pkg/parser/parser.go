// Package parser provides tree-sitter-based parsing of TypeScript and TSX
// source files into a flat list of documentable declarations (classes,
// methods, properties, constructors, functions, enums and enum members)
// together with their preceding JSDoc comments.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"tsdocllm/pkg/ast"
)

// registry maps file extensions to tree-sitter languages for auto-detection.
var registry = map[string]*sitter.Language{
	".ts":  typescript.GetLanguage(),
	".tsx": tsx.GetLanguage(),
}

// Parser wraps tree-sitter to parse TypeScript sources with automatic
// language detection from the file extension.
type Parser struct {
	inner *sitter.Parser
}

// New creates a new Parser instance.
func New() *Parser {
	return &Parser{inner: sitter.NewParser()}
}

// SupportedExtensions returns the extensions this parser accepts.
func SupportedExtensions() []string {
	return []string{".ts", ".tsx"}
}

// ParseFile reads and parses the file at the given path.
func (p *Parser) ParseFile(path string) (*ast.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(path, content)
}

// Parse parses source content, detecting the grammar from the filename
// extension. Returns an error for unsupported extensions.
func (p *Parser) Parse(path string, content []byte) (*ast.SourceFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q: language not in registry", ext)
	}

	p.inner.SetLanguage(lang)
	tree, err := p.inner.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	file := &ast.SourceFile{
		Path:    path,
		Content: content,
	}
	file.Declarations = extractDeclarations(tree.RootNode(), path, content)
	return file, nil
}

// extractDeclarations walks the top level of the syntax tree collecting
// declarations in traversal order: each class followed by its members,
// then top-level functions, then enums and their members.
func extractDeclarations(root *sitter.Node, path string, content []byte) []*ast.Declaration {
	var classes, functions, enums []*ast.Declaration

	for i := 0; i < int(root.NamedChildCount()); i++ {
		outer := root.NamedChild(i)
		node := outer
		if outer.Type() == "export_statement" {
			inner := outer.ChildByFieldName("declaration")
			if inner == nil {
				continue
			}
			node = inner
		}

		switch node.Type() {
		case "class_declaration", "abstract_class_declaration":
			classes = append(classes, classDeclarations(outer, node, path, content)...)
		case "function_declaration", "generator_function_declaration":
			functions = append(functions, newDeclaration(
				ast.KindFunction, nameOf(node, content), "", outer, path, content))
		case "enum_declaration":
			enums = append(enums, enumDeclarations(outer, node, path, content)...)
		}
	}

	decls := make([]*ast.Declaration, 0, len(classes)+len(functions)+len(enums))
	decls = append(decls, classes...)
	decls = append(decls, functions...)
	decls = append(decls, enums...)
	return decls
}

// classDeclarations returns the class declaration followed by its methods,
// then properties, then constructors, each group in source order.
func classDeclarations(outer, class *sitter.Node, path string, content []byte) []*ast.Declaration {
	className := nameOf(class, content)
	decls := []*ast.Declaration{
		newDeclaration(ast.KindClass, className, "", outer, path, content),
	}

	body := class.ChildByFieldName("body")
	if body == nil {
		return decls
	}

	var methods, properties, constructors []*ast.Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_definition":
			name := nameOf(member, content)
			if name == "constructor" {
				// Constructors carry no name; they are identified by kind only.
				constructors = append(constructors, newDeclaration(
					ast.KindConstructor, "", className, member, path, content))
			} else {
				methods = append(methods, newDeclaration(
					ast.KindMethod, name, className, member, path, content))
			}
		case "public_field_definition":
			properties = append(properties, newDeclaration(
				ast.KindProperty, nameOf(member, content), className, member, path, content))
		}
	}

	decls = append(decls, methods...)
	decls = append(decls, properties...)
	decls = append(decls, constructors...)
	return decls
}

// enumDeclarations returns the enum declaration followed by its members.
func enumDeclarations(outer, enum *sitter.Node, path string, content []byte) []*ast.Declaration {
	decls := []*ast.Declaration{
		newDeclaration(ast.KindEnum, nameOf(enum, content), "", outer, path, content),
	}

	body := enum.ChildByFieldName("body")
	if body == nil {
		return decls
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "enum_assignment":
			decls = append(decls, newDeclaration(
				ast.KindEnumMember, nameOf(member, content), "", member, path, content))
		case "property_identifier":
			decls = append(decls, newDeclaration(
				ast.KindEnumMember, textOf(member, content), "", member, path, content))
		}
	}
	return decls
}

// newDeclaration builds a Declaration from the given node, attaching any
// JSDoc comments that immediately precede it.
func newDeclaration(kind ast.Kind, name, className string, node *sitter.Node, path string, content []byte) *ast.Declaration {
	return &ast.Declaration{
		Kind:      kind,
		Name:      name,
		ClassName: className,
		File:      path,
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		Source:    textOf(node, content),
		Comments:  precedingComments(node, content),
	}
}

// precedingComments collects the consecutive run of JSDoc block comments
// directly above the node, returned in source order.
func precedingComments(node *sitter.Node, content []byte) []ast.Comment {
	var found []ast.Comment
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		raw := textOf(prev, content)
		if !strings.HasPrefix(raw, "/**") {
			break
		}
		found = append(found, ast.Comment{
			StartByte: prev.StartByte(),
			EndByte:   prev.EndByte(),
			Raw:       raw,
		})
	}

	// Collected nearest-first; reverse into source order.
	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	return found
}

func nameOf(node *sitter.Node, content []byte) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return textOf(name, content)
}

func textOf(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}
