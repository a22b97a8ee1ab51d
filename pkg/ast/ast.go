// Package ast defines the structures for documentable TypeScript declarations
package ast

import (
	"strings"
)

// Kind represents the type of documentable declaration
type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindMethod
	KindProperty
	KindConstructor
	KindFunction
	KindEnum
	KindEnumMember
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindConstructor:
		return "constructor"
	case KindFunction:
		return "function"
	case KindEnum:
		return "enum"
	case KindEnumMember:
		return "enum member"
	default:
		return "unknown"
	}
}

// Comment represents a JSDoc block comment attached to a declaration
type Comment struct {
	StartByte uint32 // Offset of the leading "/**" in the file
	EndByte   uint32 // Offset just past the trailing "*/"
	Raw       string // Full comment text including markers
}

// Text returns the comment content with markers and leading asterisks stripped
func (c Comment) Text() string {
	inner := strings.TrimPrefix(c.Raw, "/**")
	inner = strings.TrimSuffix(inner, "*/")

	var lines []string
	for _, line := range strings.Split(inner, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Declaration represents a documentable node extracted from a source file
type Declaration struct {
	Kind      Kind
	Name      string // May be empty (constructors, unnamed members)
	ClassName string // Owning class name for methods, properties, constructors
	File      string // Owning file path
	StartByte uint32 // Offset of the declaration (export keyword included if present)
	EndByte   uint32
	Source    string    // Raw source text of the declaration
	Comments  []Comment // Preceding JSDoc comments in source order; the first is authoritative
}

// HasDocumentation reports whether the declaration carries a non-blank JSDoc comment
func (d *Declaration) HasDocumentation() bool {
	var combined strings.Builder
	for _, c := range d.Comments {
		combined.WriteString(c.Text())
	}
	return strings.TrimSpace(combined.String()) != ""
}

// Label returns the declaration's name, or its kind when it has no name
func (d *Declaration) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Kind.String()
}

// QualifiedName returns "Class.member" for class members, the plain name otherwise
func (d *Declaration) QualifiedName() string {
	if d.ClassName != "" && d.ClassName != d.Name {
		return d.ClassName + "." + d.Label()
	}
	return d.Label()
}

// SourceFile represents a parsed source file and its declarations
// in traversal order: each class followed by its members, then
// top-level functions, then enums and their members.
type SourceFile struct {
	Path         string
	Content      []byte
	Declarations []*Declaration
}

// ByKind returns all declarations of the given kind
func (f *SourceFile) ByKind(kind Kind) []*Declaration {
	var out []*Declaration
	for _, d := range f.Declarations {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Class returns the class declaration with the given name, or nil
func (f *SourceFile) Class(name string) *Declaration {
	for _, d := range f.Declarations {
		if d.Kind == KindClass && d.Name == name {
			return d
		}
	}
	return nil
}

// Stats summarizes documentation coverage for a file
type Stats struct {
	Total        int
	Documented   int
	Undocumented int
	Coverage     float64
}

// DocumentationStats returns coverage statistics for the file's declarations
func (f *SourceFile) DocumentationStats() Stats {
	stats := Stats{Total: len(f.Declarations)}
	for _, d := range f.Declarations {
		if d.HasDocumentation() {
			stats.Documented++
		}
	}
	stats.Undocumented = stats.Total - stats.Documented
	if stats.Total > 0 {
		stats.Coverage = float64(stats.Documented) / float64(stats.Total) * 100.0
	}
	return stats
}
