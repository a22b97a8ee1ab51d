// Package document provides a high-level abstraction for manipulating
// TypeScript source files with JSDoc documentation. A Document accumulates
// comment edits against the parsed declarations and writes the file back in
// one pass after all declarations are processed.
package document

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"tsdocllm/pkg/ast"
	"tsdocllm/pkg/parser"
)

// Document represents a source file with its parsed declarations and the
// pending documentation edits.
type Document struct {
	path    string
	content []byte
	file    *ast.SourceFile
	edits   []edit
}

// edit replaces the byte range [start, end) with text. Insertions use
// start == end.
type edit struct {
	start, end uint32
	text       string
}

// Load reads and parses the file at the given path.
func Load(path string, p *parser.Parser) (*Document, error) {
	file, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &Document{path: path, content: file.Content, file: file}, nil
}

// NewFromContent parses source content under the given name; used by tests
// and dry runs.
func NewFromContent(path string, content []byte, p *parser.Parser) (*Document, error) {
	file, err := p.Parse(path, content)
	if err != nil {
		return nil, err
	}
	return &Document{path: path, content: content, file: file}, nil
}

// File returns the parsed source file.
func (d *Document) File() *ast.SourceFile {
	return d.file
}

// Path returns the document's file path.
func (d *Document) Path() string {
	return d.path
}

// Modified reports whether any edits are pending.
func (d *Document) Modified() bool {
	return len(d.edits) > 0
}

// SetDocComment records an edit attaching the description as the
// declaration's JSDoc comment: the first existing comment is replaced
// wholesale, otherwise a new block is inserted immediately above the
// declaration. Duplicate trailing comments are left untouched.
func (d *Document) SetDocComment(decl *ast.Declaration, description string) {
	indent := lineIndent(d.content, decl.StartByte)
	block := renderJSDoc(description, indent)

	if len(decl.Comments) > 0 {
		first := decl.Comments[0]
		d.edits = append(d.edits, edit{start: first.StartByte, end: first.EndByte, text: block})
		return
	}

	d.edits = append(d.edits, edit{
		start: decl.StartByte,
		end:   decl.StartByte,
		text:  block + "\n" + indent,
	})
}

// Content returns the document text with all pending edits applied.
func (d *Document) Content() string {
	if len(d.edits) == 0 {
		return string(d.content)
	}

	// Apply highest offset first so earlier spans stay valid.
	edits := make([]edit, len(d.edits))
	copy(edits, d.edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })

	out := string(d.content)
	for _, e := range edits {
		out = out[:e.start] + e.text + out[e.end:]
	}
	return out
}

// Save writes the document back over its original file.
func (d *Document) Save() error {
	if err := os.WriteFile(d.path, []byte(d.Content()), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", d.path, err)
	}
	return nil
}

// Backup writes the unmodified content to "<path>.bak".
func (d *Document) Backup() error {
	backupPath := d.path + ".bak"
	if err := os.WriteFile(backupPath, d.content, 0644); err != nil {
		return fmt.Errorf("failed to create backup %s: %w", backupPath, err)
	}
	return nil
}

// ExtractDescription extracts the documentation text from generated model
// output: the content between the first "/**" and the following "*/", one
// line per source line with surrounding whitespace and the leading
// asterisk stripped, blank lines dropped, prefixed with a single newline.
// The second return value is false when either marker is absent.
func ExtractDescription(generated string) (string, bool) {
	open := strings.Index(generated, "/**")
	if open == -1 {
		return "", false
	}
	rest := generated[open+3:]
	closing := strings.Index(rest, "*/")
	if closing == -1 {
		return "", false
	}

	var lines []string
	for _, line := range strings.Split(rest[:closing], "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return "\n" + strings.Join(lines, "\n"), true
}

// renderJSDoc formats a description (as produced by ExtractDescription)
// into a JSDoc block indented for insertion. The first line carries no
// indent; the caller splices it where the existing indentation ends.
func renderJSDoc(description, indent string) string {
	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range strings.Split(strings.TrimPrefix(description, "\n"), "\n") {
		if line == "" {
			b.WriteString(indent + " *\n")
		} else {
			b.WriteString(indent + " * " + line + "\n")
		}
	}
	b.WriteString(indent + " */")
	return b.String()
}

// lineIndent returns the whitespace prefix of the line containing offset.
func lineIndent(content []byte, offset uint32) string {
	lineStart := int(offset)
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}

	end := lineStart
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[lineStart:end])
}
