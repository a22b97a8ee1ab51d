// Package selector decides which declarations qualify for processing:
// documentation mode wants undocumented declarations above a minimum source
// length, test mode wants class methods whose spec file does not exist yet.
package selector

import (
	"os"
	"path/filepath"
	"strings"

	"tsdocllm/pkg/ast"
)

// Selector applies the mode-specific qualification predicates.
type Selector struct {
	MinLength int // Declarations at or below this source length are skipped
}

// New creates a selector with the given minimum source-text length.
func New(minLength int) *Selector {
	return &Selector{MinLength: minLength}
}

// ForDocumentation reports whether the declaration qualifies for
// documentation generation: no JSDoc comment (or only blank ones) and
// source text longer than the configured minimum. Declarations without a
// name, such as constructors, still qualify.
func (s *Selector) ForDocumentation(d *ast.Declaration) bool {
	if d.HasDocumentation() {
		return false
	}
	return len(d.Source) > s.MinLength
}

// ForTests reports whether the declaration qualifies for test generation:
// a named class method with source text longer than the minimum and no
// spec file already present at the computed path. No side effects on false.
func (s *Selector) ForTests(d *ast.Declaration) bool {
	if d.Kind != ast.KindMethod || d.ClassName == "" || d.Name == "" {
		return false
	}
	if len(d.Source) <= s.MinLength {
		return false
	}
	if _, err := os.Stat(SpecFilePath(d.File, d.Name)); err == nil {
		return false
	}
	return true
}

// SpecFilePath returns the deterministic test file path for a method:
// "<sourceBaseName>.<methodName>.spec.<ext>", sibling to the source file.
func SpecFilePath(sourcePath, methodName string) string {
	dir := filepath.Dir(sourcePath)
	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), ext)
	return filepath.Join(dir, base+"."+methodName+".spec"+ext)
}
