package selector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdocllm/pkg/ast"
)

func longSource() string {
	return "fetchUser(id: string): string { " + strings.Repeat("x", 120) + " }"
}

func TestForDocumentationQualifies(t *testing.T) {
	s := New(50)
	d := &ast.Declaration{Kind: ast.KindMethod, Name: "bar", Source: longSource()}
	assert.True(t, s.ForDocumentation(d))
}

func TestForDocumentationRejectsDocumented(t *testing.T) {
	s := New(50)
	d := &ast.Declaration{
		Kind:     ast.KindMethod,
		Name:     "baz",
		Source:   longSource(),
		Comments: []ast.Comment{{Raw: "/**\n * Already documented.\n */"}},
	}
	assert.False(t, s.ForDocumentation(d))
}

func TestForDocumentationAcceptsBlankComment(t *testing.T) {
	s := New(50)
	d := &ast.Declaration{
		Kind:     ast.KindMethod,
		Name:     "bar",
		Source:   longSource(),
		Comments: []ast.Comment{{Raw: "/**\n *\n */"}},
	}
	assert.True(t, s.ForDocumentation(d))
}

func TestForDocumentationRejectsShortSource(t *testing.T) {
	s := New(50)
	d := &ast.Declaration{Kind: ast.KindMethod, Name: "tiny", Source: "tiny() {}"}
	assert.False(t, s.ForDocumentation(d))

	// Length threshold wins regardless of documentation presence.
	d.Comments = []ast.Comment{{Raw: "/** documented */"}}
	assert.False(t, s.ForDocumentation(d))
}

func TestForDocumentationAcceptsUnnamedConstructor(t *testing.T) {
	s := New(50)
	d := &ast.Declaration{Kind: ast.KindConstructor, ClassName: "Foo", Source: longSource()}
	assert.True(t, s.ForDocumentation(d))
}

func TestForTestsQualifies(t *testing.T) {
	dir := t.TempDir()
	s := New(50)
	d := &ast.Declaration{
		Kind:      ast.KindMethod,
		Name:      "compute",
		ClassName: "Svc",
		File:      filepath.Join(dir, "svc.ts"),
		Source:    longSource(),
	}
	assert.True(t, s.ForTests(d))
}

func TestForTestsRejectsExistingSpecFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.compute.spec.ts"), []byte("existing"), 0o644))

	s := New(50)
	d := &ast.Declaration{
		Kind:      ast.KindMethod,
		Name:      "compute",
		ClassName: "Svc",
		File:      filepath.Join(dir, "svc.ts"),
		Source:    longSource(),
	}
	assert.False(t, s.ForTests(d))
}

func TestForTestsRejectsNonMethods(t *testing.T) {
	dir := t.TempDir()
	s := New(50)

	class := &ast.Declaration{Kind: ast.KindClass, Name: "Svc", File: filepath.Join(dir, "svc.ts"), Source: longSource()}
	assert.False(t, s.ForTests(class))

	unnamed := &ast.Declaration{Kind: ast.KindMethod, ClassName: "Svc", File: filepath.Join(dir, "svc.ts"), Source: longSource()}
	assert.False(t, s.ForTests(unnamed))

	freeFunc := &ast.Declaration{Kind: ast.KindFunction, Name: "run", File: filepath.Join(dir, "svc.ts"), Source: longSource()}
	assert.False(t, s.ForTests(freeFunc))
}

func TestSpecFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("src", "svc.compute.spec.ts"), SpecFilePath(filepath.Join("src", "svc.ts"), "compute"))
	assert.Equal(t, "banner.render.spec.tsx", SpecFilePath("banner.tsx", "render"))
}
