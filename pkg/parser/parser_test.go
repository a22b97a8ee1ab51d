package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdocllm/pkg/ast"
)

func TestParseUnknownExtension(t *testing.T) {
	p := New()
	_, err := p.Parse("file.xyz", []byte("some content"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestParseClassWithMembers(t *testing.T) {
	p := New()
	source := []byte(`export class UserService {
  private cache: Map<string, string> = new Map();

  constructor(url: string) {
    this.url = url;
  }

  fetchUser(id: string): string {
    return this.cache.get(id) ?? id;
  }

  clear(): void {
    this.cache.clear();
  }
}
`)
	file, err := p.Parse("service.ts", source)
	require.NoError(t, err)

	require.Len(t, file.Declarations, 5)

	class := file.Declarations[0]
	assert.Equal(t, ast.KindClass, class.Kind)
	assert.Equal(t, "UserService", class.Name)
	assert.Contains(t, class.Source, "export class UserService")

	assert.Equal(t, ast.KindMethod, file.Declarations[1].Kind)
	assert.Equal(t, "fetchUser", file.Declarations[1].Name)
	assert.Equal(t, "UserService", file.Declarations[1].ClassName)

	assert.Equal(t, ast.KindMethod, file.Declarations[2].Kind)
	assert.Equal(t, "clear", file.Declarations[2].Name)

	prop := file.Declarations[3]
	assert.Equal(t, ast.KindProperty, prop.Kind)
	assert.Equal(t, "cache", prop.Name)

	ctor := file.Declarations[4]
	assert.Equal(t, ast.KindConstructor, ctor.Kind)
	assert.Empty(t, ctor.Name)
	assert.Equal(t, "constructor", ctor.Label())
}

func TestParseAttachesJSDoc(t *testing.T) {
	p := New()
	source := []byte(`/**
 * Greets the world.
 */
export function greet(): string {
  return "hello";
}

function silent(): void {}
`)
	file, err := p.Parse("greet.ts", source)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 2)

	greet := file.Declarations[0]
	assert.Equal(t, "greet", greet.Name)
	require.Len(t, greet.Comments, 1)
	assert.Equal(t, "Greets the world.", greet.Comments[0].Text())
	assert.True(t, greet.HasDocumentation())

	silent := file.Declarations[1]
	assert.Empty(t, silent.Comments)
	assert.False(t, silent.HasDocumentation())
}

func TestParseMethodJSDocInsideClass(t *testing.T) {
	p := New()
	source := []byte(`class Calc {
  /**
   * Adds two numbers.
   */
  add(a: number, b: number): number {
    return a + b;
  }

  sub(a: number, b: number): number {
    return a - b;
  }
}
`)
	file, err := p.Parse("calc.ts", source)
	require.NoError(t, err)

	add := file.Declarations[1]
	require.Equal(t, "add", add.Name)
	require.Len(t, add.Comments, 1)
	assert.Equal(t, "Adds two numbers.", add.Comments[0].Text())

	sub := file.Declarations[2]
	require.Equal(t, "sub", sub.Name)
	assert.False(t, sub.HasDocumentation())
}

func TestParseLineCommentIsNotDocumentation(t *testing.T) {
	p := New()
	source := []byte(`// plain line comment
function plain(): void {}
`)
	file, err := p.Parse("plain.ts", source)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 1)
	assert.False(t, file.Declarations[0].HasDocumentation())
}

func TestParseEnumWithMembers(t *testing.T) {
	p := New()
	source := []byte(`export enum Color {
  Red = "red",
  Green,
}
`)
	file, err := p.Parse("color.ts", source)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 3)

	assert.Equal(t, ast.KindEnum, file.Declarations[0].Kind)
	assert.Equal(t, "Color", file.Declarations[0].Name)
	assert.Equal(t, ast.KindEnumMember, file.Declarations[1].Kind)
	assert.Equal(t, "Red", file.Declarations[1].Name)
	assert.Equal(t, "Green", file.Declarations[2].Name)
}

func TestParseTSX(t *testing.T) {
	p := New()
	source := []byte(`export class Banner {
  render() {
    return <div className="banner">hi</div>;
  }
}
`)
	file, err := p.Parse("banner.tsx", source)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 2)
	assert.Equal(t, "Banner", file.Declarations[0].Name)
	assert.Equal(t, "render", file.Declarations[1].Name)
}

func TestDocumentationStats(t *testing.T) {
	p := New()
	source := []byte(`/** Documented. */
function a(): void {}

function b(): void {}
`)
	file, err := p.Parse("stats.ts", source)
	require.NoError(t, err)

	stats := file.DocumentationStats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Documented)
	assert.Equal(t, 1, stats.Undocumented)
	assert.InDelta(t, 50.0, stats.Coverage, 0.01)
}
