// Package testgen synthesizes unit-test spec files for class methods. For
// every qualifying method the comment-stripped class source is sent to the
// completion provider and the returned content is written verbatim to a
// new "<base>.<method>.spec.<ext>" file beside the source file. Existing
// spec files are never overwritten.
package testgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tsdocllm/pkg/ast"
	"tsdocllm/pkg/config"
	"tsdocllm/pkg/llm"
	"tsdocllm/pkg/prompt"
	"tsdocllm/pkg/selector"
)

// Service generates spec files for the methods of a parsed source file.
type Service struct {
	provider llm.Provider
	selector *selector.Selector
	template config.Template
}

// NewService creates a test-generation service.
func NewService(provider llm.Provider, sel *selector.Selector, template config.Template) *Service {
	return &Service{provider: provider, selector: sel, template: template}
}

// Options contains per-run processing options.
type Options struct {
	DryRun bool // Report qualifying methods without requests or writes
}

// Result contains the outcome of processing one source file.
type Result struct {
	Processed int      // Qualifying methods
	Generated int      // Spec files written
	Files     []string // Paths of generated (or would-be, in dry runs) spec files
	Errors    []error  // Non-fatal per-method failures
}

// Process walks the file's method declarations in traversal order, one
// awaited completion request per qualifying method. Failures are recorded
// and processing continues.
func (s *Service) Process(ctx context.Context, file *ast.SourceFile, opts Options) *Result {
	result := &Result{}

	for _, decl := range file.Declarations {
		if !s.selector.ForTests(decl) {
			continue
		}
		result.Processed++

		specPath := selector.SpecFilePath(decl.File, decl.Name)
		if opts.DryRun {
			result.Files = append(result.Files, specPath)
			continue
		}

		body := classBody(file, decl)
		p := prompt.Build(s.template, body, prompt.Vars{
			ClassName:    decl.ClassName,
			MethodName:   decl.Name,
			TestFileName: filepath.Base(specPath),
		})

		content, err := s.provider.Complete(ctx, llm.Prompt{System: p.System, User: p.User})
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Errorf("failed to generate tests for %s: %w", decl.QualifiedName(), err))
			continue
		}

		if err := WriteSpecFile(specPath, content); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		result.Generated++
		result.Files = append(result.Files, specPath)
	}

	return result
}

// classBody returns the comment-stripped source of the method's owning
// class, falling back to the method source when the class is not found.
func classBody(file *ast.SourceFile, decl *ast.Declaration) string {
	if class := file.Class(decl.ClassName); class != nil {
		return prompt.StripComments(class.Source)
	}
	return prompt.StripComments(decl.Source)
}

// WriteSpecFile writes content verbatim to path, creating missing ancestor
// directories first. The selector already refused existing paths; the file
// is created fresh.
func WriteSpecFile(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write spec file %s: %w", path, err)
	}
	return nil
}
