package document

import (
	"context"
	"fmt"

	"tsdocllm/pkg/ast"
	"tsdocllm/pkg/config"
	"tsdocllm/pkg/llm"
	"tsdocllm/pkg/prompt"
	"tsdocllm/pkg/selector"
)

// Service processes a document's declarations: qualifying ones are sent to
// the completion provider and the returned comment is spliced in.
type Service struct {
	provider llm.Provider
	selector *selector.Selector
	template config.Template
}

// NewService creates a documentation service.
func NewService(provider llm.Provider, sel *selector.Selector, template config.Template) *Service {
	return &Service{provider: provider, selector: sel, template: template}
}

// Options contains per-run processing options.
type Options struct {
	DryRun          bool // Report qualifying declarations without requests or edits
	MaxDeclarations int  // Cap on processed declarations per file (0 = unlimited)
}

// Result contains the outcome of processing one document.
type Result struct {
	Processed int      // Qualifying declarations
	Updated   int      // Declarations whose comment was spliced
	Names     []string // Qualified names of updated (or would-be, in dry runs) declarations
	Skipped   []string // Warnings for declarations that did not qualify
	Errors    []error  // Non-fatal per-declaration failures
}

// Process walks the document's declarations in traversal order, one awaited
// completion request per qualifying declaration. Failures are recorded and
// processing continues; the caller saves the document afterwards.
func (s *Service) Process(ctx context.Context, doc *Document, opts Options) *Result {
	result := &Result{}

	for _, decl := range doc.File().Declarations {
		if !s.selector.ForDocumentation(decl) {
			result.Skipped = append(result.Skipped,
				fmt.Sprintf("%s in %s", decl.Label(), decl.File))
			continue
		}

		if opts.MaxDeclarations > 0 && result.Processed >= opts.MaxDeclarations {
			break
		}
		result.Processed++

		if opts.DryRun {
			result.Names = append(result.Names, decl.QualifiedName())
			continue
		}

		p := prompt.Build(s.template, decl.Source, prompt.Vars{
			ClassName:  className(decl),
			MethodName: decl.Name,
		})

		content, err := s.provider.Complete(ctx, llm.Prompt{System: p.System, User: p.User})
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Errorf("failed to document %s: %w", decl.QualifiedName(), err))
			continue
		}

		description, ok := ExtractDescription(content)
		if !ok {
			// No comment markers in the output; nothing to splice.
			continue
		}

		doc.SetDocComment(decl, description)
		result.Updated++
		result.Names = append(result.Names, decl.QualifiedName())
	}

	return result
}

// className resolves the {className} substitution: the owning class for
// members, the declaration's own name for classes and enums.
func className(d *ast.Declaration) string {
	if d.ClassName != "" {
		return d.ClassName
	}
	return d.Name
}
