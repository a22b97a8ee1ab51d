package cmd

import (
	"context"
	"fmt"
	"time"

	"tsdocllm/pkg/config"
	"tsdocllm/pkg/document"
	"tsdocllm/pkg/llm"
	"tsdocllm/pkg/parser"
	"tsdocllm/pkg/selector"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document <directory> [languageCode]",
	Short: "Generate JSDoc comments for undocumented declarations",
	Long: `Walk a directory of TypeScript source files, send every undocumented
declaration above the configured minimum length to the completion endpoint
and splice the returned JSDoc comment into the file.

The configuration is read from ` + config.DefaultPath + ` in the working
directory. The API credential is taken from ` + config.APIKeyEnvVar + `,
optionally via a local .env file.

Examples:
  # Document all sources under src/
  tsdocllm document src/

  # Use the German prompt templates
  tsdocllm document src/ de

  # See what would be documented without making changes
  tsdocllm document --dry-run src/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDocument,
}

var (
	docDryRun      bool
	docBackup      bool
	docMaxDecls    int
	docTimeout     int
	docExcludeDirs []string
)

func init() {
	documentCmd.Flags().BoolVar(&docDryRun, "dry-run", false, "Show what would be documented without making changes")
	documentCmd.Flags().BoolVarP(&docBackup, "backup", "b", false, "Create backup files before updating")
	documentCmd.Flags().IntVar(&docMaxDecls, "max-decls", 0, "Maximum declarations to process per file (0 = unlimited)")
	documentCmd.Flags().IntVar(&docTimeout, "timeout", 120, "Request timeout in seconds")
	documentCmd.Flags().StringSliceVar(&docExcludeDirs, "exclude",
		[]string{"node_modules", "dist", "build", "coverage", ".git"}, "Directories to exclude")
}

func runDocument(cmd *cobra.Command, args []string) error {
	target := args[0]
	language := ""
	if len(args) > 1 {
		language = args[1]
	}

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}
	templates := cfg.TemplatesFor(language)

	fmt.Println("🚀 Starting JSDoc generation")

	provider, err := newProvider(cfg, docDryRun, docTimeout)
	if err != nil {
		return err
	}

	if !docDryRun {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.TestConnection(ctx); err != nil {
			return fmt.Errorf("failed to connect to completion endpoint: %w", err)
		}
	}

	info := provider.ModelInfo()
	fmt.Printf("📚 Using model: %s\n", info.Name)
	fmt.Printf("🔗 Endpoint: %s\n", cfg.Endpoint)

	files, err := findSourceFiles(target, docExcludeDirs)
	if err != nil {
		return fmt.Errorf("failed to find files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("⚠️  No TypeScript source files found")
		return nil
	}
	fmt.Printf("📂 Found %d TypeScript source files\n", len(files))

	if docDryRun {
		fmt.Println("🔍 Dry run mode - no files will be modified")
	}

	p := parser.New()
	svc := document.NewService(provider, selector.New(cfg.MinLength), templates.Document)
	opts := document.Options{DryRun: docDryRun, MaxDeclarations: docMaxDecls}

	totalUpdates := 0
	updatedFiles := 0
	for _, file := range files {
		result, saved := processDocumentFile(file, p, svc, opts)
		totalUpdates += result.Updated
		if saved {
			updatedFiles++
		}
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  Files processed: %d\n", len(files))
	fmt.Printf("  Files updated: %d\n", updatedFiles)
	fmt.Printf("  Declarations documented: %d\n", totalUpdates)
	if docDryRun {
		fmt.Println("  ℹ️  This was a dry run - no changes were made")
	}

	return nil
}

// processDocumentFile processes a single source file and reports whether it
// was saved with updates. Failures are logged and never abort the run.
func processDocumentFile(path string, p *parser.Parser, svc *document.Service, opts document.Options) (*document.Result, bool) {
	fmt.Printf("\n📁 Processing: %s\n", path)

	doc, err := document.Load(path, p)
	if err != nil {
		fmt.Printf("  ❌ Failed to load file: %v\n", err)
		return &document.Result{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Second)
	defer cancel()

	result := svc.Process(ctx, doc, opts)

	for _, skipped := range result.Skipped {
		fmt.Printf("  ⏭️  Skipping %s\n", skipped)
	}
	for _, err := range result.Errors {
		fmt.Printf("  ⚠️  %v\n", err)
	}

	if result.Processed == 0 {
		fmt.Printf("  ✅ No declarations need documentation\n")
		return result, false
	}

	if opts.DryRun {
		for i, name := range result.Names {
			fmt.Printf("  📝 (%d/%d) Would document: %s\n", i+1, len(result.Names), name)
		}
		return result, false
	}

	fmt.Printf("  📊 Updated %d/%d declarations\n", result.Updated, result.Processed)

	if !doc.Modified() {
		return result, false
	}

	if docBackup {
		if err := doc.Backup(); err != nil {
			fmt.Printf("  ⚠️  %v\n", err)
		}
	}
	if err := doc.Save(); err != nil {
		fmt.Printf("  ❌ Failed to save file: %v\n", err)
		return result, false
	}
	return result, true
}

// newProvider wires the configured completion provider. Dry runs skip
// credential resolution so they work without a configured key.
func newProvider(cfg *config.Config, dryRun bool, timeoutSeconds int) (llm.Provider, error) {
	apiKey := ""
	if !dryRun {
		key, err := config.ResolveAPIKey()
		if err != nil {
			return nil, err
		}
		apiKey = key
	}

	return llm.NewProvider(&llm.Config{
		Provider:    "openai",
		URL:         cfg.Endpoint,
		APIKey:      apiKey,
		Model:       cfg.Model.Name,
		MaxTokens:   cfg.Model.MaxTokens,
		N:           cfg.Model.N,
		Stop:        cfg.Model.Stop,
		Temperature: cfg.Model.Temperature,
		TopP:        cfg.Model.TopP,
		Retries:     cfg.Model.Retries,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	})
}
