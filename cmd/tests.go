package cmd

import (
	"context"
	"fmt"
	"time"

	"tsdocllm/pkg/config"
	"tsdocllm/pkg/parser"
	"tsdocllm/pkg/selector"
	"tsdocllm/pkg/testgen"

	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests <directory> [languageCode]",
	Short: "Generate unit-test spec files for class methods",
	Long: `Walk a directory of TypeScript source files and generate a
"<base>.<method>.spec.<ext>" file beside each source file for every class
method above the configured minimum length. Methods whose spec file already
exists are skipped; existing files are never overwritten.

Examples:
  # Generate spec files for all sources under src/
  tsdocllm tests src/

  # See which spec files would be created
  tsdocllm tests --dry-run src/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTests,
}

var (
	testsDryRun      bool
	testsTimeout     int
	testsExcludeDirs []string
)

func init() {
	testsCmd.Flags().BoolVar(&testsDryRun, "dry-run", false, "Show which spec files would be created without making changes")
	testsCmd.Flags().IntVar(&testsTimeout, "timeout", 120, "Request timeout in seconds")
	testsCmd.Flags().StringSliceVar(&testsExcludeDirs, "exclude",
		[]string{"node_modules", "dist", "build", "coverage", ".git"}, "Directories to exclude")
}

func runTests(cmd *cobra.Command, args []string) error {
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

	fmt.Println("🚀 Starting unit-test generation")

	provider, err := newProvider(cfg, testsDryRun, testsTimeout)
	if err != nil {
		return err
	}

	if !testsDryRun {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.TestConnection(ctx); err != nil {
			return fmt.Errorf("failed to connect to completion endpoint: %w", err)
		}
	}

	files, err := findSourceFiles(target, testsExcludeDirs)
	if err != nil {
		return fmt.Errorf("failed to find files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("⚠️  No TypeScript source files found")
		return nil
	}
	fmt.Printf("📂 Found %d TypeScript source files\n", len(files))

	if testsDryRun {
		fmt.Println("🔍 Dry run mode - no files will be created")
	}

	p := parser.New()
	svc := testgen.NewService(provider, selector.New(cfg.MinLength), templates.Tests)
	opts := testgen.Options{DryRun: testsDryRun}

	totalGenerated := 0
	totalProcessed := 0
	for _, path := range files {
		fmt.Printf("\n📁 Processing: %s\n", path)

		file, err := p.ParseFile(path)
		if err != nil {
			fmt.Printf("  ❌ Failed to parse file: %v\n", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Second)
		result := svc.Process(ctx, file, opts)
		cancel()

		for _, err := range result.Errors {
			fmt.Printf("  ⚠️  %v\n", err)
		}

		if result.Processed == 0 {
			fmt.Printf("  ✅ No methods need tests\n")
			continue
		}

		if testsDryRun {
			for i, spec := range result.Files {
				fmt.Printf("  📝 (%d/%d) Would create: %s\n", i+1, len(result.Files), spec)
			}
		} else {
			for _, spec := range result.Files {
				fmt.Printf("  🧪 Created: %s\n", spec)
			}
		}

		totalGenerated += result.Generated
		totalProcessed += result.Processed
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  Files processed: %d\n", len(files))
	fmt.Printf("  Methods considered: %d\n", totalProcessed)
	fmt.Printf("  Spec files created: %d\n", totalGenerated)
	if testsDryRun {
		fmt.Println("  ℹ️  This was a dry run - no changes were made")
	}

	return nil
}
