package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"tsdocllm/pkg/ast"
	"tsdocllm/pkg/parser"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file_or_directory>",
	Short: "Report declarations and documentation coverage",
	Long: `Parse TypeScript source files and report their documentable
declarations and JSDoc coverage without contacting the completion endpoint.
The output can be in JSON format for further processing or human-readable
format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		showAll, _ := cmd.Flags().GetBool("all")

		files, err := findSourceFiles(args[0], []string{"node_modules", "dist", "build", "coverage", ".git"})
		if err != nil {
			return fmt.Errorf("failed to find files: %w", err)
		}

		p := parser.New()
		var parsed []*ast.SourceFile
		for _, path := range files {
			file, err := p.ParseFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				continue
			}
			parsed = append(parsed, file)
		}

		if format == "json" {
			return scanJSON(parsed, showAll)
		}
		return scanHuman(parsed, showAll)
	},
}

func init() {
	scanCmd.Flags().StringP("format", "f", "human", "Output format (human, json)")
	scanCmd.Flags().BoolP("all", "a", false, "Show all declarations, not only undocumented ones")
}

type scanEntry struct {
	File       string `json:"file"`
	Kind       string `json:"kind"`
	Name       string `json:"name,omitempty"`
	Class      string `json:"class,omitempty"`
	Documented bool   `json:"documented"`
}

func scanJSON(files []*ast.SourceFile, showAll bool) error {
	var entries []scanEntry
	for _, file := range files {
		for _, d := range file.Declarations {
			documented := d.HasDocumentation()
			if !showAll && documented {
				continue
			}
			entries = append(entries, scanEntry{
				File:       file.Path,
				Kind:       d.Kind.String(),
				Name:       d.Name,
				Class:      d.ClassName,
				Documented: documented,
			})
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func scanHuman(files []*ast.SourceFile, showAll bool) error {
	total := ast.Stats{}
	for _, file := range files {
		stats := file.DocumentationStats()
		total.Total += stats.Total
		total.Documented += stats.Documented
		total.Undocumented += stats.Undocumented

		fmt.Printf("%s: %d declarations, %.1f%% documented\n", file.Path, stats.Total, stats.Coverage)
		for _, d := range file.Declarations {
			documented := d.HasDocumentation()
			if !showAll && documented {
				continue
			}
			marker := "✗"
			if documented {
				marker = "✓"
			}
			fmt.Printf("  %s %s %s\n", marker, d.Kind, d.QualifiedName())
		}
	}

	if total.Total > 0 {
		coverage := float64(total.Documented) / float64(total.Total) * 100.0
		fmt.Printf("\nTotal: %d declarations, %d documented (%.1f%%)\n", total.Total, total.Documented, coverage)
	}
	return nil
}
