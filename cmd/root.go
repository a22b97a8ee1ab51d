package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tsdocllm",
	Short: "JSDoc and unit-test generation for TypeScript using LLM completions",
	Long: `tsdocllm walks a TypeScript source tree, finds declarations (classes,
methods, properties, constructors, functions, enums) lacking JSDoc
documentation, asks a chat-completion endpoint for a documentation comment
and splices the result back into the source file. A companion mode
synthesizes unit-test spec files for class methods.`,
	Version: getVersionString(),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tsdocllm %s\n", getVersionString())
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Date:    %s\n", date)
	},
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(testsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}
