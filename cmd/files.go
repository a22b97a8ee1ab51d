package cmd

import (
	"os"
	"path/filepath"
	"strings"
)

// findSourceFiles finds TypeScript source files under the target, which may
// be a single file or a directory walked recursively. Spec files,
// declaration files and excluded directories are skipped.
func findSourceFiles(target string, excludeDirs []string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if isSourceFile(target) {
			return []string{target}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.Walk(target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			for _, excludeDir := range excludeDirs {
				if info.Name() == excludeDir {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if isSourceFile(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// isSourceFile reports whether the path is a processable TypeScript source
// file: .ts or .tsx, not a generated spec and not a declaration file.
func isSourceFile(path string) bool {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".ts" && ext != ".tsx" {
		return false
	}
	if strings.Contains(name, ".spec.") || strings.Contains(name, ".test.") {
		return false
	}
	if strings.HasSuffix(name, ".d.ts") {
		return false
	}
	return true
}
