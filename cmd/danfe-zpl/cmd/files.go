package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rezonia/danfe-zpl/internal/storage"
)

// collectFiles expands globs and directories into XML file paths
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}

			if !info.IsDir() {
				files = append(files, match)
				continue
			}

			entries, err := os.ReadDir(match)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() && storage.IsXMLName(e.Name()) {
					files = append(files, filepath.Join(match, e.Name()))
				}
			}
		}
	}

	return files, nil
}
