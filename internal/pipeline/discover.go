package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// inputExt is the only extension the pipeline converts.
const inputExt = ".mkv"

// Discover returns the files to process. A file input is returned as-is
// (processFile rejects non-.mkv files with a reason); a directory yields its
// .mkv files, descending into subdirectories only when recursive is set.
// Paths are sorted lexicographically for deterministic processing order.
func Discover(input string, recursive bool) ([]string, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !fi.IsDir() {
		return []string{input}, nil
	}

	var files []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != input && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if isInput(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isInput(path string) bool {
	return strings.EqualFold(filepath.Ext(path), inputExt)
}
