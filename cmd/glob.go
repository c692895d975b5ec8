// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// formulaExt is the extension of formula files found by "/..." patterns.
const formulaExt = ".fx"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .fx files found recursively under the given directory. Non-pattern
// arguments pass through unchanged.  Paths matching any exclude pattern are
// dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findFormulaFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findFormulaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == formulaExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes drops the paths matching any of excludes.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path, its base name or any of its directory
// components matches one of patterns.
func matchesAny(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	parts := strings.Split(slashed, "/")
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, slashed); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pat, part); ok {
				return true
			}
		}
	}
	return false
}
