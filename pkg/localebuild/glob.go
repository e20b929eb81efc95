package localebuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Expand resolves glob patterns into a sorted, de-duplicated list of absolute
// fragment paths. Patterns containing "**" match across directory levels.
// Files without a fragment extension (.json, .yaml, .yml) are ignored.
func Expand(patterns ...string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		var (
			matches []string
			err     error
		)
		if strings.Contains(pattern, "**") {
			matches, err = walkGlob(pattern)
		} else {
			matches, err = filepath.Glob(pattern)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidPattern, pattern, err)
		}

		for _, m := range matches {
			if !isFragment(m) || !isRegular(m) {
				continue
			}
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %s", ErrInvalidPattern, m, err)
			}
			files = append(files, abs)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func walkGlob(pattern string) ([]string, error) {
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}

	root := staticRoot(pattern)
	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if g.Match(filepath.ToSlash(path)) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}

// staticRoot returns the longest leading directory of pattern without glob
// metacharacters.
func staticRoot(pattern string) string {
	parts := strings.Split(pattern, "/")
	static := make([]string, 0, len(parts))
	for _, p := range parts[:len(parts)-1] {
		if strings.ContainsAny(p, `*?[{\`) {
			break
		}
		static = append(static, p)
	}

	root := strings.Join(static, "/")
	switch {
	case root == "" && strings.HasPrefix(pattern, "/"):
		return "/"
	case root == "":
		return "."
	}
	return filepath.FromSlash(root)
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
