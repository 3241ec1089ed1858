// Package locator finds the candidate documents under an input root.
package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/leapstack-labs/doctrace/internal/diag"
)

// DefaultExtension is the recognized document extension when none is configured.
const DefaultExtension = ".md"

// IgnoreFileName is read from the input root, if present, for extra exclude patterns.
const IgnoreFileName = ".doctraceignore"

// ErrInputNotFound is returned (with an empty result) when the root does not exist.
var ErrInputNotFound = errors.New("input directory not found")

// Document is a file selected for scanning.
type Document struct {
	// Path is the path as discovered (root joined with the relative path).
	Path string
	// Key is the base filename, used as the graph identity.
	Key string
}

// NewDocument builds a Document for path.
func NewDocument(path string) Document {
	return Document{Path: path, Key: filepath.Base(path)}
}

// Options controls which files are selected.
type Options struct {
	// Extensions are matched case-insensitively; the leading dot is optional.
	Extensions []string
	// Ignore holds gitignore-style patterns relative to the root.
	Ignore []string
}

// Result is the outcome of a walk.
type Result struct {
	Documents []Document
	Warnings  []diag.Warning
}

// Locate walks root recursively and returns every file whose extension is
// recognized, in directory-walk order. A missing root yields an empty result
// together with ErrInputNotFound; unreadable subdirectories are skipped with
// a warning.
func Locate(root string, opts Options) (*Result, error) {
	res := &Result{}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("%w: %s", ErrInputNotFound, root)
		}
		return res, fmt.Errorf("failed to stat input directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, root)
	}

	allowed := normalizeExtensions(opts.Extensions)
	matcher, err := compileIgnore(root, opts.Ignore)
	if err != nil {
		return res, err
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			res.Warnings = append(res.Warnings, diag.Warning{
				Kind:    diag.KindFileRead,
				Path:    path,
				Message: fmt.Sprintf("skipped unreadable entry: %v", err),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		if matcher != nil {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil {
				rel = filepath.ToSlash(rel)
				if d.IsDir() {
					rel += "/"
				}
				if matcher.MatchesPath(rel) {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}
		}

		if d.IsDir() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		res.Documents = append(res.Documents, NewDocument(path))
		return nil
	})
	if walkErr != nil {
		return res, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	return res, nil
}

// normalizeExtensions lower-cases extensions and ensures a leading dot.
func normalizeExtensions(exts []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	if len(allowed) == 0 {
		allowed[DefaultExtension] = struct{}{}
	}
	return allowed
}

// compileIgnore merges configured patterns with the root's ignore file.
// Returns nil when there is nothing to ignore.
func compileIgnore(root string, patterns []string) (*ignore.GitIgnore, error) {
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, IgnoreFileName)) //nolint:gosec // G304: path is under the configured root
	switch {
	case err == nil:
		lines = append(lines, strings.Split(string(data), "\n")...)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	if len(lines) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(lines...), nil
}
