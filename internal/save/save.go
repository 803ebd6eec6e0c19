// Package save writes downloaded scene data into a local output directory.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const maxNameLen = 120

func SanitizeName(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(strings.TrimSpace(b.String()), ".")
	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			cleaned = string(runes[:maxLen])
		}
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')':
		return true
	default:
		return false
	}
}

// PrepareDir validates an output directory and creates it when missing.
func PrepareDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output dir is required")
	}

	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("output dir cannot contain path traversal")
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("invalid output dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output dir is not a directory")
	}
	return nil
}

// WriteFile stores data as dir/name and returns the final path. The name is
// sanitized and the file only appears once fully written.
func WriteFile(dir, name string, data []byte) (string, error) {
	clean := SanitizeName(name, maxNameLen)
	if clean == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(dir, "."+clean+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", clean, err)
	}

	path := filepath.Join(dir, clean)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", clean, err)
	}
	return path, nil
}
