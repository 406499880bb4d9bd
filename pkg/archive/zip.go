// Package archive extracts downloaded export bundles.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ExtractZip unpacks zipPath into destDir and returns the extracted file
// paths relative to destDir. Entries that would escape the destination
// (absolute paths or ".." traversal) are rejected.
func ExtractZip(zipPath, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}

	var extracted []string
	for _, entry := range reader.File {
		relPath, err := safeRelPath(entry.Name)
		if err != nil {
			return nil, err
		}

		target := filepath.Join(destDir, relPath)
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %q: %w", relPath, err)
			}
			continue
		}

		if err := extractFile(entry, target); err != nil {
			return nil, fmt.Errorf("failed to extract %q: %w", relPath, err)
		}
		extracted = append(extracted, relPath)
	}

	return extracted, nil
}

func safeRelPath(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the extraction directory", name)
	}
	return cleaned, nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	in, err := entry.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
