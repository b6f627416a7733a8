package installer

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractError reports a corrupt archive or an unexpected archive layout.
type ExtractError struct {
	Archive string
	Err     error
}

func (e *ExtractError) Error() string { return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err) }
func (e *ExtractError) Unwrap() error { return e.Err }

// extractZip unpacks an addon archive into destDir. Addon packages expand
// into a top-level directory named after the addon id. Entries escaping
// destDir are rejected.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ExtractError{Archive: archivePath, Err: err}
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := entryPath(destDir, f.Name)
		if err != nil {
			return &ExtractError{Archive: archivePath, Err: err}
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return &ExtractError{Archive: archivePath, Err: err}
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return &ExtractError{Archive: archivePath, Err: err}
		}

		if err := writeEntry(f, target); err != nil {
			return &ExtractError{Archive: archivePath, Err: err}
		}
	}

	return nil
}

// entryPath joins an archive entry name onto destDir, rejecting absolute
// names and ".." traversal.
func entryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes the addons directory", name)
	}
	return target, nil
}

func writeEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode()
	if mode&0200 == 0 {
		mode |= 0200 // keep extracted files writable for later updates
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
