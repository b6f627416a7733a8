package installer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DownloadError reports a failed package download.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string { return fmt.Sprintf("downloading %s: %v", e.URL, e.Err) }
func (e *DownloadError) Unwrap() error { return e.Err }

// download fetches url into dest. The body is written to a uniquely named
// staging file next to dest and renamed into place only on success, so a
// failed or concurrent download never leaves a truncated archive under the
// final name.
func (inst *Installer) download(url, dest string) error {
	client := inst.Client
	if client == nil {
		client = http.DefaultClient
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", "kodictl")

	resp, err := client.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	staging := dest + ".partial-" + uuid.NewString()
	f, err := os.Create(staging)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(staging)
		return &DownloadError{URL: url, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return &DownloadError{URL: url, Err: err}
	}

	if err := os.Rename(staging, dest); err != nil {
		os.Remove(staging)
		return &DownloadError{URL: url, Err: err}
	}
	return nil
}
