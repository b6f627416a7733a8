package catalog

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMirror is the Kodi project mirror the catalog URL is derived from.
const DefaultMirror = "http://mirrors.kodi.tv/addons"

// catalogFile is the compressed catalog document served per release.
const catalogFile = "addons.xml.gz"

// FetchError reports an unreachable or failed catalog download.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetching catalog %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// URL returns the catalog document location for a release under a mirror
// base, e.g. http://mirrors.kodi.tv/addons/leia/addons.xml.gz.
func URL(mirror, release string) string {
	return strings.TrimRight(mirror, "/") + "/" + release + "/" + catalogFile
}

// BaseURL returns the directory the catalog lives in. Every package path in
// the catalog is resolved relative to it.
func BaseURL(catalogURL string) string {
	i := strings.LastIndex(catalogURL, "/")
	if i < 0 {
		return catalogURL
	}
	return catalogURL[:i]
}

// Fetch downloads and parses the catalog for a release. A .gz catalog URL is
// decompressed transparently. Any network or parse failure is fatal for the
// run; no partial catalog is usable.
func Fetch(client *http.Client, catalogURL string) (*Index, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequest(http.MethodGet, catalogURL, nil)
	if err != nil {
		return nil, &FetchError{URL: catalogURL, Err: err}
	}
	req.Header.Set("User-Agent", "kodictl")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: catalogURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: catalogURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(catalogURL, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &FetchError{URL: catalogURL, Err: err}
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: catalogURL, Err: err}
	}

	return Parse(data)
}
