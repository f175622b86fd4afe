package pkgmanager

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// Downloader abstracts the network fetch packages.rs's `Downloader`
// trait names, so tests and offline callers can supply a fake without
// this package depending on a live registry.
//
// No HTTP client library appears anywhere in this module's example
// pack (see DESIGN.md's pkgmanager entry), so this default
// implementation uses net/http directly rather than inventing a
// dependency the corpus never shows a use for.
type Downloader interface {
	Download(url string) (io.ReadCloser, error)
}

// HTTPDownloader is the default Downloader, a thin net/http.Client
// wrapper.
type HTTPDownloader struct {
	Client *http.Client
}

// NewHTTPDownloader returns a downloader using http.DefaultClient.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{Client: http.DefaultClient}
}

func (d *HTTPDownloader) Download(url string) (io.ReadCloser, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, os.ErrNotExist
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("pkgmanager: download %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
