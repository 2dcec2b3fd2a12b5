// Package fetch downloads the registry source dataset to a local file.
// Retrieval is a single best-effort attempt: no retry, no backoff. A
// failed download aborts the run and the previously stored snapshots stay
// untouched.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/logging"
)

// Client downloads snapshot files over HTTP.
type Client struct {
	http *http.Client
}

// New creates a fetch client with the default timeout.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: constants.DefaultHTTPTimeout},
	}
}

// NewWithHTTPClient creates a fetch client around an existing HTTP client.
func NewWithHTTPClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		return New()
	}
	return &Client{http: httpClient}
}

// Download fetches url and streams the response body to destPath, creating
// parent directories as needed. Non-2xx responses become an APIError.
func (c *Client) Download(ctx context.Context, url, destPath string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &errors.APIError{Endpoint: url, Message: "creating request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.APIError{Endpoint: url, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.NewAPIError(url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	file, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", destPath, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", destPath, cerr)
		}
	}()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		return errors.WrapIO("write", destPath, err)
	}

	logging.Debug().
		Str("url", url).
		Str("dest", destPath).
		Int64("bytes", written).
		Msg("Snapshot downloaded")

	return nil
}
