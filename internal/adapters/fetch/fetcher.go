// Package fetch implements the SourceFetcher port over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/zerr"
)

// Fetcher implements ports.SourceFetcher.
// The client carries no timeout: a fetch only ends when the server answers or ctx is cancelled.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher with a dedicated client.
func NewFetcher() *Fetcher {
	return &Fetcher{httpClient: &http.Client{}}
}

// NewFetcherWithClient creates a Fetcher using client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{httpClient: client}
}

// Fetch downloads the tagged archive of meta and returns the whole body.
func (f *Fetcher) Fetch(ctx context.Context, meta domain.RepositoryMetadata) ([]byte, error) {
	url := meta.ArchiveURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, domain.Fail(domain.ErrFetch, zerr.With(zerr.Wrap(err, "failed to build request"), "url", url))
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.Fail(domain.ErrFetch, zerr.With(zerr.Wrap(err, "request failed"), "url", url))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := zerr.Wrap(domain.ErrUnexpectedStatus, fmt.Sprintf("GET %s returned %d", url, resp.StatusCode))
		statusErr = zerr.With(statusErr, "status_code", resp.StatusCode)
		return nil, domain.Fail(domain.ErrFetch, zerr.With(statusErr, "url", url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Fail(domain.ErrFetch, zerr.With(zerr.Wrap(err, "failed to read response body"), "url", url))
	}

	return body, nil
}
